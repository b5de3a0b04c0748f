package resource

import (
	"context"
	"errors"
	"fmt"
	"strings"

	stdnet "lineclamp/std/net"
)

// ErrLocalResource is returned by a network-only fetcher for URIs that do
// not resolve to an http(s) URL.
var ErrLocalResource = errors.New("local resources are not allowed")

// Fetcher retrieves resources by URI.
type Fetcher interface {
	Fetch(ctx context.Context, uri string) (body []byte, contentType string, err error)
}

// DefaultFetcher reads http(s) URLs and local paths, resolving relative
// URIs against a base URL or file path.
type DefaultFetcher struct {
	baseURL     string
	networkOnly bool
}

// NewFetcher creates a DefaultFetcher with the given base.
// Relative URIs passed to Fetch will be resolved against this base.
func NewFetcher(baseURL string) *DefaultFetcher {
	return &DefaultFetcher{baseURL: baseURL}
}

// NewNetworkFetcher is like NewFetcher but refuses anything that does not
// resolve to an http(s) URL, including file:// links on fetched pages.
func NewNetworkFetcher(baseURL string) *DefaultFetcher {
	return &DefaultFetcher{baseURL: baseURL, networkOnly: true}
}

// Fetch retrieves the resource at the given URI. Local files report no
// content type.
func (f *DefaultFetcher) Fetch(ctx context.Context, uri string) ([]byte, string, error) {
	resolved := uri
	if !stdnet.IsNetworkURL(uri) && f.baseURL != "" {
		resolved = stdnet.ResolveURL(f.baseURL, uri)
	}
	if stdnet.IsNetworkURL(resolved) {
		return stdnet.Fetch(ctx, resolved)
	}
	if f.networkOnly {
		return nil, "", fmt.Errorf("%w: %s", ErrLocalResource, resolved)
	}
	body, err := stdnet.Load(ctx, resolved)
	return body, "", err
}

// FetchCSS fetches a stylesheet URI and returns its text content.
// Returns an error if the content type does not look like CSS or text.
func FetchCSS(ctx context.Context, f Fetcher, uri string) (string, error) {
	body, contentType, err := f.Fetch(ctx, uri)
	if err != nil {
		return "", err
	}
	ct := strings.ToLower(contentType)
	if ct != "" && !strings.HasPrefix(ct, "text/") && !strings.Contains(ct, "css") {
		return "", fmt.Errorf("unexpected content type for CSS: %s", contentType)
	}
	return string(body), nil
}
