package net

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/page":
			assert.True(t, strings.HasPrefix(r.UserAgent(), "lineclamp/"))
			w.Header().Set("Content-Type", "text/html")
			w.Write([]byte("<p>hi</p>"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	body, ct, err := Fetch(context.Background(), srv.URL+"/page")
	require.NoError(t, err)
	assert.Equal(t, "<p>hi</p>", string(body))
	assert.Equal(t, "text/html", ct)

	_, _, err = Fetch(context.Background(), srv.URL+"/missing")
	assert.ErrorContains(t, err, "HTTP 404")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err = Fetch(ctx, srv.URL+"/page")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.html")
	require.NoError(t, os.WriteFile(path, []byte("<div>x</div>"), 0o644))

	for _, src := range []string{path, "file://" + path} {
		body, err := Load(context.Background(), src)
		require.NoError(t, err, src)
		assert.Equal(t, "<div>x</div>", string(body))
	}

	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "nope.html"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestResolveURL(t *testing.T) {
	assert.Equal(t, "http://example.com/css/site.css", ResolveURL("http://example.com/pages/a.html", "../css/site.css"))
	assert.Equal(t, "https://cdn.example.com/x.css", ResolveURL("http://example.com/", "https://cdn.example.com/x.css"))
	assert.True(t, IsNetworkURL("https://example.com"))
	assert.False(t, IsNetworkURL("/tmp/page.html"))
}
