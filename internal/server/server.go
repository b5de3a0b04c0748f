package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"lineclamp/internal/config"
	"lineclamp/internal/metrics"
	"lineclamp/pkg/clamp"
	"lineclamp/pkg/resource"
	"lineclamp/pkg/text"
	stdnet "lineclamp/std/net"
)

// MaxRequestBody caps the size of a POST /clamp body.
const MaxRequestBody = 4 << 20

// flexString accepts a JSON string, number or boolean.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*f = flexString(strconv.FormatBool(b))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string, number or boolean: %s", data)
	}
	*f = flexString(n.String())
	return nil
}

// Options mirrors the keys accepted by the script clamp() function.
type Options struct {
	Clamp          flexString `json:"clamp"`
	UseNativeClamp *bool      `json:"useNativeClamp"`
	SplitOnChars   []string   `json:"splitOnChars"`
	Animate        flexString `json:"animate"`
	TruncationChar *string    `json:"truncationChar"`
	TruncationHTML string     `json:"truncationHTML"`
}

func (o Options) config() clamp.Config {
	return clamp.Config{
		Clamp:          string(o.Clamp),
		UseNativeClamp: o.UseNativeClamp,
		SplitOnChars:   o.SplitOnChars,
		Animate:        string(o.Animate),
		TruncationChar: o.TruncationChar,
		TruncationHTML: o.TruncationHTML,
	}
}

// Request is the body of POST /clamp. Exactly one of HTML and URL is set.
type Request struct {
	HTML     string           `json:"html"`
	URL      string           `json:"url"`
	Selector string           `json:"selector"`
	Options  Options          `json:"options"`
	Viewport *config.Viewport `json:"viewport"`
	Scripts  bool             `json:"scripts"`
	PNG      bool             `json:"png"`
}

// ElementResult reports one clamped element.
type ElementResult struct {
	HTML      string  `json:"html"`
	Lines     int     `json:"lines"`
	Height    float64 `json:"height"`
	Truncated bool    `json:"truncated"`
	Exhausted bool    `json:"exhausted"`
	Native    bool    `json:"native"`
	Steps     int     `json:"steps"`
}

// Response is the body returned by POST /clamp.
type Response struct {
	Document string          `json:"document"`
	Elements []ElementResult `json:"elements"`
	PNG      string          `json:"png,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Server exposes clamping over HTTP.
type Server struct {
	cfg      *config.Config
	log      *slog.Logger
	metrics  *metrics.Collector
	gatherer prometheus.Gatherer
	fonts    text.Metrics
}

// New creates a server. Metrics are registered with reg and served from
// /metrics.
func New(cfg *config.Config, log *slog.Logger, reg *prometheus.Registry) *Server {
	return &Server{
		cfg:      cfg,
		log:      log,
		metrics:  metrics.NewCollector(reg),
		gatherer: reg,
	}
}

// SetTextMetrics replaces the font measurer used for layout. m is shared
// by concurrent requests.
func (s *Server) SetTextMetrics(m text.Metrics) { s.fonts = m }

// textMetrics returns the measurer for one request. Loaded font faces are
// not safe to share between concurrent renderers, so each request gets
// its own unless one was installed with SetTextMetrics.
func (s *Server) textMetrics() text.Metrics {
	if s.fonts != nil {
		return s.fonts
	}
	return text.NewFontMetrics(s.cfg.Fonts)
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok","service":"lineclamp"}`))
	})
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	r.Post("/clamp", s.Clamp)
	return r
}

// Clamp handles POST /clamp: it loads the page, clamps every element the
// selector matches and returns the resulting HTML.
func (s *Server) Clamp(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxRequestBody)).Decode(&req); err != nil {
		s.fail(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if (req.HTML == "") == (req.URL == "") {
		s.fail(w, http.StatusBadRequest, errors.New("exactly one of html and url is required"))
		return
	}
	if req.URL != "" && !stdnet.IsNetworkURL(req.URL) {
		s.fail(w, http.StatusBadRequest, errors.New("url must be an http or https URL"))
		return
	}
	if req.Selector == "" {
		s.fail(w, http.StatusBadRequest, errors.New("selector is required"))
		return
	}

	clampOpts, err := s.cfg.Clamp.Merge(req.Options.config()).Options()
	if err != nil {
		s.fail(w, http.StatusBadRequest, err)
		return
	}
	// the response carries final results, so steps are never paced
	clampOpts.Pacing = clamp.Pacing{Mode: clamp.PacingOff}

	opts := resource.PageOptions{
		Width:           s.cfg.Viewport.Width,
		Height:          s.cfg.Viewport.Height,
		Metrics:         s.textMetrics(),
		NativeLineClamp: s.cfg.NativeClamp(),
		Log:             s.log,
	}
	if req.Viewport != nil && req.Viewport.Width > 0 && req.Viewport.Height > 0 {
		opts.Width, opts.Height = req.Viewport.Width, req.Viewport.Height
	}

	ctx := r.Context()
	var page *resource.Page
	if req.URL != "" {
		page, err = resource.Load(ctx, resource.NewNetworkFetcher(req.URL), req.URL, opts)
		if err != nil {
			s.fail(w, http.StatusBadGateway, err)
			return
		}
	} else {
		page, err = resource.Parse(ctx, nil, req.HTML, opts)
		if err != nil {
			s.fail(w, http.StatusBadRequest, err)
			return
		}
	}

	if req.Scripts {
		if _, err := page.RunScripts(ctx, s.metrics); err != nil {
			s.log.Warn("page scripts failed", "error", err)
		}
	}

	targets := page.QueryAll(req.Selector)
	if len(targets) == 0 {
		s.fail(w, http.StatusNotFound, fmt.Errorf("no element matches %q", req.Selector))
		return
	}

	clamper := page.Clamper()
	clamper.SetObserver(s.metrics)
	resp := Response{}
	for _, el := range targets {
		run, err := clamper.Start(ctx, el, clampOpts)
		if err != nil {
			s.fail(w, http.StatusUnprocessableEntity, err)
			return
		}
		res, err := run.Wait()
		if err != nil {
			s.fail(w, http.StatusServiceUnavailable, err)
			return
		}
		resp.Elements = append(resp.Elements, ElementResult{
			HTML:      el.SerializeOuter(),
			Lines:     res.Lines,
			Height:    res.Height,
			Truncated: res.Truncated,
			Exhausted: res.Exhausted,
			Native:    res.Native,
			Steps:     res.Steps,
		})
	}
	resp.Document = page.Serialize()

	if req.PNG {
		var buf bytes.Buffer
		if err := page.WritePNG(&buf); err != nil {
			s.fail(w, http.StatusInternalServerError, err)
			return
		}
		resp.PNG = base64.StdEncoding.EncodeToString(buf.Bytes())
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.log.Error("clamp response encode failed", "error", err)
	}
}

func (s *Server) fail(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.log.Error("clamp request failed", "status", status, "error", err)
	} else {
		s.log.Warn("clamp request rejected", "status", status, "error", err)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: err.Error()})
}
