package cli

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/matzehuels/dendro/pkg/buildinfo"
	derrors "github.com/matzehuels/dendro/pkg/errors"
	"github.com/matzehuels/dendro/pkg/observability"
	"github.com/matzehuels/dendro/pkg/pipeline"
	"github.com/matzehuels/dendro/pkg/render"
)

// maxBodyBytes caps the size of a posted Newick document.
const maxBodyBytes = 8 << 20

// headerRequestID carries the request ID in both directions.
const headerRequestID = "X-Request-ID"

// contentTypes maps each output format to its response media type.
var contentTypes = map[string]string{
	render.FormatSVG:  "image/svg+xml",
	render.FormatHTML: "text/html; charset=utf-8",
	render.FormatDOT:  "text/vnd.graphviz; charset=utf-8",
	render.FormatText: "text/plain; charset=utf-8",
	render.FormatJSON: "application/json",
	render.FormatPDF:  "application/pdf",
	render.FormatPNG:  "image/png",
}

// serveCommand creates the HTTP API command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string
	var noCache bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve layouts and renderings over HTTP",
		Long: `Serve layouts and renderings over HTTP.

Endpoints:
  POST /v1/layout?mode=grid|continuous   Newick body, JSON geometry response
  POST /v1/render?format=svg|html|dot|txt|json
  GET  /healthz

Every response carries an X-Request-ID header.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("addr") {
				addr = c.Config.Addr
			}
			return c.runServe(cmd.Context(), addr, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", DefaultConfig().Addr, "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	observability.SetHTTPHooks(&logHooks{logger: c.Logger})

	srv := &http.Server{
		Addr:              addr,
		Handler:           c.router(runner),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()
	c.Logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return derrors.Wrap(derrors.ErrCodeInternal, err, "listen on %s", addr)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	c.Logger.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}

// router builds the HTTP handler around runner.
func (c *CLI) router(runner *pipeline.Runner) http.Handler {
	h := &apiHandler{cli: c, runner: runner}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": buildinfo.Version})
	})
	r.Route("/v1", func(r chi.Router) {
		r.Post("/layout", h.layout)
		r.Post("/render", h.render)
	})
	return r
}

// =============================================================================
// Middleware
// =============================================================================

type requestIDKey struct{}

// requestID assigns each request an ID, reusing the client's when it sent
// one, opens a span for it and reports it to the HTTP hooks.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(headerRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		ctx := context.WithValue(r.Context(), requestIDKey{}, id)
		ctx, span := otel.Tracer(appName+"/serve").Start(ctx, r.Method+" "+r.URL.Path,
			oteltrace.WithSpanKind(oteltrace.SpanKindServer),
			oteltrace.WithAttributes(attribute.String("dendro.request_id", id)))
		defer span.End()
		w.Header().Set(headerRequestID, id)

		hooks := observability.HTTP()
		hooks.OnRequest(ctx, id, r.Method, r.URL.Path)
		start := time.Now()

		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r.WithContext(ctx))

		span.SetAttributes(attribute.Int("http.status_code", sw.status))
		if sw.status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(sw.status))
		}
		hooks.OnResponse(ctx, id, r.Method, r.URL.Path, sw.status, time.Since(start))
	})
}

// requestIDFrom returns the ID assigned by [requestID].
func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// =============================================================================
// Handlers
// =============================================================================

type apiHandler struct {
	cli    *CLI
	runner *pipeline.Runner
}

// layout handles POST /v1/layout.
func (h *apiHandler) layout(w http.ResponseWriter, r *http.Request) {
	opts, err := h.options(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	opts.Formats = []string{render.FormatJSON}
	h.run(w, r, opts)
}

// render handles POST /v1/render.
func (h *apiHandler) render(w http.ResponseWriter, r *http.Request) {
	opts, err := h.options(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	format := r.URL.Query().Get("format")
	if format == "" {
		format = render.FormatSVG
	}
	opts.Formats = []string{format}
	h.run(w, r, opts)
}

func (h *apiHandler) run(w http.ResponseWriter, r *http.Request, opts pipeline.Options) {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	result, err := h.runner.Execute(r.Context(), body, opts)
	if err != nil {
		writeError(w, r, err)
		return
	}
	format := opts.Formats[0]
	w.Header().Set("Content-Type", contentTypes[format])
	if result.CacheInfo.LayoutHit {
		w.Header().Set("X-Cache", "hit")
	} else {
		w.Header().Set("X-Cache", "miss")
	}
	w.WriteHeader(http.StatusOK)
	w.Write(result.Artifacts[format])
}

// options reads pipeline options from the query string, falling back to
// the config file for anything not given.
func (h *apiHandler) options(r *http.Request) (pipeline.Options, error) {
	cfg := h.cli.Config
	q := r.URL.Query()
	precision := cfg.Precision

	opts := pipeline.Options{
		Source:       "request " + requestIDFrom(r.Context()),
		Mode:         cfg.Mode,
		RowsPerTip:   cfg.RowsPerTip,
		Width:        cfg.Width,
		Height:       cfg.Height,
		LabelReserve: cfg.LabelReserve,
		Precision:    &precision,
		Margin:       cfg.Margin,
		LabelPadding: cfg.LabelPadding,
		Style:        q.Get("style"),
		Title:        q.Get("title"),
		Logger:       h.cli.Logger,
	}
	if m := q.Get("mode"); m != "" {
		opts.Mode = m
	}

	ints := []struct {
		name string
		dst  *int
	}{
		{"rows_per_tip", &opts.RowsPerTip},
		{"width", &opts.Width},
		{"height", &opts.Height},
		{"label_reserve", &opts.LabelReserve},
		{"index", &opts.Index},
		{"precision", &precision},
	}
	for _, p := range ints {
		s := q.Get(p.name)
		if s == "" {
			continue
		}
		v, err := strconv.Atoi(s)
		if err != nil {
			return opts, derrors.New(derrors.ErrCodeInvalidInput, "%s: not an integer: %q", p.name, s)
		}
		if p.name != "index" && p.name != "label_reserve" && p.name != "precision" {
			if err := derrors.ValidatePositive(p.name, float64(v)); err != nil {
				return opts, err
			}
		}
		*p.dst = v
	}
	if q.Get("no_labels") == "true" {
		opts.NoLabels = true
	}
	if q.Get("refresh") == "true" {
		opts.Refresh = true
	}
	return opts, nil
}

// =============================================================================
// Responses
// =============================================================================

type errorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := derrors.HTTPStatus(err)
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		status = http.StatusRequestEntityTooLarge
	}
	code := string(derrors.GetCode(err))
	if code == "" {
		code = string(derrors.ErrCodeInternal)
	}
	writeJSON(w, status, errorResponse{
		Code:      code,
		Message:   derrors.UserMessage(err),
		RequestID: requestIDFrom(r.Context()),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
