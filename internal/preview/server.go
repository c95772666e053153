package preview

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/html"

	"github.com/vango-dev/spark/internal/config"
	"github.com/vango-dev/spark/internal/errors"
	"github.com/vango-dev/spark/internal/treefile"
	"github.com/vango-dev/spark/pkg/component"
	"github.com/vango-dev/spark/pkg/deps"
	"github.com/vango-dev/spark/pkg/dom"
	"github.com/vango-dev/spark/pkg/htmljs"
	"github.com/vango-dev/spark/pkg/metrics"
	"github.com/vango-dev/spark/pkg/render"
	"github.com/vango-dev/spark/pkg/ui"
)

// Options configures a preview Server.
type Options struct {
	// TreePath is the tree file to serve.
	TreePath string

	// Config is the CLI configuration. Defaults to config.New().
	Config *config.Config

	// Logger receives server logs. Defaults to slog.Default().
	Logger *slog.Logger

	// Registry receives the engine metrics. Defaults to a fresh registry.
	Registry *prometheus.Registry

	// Debounce overrides the file watcher debounce.
	Debounce time.Duration
}

// Server is the live preview server.
type Server struct {
	cfg      *config.Config
	path     string
	logger   *slog.Logger
	registry *prometheus.Registry
	debounce time.Duration
	hub      *Hub
	router   chi.Router

	// mu guards the reactive state below. The scheduler and engine are
	// single-threaded.
	mu      sync.Mutex
	tracker *deps.Scheduler
	engine  *ui.Engine
	body    *html.Node
	doc     *treefile.Document
	tree    *treefile.Tree
	inst    *component.Instance
	lastErr error
}

// New loads the tree file and mounts its page.
func New(opts Options) (*Server, error) {
	s := &Server{
		cfg:      opts.Config,
		path:     opts.TreePath,
		logger:   opts.Logger,
		registry: opts.Registry,
		debounce: opts.Debounce,
		hub:      NewHub(),
	}
	if s.cfg == nil {
		s.cfg = config.New()
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.registry == nil {
		s.registry = prometheus.NewRegistry()
	}

	collector := metrics.New(metrics.WithRegistry(s.registry))
	s.tracker = deps.New(deps.WithLogger(s.logger), deps.WithObserver(collector))
	backend := dom.NewHTMLBackend()
	s.engine = ui.New(ui.Config{
		Tracker:  s.tracker,
		Backend:  backend,
		Logger:   s.logger,
		Observer: collector,
		OnError: func(err error) {
			s.hub.Broadcast(Message{Type: MessageError, Error: err.Error()})
		},
	})
	s.body = backend.CreateElement("div")

	doc, err := treefile.Load(s.path)
	if err != nil {
		return nil, err
	}
	s.mount(doc)

	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/", s.handlePage)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	r.Route("/_spark", func(r chi.Router) {
		r.Get("/ws", func(w http.ResponseWriter, req *http.Request) {
			s.hub.HandleWebSocket(w, req, s.currentMessage)
		})
		r.Get("/vars", s.handleVars)
		r.Post("/vars/{name}", s.handleSetVar)
	})
	return r
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Hub returns the WebSocket hub.
func (s *Server) Hub() *Hub { return s.hub }

// mount replaces the mounted page with doc's. Callers hold s.mu or have
// exclusive access.
func (s *Server) mount(doc *treefile.Document) {
	if s.inst != nil {
		s.engine.Unmount(s.inst)
	}
	s.doc = doc
	s.tree = doc.Bind(s.tracker)
	s.inst = s.engine.Mount(s.tree.Page(), nil, s.body)
	s.lastErr = nil
	s.logger.Info("preview: page mounted", "tree", doc.String())
}

// HTML returns the current markup of the page body.
func (s *Server) HTML() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return dom.InnerHTML(s.body)
}

// Reload re-reads the tree file. On failure the current page stays mounted
// and the error is pushed to browsers.
func (s *Server) Reload() error {
	doc, err := treefile.Load(s.path)

	s.mu.Lock()
	if err != nil {
		s.lastErr = err
		s.mu.Unlock()
		s.logger.Error("preview: reload failed", "path", s.path, "error", err)
		s.hub.Broadcast(Message{Type: MessageError, Error: err.Error()})
		return err
	}
	s.mount(doc)
	markup := dom.InnerHTML(s.body)
	s.mu.Unlock()

	s.hub.Broadcast(Message{Type: MessageContent, HTML: markup})
	return nil
}

// SetVar changes a tree variable, flushes pending updates and pushes the new
// markup.
func (s *Server) SetVar(name, value string) error {
	s.mu.Lock()
	if err := s.tree.Set(name, value); err != nil {
		s.mu.Unlock()
		return err
	}
	s.tracker.Flush()
	markup := dom.InnerHTML(s.body)
	s.mu.Unlock()

	s.logger.Debug("preview: variable set", "name", name, "value", value)
	s.hub.Broadcast(Message{Type: MessageContent, HTML: markup})
	return nil
}

// Vars returns the current variable values.
func (s *Server) Vars() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tree.Vars()
}

func (s *Server) currentMessage() Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastErr != nil {
		return Message{Type: MessageError, Error: s.lastErr.Error()}
	}
	return Message{Type: MessageContent, HTML: dom.InnerHTML(s.body)}
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	title := s.doc.Title
	markup := dom.InnerHTML(s.body)
	s.mu.Unlock()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := render.RenderPage(w, render.PageData{
		Title: title,
		Body: htmljs.H("div", htmljs.Attrs{"id": htmljs.String("spark-root")},
			htmljs.Raw{Value: markup}),
		Scripts: []render.ScriptTag{{Inline: clientScript}},
	})
	if err != nil {
		s.logger.Warn("preview: page write failed", "error", err)
	}
}

func (s *Server) handleVars(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Vars())
}

type setVarRequest struct {
	Value string `json:"value"`
}

func (s *Server) handleSetVar(w http.ResponseWriter, r *http.Request) {
	var req setVarRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}

	name := chi.URLParam(r, "name")
	if err := s.SetVar(name, req.Value); err != nil {
		status := http.StatusInternalServerError
		if errors.HasCode(err, errors.CodeUnknownVar) {
			status = http.StatusNotFound
		}
		writeJSON(w, status, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{name: req.Value})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// Run serves until ctx is done, reloading the tree file on change when
// watching is enabled.
func (s *Server) Run(ctx context.Context) error {
	if s.cfg.WatchEnabled() {
		w, err := NewWatcher(s.path, s.debounce, s.logger, func() {
			s.Reload()
		})
		if err != nil {
			return err
		}
		w.Start(ctx)
		defer w.Close()
	}

	srv := &http.Server{
		Addr:              s.cfg.ServeAddress(),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("preview: listening", "addr", srv.Addr, "tree", s.path)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.hub.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

// Close unmounts the page and disconnects all clients.
func (s *Server) Close() {
	s.hub.Close()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inst != nil {
		s.engine.Unmount(s.inst)
		s.inst = nil
	}
}
