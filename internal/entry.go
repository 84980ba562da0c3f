// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/starford/quire/internal/api"
	"github.com/starford/quire/internal/builder"
	"github.com/starford/quire/internal/catalog"
	"github.com/starford/quire/internal/mcpserver"
	"github.com/starford/quire/internal/metrics"
	"github.com/starford/quire/internal/postservice"
	"github.com/starford/quire/internal/render"
	"github.com/starford/quire/internal/sample"
	"github.com/starford/quire/internal/sse"
	"github.com/starford/quire/internal/storage"
)

func newApplication(opts []Option) (*application, error) {
	app := &application{out: os.Stdout, logOut: os.Stdout, version: "dev"}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	return app, nil
}

func (a *application) logger() *slog.Logger {
	cfg := a.config
	hopts := &slog.HandlerOptions{Level: cfg.App.LogLevel}
	var h slog.Handler
	if cfg.App.LogFormat == LogFormatJSON {
		h = slog.NewJSONHandler(a.logOut, hopts)
	} else {
		h = slog.NewTextHandler(a.logOut, hopts)
	}
	logger := slog.New(h)
	slog.SetDefault(logger)
	return logger
}

func (a *application) builder(logger *slog.Logger, rec metrics.Recorder) *builder.Builder {
	cfg := a.config
	return builder.New(cfg.Site.Site(), render.NewGoldmark(cfg.Render.Options()),
		builder.WithLogger(logger),
		builder.WithRecorder(rec),
		builder.WithSubstitution(cfg.Template.Mode()),
	)
}

// Run builds every post and the posts index once.
func Run(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	logger := app.logger()

	report, err := app.builder(logger, metrics.NoopRecorder{}).Build(ctx)
	if err != nil {
		return err
	}
	logger.Info("Build complete",
		slog.String("build_id", report.ID),
		slog.Int("posts", len(report.Posts)),
		slog.Int("skipped", len(report.Skipped)),
		slog.String("output_dir", app.config.Site.OutputDir),
		slog.Duration("duration", report.Duration))
	return nil
}

// CreateSample writes the demonstration post into the posts directory unless
// it already exists. No build runs.
func CreateSample(_ context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	created, p, err := sample.Create(app.config.Site.PostsDir)
	if err != nil {
		return err
	}
	if created {
		fmt.Fprintf(app.out, "Created sample post: %s\nNow run the build without --sample.\n", p)
	} else {
		fmt.Fprintf(app.out, "Sample post already exists: %s\n", p)
	}
	return nil
}

// services holds the pieces shared by the long-running modes.
type services struct {
	logger *slog.Logger
	store  *storage.FS
	cat    *catalog.DB
	svc    *postservice.Service
}

func (a *application) services(rec metrics.Recorder) (*services, error) {
	cfg := a.config
	logger := a.logger()

	logger.Info("Configuration loaded",
		slog.String("posts_dir", cfg.Site.PostsDir),
		slog.String("output_dir", cfg.Site.OutputDir),
		slog.String("template_file", cfg.Site.TemplateFile),
		slog.String("catalog_path", cfg.Catalog.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	store, err := storage.NewFS(cfg.Site.PostsDir)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	cat, err := catalog.Open(cfg.Catalog.Path)
	if err != nil {
		return nil, fmt.Errorf("init catalog: %w", err)
	}
	svc := postservice.NewService(a.builder(logger, rec), store, cat, logger)
	return &services{logger: logger, store: store, cat: cat, svc: svc}, nil
}

// watch rebuilds through the post service whenever sources change.
func (deps *services) watch(ctx context.Context, cfg *Config, cb builder.BuildCallback) error {
	return builder.Watch(ctx, cfg.Site.Site(), cfg.Watch.Debounce, deps.logger, deps.svc.Rebuild, cb)
}

// waitForSignal blocks until SIGINT/SIGTERM or ctx is done.
func waitForSignal(ctx context.Context, logger *slog.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case sig := <-quit:
		logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
	case <-ctx.Done():
		logger.Info("Context cancelled, initiating shutdown")
	}
}

// Watch builds once and then rebuilds on every change until interrupted.
func Watch(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	deps, err := app.services(metrics.NoopRecorder{})
	if err != nil {
		return err
	}
	defer deps.cat.Close()

	if _, err := deps.svc.Rebuild(ctx); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return deps.watch(gCtx, app.config, nil)
	})
	g.Go(func() error {
		waitForSignal(gCtx, deps.logger)
		cancel()
		return nil
	})

	return g.Wait()
}

// Serve builds the site, then serves the preview API, the generated pages
// and build events while rebuilding on change.
func Serve(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	var rec metrics.Recorder = metrics.NoopRecorder{}
	reg := prometheus.NewRegistry()
	if cfg.Metrics.Enabled {
		rec = metrics.NewPrometheusRecorder(reg)
	}

	deps, err := app.services(rec)
	if err != nil {
		return err
	}
	defer deps.cat.Close()
	logger := deps.logger

	// SSE broker.
	broker := sse.NewBroker(2 * time.Second)
	defer broker.Close()
	deps.svc.OnRebuild(broker.PublishBuild)

	if _, err := deps.svc.Rebuild(ctx); err != nil {
		return err
	}

	apiRouter := api.NewRouter(deps.svc, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if _, err := deps.cat.Stats(); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"unavailable"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if cfg.Metrics.Enabled {
		r.Handle("/metrics", metrics.HTTPHandler(reg))
	}

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	mountSite(r, cfg.Site)

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	ctx, stop := context.WithCancel(ctx)
	defer stop()
	g, gCtx := errgroup.WithContext(ctx)

	// Start file watcher; failures go to SSE clients.
	g.Go(func() error {
		return deps.watch(gCtx, cfg, func(_ *builder.Report, err error) {
			if err != nil {
				broker.PublishBuildError(err)
			}
		})
	})

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		waitForSignal(gCtx, logger)

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}
		// Stops the watcher when shutdown came from a signal.
		stop()
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// mountSite serves the generated pages under the URL prefix and the posts
// index at /posts.json.
func mountSite(r chi.Router, site SiteConfig) {
	prefix := "/" + strings.Trim(site.URLPrefix, "/")
	files := http.FileServer(http.Dir(site.OutputDir))
	if prefix == "/" {
		r.Handle("/*", files)
	} else {
		r.Handle(prefix+"/*", http.StripPrefix(prefix, files))
	}
	r.Get("/"+path.Base(site.IndexFile), func(w http.ResponseWriter, req *http.Request) {
		http.ServeFile(w, req, site.IndexFile)
	})
}

// ServeMCP builds the site and serves MCP tools on stdio until stdin closes.
// Sources are watched so the catalog follows edits made outside the tools.
func ServeMCP(ctx context.Context, opts ...Option) error {
	// stdout carries the protocol.
	opts = append([]Option{WithLogOutput(os.Stderr)}, opts...)
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	deps, err := app.services(metrics.NoopRecorder{})
	if err != nil {
		return err
	}
	defer deps.cat.Close()

	if _, err := deps.svc.Rebuild(ctx); err != nil {
		return err
	}

	srv := mcpserver.New(deps.svc, deps.store, app.version)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		return srv.ServeStdio()
	})
	g.Go(func() error {
		return deps.watch(gCtx, app.config, nil)
	})
	return g.Wait()
}
