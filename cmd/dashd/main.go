package main

import (
	"context"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/openclaw/dashboard/internal/api"
	"github.com/openclaw/dashboard/internal/config"
	"github.com/openclaw/dashboard/internal/docs"
	"github.com/openclaw/dashboard/internal/eventbus"
	"github.com/openclaw/dashboard/internal/idgen"
	"github.com/openclaw/dashboard/internal/state"
	"github.com/openclaw/dashboard/internal/status"
	"github.com/openclaw/dashboard/internal/web"
)

const version = "2.0.0"

func main() {
	cfg := config.Load()
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		log.Fatalf("create data dir: %v", err)
	}
	if err := os.MkdirAll(cfg.DocsDir, 0o755); err != nil {
		log.Fatalf("create docs dir: %v", err)
	}

	db, err := state.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	store := state.NewStore(db)
	bus := eventbus.NewBus()
	statusMgr := status.NewManager(store, bus, cfg.DefaultAgent)
	resolver := &docs.Resolver{
		Store:         store,
		WorkspaceRoot: cfg.WorkspaceRoot,
		DocsDir:       cfg.DocsDir,
		DashboardDir:  cfg.DashboardDir,
	}

	apiServer := &api.Server{
		Store:        store,
		Status:       statusMgr,
		Bus:          bus,
		Docs:         resolver,
		AgentsConfig: cfg.AgentsConfig,
		StartedAt:    time.Now(),
		Version:      version,
	}
	webServer := &web.Server{Dir: cfg.WebDir}

	mux := http.NewServeMux()
	mux.Handle("/api/", apiServer.Handler())
	mux.Handle("/{$}", apiServer.HealthHandler())
	mux.Handle("/", webServer.Handler())

	listener, err := net.Listen("tcp", cfg.HTTPAddr)
	if err != nil {
		log.Fatalf("listen: %v", err)
	}

	serverCtx, serverCancel := context.WithCancel(context.Background())
	httpServer := &http.Server{
		Handler:           loggingMiddleware(mux),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return serverCtx
		},
	}

	if err := store.AddLog(context.Background(), "System Started", "Dashboard backend online", "system"); err != nil {
		log.Printf("startup log failed: %v", err)
	}

	go func() {
		log.Printf("dashd listening on %s", listener.Addr())
		if err := httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	serverCancel()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}
	_ = httpServer.Close()
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqID := idgen.New()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s req=%s", r.Method, r.URL.Path, time.Since(start), reqID)
	})
}
