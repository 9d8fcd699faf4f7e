// Command roadpulsed is the RoadPulse platform service.
// It serves the segment ingest, scoring, scheduling, and export API,
// and a health check.
package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"github.com/roadpulse/roadpulse/internal/api"
	"github.com/roadpulse/roadpulse/internal/export"
	"github.com/roadpulse/roadpulse/internal/platform"
	"github.com/roadpulse/roadpulse/internal/store"
	configpkg "github.com/roadpulse/roadpulse/pkg/config"
	"github.com/roadpulse/roadpulse/pkg/scoring"
)

type config struct {
	Port          string
	DatabaseURL   string
	ScoringURL    string
	APIKey        string
	ExportBackend string
	ExportDir     string
	ExportBucket  string
	ExportRegion  string
	AsOf          string // pinned reference date for demos; empty = wall clock
}

func loadConfig() config {
	return config{
		Port:          envOrDefault("PORT", "8080"),
		DatabaseURL:   envOrDefault("DATABASE_URL", "postgres://localhost:5432/roadpulse?sslmode=disable"),
		ScoringURL:    os.Getenv("SCORING_SERVICE_URL"),
		APIKey:        os.Getenv("API_KEY"),
		ExportBackend: envOrDefault("EXPORT_BACKEND", "local"),
		ExportDir:     envOrDefault("EXPORT_DIR", "/tmp/roadpulse-exports"),
		ExportBucket:  os.Getenv("EXPORT_BUCKET"),
		ExportRegion:  os.Getenv("EXPORT_REGION"),
		AsOf:          os.Getenv("AS_OF"),
	}
}

func main() {
	cfg := loadConfig()

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("ping database: %v", err)
	}

	if err := platform.AutoMigrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	// Initialize services
	st := store.NewService(db)

	var remote *scoring.RemoteClient
	if cfg.ScoringURL != "" {
		remote = scoring.NewRemoteClient(cfg.ScoringURL, 10*time.Second)
	} else {
		log.Println("SCORING_SERVICE_URL not set, using local formula only")
	}
	provider := scoring.NewProvider(remote, scoring.DefaultConcurrency)

	exporter, err := export.NewStorage(context.Background(), configpkg.ExportConfig{
		Backend: cfg.ExportBackend,
		Dir:     cfg.ExportDir,
		Bucket:  cfg.ExportBucket,
		Region:  cfg.ExportRegion,
	})
	if err != nil {
		log.Fatalf("export storage: %v", err)
	}

	now := time.Now
	if cfg.AsOf != "" {
		pinned, err := time.Parse("2006-01-02", cfg.AsOf)
		if err != nil {
			log.Fatalf("parse AS_OF: %v", err)
		}
		now = func() time.Time { return pinned }
		log.Printf("reference date pinned to %s", cfg.AsOf)
	}

	handler := api.NewHandler(st, provider, exporter, nil, now)

	// Set up HTTP routes. The health check stays outside the API key
	// middleware so load balancers can probe it.
	apiMux := http.NewServeMux()
	handler.RegisterRoutes(apiMux)

	mux := http.NewServeMux()
	mux.Handle("/api/", api.APIKeyAuth(cfg.APIKey)(apiMux))
	mux.HandleFunc("GET /healthz", healthHandler(db))

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: api.CORS(api.RequestLog(mux)),
	}

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("starting roadpulsed on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down...")
	if err := srv.Shutdown(context.Background()); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}

func healthHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			http.Error(w, "database unreachable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
