package main

import (
	"log"

	"github.com/fasthttp/router"
	"github.com/joho/godotenv"
	"github.com/valyala/fasthttp"

	"vidinsight/internal/analytics"
	"vidinsight/internal/config"
	"vidinsight/internal/http/handlers"
	"vidinsight/internal/store"
)

// openStore picks the log backend from config: postgres when a database
// URL is set, a local BadgerDB when a data dir is set, else in-memory.
func openStore(cfg *config.Config) (store.Store, error) {
	switch {
	case cfg.DatabaseURL != "":
		pg, err := store.ConnectPostgres(cfg.DatabaseURL, cfg.RetentionDays)
		if err != nil {
			return nil, err
		}
		pg.StartRetention()
		log.Printf("interaction log backed by postgres (retention: %d days)", cfg.RetentionDays)
		return pg, nil
	case cfg.DataDir != "":
		bs, err := store.OpenBadger(cfg.DataDir)
		if err != nil {
			return nil, err
		}
		log.Printf("interaction log backed by badger at %s", cfg.DataDir)
		return bs, nil
	default:
		log.Printf("interaction log held in memory; data will not survive restarts")
		return store.NewMemoryStore(), nil
	}
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	st, err := openStore(cfg)
	if err != nil {
		log.Fatalf("failed to open interaction store: %v", err)
	}
	defer st.Close()

	svc := analytics.New(st)

	handlers.InitPrometheusMetrics()

	r := router.New()

	r.GET("/healthz", func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(fasthttp.StatusOK)
		ctx.SetBodyString("ok")
	})
	r.GET("/metrics", handlers.PrometheusMetricsHandler())

	r.POST("/v1/interactions", handlers.IngestHandler(svc))

	r.GET("/v1/analytics/summary", handlers.SummaryHandler(svc))
	r.GET("/v1/analytics/sessions", handlers.SessionsHandler(svc))
	r.GET("/v1/analytics/videos/{id}", handlers.VideoDetailHandler(svc))
	r.GET("/v1/analytics/interactions", handlers.InteractionsHandler(svc))
	r.GET("/v1/analytics/export", handlers.ExportHandler(svc))
	r.POST("/v1/analytics/clear", handlers.ClearHandler(svc))

	handler := handlers.RequestLogger(r.Handler)

	log.Printf("vidinsight listening on %s", cfg.ListenAddr)
	if err := fasthttp.ListenAndServe(cfg.ListenAddr, handler); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
