package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medischedule/medischedule/internal/aivalidate"
	"github.com/medischedule/medischedule/internal/api"
	"github.com/medischedule/medischedule/internal/config"
	"github.com/medischedule/medischedule/internal/db"
	"github.com/medischedule/medischedule/internal/notify"
	redisclient "github.com/medischedule/medischedule/internal/redis"
	"github.com/medischedule/medischedule/internal/scheduling"
	"github.com/medischedule/medischedule/internal/store"
)

const version = "0.1.0"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("api-server starting up")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	log.Printf("running in env=%s http_port=%s", cfg.Env, cfg.HTTPPort)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rdb, err := redisclient.NewRedisClient(redisclient.Options{
		Addr:     cfg.RedisAddr,
		Username: cfg.RedisUsername,
		Password: cfg.RedisPassword,
		PoolSize: cfg.RedisPoolSize,
	})
	if err != nil {
		log.Fatalf("redis connection error: %v", err)
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Printf("error closing redis: %v", err)
		}
	}()
	log.Println("connected to Redis")

	var events scheduling.EventRecorder = scheduling.NoopRecorder{}
	var pgPool *pgxpool.Pool
	if cfg.PostgresDSN != "" {
		pgCtx, cancelPg := context.WithTimeout(rootCtx, 10*time.Second)
		pgPool, err = db.ConnectPostgres(pgCtx, cfg.PostgresDSN)
		cancelPg()
		if err != nil {
			log.Fatalf("postgres connection error: %v", err)
		}
		defer pgPool.Close()

		recorder := scheduling.NewPgEventRecorder(pgPool)
		if err := recorder.EnsureSchema(rootCtx); err != nil {
			log.Fatalf("event log schema error: %v", err)
		}
		events = recorder
		log.Println("connected to Postgres, event log enabled")
	} else {
		log.Println("POSTGRES_DSN not set, event log disabled")
	}

	st := store.New(store.NewRedisKV(rdb))
	seedCtx, cancelSeed := context.WithTimeout(rootCtx, 10*time.Second)
	err = st.EnsureSeeded(seedCtx)
	cancelSeed()
	if err != nil {
		log.Fatalf("seed error: %v", err)
	}

	locker := redisclient.NewRedisSlotLocker(rdb, cfg.LockTTL)
	queue := notify.NewRedisQueue(rdb)
	svc := scheduling.NewService(st, locker, queue, events)
	aiClient := aivalidate.NewClient(cfg.AIServiceURL, cfg.AIServiceTO)

	router := api.NewRouter(api.RouterConfig{
		Service:  svc,
		AIClient: aiClient,
		Redis:    rdb,
		PgPool:   pgPool,
		Env:      cfg.Env,
		Version:  version,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Printf("listening on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server error: %v", err)
		}
	}()

	<-rootCtx.Done()

	log.Println("shutting down api-server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
