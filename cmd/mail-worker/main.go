package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/medischedule/medischedule/internal/config"
	"github.com/medischedule/medischedule/internal/notify"
	redisclient "github.com/medischedule/medischedule/internal/redis"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("mail-worker starting up")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}
	if cfg.SMTPHost == "" {
		log.Fatal("SMTP_HOST is required")
	}

	log.Printf("running mail worker in env=%s interval=%s", cfg.Env, cfg.WorkerInterval)

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

	queue := notify.NewRedisQueue(rdb)
	mailer := notify.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom)

	// Drain once at startup
	drain(rootCtx, queue, mailer)

	ticker := time.NewTicker(cfg.WorkerInterval)
	defer ticker.Stop()

	for {
		select {
		case <-rootCtx.Done():
			log.Println("shutdown signal received, stopping mail worker")
			return
		case <-ticker.C:
			drain(rootCtx, queue, mailer)
		}
	}
}

// drain sends every queued document. A failed send is put back at the head
// and the pass stops so ordering is preserved for the next tick.
func drain(ctx context.Context, queue *notify.RedisQueue, mailer *notify.Mailer) {
	drainCtx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	sent := 0
	for {
		doc, err := queue.Dequeue(drainCtx)
		if err != nil {
			if !errors.Is(err, notify.ErrQueueEmpty) {
				log.Printf("dequeue error: %v", err)
			}
			break
		}

		if err := mailer.Send(*doc); err != nil {
			log.Printf("send error: %v", err)
			if reqErr := queue.Requeue(drainCtx, *doc); reqErr != nil {
				log.Printf("requeue error, document dropped: %v", reqErr)
			}
			break
		}
		sent++
	}

	if sent > 0 {
		log.Printf("drain complete sent=%d", sent)
	}
}
