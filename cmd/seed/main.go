package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"

	"github.com/medischedule/medischedule/internal/config"
	redisclient "github.com/medischedule/medischedule/internal/redis"
	"github.com/medischedule/medischedule/internal/scheduling"
	"github.com/medischedule/medischedule/internal/store"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("seed starting")

	patients := flag.Int("patients", 0, "extra demo patient accounts to generate")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	rdb, err := redisclient.NewRedisClient(redisclient.Options{
		Addr:     cfg.RedisAddr,
		Username: cfg.RedisUsername,
		Password: cfg.RedisPassword,
		PoolSize: cfg.RedisPoolSize,
	})
	if err != nil {
		log.Fatalf("redis connection error: %v", err)
	}
	defer rdb.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	st := store.New(store.NewRedisKV(rdb))
	if err := st.EnsureSeeded(ctx); err != nil {
		log.Fatalf("seed collections: %v", err)
	}
	log.Println("built-in dataset in place")

	if *patients > 0 {
		if err := seedDemoPatients(ctx, st, *patients); err != nil {
			log.Fatalf("seed demo patients: %v", err)
		}
	}

	log.Println("seed complete")
}

func seedDemoPatients(ctx context.Context, st *store.Store, count int) error {
	log.Printf("seeding %d demo patients", count)

	gofakeit.Seed(time.Now().UnixNano())

	users, err := st.Users(ctx)
	if err != nil {
		return err
	}

	for i := 0; i < count; i++ {
		users = append(users, scheduling.User{
			ID:     "user-" + uuid.NewString(),
			Name:   gofakeit.Name(),
			Email:  gofakeit.Email(),
			Role:   scheduling.RolePatient,
			Avatar: "user-patient",
			Details: &scheduling.PatientDetails{
				ContactNumber: gofakeit.Phone(),
				Address:       gofakeit.Address().Address,
			},
		})
	}

	if err := st.SaveUsers(ctx, users); err != nil {
		return err
	}

	log.Println("demo patients seeded")
	return nil
}
