package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"intervalTimerService/internal/auth"
	"intervalTimerService/internal/clock"
	"intervalTimerService/internal/config"
	"intervalTimerService/internal/history"
	"intervalTimerService/internal/notify"
	"intervalTimerService/internal/runner"
	"intervalTimerService/internal/snapshot"
)

type Config struct {
	Settings *config.Config
	Runner   *runner.Runner
	AuthRepo auth.AuthRepository
}

func main() {
	settings, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	if settings.JWTSecret == "" {
		log.Printf("⚠️ JWT_SECRET is not set")
	}
	auth.SetJWTSecret(settings.JWTSecret)

	timerSettings, err := settings.Timer.Settings()
	if err != nil {
		log.Fatalf("invalid timer settings: %v", err)
	}

	// Redis is optional: without it the timer starts fresh on every boot
	var redisClient *redis.Client
	opts := runner.Options{
		Settings:   timerSettings,
		AutoReset:  settings.Timer.AutoReset,
		Statistics: history.NewStatistics(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	snapshots, err := snapshot.NewRedisStore(ctx, settings.RedisAddr)
	cancel()
	if err != nil {
		log.Printf("Warning: failed to initialize Redis persistence, falling back to in-memory: %v", err)
	} else {
		defer snapshots.Close()
		redisClient = snapshots.Client()
		opts.Snapshots = snapshots
	}
	opts.Notifier = notify.New(settings.Timer.NotificationStyle, redisClient)

	conn := connectToDB(settings.DSN)
	if conn == nil {
		log.Panic("Can't connect to Postgres")
	}
	defer conn.Close()

	if store := openHistoryStore(settings.DSN); store != nil {
		defer store.Close()
		opts.History = store
	}

	timerRunner, err := runner.New(clock.NewLoop(), opts)
	if err != nil {
		log.Fatalf("failed to start interval timer: %v", err)
	}
	defer timerRunner.Close()

	app := Config{
		Settings: settings,
		Runner:   timerRunner,
	}
	app.setupRepo(conn)

	if settings.AllowAdminRegistration {
		log.Printf("⚠️ Admin registration is open, unset ALLOW_ADMIN_REGISTRATION outside development")
	}
	log.Printf("Starting interval timer service on port %s\n", settings.WebPort)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", settings.WebPort),
		Handler: app.routes(),
	}

	err = srv.ListenAndServe()
	if err != nil {
		log.Panic(err)
	}
}

func (app *Config) setupRepo(conn *pgxpool.Pool) {
	repo := auth.NewPostgresRepository(conn)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := repo.Migrate(ctx); err != nil {
		log.Panic(err)
	}
	app.AuthRepo = repo
}
