package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"

	"github.com/Windi-Fikriyansyah/devhire_be/internal/config"
	"github.com/Windi-Fikriyansyah/devhire_be/internal/db"
	"github.com/Windi-Fikriyansyah/devhire_be/internal/handlers"
	"github.com/Windi-Fikriyansyah/devhire_be/internal/notify"
	"github.com/Windi-Fikriyansyah/devhire_be/internal/realtime"
	"github.com/Windi-Fikriyansyah/devhire_be/internal/routes"
)

func initLogger(level string) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		l = slog.LevelInfo
	}
	slog.SetDefault(slog.New(tint.NewHandler(os.Stdout, &tint.Options{
		Level:      l,
		TimeFormat: time.Kitchen,
	})))
}

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	initLogger(cfg.LogLevel)

	gdb, err := db.Connect(cfg.DBDSN)
	if err != nil {
		slog.Error("database connection failed", "err", err)
		os.Exit(1)
	}
	defer db.Close(gdb)

	if err := db.Migrate(gdb); err != nil {
		slog.Error("migration failed", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := realtime.NewHub()
	defer hub.Close()

	// Redis fans notifications out across instances; without it they only
	// reach sockets held by this process.
	var notifier notify.Notifier = &notify.HubNotifier{Hub: hub}
	if cfg.RedisEnabled() {
		rdb := realtime.NewRedis(cfg.RedisAddress(), cfg.RedisPassword, cfg.RedisDB)
		if err := rdb.Ping(ctx).Err(); err != nil {
			slog.Warn("redis unavailable, delivering notifications in-process", "err", err)
			_ = rdb.Close()
		} else {
			defer rdb.Close()
			notifier = &notify.RedisNotifier{RDB: rdb}
			go realtime.Relay(ctx, rdb, hub)
		}
	}

	dispatcher := notify.NewDispatcher(cfg.NotifyBuffer, notifier)
	dispatcher.Start()
	defer dispatcher.Close()

	app := routes.New(routes.Deps{
		DB:          gdb,
		JWTSecret:   cfg.JWTSecret,
		JWTExpires:  cfg.JWTExpiresMin,
		CORSOrigins: cfg.CORSOrigins,
		Publisher:   dispatcher,
		Hub:         hub,
		Google: &handlers.GoogleOAuthHandler{
			JWTSecret:       cfg.JWTSecret,
			Expires:         cfg.JWTExpiresMin,
			GoogleClientID:  cfg.GoogleClientID,
			GoogleSecret:    cfg.GoogleSecret,
			GoogleRedirect:  cfg.GoogleRedirect,
			FrontendBaseURL: cfg.FrontendBaseURL,
		},
	})

	go func() {
		<-ctx.Done()
		slog.Info("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			slog.Error("shutdown failed", "err", err)
		}
	}()

	slog.Info("listening", "port", cfg.AppPort)
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		slog.Error("server stopped", "err", err)
	}
}
