package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/innovastaff/staffsite/internal/config"
	"github.com/innovastaff/staffsite/internal/database"
	"github.com/innovastaff/staffsite/internal/email"
	"github.com/innovastaff/staffsite/internal/logging"
	"github.com/innovastaff/staffsite/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := logging.Setup(cfg.LogLevel)

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		logger.Error("open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	emailClient := email.NewClient(cfg.PostmarkToken, cfg.EmailFrom, cfg.BaseURL, cfg.FrontendURL)
	if !emailClient.Configured() {
		logger.Warn("email client not configured; verification and reset emails will fail")
	}

	srv := server.New(db, emailClient, cfg, logger)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Hourly housekeeping: purge expired reset records and stale rate
	// limiter entries.
	cleanupDone := make(chan struct{})
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-cleanupDone:
				return
			case <-ticker.C:
				if n, err := srv.PasswordResetStore().DeleteExpired(); err != nil {
					logger.Error("purge expired reset records", "error", err)
				} else if n > 0 {
					logger.Info("purged expired reset records", "count", n)
				}
				srv.RateLimiter().Cleanup()
			}
		}
	}()

	go func() {
		logger.Info("server listening", "port", cfg.Port, "env", cfg.Env)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	close(cleanupDone)

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}
}
