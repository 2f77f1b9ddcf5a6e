package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/ahmed-elhagar/body-wise-ai-fit-sub000/internal/app"
	"github.com/ahmed-elhagar/body-wise-ai-fit-sub000/internal/config"
	"github.com/ahmed-elhagar/body-wise-ai-fit-sub000/internal/logging"
	"github.com/ahmed-elhagar/body-wise-ai-fit-sub000/internal/telegram"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logCloser := logging.Setup(logging.LoggerSetupParams{
		LogFileName:   cfg.LogFile,
		LogToStdout:   true,
		LogLevel:      cfg.LogLevel,
		LogFormatJSON: cfg.LogJSON,
	})
	defer logCloser.Close()

	ctx := context.Background()

	// 2. Wire the application: database, Supabase, generation backend, cache
	rt, err := app.Open(ctx, cfg, prometheus.DefaultRegisterer)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer rt.Close()

	sessions := telegram.NewSessionRepository(rt.DB.SQL)
	if removed, err := sessions.CleanupExpired(ctx); err != nil {
		log.Warnf("Failed to clean up expired sessions: %v", err)
	} else if removed > 0 {
		log.Infof("Removed %d expired chat sessions", removed)
	}

	// 3. Initialize Telegram Bot
	bot, err := telegram.NewBot(cfg, telegram.Deps{
		Service:  rt.Service,
		Auth:     rt.Supabase,
		Sessions: sessions,
		Usage:    rt.Usage,
		Metrics:  rt.Metrics,
		DataDir:  filepath.Dir(cfg.DatabasePath),
	})
	if err != nil {
		log.Fatalf("Failed to initialize Telegram Bot: %v", err)
	}

	// 4. Start Server with Graceful Shutdown
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           bot.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof("Telegram Bot Server listening on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Infoln("Shutting down server...")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		log.Errorf("Server forced to shutdown: %v", err)
	}
	if err := bot.Close(); err != nil {
		log.Errorf("Failed to stop bot: %v", err)
	}

	log.Infoln("Server exiting")
}
