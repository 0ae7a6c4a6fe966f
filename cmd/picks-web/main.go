package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	"safepicks/internal/config"
	"safepicks/internal/util"
	"safepicks/internal/web"
	"safepicks/pkg/picks"
)

func main() {
	cfg, err := config.LoadOrDefault(os.Getenv("SAFEPICKS_CONFIG"))
	if err != nil {
		util.NewLogger("info", "json", nil).Error("loading config", "error", err)
		os.Exit(1)
	}

	logger := util.NewLogger(cfg.Logging.Level, cfg.Logging.Format, nil)
	util.SetDefault(logger)

	cal, err := util.LoadGameCalendar(cfg.Display.Timezone)
	if err != nil {
		logger.Error("loading calendar", "error", err)
		os.Exit(1)
	}

	client := picks.NewClient(cfg.API.BaseURL,
		picks.WithTimeout(cfg.API.Timeout()),
		picks.WithLimiter(rate.NewLimiter(rate.Limit(cfg.API.RatePerSec), int(cfg.API.RatePerSec)+1)),
		picks.WithLogger(logger),
	)

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      web.NewServer(client, cal, logger, cfg.Server.CORSOrigins).Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.API.Timeout() + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("picks web listening", "addr", srv.Addr, "api", client.BaseURL())
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	case sig := <-shutdown:
		logger.Info("shutting down", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Warn("graceful shutdown failed", "error", err)
			srv.Close()
		}
	}
}
