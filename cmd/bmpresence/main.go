package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"

	"github.com/EgorLis/bmpresence/internal/bmapi"
	"github.com/EgorLis/bmpresence/internal/bot"
	"github.com/EgorLis/bmpresence/internal/config"
	"github.com/EgorLis/bmpresence/internal/discord"
	"github.com/EgorLis/bmpresence/internal/log"
	"github.com/EgorLis/bmpresence/internal/metrics"
	"github.com/EgorLis/bmpresence/internal/presence"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		log.Error("Invalid configuration", "err", err)
		return 1
	}
	log.SetLevel(cfg.LogLevel)
	log.Info("Configuration loaded", "config", cfg.Summary())

	session, err := discord.NewSession(cfg.DiscordToken)
	if err == nil {
		err = discord.Open(session)
	}
	if err != nil {
		log.Error("Failed to log in to Discord. Check the token.", "err", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// метрики только если задан адрес
	var m *metrics.Metrics
	var srv *http.Server
	if cfg.MetricsAddr != "" {
		m = metrics.New()
		srv = metrics.NewServer(cfg.MetricsAddr, m)
		go func() {
			log.Info("Metrics listening", "addr", cfg.MetricsAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("Metrics server failed", "err", err)
			}
		}()
	}

	bm := bmapi.NewClient(cfg.APIBaseURL, cfg.BMToken)
	b, err := bot.New(bot.Config{
		ServerID:     cfg.ServerID,
		Interval:     cfg.Interval,
		JoiningField: cfg.JoiningField,
	}, bm, presence.NewPublisher(session), m)
	if err != nil {
		log.Error("Failed to create bot", "err", err)
		_ = discord.Close(session)
		return 1
	}
	if err := b.Start(ctx); err != nil {
		log.Error("Failed to start status updates", "err", err)
		_ = discord.Close(session)
		return 1
	}

	<-ctx.Done()
	log.Info("Shutting down...")

	b.Stop()
	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn("Metrics server shutdown", "err", err)
		}
		cancel()
	}
	if err := discord.Close(session); err != nil {
		log.Warn("Discord session close", "err", err)
	}
	return 0
}
