package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/campaignstream/backend/internal/api"
	"github.com/campaignstream/backend/internal/campaign"
	"github.com/campaignstream/backend/internal/config"
	"github.com/campaignstream/backend/internal/session"
	"github.com/campaignstream/backend/internal/stream"
	"github.com/campaignstream/backend/internal/ws"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to config file")
	port := flag.Int("port", 0, "Override server port")
	flag.Parse()

	log := logrus.New()
	if lvl, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		log.SetLevel(lvl)
	}

	if err := godotenv.Load(); err != nil {
		log.Debug("No .env file found, using environment as-is")
	}

	cfg, err := config.LoadOrDefault(*configPath)
	if err != nil {
		log.WithError(err).Fatal("Failed to load config")
	}
	if *port > 0 {
		cfg.Server.Port = *port
	}

	store := session.NewStore(cfg.Session.TTL, cfg.Session.SweepInterval)
	generator := campaign.NewRuleBased()
	emitter := stream.NewEmitter(cfg.Stream.ChunkSize, cfg.Stream.TickInterval)

	apiServer := api.NewServer(store, generator, emitter, cfg.Server.StaticDir, log)
	wsServer := ws.NewServer(store, generator, emitter, cfg.CORS.AllowedOrigins, log)

	router := apiServer.Router(cfg.CORS.AllowedOrigins)
	wsServer.Register(router)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("Shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.WithError(err).Error("Shutdown error")
		}
	}()

	log.WithFields(logrus.Fields{
		"addr":          addr,
		"chunk_size":    cfg.Stream.ChunkSize,
		"tick_interval": cfg.Stream.TickInterval,
		"session_ttl":   cfg.Session.TTL,
	}).Info("Server listening")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.WithError(err).Fatal("Server error")
	}
}
