package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/twmb/franz-go/pkg/kgo"

	"mirathi/internal/outbox"
	"mirathi/internal/platform/config"
	"mirathi/internal/platform/httpserver"
	"mirathi/internal/platform/logger"
	"mirathi/internal/platform/metrics"
)

// main wires the outbox relay: a Postgres pool to read the outbox
// table, a Kafka producer, and a metrics endpoint. Business logic
// lives in internal/outbox.
func main() {
	cfg := config.FromEnv()
	log := logger.New("outbox-relay")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Postgres.URL)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Kafka.Brokers...),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
		kgo.RequiredAcks(kgo.AllISRAcks()),
	)
	if err != nil {
		log.Fatalf("connect kafka: %v", err)
	}
	defer client.Close()

	relay := outbox.NewRelay(pool, client, cfg.Kafka, cfg.Relay, log)
	if err := relay.EnsureTopic(ctx); err != nil {
		log.Fatalf("ensure topic: %v", err)
	}

	srv := httpserver.New(cfg.Relay.MetricsAddr, metrics.Handler())
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics server error: %v", err)
		}
	}()

	log.Printf("relaying outbox to %s every %s", cfg.Kafka.Topic, cfg.Relay.PollInterval)
	if err := relay.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("relay stopped: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("graceful shutdown failed: %v", err)
	}
}
