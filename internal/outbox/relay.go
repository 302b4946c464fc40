// Package outbox publishes committed domain events to Kafka. The store
// writes events to the outbox table in the same transaction as the
// member row; the relay polls for unpublished rows, produces them, and
// marks them published. Kafka is the downstream source of truth for
// the member event stream.
package outbox

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"
	"golang.org/x/sync/errgroup"

	"mirathi/internal/platform/config"
)

var (
	publishedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mirathi_outbox_published_total",
		Help: "Total outbox entries published to Kafka",
	})
	publishErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mirathi_outbox_publish_errors_total",
		Help: "Total failed outbox publish attempts",
	})
	batchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "mirathi_outbox_batch_duration_seconds",
		Help:    "Duration of one outbox poll-and-publish cycle",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	})
	backlogGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "mirathi_outbox_backlog",
		Help: "Unpublished outbox entries at the last poll",
	})
)

// Relay moves outbox rows to Kafka.
type Relay struct {
	pool   *pgxpool.Pool
	client *kgo.Client
	kafka  config.KafkaConfig
	poll   time.Duration
	batch  int
	logger *log.Logger
}

func NewRelay(pool *pgxpool.Pool, client *kgo.Client, kafka config.KafkaConfig, relay config.RelayConfig, logger *log.Logger) *Relay {
	return &Relay{
		pool:   pool,
		client: client,
		kafka:  kafka,
		poll:   relay.PollInterval,
		batch:  relay.BatchSize,
		logger: logger,
	}
}

// EnsureTopic creates the event topic if it does not exist.
func (r *Relay) EnsureTopic(ctx context.Context) error {
	adm := kadm.NewClient(r.client)
	resp, err := adm.CreateTopics(ctx, r.kafka.Partitions, r.kafka.ReplicaCount, nil, r.kafka.Topic)
	if err != nil {
		return fmt.Errorf("create topic %s: %w", r.kafka.Topic, err)
	}
	for _, res := range resp {
		if res.Err != nil && !errors.Is(res.Err, kerr.TopicAlreadyExists) {
			return fmt.Errorf("create topic %s: %w", res.Topic, res.Err)
		}
	}
	return nil
}

// Run polls until the context is canceled. The backlog gauge refreshes
// on its own cadence so operators see lag even when publishing stalls.
func (r *Relay) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		ticker := time.NewTicker(r.poll)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				if err := r.publishBatch(ctx); err != nil && !errors.Is(err, context.Canceled) {
					publishErrors.Inc()
					r.logger.Printf("outbox publish batch failed: %v", err)
				}
			}
		}
	})

	g.Go(func() error {
		ticker := time.NewTicker(10 * r.poll)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				r.refreshBacklog(ctx)
			}
		}
	})

	return g.Wait()
}

type outboxRow struct {
	id        string
	aggregate string
	eventType string
	payload   []byte
}

// publishBatch claims a batch of unpublished rows, produces them, and
// marks them published in the same transaction. SKIP LOCKED lets
// multiple relay instances share the table without double-publishing.
func (r *Relay) publishBatch(ctx context.Context) error {
	start := time.Now()
	defer func() { batchDuration.Observe(time.Since(start).Seconds()) }()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin outbox batch: %w", err)
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx, `
		SELECT id, aggregate_id, event_type, payload
		FROM outbox
		WHERE published_at IS NULL
		ORDER BY created_at
		LIMIT $1
		FOR UPDATE SKIP LOCKED
	`, r.batch)
	if err != nil {
		return fmt.Errorf("query outbox: %w", err)
	}

	var batch []outboxRow
	for rows.Next() {
		var row outboxRow
		if err := rows.Scan(&row.id, &row.aggregate, &row.eventType, &row.payload); err != nil {
			rows.Close()
			return fmt.Errorf("scan outbox row: %w", err)
		}
		batch = append(batch, row)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate outbox rows: %w", err)
	}
	if len(batch) == 0 {
		return nil
	}

	records := make([]*kgo.Record, len(batch))
	ids := make([]string, len(batch))
	for i, row := range batch {
		// Keyed by aggregate ID so one member's events stay ordered
		// within a partition.
		records[i] = &kgo.Record{
			Topic: r.kafka.Topic,
			Key:   []byte(row.aggregate),
			Value: row.payload,
			Headers: []kgo.RecordHeader{
				{Key: "event_type", Value: []byte(row.eventType)},
			},
		}
		ids[i] = row.id
	}

	if err := r.client.ProduceSync(ctx, records...).FirstErr(); err != nil {
		return fmt.Errorf("produce outbox batch: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		UPDATE outbox SET published_at = $1 WHERE id = ANY($2::uuid[])
	`, time.Now().UTC(), ids); err != nil {
		return fmt.Errorf("mark outbox published: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit outbox batch: %w", err)
	}

	publishedTotal.Add(float64(len(batch)))
	return nil
}

func (r *Relay) refreshBacklog(ctx context.Context) {
	var backlog int64
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM outbox WHERE published_at IS NULL
	`).Scan(&backlog)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			r.logger.Printf("outbox backlog query failed: %v", err)
		}
		return
	}
	backlogGauge.Set(float64(backlog))
}
