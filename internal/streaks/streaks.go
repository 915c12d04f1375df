// Package streaks counts streaks of green taxi trips between the same pickup
// and dropoff zones. Trips are consumed from Kafka, grouped into event-time
// session windows keyed by (PULocationID, DOLocationID) and every closed
// session is appended to a relational table.
//
// The consumer, the checkpoint ticker and the consumer-error logger run in
// one errgroup. On shutdown the sessions still open are flushed to the sink
// before the last offsets are committed.
package streaks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"taxipipe/internal/config"
	"taxipipe/internal/logging"
)

// Result summarises a run.
type Result struct {
	RunID    string
	Events   int64
	Late     int64
	Invalid  int64
	Sessions int64
}

// writeTimeout bounds one sink write.
const writeTimeout = 30 * time.Second

// Seams for tests.
var (
	newConsumerGroup = func(brokers []string, group string, cfg *sarama.Config) (sarama.ConsumerGroup, error) {
		return sarama.NewConsumerGroup(brokers, group, cfg)
	}
	openSink = OpenSink
)

func saramaConfig(cfg config.Streaks) *sarama.Config {
	sc := sarama.NewConfig()
	sc.ClientID = "taxipipe-" + cfg.Job
	sc.Consumer.Offsets.Initial = sarama.OffsetOldest
	// Offsets are committed by the checkpoint, after the sink write.
	sc.Consumer.Offsets.AutoCommit.Enable = false
	sc.Consumer.Return.Errors = true
	return sc
}

// Run consumes cfg.Topic until ctx is done or a sink write fails.
func Run(ctx context.Context, cfg config.Streaks) (Result, error) {
	cfg = cfg.WithDefaults()
	res := Result{RunID: uuid.NewString()}

	log := logging.FromContext(ctx).With("run_id", res.RunID, "job", cfg.Job, "topic", cfg.Topic)
	ctx = logging.WithLogger(ctx, log)

	issues := config.ValidateStreaks(cfg)
	for _, is := range issues {
		if is.Severity == config.SeverityWarning {
			log.Warnw("config", "path", is.Path, "msg", is.Message)
		}
	}
	if err := config.Err(issues); err != nil {
		return res, fmt.Errorf("invalid configuration: %w", err)
	}

	kind, dsn, err := config.ParseDSN(cfg.DSN)
	if err != nil {
		return res, err
	}
	sink, err := openSink(ctx, kind, dsn, cfg.Table)
	if err != nil {
		return res, err
	}
	defer sink.Close()
	log.Infow("sink ready", "target", config.Redact(cfg.DSN), "table", cfg.Table)

	sarama.Logger = zap.NewStdLog(log.Desugar())
	group, err := newConsumerGroup(cfg.Brokers, cfg.Group, saramaConfig(cfg))
	if err != nil {
		return res, fmt.Errorf("create consumer group: %w", err)
	}
	defer func() {
		if err := group.Close(); err != nil {
			log.Warnw("closing consumer group", "err", err)
		}
	}()
	log.Infow("consuming", "brokers", cfg.Brokers, "group", cfg.Group,
		"gap", cfg.Gap.String(), "out_of_orderness", cfg.OutOfOrderness.String())

	eg, gctx := errgroup.WithContext(ctx)
	h := newHandler(gctx, cfg.Job, log, NewWindower(cfg.Gap, cfg.OutOfOrderness), sink)

	eg.Go(func() error {
		for {
			// Consume returns on every rebalance and must be called again.
			if err := group.Consume(gctx, []string{cfg.Topic}, h); err != nil {
				if errors.Is(err, sarama.ErrClosedConsumerGroup) {
					return nil
				}
				return fmt.Errorf("consume %s: %w", cfg.Topic, err)
			}
			if gctx.Err() != nil {
				return nil
			}
		}
	})
	eg.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case err, ok := <-group.Errors():
				if !ok {
					return nil
				}
				log.Errorw("Kafka consumer error", "err", err)
			}
		}
	})
	eg.Go(func() error {
		tick := time.NewTicker(cfg.CheckpointInterval)
		defer tick.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-tick.C:
				// A write in progress is finished even if shutdown begins.
				wctx, cancel := context.WithTimeout(context.WithoutCancel(gctx), writeTimeout)
				err := h.checkpoint(wctx, sink, false)
				cancel()
				if err != nil {
					return err
				}
			}
		}
	})

	err = eg.Wait()
	if err == nil {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), writeTimeout)
		err = h.checkpoint(fctx, sink, true)
		cancel()
	}
	h.result(&res)
	if err != nil {
		log.Errorw("Writing records from Kafka to the sink failed", "err", err)
		return res, err
	}
	log.Infow("stopped",
		"events", res.Events, "late", res.Late, "invalid", res.Invalid, "sessions", res.Sessions)
	return res, nil
}
