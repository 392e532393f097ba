package kafka

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ariefcatur/go-food-orders/internal/logger"
	"github.com/segmentio/kafka-go"
)

// Handler harus return nil hanya jika proses sukses & boleh commit offset.
type Handler func(ctx context.Context, m kafka.Message) error

type reader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Consumer struct {
	r          reader
	workers    int
	backoff    time.Duration
	maxBackoff time.Duration
	log        *logger.Logger
}

func NewConsumer(brokers []string, group, topic string, workers int, log *logger.Logger) *Consumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		GroupID:        group,
		Topic:          topic,
		MinBytes:       1,
		MaxBytes:       10e6,
		CommitInterval: 0, // manual commit
	})
	return newConsumer(r, workers, log)
}

func newConsumer(r reader, workers int, log *logger.Logger) *Consumer {
	if workers <= 0 {
		workers = 1
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Consumer{r: r, workers: workers, backoff: 200 * time.Millisecond, maxBackoff: 10 * time.Second, log: log}
}

// Start dispatches messages to the workers until ctx is done. Every partition
// is pinned to one worker, so its offsets are handled and committed in order.
// A failing message is retried in place and holds back the rest of its
// partition; nothing after it is committed until it succeeds.
func (c *Consumer) Start(ctx context.Context, h Handler) error {
	defer c.r.Close()

	lanes := make([]chan kafka.Message, c.workers)
	var wg sync.WaitGroup
	for i := range lanes {
		lanes[i] = make(chan kafka.Message, 4)
		wg.Add(1)
		go func(in <-chan kafka.Message) {
			defer wg.Done()
			for m := range in {
				if ctx.Err() != nil || !c.handle(ctx, h, m) {
					return
				}
			}
		}(lanes[i])
	}
	defer wg.Wait()
	defer func() {
		for _, l := range lanes {
			close(l)
		}
	}()

	for {
		m, err := c.r.FetchMessage(ctx)
		if err != nil {
			// kecilkan noise saat shutdown
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		select {
		case lanes[lane(m.Partition, c.workers)] <- m:
		case <-ctx.Done():
			return nil
		}
	}
}

func lane(partition, workers int) int {
	if partition < 0 {
		partition = -partition
	}
	return partition % workers
}

// handle runs h until it succeeds, then commits m. It reports false when ctx
// ended first; m then stays uncommitted and is redelivered to the next owner
// of the partition.
func (c *Consumer) handle(ctx context.Context, h Handler, m kafka.Message) bool {
	mctx := c.log.WithFields(ctx, map[string]any{"topic": m.Topic, "partition": m.Partition, "offset": m.Offset})
	wait := c.backoff
	for attempt := 1; ; attempt++ {
		err := h(mctx, m)
		if err == nil {
			break
		}
		c.log.Error(c.log.WithField(mctx, "attempt", attempt), "kafka.handle_failed", err)
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return false
		}
		if wait *= 2; wait > c.maxBackoff {
			wait = c.maxBackoff
		}
	}
	if err := c.r.CommitMessages(ctx, m); err != nil && ctx.Err() == nil {
		c.log.Warn(mctx, "kafka.commit_failed", err)
	}
	return true
}
