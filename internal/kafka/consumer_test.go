package kafka

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReader struct {
	mu        sync.Mutex
	pending   []kafka.Message
	committed []int64
	closed    bool
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	if len(r.pending) > 0 {
		m := r.pending[0]
		r.pending = r.pending[1:]
		r.mu.Unlock()
		return m, nil
	}
	r.mu.Unlock()
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *fakeReader) Close() error {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
	return nil
}

func (r *fakeReader) commits() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int64(nil), r.committed...)
}

func TestConsumerRetriesFailedMessageBeforeMovingOn(t *testing.T) {
	r := &fakeReader{pending: []kafka.Message{{Offset: 1}, {Offset: 2}, {Offset: 3}}}
	c := newConsumer(r, 1, nil)
	c.backoff = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	var (
		mu       sync.Mutex
		calls    []int64
		failures = 1
	)
	done := make(chan error, 1)
	go func() {
		done <- c.Start(ctx, func(_ context.Context, m kafka.Message) error {
			mu.Lock()
			defer mu.Unlock()
			calls = append(calls, m.Offset)
			if m.Offset == 2 && failures > 0 {
				failures--
				return errors.New("redis unavailable")
			}
			return nil
		})
	}()

	require.Eventually(t, func() bool { return len(r.commits()) == 3 }, time.Second, 5*time.Millisecond)
	cancel()

	require.NoError(t, <-done)
	assert.Equal(t, []int64{1, 2, 3}, r.commits())
	mu.Lock()
	assert.Equal(t, []int64{1, 2, 2, 3}, calls)
	mu.Unlock()
	assert.True(t, r.closed)
}

func TestConsumerFailingPartitionDoesNotCommitPastIt(t *testing.T) {
	r := &fakeReader{pending: []kafka.Message{
		{Partition: 0, Offset: 10},
		{Partition: 0, Offset: 11},
		{Partition: 1, Offset: 20},
		{Partition: 1, Offset: 21},
	}}
	c := newConsumer(r, 2, nil)
	c.backoff = time.Millisecond
	c.maxBackoff = 5 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- c.Start(ctx, func(_ context.Context, m kafka.Message) error {
			if m.Offset == 10 {
				return errors.New("poison")
			}
			return nil
		})
	}()

	require.Eventually(t, func() bool { return len(r.commits()) == 2 }, time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	cancel()

	require.NoError(t, <-done)
	assert.Equal(t, []int64{20, 21}, r.commits(), "offset 11 waits behind 10")
}

func TestConsumerReturnsFetchError(t *testing.T) {
	c := newConsumer(errReader{}, 2, nil)
	err := c.Start(context.Background(), func(context.Context, kafka.Message) error { return nil })
	assert.EqualError(t, err, "fetch failed")
}

type errReader struct{}

func (errReader) FetchMessage(context.Context) (kafka.Message, error) {
	return kafka.Message{}, errors.New("fetch failed")
}
func (errReader) CommitMessages(context.Context, ...kafka.Message) error { return nil }
func (errReader) Close() error { return nil }
