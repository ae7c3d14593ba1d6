package actuation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type recordingSink struct {
	mu       sync.Mutex
	commands []Command
	err      error
}

func (s *recordingSink) Name() string {
	return "recording"
}

func (s *recordingSink) Send(ctx context.Context, command Command) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commands = append(s.commands, command)
	return s.err
}

func (s *recordingSink) received() []Command {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Command(nil), s.commands...)
}

func TestQueuedPublisher_DropsOldest(t *testing.T) {
	// GIVEN
	sink := &recordingSink{}
	publisher := NewQueuedPublisher(sink, 2)

	// WHEN
	publisher.Publish(Command{Angle: 1})
	publisher.Publish(Command{Angle: 2})
	publisher.Publish(Command{Angle: 3})

	// THEN
	_, dropped, _ := publisher.Counters()
	assert.Equal(t, uint64(1), dropped)
	assert.Equal(t, Command{Angle: 2}, <-publisher.queue)
	assert.Equal(t, Command{Angle: 3}, <-publisher.queue)
}

func TestQueuedPublisher_Run(t *testing.T) {
	// GIVEN
	sink := &recordingSink{}
	publisher := NewQueuedPublisher(sink, 10)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() {
		done <- publisher.Run(ctx)
	}()

	// WHEN
	publisher.Publish(Command{Angle: 5, Speed: 10})
	publisher.Publish(Command{Angle: -5, Speed: 9})

	// THEN
	assert.Eventually(t, func() bool {
		return len(sink.received()) == 2
	}, time.Second, time.Millisecond)
	cancel()
	assert.NoError(t, <-done)
	assert.Equal(t, []Command{{Angle: 5, Speed: 10}, {Angle: -5, Speed: 9}}, sink.received())
	published, _, failed := publisher.Counters()
	assert.Equal(t, uint64(2), published)
	assert.Equal(t, uint64(0), failed)
}

func TestQueuedPublisher_SinkErrorsAreAbsorbed(t *testing.T) {
	// GIVEN
	sink := &recordingSink{err: errors.New("bus down")}
	publisher := NewQueuedPublisher(sink, 1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		_ = publisher.Run(ctx)
	}()

	// WHEN
	publisher.Publish(Command{Angle: 1})

	// THEN
	assert.Eventually(t, func() bool {
		_, _, failed := publisher.Counters()
		return failed == 1
	}, time.Second, time.Millisecond)
}
