package actuation

import (
	"context"
	"sync"

	"github.com/lane2go/lane2go/internal/ui"
)

// Sink delivers commands to the vehicle
type Sink interface {
	Name() string
	Send(ctx context.Context, command Command) error
}

// QueuedPublisher decouples the control loop from the sink: Publish never
// blocks, commands are handed over to a sender goroutine through a bounded
// queue. When the queue is full, the oldest queued command is dropped.
type QueuedPublisher struct {
	sink  Sink
	queue chan Command

	mu        sync.Mutex
	published uint64
	dropped   uint64
	failed    uint64
}

func NewQueuedPublisher(sink Sink, queueSize int) *QueuedPublisher {
	return &QueuedPublisher{
		sink:  sink,
		queue: make(chan Command, max(queueSize, 1)),
	}
}

func (p *QueuedPublisher) Publish(command Command) {
	for {
		select {
		case p.queue <- command:
			return
		default:
		}

		// make room by dropping the oldest command
		select {
		case <-p.queue:
			p.mu.Lock()
			p.dropped++
			p.mu.Unlock()
		default:
		}
	}
}

// Run sends queued commands until ctx is cancelled
func (p *QueuedPublisher) Run(ctx context.Context) error {
	ui.Info("Publishing commands via %s", p.sink.Name())
	for {
		select {
		case <-ctx.Done():
			return nil
		case command := <-p.queue:
			err := p.sink.Send(ctx, command)
			p.mu.Lock()
			if err != nil {
				p.failed++
			} else {
				p.published++
			}
			p.mu.Unlock()
			if err != nil {
				ui.Warning("Error publishing command via %s: %v", p.sink.Name(), err)
			}
		}
	}
}

// Counters returns the number of published, dropped and failed commands
func (p *QueuedPublisher) Counters() (published, dropped, failed uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.published, p.dropped, p.failed
}

// LogSink only prints the commands
type LogSink struct{}

func (LogSink) Name() string {
	return "log"
}

func (LogSink) Send(ctx context.Context, command Command) error {
	ui.Printfln("angle: %d speed: %d", command.Angle, command.Speed)
	return nil
}
