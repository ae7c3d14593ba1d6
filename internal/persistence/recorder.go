package persistence

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/lane2go/lane2go/internal/controller"
	"github.com/lane2go/lane2go/internal/perception"
	"github.com/lane2go/lane2go/internal/ui"
	"golang.org/x/exp/constraints"
)

const (
	recorderBufferSize    = 256
	recorderFlushInterval = 1 * time.Second
)

// Recorder stores every emitted command of a control loop run.
// Records are buffered and written in batches by Run, so the control loop never waits on disk.
type Recorder[T constraints.Float] struct {
	persistence   Persistence
	runId         string
	records       chan Record
	flushInterval time.Duration

	dropped atomic.Uint64
}

func NewRecorder[T constraints.Float](p Persistence) *Recorder[T] {
	return &Recorder[T]{
		persistence:   p,
		runId:         uuid.NewString(),
		records:       make(chan Record, recorderBufferSize),
		flushInterval: recorderFlushInterval,
	}
}

func (r *Recorder[T]) RunId() string {
	return r.runId
}

// Dropped returns the number of records that did not fit into the buffer
func (r *Recorder[T]) Dropped() uint64 {
	return r.dropped.Load()
}

func (r *Recorder[T]) OnCycle(frame *perception.Frame, result controller.CycleResult[T]) {
	record := Record{
		Time:      result.Time,
		Angle:     result.Command.Angle,
		Speed:     result.Command.Speed,
		Estimated: result.Estimated,
		Error:     result.Error,
	}
	select {
	case r.records <- record:
	default:
		r.dropped.Add(1)
	}
}

// Run registers the run and periodically flushes buffered records until ctx is cancelled.
func (r *Recorder[T]) Run(ctx context.Context) error {
	err := r.persistence.StartRun(r.runId, time.Now())
	if err != nil {
		return err
	}
	ui.Info("Recording commands as run %s", r.runId)

	ticker := time.NewTicker(r.flushInterval)
	defer ticker.Stop()

	var batch []Record
	for {
		select {
		case <-ctx.Done():
			batch = r.drain(batch)
			r.flush(batch)
			ui.Info("Recorded run %s", r.runId)
			return nil
		case record := <-r.records:
			batch = append(batch, record)
		case <-ticker.C:
			batch = r.flush(batch)
		}
	}
}

func (r *Recorder[T]) drain(batch []Record) []Record {
	for {
		select {
		case record := <-r.records:
			batch = append(batch, record)
		default:
			return batch
		}
	}
}

func (r *Recorder[T]) flush(batch []Record) []Record {
	if len(batch) == 0 {
		return batch
	}
	err := r.persistence.SaveRecords(r.runId, batch)
	if err != nil {
		ui.Error("Unable to save %d records of run %s: %v", len(batch), r.runId, err)
	}
	return batch[:0]
}
