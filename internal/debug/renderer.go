// Package debug renders the state of the control loop for humans: an image snapshot
// of the detector input and a terminal plot of the estimated lane center.
package debug

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"sync"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/lane2go/lane2go/internal/controller"
	"github.com/lane2go/lane2go/internal/perception"
	"github.com/lane2go/lane2go/internal/ui"
	"github.com/lane2go/lane2go/internal/util"
	"golang.org/x/exp/constraints"
)

const (
	historySize   = 100
	frameInterval = 200 * time.Millisecond
)

type DebugImager interface {
	DebugImage(frame *perception.Frame, position perception.LanePosition, estimated int) *image.RGBA
}

// Renderer keeps the most recent cycle and renders it periodically in Run.
// OnCycle only stores references, rendering never happens on the control loop goroutine.
type Renderer[T constraints.Float] struct {
	imager       DebugImager
	frameOut     string
	plotInterval time.Duration

	mu      sync.Mutex
	frame   *perception.Frame
	result  controller.CycleResult[T]
	pending bool
	history []float64
}

func NewRenderer[T constraints.Float](imager DebugImager, frameOut string, plotInterval time.Duration) *Renderer[T] {
	return &Renderer[T]{
		imager:       imager,
		frameOut:     frameOut,
		plotInterval: plotInterval,
	}
}

func (r *Renderer[T]) OnCycle(frame *perception.Frame, result controller.CycleResult[T]) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.frame = frame
	r.result = result
	r.pending = true

	r.history = append(r.history, float64(result.Estimated))
	if len(r.history) > historySize {
		r.history = r.history[len(r.history)-historySize:]
	}
}

func (r *Renderer[T]) Run(ctx context.Context) error {
	frameTicker := time.NewTicker(frameInterval)
	defer frameTicker.Stop()

	plotTicker := time.NewTicker(r.plotInterval)
	defer plotTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-frameTicker.C:
			err := r.WriteFrame()
			if err != nil {
				ui.Warning("Unable to write debug frame to %s: %v", r.frameOut, err)
			}
		case <-plotTicker.C:
			if plot, ok := r.Plot(); ok {
				ui.Printfln("%s", plot)
			}
		}
	}
}

// WriteFrame renders the latest cycle to the configured output file,
// nothing is written if there was no new cycle since the last call.
func (r *Renderer[T]) WriteFrame() error {
	r.mu.Lock()
	frame, result, pending := r.frame, r.result, r.pending
	r.pending = false
	r.mu.Unlock()

	if !pending || len(r.frameOut) <= 0 {
		return nil
	}

	img := r.imager.DebugImage(frame, result.Position, result.Estimated)

	var buf bytes.Buffer
	err := png.Encode(&buf, img)
	if err != nil {
		return err
	}
	return util.WriteFileAtomic(r.frameOut, &buf)
}

// Plot renders the history of estimated lane centers along with the values of the latest cycle
func (r *Renderer[T]) Plot() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.history) <= 0 {
		return "", false
	}

	caption := fmt.Sprintf("left: %d  right: %d  estimated: %d  steering: %.1f  speed: %.1f",
		r.result.Position.Left, r.result.Position.Right, r.result.Estimated,
		float64(r.result.Steering), float64(r.result.Speed),
	)
	graph := asciigraph.Plot(r.history, asciigraph.Height(10), asciigraph.Width(historySize), asciigraph.Caption(caption))
	return graph, true
}
