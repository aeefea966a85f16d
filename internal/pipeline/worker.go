package pipeline

import (
	"fmt"
	"image"
	"sync"

	"github.com/AnyUserName/wirthmage-cli/internal/encoder"
	"github.com/AnyUserName/wirthmage-cli/internal/processor"
	"github.com/AnyUserName/wirthmage-cli/internal/setting"
)

// task asks a scale worker to convert one decoded source.
type task struct {
	img  image.Image
	opts processor.Options
}

// taskResult is a worker's reply to one task.
type taskResult struct {
	scale  setting.Scale
	result *processor.Result
	output *encoder.Output
	err    error
}

// scaleWorker owns one Processor and the bounded queue feeding it. Each
// enabled scale factor gets its own worker, so conversions of one source at
// different scales run concurrently while a Processor is never shared.
type scaleWorker struct {
	scale   setting.Scale
	format  encoder.Format
	tasks   chan task
	results chan<- taskResult
}

func newScaleWorker(scale setting.Scale, format encoder.Format, queueSize int, results chan<- taskResult) *scaleWorker {
	return &scaleWorker{
		scale:   scale,
		format:  format,
		tasks:   make(chan task, queueSize),
		results: results,
	}
}

// run serves tasks until the queue is closed.
func (w *scaleWorker) run(wg *sync.WaitGroup) {
	defer wg.Done()
	proc := processor.New()

	for t := range w.tasks {
		r := taskResult{scale: w.scale}
		res, err := proc.Process(t.img, t.opts)
		if err != nil {
			r.err = fmt.Errorf("process x%d: %w", w.scale.Factor, err)
		} else {
			r.result = res
			r.output, r.err = proc.Encode(w.format)
		}
		w.results <- r
	}
}
