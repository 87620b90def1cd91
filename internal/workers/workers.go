package workers

import (
	"context"
	"time"
)

type Workers struct {
	workers []Worker
}

// NewWorkers groups workers. They start in the given order and stop in
// reverse order.
func NewWorkers(workers ...Worker) *Workers {
	return &Workers{workers: workers}
}

func (w *Workers) Start(ctx context.Context) {
	for _, worker := range w.workers {
		worker.Start(ctx)
	}
}

func (w *Workers) Stop() {
	for i := len(w.workers) - 1; i >= 0; i-- {
		w.workers[i].Stop()
	}
}

type every struct {
	ticker   Ticker
	interval time.Duration
}

// Every adapts a [Ticker] into a [Worker] running at interval.
func Every(ticker Ticker, interval time.Duration) Worker {
	return &every{ticker: ticker, interval: interval}
}

func (e *every) Start(ctx context.Context) {
	e.ticker.Start(ctx, e.interval)
}

func (e *every) Stop() {
	e.ticker.Stop()
}
