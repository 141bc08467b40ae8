package worker

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

// Task is one input and the outcome of processing it.
type Task[T any, R any] struct {
	Input  T
	Result R
	Err    error
}

// ProcessFunc processes a single input.
type ProcessFunc[T any, R any] func(ctx context.Context, input T) (R, error)

// Pool runs inputs through a fixed number of workers. A failing input never
// stops its siblings; each failure is recorded on its own Task.
type Pool[T any, R any] struct {
	workers int
	process ProcessFunc[T, R]
	name    func(T) string
}

// NewPool creates a pool. name labels inputs in failure logs and may be nil.
func NewPool[T any, R any](workers int, fn ProcessFunc[T, R], name func(T) string) *Pool[T, R] {
	if workers < 1 {
		workers = 1
	}
	return &Pool[T, R]{
		workers: workers,
		process: fn,
		name:    name,
	}
}

// Execute processes every input and returns tasks in input order. Inputs
// not started before ctx is cancelled carry ctx.Err().
func (p *Pool[T, R]) Execute(ctx context.Context, inputs []T) []Task[T, R] {
	tasks := make([]Task[T, R], len(inputs))
	for i := range inputs {
		tasks[i].Input = inputs[i]
	}

	inputCh := make(chan int)
	var wg sync.WaitGroup

	workers := min(p.workers, len(inputs))
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for idx := range inputCh {
				result, err := p.process(ctx, inputs[idx])
				tasks[idx].Result = result
				tasks[idx].Err = err
				if err != nil {
					ev := log.Error().Err(err).Int("worker", workerID).Int("index", idx)
					if p.name != nil {
						ev = ev.Str("input", p.name(inputs[idx]))
					}
					ev.Msg("Task failed")
				}
			}
		}(w)
	}

	sent := 0
send:
	for ; sent < len(inputs); sent++ {
		select {
		case <-ctx.Done():
			break send
		case inputCh <- sent:
		}
	}
	close(inputCh)
	wg.Wait()

	for i := sent; i < len(inputs); i++ {
		tasks[i].Err = ctx.Err()
	}
	return tasks
}

// Batch splits items into consecutive chunks of at most batchSize.
func Batch[T any](items []T, batchSize int) [][]T {
	if batchSize <= 0 {
		batchSize = 1
	}
	var batches [][]T
	for i := 0; i < len(items); i += batchSize {
		end := min(i+batchSize, len(items))
		batches = append(batches, items[i:end])
	}
	return batches
}
