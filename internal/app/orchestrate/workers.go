package orchestrate

import (
	"context"
	"fmt"
	"sync"
)

type workerJob[T any] struct {
	index int
	data  T
}

type workerResult[R any] struct {
	index  int
	result R
	err    error
}

// processWithWorkerPool fans items out over workerCount goroutines and
// returns results and errors positionally aligned with the input. A panic in
// a processor is captured as that item's error; siblings are unaffected.
func processWithWorkerPool[T, R any](ctx context.Context, items []T, workerCount int, processor func(context.Context, T) (R, error)) ([]R, []error) {
	if len(items) == 0 {
		return nil, nil
	}
	if workerCount < 1 {
		workerCount = 1
	}
	if workerCount > len(items) {
		workerCount = len(items)
	}

	jobs := make(chan workerJob[T], len(items))
	results := make(chan workerResult[R], len(items))

	var wg sync.WaitGroup
	for w := 0; w < workerCount; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				if ctx.Err() != nil {
					results <- workerResult[R]{index: job.index, err: ctx.Err()}
					continue
				}
				res, err := runGuarded(ctx, job.data, processor)
				results <- workerResult[R]{index: job.index, result: res, err: err}
			}
		}()
	}

	go func() {
		for i, item := range items {
			jobs <- workerJob[T]{index: i, data: item}
		}
		close(jobs)
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	resultSlice := make([]R, len(items))
	errorSlice := make([]error, len(items))
	for r := range results {
		resultSlice[r.index] = r.result
		errorSlice[r.index] = r.err
	}
	return resultSlice, errorSlice
}

// runGuarded isolates a single task: a panic becomes an error instead of
// taking down the run.
func runGuarded[T, R any](ctx context.Context, item T, processor func(context.Context, T) (R, error)) (res R, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task panic: %v", r)
		}
	}()
	return processor(ctx, item)
}
