// Package parallel splits index ranges across CPU cores.
package parallel

import (
	"context"
	"runtime"
	"sync"

	"github.com/YuminosukeSato/synthgen/pkg/errors"
)

// chunks divides items into at most runtime.NumCPU() contiguous [start, end) ranges.
func chunks(items int) [][2]int {
	if items <= 0 {
		return nil
	}

	numWorkers := runtime.NumCPU()
	if numWorkers > items {
		numWorkers = items
	}

	// ceiling division
	chunkSize := (items + numWorkers - 1) / numWorkers

	ranges := make([][2]int, 0, numWorkers)
	for start := 0; start < items; start += chunkSize {
		end := start + chunkSize
		if end > items {
			end = items
		}
		ranges = append(ranges, [2]int{start, end})
	}
	return ranges
}

// Parallelize executes fn once per chunk of [0, items) concurrently and waits
// for all chunks to finish.
func Parallelize(items int, fn func(start, end int)) {
	var wg sync.WaitGroup
	for _, r := range chunks(items) {
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(r[0], r[1])
	}
	wg.Wait()
}

// ParallelizeWithThreshold runs fn sequentially over the whole range when
// items <= threshold, otherwise like Parallelize.
func ParallelizeWithThreshold(items int, threshold int, fn func(start, end int)) {
	if items <= threshold {
		if items > 0 {
			fn(0, items)
		}
		return
	}
	Parallelize(items, fn)
}

// Run is the error aware variant of ParallelizeWithThreshold. Every chunk
// receives a context that is canceled as soon as any chunk fails; the first
// error is returned. Panics inside fn are converted into errors.PanicError.
func Run(ctx context.Context, items, threshold int, op string, fn func(ctx context.Context, start, end int) error) error {
	if items <= 0 {
		return ctx.Err()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	call := func(s, e int) (err error) {
		defer errors.Recover(&err, op)
		return fn(ctx, s, e)
	}

	if items <= threshold {
		return call(0, items)
	}

	var (
		wg       sync.WaitGroup
		once     sync.Once
		firstErr error
	)
	for _, r := range chunks(items) {
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			if err := call(s, e); err != nil {
				once.Do(func() {
					firstErr = err
					cancel()
				})
			}
		}(r[0], r[1])
	}
	wg.Wait()
	return firstErr
}
