package fdtd

import (
	"runtime"
	"sync"
)

// rowsPerWorker is the smallest row band worth a goroutine.
const rowsPerWorker = 32

// ParallelFor splits [0, n) into contiguous bands and runs fn on each band
// concurrently. Bands never overlap, so per-cell updates inside one field array
// give the same result as a serial loop.
func ParallelFor(n, minChunk, maxWorkers int, fn func(start, end int)) {
	if maxWorkers <= 0 {
		maxWorkers = runtime.GOMAXPROCS(0)
	}
	if minChunk < 1 {
		minChunk = 1
	}
	if n <= minChunk || maxWorkers <= 1 {
		fn(0, n)
		return
	}

	workers := maxWorkers
	if n/minChunk < workers {
		workers = n / minChunk
	}
	if workers < 1 {
		workers = 1
	}

	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunkSize {
		end := start + chunkSize
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}
