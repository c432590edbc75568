package isp

import (
	"runtime"
	"sync"
)

// parallelRows splits [0, height) into contiguous bands and runs fn on each
// band in its own goroutine, returning once every band is done. fn must only
// write rows inside its band. workers <= 0 uses GOMAXPROCS.
func parallelRows(workers, height int, fn func(y0, y1 int)) {
	if height <= 0 {
		return
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > height {
		workers = height
	}
	if workers == 1 {
		fn(0, height)
		return
	}

	rowsPerWorker := height / workers
	extra := height % workers
	var wg sync.WaitGroup
	start := 0
	for i := 0; i < workers; i++ {
		end := start + rowsPerWorker
		if i < extra {
			end++
		}
		wg.Add(1)
		go func(y0, y1 int) {
			defer wg.Done()
			fn(y0, y1)
		}(start, end)
		start = end
	}
	wg.Wait()
}
