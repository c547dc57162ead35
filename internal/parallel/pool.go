// Package parallel provides the stride-partitioned worker pool shared by
// the parallelized grid stages (AoI masking, PoI risk, elevation risk,
// connectivity scoring).
package parallel

import (
	"runtime"
	"sync"
)

// Workers resolves a configured worker count to a usable value: zero or
// negative means "use GOMAXPROCS".
func Workers(configured int) int {
	if configured > 0 {
		return configured
	}
	return runtime.GOMAXPROCS(0)
}

// Do runs fn(i) for every i in [0,n) across workers goroutines, each
// goroutine taking every workers-th index (stride partitioning), and
// blocks until all have finished. Because each index writes only its own
// per-cell output slot, no additional locking is required.
func Do(workers, n int, fn func(i int)) {
	if n <= 0 {
		return
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > n {
		workers = n
	}
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(w int) {
			defer wg.Done()
			for i := w; i < n; i += workers {
				fn(i)
			}
		}(w)
	}
	wg.Wait()
}
