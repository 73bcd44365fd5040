package sim

import (
	"runtime"
	"sync"
)

// parallelThreshold is the minimum unit count to use parallel dispatch.
// Below this, single-threaded is faster due to goroutine overhead.
const parallelThreshold = 64

// workChunk is a range of work units for one worker, together with the
// kernel to apply to them.
type workChunk struct {
	start, end int
	fn         func(start, end int)
}

// workerPool runs index-range kernels across persistent workers. Every
// unit within one run is independent, so chunks execute in any order;
// run returns only after all chunks complete, which gives the caller a
// barrier between frame phases.
type workerPool struct {
	numWorkers int

	workChan chan workChunk
	doneChan chan struct{}
	stopChan chan struct{}
	wg       sync.WaitGroup
	running  bool
}

func newWorkerPool() *workerPool {
	return &workerPool{numWorkers: runtime.GOMAXPROCS(0)}
}

// start launches the persistent worker goroutines.
func (p *workerPool) start() {
	if p.running {
		return
	}

	p.workChan = make(chan workChunk, p.numWorkers)
	p.doneChan = make(chan struct{}, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

// stop signals all workers to exit and waits for them.
func (p *workerPool) stop() {
	if !p.running {
		return
	}

	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	close(p.doneChan)
	p.running = false
}

// worker runs in a goroutine, processing chunks until stopped.
func (p *workerPool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.stopChan:
			return
		case chunk, ok := <-p.workChan:
			if !ok {
				return
			}
			chunk.fn(chunk.start, chunk.end)
			p.doneChan <- struct{}{}
		}
	}
}

// run applies fn across [0, n) and returns once every unit has been
// processed. Small runs execute inline on the caller.
func (p *workerPool) run(n int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	if n < parallelThreshold || !p.running {
		fn(0, n)
		return
	}

	chunkSize := (n + p.numWorkers - 1) / p.numWorkers

	chunksDispatched := 0
	for w := 0; w < p.numWorkers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > n {
			end = n
		}
		if start >= end {
			continue
		}

		p.workChan <- workChunk{start: start, end: end, fn: fn}
		chunksDispatched++
	}

	for i := 0; i < chunksDispatched; i++ {
		<-p.doneChan
	}
}
