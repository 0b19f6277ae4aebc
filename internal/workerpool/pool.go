package workerpool

import (
	"sync"

	"imgsplice/internal/core"
)

// Pool runs extent discovery for a batch of extracted files across a
// fixed number of worker goroutines, staging jobs and results on
// buffered channels the same way a bounded file-processing pool would.
type Pool struct {
	numWorkers int
	jobs       chan Job
	results    chan Result
	wg         *sync.WaitGroup
}

// New creates a Pool with the given worker count (minimum 1).
func New(numWorkers int) *Pool {
	if numWorkers < 1 {
		numWorkers = 1
	}
	return &Pool{
		numWorkers: numWorkers,
		jobs:       make(chan Job, numWorkers*2),
		results:    make(chan Result, numWorkers*2),
		wg:         &sync.WaitGroup{},
	}
}

// Start launches the worker goroutines, plus a closer goroutine that
// closes the results channel once every worker has exited (which
// happens once the job channel is closed and drained). Submit and
// CloseJobs must be called after Start.
func (p *Pool) Start(image core.ByteSource, idx *core.BlockIndex, cfg core.Config, sink core.Sink) {
	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go worker(i, p.jobs, p.results, image, idx, cfg, sink, p.wg)
	}
	go func() {
		p.wg.Wait()
		close(p.results)
	}()
}

// Submit enqueues a job. Must not be called after CloseJobs.
func (p *Pool) Submit(j Job) { p.jobs <- j }

// CloseJobs signals that no more jobs will be submitted. Workers
// drain what remains of the queue and then exit.
func (p *Pool) CloseJobs() { close(p.jobs) }

// Results returns the channel results are delivered on. The channel
// closes once every submitted job has produced a result.
func (p *Pool) Results() <-chan Result { return p.results }
