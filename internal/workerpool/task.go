package workerpool

import (
	"fmt"
	"sync"

	"imgsplice/internal/core"
)

// Job is one unit of work: discover this extracted file's extents
// against the already-built image index.
type Job struct {
	File core.ByteSource
}

// Result is one file's discovery outcome, or its fatal error.
type Result struct {
	Path    string
	Extents []core.Extent
	Err     error
}

func worker(id int, jobs <-chan Job, results chan<- Result, image core.ByteSource, idx *core.BlockIndex, cfg core.Config, sink core.Sink, wg *sync.WaitGroup) {
	defer wg.Done()
	for job := range jobs {
		extents, err := core.DiscoverExtents(job.File, image, idx, cfg, sink)
		if err != nil {
			results <- Result{Path: job.File.Path(), Err: fmt.Errorf("worker %d: %w", id, err)}
			continue
		}
		results <- Result{Path: job.File.Path(), Extents: extents}
	}
}
