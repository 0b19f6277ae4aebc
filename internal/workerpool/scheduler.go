package workerpool

import (
	"github.com/hashicorp/go-multierror"

	"imgsplice/internal/core"
)

// DiscoverAll runs extent discovery for every file concurrently across
// numWorkers goroutines and builds the final plan from the merged
// results. The Plan Builder itself is single-threaded and sorts its
// input pool deterministically (descending length, ascending image
// offset, then path), so the plan is identical regardless of which
// order workers happen to finish in.
//
// If one or more files fail, every failure is collected into a single
// *multierror.Error (rather than surfacing only the first) so the
// caller can report every failing file and offset at once; no plan is
// built in that case.
func DiscoverAll(image core.ByteSource, files []core.ByteSource, idx *core.BlockIndex, cfg core.Config, sink core.Sink, numWorkers int) (*core.RunResult, error) {
	pool := New(numWorkers)
	pool.Start(image, idx, cfg, sink)

	go func() {
		for _, f := range files {
			pool.Submit(Job{File: f})
		}
		pool.CloseJobs()
	}()

	perFile := make(map[string][]core.Extent, len(files))
	var errs *multierror.Error

	for res := range pool.Results() {
		if res.Err != nil {
			errs = multierror.Append(errs, res.Err)
			continue
		}
		perFile[res.Path] = res.Extents
	}

	if errs != nil {
		return nil, errs.ErrorOrNil()
	}

	all := make([][]core.Extent, 0, len(files))
	for _, f := range files {
		all = append(all, perFile[f.Path()])
	}

	plan := core.BuildPlan(image.Len(), all, sink)
	return core.BuildRunResult(plan, perFile), nil
}
