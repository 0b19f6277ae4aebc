package core

// RunResult is the outcome of discovering extents across every
// extracted file and building the final plan.
type RunResult struct {
	Plan     []Segment
	PerFile  map[string][]Extent
	Literal  int64 // bytes served by Literal segments
	Copied   int64 // bytes served by Copy segments
}

// Discover runs extent discovery for every extracted file against the
// already-built image index, then hands the results to the Plan
// Builder. Discovery across files is independent; callers that want
// parallelism should instead call DiscoverExtents directly from a
// worker pool (see internal/workerpool) and pass the collected
// per-file results to BuildPlan. Discover itself runs single-threaded,
// in the order files are given, for callers that do not need the
// worker pool (small file counts, tests).
func Discover(image ByteSource, files []ByteSource, idx *BlockIndex, cfg Config, sink Sink) (*RunResult, error) {
	perFile := make(map[string][]Extent, len(files))
	all := make([][]Extent, 0, len(files))

	for _, f := range files {
		extents, err := DiscoverExtents(f, image, idx, cfg, sink)
		if err != nil {
			return nil, err
		}
		perFile[f.Path()] = extents
		all = append(all, extents)
	}

	plan := BuildPlan(image.Len(), all, sink)
	return summarize(plan, perFile), nil
}

// BuildRunResult assembles a RunResult from an already-computed plan
// and per-file extent map; used by callers (e.g. the worker-pool
// driven CLI path) that ran discovery themselves.
func BuildRunResult(plan []Segment, perFile map[string][]Extent) *RunResult {
	return summarize(plan, perFile)
}

func summarize(plan []Segment, perFile map[string][]Extent) *RunResult {
	r := &RunResult{Plan: plan, PerFile: perFile}
	for _, seg := range plan {
		switch seg.Kind {
		case SegmentLiteral:
			r.Literal += seg.Length
		case SegmentCopy:
			r.Copied += seg.Length
		}
	}
	return r
}
