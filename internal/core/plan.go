package core

import "sort"

// SegmentKind distinguishes the two segment payloads a Plan can hold.
type SegmentKind int

const (
	SegmentLiteral SegmentKind = iota
	SegmentCopy
)

// Segment is one piece of the reconstruction plan: either a Literal
// range of image bytes to embed, or a Copy range to be read from an
// extracted file on the target at runtime.
type Segment struct {
	Kind        SegmentKind
	ImageOffset int64
	Length      int64

	// Copy-only fields.
	FilePath   string
	FileOffset int64
}

// BuildPlan merges every extracted file's verified extents with
// gap-fill literal ranges into a totally ordered sequence covering
// [0, imageSize) exactly once (I4). Overlaps in image-offset space
// are resolved by accepting the longest extent first, breaking ties
// by ascending image offset and then by file path, so the result is
// deterministic regardless of which order files were discovered in,
// which parallelized discovery needs to stay reproducible.
func BuildPlan(imageSize int64, perFile [][]Extent, sink Sink) []Segment {
	if sink == nil {
		sink = NullSink{}
	}
	sink.Event(EventBuildingPlan, map[string]any{"image_size": imageSize})

	var pool []Extent
	for _, extents := range perFile {
		pool = append(pool, extents...)
	}

	sort.Slice(pool, func(i, j int) bool {
		a, b := pool[i], pool[j]
		if a.Length != b.Length {
			return a.Length > b.Length
		}
		if a.ImageOffset != b.ImageOffset {
			return a.ImageOffset < b.ImageOffset
		}
		return a.FilePath < b.FilePath
	})

	accepted := acceptNonOverlapping(pool)

	sort.Slice(accepted, func(i, j int) bool {
		return accepted[i].ImageOffset < accepted[j].ImageOffset
	})

	segments := make([]Segment, 0, len(accepted)*2+1)
	cursor := int64(0)
	for _, ext := range accepted {
		if ext.ImageOffset > cursor {
			segments = append(segments, Segment{
				Kind:        SegmentLiteral,
				ImageOffset: cursor,
				Length:      ext.ImageOffset - cursor,
			})
		}
		segments = append(segments, Segment{
			Kind:        SegmentCopy,
			ImageOffset: ext.ImageOffset,
			Length:      ext.Length,
			FilePath:    ext.FilePath,
			FileOffset:  ext.FileOffset,
		})
		cursor = ext.ImageOffset + ext.Length
	}
	if cursor < imageSize {
		segments = append(segments, Segment{
			Kind:        SegmentLiteral,
			ImageOffset: cursor,
			Length:      imageSize - cursor,
		})
	}
	if len(segments) == 0 {
		segments = append(segments, Segment{Kind: SegmentLiteral, ImageOffset: 0, Length: imageSize})
	}

	return segments
}

// acceptNonOverlapping greedily accepts extents from pool (already
// sorted by the longest-first/lowest-offset/path tie-break) into a
// growing, image-offset-sorted interval set, rejecting any candidate
// whose range overlaps an already-accepted one.
func acceptNonOverlapping(pool []Extent) []Extent {
	var accepted []Extent
	for _, cand := range pool {
		start, end := cand.ImageOffset, cand.ImageOffset+cand.Length

		i := sort.Search(len(accepted), func(i int) bool {
			return accepted[i].ImageOffset >= start
		})

		if i > 0 {
			prev := accepted[i-1]
			if prev.ImageOffset+prev.Length > start {
				continue // overlaps the accepted extent before it
			}
		}
		if i < len(accepted) {
			next := accepted[i]
			if end > next.ImageOffset {
				continue // overlaps the accepted extent after it
			}
		}

		accepted = append(accepted, Extent{})
		copy(accepted[i+1:], accepted[i:])
		accepted[i] = cand
	}
	return accepted
}
