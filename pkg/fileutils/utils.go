package fileutils

import (
	"fmt"
	"os"

	"imgsplice/internal/core"
)

// PrintPlanSummary prints a human-readable report of a completed
// plan build to standard error, in the same spirit as a build tool's
// final stats block: how much of the image ended up embedded versus
// copied, and which extracted files contributed extents.
func PrintPlanSummary(imageSize int64, result *core.RunResult) {
	fmt.Fprintf(os.Stderr, "\n=== Plan Summary ===\n")
	fmt.Fprintf(os.Stderr, "Image size:        %d bytes\n", imageSize)
	fmt.Fprintf(os.Stderr, "Segments:          %d\n", len(result.Plan))
	fmt.Fprintf(os.Stderr, "Literal bytes:     %d (%.2f%%)\n", result.Literal, pct(result.Literal, imageSize))
	fmt.Fprintf(os.Stderr, "Copied bytes:      %d (%.2f%%)\n", result.Copied, pct(result.Copied, imageSize))

	var filesWithExtents int
	for _, extents := range result.PerFile {
		if len(extents) > 0 {
			filesWithExtents++
		}
	}
	fmt.Fprintf(os.Stderr, "Files contributing extents: %d / %d\n", filesWithExtents, len(result.PerFile))

	if pct(result.Literal, imageSize) > 50 {
		fmt.Fprintf(os.Stderr, "\nWarning: more than half the image is embedded as literal data.\n"+
			"Consider a larger file set, a smaller block size, or a smaller minimum extent size.\n")
	}
}

func pct(n, total int64) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}
