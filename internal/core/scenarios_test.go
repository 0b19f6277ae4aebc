package core

import (
	"testing"
)

// testConfig returns the B=16, M=64, S=64 configuration used by every
// end-to-end scenario.
func testConfig() Config {
	return Config{BlockSize: 16, MinExtentSize: 64, StepSize: 64, WriteChunkSize: 4096}
}

func discoverOne(t *testing.T, image, file *memSource, cfg Config) *RunResult {
	t.Helper()
	hashes, err := HashBlocks(image, cfg.BlockSize)
	if err != nil {
		t.Fatalf("hashing image: %v", err)
	}
	idx := BuildBlockIndex(hashes)

	result, err := Discover(image, []ByteSource{file}, idx, cfg, nil)
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	return result
}

func assertSegment(t *testing.T, got Segment, kind SegmentKind, imgOff, length int64) {
	t.Helper()
	if got.Kind != kind {
		t.Fatalf("segment kind = %v, want %v", got.Kind, kind)
	}
	if got.ImageOffset != imgOff {
		t.Fatalf("segment image offset = %d, want %d", got.ImageOffset, imgOff)
	}
	if got.Length != length {
		t.Fatalf("segment length = %d, want %d", got.Length, length)
	}
}

// Scenario 1: exact overlay. N=256, F = I[64..192) (length 128).
// Expected: Literal(0,64), Copy(F,0,64,128), Literal(192,64).
func TestScenarioExactOverlay(t *testing.T) {
	cfg := testConfig()
	image := newMemSource("image", pseudoRandom(1, 256))
	file := newMemSource("f", image.data[64:192])

	result := discoverOne(t, image, file, cfg)

	if len(result.Plan) != 3 {
		t.Fatalf("plan has %d segments, want 3: %+v", len(result.Plan), result.Plan)
	}
	assertSegment(t, result.Plan[0], SegmentLiteral, 0, 64)
	assertSegment(t, result.Plan[1], SegmentCopy, 64, 128)
	if result.Plan[1].FilePath != "f" || result.Plan[1].FileOffset != 0 {
		t.Fatalf("copy segment = %+v, want file f at offset 0", result.Plan[1])
	}
	assertSegment(t, result.Plan[2], SegmentLiteral, 192, 64)
}

// Scenario 2: no match. N=128, F = 128 zero bytes absent from the
// image. Expected: Literal(0,128) only.
func TestScenarioNoMatch(t *testing.T) {
	cfg := testConfig()
	image := newMemSource("image", pseudoRandom(2, 128))
	file := newMemSource("f", fill(0, 128))

	// No explicit check is made that the image lacks a zero run of
	// the fixture's length; pseudoRandom output is dense enough.
	result := discoverOne(t, image, file, cfg)

	if len(result.Plan) != 1 {
		t.Fatalf("plan has %d segments, want 1: %+v", len(result.Plan), result.Plan)
	}
	assertSegment(t, result.Plan[0], SegmentLiteral, 0, 128)
}

// Scenario 3: two files, overlap in image space. F1 = I[0..128),
// F2 = I[64..192) (image N=256). Longest-first ties at 128; lowest
// image offset wins (F1). Expected: Copy(F1,0,0,128), Literal(128,128).
func TestScenarioOverlapAcrossFiles(t *testing.T) {
	cfg := testConfig()
	image := newMemSource("image", pseudoRandom(3, 256))
	f1 := newMemSource("f1", image.data[0:128])
	f2 := newMemSource("f2", image.data[64:192])

	hashes, err := HashBlocks(image, cfg.BlockSize)
	if err != nil {
		t.Fatalf("hashing image: %v", err)
	}
	idx := BuildBlockIndex(hashes)

	result, err := Discover(image, []ByteSource{f1, f2}, idx, cfg, nil)
	if err != nil {
		t.Fatalf("discover: %v", err)
	}

	if len(result.Plan) != 2 {
		t.Fatalf("plan has %d segments, want 2: %+v", len(result.Plan), result.Plan)
	}
	assertSegment(t, result.Plan[0], SegmentCopy, 0, 128)
	if result.Plan[0].FilePath != "f1" {
		t.Fatalf("copy segment file = %q, want f1", result.Plan[0].FilePath)
	}
	assertSegment(t, result.Plan[1], SegmentLiteral, 128, 128)
}

// Scenario 4: extension beyond M. Image 512 bytes, F = I[0..300).
// Expected: one Copy(F,0,0,300) then Literal(300,212).
func TestScenarioExtensionBeyondMinimum(t *testing.T) {
	cfg := testConfig()
	image := newMemSource("image", pseudoRandom(4, 512))
	file := newMemSource("f", image.data[0:300])

	result := discoverOne(t, image, file, cfg)

	if len(result.Plan) != 2 {
		t.Fatalf("plan has %d segments, want 2: %+v", len(result.Plan), result.Plan)
	}
	assertSegment(t, result.Plan[0], SegmentCopy, 0, 300)
	assertSegment(t, result.Plan[1], SegmentLiteral, 300, 212)
}

// Scenario 5: misaligned file. F[0..M+10) equals I[5..5+M+10), so no
// block hash alignment ever occurs. Expected: single Literal(0,N).
func TestScenarioMisaligned(t *testing.T) {
	cfg := testConfig()
	image := newMemSource("image", pseudoRandom(5, 256))
	file := newMemSource("f", image.data[5:5+cfg.MinExtentSize+10])

	result := discoverOne(t, image, file, cfg)

	if len(result.Plan) != 1 {
		t.Fatalf("plan has %d segments, want 1: %+v", len(result.Plan), result.Plan)
	}
	assertSegment(t, result.Plan[0], SegmentLiteral, 0, 256)
}

// Scenario 6: multiple extents per file. F = I[0..M) ++ X ++ I[3M..4M)
// where X is M bytes absent from the image. Expected: two Copy
// segments at image offsets 0 and 3M, with an intervening Literal.
func TestScenarioMultipleExtentsPerFile(t *testing.T) {
	cfg := testConfig()
	M := cfg.MinExtentSize
	image := newMemSource("image", pseudoRandom(6, int(4*M)))

	x := fill(0xAA, int(M))
	var fdata []byte
	fdata = append(fdata, image.data[0:M]...)
	fdata = append(fdata, x...)
	fdata = append(fdata, image.data[3*M:4*M]...)
	file := newMemSource("f", fdata)

	result := discoverOne(t, image, file, cfg)

	var copies []Segment
	for _, seg := range result.Plan {
		if seg.Kind == SegmentCopy {
			copies = append(copies, seg)
		}
	}
	if len(copies) != 2 {
		t.Fatalf("got %d copy segments, want 2: %+v", len(copies), result.Plan)
	}
	if copies[0].ImageOffset != 0 || copies[0].Length != M {
		t.Fatalf("first copy = %+v, want offset 0 length %d", copies[0], M)
	}
	if copies[1].ImageOffset != 3*M || copies[1].Length != M {
		t.Fatalf("second copy = %+v, want offset %d length %d", copies[1], 3*M, M)
	}
}
