package core

// Candidates returns the image offsets at which a candidate extent
// starting at fileOffset could begin, in ascending image-offset
// order. No filtering happens here: every index hit is a candidate,
// and the byte verifier decides which (if any) survive.
func Candidates(idx *BlockIndex, fileBlockHash Hash128) []int64 {
	return idx.Lookup(fileBlockHash)
}
