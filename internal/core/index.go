package core

// BlockIndex maps a block hash to the ascending-order list of image
// offsets where that hash was observed. Duplicates are preserved; the
// list is read-only once built.
type BlockIndex struct {
	byHash map[Hash128][]int64
}

// BuildBlockIndex builds the image's block index from its hash
// stream. Because HashBlocks emits records in ascending offset order,
// each hash's offset list is naturally ascending without an explicit
// sort.
func BuildBlockIndex(records []HashRecord) *BlockIndex {
	idx := &BlockIndex{byHash: make(map[Hash128][]int64, len(records))}
	for _, r := range records {
		idx.byHash[r.Hash] = append(idx.byHash[r.Hash], r.Offset)
	}
	return idx
}

// Lookup returns the image offsets sharing hash h, in ascending
// order, or nil on miss.
func (b *BlockIndex) Lookup(h Hash128) []int64 {
	return b.byHash[h]
}
