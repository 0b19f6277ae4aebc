package core

import (
	"io"

	"github.com/spaolacci/murmur3"
)

// HashRecord is a single (offset, hash) pair for one aligned block.
type HashRecord struct {
	Offset int64
	Hash   Hash128
}

// HashBlocks reads src sequentially and returns one HashRecord per
// full, block-aligned window. A trailing partial block (shorter than
// blockSize) is not hashed; its bytes still participate as literals
// downstream, just never as a hash lookup key.
func HashBlocks(src ByteSource, blockSize int64) ([]HashRecord, error) {
	n := src.Len()
	numBlocks := n / blockSize
	records := make([]HashRecord, 0, numBlocks)
	buf := make([]byte, blockSize)
	for i := int64(0); i < numBlocks; i++ {
		off := i * blockSize
		if err := readFullAt(src, buf, off); err != nil {
			return nil, newIOErr(classifyReadErr(err), src.Path(), off, err)
		}
		h1, h2 := murmur3.Sum128WithSeed(buf, 0)
		records = append(records, HashRecord{Offset: off, Hash: Hash128{H1: h1, H2: h2}})
	}
	return records, nil
}

// hashBlock hashes exactly one block-aligned window of src at off.
// Used by the extender to compute the image side's next-block hash on
// demand, without materializing the whole image's hash vector.
func hashBlock(src ByteSource, off, blockSize int64) (Hash128, []byte, error) {
	buf := make([]byte, blockSize)
	if err := readFullAt(src, buf, off); err != nil {
		return Hash128{}, nil, newIOErr(classifyReadErr(err), src.Path(), off, err)
	}
	h1, h2 := murmur3.Sum128WithSeed(buf, 0)
	return Hash128{H1: h1, H2: h2}, buf, nil
}

// readFullAt reads exactly len(p) bytes from src starting at off,
// treating a short read as fatal (the image/file is immutable once
// discovery begins; a short read means the underlying source shrank
// or I/O failed outright).
func readFullAt(src ByteSource, p []byte, off int64) error {
	_, err := io.ReadFull(io.NewSectionReader(src, off, int64(len(p))), p)
	return err
}

func classifyReadErr(err error) ErrorKind {
	if err == io.ErrUnexpectedEOF || err == io.EOF {
		return ErrShortRead
	}
	return ErrIO
}
