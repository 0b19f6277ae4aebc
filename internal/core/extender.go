package core

import "bytes"

// ExtendExtent grows a verified (fileOffset, imageOffset, length)
// alignment forward: block-wise while full blocks keep matching, then
// byte-wise across the tail until the first mismatch or an endpoint.
// fileHashes is the file's precomputed block hash vector, indexed by
// block number, so the block-wise phase avoids re-hashing the file
// side on every step.
func ExtendExtent(file, image ByteSource, fileOffset, imageOffset, length int64, cfg Config, fileHashes []HashRecord) (int64, error) {
	Lf := file.Len()
	N := image.Len()
	B := cfg.BlockSize

	for fileOffset+length+B <= Lf && imageOffset+length+B <= N {
		blockNum := (fileOffset + length) / B
		if blockNum >= int64(len(fileHashes)) {
			break
		}
		nextFileHash := fileHashes[blockNum].Hash

		imgHash, imgBuf, err := hashBlock(image, imageOffset+length, B)
		if err != nil {
			return 0, err
		}
		if imgHash != nextFileHash {
			break
		}

		fileBuf := make([]byte, B)
		if err := readFullAt(file, fileBuf, fileOffset+length); err != nil {
			return 0, newIOErr(classifyReadErr(err), file.Path(), fileOffset+length, err)
		}
		if !bytes.Equal(fileBuf, imgBuf) {
			// Hash collision between file and image blocks; the byte
			// comparison is authoritative and this block does not
			// extend the match.
			break
		}
		length += B
	}

	return extendTail(file, image, fileOffset, imageOffset, length, cfg.WriteChunkSize)
}

// extendTail performs the byte-wise tail phase in batches of up to
// limitBuf bytes rather than one byte at a time, which is equivalent
// to a strict byte-by-byte comparison but avoids a read call per byte.
func extendTail(file, image ByteSource, fileOffset, imageOffset, length, limitBuf int64) (int64, error) {
	Lf := file.Len()
	N := image.Len()

	for {
		remainingFile := Lf - (fileOffset + length)
		remainingImage := N - (imageOffset + length)
		remaining := remainingFile
		if remainingImage < remaining {
			remaining = remainingImage
		}
		if remaining <= 0 {
			return length, nil
		}

		chunk := remaining
		if chunk > limitBuf {
			chunk = limitBuf
		}

		fbuf := make([]byte, chunk)
		ibuf := make([]byte, chunk)
		if err := readFullAt(file, fbuf, fileOffset+length); err != nil {
			return length, newIOErr(classifyReadErr(err), file.Path(), fileOffset+length, err)
		}
		if err := readFullAt(image, ibuf, imageOffset+length); err != nil {
			return length, newIOErr(classifyReadErr(err), image.Path(), imageOffset+length, err)
		}

		mismatch := int64(-1)
		for i := int64(0); i < chunk; i++ {
			if fbuf[i] != ibuf[i] {
				mismatch = i
				break
			}
		}
		if mismatch >= 0 {
			return length + mismatch, nil
		}

		length += chunk
		if chunk < limitBuf {
			return length, nil
		}
	}
}
