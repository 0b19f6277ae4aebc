package core

// Extent is a verified, contiguous byte range shared between one
// extracted file and the image.
type Extent struct {
	FilePath    string
	FileOffset  int64
	ImageOffset int64
	Length      int64
}

// DiscoverExtents runs the per-file discovery loop described in the
// component design: hash the file once, then walk file_pos forward,
// looking up candidates, verifying, extending on a hit, and stepping
// by a block-aligned step size on a miss. Extents are returned sorted
// by ascending file_offset and are non-overlapping in file-offset
// space (I2).
func DiscoverExtents(file, image ByteSource, idx *BlockIndex, cfg Config, sink Sink) ([]Extent, error) {
	if sink == nil {
		sink = NullSink{}
	}

	sink.Event(EventHashingFile, map[string]any{"path": file.Path()})
	fileHashes, err := HashBlocks(file, cfg.BlockSize)
	if err != nil {
		return nil, err
	}

	var result []Extent
	Lf := file.Len()
	stepBlocks := cfg.stepBlocks()
	stepBytes := stepBlocks * cfg.BlockSize

	filePos := int64(0)
	for filePos+cfg.MinExtentSize <= Lf {
		blockNum := filePos / cfg.BlockSize
		if filePos%cfg.BlockSize != 0 || blockNum >= int64(len(fileHashes)) {
			// Not aligned to a hashed block (file_pos lands here after
			// an extent whose length is not a block multiple, and the
			// block-sized step keeps it misaligned); there is no hash
			// to look up, so treat as a miss.
			filePos += stepBytes
			continue
		}

		sink.Event(EventMatchingFile, map[string]any{
			"path":     file.Path(),
			"progress": float64(filePos) / float64(Lf) * 100,
		})

		candidates := Candidates(idx, fileHashes[blockNum].Hash)

		verified := false
		var matchImageOffset int64
		for _, imgOff := range candidates {
			ok, err := VerifyBytes(file, image, filePos, imgOff, cfg.MinExtentSize, cfg.WriteChunkSize)
			if err != nil {
				return nil, err
			}
			if ok {
				verified = true
				matchImageOffset = imgOff
				break
			}
		}

		if !verified {
			filePos += stepBytes
			continue
		}

		length, err := ExtendExtent(file, image, filePos, matchImageOffset, cfg.MinExtentSize, cfg, fileHashes)
		if err != nil {
			return nil, err
		}

		ext := Extent{
			FilePath:    file.Path(),
			FileOffset:  filePos,
			ImageOffset: matchImageOffset,
			Length:      length,
		}
		result = append(result, ext)
		sink.Event(EventExtentFound, map[string]any{
			"path":         ext.FilePath,
			"file_offset":  ext.FileOffset,
			"image_offset": ext.ImageOffset,
			"length":       ext.Length,
		})

		filePos += length
	}

	return result, nil
}
