package core

import "bytes"

// VerifyBytes confirms exact equality of the first length bytes
// starting at fileOffset/imageOffset, reading in chunks no larger
// than readBufSize. A false return disqualifies the candidate; it is
// not an error, since hash collisions, partial-block mismatches, and a
// candidate range running past either source's end are all expected
// reasons a candidate fails verification, not failures of the process.
func VerifyBytes(file, image ByteSource, fileOffset, imageOffset, length, readBufSize int64) (bool, error) {
	if fileOffset+length > file.Len() || imageOffset+length > image.Len() {
		return false, nil
	}

	bufSize := length
	if bufSize > readBufSize {
		bufSize = readBufSize
	}
	if bufSize <= 0 {
		return true, nil
	}

	fbuf := make([]byte, bufSize)
	ibuf := make([]byte, bufSize)
	remaining := length
	foff, ioff := fileOffset, imageOffset

	for remaining > 0 {
		n := bufSize
		if remaining < n {
			n = remaining
		}
		if err := readFullAt(file, fbuf[:n], foff); err != nil {
			return false, newIOErr(classifyReadErr(err), file.Path(), foff, err)
		}
		if err := readFullAt(image, ibuf[:n], ioff); err != nil {
			return false, newIOErr(classifyReadErr(err), image.Path(), ioff, err)
		}
		if !bytes.Equal(fbuf[:n], ibuf[:n]) {
			return false, nil
		}
		foff += n
		ioff += n
		remaining -= n
	}
	return true, nil
}
