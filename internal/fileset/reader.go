// Package fileset reads the list of extracted-file paths the
// generator should consider, from a file or stdin, newline- or
// NUL-delimited.
package fileset

import (
	"bufio"
	"bytes"
	"io"
)

// ReadList reads paths from r, one per entry, skipping empty entries.
// When nullSeparated is false entries are newline-delimited (trailing
// \r trimmed, matching CRLF file lists); when true they are
// NUL-delimited, matching `find -print0`.
func ReadList(r io.Reader, nullSeparated bool) ([]string, error) {
	if nullSeparated {
		return readNullSeparated(r)
	}
	return readLineSeparated(r)
}

func readLineSeparated(r io.Reader) ([]string, error) {
	var paths []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := bytes.TrimRight(scanner.Bytes(), "\r")
		if len(line) == 0 {
			continue
		}
		paths = append(paths, string(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return paths, nil
}

func readNullSeparated(r io.Reader) ([]string, error) {
	var paths []string
	reader := bufio.NewReader(r)
	for {
		entry, err := reader.ReadString(0)
		if err != nil && err != io.EOF {
			return nil, err
		}
		entry = trimTrailingNul(entry)
		if entry != "" {
			paths = append(paths, entry)
		}
		if err == io.EOF {
			break
		}
	}
	return paths, nil
}

func trimTrailingNul(s string) string {
	if n := len(s); n > 0 && s[n-1] == 0 {
		return s[:n-1]
	}
	return s
}
