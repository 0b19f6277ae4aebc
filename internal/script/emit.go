// Package script renders a Plan as a self-contained POSIX shell
// script: Literal segments become base64-encoded heredocs decoded at
// runtime, Copy segments become dd invocations against the
// already-present extracted files. It consumes a finished plan and
// contributes no discovery or planning logic of its own.
package script

import (
	"bufio"
	"encoding/base64"
	"fmt"
	"io"

	"imgsplice/internal/core"
	"imgsplice/internal/metadata"
)

// ddAlignThreshold is the Copy length at or above which the emitted dd
// command switches from a byte-at-a-time bs=1 read to a block-aligned
// read plus a short tail, trading a slightly more complex command for
// far fewer read syscalls in the generated script.
const ddAlignThreshold = 64 * 1024

const ddAlignBlock = 4096

// Options controls what the generated script restores and verifies.
type Options struct {
	RestoreOwnership bool
	RestoreACL       bool
	VerifyMD5        bool
	VerifySHA256     bool
}

// Emit writes a complete reconstruction script for plan to w. image
// is read to supply Literal segment bytes; imageMeta, when non-nil and
// opts calls for it, seeds the footer's ownership/ACL restoration.
func Emit(w io.Writer, image core.ByteSource, plan []core.Segment, imageMeta *metadata.Metadata, opts Options) error {
	bw := bufio.NewWriter(w)

	if err := writeHeader(bw, image.Len()); err != nil {
		return err
	}

	for i, seg := range plan {
		switch seg.Kind {
		case core.SegmentLiteral:
			if err := writeLiteral(bw, image, i, seg); err != nil {
				return err
			}
		case core.SegmentCopy:
			if err := writeCopy(bw, i, seg); err != nil {
				return err
			}
		}
	}

	if err := writeFooter(bw, image.Len(), imageMeta, opts); err != nil {
		return err
	}

	return bw.Flush()
}

func writeHeader(w *bufio.Writer, imageSize int64) error {
	_, err := fmt.Fprintf(w, `#!/bin/sh
# Generated reconstruction script. Writes a %d-byte image to the path
# given on the command line by splicing embedded literal data with
# byte ranges read from already-present extracted files.
set -eu

out="${1:?usage: $0 <output-path>}"
: > "$out"

`, imageSize)
	return err
}

func writeLiteral(w *bufio.Writer, image core.ByteSource, index int, seg core.Segment) error {
	buf := make([]byte, seg.Length)
	if _, err := image.ReadAt(buf, seg.ImageOffset); err != nil {
		return fmt.Errorf("reading literal segment %d: %w", index, err)
	}

	if _, err := fmt.Fprintf(w, "# segment %d: literal %d bytes at offset %d\n", index, seg.Length, seg.ImageOffset); err != nil {
		return err
	}
	if _, err := w.WriteString("base64 -d <<'IMGSPLICE_EOF' >> \"$out\"\n"); err != nil {
		return err
	}

	enc := base64.NewEncoder(base64.StdEncoding, w)
	if _, err := enc.Write(buf); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}

	_, err := w.WriteString("\nIMGSPLICE_EOF\n\n")
	return err
}

// writeCopy emits a dd invocation reading seg.Length bytes starting at
// seg.FileOffset from seg.FilePath. Short copies read byte-aligned;
// long ones read block-aligned from the first full block boundary at
// or after FileOffset plus a short head and tail, to cut the syscall
// count dd issues.
func writeCopy(w *bufio.Writer, index int, seg core.Segment) error {
	path := shellQuote(seg.FilePath)

	if seg.Length < ddAlignThreshold {
		_, err := fmt.Fprintf(w,
			"# segment %d: copy %d bytes from %s at file offset %d\n"+
				"dd if=%s bs=1 skip=%d count=%d >> \"$out\" 2>/dev/null\n\n",
			index, seg.Length, path, seg.FileOffset, path, seg.FileOffset, seg.Length)
		return err
	}

	headLen := (ddAlignBlock - seg.FileOffset%ddAlignBlock) % ddAlignBlock
	alignedStart := seg.FileOffset + headLen
	alignedBlocks := (seg.Length - headLen) / ddAlignBlock
	alignedLen := alignedBlocks * ddAlignBlock
	tailStart := alignedStart + alignedLen
	tailLen := seg.Length - headLen - alignedLen

	if _, err := fmt.Fprintf(w, "# segment %d: copy %d bytes from %s at file offset %d (block-aligned)\n",
		index, seg.Length, path, seg.FileOffset); err != nil {
		return err
	}
	if headLen > 0 {
		if _, err := fmt.Fprintf(w, "dd if=%s bs=1 skip=%d count=%d >> \"$out\" 2>/dev/null\n",
			path, seg.FileOffset, headLen); err != nil {
			return err
		}
	}
	if alignedBlocks > 0 {
		if _, err := fmt.Fprintf(w, "dd if=%s bs=%d skip=%d count=%d >> \"$out\" 2>/dev/null\n",
			path, ddAlignBlock, alignedStart/ddAlignBlock, alignedBlocks); err != nil {
			return err
		}
	}
	if tailLen > 0 {
		if _, err := fmt.Fprintf(w, "dd if=%s bs=1 skip=%d count=%d >> \"$out\" 2>/dev/null\n",
			path, tailStart, tailLen); err != nil {
			return err
		}
	}
	_, err := w.WriteString("\n")
	return err
}

func writeFooter(w *bufio.Writer, imageSize int64, imageMeta *metadata.Metadata, opts Options) error {
	if _, err := fmt.Fprintf(w, `# reconstruction complete
actual_size=$(wc -c < "$out" | tr -d ' ')
if [ "$actual_size" -ne %d ]; then
    echo "warning: output size $actual_size does not match expected size %d" >&2
fi
`, imageSize, imageSize); err != nil {
		return err
	}

	if imageMeta != nil && opts.RestoreOwnership {
		if _, err := fmt.Fprintf(w, "chown %d:%d \"$out\" 2>/dev/null || true\n", imageMeta.UID, imageMeta.GID); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "chmod %04o \"$out\" 2>/dev/null || true\n", imageMeta.Mode.Perm()); err != nil {
			return err
		}
	}

	if imageMeta != nil && opts.RestoreACL {
		for _, e := range imageMeta.ACL {
			if _, err := fmt.Fprintf(w, "setfacl -m %s:%s:%s \"$out\" 2>/dev/null || true\n",
				shellQuote(e.Tag), shellQuote(e.Qualifier), shellQuote(e.Permission)); err != nil {
				return err
			}
		}
	}

	if imageMeta != nil && opts.VerifyMD5 && len(imageMeta.MD5) > 0 {
		if _, err := fmt.Fprintf(w, "echo '%x  '\"$out\" | md5sum -c - || echo \"warning: md5 mismatch\" >&2\n", imageMeta.MD5); err != nil {
			return err
		}
	} else if opts.VerifyMD5 {
		if _, err := w.WriteString("md5sum \"$out\"\n"); err != nil {
			return err
		}
	}

	if imageMeta != nil && opts.VerifySHA256 && len(imageMeta.SHA256) > 0 {
		if _, err := fmt.Fprintf(w, "echo '%x  '\"$out\" | sha256sum -c - || echo \"warning: sha256 mismatch\" >&2\n", imageMeta.SHA256); err != nil {
			return err
		}
	} else if opts.VerifySHA256 {
		if _, err := w.WriteString("sha256sum \"$out\"\n"); err != nil {
			return err
		}
	}

	return nil
}

// shellQuote wraps s in single quotes, escaping any embedded single
// quote the POSIX way: close the quote, emit an escaped quote, reopen.
func shellQuote(s string) string {
	out := "'"
	for _, r := range s {
		if r == '\'' {
			out += `'\''`
		} else {
			out += string(r)
		}
	}
	return out + "'"
}
