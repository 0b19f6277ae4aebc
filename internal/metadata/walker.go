// Package metadata collects one file's metadata: mode, ownership,
// mtime, optional ACL, optional MD5/SHA-256. The CLI collects it for
// the image only; extracted files' metadata is not collected.
package metadata

import (
	"crypto/md5"
	"crypto/sha256"
	"fmt"
	"hash"
	"io"
	"os"
	"syscall"
	"time"
)

// ACLEntry is one POSIX ACL entry, best-effort collected.
type ACLEntry struct {
	Tag        string // "user", "group", "mask", "other", etc.
	Qualifier  string // user/group name or id, empty for mask/other
	Permission string // e.g. "rwx"
}

// Metadata is the record Collect returns for one file; the core never
// sees it.
type Metadata struct {
	Mode   os.FileMode
	UID    int
	GID    int
	MTime  time.Time
	ACL    []ACLEntry // nil if not collected
	MD5    []byte     // nil if not collected
	SHA256 []byte     // nil if not collected
}

// Options toggles the metadata toggles documented on the CLI
// (--no-ownership, --no-acl, --no-md5, --no-sha256).
type Options struct {
	CollectOwnership bool
	CollectACL       bool
	CollectMD5       bool
	CollectSHA256    bool
}

// DefaultOptions collects everything; the CLI flags are all
// opt-out.
func DefaultOptions() Options {
	return Options{CollectOwnership: true, CollectACL: true, CollectMD5: true, CollectSHA256: true}
}

// Collect stats path and, depending on opts, hashes its contents and
// reads its ACL. Hashing opens the file once and feeds both digests
// from a single pass when both are requested.
func Collect(path string, opts Options) (Metadata, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return Metadata{}, fmt.Errorf("stat %s: %w", path, err)
	}

	m := Metadata{Mode: info.Mode(), MTime: info.ModTime()}

	if opts.CollectOwnership {
		if sys, ok := info.Sys().(*syscall.Stat_t); ok {
			m.UID = int(sys.Uid)
			m.GID = int(sys.Gid)
		}
	}

	if opts.CollectACL {
		acl, err := readACL(path)
		if err == nil {
			m.ACL = acl
		}
		// ACL support is best-effort and platform dependent: a
		// failure to read one is not fatal to metadata collection.
	}

	if opts.CollectMD5 || opts.CollectSHA256 {
		md5Sum, sha256Sum, err := hashFile(path, opts.CollectMD5, opts.CollectSHA256)
		if err != nil {
			return Metadata{}, fmt.Errorf("hash %s: %w", path, err)
		}
		m.MD5 = md5Sum
		m.SHA256 = sha256Sum
	}

	return m, nil
}

func hashFile(path string, wantMD5, wantSHA256 bool) (md5Sum, sha256Sum []byte, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	var writers []io.Writer
	var h1, h2 hash.Hash
	if wantMD5 {
		h1 = md5.New()
		writers = append(writers, h1)
	}
	if wantSHA256 {
		h2 = sha256.New()
		writers = append(writers, h2)
	}

	if _, err := io.Copy(io.MultiWriter(writers...), f); err != nil {
		return nil, nil, err
	}
	if h1 != nil {
		md5Sum = h1.Sum(nil)
	}
	if h2 != nil {
		sha256Sum = h2.Sum(nil)
	}
	return md5Sum, sha256Sum, nil
}
