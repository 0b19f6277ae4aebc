package metadata

import (
	"crypto/md5"
	"crypto/sha256"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCollectHashesMatchDirectComputation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.bin")
	content := []byte("the quick brown fox jumps over the lazy dog")
	require.NoError(t, os.WriteFile(path, content, 0644))

	m, err := Collect(path, Options{CollectMD5: true, CollectSHA256: true})
	require.NoError(t, err)

	wantMD5 := md5.Sum(content)
	wantSHA256 := sha256.Sum256(content)
	require.Equal(t, wantMD5[:], m.MD5)
	require.Equal(t, wantSHA256[:], m.SHA256)
}

func TestCollectSkipsDisabledFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.bin")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	m, err := Collect(path, Options{})
	require.NoError(t, err)
	require.Nil(t, m.MD5)
	require.Nil(t, m.SHA256)
	require.Nil(t, m.ACL)
}

func TestCollectMissingFile(t *testing.T) {
	_, err := Collect("/nonexistent/path/data.bin", DefaultOptions())
	require.Error(t, err)
}
