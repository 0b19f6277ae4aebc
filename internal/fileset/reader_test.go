package fileset

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadListLineSeparated(t *testing.T) {
	paths, err := ReadList(strings.NewReader("a/b.txt\nc/d.txt\r\n\nlast\n"), false)
	require.NoError(t, err)
	require.Equal(t, []string{"a/b.txt", "c/d.txt", "last"}, paths)
}

func TestReadListNullSeparated(t *testing.T) {
	paths, err := ReadList(strings.NewReader("a/b.txt\x00c/d.txt\x00"), true)
	require.NoError(t, err)
	require.Equal(t, []string{"a/b.txt", "c/d.txt"}, paths)
}

func TestReadListNullSeparatedNoTrailingNul(t *testing.T) {
	paths, err := ReadList(strings.NewReader("a/b.txt\x00c/d.txt"), true)
	require.NoError(t, err)
	require.Equal(t, []string{"a/b.txt", "c/d.txt"}, paths)
}

func TestReadListEmpty(t *testing.T) {
	paths, err := ReadList(strings.NewReader(""), false)
	require.NoError(t, err)
	require.Empty(t, paths)
}
