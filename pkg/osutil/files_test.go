package osutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "2022-04.pdf")

	exists, err := Exists(path)
	require.NoError(t, err)
	require.False(t, exists)

	require.NoError(t, WriteFileAtomic(path, []byte("first")))
	require.NoError(t, WriteFileAtomic(path, []byte("second")))

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "second", string(contents))

	exists, err = Exists(path)
	require.NoError(t, err)
	require.True(t, exists)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1, "no temporary files should be left behind")
}

func TestWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "url_mapping.json")
	err := WriteJSON(path, map[string]string{
		"2022-04": "http://example.com/a.pdf?a=1&b=2",
		"2022-03": "http://example.com/b.pdf",
	})
	require.NoError(t, err)

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, `{
  "2022-03": "http://example.com/b.pdf",
  "2022-04": "http://example.com/a.pdf?a=1&b=2"
}
`, string(contents))
}
