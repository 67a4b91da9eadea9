package pkg

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type record struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestJSONFile(t *testing.T) {
	t.Run("write then read round-trips", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "records.json")

		want := []record{{Name: "one", Count: 1}, {Name: "two", Count: 2}}
		require.NoError(t, WriteJSONFileAtomic(path, want))

		got, err := ReadJSONFile[[]record](path)
		require.NoError(t, err)
		require.Equal(t, want, got)
	})

	t.Run("output is pretty-printed", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "record.json")
		require.NoError(t, WriteJSONFileAtomic(path, record{Name: "x"}))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		require.Contains(t, string(data), "\n  \"name\"")
	})

	t.Run("rewrite replaces the whole file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "state.json")

		require.NoError(t, WriteJSONFileAtomic(path, []int{1, 2, 3}))
		require.NoError(t, WriteJSONFileAtomic(path, []int{4}))

		got, err := ReadJSONFile[[]int](path)
		require.NoError(t, err)
		require.Equal(t, []int{4}, got)

		// No temp files are left behind.
		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Len(t, entries, 1)
	})

	t.Run("read of a missing file reports the path", func(t *testing.T) {
		_, err := ReadJSONFile[record](filepath.Join(t.TempDir(), "absent.json"))
		require.Error(t, err)
		require.Contains(t, err.Error(), "absent.json")
	})
}
