package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGatherAllScorePaths(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.musicxml", "a.xml", "nested/c.mxl", "notes.txt", "song.mid"} {
		p := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, nil, 0o644))
	}

	paths, err := GatherAllScorePaths(dir, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.xml"),
		filepath.Join(dir, "b.musicxml"),
		filepath.Join(dir, "nested/c.mxl"),
	}, paths)

	paths, err = GatherAllScorePaths(dir, 2)
	require.NoError(t, err)
	assert.Len(t, paths, 2)

	_, err = GatherAllScorePaths(filepath.Join(dir, "missing"), 0)
	assert.Error(t, err)
}

func TestGetKeys(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, GetKeys(map[string]int{"c": 1, "a": 2, "b": 3}))
}

func TestSumAndMax(t *testing.T) {
	assert.Equal(t, 6, Sum([]int{1, 2, 3}))
	assert.Equal(t, 4.5, Sum([]float64{1.5, 3}))
	assert.Equal(t, 0, Sum([]int(nil)))

	assert.Equal(t, 7, Max([]int{3, 7, 1}))
	assert.Equal(t, -1.0, Max([]float64{-3, -1}))
	assert.Equal(t, 0, Max([]int{}))
}
