package source_test

import (
	"context"
	"io"
	"net/url"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/clientdir/pkg/clientdir/registry"
	"github.com/randalmurphal/clientdir/pkg/clientdir/source"
)

func TestResolver_Open(t *testing.T) {
	tmpDir := t.TempDir()
	yamlPath := writeFile(t, tmpDir, "regs.yaml", registrationsYAML)
	dbPath := filepath.Join(tmpDir, "regs.db")

	r := source.NewResolver()
	assert.Equal(t, []string{"file", "sqlite"}, r.Schemes())

	t.Run("file uri", func(t *testing.T) {
		src, err := r.Open("file://" + yamlPath)
		require.NoError(t, err)
		require.IsType(t, &source.File{}, src)
		assert.Equal(t, yamlPath, src.(*source.File).Path)

		regs, err := src.Load(context.Background())
		require.NoError(t, err)
		assert.Len(t, regs, 2)
	})

	t.Run("bare path", func(t *testing.T) {
		src, err := r.Open(yamlPath)
		require.NoError(t, err)
		assert.Equal(t, yamlPath, src.(*source.File).Path)
	})

	t.Run("sqlite uri", func(t *testing.T) {
		src, err := r.Open("sqlite://" + dbPath)
		require.NoError(t, err)
		require.IsType(t, &source.SQLite{}, src)
		defer src.(io.Closer).Close()

		assert.Equal(t, []string{dbPath, dbPath + "-wal"}, src.(source.Watchable).WatchPaths())
	})

	t.Run("unknown scheme", func(t *testing.T) {
		_, err := r.Open("s3://bucket/regs.yaml")
		assert.ErrorIs(t, err, source.ErrUnknownScheme)
	})
}

func TestResolver_RegisterSealsOnOpen(t *testing.T) {
	r := source.NewResolver()
	memory := func(*url.URL) (source.Source, error) { return source.Static(expectedRegistrations()), nil }

	assert.ErrorIs(t, r.Register("file", memory), registry.ErrDuplicate)
	assert.Error(t, r.Register("", memory))
	require.NoError(t, r.Register("memory", memory))

	src, err := r.Open("memory:")
	require.NoError(t, err)
	regs, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, regs, 2)

	assert.ErrorIs(t, r.Register("later", memory), registry.ErrSealed)
}
