package checkpoint

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorePut(t *testing.T) {
	root := filepath.Join(t.TempDir(), "snapshots")
	s, err := NewLocalStore(root)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, s.Put(ctx, "run.state", []byte("first\n")))

	got, err := os.ReadFile(filepath.Join(root, "run.state"))
	require.NoError(t, err)
	assert.Equal(t, "first\n", string(got))

	// A second Put replaces the snapshot.
	require.NoError(t, s.Put(ctx, "run.state", []byte("second\n")))
	got, err = os.ReadFile(filepath.Join(root, "run.state"))
	require.NoError(t, err)
	assert.Equal(t, "second\n", string(got))

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}
