package prompt

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultWithoutFile(t *testing.T) {
	s, err := NewStore("")
	require.NoError(t, err)
	assert.Equal(t, DefaultSummary, s.Default())
	assert.Contains(t, s.Default(), "comptes rendus de réunions")
}

func TestStoreReadsOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompt.txt")
	require.NoError(t, os.WriteFile(path, []byte("  Résume en trois points.\n"), 0o600))

	s, err := NewStore(path)
	require.NoError(t, err)
	assert.Equal(t, "Résume en trois points.", s.Default())
}

func TestEmptyOverrideFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompt.txt")
	require.NoError(t, os.WriteFile(path, []byte("\n\n"), 0o600))

	s, err := NewStore(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultSummary, s.Default())
}

func TestMissingOverrideIsError(t *testing.T) {
	_, err := NewStore(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestWatchReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompt.txt")
	require.NoError(t, os.WriteFile(path, []byte("v1"), 0o600))
	s, err := NewStore(path)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Watch(ctx) }()

	// The watcher registers asynchronously; keep rewriting until it is seen.
	require.Eventually(t, func() bool {
		_ = os.WriteFile(path, []byte("v2"), 0o600)
		return s.Default() == "v2"
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	assert.NoError(t, <-done)
}
