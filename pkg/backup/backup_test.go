package backup

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdantlabs/mcporter/pkg/errors"
)

func writeRegistryFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "claude_desktop_config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestSnapshotCopiesVerbatim(t *testing.T) {
	t.Parallel()

	src := writeRegistryFile(t, `{"mcpServers": {"a": {"command": "npx"}}}`)
	store := NewStore(filepath.Join(t.TempDir(), "backups"))

	snap, err := store.Snapshot(src)
	require.NoError(t, err)
	require.NotNil(t, snap)

	content, err := snap.Content()
	require.NoError(t, err)
	assert.Equal(t, `{"mcpServers": {"a": {"command": "npx"}}}`, string(content))
}

func TestSnapshotMissingSourceIsNoOp(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "backups")
	store := NewStore(dir)

	snap, err := store.Snapshot(filepath.Join(t.TempDir(), "does-not-exist.json"))
	require.NoError(t, err)
	assert.Nil(t, snap, "nothing to protect, no snapshot expected")

	// The backup directory is not created for a no-op snapshot.
	_, statErr := os.Stat(dir)
	assert.True(t, os.IsNotExist(statErr))
}

func TestSnapshotCreatesBackupDirTree(t *testing.T) {
	t.Parallel()

	src := writeRegistryFile(t, `{}`)
	dir := filepath.Join(t.TempDir(), "nested", "deeply", "backups")
	store := NewStore(dir)

	snap, err := store.Snapshot(src)
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.DirExists(t, dir)
}

func TestSnapshotFailsWhenDirBlocked(t *testing.T) {
	t.Parallel()

	src := writeRegistryFile(t, `{}`)

	// A regular file where the backup directory should go.
	blocked := filepath.Join(t.TempDir(), "backups")
	require.NoError(t, os.WriteFile(blocked, []byte("in the way"), 0o600))

	_, err := NewStore(blocked).Snapshot(src)
	require.Error(t, err)
	assert.True(t, errors.IsBackupFailed(err), "expected backup_failed, got %v", err)
}

func TestRapidSnapshotsGetDistinctNames(t *testing.T) {
	t.Parallel()

	src := writeRegistryFile(t, `{"mcpServers": {}}`)
	store := NewStore(filepath.Join(t.TempDir(), "backups"))

	for i := 0; i < 5; i++ {
		_, err := store.Snapshot(src)
		require.NoError(t, err)
	}

	snapshots, err := store.List()
	require.NoError(t, err)
	assert.Len(t, snapshots, 5)
}

func TestListOrderedMostRecentLast(t *testing.T) {
	t.Parallel()

	src := writeRegistryFile(t, `{}`)
	store := NewStore(filepath.Join(t.TempDir(), "backups"))

	base := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	// Capture out of chronological order to prove List sorts.
	for _, offset := range []time.Duration{2 * time.Hour, 0, time.Hour} {
		stamp := base.Add(offset)
		store.now = func() time.Time { return stamp }
		_, err := store.Snapshot(src)
		require.NoError(t, err)
	}

	snapshots, err := store.List()
	require.NoError(t, err)
	require.Len(t, snapshots, 3)
	assert.True(t, snapshots[0].Timestamp.Before(snapshots[1].Timestamp))
	assert.True(t, snapshots[1].Timestamp.Before(snapshots[2].Timestamp))

	latest, err := store.Latest()
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, base.Add(2*time.Hour), latest.Timestamp)
}

func TestListMissingDir(t *testing.T) {
	t.Parallel()

	store := NewStore(filepath.Join(t.TempDir(), "never-created"))

	snapshots, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, snapshots)

	latest, err := store.Latest()
	require.NoError(t, err)
	assert.Nil(t, latest)
}

func TestListIgnoresForeignFiles(t *testing.T) {
	t.Parallel()

	src := writeRegistryFile(t, `{}`)
	dir := filepath.Join(t.TempDir(), "backups")
	store := NewStore(dir)

	_, err := store.Snapshot(src)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not a snapshot"), 0o600))

	snapshots, err := store.List()
	require.NoError(t, err)
	assert.Len(t, snapshots, 1)
}

func TestFindByStamp(t *testing.T) {
	t.Parallel()

	src := writeRegistryFile(t, `{"mcpServers": {}}`)
	store := NewStore(filepath.Join(t.TempDir(), "backups"))

	fixed := time.Date(2026, 5, 1, 12, 0, 0, 123456789, time.UTC)
	store.now = func() time.Time { return fixed }

	snap, err := store.Snapshot(src)
	require.NoError(t, err)
	require.NotNil(t, snap)

	found, err := store.Find(Stamp(fixed))
	require.NoError(t, err)
	assert.Equal(t, snap.Path, found.Path)

	_, err = store.Find("20990101T000000.000000000")
	assert.Error(t, err)
}
