// Package backup maintains the append-only set of timestamped registry file
// snapshots taken before every mutation. Snapshots are immutable once
// written and are never deleted here; retention is the operator's policy.
package backup

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/verdantlabs/mcporter/pkg/errors"
	"github.com/verdantlabs/mcporter/pkg/logger"
)

const (
	// snapshotPrefix and snapshotSuffix frame every snapshot file name so the
	// directory can hold other files without confusing List.
	snapshotPrefix = "claude_desktop_config-"
	snapshotSuffix = ".json.bak"

	// stampLayout is fixed-width and zero-padded down to nanoseconds, so
	// lexicographic order of file names equals chronological order and rapid
	// repeated snapshots get distinct names.
	stampLayout = "20060102T150405.000000000"

	dirPerm  = os.FileMode(0o700)
	filePerm = os.FileMode(0o600)
)

// Snapshot is one immutable timestamped copy of the registry file.
type Snapshot struct {
	// Timestamp is when the snapshot was captured, in UTC.
	Timestamp time.Time

	// Path is the snapshot file location.
	Path string
}

// Content returns the exact bytes of the registry file at capture time.
func (s *Snapshot) Content() ([]byte, error) {
	content, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot %s: %w", s.Path, err)
	}
	return content, nil
}

// Store writes and lists snapshots under a single backup directory.
type Store struct {
	// Dir is the backup directory. It is created on first snapshot.
	Dir string

	// now is replaceable in tests that need deterministic stamps.
	now func() time.Time
}

// NewStore returns a snapshot store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{Dir: dir, now: time.Now}
}

// Snapshot copies the file at srcPath verbatim into the backup directory.
// If srcPath does not exist there is nothing to protect: the result is nil
// with no error. Any directory or copy failure is a backup_failed error and
// the caller must not proceed with its mutation.
func (s *Store) Snapshot(srcPath string) (*Snapshot, error) {
	content, err := os.ReadFile(srcPath)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Debugf("no registry file at %s, skipping snapshot", srcPath)
			return nil, nil
		}
		return nil, errors.NewBackupFailedError("failed to read registry file for snapshot", err)
	}

	if err := os.MkdirAll(s.Dir, dirPerm); err != nil {
		return nil, errors.NewBackupFailedError("failed to create backup directory", err)
	}

	stamp := s.clock().UTC()
	snap := &Snapshot{
		Timestamp: stamp,
		Path:      filepath.Join(s.Dir, snapshotPrefix+stamp.Format(stampLayout)+snapshotSuffix),
	}

	// O_EXCL: an existing snapshot is never overwritten.
	f, err := os.OpenFile(snap.Path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, filePerm)
	if err != nil {
		return nil, errors.NewBackupFailedError("failed to create snapshot file", err)
	}
	if _, err := f.Write(content); err != nil {
		_ = f.Close()
		return nil, errors.NewBackupFailedError("failed to write snapshot file", err)
	}
	if err := f.Close(); err != nil {
		return nil, errors.NewBackupFailedError("failed to close snapshot file", err)
	}

	logger.Debugw("captured registry snapshot", "path", snap.Path)
	return snap, nil
}

// List returns all snapshots in the backup directory ordered oldest first,
// most recent last. A missing directory means zero snapshots, not an error.
func (s *Store) List() ([]Snapshot, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	var snapshots []Snapshot
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasPrefix(name, snapshotPrefix) || !strings.HasSuffix(name, snapshotSuffix) {
			continue
		}
		stamp, err := time.Parse(stampLayout, strings.TrimSuffix(strings.TrimPrefix(name, snapshotPrefix), snapshotSuffix))
		if err != nil {
			logger.Warnf("skipping backup file with unparsable name: %s", name)
			continue
		}
		snapshots = append(snapshots, Snapshot{
			Timestamp: stamp,
			Path:      filepath.Join(s.Dir, name),
		})
	}

	// File names sort the same way as timestamps, but sort on the parsed
	// stamps to keep the contract independent of the name scheme.
	sort.Slice(snapshots, func(i, j int) bool {
		return snapshots[i].Timestamp.Before(snapshots[j].Timestamp)
	})
	return snapshots, nil
}

// Latest returns the most recent snapshot, or nil when there are none.
func (s *Store) Latest() (*Snapshot, error) {
	snapshots, err := s.List()
	if err != nil {
		return nil, err
	}
	if len(snapshots) == 0 {
		return nil, nil
	}
	return &snapshots[len(snapshots)-1], nil
}

// Find returns the snapshot whose file name embeds the given stamp string,
// as printed by the backups listing.
func (s *Store) Find(stamp string) (*Snapshot, error) {
	snapshots, err := s.List()
	if err != nil {
		return nil, err
	}
	for i := range snapshots {
		if snapshots[i].Timestamp.Format(stampLayout) == stamp {
			return &snapshots[i], nil
		}
	}
	return nil, fmt.Errorf("no snapshot with timestamp %s", stamp)
}

// Stamp returns the canonical string form of a snapshot timestamp.
func Stamp(t time.Time) string {
	return t.UTC().Format(stampLayout)
}

func (s *Store) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}
