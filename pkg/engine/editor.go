// Package engine applies mutations to the persisted tool server registry.
// It is the only path through which the registry file changes.
//
// Every mutating operation follows the same protocol: acquire the advisory
// file lock, snapshot the current file into the backup store when one
// exists, load, apply the pure transformation, and save atomically. Either
// the full sequence completes or the registry file is left exactly as it
// was found.
package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/verdantlabs/mcporter/pkg/backup"
	"github.com/verdantlabs/mcporter/pkg/errors"
	"github.com/verdantlabs/mcporter/pkg/fileutils"
	"github.com/verdantlabs/mcporter/pkg/logger"
	"github.com/verdantlabs/mcporter/pkg/registry"
)

const (
	// defaultLockTimeout is the maximum time to wait for the file lock.
	defaultLockTimeout = 1 * time.Second

	// lockRetryInterval is how often lock acquisition is retried.
	lockRetryInterval = 100 * time.Millisecond

	dirPerm  = os.FileMode(0o755)
	filePerm = os.FileMode(0o600)
)

// Editor mutates the registry file at a fixed path, snapshotting into the
// backup store before every change to an existing file.
type Editor struct {
	// RegistryPath is the canonical registry file location.
	RegistryPath string

	// Backups receives a snapshot of the current file before each mutation.
	Backups *backup.Store

	// LockTimeout bounds the wait for the advisory file lock. Zero means
	// the default of one second.
	LockTimeout time.Duration
}

// NewEditor returns an editor for the registry file at registryPath which
// snapshots into backupDir.
func NewEditor(registryPath, backupDir string) *Editor {
	return &Editor{
		RegistryPath: registryPath,
		Backups:      backup.NewStore(backupDir),
	}
}

// AddServer inserts or overwrites the entry keyed by its name. Re-adding an
// existing name replaces the whole entry (install-or-update semantics).
func (e *Editor) AddServer(ctx context.Context, entry registry.ServerEntry) error {
	if err := entry.Validate(); err != nil {
		return err
	}
	return e.mutate(ctx, func(doc *registry.Document) error {
		return doc.Put(entry)
	})
}

// RemoveServer deletes the named entry. Removing an absent name succeeds as
// a no-op; the backup is still taken when the file exists.
func (e *Editor) RemoveServer(ctx context.Context, name string) error {
	if name == "" {
		return errors.NewInvalidArgumentError("server name must not be empty", nil)
	}
	return e.mutate(ctx, func(doc *registry.Document) error {
		return doc.Remove(name)
	})
}

// ResetAll replaces the entire server mapping with empty, regardless of
// prior contents. Members of the file other than the server map survive.
func (e *Editor) ResetAll(ctx context.Context) error {
	return e.mutate(ctx, func(doc *registry.Document) error {
		return doc.Clear()
	})
}

// ReplaceAll replaces the entire server mapping with the given entries.
func (e *Editor) ReplaceAll(ctx context.Context, entries map[string]registry.ServerEntry) error {
	return e.mutate(ctx, func(doc *registry.Document) error {
		return doc.ReplaceAll(entries)
	})
}

// Restore writes a snapshot's exact bytes back to the registry path. The
// pre-restore state is itself snapshotted first, so a restore is never
// destructive.
func (e *Editor) Restore(ctx context.Context, snap *backup.Snapshot) error {
	content, err := snap.Content()
	if err != nil {
		return err
	}

	return e.withFileLock(ctx, func() error {
		if err := e.snapshotIfExists(); err != nil {
			return err
		}
		if err := fileutils.AtomicWriteFile(e.RegistryPath, content, filePerm); err != nil {
			return fmt.Errorf("failed to write registry file: %w", err)
		}
		logger.Infow("restored registry from snapshot", "snapshot", snap.Path)
		return nil
	})
}

// mutate runs the snapshot → load → transform → save protocol under the
// advisory file lock.
func (e *Editor) mutate(ctx context.Context, fn func(*registry.Document) error) error {
	return e.withFileLock(ctx, func() error {
		if err := e.snapshotIfExists(); err != nil {
			return err
		}

		doc, err := registry.Load(e.RegistryPath)
		if err != nil {
			return err
		}

		if err := fn(doc); err != nil {
			return err
		}
		return doc.Save(e.RegistryPath)
	})
}

// snapshotIfExists captures the current file when there is one. No mutation
// proceeds without a successful backup when a prior file exists.
func (e *Editor) snapshotIfExists() error {
	_, err := e.Backups.Snapshot(e.RegistryPath)
	return err
}

// withFileLock executes fn while holding the advisory lock for the registry
// path. A separate ".lock" file is used for cross-platform compatibility.
// The wait is bounded: expiry surfaces as lock_timeout, never an indefinite
// block.
func (e *Editor) withFileLock(ctx context.Context, fn func() error) error {
	timeout := e.LockTimeout
	if timeout == 0 {
		timeout = defaultLockTimeout
	}

	lockPath := e.RegistryPath + ".lock"
	if err := os.MkdirAll(filepath.Dir(lockPath), dirPerm); err != nil {
		return fmt.Errorf("failed to create registry directory: %w", err)
	}

	fileLock := flock.New(lockPath)
	lockCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	locked, err := fileLock.TryLockContext(lockCtx, lockRetryInterval)
	if err != nil {
		if lockCtx.Err() != nil {
			return errors.NewLockTimeoutError(
				fmt.Sprintf("failed to acquire lock on %s within %v", e.RegistryPath, timeout), err)
		}
		return fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !locked {
		return errors.NewLockTimeoutError(
			fmt.Sprintf("failed to acquire lock on %s within %v", e.RegistryPath, timeout), nil)
	}
	defer func() {
		if err := fileLock.Unlock(); err != nil {
			logger.Warnw("failed to release registry lock", "path", lockPath, "error", err)
		}
	}()

	return fn()
}
