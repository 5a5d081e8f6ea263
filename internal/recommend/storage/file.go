// GAdvi - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gadvi

package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// ErrArtifactLocked is returned when another process holds the lock file of
// an artifact.
var ErrArtifactLocked = errors.New("artifact is locked")

// StaleLockAge is how old a lock file must be before a writer reclaims it.
// A save killed mid-write leaves its lock file behind.
const StaleLockAge = 10 * time.Minute

// FileBackend stores each blob as a file in a directory.
type FileBackend struct {
	baseDir string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewFileBackend creates a file backend rooted at baseDir.
func NewFileBackend(baseDir string) (*FileBackend, error) {
	if err := os.MkdirAll(baseDir, 0o750); err != nil { //nolint:gosec // 0750 is acceptable for model storage
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	return &FileBackend{
		baseDir: baseDir,
		locks:   make(map[string]*sync.Mutex),
	}, nil
}

// Name implements Backend.
func (b *FileBackend) Name() string { return "file" }

// Dir returns the storage directory.
func (b *FileBackend) Dir() string { return b.baseDir }

func (b *FileBackend) blobPath(artifact string, blob Blob) string {
	return filepath.Join(b.baseDir, artifact+string(blob))
}

func (b *FileBackend) artifactLock(artifact string) *sync.Mutex {
	b.mu.Lock()
	defer b.mu.Unlock()

	l, ok := b.locks[artifact]
	if !ok {
		l = &sync.Mutex{}
		b.locks[artifact] = l
	}
	return l
}

// WriteBlobs implements Backend. Each blob is written to a temporary file and
// renamed into place while the artifact lock file is held.
func (b *FileBackend) WriteBlobs(ctx context.Context, artifact string, blobs map[Blob][]byte) error {
	l := b.artifactLock(artifact)
	l.Lock()
	defer l.Unlock()

	lockPath := filepath.Join(b.baseDir, artifact+".lock")
	lock, err := acquireLock(lockPath, time.Now())
	if err != nil {
		return err
	}
	defer func() {
		_ = lock.Close()        //nolint:errcheck // lock file carries no data
		_ = os.Remove(lockPath) //nolint:errcheck // best effort cleanup
	}()

	for _, blob := range Blobs {
		data, ok := blobs[blob]
		if !ok {
			return fmt.Errorf("blob %s missing from write", blob)
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := writeFileAtomic(b.blobPath(artifact, blob), data); err != nil {
			return err
		}
	}
	return nil
}

// acquireLock creates lockPath exclusively and records the holder in it. A
// lock file older than StaleLockAge is removed and the create retried once.
func acquireLock(lockPath string, now time.Time) (*os.File, error) {
	for attempt := 0; attempt < 2; attempt++ {
		lock, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600) //nolint:gosec // path is built from the artifact name
		if err == nil {
			_, _ = fmt.Fprintf(lock, "pid=%d time=%s\n", os.Getpid(), now.UTC().Format(time.RFC3339)) //nolint:errcheck // holder info is informational
			return lock, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return nil, fmt.Errorf("create lock file: %w", err)
		}

		info, err := os.Stat(lockPath)
		if errors.Is(err, fs.ErrNotExist) {
			continue // released in between
		}
		if err != nil {
			return nil, fmt.Errorf("stat lock file: %w", err)
		}
		age := now.Sub(info.ModTime())
		if age < StaleLockAge || attempt > 0 {
			holder, _ := os.ReadFile(lockPath) //nolint:gosec // path is built from the artifact name
			return nil, fmt.Errorf("%w: %s held by %q for %s (reclaimed after %s, or delete it if no save is running)",
				ErrArtifactLocked, lockPath, strings.TrimSpace(string(holder)), age.Round(time.Second), StaleLockAge)
		}
		if err := os.Remove(lockPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("remove stale lock file: %w", err)
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrArtifactLocked, lockPath)
}

func writeFileAtomic(path string, data []byte) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()           //nolint:errcheck // already failing
			_ = os.Remove(tmp.Name()) //nolint:errcheck // best effort cleanup
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync %s: %w", path, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}

// ReadBlob implements Backend.
func (b *FileBackend) ReadBlob(ctx context.Context, artifact string, blob Blob) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(b.blobPath(artifact, blob))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s%s", ErrBlobNotFound, artifact, blob)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s%s: %w", artifact, blob, err)
	}
	return data, nil
}

var _ Backend = (*FileBackend)(nil)
