// GAdvi - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gadvi

package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

// Key prefix for artifact blobs in BadgerDB
const artifactKeyPrefix = "artifact:"

// BadgerBackend stores blobs in BadgerDB. The blobs of one artifact are
// written in a single transaction, so readers never see a partial triple.
type BadgerBackend struct {
	db    *badger.DB
	owned bool
}

// NewBadgerBackend wraps an open database. The caller keeps ownership of db.
func NewBadgerBackend(db *badger.DB) *BadgerBackend {
	return &BadgerBackend{db: db}
}

// OpenBadgerBackend opens (or creates) a database at path. Close releases it.
func OpenBadgerBackend(path string) (*BadgerBackend, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %s: %w", path, err)
	}
	return &BadgerBackend{db: db, owned: true}, nil
}

// Name implements Backend.
func (b *BadgerBackend) Name() string { return "badger" }

func blobKey(artifact string, blob Blob) []byte {
	return []byte(artifactKeyPrefix + artifact + string(blob))
}

// WriteBlobs implements Backend.
func (b *BadgerBackend) WriteBlobs(ctx context.Context, artifact string, blobs map[Blob][]byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.db.Update(func(txn *badger.Txn) error {
		for _, blob := range Blobs {
			data, ok := blobs[blob]
			if !ok {
				return fmt.Errorf("blob %s missing from write", blob)
			}
			if err := txn.Set(blobKey(artifact, blob), data); err != nil {
				return fmt.Errorf("set %s%s: %w", artifact, blob, err)
			}
		}
		return nil
	})
}

// ReadBlob implements Backend.
func (b *BadgerBackend) ReadBlob(ctx context.Context, artifact string, blob Blob) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var data []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(blobKey(artifact, blob))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("%w: %s%s", ErrBlobNotFound, artifact, blob)
		}
		if err != nil {
			return fmt.Errorf("get %s%s: %w", artifact, blob, err)
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

// DeleteBlob removes one blob. Deleting a missing blob is not an error.
func (b *BadgerBackend) DeleteBlob(artifact string, blob Blob) error {
	return b.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete(blobKey(artifact, blob)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("delete %s%s: %w", artifact, blob, err)
		}
		return nil
	})
}

// Close closes the database if the backend opened it.
func (b *BadgerBackend) Close() error {
	if !b.owned {
		return nil
	}
	return b.db.Close()
}

var _ Backend = (*BadgerBackend)(nil)
