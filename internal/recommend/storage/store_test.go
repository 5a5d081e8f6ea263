// GAdvi - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gadvi

package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"

	"github.com/tomtom215/gadvi/internal/recommend"
	"github.com/tomtom215/gadvi/internal/recommend/algorithms"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func trainTestModel(t *testing.T, seed int64) *recommend.TrainedModel {
	t.Helper()

	players := []string{"p1", "p2", "p3", "p4"}
	games := []string{"g1", "g2", "g3", "g4", "g5"}
	var records []recommend.InteractionRecord
	for i, p := range players {
		for j, g := range games {
			if (i+j)%2 != 0 {
				continue
			}
			class := "1st party"
			if g == "g5" {
				class = "3rd party"
			}
			records = append(records, recommend.InteractionRecord{
				PlayerID:     p,
				GameName:     g,
				RoundCount:   i + j + 1,
				ContentClass: class,
				Country:      "MT",
				PlayDate:     time.Date(2019, time.November, 1+j, 0, 0, 0, 0, time.UTC),
			})
		}
	}

	hyper := recommend.DefaultHyperparameters()
	hyper.Epochs = 5
	hyper.Seed = seed
	model, err := recommend.Train(context.Background(),
		algorithms.NewFactorizer(testLogger(), time.Second),
		recommend.TrainInput{
			Records: records,
			IDMap:   recommend.FitIdentifierMapFromRecords(records),
			Hyper:   hyper,
		})
	if err != nil {
		t.Fatalf("Train() error = %v", err)
	}
	return model
}

func newBadgerBackend(t *testing.T) *BadgerBackend {
	t.Helper()

	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		t.Fatalf("Failed to open BadgerDB: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewBadgerBackend(db)
}

func newFileBackend(t *testing.T) *FileBackend {
	t.Helper()

	b, err := NewFileBackend(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileBackend() error = %v", err)
	}
	return b
}

func TestArtifactName(t *testing.T) {
	t.Parallel()

	if got := ArtifactName("lightFM", 10, "warp"); got != "model_lightFM_10_warp" {
		t.Errorf("ArtifactName() = %q", got)
	}
}

func TestStore_RoundTrip(t *testing.T) {
	t.Parallel()

	backends := map[string]func(*testing.T) Backend{
		"file":   func(t *testing.T) Backend { return newFileBackend(t) },
		"badger": func(t *testing.T) Backend { return newBadgerBackend(t) },
	}
	for name, newBackend := range backends {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			model := trainTestModel(t, 42)
			store := NewStore(newBackend(t), testLogger())
			ctx := context.Background()

			artifact, err := store.Save(ctx, model)
			if err != nil {
				t.Fatalf("Save() error = %v", err)
			}
			if artifact != "model_lightFM_10_warp" {
				t.Errorf("artifact = %q", artifact)
			}

			loaded, err := store.Load(ctx, artifact)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if loaded.Meta().RunID != model.Meta().RunID || !loaded.Meta().TrainedAt.Equal(model.Meta().TrainedAt) {
				t.Errorf("Meta() = %+v, want %+v", loaded.Meta(), model.Meta())
			}
			if !reflect.DeepEqual(loaded.Hyperparameters(), model.Hyperparameters()) {
				t.Errorf("Hyperparameters() = %+v, want %+v", loaded.Hyperparameters(), model.Hyperparameters())
			}

			for _, player := range append(model.IDMap().Players(), "cold") {
				want, err := recommend.Recommend(model, player, 3)
				if err != nil {
					t.Fatalf("Recommend() error = %v", err)
				}
				got, err := recommend.Recommend(loaded, player, 3)
				if err != nil {
					t.Fatalf("Recommend() on loaded model error = %v", err)
				}
				if !reflect.DeepEqual(got, want) {
					t.Errorf("player %s: loaded %v, original %v", player, got, want)
				}
			}
		})
	}
}

func TestStore_MissingBlob(t *testing.T) {
	t.Parallel()

	backend := newFileBackend(t)
	store := NewStore(backend, testLogger())
	artifact, err := store.Save(context.Background(), trainTestModel(t, 42))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := os.Remove(filepath.Join(backend.Dir(), artifact+string(BlobData))); err != nil {
		t.Fatal(err)
	}

	_, err = store.Load(context.Background(), artifact)
	var mismatch *recommend.ArtifactMismatchError
	if !errors.As(err, &mismatch) || mismatch.Blob != string(BlobData) {
		t.Fatalf("Load() error = %v, want mismatch on %s", err, BlobData)
	}
	if !errors.Is(err, recommend.ErrArtifactMismatch) || !errors.Is(err, ErrBlobNotFound) {
		t.Errorf("Load() error = %v does not unwrap to both sentinels", err)
	}
}

func TestStore_MixedRuns(t *testing.T) {
	t.Parallel()

	backend := newBadgerBackend(t)
	other := newBadgerBackend(t)
	ctx := context.Background()

	artifact, err := NewStore(backend, testLogger()).Save(ctx, trainTestModel(t, 1))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if _, err := NewStore(other, testLogger()).Save(ctx, trainTestModel(t, 2)); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	// graft the dataset blob of the second run onto the first
	foreign, err := other.ReadBlob(ctx, artifact, BlobDataset)
	if err != nil {
		t.Fatal(err)
	}
	blobs := make(map[Blob][]byte)
	for _, blob := range Blobs {
		if blobs[blob], err = backend.ReadBlob(ctx, artifact, blob); err != nil {
			t.Fatal(err)
		}
	}
	blobs[BlobDataset] = foreign
	if err := backend.WriteBlobs(ctx, artifact, blobs); err != nil {
		t.Fatal(err)
	}

	_, err = NewStore(backend, testLogger()).Load(ctx, artifact)
	var mismatch *recommend.ArtifactMismatchError
	if !errors.As(err, &mismatch) || mismatch.Blob != string(BlobDataset) {
		t.Fatalf("Load() error = %v, want run id mismatch on dataset", err)
	}
}

func TestStore_CorruptBlob(t *testing.T) {
	t.Parallel()

	backend := newFileBackend(t)
	store := NewStore(backend, testLogger())
	artifact, err := store.Save(context.Background(), trainTestModel(t, 42))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	path := filepath.Join(backend.Dir(), artifact+string(BlobModel))
	if err := os.WriteFile(path, []byte("not a model"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := store.Load(context.Background(), artifact); !errors.Is(err, recommend.ErrArtifactMismatch) {
		t.Errorf("Load() error = %v, want ErrArtifactMismatch", err)
	}
}

func TestBadgerBackend_DeleteBlob(t *testing.T) {
	t.Parallel()

	backend := newBadgerBackend(t)
	store := NewStore(backend, testLogger())
	artifact, err := store.Save(context.Background(), trainTestModel(t, 42))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := backend.DeleteBlob(artifact, BlobModel); err != nil {
		t.Fatalf("DeleteBlob() error = %v", err)
	}
	if _, err := store.Load(context.Background(), artifact); !errors.Is(err, ErrBlobNotFound) {
		t.Errorf("Load() error = %v, want ErrBlobNotFound", err)
	}
}

func TestFileBackend_Locked(t *testing.T) {
	t.Parallel()

	blobs := map[Blob][]byte{BlobModel: {1}, BlobDataset: {2}, BlobData: {3}}

	tests := []struct {
		name       string
		age        time.Duration
		wantLocked bool
	}{
		{"fresh lock is honored", time.Minute, true},
		{"stale lock is reclaimed", StaleLockAge + time.Minute, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			backend := newFileBackend(t)
			lockPath := filepath.Join(backend.Dir(), "model_x_1_warp.lock")
			if err := os.WriteFile(lockPath, []byte("pid=4242 time=2026-01-01T00:00:00Z\n"), 0o600); err != nil {
				t.Fatal(err)
			}
			mtime := time.Now().Add(-tt.age)
			if err := os.Chtimes(lockPath, mtime, mtime); err != nil {
				t.Fatal(err)
			}

			err := backend.WriteBlobs(context.Background(), "model_x_1_warp", blobs)
			if tt.wantLocked {
				if !errors.Is(err, ErrArtifactLocked) {
					t.Fatalf("WriteBlobs() error = %v, want ErrArtifactLocked", err)
				}
				if !strings.Contains(err.Error(), "pid=4242") || !strings.Contains(err.Error(), "delete it") {
					t.Errorf("lock error %q does not name the holder and the recovery", err)
				}
				return
			}

			if err != nil {
				t.Fatalf("WriteBlobs() error = %v, want stale lock reclaimed", err)
			}
			if _, err := os.Stat(lockPath); !errors.Is(err, os.ErrNotExist) {
				t.Errorf("lock file still present after save: %v", err)
			}
			if _, err := backend.ReadBlob(context.Background(), "model_x_1_warp", BlobData); err != nil {
				t.Errorf("ReadBlob() error = %v", err)
			}
		})
	}
}

func TestFileBackend_NoLeftovers(t *testing.T) {
	t.Parallel()

	backend := newFileBackend(t)
	err := backend.WriteBlobs(context.Background(), "a", map[Blob][]byte{
		BlobModel: {1}, BlobDataset: {2}, BlobData: {3},
	})
	if err != nil {
		t.Fatalf("WriteBlobs() error = %v", err)
	}

	entries, err := os.ReadDir(backend.Dir())
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	want := []string{"a.model", "a_data", "a_dataset"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("directory = %v, want %v", names, want)
	}
}
