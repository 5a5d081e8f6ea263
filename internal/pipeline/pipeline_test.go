// GAdvi - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gadvi

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/gadvi/internal/extract"
	"github.com/tomtom215/gadvi/internal/recommend"
	"github.com/tomtom215/gadvi/internal/recommend/algorithms"
	"github.com/tomtom215/gadvi/internal/recommend/storage"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

// memorySource serves fixed records.
type memorySource struct {
	records []recommend.InteractionRecord
	err     error
}

func (s *memorySource) Name() string { return "memory" }

func (s *memorySource) Load(context.Context) ([]recommend.InteractionRecord, error) {
	return s.records, s.err
}

// extractRecords has six players with November history and December plays
// of known games, plus one December play of a game nobody played before.
func extractRecords() []recommend.InteractionRecord {
	games := []string{"blackjack", "roulette", "poker", "slots", "bingo", "keno"}
	var records []recommend.InteractionRecord
	for p := 0; p < 6; p++ {
		player := fmt.Sprintf("P%d", p+1)
		for g := 0; g < 3; g++ {
			records = append(records, recommend.InteractionRecord{
				PlayerID:     player,
				GameName:     games[(p+g)%len(games)],
				RoundCount:   g + 1,
				ContentClass: "1st Party",
				Country:      "MT",
				Operator:     "op",
				PlayDate:     time.Date(2019, time.November, p+g+1, 0, 0, 0, 0, time.UTC),
			})
		}
		records = append(records, recommend.InteractionRecord{
			PlayerID:     player,
			GameName:     games[(p+3)%len(games)],
			RoundCount:   2,
			ContentClass: "1st Party",
			Country:      "MT",
			Operator:     "op",
			PlayDate:     time.Date(2019, time.December, p+1, 0, 0, 0, 0, time.UTC),
		})
	}
	return append(records, recommend.InteractionRecord{
		PlayerID:     "P1",
		GameName:     "brand-new",
		RoundCount:   1,
		ContentClass: "1st Party",
		Country:      "MT",
		Operator:     "op",
		PlayDate:     time.Date(2019, time.December, 20, 0, 0, 0, 0, time.UTC),
	})
}

func newTestPipeline(t *testing.T, dataset string, source extract.Source) (*Pipeline, *storage.Store) {
	t.Helper()

	cfg := recommend.DefaultConfig()
	cfg.Hyperparameters.Epochs = 5
	cfg.Hyperparameters.Dimensions = 4
	engine, err := recommend.NewEngine(cfg, algorithms.NewFactorizer(testLogger(), time.Second), testLogger())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	backend, err := storage.NewFileBackend(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileBackend() error = %v", err)
	}
	store := storage.NewStore(backend, testLogger())

	p, err := New(Config{
		DataDir:    t.TempDir(),
		Dataset:    dataset,
		SampleSeed: 42,
		Month:      time.December,
	}, source, engine, store, testLogger())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return p, store
}

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	engine, err := recommend.NewEngine(nil, algorithms.NewFactorizer(testLogger(), time.Second), testLogger())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	backend, err := storage.NewFileBackend(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileBackend() error = %v", err)
	}
	store := storage.NewStore(backend, testLogger())

	tests := []struct {
		name   string
		cfg    Config
		engine *recommend.Engine
		store  *storage.Store
	}{
		{"unknown dataset", Config{Dataset: "sample_huge", Month: time.December}, engine, store},
		{"month zero", Config{Dataset: "full"}, engine, store},
		{"month thirteen", Config{Dataset: "full", Month: 13}, engine, store},
		{"no engine", Config{Dataset: "full", Month: time.December}, nil, store},
		{"no store", Config{Dataset: "full", Month: time.December}, engine, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := New(tt.cfg, nil, tt.engine, tt.store, testLogger()); err == nil {
				t.Error("New() error = nil, want error")
			}
		})
	}
}

func TestPipeline_Period(t *testing.T) {
	t.Parallel()

	p, _ := newTestPipeline(t, "full", nil)

	got, err := p.Period(extractRecords())
	if err != nil {
		t.Fatalf("Period() error = %v", err)
	}
	if want := recommend.MonthPeriod(2019, time.December); got != want {
		t.Errorf("Period() = %v, want %v", got, want)
	}
	if _, err := p.Period(nil); err == nil {
		t.Error("Period(nil) error = nil")
	}

	p.config.Year = 2018
	got, _ = p.Period(extractRecords()) //nolint:errcheck // explicit year never fails
	if want := recommend.MonthPeriod(2018, time.December); got != want {
		t.Errorf("Period() with year = %v, want %v", got, want)
	}
}

func TestPipeline_PrepareTrainEvaluate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	p, _ := newTestPipeline(t, "sample_tiny", &memorySource{records: extractRecords()})

	prep, err := p.Prepare(ctx)
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if prep.TrainRows != 18 || prep.TestRows != 6 {
		t.Errorf("rows = %d/%d, want 18/6", prep.TrainRows, prep.TestRows)
	}
	if prep.Records != 25 {
		t.Errorf("records = %d, want all 25 (sample larger than player count)", prep.Records)
	}
	for _, path := range []string{prep.SubsetPath, prep.TrainPath, prep.TestPath} {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("prepared file %s: %v", path, err)
		}
	}
	if !strings.HasSuffix(prep.TrainPath, "sample_tiny_train.tsv") || !strings.HasSuffix(prep.TestPath, "sample_tiny_test.tsv") {
		t.Errorf("paths = %s, %s", prep.TrainPath, prep.TestPath)
	}

	trained, err := p.Train(ctx)
	if err != nil {
		t.Fatalf("Train() error = %v", err)
	}
	if trained.Artifact != "model_lightFM_4_warp" {
		t.Errorf("artifact = %s", trained.Artifact)
	}
	if trained.TrainMetrics == nil || trained.TestMetrics == nil {
		t.Fatalf("metrics missing: %+v", trained)
	}
	if trained.Info.Records != 18 {
		t.Errorf("model records = %d, want 18", trained.Info.Records)
	}

	evaluated, err := p.Evaluate(ctx, trained.Artifact)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if evaluated.Info.RunID != trained.Info.RunID {
		t.Errorf("evaluated run %s, trained run %s", evaluated.Info.RunID, trained.Info.RunID)
	}
	if *evaluated.TestMetrics != *trained.TestMetrics {
		t.Errorf("reloaded test metrics %+v differ from %+v", *evaluated.TestMetrics, *trained.TestMetrics)
	}
}

func TestPipeline_TrainWithoutPrepare(t *testing.T) {
	t.Parallel()

	p, _ := newTestPipeline(t, "full", nil)

	_, err := p.Train(context.Background())
	if err == nil || !strings.Contains(err.Error(), "run prepare first") {
		t.Fatalf("Train() error = %v, want prepare hint", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error %v does not wrap os.ErrNotExist", err)
	}
}

func TestPipeline_Retrain(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	p, store := newTestPipeline(t, "full", &memorySource{records: extractRecords()})

	ev, report, err := p.Retrain(ctx)
	if err != nil {
		t.Fatalf("Retrain() error = %v", err)
	}
	if err := ev.Validate(); err != nil {
		t.Errorf("event invalid: %v", err)
	}
	if ev.Backend != "file" || ev.Artifact != "model_lightFM_4_warp" {
		t.Errorf("event = %+v", ev)
	}
	if ev.RunID != report.Model.Meta().RunID {
		t.Errorf("event run %s, model run %s", ev.RunID, report.Model.Meta().RunID)
	}
	if ev.TestMetrics == nil {
		t.Error("event carries no test metrics")
	}

	loaded, err := store.Load(ctx, ev.Artifact)
	if err != nil {
		t.Fatalf("Load(%s) error = %v", ev.Artifact, err)
	}
	if loaded.Meta().RunID != ev.RunID {
		t.Errorf("stored run %s, event run %s", loaded.Meta().RunID, ev.RunID)
	}
}

func TestPipeline_SourceErrors(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	p, _ := newTestPipeline(t, "full", &memorySource{err: boom})
	if _, err := p.Prepare(context.Background()); !errors.Is(err, boom) {
		t.Errorf("Prepare() error = %v, want wrapped source error", err)
	}

	noSource, _ := newTestPipeline(t, "full", nil)
	if _, _, err := noSource.Retrain(context.Background()); err == nil {
		t.Error("Retrain() without source error = nil")
	}
}
