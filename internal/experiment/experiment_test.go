package experiment

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/charlesng35/expkit/internal/estimators"
	apperrors "github.com/charlesng35/expkit/pkg/errors"
	"github.com/charlesng35/expkit/pkg/logger"
	"github.com/charlesng35/expkit/pkg/validation"
)

const experimentYAML = `
name: baseline
random_state: 42
repetitions: 3
estimators:
  - name: clf
    kind: dummy_classifier
  - name: reg
    kind: dummy_regressor
    params:
      strategy: median
param_grids:
  clf__strategy: [most_frequent, constant]
  clf__constant: [1]
datasets:
  - name: blobs
    path: blobs.csv
  - name: moons
    path: data/moons.csv
    target: label
`

func writeExperiment(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "data"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "blobs.csv"), []byte("a,b,y\n1,2,0\n2,3,1\n4,5,1\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "data", "moons.csv"), []byte("label,x\n0,1.5\n1,2.5\n"), 0o600))

	path := filepath.Join(dir, "experiment.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestParseGridForms(t *testing.T) {
	single, err := Parse([]byte("param_grids:\n  svm__C: [1, 10]\n"))
	require.NoError(t, err)
	require.Equal(t, GridList{{"svm__C": {1, 10}}}, single.ParamGrids)

	list, err := Parse([]byte("param_grids:\n  - svm__C: [1]\n  - rf__depth: [2, 4]\n    rf__crit: [gini]\n"))
	require.NoError(t, err)
	require.Len(t, list.ParamGrids, 2)
	require.Equal(t, []any{"gini"}, list.ParamGrids[1]["rf__crit"])

	none, err := Parse([]byte("name: empty\n"))
	require.NoError(t, err)
	require.Empty(t, none.ParamGrids)
}

func TestParseRejectsScalarCandidates(t *testing.T) {
	_, err := Parse([]byte("param_grids:\n  svm__C: 1\n"))
	require.ErrorIs(t, err, apperrors.ErrInvalidGrid)

	_, err = Parse([]byte("param_grids: 3\n"))
	require.Error(t, err)
}

func TestLoadResolvesRelativeDatasetPaths(t *testing.T) {
	path := writeExperiment(t, experimentYAML)

	f, err := Load(path)
	require.NoError(t, err)

	sources := f.Sources()
	require.Len(t, sources, 2)
	require.Equal(t, filepath.Join(filepath.Dir(path), "data", "moons.csv"), sources[1].Path)
	require.Equal(t, "label", sources[1].Target)
}

func TestPlan(t *testing.T) {
	core, recorded := observer.New(zap.InfoLevel)
	logger.Set(zap.New(core))
	t.Cleanup(func() { logger.Set(nil) })

	f, err := Load(writeExperiment(t, experimentYAML))
	require.NoError(t, err)

	planner := NewPlanner(nil, Defaults{Repetitions: 9})
	planner.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

	report, err := planner.Plan(context.Background(), f)
	require.NoError(t, err)

	require.NotEmpty(t, report.ID)
	require.Equal(t, "baseline", report.Experiment)
	require.Equal(t, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), report.CreatedAt)
	require.Equal(t, []string{"clf", "reg"}, report.Estimators)
	require.Equal(t, []DatasetSummary{
		{Name: "blobs", Samples: 3, Features: 2},
		{Name: "moons", Samples: 2, Features: 1},
	}, report.Datasets)

	// one grid for clf, one synthetic grid for reg, each expanded over two datasets
	require.Len(t, report.ParamGrids, 4)
	require.Equal(t, []string{"clf"}, report.ParamGrids[0].EstimatorNames())
	require.Equal(t, []any{0}, report.ParamGrids[0][validation.DatasetIDKey])
	require.Equal(t, []any{1}, report.ParamGrids[1][validation.DatasetIDKey])
	require.Equal(t, validation.ParamGrid{
		validation.EstimatorNameKey: {"reg"},
		validation.DatasetIDKey:     {1},
	}, report.ParamGrids[3])

	want, err := validation.CheckRandomStates(int64(42), 3)
	require.NoError(t, err)
	require.Equal(t, want, report.RandomStates)

	entries := recorded.FilterMessage("experiment planned").All()
	require.Len(t, entries, 1)
	require.Equal(t, "experiment", entries[0].ContextMap()["module"])
}

func TestPlanAppliesDefaults(t *testing.T) {
	f, err := Parse([]byte(`
estimators:
  - name: reg
    kind: dummy_regressor
`))
	require.NoError(t, err)

	seed := int64(5)
	report, err := NewPlanner(nil, Defaults{Repetitions: 2, RandomState: &seed}).Plan(context.Background(), f)
	require.NoError(t, err)

	want, err := validation.CheckRandomStates(seed, 2)
	require.NoError(t, err)
	require.Equal(t, want, report.RandomStates)
	require.Empty(t, report.ParamGrids, "no datasets means no dataset-expanded grids")
}

func TestPlanAggregatesEstimatorAndDatasetFailures(t *testing.T) {
	path := writeExperiment(t, `
estimators:
  - name: svm
    kind: svm
datasets:
  - name: blobs
    path: blobs.csv
  - name: blobs
    path: data/moons.csv
    target: label
`)
	f, err := Load(path)
	require.NoError(t, err)

	_, err = NewPlanner(nil, Defaults{Repetitions: 1}).Plan(context.Background(), f)
	require.Error(t, err)
	require.Len(t, multierr.Errors(err), 2)
	require.ErrorIs(t, err, validation.ErrEstimators)
	require.ErrorIs(t, err, estimators.ErrUnknownKind)
	require.ErrorIs(t, err, validation.ErrDatasetNames)
}

func TestPlanRejectsEmptyEstimatorList(t *testing.T) {
	f, err := Parse([]byte("name: nothing\n"))
	require.NoError(t, err)

	_, err = NewPlanner(nil, Defaults{}).Plan(context.Background(), f)
	require.ErrorIs(t, err, apperrors.ErrInvalidArgument)
}

func TestPlanRejectsMalformedGrid(t *testing.T) {
	f := &File{
		Estimators: []EstimatorSpec{{Name: "reg", Kind: estimators.KindDummyRegressor}},
		ParamGrids: GridList{{"reg__strategy": {}}},
	}

	_, err := NewPlanner(nil, Defaults{}).Plan(context.Background(), f)
	require.ErrorIs(t, err, apperrors.ErrInvalidGrid)
}

func TestPlanHonoursCancellation(t *testing.T) {
	f, err := Load(writeExperiment(t, experimentYAML))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = NewPlanner(nil, Defaults{}).Plan(ctx, f)
	require.True(t, errors.Is(err, context.Canceled))
}
