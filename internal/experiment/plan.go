package experiment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/charlesng35/expkit/internal/datasets"
	"github.com/charlesng35/expkit/internal/estimators"
	"github.com/charlesng35/expkit/pkg/logger"
	"github.com/charlesng35/expkit/pkg/validation"
)

// Defaults fill settings the experiment file leaves out.
type Defaults struct {
	Repetitions int
	RandomState *int64
}

// Report is the checked, expanded experiment plan.
type Report struct {
	ID           string                 `json:"id"`
	Experiment   string                 `json:"experiment"`
	CreatedAt    time.Time              `json:"created_at"`
	Estimators   []string               `json:"estimators"`
	Datasets     []DatasetSummary       `json:"datasets"`
	ParamGrids   []validation.ParamGrid `json:"param_grids"`
	RandomStates []uint32               `json:"random_states"`
}

// DatasetSummary describes a loaded dataset without its values.
type DatasetSummary struct {
	Name     string `json:"name"`
	Samples  int    `json:"samples"`
	Features int    `json:"features"`
}

// Planner checks experiment files against an estimator registry.
type Planner struct {
	registry *estimators.Registry
	defaults Defaults
	now      func() time.Time
	log      *zap.Logger
}

// NewPlanner constructs a Planner. A nil registry selects the built-in kinds.
func NewPlanner(registry *estimators.Registry, defaults Defaults) *Planner {
	if registry == nil {
		registry = estimators.DefaultRegistry()
	}
	return &Planner{
		registry: registry,
		defaults: defaults,
		now:      time.Now,
		log:      logger.WithModule("experiment"),
	}
}

// Plan validates the estimators and datasets of f, reporting every failure of both
// at once, then normalizes the grids, expands them per dataset and derives seeds.
func (p *Planner) Plan(ctx context.Context, f *File) (*Report, error) {
	if f == nil {
		return nil, fmt.Errorf("experiment: nil file")
	}

	ests, estErr := p.estimators(f.Estimators)
	loaded, dsErr := p.datasets(ctx, f.Sources())
	if err := multierr.Append(estErr, dsErr); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	grids, err := validation.CheckParamGrids(f.ParamGrids, ests)
	if err != nil {
		return nil, err
	}
	grids = validation.AddDatasetID(grids, len(loaded))

	seeds, err := validation.CheckRandomStates(p.randomState(f), p.repetitions(f))
	if err != nil {
		return nil, err
	}

	report := &Report{
		ID:           uuid.NewString(),
		Experiment:   f.Name,
		CreatedAt:    p.now().UTC(),
		Estimators:   make([]string, len(ests)),
		Datasets:     make([]DatasetSummary, len(loaded)),
		ParamGrids:   grids,
		RandomStates: seeds,
	}
	for i, est := range ests {
		report.Estimators[i] = est.Name
	}
	for i, ds := range loaded {
		summary := DatasetSummary{Name: ds.Name, Samples: len(ds.X)}
		if len(ds.X) > 0 {
			summary.Features = len(ds.X[0])
		}
		report.Datasets[i] = summary
	}

	p.log.Info("experiment planned",
		zap.String("report_id", report.ID),
		zap.String("experiment", f.Name),
		zap.Int("estimators", len(ests)),
		zap.Int("datasets", len(loaded)),
		zap.Int("param_grids", len(grids)),
		zap.Int("repetitions", len(seeds)),
	)
	return report, nil
}

func (p *Planner) estimators(specs []EstimatorSpec) ([]validation.NamedEstimator, error) {
	candidates := make([]validation.NamedModel, 0, len(specs))
	var errs error
	for _, spec := range specs {
		model, err := p.registry.Build(spec.Kind, spec.Params)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("estimator %q: %w", spec.Name, err))
			continue
		}
		candidates = append(candidates, validation.NamedModel{Name: spec.Name, Model: model})
	}
	if errs != nil {
		return nil, validation.ErrEstimators.WithInternal(errs)
	}
	return validation.CheckEstimators(candidates)
}

func (p *Planner) datasets(ctx context.Context, sources []datasets.Source) ([]validation.Dataset, error) {
	loaded, err := datasets.Load(ctx, sources)
	if err != nil {
		return nil, err
	}
	return validation.CheckDatasets(loaded)
}

func (p *Planner) randomState(f *File) any {
	switch {
	case f.RandomState != nil:
		return *f.RandomState
	case p.defaults.RandomState != nil:
		return *p.defaults.RandomState
	default:
		return nil
	}
}

func (p *Planner) repetitions(f *File) int {
	if f.Repetitions != nil {
		return *f.Repetitions
	}
	return p.defaults.Repetitions
}
