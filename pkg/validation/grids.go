package validation

import (
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"

	apperrors "github.com/charlesng35/expkit/pkg/errors"
	"github.com/charlesng35/expkit/pkg/metrics"
	"github.com/charlesng35/expkit/pkg/validator"
)

// gridShapeRule requires non-empty parameter names mapped to non-empty value lists.
const gridShapeRule = "dive,keys,required,endkeys,required,min=1"

// ErrInvalidParamGrid is returned for malformed grids.
var ErrInvalidParamGrid = apperrors.NewInvalidGrid("Parameter grid values should be non-empty lists keyed by parameter name.")

// NormalizeParamGrid validates grid and returns a copy carrying an est_name entry:
// the sorted, distinct estimator prefixes of its parameter names.
func NormalizeParamGrid(grid ParamGrid) (ParamGrid, error) {
	if err := checkParamGrid(grid); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(grid))
	for param := range grid {
		prefix, _, _ := strings.Cut(param, ParamSeparator)
		seen[prefix] = struct{}{}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	slices.Sort(names)

	normalized := grid.Clone()
	normalized[EstimatorNameKey] = toValues(names)
	return normalized, nil
}

// CheckParamGrid is CheckParamGrids for a lone grid.
func CheckParamGrid(grid ParamGrid, estimators []NamedEstimator) ([]ParamGrid, error) {
	return CheckParamGrids([]ParamGrid{grid}, estimators)
}

// CheckParamGrids normalizes every grid and appends a minimal {"est_name": [name]}
// grid for each estimator that no grid refers to. Each grid is attributed to the
// first entry of its est_name. When any grid yields no estimator name at all, the
// normalized grids are dropped and one minimal grid per estimator is returned.
// An empty estimator list is rejected with ErrEstimators.
func CheckParamGrids(grids []ParamGrid, estimators []NamedEstimator) ([]ParamGrid, error) {
	if len(estimators) == 0 {
		err := ErrEstimators.WithInternal(errNoEstimators)
		metrics.ObserveCheck("param_grids", err)
		return nil, err
	}

	normalized := make([]ParamGrid, 0, len(grids)+len(estimators))
	for i, grid := range grids {
		ng, err := NormalizeParamGrid(grid)
		if err != nil {
			metrics.ObserveCheck("param_grids", err)
			return nil, fmt.Errorf("param grid %d: %w", i, err)
		}
		normalized = append(normalized, ng)
	}

	generated := make(map[string]struct{}, len(normalized))
	for _, grid := range normalized {
		names := grid[EstimatorNameKey]
		if len(names) == 0 {
			generated = map[string]struct{}{}
			normalized = normalized[:0]
			break
		}
		if name, ok := names[0].(string); ok {
			generated[name] = struct{}{}
		}
	}

	for _, est := range estimators {
		if _, ok := generated[est.Name]; ok {
			continue
		}
		generated[est.Name] = struct{}{}
		normalized = append(normalized, ParamGrid{EstimatorNameKey: {est.Name}})
	}

	metrics.ObserveCheck("param_grids", nil)
	metrics.ParamGridsGenerated.Observe(float64(len(normalized)))
	moduleLogger().Debug("param grids normalized",
		zap.Int("input", len(grids)),
		zap.Int("output", len(normalized)),
	)
	return normalized, nil
}

// AddDatasetID expands grids over dataset indices [0, numDatasets). All ids for the
// first grid come before those of the second, and so on.
func AddDatasetID(grids []ParamGrid, numDatasets int) []ParamGrid {
	if numDatasets <= 0 {
		return []ParamGrid{}
	}

	out := make([]ParamGrid, 0, len(grids)*numDatasets)
	for _, grid := range grids {
		for id := 0; id < numDatasets; id++ {
			expanded := grid.Clone()
			expanded[DatasetIDKey] = []any{id}
			out = append(out, expanded)
		}
	}
	return out
}

func checkParamGrid(grid ParamGrid) error {
	if err := validator.ValidateVar(map[string][]any(grid), gridShapeRule); err != nil {
		return ErrInvalidParamGrid.WithInternal(err)
	}
	return nil
}

func toValues(names []string) []any {
	values := make([]any, len(names))
	for i, name := range names {
		values[i] = name
	}
	return values
}
