package validation

import (
	"slices"

	"go.uber.org/zap"

	"github.com/charlesng35/expkit/pkg/logger"
)

// Reserved parameter grid keys.
const (
	EstimatorNameKey = "est_name"
	DatasetIDKey     = "dataset_id"
)

// ParamSeparator splits "estimator__hyperparam" keys.
const ParamSeparator = "__"

// ParamGrid maps parameter names to their candidate values.
type ParamGrid map[string][]any

// Clone copies the grid and each value list. Candidate values themselves are shared.
func (g ParamGrid) Clone() ParamGrid {
	if g == nil {
		return ParamGrid{}
	}
	out := make(ParamGrid, len(g)+1)
	for k, v := range g {
		out[k] = slices.Clone(v)
	}
	return out
}

// EstimatorNames returns the est_name entries of a normalized grid as strings.
func (g ParamGrid) EstimatorNames() []string {
	values := g[EstimatorNameKey]
	names := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			names = append(names, s)
		}
	}
	return names
}

// Estimator is the minimal capability a model must expose to take part in an experiment.
type Estimator interface {
	Fit(X [][]float64, y []float64) error
	Predict(X [][]float64) ([]float64, error)
}

// NamedModel is an unchecked (name, model) candidate pair.
type NamedModel struct {
	Name  string `json:"name" validate:"required"`
	Model any    `json:"model" validate:"estimator"`
}

// NamedEstimator is a (name, estimator) pair accepted by CheckEstimators.
type NamedEstimator struct {
	Name      string
	Estimator Estimator
}

// Dataset is a named (X, y) pair.
type Dataset struct {
	Name string      `json:"name" validate:"required"`
	X    [][]float64 `json:"-"`
	Y    []float64   `json:"-"`
}

func moduleLogger() *zap.Logger {
	return logger.WithModule("validation")
}
