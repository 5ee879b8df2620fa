package estimators

import (
	"errors"
	"fmt"
	"slices"
)

// Built-in kinds.
const (
	KindDummyClassifier = "dummy_classifier"
	KindDummyRegressor  = "dummy_regressor"
)

// Strategies understood by the baseline models.
const (
	StrategyMostFrequent = "most_frequent"
	StrategyMean         = "mean"
	StrategyMedian       = "median"
	StrategyConstant     = "constant"
)

var (
	errNotFitted     = errors.New("estimators: model is not fitted")
	errNoSamples     = errors.New("estimators: no training samples")
	errLabelMismatch = errors.New("estimators: X and y lengths differ")
)

// DummyClassifier predicts the most frequent training label, or a constant.
type DummyClassifier struct {
	Strategy string  `mapstructure:"strategy"`
	Constant float64 `mapstructure:"constant"`

	prediction float64
	fitted     bool
}

// NewDummyClassifier is the Factory for KindDummyClassifier.
func NewDummyClassifier(params map[string]any) (any, error) {
	clf := &DummyClassifier{Strategy: StrategyMostFrequent}
	if err := DecodeParams(params, clf); err != nil {
		return nil, err
	}
	switch clf.Strategy {
	case StrategyMostFrequent, StrategyConstant:
		return clf, nil
	default:
		return nil, fmt.Errorf("dummy classifier: unsupported strategy %q", clf.Strategy)
	}
}

// Fit records the label to predict. Ties resolve to the smallest label.
func (c *DummyClassifier) Fit(X [][]float64, y []float64) error {
	if err := checkTrainingSet(X, y); err != nil {
		return err
	}
	if c.Strategy == StrategyConstant {
		c.prediction = c.Constant
		c.fitted = true
		return nil
	}

	counts := make(map[float64]int, len(y))
	for _, label := range y {
		counts[label]++
	}
	labels := make([]float64, 0, len(counts))
	for label := range counts {
		labels = append(labels, label)
	}
	slices.Sort(labels)

	best := labels[0]
	for _, label := range labels[1:] {
		if counts[label] > counts[best] {
			best = label
		}
	}
	c.prediction = best
	c.fitted = true
	return nil
}

// Predict returns the fitted label for every sample.
func (c *DummyClassifier) Predict(X [][]float64) ([]float64, error) {
	if !c.fitted {
		return nil, errNotFitted
	}
	return repeat(c.prediction, len(X)), nil
}

// DummyRegressor predicts the mean or median training target, or a constant.
type DummyRegressor struct {
	Strategy string  `mapstructure:"strategy"`
	Constant float64 `mapstructure:"constant"`

	prediction float64
	fitted     bool
}

// NewDummyRegressor is the Factory for KindDummyRegressor.
func NewDummyRegressor(params map[string]any) (any, error) {
	reg := &DummyRegressor{Strategy: StrategyMean}
	if err := DecodeParams(params, reg); err != nil {
		return nil, err
	}
	switch reg.Strategy {
	case StrategyMean, StrategyMedian, StrategyConstant:
		return reg, nil
	default:
		return nil, fmt.Errorf("dummy regressor: unsupported strategy %q", reg.Strategy)
	}
}

// Fit records the target statistic to predict.
func (r *DummyRegressor) Fit(X [][]float64, y []float64) error {
	if err := checkTrainingSet(X, y); err != nil {
		return err
	}

	switch r.Strategy {
	case StrategyConstant:
		r.prediction = r.Constant
	case StrategyMedian:
		sorted := slices.Clone(y)
		slices.Sort(sorted)
		mid := len(sorted) / 2
		if len(sorted)%2 == 0 {
			r.prediction = (sorted[mid-1] + sorted[mid]) / 2
		} else {
			r.prediction = sorted[mid]
		}
	default:
		var sum float64
		for _, v := range y {
			sum += v
		}
		r.prediction = sum / float64(len(y))
	}
	r.fitted = true
	return nil
}

// Predict returns the fitted target for every sample.
func (r *DummyRegressor) Predict(X [][]float64) ([]float64, error) {
	if !r.fitted {
		return nil, errNotFitted
	}
	return repeat(r.prediction, len(X)), nil
}

func checkTrainingSet(X [][]float64, y []float64) error {
	if len(y) == 0 {
		return errNoSamples
	}
	if len(X) != len(y) {
		return errLabelMismatch
	}
	return nil
}

func repeat(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}
