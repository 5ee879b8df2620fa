package validation

import (
	"errors"
	"fmt"
	"reflect"

	playground "github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	apperrors "github.com/charlesng35/expkit/pkg/errors"
	"github.com/charlesng35/expkit/pkg/metrics"
	"github.com/charlesng35/expkit/pkg/validator"
)

// ErrEstimators is returned for any malformed estimator list.
var ErrEstimators = apperrors.NewInvalidArgument("Invalid `estimators` attribute, `estimators` should be a list of (string, estimator) tuples.")

var errNoEstimators = errors.New("estimator list is empty")

type estimatorList struct {
	Estimators []NamedModel `json:"estimators" validate:"dive"`
}

func init() {
	if err := validator.RegisterValidation("estimator", isEstimatorField); err != nil {
		panic(fmt.Sprintf("validation: register estimator rule: %v", err))
	}
}

// CheckEstimators accepts a non-empty list of named models whose models all implement
// Estimator, and returns them typed.
func CheckEstimators(candidates []NamedModel) ([]NamedEstimator, error) {
	checked, err := checkEstimators(candidates)
	metrics.ObserveCheck("estimators", err)
	if err != nil {
		return nil, err
	}

	moduleLogger().Debug("estimators checked", zap.Int("count", len(checked)))
	return checked, nil
}

func checkEstimators(candidates []NamedModel) ([]NamedEstimator, error) {
	if len(candidates) == 0 {
		return nil, ErrEstimators.WithInternal(errNoEstimators)
	}
	if err := validator.ValidateStruct(estimatorList{Estimators: candidates}); err != nil {
		return nil, ErrEstimators.WithInternal(err)
	}

	checked := make([]NamedEstimator, len(candidates))
	for i, c := range candidates {
		est, ok := asEstimator(c.Model)
		if !ok {
			return nil, ErrEstimators.WithInternal(fmt.Errorf("estimators[%d]: %T does not implement Fit/Predict", i, c.Model))
		}
		checked[i] = NamedEstimator{Name: c.Name, Estimator: est}
	}
	return checked, nil
}

// isEstimatorField reads the field through its parent so pointer receivers are seen
// before the validator dereferences the value.
func isEstimatorField(fl playground.FieldLevel) bool {
	parent := reflect.Indirect(fl.Parent())
	if parent.Kind() == reflect.Struct {
		if f := parent.FieldByName(fl.StructFieldName()); f.IsValid() && f.CanInterface() {
			_, ok := asEstimator(f.Interface())
			return ok
		}
	}
	_, ok := asEstimator(fl.Field().Interface())
	return ok
}

func asEstimator(model any) (Estimator, bool) {
	if model == nil {
		return nil, false
	}
	est, ok := model.(Estimator)
	if !ok {
		return nil, false
	}
	v := reflect.ValueOf(model)
	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		if v.IsNil() {
			return nil, false
		}
	}
	return est, true
}
