package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/charlesng35/expkit/pkg/errors"
)

func TestCheckEstimatorsValid(t *testing.T) {
	mean := &meanRegressor{}
	got, err := CheckEstimators([]NamedModel{
		{Name: "mean", Model: mean},
		{Name: "zero", Model: zeroModel{}},
	})
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "mean", got[0].Name)
	require.Same(t, mean, got[0].Estimator)
	require.Equal(t, "zero", got[1].Name)
}

func TestCheckEstimatorsRejects(t *testing.T) {
	cases := map[string][]NamedModel{
		"nil list":               nil,
		"empty list":             {},
		"empty name":             {{Name: "", Model: &meanRegressor{}}},
		"nil model":              {{Name: "m", Model: nil}},
		"typed nil model":        {{Name: "m", Model: (*meanRegressor)(nil)}},
		"not an estimator":       {{Name: "ok", Model: zeroModel{}}, {Name: "m", Model: "linear"}},
		"missing predict":        {{Name: "m", Model: fitOnly{}}},
		"value receiver missing": {{Name: "m", Model: meanRegressor{}}},
	}
	for name, candidates := range cases {
		t.Run(name, func(t *testing.T) {
			got, err := CheckEstimators(candidates)
			require.Nil(t, got)
			require.ErrorIs(t, err, apperrors.ErrInvalidArgument)
			require.ErrorIs(t, err, ErrEstimators)
			require.Equal(t, ErrEstimators.Message, apperrors.FromError(err).Message)
			require.NotNil(t, errors.Unwrap(err), "root cause should be chained")
		})
	}
}

func TestCheckEstimatorsEmptyCause(t *testing.T) {
	_, err := CheckEstimators(nil)
	require.ErrorIs(t, err, errNoEstimators)
}
