package validation

import (
	"fmt"

	"go.uber.org/zap"

	apperrors "github.com/charlesng35/expkit/pkg/errors"
	"github.com/charlesng35/expkit/pkg/metrics"
	"github.com/charlesng35/expkit/pkg/validator"
)

var (
	// ErrDatasetsMalformed reports entries that are not (name, (X, y)) pairs.
	ErrDatasetsMalformed = apperrors.NewValidation("The datasets should be a list of (dataset name:(X,y)) pairs.")
	// ErrDatasetNames reports empty or repeated dataset names.
	ErrDatasetNames = apperrors.NewValidation("The datasets' names should be unique strings.")
)

type datasetCollection struct {
	Datasets []Dataset `json:"datasets" validate:"unique=Name,dive"`
}

// CheckDatasets returns datasets unchanged when every entry holds an (X, y) pair with
// one label per sample and the names are non-empty and distinct.
func CheckDatasets(datasets []Dataset) ([]Dataset, error) {
	err := checkDatasets(datasets)
	metrics.ObserveCheck("datasets", err)
	if err != nil {
		return nil, err
	}

	moduleLogger().Debug("datasets checked", zap.Int("count", len(datasets)))
	return datasets, nil
}

func checkDatasets(datasets []Dataset) error {
	for i, ds := range datasets {
		switch {
		case ds.X == nil || ds.Y == nil:
			return ErrDatasetsMalformed.WithInternal(fmt.Errorf("dataset %d: missing X or y", i))
		case len(ds.X) != len(ds.Y):
			return ErrDatasetsMalformed.WithInternal(
				fmt.Errorf("dataset %d: %d samples but %d labels", i, len(ds.X), len(ds.Y)))
		}
	}

	if err := validator.ValidateStruct(datasetCollection{Datasets: datasets}); err != nil {
		return ErrDatasetNames.WithInternal(err)
	}
	return nil
}
