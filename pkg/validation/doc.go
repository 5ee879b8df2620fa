// Package validation checks and reshapes the inputs of a model-selection experiment:
// hyper-parameter grids, estimator lists, dataset collections and the random seeds
// used to replicate runs.
//
// Every helper is pure. Inputs are never mutated; derived grids are fresh copies.
// Failures are returned as *errors.AppError values from pkg/errors whose Code names
// the error kind (INVALID_GRID, VALIDATION_ERROR, INVALID_ARGUMENT) and whose
// Internal field keeps the root cause.
//
//	ests, err := validation.CheckEstimators([]validation.NamedModel{
//		{Name: "svm", Model: svm},
//		{Name: "rf", Model: forest},
//	})
//	grids, err := validation.CheckParamGrid(validation.ParamGrid{"svm__C": {1, 10}}, ests)
//	grids = validation.AddDatasetID(grids, len(datasets))
//	seeds, err := validation.CheckRandomStates(42, 5)
package validation
