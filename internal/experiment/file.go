// Package experiment reads experiment definition files and turns them into a checked
// plan: typed estimators, loaded datasets, normalized parameter grids and seeds.
package experiment

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/charlesng35/expkit/internal/datasets"
	"github.com/charlesng35/expkit/pkg/validation"
)

// File is the on-disk experiment definition.
type File struct {
	Name        string          `yaml:"name"`
	RandomState *int64          `yaml:"random_state,omitempty"`
	Repetitions *int            `yaml:"repetitions,omitempty"`
	Estimators  []EstimatorSpec `yaml:"estimators"`
	ParamGrids  GridList        `yaml:"param_grids"`
	Datasets    []DatasetSpec   `yaml:"datasets"`

	dir string
}

// EstimatorSpec names a model and the registry kind that builds it.
type EstimatorSpec struct {
	Name   string         `yaml:"name"`
	Kind   string         `yaml:"kind"`
	Params map[string]any `yaml:"params,omitempty"`
}

// DatasetSpec points at a CSV file. Relative paths resolve against the experiment file.
type DatasetSpec struct {
	Name   string `yaml:"name"`
	Path   string `yaml:"path"`
	Target string `yaml:"target,omitempty"`
}

// GridList accepts either a single grid mapping or a sequence of them.
type GridList []validation.ParamGrid

// UnmarshalYAML implements yaml.Unmarshaler. Scalar candidates are rejected with an
// INVALID_GRID error rather than silently wrapped.
func (g *GridList) UnmarshalYAML(node *yaml.Node) error {
	var raw []map[string]any
	switch node.Kind {
	case yaml.MappingNode:
		var grid map[string]any
		if err := node.Decode(&grid); err != nil {
			return err
		}
		raw = []map[string]any{grid}
	case yaml.SequenceNode:
		if err := node.Decode(&raw); err != nil {
			return err
		}
	default:
		return fmt.Errorf("line %d: param_grids should be a mapping or a list of mappings", node.Line)
	}

	grids := make(GridList, len(raw))
	for i, params := range raw {
		grid := make(validation.ParamGrid, len(params))
		for name, value := range params {
			values, ok := value.([]any)
			if !ok {
				return validation.ErrInvalidParamGrid.WithInternal(fmt.Errorf(
					"param grid %d: parameter %q needs a list of candidates, got %T; wrap single values in a list", i, name, value))
			}
			grid[name] = values
		}
		grids[i] = grid
	}
	*g = grids
	return nil
}

// Load reads and decodes an experiment file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("experiment: read %s: %w", path, err)
	}

	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("experiment: %s: %w", path, err)
	}
	f.dir = filepath.Dir(path)
	return f, nil
}

// Parse decodes an experiment definition. Dataset paths stay relative to the
// working directory.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("yaml unmarshal: %w", err)
	}
	return &f, nil
}

// Sources returns the dataset locations with relative paths resolved.
func (f *File) Sources() []datasets.Source {
	out := make([]datasets.Source, len(f.Datasets))
	for i, ds := range f.Datasets {
		path := ds.Path
		if f.dir != "" && path != "" && !filepath.IsAbs(path) {
			path = filepath.Join(f.dir, path)
		}
		out[i] = datasets.Source{Name: ds.Name, Path: path, Target: ds.Target}
	}
	return out
}
