// Package datasets loads numeric (X, y) datasets from CSV files.
package datasets

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charlesng35/expkit/pkg/validation"
)

var (
	// ErrNoRows indicates a file with a header but no samples.
	ErrNoRows = errors.New("datasets: no rows")
	// ErrUnknownTarget indicates a target column missing from the header.
	ErrUnknownTarget = errors.New("datasets: target column not found")
)

// Source describes where a dataset lives. An empty Target selects the last column.
type Source struct {
	Name   string
	Path   string
	Target string
}

// Load reads every source in order, stopping early once ctx is done.
func Load(ctx context.Context, sources []Source) ([]validation.Dataset, error) {
	out := make([]validation.Dataset, 0, len(sources))
	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ds, err := LoadFile(src)
		if err != nil {
			return nil, err
		}
		out = append(out, ds)
	}
	return out, nil
}

// LoadFile reads a single CSV file with a header row.
func LoadFile(src Source) (validation.Dataset, error) {
	f, err := os.Open(src.Path)
	if err != nil {
		return validation.Dataset{}, fmt.Errorf("datasets: open %s: %w", src.Path, err)
	}
	defer f.Close()

	ds, err := Read(f, src.Target)
	if err != nil {
		return validation.Dataset{}, fmt.Errorf("datasets: %s: %w", src.Path, err)
	}
	ds.Name = src.Name
	return ds, nil
}

// Read parses CSV content. All columns must be numeric.
func Read(r io.Reader, target string) (validation.Dataset, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return validation.Dataset{}, ErrNoRows
		}
		return validation.Dataset{}, err
	}

	targetIdx := len(header) - 1
	if target = strings.TrimSpace(target); target != "" {
		targetIdx = -1
		for i, col := range header {
			if strings.TrimSpace(col) == target {
				targetIdx = i
				break
			}
		}
		if targetIdx < 0 {
			return validation.Dataset{}, fmt.Errorf("%w: %s", ErrUnknownTarget, target)
		}
	}

	var ds validation.Dataset
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return validation.Dataset{}, err
		}

		row := make([]float64, 0, len(record)-1)
		for i, cell := range record {
			v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				return validation.Dataset{}, fmt.Errorf("line %d column %q: %w", line, header[i], err)
			}
			if i == targetIdx {
				ds.Y = append(ds.Y, v)
				continue
			}
			row = append(row, v)
		}
		ds.X = append(ds.X, row)
	}

	if len(ds.X) == 0 {
		return validation.Dataset{}, ErrNoRows
	}
	return ds, nil
}
