package artifacts

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
)

// ReadCSV parses a header-first CSV of player rows.
func ReadCSV(ctx context.Context, r io.Reader) (Dataset, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		return Dataset{}, fmt.Errorf("read header: %w", err)
	}
	header = append([]string(nil), header...)
	b, err := newRowBuilder(header)
	if err != nil {
		return Dataset{}, err
	}

	var ds Dataset
	for line := 2; ; line++ {
		if line%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return Dataset{}, err
			}
		}
		cells, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Dataset{}, fmt.Errorf("line %d: %w", line, err)
		}
		p, ok := b.build(cells)
		if !ok {
			ds.Skipped++
			continue
		}
		ds.Players = append(ds.Players, p)
	}
	return ds, nil
}

// LoadCSV reads the dataset at path.
func LoadCSV(ctx context.Context, path string) (Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return Dataset{}, err
	}
	defer func() { _ = f.Close() }()

	ds, err := ReadCSV(ctx, f)
	if err != nil {
		return Dataset{}, fmt.Errorf("%s: %w", path, err)
	}
	ds.Source = path
	return ds, nil
}
