package keypoints

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"
)

// LoadCSV reads an annotation table exported as CSV. The file starts with
// one row per header level, each keyed by the level name in its first cell
// ("scorer", optionally "individuals", "bodyparts", "coords"), followed by
// data rows keyed by their index label. Empty cells load as NaN.
func LoadCSV(path string) (*Table, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("keypoints: %w", err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("keypoints: open table: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("keypoints: parse %q: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %q is empty", ErrMalformedTable, path)
	}

	levels := map[string][]string{}
	var levelOrder []string
	dataStart := 0
	for _, rec := range records {
		name := rec[0]
		if name != "scorer" && name != "individuals" && name != "bodyparts" && name != "coords" {
			break
		}
		levels[name] = rec[1:]
		levelOrder = append(levelOrder, name)
		dataStart++
	}
	if len(levels["scorer"]) == 0 || len(levels["bodyparts"]) == 0 || len(levels["coords"]) == 0 {
		return nil, fmt.Errorf("%w: %q is missing scorer/bodyparts/coords header rows",
			ErrMalformedTable, path)
	}

	width := len(levels["scorer"])
	for _, name := range levelOrder {
		if len(levels[name]) != width {
			return nil, fmt.Errorf("%w: header level %q has %d cells, scorer level has %d",
				ErrMalformedTable, name, len(levels[name]), width)
		}
	}

	columns := make([]Column, width)
	for i := range columns {
		columns[i] = Column{
			Scorer:   levels["scorer"][i],
			Bodypart: levels["bodyparts"][i],
			Coord:    levels["coords"][i],
		}
		if ind, ok := levels["individuals"]; ok {
			columns[i].Individual = ind[i]
		}
	}
	header := NewHeader(columns)

	var index []string
	var data [][]float64
	for i, rec := range records[dataStart:] {
		if len(rec) != width+1 {
			return nil, fmt.Errorf("%w: data row %d has %d cells, expected %d",
				ErrMalformedTable, i, len(rec), width+1)
		}
		index = append(index, rec[0])
		row := make([]float64, width)
		for j, cell := range rec[1:] {
			if cell == "" {
				row[j] = math.NaN()
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: row %d column %d: %v", ErrMalformedTable, i, j, err)
			}
			row[j] = v
		}
		data = append(data, row)
	}

	return NewTable(header, index, data)
}
