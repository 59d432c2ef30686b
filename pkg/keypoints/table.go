package keypoints

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
)

// Table is a dense annotation table: one row per frame (or labeled image),
// one column per header tuple. Missing annotations are NaN.
type Table struct {
	Header *Header
	Index  []string
	Data   [][]float64
}

// ErrMalformedTable is returned when a table's shape contradicts its header.
var ErrMalformedTable = errors.New("keypoints: malformed table")

// NewTable validates that data is rectangular and matches the header width.
func NewTable(h *Header, index []string, data [][]float64) (*Table, error) {
	if len(index) != len(data) {
		return nil, fmt.Errorf("%w: %d index labels for %d rows", ErrMalformedTable, len(index), len(data))
	}
	for i, row := range data {
		if len(row) != h.Len() {
			return nil, fmt.Errorf("%w: row %d has %d values, header has %d columns",
				ErrMalformedTable, i, len(row), h.Len())
		}
	}
	return &Table{Header: h, Index: index, Data: data}, nil
}

// MergeScorers collapses a multi-scorer table to a single scorer's worth of
// columns. With a likelihood coordinate present, each frame/keypoint keeps
// the coordinates of whichever scorer predicted it with the highest
// confidence; rows where every scorer is NaN stay NaN. Without likelihoods
// the first scorer's block is kept as-is. Single-scorer tables are returned
// unchanged.
func MergeScorers(t *Table) (*Table, error) {
	scorers := t.Header.Scorers()
	if len(scorers) <= 1 {
		return t, nil
	}

	width := t.Header.Len()
	if width%len(scorers) != 0 {
		return nil, fmt.Errorf("%w: %d columns do not divide across %d scorers",
			ErrMalformedTable, width, len(scorers))
	}
	blockW := width / len(scorers)
	outHeader := NewHeader(t.Header.Columns()[:blockW])

	if !t.Header.HasLikelihood() {
		// No confidence to compare on; arbitrarily keep the first scorer.
		out := make([][]float64, len(t.Data))
		for i, row := range t.Data {
			out[i] = append([]float64(nil), row[:blockW]...)
		}
		return NewTable(outHeader, t.Index, out)
	}

	// With likelihoods every keypoint occupies an (x, y, likelihood) triplet.
	if blockW%3 != 0 {
		return nil, fmt.Errorf("%w: scorer block width %d is not made of (x, y, likelihood) triplets",
			ErrMalformedTable, blockW)
	}

	out := make([][]float64, len(t.Data))
	for i, row := range t.Data {
		merged := make([]float64, blockW)
		for part := 0; part < blockW/3; part++ {
			best := -1
			bestLik := math.Inf(-1)
			for s := range scorers {
				lik := row[s*blockW+part*3+2]
				if !math.IsNaN(lik) && lik > bestLik {
					best, bestLik = s, lik
				}
			}
			if best < 0 {
				best = 0 // all scorers NaN for this keypoint
			}
			copy(merged[part*3:part*3+3], row[best*blockW+part*3:best*blockW+part*3+3])
		}
		out[i] = merged
	}
	return NewTable(outHeader, t.Index, out)
}

// SplitIndex splits path-like row labels into their components using the
// host OS separator convention. Tables indexed by plain frame numbers have
// nothing to split and return nil. A label mixing separator styles is an
// error, surfaced with both offending characters named.
func (t *Table) SplitIndex() ([][]string, error) {
	if len(t.Index) == 0 {
		return nil, nil
	}
	if _, err := strconv.Atoi(t.Index[0]); err == nil {
		return nil, nil
	}
	out := make([][]string, len(t.Index))
	for i, label := range t.Index {
		normalized, err := ToOSDirSep(label)
		if err != nil {
			return nil, err
		}
		out[i] = splitPath(normalized)
	}
	return out, nil
}

func splitPath(p string) []string {
	var parts []string
	start := 0
	for i := 0; i < len(p); i++ {
		if p[i] == os.PathSeparator {
			parts = append(parts, p[start:i])
			start = i + 1
		}
	}
	return append(parts, p[start:])
}
