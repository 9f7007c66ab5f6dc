// Package series provides price series lookup and alignment used by the
// formulaic analyzer.
package series

import (
	"errors"
	"sort"

	"asset-graph-lab/internal/domain"
)

// ErrNoPriceData is returned when a lookup runs against an empty series.
var ErrNoPriceData = errors.New("no price data available")

// PriceAt returns the price at or before the target timestamp.
// If no observation exists before target, the first available price is used.
// Returns ErrNoPriceData if the series is empty.
func PriceAt(target int64, points domain.PriceSeries) (float64, error) {
	if len(points) == 0 {
		return 0, ErrNoPriceData
	}
	for i := len(points) - 1; i >= 0; i-- {
		if points[i].TimestampMs <= target {
			return points[i].Price, nil
		}
	}
	return points[0].Price, nil
}

// Aligned holds observations restricted to timestamps present in every input
// series. Columns[i] corresponds to the i-th component series passed to Align.
type Aligned struct {
	Timestamps []int64
	Target     []float64
	Columns    [][]float64
}

// SampleSize returns the number of aligned observations.
func (a *Aligned) SampleSize() int {
	return len(a.Timestamps)
}

// Align intersects observation timestamps across the target and all component
// series. Each series may carry at most one observation per timestamp; later
// duplicates win, matching last-write ingestion order. The result preserves
// ascending timestamp order.
func Align(target domain.PriceSeries, components []domain.PriceSeries) *Aligned {
	byTS := make([]map[int64]float64, len(components)+1)
	byTS[0] = indexByTimestamp(target)
	for i, c := range components {
		byTS[i+1] = indexByTimestamp(c)
	}

	var shared []int64
	for ts := range byTS[0] {
		present := true
		for _, m := range byTS[1:] {
			if _, ok := m[ts]; !ok {
				present = false
				break
			}
		}
		if present {
			shared = append(shared, ts)
		}
	}
	sort.Slice(shared, func(i, j int) bool { return shared[i] < shared[j] })

	out := &Aligned{
		Timestamps: shared,
		Target:     make([]float64, len(shared)),
		Columns:    make([][]float64, len(components)),
	}
	for i := range out.Columns {
		out.Columns[i] = make([]float64, len(shared))
	}
	for row, ts := range shared {
		out.Target[row] = byTS[0][ts]
		for col := range components {
			out.Columns[col][row] = byTS[col+1][ts]
		}
	}
	return out
}

func indexByTimestamp(points domain.PriceSeries) map[int64]float64 {
	m := make(map[int64]float64, len(points))
	for _, p := range points {
		m[p.TimestampMs] = p.Price
	}
	return m
}
