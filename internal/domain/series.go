package domain

import "sort"

// PricePoint is one observation in an asset's historical price series.
type PricePoint struct {
	TimestampMs int64   // Unix timestamp in milliseconds
	Price       float64 // observed price
}

// PriceSeries is an ordered sequence of price observations for one asset.
// Consumers assume ascending timestamp order; use Sort after assembly.
type PriceSeries []PricePoint

// Sort orders the series by timestamp ascending, in place.
func (s PriceSeries) Sort() {
	sort.Slice(s, func(i, j int) bool {
		return s[i].TimestampMs < s[j].TimestampMs
	})
}

// Timestamps returns the observation timestamps in series order.
func (s PriceSeries) Timestamps() []int64 {
	ts := make([]int64, len(s))
	for i, p := range s {
		ts[i] = p.TimestampMs
	}
	return ts
}

// Clone returns a copy of the series.
func (s PriceSeries) Clone() PriceSeries {
	cp := make(PriceSeries, len(s))
	copy(cp, s)
	return cp
}
