package series

import (
	"errors"
	"testing"

	"asset-graph-lab/internal/domain"
)

func points(pairs ...float64) domain.PriceSeries {
	// pairs come as timestamp, price, timestamp, price, ...
	s := make(domain.PriceSeries, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		s = append(s, domain.PricePoint{TimestampMs: int64(pairs[i]), Price: pairs[i+1]})
	}
	return s
}

func TestPriceAt_AtOrBefore(t *testing.T) {
	s := points(1000, 10.0, 2000, 20.0, 3000, 30.0)

	// Exact hit
	price, err := PriceAt(2000, s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if price != 20.0 {
		t.Errorf("expected 20.0, got %f", price)
	}

	// Between points → most recent at-or-before
	price, _ = PriceAt(2500, s)
	if price != 20.0 {
		t.Errorf("expected 20.0 for t=2500, got %f", price)
	}

	// Before the first point → fall back to the first
	price, _ = PriceAt(500, s)
	if price != 10.0 {
		t.Errorf("expected fallback to first point, got %f", price)
	}
}

func TestPriceAt_Empty(t *testing.T) {
	if _, err := PriceAt(1000, nil); !errors.Is(err, ErrNoPriceData) {
		t.Errorf("expected ErrNoPriceData, got %v", err)
	}
}

func TestAlign_IntersectionOnly(t *testing.T) {
	target := points(1000, 1.0, 2000, 2.0, 3000, 3.0)
	compA := points(1000, 10.0, 3000, 30.0)          // missing t=2000
	compB := points(1000, 100.0, 2000, 200.0, 3000, 300.0)

	aligned := Align(target, []domain.PriceSeries{compA, compB})

	// Only timestamps present in all series survive
	if aligned.SampleSize() != 2 {
		t.Fatalf("expected 2 aligned samples, got %d", aligned.SampleSize())
	}
	if aligned.Timestamps[0] != 1000 || aligned.Timestamps[1] != 3000 {
		t.Errorf("unexpected timestamps: %v", aligned.Timestamps)
	}
	if aligned.Target[0] != 1.0 || aligned.Target[1] != 3.0 {
		t.Errorf("unexpected target values: %v", aligned.Target)
	}
	if aligned.Columns[0][1] != 30.0 || aligned.Columns[1][1] != 300.0 {
		t.Errorf("unexpected component values: %v", aligned.Columns)
	}
}

func TestAlign_SortedAscending(t *testing.T) {
	// Input order does not matter; output timestamps are sorted
	target := points(3000, 3.0, 1000, 1.0, 2000, 2.0)
	comp := points(2000, 20.0, 3000, 30.0, 1000, 10.0)

	aligned := Align(target, []domain.PriceSeries{comp})
	for i := 1; i < len(aligned.Timestamps); i++ {
		if aligned.Timestamps[i-1] >= aligned.Timestamps[i] {
			t.Fatalf("timestamps not ascending: %v", aligned.Timestamps)
		}
	}
}

func TestAlign_NoOverlap(t *testing.T) {
	target := points(1000, 1.0)
	comp := points(2000, 20.0)

	aligned := Align(target, []domain.PriceSeries{comp})
	if aligned.SampleSize() != 0 {
		t.Errorf("expected empty alignment, got %d samples", aligned.SampleSize())
	}
}
