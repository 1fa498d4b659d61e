package market

import (
	"math"
	"testing"
	"time"
)

func TestPearson_LinearSeries(t *testing.T) {
	xs := []float64{1, 2, 3, 4, 5}
	ys := []float64{2, 4, 6, 8, 10}
	if got := pearson(xs, ys); math.Abs(got-1) > 1e-9 {
		t.Fatalf("expected correlation 1, got %v", got)
	}

	inverted := []float64{10, 8, 6, 4, 2}
	if got := pearson(xs, inverted); math.Abs(got+1) > 1e-9 {
		t.Fatalf("expected correlation -1, got %v", got)
	}
}

func TestPearson_DegenerateInputs(t *testing.T) {
	// Varianza cero: exactamente 0, no NaN.
	if got := pearson([]float64{5, 5, 5}, []float64{1, 2, 3}); got != 0 {
		t.Fatalf("expected 0 on zero variance, got %v", got)
	}
	if got := pearson([]float64{1, 2, 3}, []float64{7, 7, 7}); got != 0 {
		t.Fatalf("expected 0 on zero variance, got %v", got)
	}
	if got := pearson([]float64{1}, []float64{2}); got != 0 {
		t.Fatalf("expected 0 with a single point, got %v", got)
	}
	if got := pearson([]float64{1, 2}, []float64{1, 2, 3}); got != 0 {
		t.Fatalf("expected 0 on length mismatch, got %v", got)
	}
	if got := pearson(nil, nil); got != 0 {
		t.Fatalf("expected 0 on empty input, got %v", got)
	}
}

func TestCumulative(t *testing.T) {
	now := time.Now()
	points := []Point{
		{Timestamp: now, Value: 1},
		{Timestamp: now, Value: 2.5},
		{Timestamp: now, Value: 0},
	}
	got := cumulative(points)
	want := []float64{1, 3.5, 3.5}
	if len(got) != len(want) {
		t.Fatalf("expected %d values, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("cumulative[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	if sumPoints(points) != 3.5 {
		t.Fatalf("expected sum 3.5, got %v", sumPoints(points))
	}
}
