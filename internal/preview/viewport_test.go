package preview

import (
	"math"
	"testing"
)

func TestVisibleRange(t *testing.T) {
	tests := []struct {
		name      string
		vp        Viewport
		total     int64
		overscan  int
		wantStart int64
		wantEnd   int64
	}{
		{"top", Viewport{0, 600, 20}, 1000, 5, 0, 35},
		{"scrolled", Viewport{410, 600, 20}, 1000, 5, 20, 55},
		{"partial row height", Viewport{0, 610, 20}, 1000, 0, 0, 31},
		{"clamped by total", Viewport{19000, 600, 20}, 960, 5, 950, 960},
		{"scrolled past end", Viewport{50000, 600, 20}, 100, 5, 100, 100},
		{"zero row height treated as one", Viewport{3, 4, 0}, 100, 0, 3, 7},
		{"negative scroll", Viewport{-40, 40, 20}, 100, 0, 0, 2},
		{"no rows", Viewport{0, 600, 20}, 0, 5, 0, 0},
		{"unbounded total", Viewport{100, 10, 1}, math.MaxInt64, 2, 100, 112},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := tt.vp.VisibleRange(tt.total, tt.overscan)
			if start != tt.wantStart || end != tt.wantEnd {
				t.Fatalf("VisibleRange = [%d,%d), want [%d,%d)", start, end, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestVisibleRangeNaNIsHarmless(t *testing.T) {
	start, end := Viewport{math.NaN(), math.NaN(), math.NaN()}.VisibleRange(10, 1)
	if start != 0 || end != 1 {
		t.Fatalf("VisibleRange = [%d,%d), want [0,1)", start, end)
	}
}
