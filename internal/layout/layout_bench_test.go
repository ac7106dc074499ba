package layout_test

import (
	"testing"

	"github.com/charmbracelet/vlist/internal/layout"
)

func BenchmarkScrollBy(b *testing.B) {
	h := rows(b, 1_000_000, 50)
	b.ReportAllocs()
	for i := 0; b.Loop(); i++ {
		delta := 730
		if i%2 == 1 {
			delta = -730
		}
		if _, err := h.engine.ScrollBy(delta); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkScrollToPosition(b *testing.B) {
	h := rows(b, 100_000, 50)
	targets := []int{99_999, 0, 50_000, 25}
	b.ReportAllocs()
	for i := 0; b.Loop(); i++ {
		h.engine.ScrollToPosition(targets[i%len(targets)], layout.AlignLeading)
		if err := h.engine.Layout(); err != nil {
			b.Fatal(err)
		}
	}
}
