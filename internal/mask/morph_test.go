package mask

import (
	"image"
	"testing"
)

func TestDilateKernelSizes(t *testing.T) {
	tests := []struct {
		name string
		k    int
		want int
	}{
		{"k=1 is identity", 1, 1},
		{"k=3", 3, 9},
		{"k=4", 4, 16},
		{"k=5", 5, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New(21, 21)
			m.Set(10, 10, true)
			if got := Dilate(m, tt.k).Count(); got != tt.want {
				t.Errorf("Dilate(k=%d) count = %d, want %d", tt.k, got, tt.want)
			}
		})
	}
}

func TestErodeShrinksBlock(t *testing.T) {
	m := createRectMask(20, 20, image.Rect(5, 5, 10, 10))
	got := Erode(m, 3)
	if got.Count() != 9 {
		t.Errorf("Erode(k=3) of a 5x5 block count = %d, want 9", got.Count())
	}
	if !got.Get(7, 7) || got.Get(5, 5) {
		t.Error("Erode(k=3) kept the wrong pixels")
	}
}

func TestOpenRemovesSpecks(t *testing.T) {
	m := createRectMask(30, 30, image.Rect(10, 10, 20, 20))
	m.Set(2, 2, true)
	m.Set(27, 3, true)

	got := Open(m, 3)
	if got.Get(2, 2) || got.Get(27, 3) {
		t.Error("Open(k=3) should remove isolated pixels")
	}
	if got.Count() != 100 {
		t.Errorf("Open(k=3) should keep the 10x10 block intact, count = %d", got.Count())
	}
}

func TestCloseFillsGap(t *testing.T) {
	m := createRectMask(30, 10, image.Rect(2, 3, 28, 7))
	for y := 3; y < 7; y++ {
		m.Set(15, y, false)
	}

	got := Close(m, 3)
	for y := 3; y < 7; y++ {
		if !got.Get(15, y) {
			t.Errorf("Close(k=3) left the gap open at (15,%d)", y)
		}
	}
}

func TestMorphologyPreservesSize(t *testing.T) {
	m := createRectMask(17, 9, image.Rect(3, 3, 8, 6))
	for _, out := range []*Mask{Dilate(m, 5), Erode(m, 5), Open(m, 3), Close(m, 3)} {
		if !out.SameSize(m) {
			t.Errorf("morphology changed size to %dx%d", out.Width, out.Height)
		}
	}
}
