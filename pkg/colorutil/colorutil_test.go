package colorutil

import "testing"

func TestLuminance(t *testing.T) {
	if got := Luminance(255, 255, 255); got != 255 {
		t.Errorf("white luma = %v, want 255", got)
	}
	if got := Luminance(0, 0, 0); got != 0 {
		t.Errorf("black luma = %v, want 0", got)
	}
	// Green dominates the Rec.709 weighting.
	if Luminance(0, 200, 0) <= Luminance(200, 0, 0) {
		t.Error("green should be brighter than red at equal channel value")
	}
}

func TestClampUint8(t *testing.T) {
	tests := []struct {
		in   float64
		want uint8
	}{
		{-10, 0},
		{0, 0},
		{127.4, 127},
		{127.5, 128},
		{255, 255},
		{300, 255},
	}
	for _, tt := range tests {
		if got := ClampUint8(tt.in); got != tt.want {
			t.Errorf("ClampUint8(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
