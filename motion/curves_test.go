package motion

import (
	"math"
	"testing"
)

func TestSmoothstep(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"起点", 0, 0},
		{"终点", 1, 1},
		{"中点", 0.5, 0.5},
		{"四分之一", 0.25, 0.15625},
		{"小于 0 截断", -0.5, 0},
		{"大于 1 截断", 1.7, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Smoothstep(tt.in); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Smoothstep(%v) = %v, 期望 %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestSmoothstepMonotonicAndBounded(t *testing.T) {
	const samples = 10000
	prev := Smoothstep(0)
	for i := 1; i <= samples; i++ {
		x := float64(i) / samples
		got := Smoothstep(x)
		if got < 0 || got > 1 {
			t.Fatalf("Smoothstep(%v) = %v 超出 [0,1]", x, got)
		}
		if got < prev {
			t.Fatalf("Smoothstep 非单调: f(%v) = %v < %v", x, got, prev)
		}
		prev = got
	}
}

func TestSwingSidesAlternate(t *testing.T) {
	for _, phase := range []float64{0, 0.3, 1.2, math.Pi / 2, 5.7} {
		l := swing(phase, sideLeft)
		r := swing(phase, sideRight)
		if l != -r {
			t.Errorf("phase %v: left %v 与 right %v 不对称", phase, l, r)
		}
	}
	if swing(0, sideRight) != 0 {
		t.Errorf("swing(0, right) = %v, 期望精确为 0", swing(0, sideRight))
	}
}

func TestWrapDegrees(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{-15, 345},
		{360, 0},
		{375, 15},
		{-375, 345},
		{720, 0},
	}
	for _, tt := range tests {
		if got := wrapDegrees(tt.in); got != tt.want {
			t.Errorf("wrapDegrees(%v) = %v, 期望 %v", tt.in, got, tt.want)
		}
	}
}
