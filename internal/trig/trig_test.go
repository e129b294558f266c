package trig

import (
	"math"
	"testing"
)

const maxErr = 1.2e-3

func TestCos_ErrorBound(t *testing.T) {
	var worst, worstX float64
	for i := -200000; i <= 200000; i++ {
		x := float64(i) * 1e-4
		if d := math.Abs(Cos(x) - math.Cos(x)); d > worst {
			worst, worstX = d, x
		}
	}
	if worst > maxErr {
		t.Fatalf("max error %.6f at x=%.4f exceeds %.4f", worst, worstX, maxErr)
	}
	t.Logf("max abs error %.6f at x=%.4f", worst, worstX)
}

func TestCos_LargeArguments(t *testing.T) {
	// Synthesis evaluates up to π·(width-1)·8/width, but the kernel must
	// hold for any finite input.
	for _, x := range []float64{100, -100, 1e4 + 0.3, -7654.321, 123456.789} {
		if d := math.Abs(Cos(x) - math.Cos(x)); d > maxErr {
			t.Errorf("Cos(%v) = %v, math.Cos = %v", x, Cos(x), math.Cos(x))
		}
	}
}

func TestCos_KeyPoints(t *testing.T) {
	tests := []struct {
		x, want float64
	}{
		{0, 1},
		{math.Pi / 2, 0},
		{math.Pi, -1},
		{-math.Pi, -1},
		{3 * math.Pi / 2, 0},
		{2 * math.Pi, 1},
	}
	for _, tt := range tests {
		if got := Cos(tt.x); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Cos(%v) = %v, want %v", tt.x, got, tt.want)
		}
	}
}

func TestCos_Even(t *testing.T) {
	for i := 1; i < 1000; i++ {
		x := float64(i) * 0.0123
		if d := math.Abs(Cos(x) - Cos(-x)); d > 1e-12 {
			t.Fatalf("Cos(%v) != Cos(-%v): diff %g", x, x, d)
		}
	}
}

func TestKernel(t *testing.T) {
	if Approx.Func()(1) != Cos(1) {
		t.Error("Approx kernel is not Cos")
	}
	if Exact.Func()(1) != math.Cos(1) {
		t.Error("Exact kernel is not math.Cos")
	}

	for name, want := range map[string]Kernel{"": Approx, "fast": Approx, "APPROX": Approx, " exact ": Exact} {
		got, err := ParseKernel(name)
		if err != nil || got != want {
			t.Errorf("ParseKernel(%q) = %v, %v; want %v", name, got, err, want)
		}
	}
	if _, err := ParseKernel("taylor"); err == nil {
		t.Error("expected error for unknown kernel")
	}
	if Exact.String() != "exact" || Approx.String() != "approx" {
		t.Error("unexpected kernel names")
	}
}

func BenchmarkCos(b *testing.B) {
	var s float64
	for i := 0; i < b.N; i++ {
		s += Cos(float64(i&1023) * 0.01)
	}
	_ = s
}

func BenchmarkMathCos(b *testing.B) {
	var s float64
	for i := 0; i < b.N; i++ {
		s += math.Cos(float64(i&1023) * 0.01)
	}
	_ = s
}
