// Package trig provides the cosine kernels used by the basis synthesis.
package trig

import (
	"fmt"
	"math"
	"strings"
)

const (
	twoPi  = 2 * math.Pi
	halfPi = math.Pi / 2

	parabolaB = 4 / math.Pi
	parabolaC = -4 / (math.Pi * math.Pi)
	refineP   = 0.225
)

// Cos approximates math.Cos with a Bhaskara-style parabola plus one
// refinement step.  Absolute error stays near 1.1e-3 or below over all finite x.
func Cos(x float64) float64 {
	// cos(x) = sin(x + π/2), reduced into [-π, π).
	x += halfPi
	x -= twoPi * math.Floor((x+math.Pi)/twoPi)

	y := parabolaB*x + parabolaC*x*math.Abs(x)
	return refineP*(y*math.Abs(y)-y) + y
}

// Kernel selects how cosine is evaluated during synthesis.
type Kernel int

const (
	// Approx uses Cos.  It matches other smearhash decoders.
	Approx Kernel = iota
	// Exact uses math.Cos.  Slower, slightly smoother gradients.
	Exact
)

// Func returns the evaluation function for k.
func (k Kernel) Func() func(float64) float64 {
	if k == Exact {
		return math.Cos
	}
	return Cos
}

func (k Kernel) String() string {
	switch k {
	case Approx:
		return "approx"
	case Exact:
		return "exact"
	default:
		return fmt.Sprintf("Kernel(%d)", int(k))
	}
}

// ParseKernel maps a flag value ("approx", "fast", "exact") to a Kernel.
func ParseKernel(name string) (Kernel, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "approx", "fast":
		return Approx, nil
	case "exact":
		return Exact, nil
	}
	return Approx, fmt.Errorf("unknown cosine kernel %q (want approx or exact)", name)
}
