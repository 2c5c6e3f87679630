package analysis

import (
	"fmt"
	"math"

	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/sim"
)

// LyapunovExponent estimates the largest Lyapunov exponent of a chain using
// the trajectory separation method. A positive value indicates chaos.
//
// Algorithm:
// 1. Run two chains whose first particle differs by perturbation in x
// 2. Every renorm steps, measure their phase space separation
// 3. Accumulate ln(d/d0) and pull the shadow back to distance d0
// 4. λ ≈ Σ ln(d/d0) / t
func LyapunovExponent(cfg dynamo.Config, perturbation float64, steps, renorm int) (float64, error) {
	if cfg.InitialCount == 0 {
		return 0, fmt.Errorf("%w: need at least one particle", dynamo.ErrParameterBounds)
	}
	if perturbation <= 0 || renorm <= 0 {
		return 0, fmt.Errorf("%w: perturbation and renorm must be positive", dynamo.ErrParameterBounds)
	}

	ref, err := sim.New(cfg)
	if err != nil {
		return 0, err
	}
	shadow, err := sim.New(cfg)
	if err != nil {
		return 0, err
	}
	shadow.Particles().Pos[0].X += perturbation

	sumLog := 0.0
	count := 0

	for i := 1; i <= steps; i++ {
		if err := ref.Step(); err != nil {
			return 0, err
		}
		if err := shadow.Step(); err != nil {
			return 0, err
		}
		if i%renorm != 0 {
			continue
		}

		d := separation(ref.Particles(), shadow.Particles())
		if d == 0 || math.IsNaN(d) {
			continue
		}
		sumLog += math.Log(d / perturbation)
		count++
		rescale(ref.Particles(), shadow.Particles(), perturbation/d)
	}

	if count == 0 {
		return 0, nil
	}
	return sumLog / (float64(count*renorm) * cfg.Dt), nil
}

func separation(a, b *dynamo.Particles) float64 {
	sum := 0.0
	for i := range a.Active() {
		dp := b.Pos[i].Sub(a.Pos[i])
		dv := b.Vel[i].Sub(a.Vel[i])
		sum += dp.Dot(dp) + dv.Dot(dv)
	}
	return math.Sqrt(sum)
}

func rescale(a, b *dynamo.Particles, f float64) {
	for i := range a.Active() {
		b.Pos[i] = a.Pos[i].Add(b.Pos[i].Sub(a.Pos[i]).Scale(f))
		b.Vel[i] = a.Vel[i].Add(b.Vel[i].Sub(a.Vel[i]).Scale(f))
	}
}
