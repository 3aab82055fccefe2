package obj

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrInvalidRange   = errors.New("min dimension is greater than max dimension")
	ErrInitOutOfRange = errors.New("initial dimension outside [min, max]")
	ErrNotFinite      = errors.New("growth value is NaN or infinite")
)

// Growth tracks one growable dimension. Non-strict growth clamps each step
// into [Min, Max]. Strict growth only applies a step whose result stays
// strictly inside the bounds, so Current never reaches Max from below or
// Min from above.
type Growth struct {
	Current float64
	Min     float64
	Max     float64
	Step    float64
	Strict  bool
}

func (g *Growth) Validate() error {
	for _, v := range []float64{g.Current, g.Min, g.Max, g.Step} {
		if !finite(v) {
			return fmt.Errorf("%w: current %v, min %v, max %v, step %v", ErrNotFinite, g.Current, g.Min, g.Max, g.Step)
		}
	}
	if g.Min > g.Max {
		return fmt.Errorf("%w: min %v, max %v", ErrInvalidRange, g.Min, g.Max)
	}
	if g.Current < g.Min || g.Current > g.Max {
		return fmt.Errorf("%w: %v not in [%v, %v]", ErrInitOutOfRange, g.Current, g.Min, g.Max)
	}
	return nil
}

// Up grows by one step and reports whether Current changed.
func (g *Growth) Up() bool {
	if g.Step <= 0 {
		return false
	}
	if g.Strict {
		if g.Current+g.Step < g.Max {
			g.Current += g.Step
			return true
		}
		return false
	}
	if g.Current >= g.Max {
		return false
	}
	g.Current = min(g.Current+g.Step, g.Max)
	return true
}

// Down shrinks by one step and reports whether Current changed.
func (g *Growth) Down() bool {
	if g.Step <= 0 {
		return false
	}
	if g.Strict {
		if g.Current-g.Step > g.Min {
			g.Current -= g.Step
			return true
		}
		return false
	}
	if g.Current <= g.Min {
		return false
	}
	g.Current = max(g.Current-g.Step, g.Min)
	return true
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
