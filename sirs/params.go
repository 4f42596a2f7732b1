package sirs

import (
	"fmt"
	"math"
)

// Params are the independent parameters of a unit. They are immutable
// between updates and can only be replaced as a whole through SetStatus.
type Params struct {
	// TauM is the mean inter-update interval in milliseconds. It plays the
	// role of a membrane time constant: the unit re-evaluates its state at
	// exponentially distributed intervals with this mean.
	TauM float64

	// Beta is the transition probability S->I, modulated by the gain
	// function of the accumulated input.
	Beta float64

	// Mu is the transition probability I->R.
	Mu float64
}

// DefaultParams returns the default parameter values.
func DefaultParams() Params {
	return Params{
		TauM: 10.0,
		Beta: 1.0,
		Mu:   1.0,
	}
}

// Validate returns an error if any parameter is out of range.
func (p Params) Validate() error {
	if math.IsNaN(p.TauM) || p.TauM <= 0 {
		return fmt.Errorf("tau_m must be > 0, got %g", p.TauM)
	}

	if err := probabilityMustBeValid("beta", p.Beta); err != nil {
		return err
	}

	if err := probabilityMustBeValid("mu", p.Mu); err != nil {
		return err
	}

	return nil
}

func probabilityMustBeValid(name string, v float64) error {
	if math.IsNaN(v) || v < 0 || v > 1 {
		return fmt.Errorf("%s must be a probability in [0, 1], got %g",
			name, v)
	}

	return nil
}
