package sirs

import (
	"fmt"
	"math"
)

// Status-dictionary field names. The dictionary exchanges parameters and
// initial state as numeric values.
const (
	StatusTauM = "tau_m"
	StatusBeta = "beta"
	StatusMu   = "mu"
	StatusY    = "y"
	StatusH    = "h"
)

// Status returns the unit's parameters and state as a status dictionary.
func (n *Neuron) Status() map[string]any {
	n.Lock()
	defer n.Unlock()

	return map[string]any{
		StatusTauM: n.params.TauM,
		StatusBeta: n.params.Beta,
		StatusMu:   n.params.Mu,
		StatusY:    int(n.y),
		StatusH:    n.h,
	}
}

// SetStatus updates parameters and state from a status dictionary. All
// fields are validated first; if any value is out of range or any field is
// unknown, nothing is mutated.
func (n *Neuron) SetStatus(status map[string]any) error {
	n.Lock()
	defer n.Unlock()

	params := n.params
	y := n.y
	h := n.h

	for field, value := range status {
		switch field {
		case StatusTauM, StatusBeta, StatusMu, StatusH:
			f, err := statusFloat(field, value)
			if err != nil {
				return err
			}

			switch field {
			case StatusTauM:
				params.TauM = f
			case StatusBeta:
				params.Beta = f
			case StatusMu:
				params.Mu = f
			case StatusH:
				h = f
			}
		case StatusY:
			i, err := statusInt(field, value)
			if err != nil {
				return err
			}
			y = State(i)
		default:
			return fmt.Errorf("unknown status field %q", field)
		}
	}

	if err := params.Validate(); err != nil {
		return err
	}

	if !y.Valid() {
		return fmt.Errorf("y must be 0, 1, or 2, got %d", int(y))
	}

	n.params = params
	n.y = y
	n.h = h

	return nil
}

func statusFloat(field string, value any) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	default:
		return 0, fmt.Errorf("status field %q must be numeric, got %T",
			field, value)
	}
}

func statusInt(field string, value any) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf(
				"status field %q must be an integer, got %g", field, v)
		}
		return int(v), nil
	default:
		return 0, fmt.Errorf("status field %q must be an integer, got %T",
			field, value)
	}
}
