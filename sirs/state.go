package sirs

// State is the discrete state of a unit.
type State int

// The three states of the SIRS cycle. The integer values are part of the
// status-dictionary contract and must not be reordered.
const (
	Susceptible State = iota
	Infected
	Recovered
)

func (s State) String() string {
	switch s {
	case Susceptible:
		return "Susceptible"
	case Infected:
		return "Infected"
	case Recovered:
		return "Recovered"
	default:
		return "Invalid"
	}
}

// Valid returns true if s is one of the three SIRS states.
func (s State) Valid() bool {
	return s == Susceptible || s == Infected || s == Recovered
}

// next returns the state that follows s in the cycle.
func (s State) next() State {
	switch s {
	case Susceptible:
		return Infected
	case Infected:
		return Recovered
	default:
		return Susceptible
	}
}
