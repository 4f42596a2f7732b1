package sirs

// A stepAccumulator is a time-binned accumulator for inbound signals. Each
// bin holds the sum of the values delivered on one simulation step. The
// accumulator is owned by one unit and never shared; the unit's lock
// serializes writers and the drain.
type stepAccumulator struct {
	bins map[int64]float64
}

func newStepAccumulator() *stepAccumulator {
	return &stepAccumulator{
		bins: make(map[int64]float64),
	}
}

// Add accumulates a value into the bin of the given step.
func (a *stepAccumulator) Add(step int64, v float64) {
	a.bins[step] += v
}

// Drain sums and clears every bin up to and including the step `to`. Bins
// after `to` belong to signals delivered with a delay and stay untouched.
// A bin at or before an earlier drain can only hold a delivery that tied
// with that drain in event order; it is consumed here rather than lost.
func (a *stepAccumulator) Drain(to int64) float64 {
	sum := 0.0
	for step, v := range a.bins {
		if step <= to {
			sum += v
			delete(a.bins, step)
		}
	}

	return sum
}

// Sample returns the value binned at exactly the step `to` and clears every
// bin up to and including it. It is the read discipline for continuous
// signals, which are instantaneous per step rather than summed over the
// window.
func (a *stepAccumulator) Sample(to int64) float64 {
	v := a.bins[to]
	for step := range a.bins {
		if step <= to {
			delete(a.bins, step)
		}
	}

	return v
}

// Clear removes all bins. Called when a simulation run starts.
func (a *stepAccumulator) Clear() {
	a.bins = make(map[int64]float64)
}
