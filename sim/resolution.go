package sim

import (
	"log"
	"math"
)

// Resolution is the duration of one simulation step in milliseconds. Input
// buffers bin incoming signals by step, so all delivery times are aligned to
// a multiple of the resolution.
type Resolution VTimeInMs

// DefaultResolution is the step size used when a builder is not given one.
const DefaultResolution = Resolution(0.1)

// Step converts a time to the index of the step it falls on.
func (r Resolution) Step(t VTimeInMs) int64 {
	r.mustBeValid()
	if math.IsNaN(float64(t)) {
		log.Panic("invalid time")
	}
	return int64(math.Round(float64(t) / float64(r)))
}

// Time returns the time at the beginning of the given step.
func (r Resolution) Time(step int64) VTimeInMs {
	r.mustBeValid()
	return VTimeInMs(step) * VTimeInMs(r)
}

// ThisStep returns the step-aligned time at or right after the given time.
//
//	           Input
//	           (          ]
//	|----------|----------|----------|----->
//	                      |
//	                      Output
func (r Resolution) ThisStep(now VTimeInMs) VTimeInMs {
	r.mustBeValid()
	if math.IsNaN(float64(now)) {
		log.Panic("invalid time")
	}
	count := math.Ceil(math.Round(float64(now)/float64(r)*10) / 10)
	return VTimeInMs(count) * VTimeInMs(r)
}

// NextStep returns the first step-aligned time strictly after the given
// time.
//
//	           Input
//	           [          )
//	|----------|----------|----------|----->
//	                      |
//	                      Output
func (r Resolution) NextStep(now VTimeInMs) VTimeInMs {
	r.mustBeValid()
	if math.IsNaN(float64(now)) {
		log.Panic("invalid time")
	}
	count := math.Floor(math.Round(float64(now)/float64(r)*10) / 10)
	return VTimeInMs(count+1) * VTimeInMs(r)
}

// NStepsLater returns the step-aligned time n steps after the given time.
func (r Resolution) NStepsLater(n int, now VTimeInMs) VTimeInMs {
	r.mustBeValid()
	if n < 0 {
		log.Panic("step count must not be negative")
	}
	return r.ThisStep(now + VTimeInMs(n)*VTimeInMs(r))
}

func (r Resolution) mustBeValid() {
	if r <= 0 || math.IsNaN(float64(r)) {
		log.Panic("resolution must be a positive number of milliseconds")
	}
}
