package sirs

import "math"

// A GainFunc maps accumulated input to an activation probability in [0, 1].
// Gain functions must be pure: no side effects, deterministic given h.
type GainFunc func(h float64) float64

// LinearGain is the clamped identity gain. LinearGain(0) is 0, so a unit
// without input never makes the S->I transition under this gain.
func LinearGain(h float64) float64 {
	return clamp01(h)
}

// NewSigmoidGain returns a logistic gain
//
//	g(h) = 1 / (1 + exp(-slope*(h-offset)))
//
// Note that g(0) > 0 for any finite slope and offset, so a unit without
// input can still make the S->I transition under this gain.
func NewSigmoidGain(slope, offset float64) GainFunc {
	return func(h float64) float64 {
		return 1.0 / (1.0 + math.Exp(-slope*(h-offset)))
	}
}

// clamp01 clamps a computed probability to [0, 1]. Values outside the range
// are not errors; clamping is the documented policy.
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}

	if v > 1 {
		return 1
	}

	return v
}
