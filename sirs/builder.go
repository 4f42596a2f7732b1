package sirs

import (
	"math/rand"

	"github.com/sarchlab/sirsim/sim"
)

// Builder can build SIRS units.
type Builder struct {
	engine     sim.Engine
	resolution sim.Resolution
	rng        *rand.Rand
	gain       GainFunc
	params     Params
	stopTime   sim.VTimeInMs
}

// MakeBuilder returns a builder with the default resolution, parameters,
// and linear gain.
func MakeBuilder() Builder {
	return Builder{
		resolution: sim.DefaultResolution,
		gain:       LinearGain,
		params:     DefaultParams(),
	}
}

// WithEngine sets the engine that drives the unit.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithResolution sets the step size used for input binning.
func (b Builder) WithResolution(r sim.Resolution) Builder {
	b.resolution = r
	return b
}

// WithRand sets the random source used for stochastic draws. The source is
// borrowed: the unit never seeds or replaces it. Units updated on
// different goroutines must each hold their own source.
func (b Builder) WithRand(rng *rand.Rand) Builder {
	b.rng = rng
	return b
}

// WithGain sets the gain function.
func (b Builder) WithGain(gain GainFunc) Builder {
	b.gain = gain
	return b
}

// WithParams sets the unit parameters.
func (b Builder) WithParams(params Params) Builder {
	b.params = params
	return b
}

// WithStopTime makes the unit stop scheduling re-evaluations past the
// given time, so that a simulation run terminates. Zero means no limit.
func (b Builder) WithStopTime(t sim.VTimeInMs) Builder {
	b.stopTime = t
	return b
}

// Build creates the unit.
func (b Builder) Build(name string) *Neuron {
	if b.engine == nil {
		panic("unit " + name + " is built without an engine")
	}

	if b.rng == nil {
		panic("unit " + name + " is built without a random source")
	}

	if err := b.params.Validate(); err != nil {
		panic("unit " + name + " is built with invalid parameters: " +
			err.Error())
	}

	n := &Neuron{
		engine:     b.engine,
		resolution: b.resolution,
		rng:        b.rng,
		gain:       b.gain,
		params:     b.params,
		stopTime:   b.stopTime,

		y:        Susceptible,
		spikes:   newStepAccumulator(),
		currents: newStepAccumulator(),
		inferred: make(map[string]State),
	}
	n.ComponentBase = sim.NewComponentBase(name)

	n.InPort = sim.NewPort(n, 64, 1, name+".InPort",
		sim.SpikeSignal, sim.CurrentSignal)
	n.OutPort = sim.NewPort(n, 1, 4, name+".OutPort")
	n.AddPort("InPort", n.InPort)
	n.AddPort("OutPort", n.OutPort)

	return n
}
