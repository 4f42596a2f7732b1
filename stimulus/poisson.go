// Package stimulus provides signal sources that drive units from outside
// the network.
package stimulus

import (
	"math"
	"math/rand"
	"reflect"

	"github.com/sarchlab/sirsim/sim"
)

type toggleEvent struct {
	*sim.EventBase
}

// A PoissonGenerator emits a random telegraph signal as transition-encoded
// spikes. It alternates between an off and an on phase, staying in each
// phase for an exponentially distributed duration. Entering the on phase
// emits an up spike; leaving it emits a down spike, so every receiver
// decodes the generator as a two-state sender that is either silent or
// active.
type PoissonGenerator struct {
	*sim.ComponentBase

	engine     sim.Engine
	resolution sim.Resolution
	rng        *rand.Rand

	meanOnTime  sim.VTimeInMs
	meanOffTime sim.VTimeInMs
	stopTime    sim.VTimeInMs

	on      bool
	started bool

	OutPort sim.Port
}

// Start schedules the first phase toggle. It must be called exactly once,
// before the engine runs.
func (g *PoissonGenerator) Start() {
	g.Lock()
	defer g.Unlock()

	if g.started {
		panic("generator " + g.Name() + " is already started")
	}
	g.started = true

	g.scheduleToggle(g.engine.CurrentTime())
}

// Handle toggles the phase and emits the spike that encodes the toggle.
func (g *PoissonGenerator) Handle(e sim.Event) error {
	switch e := e.(type) {
	case toggleEvent:
		g.toggle(e.Time())
	default:
		panic("cannot handle event of type " + reflect.TypeOf(e).String())
	}

	return nil
}

func (g *PoissonGenerator) toggle(now sim.VTimeInMs) {
	g.Lock()
	defer g.Unlock()

	g.on = !g.on

	multiplicity := sim.MultiplicityDown
	if g.on {
		multiplicity = sim.MultiplicityUp
	}

	if g.OutPort.IsConnected() {
		msg := sim.SpikeMsgBuilder{}.
			WithSrc(g.OutPort.AsRemote()).
			WithSendTime(now).
			WithWeight(1.0).
			WithMultiplicity(multiplicity).
			WithSenderID(g.Name()).
			Build()

		if err := g.OutPort.Send(msg); err != nil {
			panic("generator " + g.Name() +
				" cannot emit: outgoing buffer full")
		}
	}

	g.scheduleToggle(now)
}

// scheduleToggle draws the duration of the phase just entered. Durations
// are aligned to the step grid and are at least one step.
func (g *PoissonGenerator) scheduleToggle(now sim.VTimeInMs) {
	mean := g.meanOffTime
	if g.on {
		mean = g.meanOnTime
	}

	duration := g.rng.ExpFloat64() * float64(mean)
	steps := int64(math.Round(duration / float64(g.resolution)))
	if steps < 1 {
		steps = 1
	}

	next := now + sim.VTimeInMs(steps)*sim.VTimeInMs(g.resolution)
	if g.stopTime > 0 && next > g.stopTime {
		return
	}

	g.engine.Schedule(toggleEvent{
		EventBase: sim.NewEventBase(next, g),
	})
}

// NotifyRecv does nothing. The generator has no inbound links.
func (g *PoissonGenerator) NotifyRecv(_ sim.Port) {
}

// NotifyPortFree does nothing.
func (g *PoissonGenerator) NotifyPortFree(_ sim.Port) {
}

// PoissonGeneratorBuilder can build Poisson generators.
type PoissonGeneratorBuilder struct {
	engine      sim.Engine
	resolution  sim.Resolution
	rng         *rand.Rand
	meanOnTime  sim.VTimeInMs
	meanOffTime sim.VTimeInMs
	stopTime    sim.VTimeInMs
}

// MakePoissonGeneratorBuilder returns a builder with the default
// resolution and phase durations of 10 ms.
func MakePoissonGeneratorBuilder() PoissonGeneratorBuilder {
	return PoissonGeneratorBuilder{
		resolution:  sim.DefaultResolution,
		meanOnTime:  10.0,
		meanOffTime: 10.0,
	}
}

// WithEngine sets the engine that drives the generator.
func (b PoissonGeneratorBuilder) WithEngine(
	engine sim.Engine,
) PoissonGeneratorBuilder {
	b.engine = engine
	return b
}

// WithResolution sets the step grid that toggle times are aligned to.
func (b PoissonGeneratorBuilder) WithResolution(
	r sim.Resolution,
) PoissonGeneratorBuilder {
	b.resolution = r
	return b
}

// WithRand sets the random source for the phase durations. The source is
// borrowed, never seeded or replaced.
func (b PoissonGeneratorBuilder) WithRand(
	rng *rand.Rand,
) PoissonGeneratorBuilder {
	b.rng = rng
	return b
}

// WithMeanOnTime sets the mean duration of the on phase in milliseconds.
func (b PoissonGeneratorBuilder) WithMeanOnTime(
	t sim.VTimeInMs,
) PoissonGeneratorBuilder {
	b.meanOnTime = t
	return b
}

// WithMeanOffTime sets the mean duration of the off phase in milliseconds.
func (b PoissonGeneratorBuilder) WithMeanOffTime(
	t sim.VTimeInMs,
) PoissonGeneratorBuilder {
	b.meanOffTime = t
	return b
}

// WithStopTime makes the generator stop toggling past the given time.
// Zero means no limit.
func (b PoissonGeneratorBuilder) WithStopTime(
	t sim.VTimeInMs,
) PoissonGeneratorBuilder {
	b.stopTime = t
	return b
}

// Build creates the generator.
func (b PoissonGeneratorBuilder) Build(name string) *PoissonGenerator {
	if b.engine == nil {
		panic("generator " + name + " is built without an engine")
	}

	if b.rng == nil {
		panic("generator " + name + " is built without a random source")
	}

	if b.meanOnTime <= 0 || b.meanOffTime <= 0 {
		panic("generator " + name + " phase durations must be positive")
	}

	g := &PoissonGenerator{
		engine:      b.engine,
		resolution:  b.resolution,
		rng:         b.rng,
		meanOnTime:  b.meanOnTime,
		meanOffTime: b.meanOffTime,
		stopTime:    b.stopTime,
	}
	g.ComponentBase = sim.NewComponentBase(name)

	g.OutPort = sim.NewPort(g, 1, 4, name+".OutPort")
	g.AddPort("OutPort", g.OutPort)

	return g
}
