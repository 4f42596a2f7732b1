package stimulus

import (
	"github.com/sarchlab/sirsim/sim"
)

// A DCGenerator emits a constant-amplitude current sample on every step of
// the window [Start, Stop). Receivers read the sample instantaneously at
// the step it is delivered on.
type DCGenerator struct {
	*sim.TickingComponent

	amplitude float64
	start     sim.VTimeInMs
	stop      sim.VTimeInMs

	OutPort sim.Port
}

// Start schedules the first tick.
func (g *DCGenerator) Start() {
	g.TickNow()
}

// Tick emits one current sample per step while the window is open.
func (g *DCGenerator) Tick() bool {
	now := g.CurrentTime()

	if now >= g.stop {
		return false
	}

	if now < g.start {
		return true
	}

	if !g.OutPort.IsConnected() {
		return true
	}

	if !g.OutPort.CanSend() {
		return true
	}

	msg := sim.CurrentMsgBuilder{}.
		WithSrc(g.OutPort.AsRemote()).
		WithSendTime(now).
		WithAmplitude(g.amplitude).
		WithSenderID(g.Name()).
		Build()

	g.OutPort.Send(msg)

	return true
}

// DCGeneratorBuilder can build DC generators.
type DCGeneratorBuilder struct {
	engine     sim.Engine
	resolution sim.Resolution
	amplitude  float64
	start      sim.VTimeInMs
	stop       sim.VTimeInMs
}

// MakeDCGeneratorBuilder returns a builder with the default resolution and
// an amplitude of 1.
func MakeDCGeneratorBuilder() DCGeneratorBuilder {
	return DCGeneratorBuilder{
		resolution: sim.DefaultResolution,
		amplitude:  1.0,
	}
}

// WithEngine sets the engine that drives the generator.
func (b DCGeneratorBuilder) WithEngine(engine sim.Engine) DCGeneratorBuilder {
	b.engine = engine
	return b
}

// WithResolution sets the step size of the emission.
func (b DCGeneratorBuilder) WithResolution(
	r sim.Resolution,
) DCGeneratorBuilder {
	b.resolution = r
	return b
}

// WithAmplitude sets the amplitude of the emitted current.
func (b DCGeneratorBuilder) WithAmplitude(a float64) DCGeneratorBuilder {
	b.amplitude = a
	return b
}

// WithWindow sets the emission window [start, stop).
func (b DCGeneratorBuilder) WithWindow(
	start, stop sim.VTimeInMs,
) DCGeneratorBuilder {
	b.start = start
	b.stop = stop
	return b
}

// Build creates the generator.
func (b DCGeneratorBuilder) Build(name string) *DCGenerator {
	if b.engine == nil {
		panic("generator " + name + " is built without an engine")
	}

	if b.stop <= b.start {
		panic("generator " + name + " emission window is empty")
	}

	g := &DCGenerator{
		amplitude: b.amplitude,
		start:     b.start,
		stop:      b.stop,
	}
	g.TickingComponent = sim.NewTickingComponent(
		name, b.engine, b.resolution, g)

	g.OutPort = sim.NewPort(g, 1, 4, name+".OutPort")
	g.AddPort("OutPort", g.OutPort)

	return g
}
