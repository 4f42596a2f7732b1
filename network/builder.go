package network

import "github.com/sarchlab/sirsim/sim"

// Builder can build fabrics.
type Builder struct {
	engine     sim.Engine
	resolution sim.Resolution
}

// MakeBuilder returns a builder with the default resolution.
func MakeBuilder() Builder {
	return Builder{
		resolution: sim.DefaultResolution,
	}
}

// WithEngine sets the engine that schedules deliveries.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithResolution sets the step grid that link delays are aligned to.
func (b Builder) WithResolution(r sim.Resolution) Builder {
	b.resolution = r
	return b
}

// Build creates the fabric.
func (b Builder) Build(name string) *Fabric {
	if b.engine == nil {
		panic("fabric " + name + " is built without an engine")
	}

	f := &Fabric{
		engine:     b.engine,
		resolution: b.resolution,
		ports:      make(map[sim.RemotePort]sim.Port),
		links:      make(map[sim.RemotePort][]*link),
		spikePairs: make(map[pairKey]bool),
	}
	f.ComponentBase = sim.NewComponentBase(name)

	return f
}
