package sirs

import (
	"fmt"
	"math"
	"math/rand"
	"reflect"

	"github.com/sarchlab/sirsim/sim"
)

// HookPosStateTransition marks a unit committing a state transition. The
// hook item is a Transition.
var HookPosStateTransition = &sim.HookPos{Name: "SIRS State Transition"}

// A Transition describes one committed state change of a unit.
type Transition struct {
	From, To     State
	Multiplicity int
	Time         sim.VTimeInMs
}

type updateEvent struct {
	*sim.EventBase
}

// A Neuron is one SIRS unit. It cycles Susceptible -> Infected ->
// Recovered -> Susceptible, re-evaluating its state at self-scheduled,
// exponentially distributed times. Incoming spikes carry the multiplicity
// encoding of the sender's transitions; the unit decodes them per sender
// into a weighted count of currently infected senders, which the gain
// function turns into the activation probability for the S->I transition.
//
// A Neuron emits a spike only when a transition occurs: multiplicity 2 for
// an up-transition (S->I, I->R), multiplicity 1 for the down-transition
// (R->S). The decoding scheme breaks if two spike links exist for the same
// ordered pair of units; the fabric rejects such links at connect time.
type Neuron struct {
	*sim.ComponentBase

	engine     sim.Engine
	resolution sim.Resolution

	// rng is borrowed from the enclosing simulation; the unit never seeds
	// or replaces it.
	rng *rand.Rand

	gain     GainFunc
	params   Params
	stopTime sim.VTimeInMs

	y            State
	h            float64
	lastSenderID string
	tNext        sim.VTimeInMs
	tLastInput   sim.VTimeInMs

	spikes   *stepAccumulator
	currents *stepAccumulator
	inferred map[string]State

	started bool

	// InPort receives spikes and currents. OutPort emits transition spikes
	// into the fabric. Analog reads go through the Probe method instead of
	// a message.
	InPort  sim.Port
	OutPort sim.Port
}

// Start clears the input buffers and schedules the unit's first
// re-evaluation. It must be called exactly once, before the engine runs.
func (n *Neuron) Start() {
	n.Lock()
	defer n.Unlock()

	if n.started {
		panic("unit " + n.Name() + " is already started")
	}
	n.started = true

	n.spikes.Clear()
	n.currents.Clear()

	n.scheduleNextUpdate(n.engine.CurrentTime())
}

// Handle runs the unit's update algorithm for its own update events.
func (n *Neuron) Handle(e sim.Event) error {
	switch e := e.(type) {
	case updateEvent:
		n.update(e.Time())
	default:
		panic("cannot handle event of type " + reflect.TypeOf(e).String())
	}

	return nil
}

// update is the per-re-evaluation algorithm. It consumes all pending
// input bins through the re-evaluation step itself; a delivery that ties
// with an update in event order counts at the next update.
func (n *Neuron) update(now sim.VTimeInMs) {
	n.Lock()
	defer n.Unlock()

	step := n.resolution.Step(now)

	// Spike bins hold deltas of the weighted infected-sender count, so they
	// accumulate into h. Currents are instantaneous per step.
	n.h += n.spikes.Drain(step)
	c := n.currents.Sample(step)

	switch n.y {
	case Susceptible:
		p := clamp01(clamp01(n.gain(n.h+c)) * n.params.Beta)
		if n.rng.Float64() < p {
			n.transitionTo(Infected, now)
		}
	case Infected:
		if n.rng.Float64() < n.params.Mu {
			n.transitionTo(Recovered, now)
		}
	case Recovered:
		// Recovery is transient, not absorbing.
		n.transitionTo(Susceptible, now)
	}

	n.scheduleNextUpdate(now)
}

// transitionTo emits the encoded transition before committing the new
// state.
func (n *Neuron) transitionTo(to State, now sim.VTimeInMs) {
	multiplicity := sim.MultiplicityUp
	if int(to) < int(n.y) {
		multiplicity = sim.MultiplicityDown
	}

	n.emitSpike(multiplicity, now)

	transition := Transition{
		From:         n.y,
		To:           to,
		Multiplicity: multiplicity,
		Time:         now,
	}
	n.y = to

	n.InvokeHook(sim.HookCtx{
		Domain: n,
		Pos:    HookPosStateTransition,
		Item:   transition,
	})
}

func (n *Neuron) emitSpike(multiplicity int, now sim.VTimeInMs) {
	if !n.OutPort.IsConnected() {
		return
	}

	msg := sim.SpikeMsgBuilder{}.
		WithSrc(n.OutPort.AsRemote()).
		WithSendTime(now).
		WithWeight(1.0).
		WithMultiplicity(multiplicity).
		WithSenderID(n.Name()).
		Build()

	if err := n.OutPort.Send(msg); err != nil {
		panic("unit " + n.Name() + " cannot emit: outgoing buffer full")
	}
}

// scheduleNextUpdate draws the next inter-update interval from an
// exponential distribution with mean TauM. Re-evaluation times of a unit
// form a Poisson process, not a fixed tick. The drawn interval is aligned
// to the step grid and is at least one step, so tNext strictly increases.
func (n *Neuron) scheduleNextUpdate(now sim.VTimeInMs) {
	interval := n.rng.ExpFloat64() * n.params.TauM
	steps := int64(math.Round(interval / float64(n.resolution)))
	if steps < 1 {
		steps = 1
	}

	n.tNext = now + sim.VTimeInMs(steps)*sim.VTimeInMs(n.resolution)

	if n.stopTime > 0 && n.tNext > n.stopTime {
		return
	}

	n.engine.Schedule(updateEvent{
		EventBase: sim.NewEventBase(n.tNext, n),
	})
}

// NotifyRecv drains the incoming buffer into the unit's time-binned
// accumulators.
func (n *Neuron) NotifyRecv(port sim.Port) {
	n.Lock()
	defer n.Unlock()

	for {
		msg := port.RetrieveIncoming()
		if msg == nil {
			return
		}

		switch msg := msg.(type) {
		case *sim.SpikeMsg:
			n.handleSpike(msg)
		case *sim.CurrentMsg:
			n.handleCurrent(msg)
		default:
			panic("cannot handle msg of kind " + msg.Kind().String())
		}
	}
}

// handleSpike decodes the sender's transition from the multiplicity
// sequence and bins the resulting delta of the weighted infected-sender
// count.
func (n *Neuron) handleSpike(msg *sim.SpikeMsg) {
	step := n.resolution.Step(msg.RecvTime)

	prev, known := n.inferred[msg.SenderID]
	if !known {
		prev = Susceptible
	}

	var next State
	switch msg.Multiplicity {
	case sim.MultiplicityUp:
		next = prev.next()
	case sim.MultiplicityDown:
		next = Susceptible
	default:
		panic(fmt.Sprintf("invalid spike multiplicity %d", msg.Multiplicity))
	}
	n.inferred[msg.SenderID] = next

	switch {
	case next == Infected && prev != Infected:
		n.spikes.Add(step, msg.Weight)
	case prev == Infected && next != Infected:
		n.spikes.Add(step, -msg.Weight)
	}

	n.lastSenderID = msg.SenderID
	n.tLastInput = msg.RecvTime
}

func (n *Neuron) handleCurrent(msg *sim.CurrentMsg) {
	step := n.resolution.Step(msg.RecvTime)
	n.currents.Add(step, msg.Amplitude)

	n.lastSenderID = msg.SenderID
	n.tLastInput = msg.RecvTime
}

// NotifyPortFree does nothing. A unit emits at most one spike per
// re-evaluation, so the outgoing buffer never backs up.
func (n *Neuron) NotifyPortFree(_ sim.Port) {
}

// AcceptsInbound reports whether a link of the given signal kind may be
// established to this unit. The fabric consults it at connect time.
func (n *Neuron) AcceptsInbound(kind sim.SignalKind) bool {
	return n.InPort.Accepts(kind)
}

// Probe answers an analog read request synchronously, returning the
// current discrete state and accumulated input without mutating the unit.
func (n *Neuron) Probe() (State, float64) {
	n.Lock()
	defer n.Unlock()

	return n.y, n.h
}

// LastInput reports the sender and delivery time of the most recent
// inbound message, for diagnostics.
func (n *Neuron) LastInput() (string, sim.VTimeInMs) {
	n.Lock()
	defer n.Unlock()

	return n.lastSenderID, n.tLastInput
}

// Recordables returns the read-only numeric taps of the unit, polled by
// data-logging components at their own cadence.
func (n *Neuron) Recordables() map[string]func() float64 {
	return map[string]func() float64{
		"y": func() float64 {
			y, _ := n.Probe()
			return float64(y)
		},
		"h": func() float64 {
			_, h := n.Probe()
			return h
		},
	}
}

// RescaleTime rescales the unit by an old-to-new time-unit conversion
// factor, so that behavior is invariant under a global change of time
// resolution. The mean update interval and the pending time points all
// scale by the factor. Units must be rescaled before they are started.
func (n *Neuron) RescaleTime(factor float64) error {
	if math.IsNaN(factor) || factor <= 0 {
		return fmt.Errorf("time conversion factor must be > 0, got %g",
			factor)
	}

	n.Lock()
	defer n.Unlock()

	if n.started {
		return fmt.Errorf("cannot rescale unit %s after it is started",
			n.Name())
	}

	n.params.TauM *= factor
	n.tNext *= sim.VTimeInMs(factor)
	n.tLastInput *= sim.VTimeInMs(factor)

	return nil
}
