// Package network provides the fabric that delivers signals between units
// over weighted, delayed links.
package network

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/sarchlab/sirsim/sim"
)

// ErrIncompatibleKind marks an attempt to link a signal kind the target
// does not accept. Compatibility is checked when the link is established,
// never at delivery time.
var ErrIncompatibleKind = errors.New("signal kind not accepted by target")

// ErrDuplicateLink marks an attempt to create a second spike link for the
// same ordered pair of ports. Duplicate delivery would corrupt the
// multiplicity-based transition decoding of the receiver.
var ErrDuplicateLink = errors.New("duplicate spike link for ordered pair")

// LinkParams describe one directed link.
type LinkParams struct {
	Kind   sim.SignalKind
	Weight float64

	// Delay is the delivery latency in milliseconds. It is aligned to the
	// fabric's step grid. Zero-delay deliveries happen as secondary events,
	// after all same-time re-evaluations complete.
	Delay sim.VTimeInMs
}

type link struct {
	dst        sim.Port
	kind       sim.SignalKind
	weight     float64
	delaySteps int64
}

type pairKey struct {
	src, dst sim.RemotePort
}

type deliveryEvent struct {
	*sim.EventBase

	msg       sim.Msg
	dst       sim.Port
	secondary bool
}

func (e deliveryEvent) IsSecondary() bool {
	return e.secondary
}

// A Fabric connects unit ports with directed links. When a source port
// sends a message, the fabric fans it out over all the links of that port,
// applying each link's weight and delay en route.
type Fabric struct {
	*sim.ComponentBase

	engine     sim.Engine
	resolution sim.Resolution

	ports      map[sim.RemotePort]sim.Port
	links      map[sim.RemotePort][]*link
	spikePairs map[pairKey]bool
}

// PlugIn marks the port as connected to this fabric.
func (f *Fabric) PlugIn(port sim.Port) {
	f.Lock()
	defer f.Unlock()

	f.ports[port.AsRemote()] = port
	port.SetConnection(f)
}

// Unplug is not supported.
func (f *Fabric) Unplug(_ sim.Port) {
	panic("not implemented")
}

// Connect establishes a directed link from src to dst. The target port
// must accept the link's signal kind, and at most one spike link may exist
// per ordered pair of ports.
func (f *Fabric) Connect(src, dst sim.Port, params LinkParams) error {
	f.Lock()
	defer f.Unlock()

	f.portMustBePluggedIn(src)
	f.portMustBePluggedIn(dst)

	if !dst.Accepts(params.Kind) {
		return fmt.Errorf("%w: port %s does not accept %s signals",
			ErrIncompatibleKind, dst.Name(), params.Kind)
	}

	if params.Delay < 0 {
		return fmt.Errorf("link delay must not be negative, got %g",
			float64(params.Delay))
	}

	if params.Kind == sim.SpikeSignal {
		key := pairKey{src: src.AsRemote(), dst: dst.AsRemote()}
		if f.spikePairs[key] {
			return fmt.Errorf("%w: %s -> %s",
				ErrDuplicateLink, src.Name(), dst.Name())
		}
		f.spikePairs[key] = true
	}

	f.links[src.AsRemote()] = append(f.links[src.AsRemote()], &link{
		dst:        dst,
		kind:       params.Kind,
		weight:     params.Weight,
		delaySteps: f.resolution.Step(sim.VTimeInMs(params.Delay)),
	})

	return nil
}

func (f *Fabric) portMustBePluggedIn(port sim.Port) {
	if _, found := f.ports[port.AsRemote()]; !found {
		panic("port " + port.Name() + " is not plugged into fabric " +
			f.Name())
	}
}

// NotifySend drains the outgoing buffers of the plugged ports and fans
// each message out over the links of its source port.
func (f *Fabric) NotifySend() {
	f.Lock()
	defer f.Unlock()

	for _, port := range f.ports {
		for {
			msg := port.RetrieveOutgoing()
			if msg == nil {
				break
			}

			f.fanOut(port, msg)
		}
	}
}

func (f *Fabric) fanOut(src sim.Port, msg sim.Msg) {
	now := f.engine.CurrentTime()

	for _, l := range f.links[src.AsRemote()] {
		if l.kind != msg.Kind() {
			continue
		}

		copied := msg.Clone()
		copied.Meta().Dst = l.dst.AsRemote()

		switch m := copied.(type) {
		case *sim.SpikeMsg:
			m.Weight *= l.weight
		case *sim.CurrentMsg:
			m.Amplitude *= l.weight
		}

		deliverTime := now +
			sim.VTimeInMs(l.delaySteps)*sim.VTimeInMs(f.resolution)

		f.engine.Schedule(deliveryEvent{
			EventBase: sim.NewEventBase(deliverTime, f),
			msg:       copied,
			dst:       l.dst,
			secondary: l.delaySteps == 0,
		})
	}
}

// Handle delivers a message to its destination port. If the destination
// buffer is full, the delivery is retried one step later.
func (f *Fabric) Handle(e sim.Event) error {
	switch e := e.(type) {
	case deliveryEvent:
		f.deliver(e)
	default:
		panic("cannot handle event of type " + reflect.TypeOf(e).String())
	}

	return nil
}

func (f *Fabric) deliver(evt deliveryEvent) {
	evt.msg.Meta().RecvTime = evt.Time()

	if err := evt.dst.Deliver(evt.msg); err != nil {
		f.engine.Schedule(deliveryEvent{
			EventBase: sim.NewEventBase(
				f.resolution.NextStep(evt.Time()), f),
			msg:       evt.msg,
			dst:       evt.dst,
			secondary: true,
		})
		return
	}

	f.InvokeHook(sim.HookCtx{
		Domain: f,
		Pos:    sim.HookPosConnDeliver,
		Item:   evt.msg,
	})
}

// NotifyAvailable does nothing; failed deliveries are retried by time.
func (f *Fabric) NotifyAvailable(_ sim.Port) {
}

// NotifyRecv does nothing; the fabric owns no receiving ports.
func (f *Fabric) NotifyRecv(_ sim.Port) {
}

// NotifyPortFree does nothing.
func (f *Fabric) NotifyPortFree(_ sim.Port) {
}
