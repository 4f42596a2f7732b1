package sim

// A SignalKind classifies the messages a unit can receive. Connections are
// only established between ports that agree on the kind; compatibility is
// checked at connect time, never at delivery time.
type SignalKind int

// The signal kinds known to the kernel.
const (
	SpikeSignal SignalKind = iota
	CurrentSignal
)

func (k SignalKind) String() string {
	switch k {
	case SpikeSignal:
		return "Spike"
	case CurrentSignal:
		return "Current"
	default:
		return "Unknown"
	}
}

// Multiplicity values used by state-transition encoding. A unit that changes
// its discrete state emits exactly one spike: MultiplicityUp if the state
// index increased, MultiplicityDown if it wrapped back down. Receivers
// reconstruct the sender state from the sequence of multiplicities, which is
// why at most one spike connection may exist per ordered pair of units.
const (
	MultiplicityDown = 1
	MultiplicityUp   = 2
)

// A RemotePort is a string that refers to another port.
type RemotePort string

// A Msg is a piece of information that is transferred between components.
type Msg interface {
	Meta() *MsgMeta
	Kind() SignalKind
	Clone() Msg
}

// MsgMeta contains the meta data that is attached to every message.
type MsgMeta struct {
	ID       string
	Src, Dst RemotePort

	// SendTime is when the source emitted the message. RecvTime is when the
	// fabric delivered it; input buffers bin by RecvTime.
	SendTime, RecvTime VTimeInMs
}

// A SpikeMsg carries one discrete signal. Weight is the connection weight
// applied en route. SenderID names the emitting unit so that the receiver
// can decode the multiplicity sequence per sender.
type SpikeMsg struct {
	MsgMeta

	Weight       float64
	Multiplicity int
	SenderID     string
}

// Meta returns the meta data of the message.
func (m *SpikeMsg) Meta() *MsgMeta {
	return &m.MsgMeta
}

// Kind of a SpikeMsg is always SpikeSignal.
func (m *SpikeMsg) Kind() SignalKind {
	return SpikeSignal
}

// Clone returns a copy of the message with a different ID.
func (m *SpikeMsg) Clone() Msg {
	cloneMsg := *m
	cloneMsg.ID = GetIDGenerator().Generate()

	return &cloneMsg
}

// SpikeMsgBuilder can build spike messages.
type SpikeMsgBuilder struct {
	src, dst     RemotePort
	sendTime     VTimeInMs
	weight       float64
	multiplicity int
	senderID     string
}

// WithSrc sets the source of the message.
func (b SpikeMsgBuilder) WithSrc(src RemotePort) SpikeMsgBuilder {
	b.src = src
	return b
}

// WithDst sets the destination of the message.
func (b SpikeMsgBuilder) WithDst(dst RemotePort) SpikeMsgBuilder {
	b.dst = dst
	return b
}

// WithSendTime sets the time the message is emitted.
func (b SpikeMsgBuilder) WithSendTime(t VTimeInMs) SpikeMsgBuilder {
	b.sendTime = t
	return b
}

// WithWeight sets the weight carried by the message.
func (b SpikeMsgBuilder) WithWeight(w float64) SpikeMsgBuilder {
	b.weight = w
	return b
}

// WithMultiplicity sets the transition-encoding multiplicity.
func (b SpikeMsgBuilder) WithMultiplicity(m int) SpikeMsgBuilder {
	b.multiplicity = m
	return b
}

// WithSenderID sets the name of the emitting unit.
func (b SpikeMsgBuilder) WithSenderID(id string) SpikeMsgBuilder {
	b.senderID = id
	return b
}

// Build creates a new SpikeMsg.
func (b SpikeMsgBuilder) Build() *SpikeMsg {
	m := &SpikeMsg{
		MsgMeta: MsgMeta{
			ID:       GetIDGenerator().Generate(),
			Src:      b.src,
			Dst:      b.dst,
			SendTime: b.sendTime,
		},
		Weight:       b.weight,
		Multiplicity: b.multiplicity,
		SenderID:     b.senderID,
	}

	return m
}

// A CurrentMsg carries one continuous signal sample. The amplitude is added
// to the receiver's current buffer at the step the message is delivered on.
type CurrentMsg struct {
	MsgMeta

	Amplitude float64
	SenderID  string
}

// Meta returns the meta data of the message.
func (m *CurrentMsg) Meta() *MsgMeta {
	return &m.MsgMeta
}

// Kind of a CurrentMsg is always CurrentSignal.
func (m *CurrentMsg) Kind() SignalKind {
	return CurrentSignal
}

// Clone returns a copy of the message with a different ID.
func (m *CurrentMsg) Clone() Msg {
	cloneMsg := *m
	cloneMsg.ID = GetIDGenerator().Generate()

	return &cloneMsg
}

// CurrentMsgBuilder can build current messages.
type CurrentMsgBuilder struct {
	src, dst  RemotePort
	sendTime  VTimeInMs
	amplitude float64
	senderID  string
}

// WithSrc sets the source of the message.
func (b CurrentMsgBuilder) WithSrc(src RemotePort) CurrentMsgBuilder {
	b.src = src
	return b
}

// WithDst sets the destination of the message.
func (b CurrentMsgBuilder) WithDst(dst RemotePort) CurrentMsgBuilder {
	b.dst = dst
	return b
}

// WithSendTime sets the time the message is emitted.
func (b CurrentMsgBuilder) WithSendTime(t VTimeInMs) CurrentMsgBuilder {
	b.sendTime = t
	return b
}

// WithAmplitude sets the amplitude carried by the message.
func (b CurrentMsgBuilder) WithAmplitude(a float64) CurrentMsgBuilder {
	b.amplitude = a
	return b
}

// WithSenderID sets the name of the emitting component.
func (b CurrentMsgBuilder) WithSenderID(id string) CurrentMsgBuilder {
	b.senderID = id
	return b
}

// Build creates a new CurrentMsg.
func (b CurrentMsgBuilder) Build() *CurrentMsg {
	m := &CurrentMsg{
		MsgMeta: MsgMeta{
			ID:       GetIDGenerator().Generate(),
			Src:      b.src,
			Dst:      b.dst,
			SendTime: b.sendTime,
		},
		Amplitude: b.amplitude,
		SenderID:  b.senderID,
	}

	return m
}
