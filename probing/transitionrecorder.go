package probing

import (
	"github.com/sarchlab/sirsim/datarecording"
	"github.com/sarchlab/sirsim/sim"
	"github.com/sarchlab/sirsim/sirs"
)

// A TransitionRecord is one committed state change of one unit.
type TransitionRecord struct {
	Time         float64
	Unit         string
	From         int
	To           int
	Multiplicity int
}

// A TransitionRecorder is a hook that writes every state transition of the
// units it is attached to into a data recorder.
type TransitionRecorder struct {
	recorder  datarecording.DataRecorder
	tableName string
}

// NewTransitionRecorder creates a recorder writing into the given table.
func NewTransitionRecorder(
	recorder datarecording.DataRecorder,
	tableName string,
) *TransitionRecorder {
	r := &TransitionRecorder{
		recorder:  recorder,
		tableName: tableName,
	}

	recorder.CreateTable(tableName, TransitionRecord{})

	return r
}

// AttachTo registers the recorder as a transition hook of the unit.
func (r *TransitionRecorder) AttachTo(n *sirs.Neuron) {
	n.AcceptHook(r)
}

// Func records the transition carried by the hook context. Contexts from
// other hook positions are ignored.
func (r *TransitionRecorder) Func(ctx sim.HookCtx) {
	if ctx.Pos != sirs.HookPosStateTransition {
		return
	}

	transition := ctx.Item.(sirs.Transition)
	unit := ctx.Domain.(sim.Named)

	r.recorder.InsertData(r.tableName, TransitionRecord{
		Time:         float64(transition.Time),
		Unit:         unit.Name(),
		From:         int(transition.From),
		To:           int(transition.To),
		Multiplicity: transition.Multiplicity,
	})
}
