package stimulus

import (
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/sirsim/sim"
)

// captureConn collects everything a port sends.
type captureConn struct {
	port sim.Port
	msgs []sim.Msg
}

func (c *captureConn) Name() string { return "CaptureConn" }

func (c *captureConn) AcceptHook(_ sim.Hook) {}

func (c *captureConn) PlugIn(port sim.Port) {
	c.port = port
	port.SetConnection(c)
}

func (c *captureConn) Unplug(_ sim.Port) {}

func (c *captureConn) NotifyAvailable(_ sim.Port) {}

func (c *captureConn) NotifySend() {
	for {
		msg := c.port.RetrieveOutgoing()
		if msg == nil {
			return
		}

		c.msgs = append(c.msgs, msg)
	}
}

var _ = Describe("PoissonGenerator", func() {
	var (
		engine *sim.SerialEngine
		conn   *captureConn
		gen    *PoissonGenerator
	)

	BeforeEach(func() {
		engine = sim.NewSerialEngine()
		gen = MakePoissonGeneratorBuilder().
			WithEngine(engine).
			WithRand(rand.New(rand.NewSource(1))).
			WithMeanOnTime(2.0).
			WithMeanOffTime(2.0).
			WithStopTime(100).
			Build("Telegraph")

		conn = &captureConn{}
		conn.PlugIn(gen.OutPort)
	})

	It("should alternate up and down spikes", func() {
		gen.Start()
		Expect(engine.Run()).To(Succeed())

		Expect(len(conn.msgs)).To(BeNumerically(">", 2))

		want := sim.MultiplicityUp
		for _, m := range conn.msgs {
			spike := m.(*sim.SpikeMsg)
			Expect(spike.Multiplicity).To(Equal(want))
			Expect(spike.SenderID).To(Equal("Telegraph"))

			if want == sim.MultiplicityUp {
				want = sim.MultiplicityDown
			} else {
				want = sim.MultiplicityUp
			}
		}
	})

	It("should emit at strictly increasing times", func() {
		gen.Start()
		Expect(engine.Run()).To(Succeed())

		last := sim.VTimeInMs(-1)
		for _, m := range conn.msgs {
			Expect(m.Meta().SendTime).To(BeNumerically(">", last))
			last = m.Meta().SendTime
		}
	})

	It("should not emit past the stop time", func() {
		gen.Start()
		Expect(engine.Run()).To(Succeed())

		for _, m := range conn.msgs {
			Expect(m.Meta().SendTime).To(BeNumerically("<=", 100))
		}
	})

	It("should panic when started twice", func() {
		gen.Start()

		Expect(func() { gen.Start() }).To(Panic())
	})
})

var _ = Describe("DCGenerator", func() {
	It("should emit one sample per step within the window", func() {
		engine := sim.NewSerialEngine()
		gen := MakeDCGeneratorBuilder().
			WithEngine(engine).
			WithAmplitude(2.5).
			WithWindow(0, 1.0).
			Build("DC")

		conn := &captureConn{}
		conn.PlugIn(gen.OutPort)

		gen.Start()
		Expect(engine.Run()).To(Succeed())

		Expect(conn.msgs).To(HaveLen(10))
		for i, m := range conn.msgs {
			current := m.(*sim.CurrentMsg)
			Expect(current.Amplitude).To(BeNumerically("==", 2.5))
			Expect(current.SendTime).To(
				BeNumerically("~", float64(i)*0.1, 1e-9))
		}
	})

	It("should stay silent before the window opens", func() {
		engine := sim.NewSerialEngine()
		gen := MakeDCGeneratorBuilder().
			WithEngine(engine).
			WithAmplitude(1.0).
			WithWindow(0.5, 1.0).
			Build("DC")

		conn := &captureConn{}
		conn.PlugIn(gen.OutPort)

		gen.Start()
		Expect(engine.Run()).To(Succeed())

		Expect(conn.msgs).To(HaveLen(5))
		Expect(conn.msgs[0].Meta().SendTime).To(
			BeNumerically("~", 0.5, 1e-9))
	})

	It("should panic on an empty window", func() {
		Expect(func() {
			MakeDCGeneratorBuilder().
				WithEngine(sim.NewSerialEngine()).
				WithWindow(1.0, 1.0).
				Build("DC")
		}).To(Panic())
	})
})
