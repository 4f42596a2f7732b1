package sirs

import (
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/sirsim/network"
	"github.com/sarchlab/sirsim/sim"
)

var _ = Describe("Epidemic propagation", func() {
	It("should travel along a chain of units", func() {
		engine := sim.NewSerialEngine()

		fabric := network.MakeBuilder().
			WithEngine(engine).
			Build("Fabric")

		params := Params{TauM: 0.5, Beta: 1.0, Mu: 0.0}

		units := make([]*Neuron, 3)
		for i := range units {
			units[i] = MakeBuilder().
				WithEngine(engine).
				WithRand(rand.New(rand.NewSource(int64(i) + 1))).
				WithParams(params).
				WithStopTime(100).
				Build(sim.BuildNameWithIndex("", "Unit", i))

			fabric.PlugIn(units[i].InPort)
			fabric.PlugIn(units[i].OutPort)
		}

		for i := 0; i < len(units)-1; i++ {
			Expect(fabric.Connect(
				units[i].OutPort, units[i+1].InPort,
				network.LinkParams{
					Kind:   sim.SpikeSignal,
					Weight: 5.0,
					Delay:  0.1,
				})).To(Succeed())
		}

		// The saturating drive makes the seed unit transition at its first
		// re-evaluation with probability one. Each downstream unit sees a
		// weighted input of 5, so the infection hops the whole chain.
		Expect(units[0].SetStatus(map[string]any{StatusH: 5.0})).
			To(Succeed())

		for _, u := range units {
			u.Start()
		}

		Expect(engine.Run()).To(Succeed())

		for _, u := range units {
			y, _ := u.Probe()
			Expect(y).To(Equal(Infected))
		}
	})
})
