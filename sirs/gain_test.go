package sirs

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("GainFunc", func() {
	Context("linear gain", func() {
		It("should be the clamped identity", func() {
			Expect(LinearGain(-1)).To(BeNumerically("==", 0))
			Expect(LinearGain(0)).To(BeNumerically("==", 0))
			Expect(LinearGain(0.3)).To(BeNumerically("~", 0.3, 1e-12))
			Expect(LinearGain(1)).To(BeNumerically("==", 1))
			Expect(LinearGain(5)).To(BeNumerically("==", 1))
		})
	})

	Context("sigmoid gain", func() {
		It("should be 0.5 at the offset", func() {
			g := NewSigmoidGain(2.0, 1.5)
			Expect(g(1.5)).To(BeNumerically("~", 0.5, 1e-12))
		})

		It("should increase monotonically", func() {
			g := NewSigmoidGain(1.0, 0.0)

			prev := g(-5.0)
			for h := -4.5; h <= 5.0; h += 0.5 {
				v := g(h)
				Expect(v).To(BeNumerically(">", prev))
				prev = v
			}
		})

		It("should stay within [0, 1]", func() {
			g := NewSigmoidGain(10.0, 0.0)
			Expect(g(-100)).To(BeNumerically(">=", 0))
			Expect(g(100)).To(BeNumerically("<=", 1))
		})

		It("should activate without input", func() {
			g := NewSigmoidGain(1.0, 0.0)
			Expect(g(0)).To(BeNumerically(">", 0))
		})
	})
})
