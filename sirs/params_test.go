package sirs

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Params", func() {
	It("should accept the defaults", func() {
		Expect(DefaultParams().Validate()).To(Succeed())
	})

	It("should reject a non-positive tau_m", func() {
		p := DefaultParams()
		p.TauM = 0
		Expect(p.Validate()).To(HaveOccurred())

		p.TauM = -1
		Expect(p.Validate()).To(HaveOccurred())

		p.TauM = math.NaN()
		Expect(p.Validate()).To(HaveOccurred())
	})

	It("should reject probabilities outside [0, 1]", func() {
		p := DefaultParams()
		p.Beta = 1.5
		Expect(p.Validate()).To(HaveOccurred())

		p = DefaultParams()
		p.Mu = -0.1
		Expect(p.Validate()).To(HaveOccurred())

		p = DefaultParams()
		p.Mu = math.NaN()
		Expect(p.Validate()).To(HaveOccurred())
	})

	It("should accept the probability boundaries", func() {
		p := DefaultParams()
		p.Beta = 0
		p.Mu = 1
		Expect(p.Validate()).To(Succeed())
	})
})
