package sirs

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("stepAccumulator", func() {
	var a *stepAccumulator

	BeforeEach(func() {
		a = newStepAccumulator()
	})

	It("should sum the bins of one step", func() {
		a.Add(3, 0.5)
		a.Add(3, 0.25)

		Expect(a.Drain(3)).To(BeNumerically("~", 0.75, 1e-12))
	})

	It("should drain every bin through the given step", func() {
		a.Add(1, 1.0)
		a.Add(2, 2.0)
		a.Add(3, 4.0)

		Expect(a.Drain(3)).To(BeNumerically("~", 7.0, 1e-12))
	})

	It("should keep bins after the drain step", func() {
		a.Add(2, 1.0)
		a.Add(5, 8.0)

		Expect(a.Drain(3)).To(BeNumerically("~", 1.0, 1e-12))
		Expect(a.Drain(5)).To(BeNumerically("~", 8.0, 1e-12))
	})

	It("should not return drained values twice", func() {
		a.Add(2, 1.0)

		Expect(a.Drain(3)).To(BeNumerically("~", 1.0, 1e-12))
		Expect(a.Drain(3)).To(BeNumerically("==", 0))
	})

	It("should drain a bin that tied with an earlier drain", func() {
		Expect(a.Drain(5)).To(BeNumerically("==", 0))

		a.Add(5, 1.0)

		Expect(a.Drain(12)).To(BeNumerically("~", 1.0, 1e-12))
		Expect(a.bins).To(BeEmpty())
	})

	It("should sample the value at the drain step only", func() {
		a.Add(2, 1.0)
		a.Add(3, 4.0)

		Expect(a.Sample(3)).To(BeNumerically("~", 4.0, 1e-12))
	})

	It("should clear the sampled window", func() {
		a.Add(2, 1.0)
		a.Add(3, 4.0)

		a.Sample(3)

		Expect(a.Drain(3)).To(BeNumerically("==", 0))
	})

	It("should clear", func() {
		a.Add(2, 1.0)

		a.Clear()

		Expect(a.Drain(10)).To(BeNumerically("==", 0))
	})
})
