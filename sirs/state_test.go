package sirs

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("State", func() {
	It("should cycle", func() {
		Expect(Susceptible.next()).To(Equal(Infected))
		Expect(Infected.next()).To(Equal(Recovered))
		Expect(Recovered.next()).To(Equal(Susceptible))
	})

	It("should validate", func() {
		Expect(Susceptible.Valid()).To(BeTrue())
		Expect(Infected.Valid()).To(BeTrue())
		Expect(Recovered.Valid()).To(BeTrue())
		Expect(State(-1).Valid()).To(BeFalse())
		Expect(State(3).Valid()).To(BeFalse())
	})

	It("should have names", func() {
		Expect(Susceptible.String()).To(Equal("Susceptible"))
		Expect(Infected.String()).To(Equal("Infected"))
		Expect(Recovered.String()).To(Equal("Recovered"))
		Expect(State(7).String()).To(Equal("Invalid"))
	})
})
