package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Naming", func() {
	It("should accept valid names", func() {
		Expect(func() { NameMustBeValid("Unit[3]") }).NotTo(Panic())
		Expect(func() { NameMustBeValid("Network.Unit[3].InPort") }).
			NotTo(Panic())
	})

	It("should reject invalid names", func() {
		Expect(func() { NameMustBeValid("unit") }).To(Panic())
		Expect(func() { NameMustBeValid("Unit.") }).To(Panic())
		Expect(func() { NameMustBeValid("Unit..Port") }).To(Panic())
		Expect(func() { NameMustBeValid("Unit[3") }).To(Panic())
		Expect(func() { NameMustBeValid("My_Unit") }).To(Panic())
	})

	It("should build names", func() {
		Expect(BuildName("", "Unit")).To(Equal("Unit"))
		Expect(BuildName("Network", "Unit")).To(Equal("Network.Unit"))
		Expect(BuildNameWithIndex("Network", "Unit", 3)).
			To(Equal("Network.Unit[3]"))
	})

	It("should parse names", func() {
		name := ParseName("Network.Unit[3].InPort")

		Expect(name.Tokens).To(HaveLen(3))
		Expect(name.Tokens[1].ElemName).To(Equal("Unit"))
		Expect(name.Tokens[1].Index).To(Equal([]int{3}))
	})
})
