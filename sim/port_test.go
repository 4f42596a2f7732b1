package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	gomock "go.uber.org/mock/gomock"
)

var _ = Describe("DefaultPort", func() {
	var (
		mockController *gomock.Controller
		comp           *MockComponent
		conn           *MockConnection
		port           *defaultPort
	)

	BeforeEach(func() {
		mockController = gomock.NewController(GinkgoT())
		comp = NewMockComponent(mockController)
		conn = NewMockConnection(mockController)
		conn.EXPECT().Name().Return("Conn").AnyTimes()
		port = NewPort(comp, 4, 4, "Port", SpikeSignal).(*defaultPort)
		port.SetConnection(conn)
	})

	AfterEach(func() {
		mockController.Finish()
	})

	It("should return component", func() {
		Expect(port.Component()).To(BeIdenticalTo(comp))
	})

	It("should return name", func() {
		Expect(port.Name()).To(Equal("Port"))
	})

	It("should set connection", func() {
		Expect(port.conn).To(BeIdenticalTo(conn))
		Expect(port.IsConnected()).To(BeTrue())
	})

	It("should report the kinds it accepts", func() {
		Expect(port.Accepts(SpikeSignal)).To(BeTrue())
		Expect(port.Accepts(CurrentSignal)).To(BeFalse())
		Expect(port.Kinds()).To(Equal([]SignalKind{SpikeSignal}))
	})

	It("should panic if port is not msg src", func() {
		msg := SpikeMsgBuilder{}.Build()

		Expect(func() { port.Send(msg) }).To(Panic())
	})

	It("should panic if msg src is the same as dst", func() {
		msg := SpikeMsgBuilder{}.
			WithSrc(port.AsRemote()).
			WithDst(port.AsRemote()).
			Build()

		Expect(func() { port.Send(msg) }).To(Panic())
	})

	It("should send with an empty dst", func() {
		msg := SpikeMsgBuilder{}.
			WithSrc(port.AsRemote()).
			Build()
		conn.EXPECT().NotifySend()

		err := port.Send(msg)

		Expect(err).To(BeNil())
		Expect(port.PeekOutgoing()).To(BeIdenticalTo(msg))
	})

	It("should send successfully", func() {
		dst := NewPort(comp, 4, 4, "DstPort", SpikeSignal)
		msg := SpikeMsgBuilder{}.
			WithSrc(port.AsRemote()).
			WithDst(dst.AsRemote()).
			Build()
		conn.EXPECT().NotifySend()

		err := port.Send(msg)

		Expect(err).To(BeNil())
		Expect(port.PeekOutgoing()).To(BeIdenticalTo(msg))
	})

	It("should propagate error when outgoing buf is full", func() {
		dst := NewPort(comp, 4, 4, "DstPort", SpikeSignal)
		msg := SpikeMsgBuilder{}.
			WithSrc(port.AsRemote()).
			WithDst(dst.AsRemote()).
			Build()

		port.outgoingBuf.Push(msg)
		port.outgoingBuf.Push(msg)
		port.outgoingBuf.Push(msg)
		port.outgoingBuf.Push(msg)

		errRet := port.Send(msg)

		Expect(errRet).NotTo(BeNil())
	})

	It("should deliver when successful", func() {
		msg := SpikeMsgBuilder{}.Build()

		comp.EXPECT().NotifyRecv(port)

		errRet := port.Deliver(msg)

		Expect(errRet).To(BeNil())
	})

	It("should fail to deliver when incoming buffer is full", func() {
		msg := SpikeMsgBuilder{}.Build()
		port.incomingBuf = NewBuffer("Buf", 4)
		port.incomingBuf.Push(msg)
		port.incomingBuf.Push(msg)
		port.incomingBuf.Push(msg)
		port.incomingBuf.Push(msg)

		errRet := port.Deliver(msg)

		Expect(errRet).NotTo(BeNil())
	})

	It("should return nil when peeking empty incoming buffer", func() {
		msg := port.PeekIncoming()

		Expect(msg).To(BeNil())
	})

	It("should allow component to peek message from incoming buffer", func() {
		msg := SpikeMsgBuilder{}.Build()
		port.incomingBuf.Push(msg)

		msgRet := port.PeekIncoming()

		Expect(msgRet).To(BeIdenticalTo(msg))
	})

	It("should return nil when retrieving empty incoming buffer", func() {
		msg := port.RetrieveIncoming()

		Expect(msg).To(BeNil())
	})

	It("should allow component to retrieve message from incoming buffer",
		func() {
			msg := SpikeMsgBuilder{}.Build()
			port.incomingBuf.Push(msg)

			msgRet := port.RetrieveIncoming()

			Expect(msgRet).To(BeIdenticalTo(msg))
		})

	It("should return nil when retrieving empty outgoing buffer", func() {
		msg := port.RetrieveOutgoing()

		Expect(msg).To(BeNil())
	})

	It("should allow connection to retrieve message from outgoing buffer",
		func() {
			msg := SpikeMsgBuilder{}.Build()
			port.outgoingBuf.Push(msg)

			msgRet := port.RetrieveOutgoing()

			Expect(msgRet).To(BeIdenticalTo(msg))
		})
})
