package monitoring

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/sirsim/sim"
)

// fakeEngine records the control calls the monitor makes.
type fakeEngine struct {
	now       sim.VTimeInMs
	paused    bool
	continued bool
}

func (e *fakeEngine) AcceptHook(_ sim.Hook) {}

func (e *fakeEngine) CurrentTime() sim.VTimeInMs { return e.now }

func (e *fakeEngine) Schedule(_ sim.Event) {}

func (e *fakeEngine) Run() error { return nil }

func (e *fakeEngine) Pause() { e.paused = true }

func (e *fakeEngine) Continue() { e.continued = true }

func (e *fakeEngine) Finished() {}

func (e *fakeEngine) RegisterSimulationEndHandler(
	_ sim.SimulationEndHandler,
) {
}

// statusComponent is a component that reports a status dictionary.
type statusComponent struct {
	*sim.ComponentBase
}

func (c *statusComponent) Handle(_ sim.Event) error { return nil }

func (c *statusComponent) NotifyRecv(_ sim.Port) {}

func (c *statusComponent) NotifyPortFree(_ sim.Port) {}

func (c *statusComponent) Status() map[string]any {
	return map[string]any{"y": 1, "h": 2.5}
}

var _ = Describe("Monitor", func() {
	var (
		engine *fakeEngine
		m      *Monitor
		server *httptest.Server
	)

	BeforeEach(func() {
		engine = &fakeEngine{now: 12.5}

		m = NewMonitor()
		m.RegisterEngine(engine)

		c := &statusComponent{
			ComponentBase: sim.NewComponentBase("Unit"),
		}
		m.RegisterComponent(c)

		server = httptest.NewServer(m.createRouter())
	})

	AfterEach(func() {
		server.Close()
	})

	get := func(path string) (int, string) {
		rsp, err := http.Get(server.URL + path)
		Expect(err).To(BeNil())
		defer rsp.Body.Close()

		body, err := io.ReadAll(rsp.Body)
		Expect(err).To(BeNil())

		return rsp.StatusCode, string(body)
	}

	It("should report the current time", func() {
		code, body := get("/api/now")

		Expect(code).To(Equal(http.StatusOK))
		Expect(body).To(ContainSubstring("\"now\":12.5"))
	})

	It("should pause and continue the engine", func() {
		get("/api/pause")
		Expect(engine.paused).To(BeTrue())

		get("/api/continue")
		Expect(engine.continued).To(BeTrue())
	})

	It("should list components", func() {
		code, body := get("/api/components")

		Expect(code).To(Equal(http.StatusOK))
		Expect(body).To(Equal("[\"Unit\"]"))
	})

	It("should report a component status", func() {
		code, body := get("/api/component/Unit")

		Expect(code).To(Equal(http.StatusOK))

		status := map[string]any{}
		Expect(json.Unmarshal([]byte(body), &status)).To(Succeed())
		Expect(status["y"]).To(BeNumerically("==", 1))
		Expect(status["h"]).To(BeNumerically("==", 2.5))
	})

	It("should 404 on unknown components", func() {
		code, _ := get("/api/component/Missing")

		Expect(code).To(Equal(http.StatusNotFound))
	})

	It("should list progress bars", func() {
		bar := m.CreateProgressBar("Simulated Time", 100)
		bar.IncrementFinished(40)

		code, body := get("/api/progress")

		Expect(code).To(Equal(http.StatusOK))

		bars := []map[string]any{}
		Expect(json.Unmarshal([]byte(body), &bars)).To(Succeed())
		Expect(bars).To(HaveLen(1))
		Expect(bars[0]["finished"]).To(BeNumerically("==", 40))

		m.CompleteProgressBar(bar)

		_, body = get("/api/progress")
		Expect(body).To(Equal("[]"))
	})
})
