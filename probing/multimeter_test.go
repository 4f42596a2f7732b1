package probing

import (
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/sirsim/sim"
	"github.com/sarchlab/sirsim/sirs"
)

// memoryRecorder keeps the inserted rows in memory.
type memoryRecorder struct {
	tables map[string][]any
}

func newMemoryRecorder() *memoryRecorder {
	return &memoryRecorder{tables: make(map[string][]any)}
}

func (r *memoryRecorder) CreateTable(tableName string, _ any) {
	r.tables[tableName] = []any{}
}

func (r *memoryRecorder) InsertData(tableName string, entry any) {
	r.tables[tableName] = append(r.tables[tableName], entry)
}

func (r *memoryRecorder) ListTables() []string {
	tables := make([]string, 0, len(r.tables))
	for t := range r.tables {
		tables = append(tables, t)
	}

	return tables
}

func (r *memoryRecorder) Flush() {}

// fakeUnit exposes two taps with fixed values.
type fakeUnit struct {
	name string
	b, a float64
}

func (u *fakeUnit) Name() string { return u.name }

func (u *fakeUnit) Recordables() map[string]func() float64 {
	return map[string]func() float64{
		"b": func() float64 { return u.b },
		"a": func() float64 { return u.a },
	}
}

var _ = Describe("Multimeter", func() {
	var (
		engine   *sim.SerialEngine
		recorder *memoryRecorder
		meter    *Multimeter
	)

	BeforeEach(func() {
		engine = sim.NewSerialEngine()
		recorder = newMemoryRecorder()
		meter = MakeMultimeterBuilder().
			WithEngine(engine).
			WithInterval(1.0).
			WithStopTime(5.0).
			WithRecorder(recorder).
			Build("Multimeter")
	})

	It("should sample all taps at the configured interval", func() {
		meter.Attach(&fakeUnit{name: "Unit", b: 2.0, a: 1.0})

		meter.Start()
		Expect(engine.Run()).To(Succeed())

		rows := recorder.tables["samples"]
		Expect(rows).To(HaveLen(10))

		first := rows[0].(Sample)
		Expect(first.Time).To(BeNumerically("~", 1.0, 1e-9))
		Expect(first.Unit).To(Equal("Unit"))
		Expect(first.Field).To(Equal("a"))
		Expect(first.Value).To(BeNumerically("==", 1.0))

		second := rows[1].(Sample)
		Expect(second.Field).To(Equal("b"))
		Expect(second.Value).To(BeNumerically("==", 2.0))

		last := rows[9].(Sample)
		Expect(last.Time).To(BeNumerically("~", 5.0, 1e-9))
	})

	It("should sample multiple units", func() {
		meter.Attach(&fakeUnit{name: "U1", b: 1, a: 1})
		meter.Attach(&fakeUnit{name: "U2", b: 2, a: 2})

		meter.Start()
		Expect(engine.Run()).To(Succeed())

		rows := recorder.tables["samples"]
		Expect(rows).To(HaveLen(20))
	})

	It("should refuse to attach after start", func() {
		meter.Start()

		Expect(func() {
			meter.Attach(&fakeUnit{name: "Late"})
		}).To(Panic())
	})

	It("should panic when built without a recorder", func() {
		Expect(func() {
			MakeMultimeterBuilder().
				WithEngine(engine).
				Build("Broken")
		}).To(Panic())
	})

	It("should sample a live unit", func() {
		unit := sirs.MakeBuilder().
			WithEngine(engine).
			WithRand(rand.New(rand.NewSource(1))).
			WithStopTime(5.0).
			Build("Unit")
		Expect(unit.SetStatus(map[string]any{"h": 1.5})).To(Succeed())

		meter.Attach(unit)

		unit.Start()
		meter.Start()
		Expect(engine.Run()).To(Succeed())

		rows := recorder.tables["samples"]
		Expect(rows).NotTo(BeEmpty())

		hRow := rows[0].(Sample)
		Expect(hRow.Field).To(Equal("h"))
		Expect(hRow.Value).To(BeNumerically("==", 1.5))
	})
})

var _ = Describe("TransitionRecorder", func() {
	It("should record transitions", func() {
		recorder := newMemoryRecorder()
		tr := NewTransitionRecorder(recorder, "transitions")

		engine := sim.NewSerialEngine()
		unit := sirs.MakeBuilder().
			WithEngine(engine).
			WithRand(rand.New(rand.NewSource(1))).
			Build("Unit")
		tr.AttachTo(unit)

		tr.Func(sim.HookCtx{
			Domain: unit,
			Pos:    sirs.HookPosStateTransition,
			Item: sirs.Transition{
				From:         sirs.Susceptible,
				To:           sirs.Infected,
				Multiplicity: sim.MultiplicityUp,
				Time:         1.5,
			},
		})

		rows := recorder.tables["transitions"]
		Expect(rows).To(HaveLen(1))

		record := rows[0].(TransitionRecord)
		Expect(record.Unit).To(Equal("Unit"))
		Expect(record.From).To(Equal(int(sirs.Susceptible)))
		Expect(record.To).To(Equal(int(sirs.Infected)))
		Expect(record.Multiplicity).To(Equal(sim.MultiplicityUp))
		Expect(record.Time).To(BeNumerically("~", 1.5, 1e-12))
	})

	It("should ignore other hook positions", func() {
		recorder := newMemoryRecorder()
		tr := NewTransitionRecorder(recorder, "transitions")

		tr.Func(sim.HookCtx{Pos: sim.HookPosBeforeEvent})

		Expect(recorder.tables["transitions"]).To(BeEmpty())
	})
})
