// Package probing samples the observable quantities of units and records
// them for offline analysis.
package probing

import (
	"reflect"
	"sort"

	"github.com/sarchlab/sirsim/datarecording"
	"github.com/sarchlab/sirsim/sim"
)

// A Recordable exposes read-only numeric taps that can be polled at any
// time without perturbing the owner.
type Recordable interface {
	sim.Named

	Recordables() map[string]func() float64
}

// A Sample is one recorded reading of one tap.
type Sample struct {
	Time  float64
	Unit  string
	Field string
	Value float64
}

type sampleEvent struct {
	*sim.EventBase
}

func (e sampleEvent) IsSecondary() bool {
	return true
}

// A Multimeter polls the taps of the attached units at a fixed interval
// and writes the readings into a data recorder. Sampling happens as
// secondary events, so a reading taken at time t reflects all the
// re-evaluations committed at t.
type Multimeter struct {
	*sim.ComponentBase

	engine     sim.Engine
	resolution sim.Resolution
	interval   sim.VTimeInMs
	stopTime   sim.VTimeInMs
	recorder   datarecording.DataRecorder
	tableName  string

	targets []target
	started bool
}

type target struct {
	unit   string
	fields []string
	taps   map[string]func() float64
}

// Attach registers a unit to be sampled. Field names are sampled in sorted
// order so that the recorded rows are deterministic.
func (m *Multimeter) Attach(r Recordable) {
	m.Lock()
	defer m.Unlock()

	if m.started {
		panic("cannot attach to multimeter " + m.Name() + " after start")
	}

	taps := r.Recordables()

	fields := make([]string, 0, len(taps))
	for field := range taps {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	m.targets = append(m.targets, target{
		unit:   r.Name(),
		fields: fields,
		taps:   taps,
	})
}

// Start creates the recording table and schedules the first sample.
func (m *Multimeter) Start() {
	m.Lock()
	defer m.Unlock()

	if m.started {
		panic("multimeter " + m.Name() + " is already started")
	}
	m.started = true

	m.recorder.CreateTable(m.tableName, Sample{})

	m.scheduleSample(m.engine.CurrentTime())
}

// Handle records one reading of every attached tap.
func (m *Multimeter) Handle(e sim.Event) error {
	switch e := e.(type) {
	case sampleEvent:
		m.sample(e.Time())
	default:
		panic("cannot handle event of type " + reflect.TypeOf(e).String())
	}

	return nil
}

func (m *Multimeter) sample(now sim.VTimeInMs) {
	m.Lock()
	defer m.Unlock()

	for _, t := range m.targets {
		for _, field := range t.fields {
			m.recorder.InsertData(m.tableName, Sample{
				Time:  float64(now),
				Unit:  t.unit,
				Field: field,
				Value: t.taps[field](),
			})
		}
	}

	m.scheduleSample(now)
}

func (m *Multimeter) scheduleSample(now sim.VTimeInMs) {
	next := m.resolution.ThisStep(now + m.interval)
	if m.stopTime > 0 && next > m.stopTime {
		return
	}

	m.engine.Schedule(sampleEvent{
		EventBase: sim.NewEventBase(next, m),
	})
}

// NotifyRecv does nothing. The multimeter polls; it has no inbound links.
func (m *Multimeter) NotifyRecv(_ sim.Port) {
}

// NotifyPortFree does nothing.
func (m *Multimeter) NotifyPortFree(_ sim.Port) {
}

// MultimeterBuilder can build multimeters.
type MultimeterBuilder struct {
	engine     sim.Engine
	resolution sim.Resolution
	interval   sim.VTimeInMs
	stopTime   sim.VTimeInMs
	recorder   datarecording.DataRecorder
	tableName  string
}

// MakeMultimeterBuilder returns a builder with the default resolution, a
// sampling interval of 1 ms, and the table name "samples".
func MakeMultimeterBuilder() MultimeterBuilder {
	return MultimeterBuilder{
		resolution: sim.DefaultResolution,
		interval:   1.0,
		tableName:  "samples",
	}
}

// WithEngine sets the engine that drives the sampling.
func (b MultimeterBuilder) WithEngine(engine sim.Engine) MultimeterBuilder {
	b.engine = engine
	return b
}

// WithResolution sets the step grid that sample times are aligned to.
func (b MultimeterBuilder) WithResolution(
	r sim.Resolution,
) MultimeterBuilder {
	b.resolution = r
	return b
}

// WithInterval sets the sampling interval in milliseconds.
func (b MultimeterBuilder) WithInterval(
	interval sim.VTimeInMs,
) MultimeterBuilder {
	b.interval = interval
	return b
}

// WithStopTime makes the multimeter stop sampling past the given time.
// Zero means no limit.
func (b MultimeterBuilder) WithStopTime(t sim.VTimeInMs) MultimeterBuilder {
	b.stopTime = t
	return b
}

// WithRecorder sets the data recorder that stores the samples.
func (b MultimeterBuilder) WithRecorder(
	recorder datarecording.DataRecorder,
) MultimeterBuilder {
	b.recorder = recorder
	return b
}

// WithTableName sets the name of the recording table.
func (b MultimeterBuilder) WithTableName(name string) MultimeterBuilder {
	b.tableName = name
	return b
}

// Build creates the multimeter.
func (b MultimeterBuilder) Build(name string) *Multimeter {
	if b.engine == nil {
		panic("multimeter " + name + " is built without an engine")
	}

	if b.recorder == nil {
		panic("multimeter " + name + " is built without a recorder")
	}

	if b.interval <= 0 {
		panic("multimeter " + name + " sampling interval must be positive")
	}

	m := &Multimeter{
		engine:     b.engine,
		resolution: b.resolution,
		interval:   b.interval,
		stopTime:   b.stopTime,
		recorder:   b.recorder,
		tableName:  b.tableName,
	}
	m.ComponentBase = sim.NewComponentBase(name)

	return m
}
