package main

import (
	"fmt"
	"math/rand"

	"github.com/spf13/cobra"

	"github.com/sarchlab/sirsim/datarecording"
	"github.com/sarchlab/sirsim/monitoring"
	"github.com/sarchlab/sirsim/network"
	"github.com/sarchlab/sirsim/probing"
	"github.com/sarchlab/sirsim/sim"
	"github.com/sarchlab/sirsim/sirs"
	"github.com/sarchlab/sirsim/stimulus"
)

var flags = struct {
	numUnits        int
	connectProb     float64
	weight          float64
	delay           float64
	tauM            float64
	beta            float64
	mu              float64
	gain            string
	sigmoidSlope    float64
	sigmoidOffset   float64
	seed            int64
	duration        float64
	initialInfected int

	poisson        bool
	poissonMeanOn  float64
	poissonMeanOff float64
	poissonWeight  float64

	dcAmplitude float64
	dcStart     float64
	dcStop      float64

	record         string
	sampleInterval float64

	monitor     bool
	monitorPort int
	openBrowser bool

	parallel bool
}{}

var rootCmd = &cobra.Command{
	Use:   "sirsim",
	Short: "Simulate epidemics on networks of stochastic three-state units",
	Long: `sirsim builds a random directed network of stochastic
susceptible-infected-recovered-susceptible units and simulates the
epidemic dynamics with a discrete-event engine. Unit trajectories and
state transitions are recorded into a SQLite database.`,
	RunE: func(_ *cobra.Command, _ []string) error {
		return run()
	},
	SilenceUsage: true,
}

//nolint:funlen
func init() {
	f := rootCmd.Flags()

	f.IntVar(&flags.numUnits, "units", 100,
		"number of units in the network")
	f.Float64Var(&flags.connectProb, "connect-prob", 0.1,
		"probability of a spike link between each ordered pair of units")
	f.Float64Var(&flags.weight, "weight", 0.1,
		"weight of the links between units")
	f.Float64Var(&flags.delay, "delay", 0.1,
		"delivery delay of the links in ms")
	f.Float64Var(&flags.tauM, "tau-m", 10.0,
		"mean interval between unit re-evaluations in ms")
	f.Float64Var(&flags.beta, "beta", 1.0,
		"infection probability scale")
	f.Float64Var(&flags.mu, "mu", 1.0,
		"recovery probability per re-evaluation")
	f.StringVar(&flags.gain, "gain", "linear",
		"gain function, linear or sigmoid")
	f.Float64Var(&flags.sigmoidSlope, "sigmoid-slope", 1.0,
		"slope of the sigmoid gain")
	f.Float64Var(&flags.sigmoidOffset, "sigmoid-offset", 0.0,
		"input offset of the sigmoid gain")
	f.Int64Var(&flags.seed, "seed", 1,
		"random seed of the simulation")
	f.Float64Var(&flags.duration, "duration", 1000.0,
		"simulated duration in ms")
	f.IntVar(&flags.initialInfected, "initial-infected", 1,
		"number of units starting in the infected state")

	f.BoolVar(&flags.poisson, "poisson", false,
		"drive the units with a random telegraph spike source")
	f.Float64Var(&flags.poissonMeanOn, "poisson-mean-on", 10.0,
		"mean on-phase duration of the telegraph source in ms")
	f.Float64Var(&flags.poissonMeanOff, "poisson-mean-off", 10.0,
		"mean off-phase duration of the telegraph source in ms")
	f.Float64Var(&flags.poissonWeight, "poisson-weight", 1.0,
		"weight of the links from the telegraph source")

	f.Float64Var(&flags.dcAmplitude, "dc-amplitude", 0.0,
		"amplitude of the DC drive, 0 disables it")
	f.Float64Var(&flags.dcStart, "dc-start", 0.0,
		"start of the DC drive window in ms")
	f.Float64Var(&flags.dcStop, "dc-stop", 0.0,
		"end of the DC drive window in ms, 0 means the full duration")

	f.StringVar(&flags.record, "record", "",
		"path of the recording database, a random name when empty")
	f.Float64Var(&flags.sampleInterval, "sample-interval", 1.0,
		"state sampling interval in ms")

	f.BoolVar(&flags.monitor, "monitor", false,
		"serve the monitoring API while the simulation runs")
	f.IntVar(&flags.monitorPort, "monitor-port", 0,
		"port of the monitoring server, random when 0")
	f.BoolVar(&flags.openBrowser, "open-browser", false,
		"open the monitoring page in a browser")

	f.BoolVar(&flags.parallel, "parallel", false,
		"use the parallel event engine")
}

type simulation struct {
	engine     sim.Engine
	fabric     *network.Fabric
	units      []*sirs.Neuron
	generators []interface{ Start() }
	multimeter *probing.Multimeter
	recorder   datarecording.DataRecorder
	monitor    *monitoring.Monitor
}

func run() error {
	s, err := buildSimulation()
	if err != nil {
		return err
	}

	for _, u := range s.units {
		u.Start()
	}

	for _, g := range s.generators {
		g.Start()
	}

	s.multimeter.Start()

	if s.monitor != nil {
		s.monitor.StartServer(flags.openBrowser)
	}

	if err := s.engine.Run(); err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}

	s.engine.Finished()
	printSummary(s)

	return nil
}

func buildSimulation() (*simulation, error) {
	params := sirs.Params{
		TauM: flags.tauM,
		Beta: flags.beta,
		Mu:   flags.mu,
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	gain, err := gainFromFlags()
	if err != nil {
		return nil, err
	}

	if flags.initialInfected > flags.numUnits {
		return nil, fmt.Errorf(
			"cannot infect %d of %d units",
			flags.initialInfected, flags.numUnits)
	}

	s := &simulation{}

	s.engine = makeEngine()

	s.fabric = network.MakeBuilder().
		WithEngine(s.engine).
		Build("Fabric")

	s.buildUnits(params, gain)

	if err := s.connectUnits(); err != nil {
		return nil, err
	}

	if err := s.buildStimuli(); err != nil {
		return nil, err
	}

	s.buildRecording()
	s.buildMonitor()

	return s, nil
}

// makeEngine selects the event engine. The parallel engine hands out
// message IDs from multiple goroutines, so it needs the concurrency-safe
// generator, chosen before the first ID is generated.
func makeEngine() sim.Engine {
	if flags.parallel {
		sim.UseParallelIDGenerator()
		return sim.NewParallelEngine()
	}

	return sim.NewSerialEngine()
}

func (s *simulation) buildUnits(params sirs.Params, gain sirs.GainFunc) {
	for i := 0; i < flags.numUnits; i++ {
		unit := sirs.MakeBuilder().
			WithEngine(s.engine).
			WithRand(rand.New(rand.NewSource(flags.seed + int64(i)))).
			WithParams(params).
			WithGain(gain).
			WithStopTime(sim.VTimeInMs(flags.duration)).
			Build(sim.BuildNameWithIndex("", "Unit", i))

		if i < flags.initialInfected {
			err := unit.SetStatus(map[string]any{
				sirs.StatusY: int(sirs.Infected),
			})
			if err != nil {
				panic(err)
			}
		}

		s.fabric.PlugIn(unit.InPort)
		s.fabric.PlugIn(unit.OutPort)

		s.units = append(s.units, unit)
	}
}

func (s *simulation) connectUnits() error {
	rng := rand.New(rand.NewSource(flags.seed))

	for i, src := range s.units {
		for j, dst := range s.units {
			if i == j {
				continue
			}

			if rng.Float64() >= flags.connectProb {
				continue
			}

			err := s.fabric.Connect(src.OutPort, dst.InPort,
				network.LinkParams{
					Kind:   sim.SpikeSignal,
					Weight: flags.weight,
					Delay:  sim.VTimeInMs(flags.delay),
				})
			if err != nil {
				return err
			}
		}
	}

	return nil
}

func (s *simulation) buildStimuli() error {
	if flags.poisson {
		gen := stimulus.MakePoissonGeneratorBuilder().
			WithEngine(s.engine).
			WithRand(rand.New(rand.NewSource(flags.seed - 1))).
			WithMeanOnTime(sim.VTimeInMs(flags.poissonMeanOn)).
			WithMeanOffTime(sim.VTimeInMs(flags.poissonMeanOff)).
			WithStopTime(sim.VTimeInMs(flags.duration)).
			Build("Telegraph")

		s.fabric.PlugIn(gen.OutPort)

		for _, unit := range s.units {
			err := s.fabric.Connect(gen.OutPort, unit.InPort,
				network.LinkParams{
					Kind:   sim.SpikeSignal,
					Weight: flags.poissonWeight,
					Delay:  sim.VTimeInMs(flags.delay),
				})
			if err != nil {
				return err
			}
		}

		s.generators = append(s.generators, gen)
	}

	if flags.dcAmplitude != 0 {
		stop := flags.dcStop
		if stop == 0 {
			stop = flags.duration
		}

		gen := stimulus.MakeDCGeneratorBuilder().
			WithEngine(s.engine).
			WithAmplitude(flags.dcAmplitude).
			WithWindow(sim.VTimeInMs(flags.dcStart), sim.VTimeInMs(stop)).
			Build("DC")

		s.fabric.PlugIn(gen.OutPort)

		for _, unit := range s.units {
			err := s.fabric.Connect(gen.OutPort, unit.InPort,
				network.LinkParams{
					Kind:   sim.CurrentSignal,
					Weight: 1.0,
					Delay:  sim.VTimeInMs(flags.delay),
				})
			if err != nil {
				return err
			}
		}

		s.generators = append(s.generators, gen)
	}

	return nil
}

type recorderFlusher struct {
	recorder datarecording.DataRecorder
}

func (f recorderFlusher) Handle(_ sim.VTimeInMs) {
	f.recorder.Flush()
}

func (s *simulation) buildRecording() {
	s.recorder = datarecording.New(flags.record)
	s.engine.RegisterSimulationEndHandler(recorderFlusher{s.recorder})

	s.multimeter = probing.MakeMultimeterBuilder().
		WithEngine(s.engine).
		WithInterval(sim.VTimeInMs(flags.sampleInterval)).
		WithStopTime(sim.VTimeInMs(flags.duration)).
		WithRecorder(s.recorder).
		Build("Multimeter")

	transitions := probing.NewTransitionRecorder(s.recorder, "transitions")

	for _, unit := range s.units {
		s.multimeter.Attach(unit)
		transitions.AttachTo(unit)
	}
}

func (s *simulation) buildMonitor() {
	if !flags.monitor {
		return
	}

	s.monitor = monitoring.NewMonitor()
	s.monitor.WithPortNumber(flags.monitorPort)
	s.monitor.RegisterEngine(s.engine)
	s.monitor.RegisterComponent(s.fabric)

	for _, unit := range s.units {
		s.monitor.RegisterComponent(unit)
	}
}

func gainFromFlags() (sirs.GainFunc, error) {
	switch flags.gain {
	case "linear":
		return sirs.LinearGain, nil
	case "sigmoid":
		return sirs.NewSigmoidGain(
			flags.sigmoidSlope, flags.sigmoidOffset), nil
	default:
		return nil, fmt.Errorf(
			"unknown gain function %q, use linear or sigmoid", flags.gain)
	}
}

func printSummary(s *simulation) {
	counts := map[sirs.State]int{}
	for _, unit := range s.units {
		y, _ := unit.Probe()
		counts[y]++
	}

	fmt.Printf("Simulated %d units for %.1f ms\n",
		len(s.units), flags.duration)
	fmt.Printf("Final states: %d susceptible, %d infected, %d recovered\n",
		counts[sirs.Susceptible], counts[sirs.Infected],
		counts[sirs.Recovered])
}
