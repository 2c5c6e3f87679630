package sim_test

import (
	"context"
	"errors"
	"math"
	"slices"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/physics"
	"github.com/san-kum/springsim/internal/sim"
)

type recorder struct {
	steps []int
}

func (r *recorder) OnStep(f dynamo.Frame) { r.steps = append(r.steps, f.Step) }

type counter struct{ n int }

func (c *counter) Name() string { return "count" }
func (c *counter) Observe(dynamo.Frame) { c.n++ }
func (c *counter) Value() float64 { return float64(c.n) }
func (c *counter) Reset() { c.n = 0 }

var _ = Describe("Simulator", func() {
	var cfg dynamo.Config

	BeforeEach(func() {
		cfg = dynamo.DefaultConfig()
	})

	Describe("construction", func() {
		It("scatters the initial particles around the center", func() {
			s, err := sim.New(cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.ActiveCount()).To(Equal(5))

			for i := range s.ActiveCount() {
				p, ok := s.Position(i)
				Expect(ok).To(BeTrue())
				Expect(p.X).To(BeNumerically("~", 0.5, 6*cfg.Noise))
				Expect(p.Y).To(BeNumerically("~", 0.5, 6*cfg.Noise))
			}
			_, ok := s.Position(5)
			Expect(ok).To(BeFalse())
		})

		It("rejects a non-positive mass", func() {
			cfg.Mass = 0
			_, err := sim.New(cfg)
			Expect(errors.Is(err, dynamo.ErrInvalidMass)).To(BeTrue())
		})

		It("rejects an initial count above capacity", func() {
			cfg.InitialCount = cfg.Capacity + 1
			_, err := sim.New(cfg)
			Expect(errors.Is(err, dynamo.ErrCapacityExceeded)).To(BeTrue())
		})

		It("rejects an unknown integrator", func() {
			cfg.Integrator = "leapfrog"
			_, err := sim.New(cfg)
			Expect(err).To(MatchError(ContainSubstring("unknown integrator")))
		})

		It("exposes the initial chain before the first step", func() {
			s, err := sim.New(cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(slices.Collect(s.Edges())).To(HaveLen(4))
		})
	})

	Describe("stepping", func() {
		It("advances time and step count", func() {
			s, err := sim.New(cfg)
			Expect(err).NotTo(HaveOccurred())

			Expect(s.Run(context.Background(), 10)).To(Succeed())
			Expect(s.Steps()).To(Equal(10))
			Expect(s.Time()).To(BeNumerically("~", 10*cfg.Dt, 1e-12))
		})

		It("keeps a two particle chain finite for 1000 steps", func() {
			cfg.InitialCount = 2
			cfg.Capacity = 2
			s, err := sim.New(cfg)
			Expect(err).NotTo(HaveOccurred())

			Expect(s.Run(context.Background(), 1000)).To(Succeed())
			Expect(s.Particles().Valid()).To(BeTrue())
			for i := range 2 {
				p, _ := s.Position(i)
				Expect(p.Y).To(BeNumerically(">=", cfg.GroundHeight))
			}
		})

		It("settles every particle on or above the ground", func() {
			s, err := sim.New(cfg)
			Expect(err).NotTo(HaveOccurred())

			Expect(s.Run(context.Background(), 500)).To(Succeed())
			for i := range s.ActiveCount() {
				p, _ := s.Position(i)
				Expect(p.Y).To(BeNumerically(">=", cfg.GroundHeight))
			}
			Expect(s.Contacts()).To(BeNumerically(">", 0))
		})

		It("drops a single particle in free fall", func() {
			cfg.InitialCount = 1
			cfg.Noise = 0
			s, err := sim.New(cfg)
			Expect(err).NotTo(HaveOccurred())

			Expect(s.Step()).To(Succeed())
			p, _ := s.Position(0)
			v := s.Particles().Vel[0]
			Expect(v.Y).To(BeNumerically("~", -cfg.Gravity*cfg.Dt, 1e-12))
			Expect(p.Y).To(BeNumerically("~", 0.5+v.Y*cfg.Dt, 1e-12))
			Expect(p.X).To(BeNumerically("~", 0.5, 1e-12))
		})

		It("is deterministic for a given seed", func() {
			a, err := sim.New(cfg)
			Expect(err).NotTo(HaveOccurred())
			b, err := sim.New(cfg)
			Expect(err).NotTo(HaveOccurred())

			Expect(a.Run(context.Background(), 100)).To(Succeed())
			Expect(b.Run(context.Background(), 100)).To(Succeed())
			Expect(a.Frame().Pos).To(Equal(b.Frame().Pos))
		})

		It("reports non-finite state as a simulation error", func() {
			s, err := sim.New(cfg)
			Expect(err).NotTo(HaveOccurred())
			s.Particles().Vel[0] = dynamo.V(math.Inf(1), 0)

			err = s.Step()
			var simErr *dynamo.SimulationError
			Expect(errors.As(err, &simErr)).To(BeTrue())
			Expect(simErr.Step).To(Equal(1))
			Expect(errors.Is(err, dynamo.ErrInvalidState)).To(BeTrue())
		})

		It("skips validation when disabled", func() {
			cfg.ValidateState = false
			s, err := sim.New(cfg)
			Expect(err).NotTo(HaveOccurred())
			s.Particles().Vel[0] = dynamo.V(math.NaN(), 0)
			Expect(s.Step()).To(Succeed())
		})

		It("rebuilds the same chain when positions are unchanged", func() {
			s, err := sim.New(cfg)
			Expect(err).NotTo(HaveOccurred())

			first := slices.Collect(s.Edges())
			for range 3 {
				Expect(s.Reset()).To(Succeed())
				Expect(slices.Collect(s.Edges())).To(Equal(first))
			}
		})
	})

	Describe("appending", func() {
		It("keeps a new particle unlinked for exactly one step", func() {
			cfg.Noise = 0
			s, err := sim.New(cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Step()).To(Succeed())

			at := dynamo.V(0.9, 0.8)
			Expect(s.RequestAppend(at)).To(Succeed())
			Expect(s.ActiveCount()).To(Equal(6))
			Expect(slices.Collect(s.Edges())).To(HaveLen(4))

			Expect(s.Step()).To(Succeed())
			p, _ := s.Position(5)
			v := s.Particles().Vel[5]
			Expect(p.X).To(BeNumerically("~", at.X, 1e-12))
			Expect(v.Y).To(BeNumerically("~", -cfg.Gravity*cfg.Dt, 1e-12))
			Expect(slices.ContainsFunc(slices.Collect(s.Edges()), func(e physics.Edge) bool {
				return e.I == 5 || e.J == 5
			})).To(BeFalse())

			Expect(s.Step()).To(Succeed())
			Expect(slices.Collect(s.Edges())).To(ContainElement(HaveField("J", 5)))
		})

		It("rejects appends beyond capacity without changing the count", func() {
			cfg.Capacity = 5
			s, err := sim.New(cfg)
			Expect(err).NotTo(HaveOccurred())

			err = s.RequestAppend(dynamo.V(0.2, 0.2))
			Expect(errors.Is(err, dynamo.ErrCapacityExceeded)).To(BeTrue())
			Expect(s.ActiveCount()).To(Equal(5))
			Expect(s.Step()).To(Succeed())
		})

		It("forgets appended particles on reset", func() {
			s, err := sim.New(cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.RequestAppend(dynamo.V(0.1, 0.9))).To(Succeed())
			Expect(s.Reset()).To(Succeed())
			Expect(s.ActiveCount()).To(Equal(cfg.InitialCount))
			Expect(s.Steps()).To(BeZero())
		})
	})

	Describe("running", func() {
		It("stops when the context is cancelled", func() {
			s, err := sim.New(cfg)
			Expect(err).NotTo(HaveOccurred())

			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			Expect(s.Run(ctx, 100)).To(MatchError(context.Canceled))
			Expect(s.Steps()).To(BeZero())
		})

		It("stops when the callback returns false", func() {
			s, err := sim.New(cfg)
			Expect(err).NotTo(HaveOccurred())

			err = s.RunWithCallback(context.Background(), 100, func(s *sim.Simulator) bool {
				return s.Steps() < 7
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Steps()).To(Equal(7))
		})

		It("rejects a negative step count", func() {
			s, err := sim.New(cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(errors.Is(s.Run(context.Background(), -1), dynamo.ErrParameterBounds)).To(BeTrue())
		})

		It("feeds metrics and observers once per step", func() {
			s, err := sim.New(cfg)
			Expect(err).NotTo(HaveOccurred())
			rec := &recorder{}
			c := &counter{}
			s.AddObserver(rec)
			s.AddMetric(c)

			Expect(s.Run(context.Background(), 3)).To(Succeed())
			Expect(rec.steps).To(Equal([]int{1, 2, 3}))
			Expect(c.Value()).To(Equal(3.0))

			Expect(s.Reset()).To(Succeed())
			Expect(c.Value()).To(BeZero())
		})
	})

	Describe("parameters", func() {
		It("round-trips tunable parameters", func() {
			s, err := sim.New(cfg)
			Expect(err).NotTo(HaveOccurred())

			Expect(s.SetParam("stiffness", 42)).To(Succeed())
			Expect(s.SetParam("dt", 0.005)).To(Succeed())
			params := s.GetParams()
			Expect(params).To(HaveKeyWithValue("stiffness", 42.0))
			Expect(params).To(HaveKeyWithValue("dt", 0.005))
			Expect(s.Config().Stiffness).To(Equal(42.0))
		})

		It("rejects out of range and unknown parameters", func() {
			s, err := sim.New(cfg)
			Expect(err).NotTo(HaveOccurred())

			Expect(errors.Is(s.SetParam("dt", 0), dynamo.ErrParameterBounds)).To(BeTrue())
			Expect(errors.Is(s.SetParam("gravity", -1), dynamo.ErrParameterBounds)).To(BeTrue())
			Expect(s.SetParam("viscosity", 1)).To(MatchError(ContainSubstring("unknown param")))
		})

		DescribeTable("rejects non-finite values and keeps the old one",
			func(name string, value float64) {
				s, err := sim.New(cfg)
				Expect(err).NotTo(HaveOccurred())
				before := s.GetParams()[name]

				Expect(errors.Is(s.SetParam(name, value), dynamo.ErrParameterBounds)).To(BeTrue())
				Expect(s.GetParams()).To(HaveKeyWithValue(name, before))
				Expect(s.Step()).To(Succeed())
			},
			Entry("NaN dt", "dt", math.NaN()),
			Entry("infinite dt", "dt", math.Inf(1)),
			Entry("NaN stiffness", "stiffness", math.NaN()),
			Entry("infinite rest length", "rest_length", math.Inf(1)),
			Entry("NaN gravity", "gravity", math.NaN()),
			Entry("NaN ground", "ground", math.NaN()),
			Entry("negative infinite ground", "ground", math.Inf(-1)),
		)

		It("accepts a ground below zero and restores it", func() {
			low := cfg
			low.GroundHeight = -0.5
			s, err := sim.New(low)
			Expect(err).NotTo(HaveOccurred())

			for name, v := range s.GetParams() {
				Expect(s.SetParam(name, v)).To(Succeed(), name)
			}
			Expect(s.SetParam("ground", -1)).To(Succeed())
			Expect(s.GetParams()).To(HaveKeyWithValue("ground", -1.0))
		})
	})
})

var _ = Describe("Ensemble", func() {
	It("runs every integrator from the same seed", func() {
		var configs []dynamo.Config
		for _, name := range []string{"euler", "symplectic", "rk4"} {
			cfg := dynamo.DefaultConfig()
			cfg.Integrator = name
			configs = append(configs, cfg)
		}

		e := sim.NewEnsemble(configs, func() []dynamo.Metric {
			return []dynamo.Metric{&counter{}}
		})
		outcomes, err := e.Run(context.Background(), 50)
		Expect(err).NotTo(HaveOccurred())
		Expect(outcomes).To(HaveLen(3))

		for i, out := range outcomes {
			Expect(out.Err).NotTo(HaveOccurred())
			Expect(out.Sim.Integrator()).To(Equal(configs[i].Integrator))
			Expect(out.Metrics).To(HaveKeyWithValue("count", 50.0))
		}
	})

	It("reports construction failures per member", func() {
		bad := dynamo.DefaultConfig()
		bad.Mass = -1
		outcomes, err := sim.NewEnsemble([]dynamo.Config{dynamo.DefaultConfig(), bad}, nil).
			Run(context.Background(), 5)
		Expect(err).NotTo(HaveOccurred())
		Expect(outcomes[0].Err).NotTo(HaveOccurred())
		Expect(errors.Is(outcomes[1].Err, dynamo.ErrInvalidMass)).To(BeTrue())
	})
})
