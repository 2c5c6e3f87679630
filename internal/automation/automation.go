package automation

import (
	"context"
	"fmt"
	"log"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/springsim/internal/config"
	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/experiment"
	"github.com/san-kum/springsim/internal/metrics"
)

// Scenario defines a scripted simulation sequence
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is a single run in a scenario: a preset plus overrides.
type ScenarioStep struct {
	Preset     string                `yaml:"preset"`
	Integrator string                `yaml:"integrator"`
	Steps      int                   `yaml:"steps"`
	Dt         float64               `yaml:"dt"`
	Seed       int64                 `yaml:"seed"`
	Params     map[string]float64    `yaml:"params"`
	Appends    []config.AppendConfig `yaml:"appends"`
	SaveAs     string                `yaml:"save_as"`
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %s has no steps", path)
	}

	return &scenario, nil
}

// Config resolves the step into a full configuration.
func (s ScenarioStep) Config() (*config.Config, error) {
	name := s.Preset
	if name == "" {
		name = "default"
	}
	cfg := config.GetPreset(name)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset: %s", name)
	}

	if s.Integrator != "" {
		cfg.Integrator = s.Integrator
	}
	if s.Steps > 0 {
		cfg.Steps = s.Steps
	}
	if s.Dt > 0 {
		cfg.Dt = s.Dt
	}
	if s.Seed != 0 {
		cfg.Seed = s.Seed
	}
	cfg.Appends = append(cfg.Appends, s.Appends...)
	return cfg, nil
}

// ScenarioRun pairs a step's resolved config with its result.
type ScenarioRun struct {
	Name   string
	Config *config.Config
	Result *dynamo.Result
}

// RunScenario executes all steps in a scenario
func RunScenario(ctx context.Context, scenario *Scenario, registry *experiment.Registry) ([]ScenarioRun, error) {
	runs := make([]ScenarioRun, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		log.Printf("scenario %s: step %d/%d (%s)", scenario.Name, i+1, len(scenario.Steps), step.Preset)

		cfg, err := step.Config()
		if err != nil {
			return runs, fmt.Errorf("step %d: %w", i+1, err)
		}

		exp, err := experiment.New(cfg)
		if err != nil {
			return runs, fmt.Errorf("step %d setup: %w", i+1, err)
		}

		// Apply params through the simulator so they are range checked
		s := exp.GetSimulator()
		for k, v := range step.Params {
			if err := s.SetParam(k, v); err != nil {
				return runs, fmt.Errorf("step %d: %w", i+1, err)
			}
		}
		exp.Setup(registry.DefaultMetrics())

		result, err := exp.Run(ctx)
		if err != nil {
			return runs, fmt.Errorf("step %d run: %w", i+1, err)
		}

		name := step.SaveAs
		if name == "" {
			name = fmt.Sprintf("%s_%d", scenario.Name, i+1)
		}
		runs = append(runs, ScenarioRun{Name: name, Config: cfg, Result: result})
	}

	return runs, nil
}

// ParameterSweep runs simulations across a range of parameter values
type ParameterSweep struct {
	Base      *config.Config
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
}

// SweepResult holds results from a parameter sweep
type SweepResult struct {
	ParamValue  float64
	FinalHeight float64
	MaxEnergy   float64
	MinEnergy   float64
	Err         error
}

// RunSweep executes a parameter sweep. A run that blows up is recorded with
// its error instead of aborting the sweep.
func RunSweep(ctx context.Context, sweep *ParameterSweep) ([]SweepResult, error) {
	if sweep.NumSteps < 2 {
		return nil, fmt.Errorf("%w: sweep needs at least 2 steps, got %d", dynamo.ErrParameterBounds, sweep.NumSteps)
	}

	results := make([]SweepResult, 0, sweep.NumSteps)
	paramStep := (sweep.ParamMax - sweep.ParamMin) / float64(sweep.NumSteps-1)

	for i := 0; i < sweep.NumSteps; i++ {
		paramVal := sweep.ParamMin + float64(i)*paramStep

		exp, err := experiment.New(sweep.Base)
		if err != nil {
			return nil, err
		}
		if err := exp.GetSimulator().SetParam(sweep.ParamName, paramVal); err != nil {
			return nil, err
		}

		result, err := exp.Run(ctx)
		if ctx.Err() != nil {
			return results, ctx.Err()
		}

		sr := SweepResult{ParamValue: paramVal, Err: err}
		if n := len(result.Frames); n > 0 {
			sr.FinalHeight = metrics.MeanHeight(result.Frames[n-1].Pos)
			sr.MinEnergy, sr.MaxEnergy = math.Inf(1), math.Inf(-1)
			for _, f := range result.Frames {
				e := f.Energy()
				sr.MinEnergy = math.Min(sr.MinEnergy, e)
				sr.MaxEnergy = math.Max(sr.MaxEnergy, e)
			}
		}
		results = append(results, sr)

		log.Printf("sweep %d/%d: %s=%.4f", i+1, sweep.NumSteps, sweep.ParamName, paramVal)
	}

	return results, nil
}

// MonteCarloConfig varies the seed of a base configuration.
type MonteCarloConfig struct {
	Base      *config.Config
	NumTrials int
	Seed      int64
}

// MonteCarloResult holds one trial's outcome
type MonteCarloResult struct {
	TrialID     int
	Seed        int64
	FinalHeight float64
	Stable      bool // every frame stayed finite and bounded
}

// RunMonteCarlo executes one trial per seed in [Seed, Seed+NumTrials).
func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig) ([]MonteCarloResult, error) {
	results := make([]MonteCarloResult, 0, cfg.NumTrials)

	for trial := 0; trial < cfg.NumTrials; trial++ {
		trialCfg := cfg.Base.Clone()
		trialCfg.Seed = cfg.Seed + int64(trial)

		exp, err := experiment.New(trialCfg)
		if err != nil {
			return nil, err
		}
		stability := metrics.NewStability(experiment.StabilityBound)
		exp.Setup([]dynamo.Metric{stability})

		result, err := exp.Run(ctx)
		if ctx.Err() != nil {
			return results, ctx.Err()
		}

		mc := MonteCarloResult{
			TrialID: trial,
			Seed:    trialCfg.Seed,
			Stable:  err == nil && stability.Value() == 1,
		}
		if n := len(result.Frames); n > 0 {
			mc.FinalHeight = metrics.MeanHeight(result.Frames[n-1].Pos)
		}
		results = append(results, mc)

		if (trial+1)%10 == 0 {
			log.Printf("monte carlo: %d/%d trials complete", trial+1, cfg.NumTrials)
		}
	}

	return results, nil
}

// MonteCarloStats computes summary statistics from Monte Carlo results
func MonteCarloStats(results []MonteCarloResult) (stableCount int, unstableCount int) {
	for _, r := range results {
		if r.Stable {
			stableCount++
		} else {
			unstableCount++
		}
	}
	return
}
