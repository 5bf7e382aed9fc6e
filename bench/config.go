package bench

import (
	"fmt"
	"os"

	"github.com/Baaaaam/optim/abc"
	"gopkg.in/yaml.v3"
)

// Output selects where run progress is recorded.  Empty fields disable
// the corresponding sink.
type Output struct {
	// Dump is a file name prefix; run k writes <Dump><k>.txt.
	Dump  string `yaml:"dump"`
	DB    string `yaml:"db"`
	Plot  string `yaml:"plot"`
	Redis string `yaml:"redis"`
	// Stream is the redis stream key.
	Stream string `yaml:"stream"`
}

// Config describes a benchmark session.
type Config struct {
	Func   string     `yaml:"func"`
	Dims   int        `yaml:"dims"`
	Runs   int        `yaml:"runs"`
	Tol    float64    `yaml:"tol"`
	Elite  int        `yaml:"elite"`
	Colony abc.Config `yaml:"colony"`
	Output Output     `yaml:"output"`
}

// DefaultConfig is 10 runs of a 20 bee colony on the 15 dimensional
// Rastrigin function.
func DefaultConfig() Config {
	return Config{
		Func: "rastrigin",
		Dims: 15,
		Runs: 10,
		Tol:  1e-6,
		Colony: abc.Config{
			ColonySize:  20,
			MaxIter:     2000,
			TrialsLimit: 100,
			Mode:        abc.Minimize,
		},
		Output: Output{Stream: "abc:progress"},
	}
}

// LoadConfig reads a yaml file over DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("bench: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Bench resolves the configured function.
func (cfg Config) Bench() (Func, error) { return ByName(cfg.Func, cfg.Dims) }
