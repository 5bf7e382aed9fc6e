package abc

import (
	"fmt"
	"math"

	"github.com/Baaaaam/optim"
)

// DefaultMaxAttempts caps rejection sampling when Config.MaxAttempts is zero.
const DefaultMaxAttempts = 100000

// Config holds the parameters of a colony.  Dims, ColonySize, MaxIter,
// TrialsLimit and the bounds are required.
type Config struct {
	Dims int `yaml:"dims"`
	// ColonySize is the number of employed plus onlooker bees.  The number
	// of food sources is ColonySize/2.
	ColonySize int `yaml:"colony_size"`
	MaxIter    int `yaml:"max_iter"`
	// TrialsLimit is the number of failed improvements after which a food
	// source is abandoned by the scout.
	TrialsLimit int       `yaml:"trials_limit"`
	Lower       []float64 `yaml:"lower"`
	Upper       []float64 `yaml:"upper"`
	Mode        Mode      `yaml:"mode"`
	// MaxAttempts caps the redraws made while searching for a feasible
	// position.  Zero means DefaultMaxAttempts and a negative value
	// disables the cap.
	MaxAttempts int `yaml:"max_attempts"`
	// Seed seeds the colony's random source.  Zero seeds from the clock.
	Seed uint64 `yaml:"seed"`
}

// NFoods returns the number of food sources a colony built from cfg has.
func (cfg Config) NFoods() int { return cfg.ColonySize / 2 }

// ConfigError describes an invalid Config field.  It wraps
// optim.ErrInvalidConfig.
type ConfigError struct {
	Field string
	Msg   string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("abc: invalid config: %s: %s", e.Field, e.Msg)
}

func (e *ConfigError) Unwrap() error { return optim.ErrInvalidConfig }

func invalid(field, format string, args ...interface{}) *ConfigError {
	return &ConfigError{Field: field, Msg: fmt.Sprintf(format, args...)}
}

// Validate checks cfg and returns a *ConfigError for the first problem
// found.
func (cfg Config) Validate() error {
	switch {
	case cfg.Dims <= 0:
		return invalid("Dims", "must be positive, got %v", cfg.Dims)
	case len(cfg.Lower) != cfg.Dims:
		return invalid("Lower", "has %v entries, want %v", len(cfg.Lower), cfg.Dims)
	case len(cfg.Upper) != cfg.Dims:
		return invalid("Upper", "has %v entries, want %v", len(cfg.Upper), cfg.Dims)
	case cfg.NFoods() < 2:
		return invalid("ColonySize", "must be at least 4 so every food source has a partner, got %v", cfg.ColonySize)
	case cfg.MaxIter <= 0:
		return invalid("MaxIter", "must be positive, got %v", cfg.MaxIter)
	case cfg.TrialsLimit <= 0:
		return invalid("TrialsLimit", "must be positive, got %v", cfg.TrialsLimit)
	case !cfg.Mode.valid():
		return invalid("Mode", "unknown mode %v", int(cfg.Mode))
	}

	for i := range cfg.Lower {
		l, u := cfg.Lower[i], cfg.Upper[i]
		if math.IsNaN(l) || math.IsInf(l, 0) || math.IsNaN(u) || math.IsInf(u, 0) {
			return invalid("Lower/Upper", "dimension %v bounds [%v, %v] are not finite", i, l, u)
		} else if l > u {
			return invalid("Lower/Upper", "dimension %v lower bound %v exceeds upper bound %v", i, l, u)
		}
	}
	return nil
}

func (cfg Config) maxAttempts() int {
	if cfg.MaxAttempts == 0 {
		return DefaultMaxAttempts
	} else if cfg.MaxAttempts < 0 {
		return 0
	}
	return cfg.MaxAttempts
}
