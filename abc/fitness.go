package abc

import (
	"fmt"
	"math"
	"strings"
)

// Mode selects whether a colony minimizes or maximizes the objective.
type Mode int

const (
	Minimize Mode = iota
	Maximize
)

func (m Mode) String() string {
	switch m {
	case Minimize:
		return "minimize"
	case Maximize:
		return "maximize"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

func (m Mode) valid() bool { return m == Minimize || m == Maximize }

func (m Mode) MarshalText() ([]byte, error) {
	if !m.valid() {
		return nil, fmt.Errorf("abc: invalid mode %d", int(m))
	}
	return []byte(m.String()), nil
}

func (m *Mode) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "min", "minimize", "minimise":
		*m = Minimize
	case "max", "maximize", "maximise":
		*m = Maximize
	default:
		return fmt.Errorf("abc: unknown mode %q", text)
	}
	return nil
}

// Fitness maps an objective value onto a strictly positive desirability
// score where larger is always better regardless of mode.  The onlooker
// roulette needs positive weights, hence the piecewise form around zero.
func Fitness(v float64, mode Mode) float64 {
	if mode == Maximize {
		if v >= 0 {
			return 1 + v
		}
		return 1 / (1 + math.Abs(v))
	}

	if v >= 0 {
		return 1 / (1 + v)
	}
	return 1 + math.Abs(v)
}
