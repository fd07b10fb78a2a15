package human

import (
	"encoding"
	"flag"
	"fmt"
	"strconv"

	yaml "gopkg.in/yaml.v3"
)

// Count represents a count without a unit, with support for short scale
// suffixes like "10 K" or "1.5M".
type Count float64

const (
	K Count = 1000
	M Count = 1000 * K
	G Count = 1000 * M
)

func ParseCount(s string) (Count, error) {
	value, unit := parseUnit(s)

	scale := Count(0)
	switch {
	case unit == "":
		scale = 1
	case match(unit, "K"):
		scale = K
	case match(unit, "M"):
		scale = M
	case match(unit, "G"):
		scale = G
	default:
		return 0, fmt.Errorf("malformed count representation: %q", s)
	}

	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed count representation: %q: %w", s, err)
	}
	return Count(f) * scale, nil
}

func (c Count) String() string {
	f := float64(c)
	abs := f
	if abs < 0 {
		abs = -abs
	}
	switch {
	case Count(abs) >= G:
		return ftoa(f, float64(G)) + "G"
	case Count(abs) >= M:
		return ftoa(f, float64(M)) + "M"
	case Count(abs) >= 10*K:
		return ftoa(f, float64(K)) + "K"
	default:
		return ftoa(f, 1)
	}
}

func (c *Count) Set(s string) error {
	p, err := ParseCount(s)
	if err != nil {
		return err
	}
	*c = p
	return nil
}

func (c Count) MarshalYAML() (any, error) {
	return float64(c), nil
}

func (c *Count) UnmarshalYAML(y *yaml.Node) error {
	if y.Kind != yaml.ScalarNode {
		return fmt.Errorf("cannot decode %v into a count", y.Kind)
	}
	return c.Set(y.Value)
}

func (c Count) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Count) UnmarshalText(t []byte) error {
	return c.Set(string(t))
}

var (
	_ fmt.Stringer = Count(0)

	_ yaml.Marshaler   = Count(0)
	_ yaml.Unmarshaler = (*Count)(nil)

	_ encoding.TextMarshaler   = Count(0)
	_ encoding.TextUnmarshaler = (*Count)(nil)

	_ flag.Value = (*Count)(nil)
)
