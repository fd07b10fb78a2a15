package human

import (
	"encoding"
	"flag"
	"fmt"
	"math"
	"strconv"

	yaml "gopkg.in/yaml.v3"
)

// Bytes represents a number of bytes.
//
// The type supports parsing values expressed in factors of 1000 (KB, MB, ...)
// or factors of 1024 (KiB, MiB, ...); formatting always uses factors of 1024.
type Bytes uint64

const (
	B Bytes = 1

	KB Bytes = 1000 * B
	MB Bytes = 1000 * KB
	GB Bytes = 1000 * MB
	TB Bytes = 1000 * GB

	KiB Bytes = 1024 * B
	MiB Bytes = 1024 * KiB
	GiB Bytes = 1024 * MiB
	TiB Bytes = 1024 * GiB
)

func ParseBytes(s string) (Bytes, error) {
	value, unit := parseUnit(s)

	scale := Bytes(0)
	switch {
	case unit == "", match(unit, "B"):
		scale = B
	case match(unit, "KiB"):
		scale = KiB
	case match(unit, "MiB"):
		scale = MiB
	case match(unit, "GiB"):
		scale = GiB
	case match(unit, "TiB"):
		scale = TiB
	case match(unit, "KB"):
		scale = KB
	case match(unit, "MB"):
		scale = MB
	case match(unit, "GB"):
		scale = GB
	case match(unit, "TB"):
		scale = TB
	default:
		return 0, fmt.Errorf("malformed bytes representation: %q", s)
	}

	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed bytes representation: %q: %w", s, err)
	}
	if f < 0 {
		return 0, fmt.Errorf("invalid negative byte count: %q", s)
	}
	return Bytes(math.Floor(f * float64(scale))), nil
}

var byteUnits = [...]struct {
	scale Bytes
	unit  string
}{
	{TiB, "TiB"},
	{GiB, "GiB"},
	{MiB, "MiB"},
	{KiB, "KiB"},
	{B, "B"},
}

func (b Bytes) String() string {
	for _, u := range byteUnits {
		if b >= u.scale {
			return ftoa(float64(b), float64(u.scale)) + " " + u.unit
		}
	}
	return "0"
}

func (b *Bytes) Set(s string) error {
	p, err := ParseBytes(s)
	if err != nil {
		return err
	}
	*b = p
	return nil
}

func (b Bytes) MarshalYAML() (any, error) {
	return b.String(), nil
}

func (b *Bytes) UnmarshalYAML(y *yaml.Node) error {
	if y.Kind != yaml.ScalarNode {
		return fmt.Errorf("cannot decode %v into a byte count", y.Kind)
	}
	return b.Set(y.Value)
}

func (b Bytes) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

func (b *Bytes) UnmarshalText(t []byte) error {
	return b.Set(string(t))
}

var (
	_ fmt.Stringer = Bytes(0)

	_ yaml.Marshaler   = Bytes(0)
	_ yaml.Unmarshaler = (*Bytes)(nil)

	_ encoding.TextMarshaler   = Bytes(0)
	_ encoding.TextUnmarshaler = (*Bytes)(nil)

	_ flag.Value = (*Bytes)(nil)
)
