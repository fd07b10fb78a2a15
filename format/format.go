// Package format declares the data types shared by the echotrace commands
// and the exchange trace log.
package format

import (
	"unicode/utf8"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// UUID wraps uuid.UUID so the canonical text form is used consistently in
// json and yaml output (yaml.v3 does not consult encoding.TextMarshaler).
type UUID uuid.UUID

func NewUUID() UUID {
	return UUID(uuid.New())
}

func ParseUUID(s string) (UUID, error) {
	u, err := uuid.Parse(s)
	return UUID(u), err
}

func (u UUID) String() string {
	return uuid.UUID(u).String()
}

func (u UUID) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

func (u *UUID) UnmarshalText(b []byte) error {
	v, err := uuid.ParseBytes(b)
	if err != nil {
		return err
	}
	*u = UUID(v)
	return nil
}

func (u UUID) MarshalYAML() (any, error) {
	return u.String(), nil
}

func (u *UUID) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	v, err := uuid.Parse(s)
	if err != nil {
		return err
	}
	*u = UUID(v)
	return nil
}

// Bytes is a byte payload. In json it keeps the default base64 encoding of
// []byte, which round-trips arbitrary payloads through the trace log. The
// yaml form is display-only and renders valid UTF-8 as text.
type Bytes []byte

func (b Bytes) MarshalYAML() (any, error) {
	if utf8.Valid(b) {
		return string(b), nil
	}
	return []byte(b), nil
}

func (b *Bytes) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return node.Decode((*[]byte)(b))
	}
	*b = Bytes(s)
	return nil
}
