package parser

import (
	"errors"
	"fmt"
)

var ErrSourceUnavailable = errors.New("source unavailable")

var (
	ErrUnknownKey       = errors.New("unknown key")
	ErrMissingSeparator = errors.New("missing tab separator")
	ErrInvalidValue     = errors.New("invalid value")
	ErrMissingName      = errors.New("game without a name")
	ErrOutsideRecord    = errors.New("field outside of a game")
)

type Kind int

const (
	KindUnknownKey Kind = iota + 1
	KindMissingSeparator
	KindInvalidValue
	KindMissingName
	KindOutsideRecord
)

var kinds = []struct {
	kind Kind
	name string
	err  error
}{
	{KindUnknownKey, "unknown_key", ErrUnknownKey},
	{KindMissingSeparator, "missing_separator", ErrMissingSeparator},
	{KindInvalidValue, "invalid_value", ErrInvalidValue},
	{KindMissingName, "missing_name", ErrMissingName},
	{KindOutsideRecord, "outside_record", ErrOutsideRecord},
}

func (k Kind) String() string {
	for _, e := range kinds {
		if e.kind == k {
			return e.name
		}
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

func (k Kind) Err() error {
	for _, e := range kinds {
		if e.kind == k {
			return e.err
		}
	}
	return nil
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(b []byte) error {
	for _, e := range kinds {
		if e.name == string(b) {
			*k = e.kind
			return nil
		}
	}
	return fmt.Errorf("unknown diagnostic kind %q", string(b))
}

// Diagnostic describes one malformed line. It satisfies error and unwraps to
// the sentinel of its Kind.
type Diagnostic struct {
	Line    int    `json:"line"`
	Content string `json:"content"`
	Key     string `json:"key,omitempty"`
	Kind    Kind   `json:"kind"`
	Detail  string `json:"detail,omitempty"`
}

func (d Diagnostic) Error() string {
	msg := fmt.Sprintf("line %d: %v", d.Line, d.Kind.Err())
	if d.Key != "" {
		msg += fmt.Sprintf(" %q", d.Key)
	}
	if d.Detail != "" {
		msg += ": " + d.Detail
	}
	return msg
}

func (d Diagnostic) Unwrap() error {
	return d.Kind.Err()
}
