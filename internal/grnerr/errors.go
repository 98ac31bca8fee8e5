// Package grnerr defines the error kinds surfaced by grnexport and maps them
// to exit codes and fatal-message prefixes.
package grnerr

import (
	"context"
	"errors"
	"fmt"
)

// ConfigError reports an invalid or unmapped configuration value.
type ConfigError struct {
	Field string
	Value string
	Err   error
}

func (e *ConfigError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("%s %q: %v", e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// IOError reports a missing, unreadable or unwritable file.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string { return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err) }

func (e *IOError) Unwrap() error { return e.Err }

// SchemaError reports a table that is absent, lacks a required column, or
// carries a value that does not parse as the column's type.
type SchemaError struct {
	Table  string
	Column string // empty when the whole table is absent
	Detail string
}

func (e *SchemaError) Error() string {
	switch {
	case e.Column == "" && e.Detail == "":
		return fmt.Sprintf("table %s is missing", e.Table)
	case e.Column == "":
		return fmt.Sprintf("table %s: %s", e.Table, e.Detail)
	case e.Detail == "":
		return fmt.Sprintf("table %s: missing column %q", e.Table, e.Column)
	default:
		return fmt.Sprintf("table %s: column %q: %s", e.Table, e.Column, e.Detail)
	}
}

// InferenceError wraps a failure raised by the inference engine.
type InferenceError struct {
	Err error
}

func (e *InferenceError) Error() string { return "inference failed: " + e.Err.Error() }

func (e *InferenceError) Unwrap() error { return e.Err }

// SecondaryError is a failure in a stage that ran after a recovered
// inference failure. It keeps the original inference error and the
// checkpoint path so the two are never confused in diagnostics.
type SecondaryError struct {
	Stage      string
	Err        error
	Inference  error
	Checkpoint string
}

func (e *SecondaryError) Error() string {
	if e.Checkpoint == "" {
		return fmt.Sprintf("%s: %v (original %v; no checkpoint written)", e.Stage, e.Err, e.Inference)
	}
	return fmt.Sprintf("%s: %v (original %v; model checkpointed to %s)", e.Stage, e.Err, e.Inference, e.Checkpoint)
}

func (e *SecondaryError) Unwrap() error { return e.Err }

// Kind classifies an error for exit codes and fatal messages.
type Kind int

const (
	KindNone Kind = iota
	KindOther
	KindConfig
	KindIO
	KindSchema
	KindInference
	KindSecondary
	KindCanceled
)

// KindOf returns the most specific kind found in err's chain. A secondary
// failure wins over whatever it wraps.
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}
	var (
		sec *SecondaryError
		cfg *ConfigError
		sch *SchemaError
		ioe *IOError
		inf *InferenceError
	)
	switch {
	case errors.As(err, &sec):
		return KindSecondary
	case errors.Is(err, context.Canceled):
		return KindCanceled
	case errors.As(err, &cfg):
		return KindConfig
	case errors.As(err, &sch):
		return KindSchema
	case errors.As(err, &ioe):
		return KindIO
	case errors.As(err, &inf):
		return KindInference
	}
	return KindOther
}

// Prefix is the leading text of a fatal diagnostic for this kind.
func (k Kind) Prefix() string {
	switch k {
	case KindConfig:
		return "configuration error:"
	case KindIO:
		return "I/O error:"
	case KindSchema:
		return "schema error:"
	case KindInference:
		return "inference error:"
	case KindSecondary:
		return "secondary failure after inference error:"
	case KindCanceled:
		return "canceled:"
	}
	return "error:"
}

// ExitCode maps err to the process exit status.
func ExitCode(err error) int {
	switch KindOf(err) {
	case KindNone:
		return 0
	case KindConfig:
		return 2
	case KindIO:
		return 3
	case KindSchema:
		return 4
	case KindSecondary:
		return 5
	case KindCanceled:
		return 130
	}
	return 1
}
