// Copyright (c) 2026 Releasesign Team
// Releasesign - release signing configuration resolver
// This source code is licensed under the MIT license found in the LICENSE file.

package signing

import "fmt"

// State is the terminal state of one resolution.
type State int

const (
	Unresolved State = iota
	Resolved
	MissingSource
	MissingField
)

func (s State) String() string {
	switch s {
	case Unresolved:
		return "unresolved"
	case Resolved:
		return "resolved"
	case MissingSource:
		return "missing-source"
	case MissingField:
		return "missing-field"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Outcome is the tagged result of Resolver.Resolve. Bundle is only set when
// State is Resolved, Field only when State is MissingField.
type Outcome struct {
	State  State
	Mode   Mode
	Source string
	Field  Field
	Cause  error
	Bundle *Bundle
}

// Fatal reports whether the caller must abort the release build.
func (o Outcome) Fatal() bool {
	return o.State != Resolved && o.Mode == Strict
}

// Err returns nil for a resolved outcome and a typed error otherwise.
func (o Outcome) Err() error {
	switch o.State {
	case Resolved:
		return nil
	case MissingSource:
		return &MissingSourceError{Path: o.Source, Cause: o.Cause}
	case MissingField:
		return &MissingFieldError{Path: o.Source, Field: o.Field}
	default:
		return fmt.Errorf("signing credentials for %s were not resolved", o.Source)
	}
}

func (o Outcome) String() string {
	if o.State == Resolved && o.Bundle != nil {
		return fmt.Sprintf("resolved (%s): keystore %s, alias %s", o.Mode, o.Bundle.KeystorePath(), o.Bundle.KeyAlias())
	}
	severity := "non-fatal"
	if o.Fatal() {
		severity = "fatal"
	}
	return fmt.Sprintf("%s (%s, %s): %v", o.State, o.Mode, severity, o.Err())
}

// Report is the serialisable summary of an Outcome used by the CLI.
type Report struct {
	State  State       `json:"state" yaml:"state"`
	Mode   Mode        `json:"mode" yaml:"mode"`
	Fatal  bool        `json:"fatal" yaml:"fatal"`
	Source string      `json:"source" yaml:"source"`
	Field  Field       `json:"field,omitempty" yaml:"field,omitempty"`
	Error  string      `json:"error,omitempty" yaml:"error,omitempty"`
	Bundle *BundleView `json:"bundle,omitempty" yaml:"bundle,omitempty"`
}

// Report builds the redacted summary of o.
func (o Outcome) Report() Report {
	r := Report{
		State:  o.State,
		Mode:   o.Mode,
		Fatal:  o.Fatal(),
		Source: o.Source,
		Field:  o.Field,
	}
	if err := o.Err(); err != nil {
		r.Error = err.Error()
	}
	if o.Bundle != nil {
		v := o.Bundle.View()
		r.Bundle = &v
	}
	return r
}
