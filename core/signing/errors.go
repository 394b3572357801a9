// Copyright (c) 2026 Releasesign Team
// Releasesign - release signing configuration resolver
// This source code is licensed under the MIT license found in the LICENSE file.

package signing

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingSource matches every MissingSourceError.
	ErrMissingSource = errors.New("signing credential source missing")
	// ErrMissingField matches every MissingFieldError.
	ErrMissingField = errors.New("signing credential field missing")
)

// MissingSourceError reports a credential source that does not exist or
// could not be read or parsed.
type MissingSourceError struct {
	Path  string
	Cause error
}

func (e *MissingSourceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("signing credential file %s is unusable: %v", e.Path, e.Cause)
	}
	return fmt.Sprintf("signing credential file %s not found", e.Path)
}

func (e *MissingSourceError) Is(target error) bool { return target == ErrMissingSource }

func (e *MissingSourceError) Unwrap() error { return e.Cause }

// MissingFieldError reports a required key that is absent or empty.
type MissingFieldError struct {
	Path  string
	Field Field
}

func (e *MissingFieldError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("required signing field %q is missing or empty", string(e.Field))
	}
	return fmt.Sprintf("required signing field %q is missing or empty in %s", string(e.Field), e.Path)
}

func (e *MissingFieldError) Is(target error) bool { return target == ErrMissingField }
