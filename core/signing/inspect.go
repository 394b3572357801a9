// Copyright (c) 2026 Releasesign Team
// Releasesign - release signing configuration resolver
// This source code is licensed under the MIT license found in the LICENSE file.

package signing

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/hashicorp/go-multierror"
)

// KeystoreError reports a keystore path that cannot be used.
type KeystoreError struct {
	Path  string
	Cause error
}

func (e *KeystoreError) Error() string {
	return fmt.Sprintf("keystore %s: %v", e.Path, e.Cause)
}

func (e *KeystoreError) Unwrap() error { return e.Cause }

// Inspection is the result of a full diagnostic pass over a source.
type Inspection struct {
	Source       string
	KeystorePath string
	Problems     *multierror.Error
	Warnings     []string
}

// Err returns the aggregated problems or nil.
func (i Inspection) Err() error { return i.Problems.ErrorOrNil() }

// OK reports whether no problem was found. Warnings do not count.
func (i Inspection) OK() bool { return i.Err() == nil }

// Magic prefixes of the keystore formats Android build tools accept.
var (
	jksMagic   = []byte{0xFE, 0xED, 0xFE, 0xED}
	jceksMagic = []byte{0xCE, 0xCE, 0xCE, 0xCE}
)

// Inspect reports every problem of the source at once instead of stopping
// at the first one: each missing field, an unusable keystore file and, as
// warnings, unknown keys. It never emits diagnostics and does not change
// what Resolve returns.
func (r *Resolver) Inspect(source string) Inspection {
	ins := Inspection{Source: source}

	props, err := loadSource(r.fs, source)
	if err != nil {
		mse := &MissingSourceError{Path: source}
		if !errors.Is(err, fs.ErrNotExist) {
			mse.Cause = err
		}
		ins.Problems = multierror.Append(ins.Problems, mse)
		return ins
	}

	known := make(map[string]bool, len(RequiredFields))
	for _, field := range RequiredFields {
		known[string(field)] = true
		if _, ok := lookup(props, field); !ok {
			ins.Problems = multierror.Append(ins.Problems, &MissingFieldError{Path: source, Field: field})
		}
	}

	if storeFile, ok := lookup(props, FieldStoreFile); ok {
		ins.KeystorePath = r.KeystorePath(storeFile)
		warning, err := r.checkKeystore(ins.KeystorePath)
		if err != nil {
			ins.Problems = multierror.Append(ins.Problems, &KeystoreError{Path: ins.KeystorePath, Cause: err})
		}
		if warning != "" {
			ins.Warnings = append(ins.Warnings, warning)
		}
	}

	for _, key := range props.Keys() {
		if !known[key] {
			ins.Warnings = append(ins.Warnings, fmt.Sprintf("unknown key %q is ignored", key))
		}
	}
	return ins
}

func (r *Resolver) checkKeystore(path string) (string, error) {
	f, err := r.fs.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", errors.New("file does not exist")
		}
		return "", err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return "", errors.New("is a directory")
	}
	if info.Size() == 0 {
		return "", errors.New("file is empty")
	}

	head := make([]byte, 4)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return "", err
	}
	return sniffKeystore(head[:n], path), nil
}

// sniffKeystore returns a warning when head matches none of JKS, JCEKS or
// PKCS#12 (a DER SEQUENCE).
func sniffKeystore(head []byte, path string) string {
	switch {
	case bytes.HasPrefix(head, jksMagic), bytes.HasPrefix(head, jceksMagic):
		return ""
	case len(head) > 0 && head[0] == 0x30:
		return ""
	default:
		return fmt.Sprintf("%s does not look like a JKS, JCEKS or PKCS#12 keystore", path)
	}
}
