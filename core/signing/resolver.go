// Copyright (c) 2026 Releasesign Team
// Releasesign - release signing configuration resolver
// This source code is licensed under the MIT license found in the LICENSE file.

package signing

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/reyden7/releasesign/core/security"
	"github.com/reyden7/releasesign/internal/i18n"
	"github.com/reyden7/releasesign/internal/logging"
)

// Warner receives the single diagnostic a permissive resolution may emit.
// *log.Logger from charmbracelet/log satisfies it.
type Warner interface {
	Warnf(format string, args ...any)
}

// WarnFunc adapts a plain function to Warner.
type WarnFunc func(format string, args ...any)

func (f WarnFunc) Warnf(format string, args ...any) { f(format, args...) }

// Resolver turns a credential source into an Outcome. It holds no state
// between calls; every Resolve re-reads the source.
type Resolver struct {
	baseDir string
	fs      afero.Fs
	diag    Warner
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithFs sets the filesystem the source and keystore are read from.
func WithFs(fsys afero.Fs) Option {
	return func(r *Resolver) { r.fs = fsys }
}

// WithDiagnostics sets where the permissive-mode warning goes.
func WithDiagnostics(w Warner) Option {
	return func(r *Resolver) { r.diag = w }
}

// NewResolver returns a Resolver that resolves relative keystore paths
// against baseDir (normally the module root of the build). A relative or
// empty baseDir is made absolute once, here, so later working directory
// changes do not move the keystore.
func NewResolver(baseDir string, opts ...Option) (*Resolver, error) {
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("could not resolve base directory %q: %w", baseDir, err)
	}
	r := &Resolver{
		baseDir: abs,
		fs:      afero.NewOsFs(),
		diag:    WarnFunc(logging.Warnf),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// BaseDir returns the directory relative keystore paths are resolved against.
func (r *Resolver) BaseDir() string { return r.baseDir }

// Resolve loads the credential source at source and validates it under mode.
func (r *Resolver) Resolve(source string, mode Mode) Outcome {
	out := Outcome{Mode: mode, Source: source}

	if _, err := r.fs.Stat(source); err != nil {
		out.State = MissingSource
		if !errors.Is(err, fs.ErrNotExist) {
			out.Cause = err
		}
		r.warnMissing(out)
		return out
	}

	props, err := loadSource(r.fs, source)
	if err != nil {
		out.State = MissingSource
		out.Cause = err
		r.warnMissing(out)
		return out
	}

	values := make(map[Field]string, len(RequiredFields))
	for _, field := range RequiredFields {
		v, ok := lookup(props, field)
		if !ok {
			out.State = MissingField
			out.Field = field
			return out
		}
		values[field] = v
	}

	bundle, err := NewBundle(
		r.KeystorePath(values[FieldStoreFile]),
		security.FromString(values[FieldStorePassword]),
		values[FieldKeyAlias],
		security.FromString(values[FieldKeyPassword]),
	)
	var mf *MissingFieldError
	if errors.As(err, &mf) {
		out.State = MissingField
		out.Field = mf.Field
		return out
	}

	out.State = Resolved
	out.Bundle = &bundle
	return out
}

// KeystorePath resolves storeFile against the resolver's base directory.
// Absolute paths are kept; forward slashes are accepted on every platform.
func (r *Resolver) KeystorePath(storeFile string) string {
	p := filepath.FromSlash(storeFile)
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(r.baseDir, p)
}

func (r *Resolver) warnMissing(out Outcome) {
	if out.Mode != Permissive || r.diag == nil {
		return
	}
	if out.Cause != nil {
		r.diag.Warnf("%s", i18n.T("resolve.warn_malformed_source", out.Source, out.Cause))
		return
	}
	r.diag.Warnf("%s", i18n.T("resolve.warn_missing_source", out.Source))
}
