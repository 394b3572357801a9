// Copyright (c) 2026 Releasesign Team
// Releasesign - release signing configuration resolver
// This source code is licensed under the MIT license found in the LICENSE file.

package signing

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/magiconair/properties"
	"github.com/spf13/afero"
)

var errNotUTF8 = errors.New("content is not valid UTF-8")

// loadSource reads and parses the properties file at path. The file handle
// is closed on every return path. Expansion of ${...} references is
// disabled so secrets are taken literally.
func loadSource(fsys afero.Fs, path string) (*properties.Properties, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	buf, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	if !utf8.Valid(buf) {
		return nil, errNotUTF8
	}

	l := &properties.Loader{Encoding: properties.UTF8, DisableExpansion: true}
	p, err := l.LoadBytes(buf)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	return p, nil
}

// lookup returns the value of field, treating whitespace-only values as
// absent. Non-blank values are returned verbatim.
func lookup(p *properties.Properties, field Field) (string, bool) {
	v, ok := p.Get(string(field))
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return v, true
}
