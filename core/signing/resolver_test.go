// Copyright (c) 2026 Releasesign Team
// Releasesign - release signing configuration resolver
// This source code is licensed under the MIT license found in the LICENSE file.

package signing

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/spf13/afero"
)

const (
	testBase   = "/work/android/app"
	testSource = "/work/android/key.properties"
)

const validSource = `# release credentials
storeFile=keys/release.jks
storePassword=pw1
keyAlias=alias1
keyPassword=pw2
`

// recorder is a Warner that keeps every diagnostic.
type recorder struct{ msgs []string }

func (r *recorder) Warnf(format string, args ...any) {
	r.msgs = append(r.msgs, fmt.Sprintf(format, args...))
}

func newMemResolver(t *testing.T, content *string) (*Resolver, afero.Fs, *recorder) {
	t.Helper()
	fsys := afero.NewMemMapFs()
	if err := fsys.MkdirAll(filepath.Dir(testSource), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if content != nil {
		if err := afero.WriteFile(fsys, testSource, []byte(*content), 0o600); err != nil {
			t.Fatalf("write source: %v", err)
		}
	}
	rec := &recorder{}
	return mustResolver(t, testBase, WithFs(fsys), WithDiagnostics(rec)), fsys, rec
}

func mustResolver(t *testing.T, base string, opts ...Option) *Resolver {
	t.Helper()
	r, err := NewResolver(base, opts...)
	if err != nil {
		t.Fatalf("NewResolver(%q): %v", base, err)
	}
	return r
}

func withoutKey(src, key string) string {
	var kept []string
	for _, line := range strings.Split(src, "\n") {
		if strings.HasPrefix(line, key+"=") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

func TestResolveStrictValidSource(t *testing.T) {
	src := validSource
	r, _, rec := newMemResolver(t, &src)

	out := r.Resolve(testSource, Strict)
	if out.State != Resolved {
		t.Fatalf("expected Resolved, got %s (%v)", out.State, out.Err())
	}
	if out.Fatal() || out.Err() != nil {
		t.Fatalf("resolved outcome must be neither fatal nor an error: %v", out.Err())
	}
	b := out.Bundle
	if !strings.HasSuffix(filepath.ToSlash(b.KeystorePath()), "keys/release.jks") {
		t.Fatalf("unexpected keystore path %q", b.KeystorePath())
	}
	if b.KeystorePath() != filepath.Join(testBase, "keys", "release.jks") {
		t.Fatalf("keystore path not resolved against base dir: %q", b.KeystorePath())
	}
	if b.StorePassword().Reveal() != "pw1" || b.KeyAlias() != "alias1" || b.KeyPassword().Reveal() != "pw2" {
		t.Fatalf("unexpected bundle values: %s %s %s", b.StorePassword().Reveal(), b.KeyAlias(), b.KeyPassword().Reveal())
	}
	if len(rec.msgs) != 0 {
		t.Fatalf("expected no diagnostics, got %v", rec.msgs)
	}
}

func TestResolveStrictEachMissingField(t *testing.T) {
	for _, field := range RequiredFields {
		t.Run(string(field), func(t *testing.T) {
			src := withoutKey(validSource, string(field))
			r, _, _ := newMemResolver(t, &src)

			out := r.Resolve(testSource, Strict)
			if out.State != MissingField {
				t.Fatalf("expected MissingField, got %s", out.State)
			}
			if out.Field != field {
				t.Fatalf("expected field %s, got %s", field, out.Field)
			}
			if !out.Fatal() {
				t.Fatalf("strict missing field must be fatal")
			}
			if out.Bundle != nil {
				t.Fatalf("no bundle may be built for a missing field")
			}
			err := out.Err()
			var mf *MissingFieldError
			if !errors.As(err, &mf) || mf.Field != field || !errors.Is(err, ErrMissingField) {
				t.Fatalf("expected MissingFieldError for %s, got %v", field, err)
			}
			if !strings.Contains(err.Error(), string(field)) || !strings.Contains(err.Error(), testSource) {
				t.Fatalf("message must name field and file: %q", err.Error())
			}
		})
	}
}

func TestResolveStrictEmptyValueIsMissing(t *testing.T) {
	src := strings.Replace(validSource, "keyAlias=alias1", "keyAlias=   ", 1)
	r, _, _ := newMemResolver(t, &src)

	out := r.Resolve(testSource, Strict)
	if out.State != MissingField || out.Field != FieldKeyAlias {
		t.Fatalf("expected MissingField(keyAlias), got %s %s", out.State, out.Field)
	}
}

func TestResolveStrictFirstMissingFieldWins(t *testing.T) {
	cases := []struct {
		remove []Field
		want   Field
	}{
		{[]Field{FieldKeyPassword, FieldStorePassword}, FieldStorePassword},
		{[]Field{FieldKeyAlias, FieldKeyPassword}, FieldKeyAlias},
		{[]Field{FieldKeyPassword, FieldStoreFile, FieldKeyAlias}, FieldStoreFile},
		{RequiredFields, FieldStoreFile},
	}
	for _, tc := range cases {
		src := validSource
		for _, f := range tc.remove {
			src = withoutKey(src, string(f))
		}
		r, _, _ := newMemResolver(t, &src)
		out := r.Resolve(testSource, Strict)
		if out.State != MissingField || out.Field != tc.want {
			t.Fatalf("remove %v: expected MissingField(%s), got %s(%s)", tc.remove, tc.want, out.State, out.Field)
		}
	}
}

func TestResolveStrictMissingSource(t *testing.T) {
	r, _, rec := newMemResolver(t, nil)

	out := r.Resolve(testSource, Strict)
	if out.State != MissingSource {
		t.Fatalf("expected MissingSource, got %s", out.State)
	}
	if !out.Fatal() {
		t.Fatalf("strict missing source must be fatal")
	}
	if out.Field != "" || out.Bundle != nil {
		t.Fatalf("no field lookup may happen for a missing source: %+v", out)
	}
	if !errors.Is(out.Err(), ErrMissingSource) || !strings.Contains(out.Err().Error(), testSource) {
		t.Fatalf("unexpected error: %v", out.Err())
	}
	if len(rec.msgs) != 0 {
		t.Fatalf("strict mode must not emit the permissive warning, got %v", rec.msgs)
	}
}

func TestResolvePermissiveMissingSourceWarnsOnce(t *testing.T) {
	r, _, rec := newMemResolver(t, nil)

	out := r.Resolve(testSource, Permissive)
	if out.State != MissingSource {
		t.Fatalf("expected MissingSource, got %s", out.State)
	}
	if out.Fatal() {
		t.Fatalf("permissive missing source must not be fatal")
	}
	if len(rec.msgs) != 1 {
		t.Fatalf("expected exactly one diagnostic, got %d: %v", len(rec.msgs), rec.msgs)
	}
	if !strings.Contains(rec.msgs[0], testSource) {
		t.Fatalf("diagnostic should name the source: %q", rec.msgs[0])
	}
}

func TestResolvePermissiveMissingFieldIsNonFatal(t *testing.T) {
	src := withoutKey(validSource, string(FieldKeyPassword))
	r, _, rec := newMemResolver(t, &src)

	out := r.Resolve(testSource, Permissive)
	if out.State != MissingField || out.Field != FieldKeyPassword {
		t.Fatalf("expected MissingField(keyPassword), got %s(%s)", out.State, out.Field)
	}
	if out.Fatal() {
		t.Fatalf("permissive missing field must not be fatal")
	}
	if out.Bundle != nil {
		t.Fatalf("a partial bundle must never be built")
	}
	if len(rec.msgs) != 0 {
		t.Fatalf("no diagnostic expected for a present source, got %v", rec.msgs)
	}
}

func TestResolveMalformedSourceIsMissingSource(t *testing.T) {
	src := "storeFile=keys/release.jks\nstorePassword=\xff\xfe\n"
	r, _, rec := newMemResolver(t, &src)

	out := r.Resolve(testSource, Permissive)
	if out.State != MissingSource || out.Cause == nil {
		t.Fatalf("expected MissingSource with cause, got %s (%v)", out.State, out.Cause)
	}
	if len(rec.msgs) != 1 {
		t.Fatalf("expected one diagnostic, got %v", rec.msgs)
	}

	strict := r.Resolve(testSource, Strict)
	if strict.State != MissingSource || !strict.Fatal() {
		t.Fatalf("malformed source must be fatal in strict mode: %s", strict)
	}
}

func TestResolveDirectoryIsMissingSource(t *testing.T) {
	r, fsys, _ := newMemResolver(t, nil)
	if err := fsys.MkdirAll(testSource, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	out := r.Resolve(testSource, Strict)
	if out.State != MissingSource || out.Cause == nil {
		t.Fatalf("expected MissingSource with cause, got %s", out)
	}
}

func TestResolveIgnoresUnknownKeysAndComments(t *testing.T) {
	src := "! legacy comment\nflavor=prod\n" + validSource + "# trailing\n"
	r, _, _ := newMemResolver(t, &src)
	if out := r.Resolve(testSource, Strict); out.State != Resolved {
		t.Fatalf("expected Resolved, got %s", out)
	}
}

func TestResolveKeepsSecretsLiteral(t *testing.T) {
	src := strings.Replace(validSource, "storePassword=pw1", "storePassword=p${w}1", 1)
	r, _, _ := newMemResolver(t, &src)
	out := r.Resolve(testSource, Strict)
	if out.State != Resolved {
		t.Fatalf("expected Resolved, got %s", out)
	}
	if got := out.Bundle.StorePassword().Reveal(); got != "p${w}1" {
		t.Fatalf("password must be kept verbatim, got %q", got)
	}
}

func TestResolveAbsoluteStoreFile(t *testing.T) {
	src := strings.Replace(validSource, "storeFile=keys/release.jks", "storeFile=/secure/release.jks", 1)
	r, _, _ := newMemResolver(t, &src)
	out := r.Resolve(testSource, Strict)
	if out.State != Resolved {
		t.Fatalf("expected Resolved, got %s", out)
	}
	if out.Bundle.KeystorePath() != filepath.Clean("/secure/release.jks") {
		t.Fatalf("absolute storeFile must be kept, got %q", out.Bundle.KeystorePath())
	}
}

func TestResolveIndependentOfWorkingDirectory(t *testing.T) {
	tmp := t.TempDir()
	source := filepath.Join(tmp, "key.properties")
	if err := os.WriteFile(source, []byte(validSource), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	base := filepath.Join(tmp, "app")
	r := mustResolver(t, base, WithDiagnostics(&recorder{}))

	first := r.Resolve(source, Strict)

	origWd, _ := os.Getwd()
	defer func() { _ = os.Chdir(origWd) }()
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	second := r.Resolve(source, Strict)

	if first.Bundle == nil || second.Bundle == nil {
		t.Fatalf("expected both resolutions to succeed: %s / %s", first, second)
	}
	if first.Bundle.KeystorePath() != second.Bundle.KeystorePath() {
		t.Fatalf("keystore path changed with cwd: %q vs %q", first.Bundle.KeystorePath(), second.Bundle.KeystorePath())
	}
}

func TestResolveRelativeBaseDirIsFixedAtConstruction(t *testing.T) {
	origWd, _ := os.Getwd()
	defer func() { _ = os.Chdir(origWd) }()
	first := t.TempDir()
	if err := os.Chdir(first); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	wd, _ := os.Getwd()

	fsys := afero.NewMemMapFs()
	if err := fsys.MkdirAll(filepath.Dir(testSource), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := afero.WriteFile(fsys, testSource, []byte(validSource), 0o600); err != nil {
		t.Fatalf("write source: %v", err)
	}

	for _, base := range []string{"", "app"} {
		r := mustResolver(t, base, WithFs(fsys), WithDiagnostics(&recorder{}))
		want := filepath.Join(wd, base, "keys", "release.jks")
		if r.BaseDir() != filepath.Join(wd, base) {
			t.Fatalf("base %q: expected absolute base dir, got %q", base, r.BaseDir())
		}

		if err := os.Chdir(t.TempDir()); err != nil {
			t.Fatalf("chdir: %v", err)
		}
		out := r.Resolve(testSource, Strict)
		if out.Bundle == nil || out.Bundle.KeystorePath() != want {
			t.Fatalf("base %q: expected keystore %q, got %s", base, want, out)
		}
		if err := os.Chdir(first); err != nil {
			t.Fatalf("chdir: %v", err)
		}
	}
}

func TestResolveIsDeterministic(t *testing.T) {
	for _, mode := range []Mode{Strict, Permissive} {
		src := validSource
		r, _, _ := newMemResolver(t, &src)
		a := r.Resolve(testSource, mode)
		b := r.Resolve(testSource, mode)
		if !reflect.DeepEqual(a, b) {
			t.Fatalf("%s: consecutive resolutions differ: %+v vs %+v", mode, a, b)
		}
	}
}

func TestResolveRereadsSourceEveryCall(t *testing.T) {
	src := withoutKey(validSource, string(FieldKeyAlias))
	r, fsys, _ := newMemResolver(t, &src)
	if out := r.Resolve(testSource, Strict); out.State != MissingField {
		t.Fatalf("expected MissingField, got %s", out)
	}
	if err := afero.WriteFile(fsys, testSource, []byte(validSource), 0o600); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	if out := r.Resolve(testSource, Strict); out.State != Resolved {
		t.Fatalf("expected Resolved after fixing source, got %s", out)
	}
}

func TestResolveDoesNotModifySource(t *testing.T) {
	tmp := t.TempDir()
	source := filepath.Join(tmp, "key.properties")
	if err := os.WriteFile(source, []byte(validSource), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	before, _ := os.ReadFile(source)
	infoBefore, _ := os.Stat(source)

	r := mustResolver(t, tmp, WithDiagnostics(&recorder{}))
	for _, mode := range []Mode{Strict, Permissive} {
		_ = r.Resolve(source, mode)
		_ = r.Inspect(source)
	}

	after, _ := os.ReadFile(source)
	infoAfter, _ := os.Stat(source)
	if sha256.Sum256(before) != sha256.Sum256(after) {
		t.Fatalf("source content changed during resolution")
	}
	if !infoBefore.ModTime().Equal(infoAfter.ModTime()) {
		t.Fatalf("source mtime changed during resolution")
	}
}

func TestOutcomeStringAndReport(t *testing.T) {
	src := validSource
	r, _, _ := newMemResolver(t, &src)
	out := r.Resolve(testSource, Strict)

	s := out.String()
	if strings.Contains(s, "pw1") || strings.Contains(s, "pw2") {
		t.Fatalf("String leaked a password: %q", s)
	}
	rep := out.Report()
	if rep.State != Resolved || rep.Bundle == nil || rep.Bundle.KeyAlias != "alias1" {
		t.Fatalf("unexpected report: %+v", rep)
	}
	if fmt.Sprint(rep.Bundle.StorePassword) != "[SECRET]" {
		t.Fatalf("report must keep passwords redacted")
	}

	missing := Outcome{State: MissingSource, Mode: Strict, Source: testSource}
	if !strings.Contains(missing.String(), "fatal") || missing.Report().Error == "" {
		t.Fatalf("unexpected missing-source summary: %q", missing.String())
	}
}
