package signing

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
)

func TestInspectCompleteSource(t *testing.T) {
	src := validSource
	r, fsys, rec := newMemResolver(t, &src)
	ks := filepath.Join(testBase, "keys", "release.jks")
	if err := fsys.MkdirAll(filepath.Dir(ks), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := afero.WriteFile(fsys, ks, append(jksMagic, 0, 0, 0, 2), 0o600); err != nil {
		t.Fatalf("write keystore: %v", err)
	}

	ins := r.Inspect(testSource)
	if !ins.OK() {
		t.Fatalf("expected no problems, got %v", ins.Err())
	}
	if ins.KeystorePath != ks {
		t.Fatalf("unexpected keystore path %q", ins.KeystorePath)
	}
	if len(ins.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", ins.Warnings)
	}
	if len(rec.msgs) != 0 {
		t.Fatalf("Inspect must not emit diagnostics: %v", rec.msgs)
	}
}

func TestInspectReportsEveryProblem(t *testing.T) {
	src := "storeFile=keys/release.jks\nkeyAlias=\nflavor=prod\n"
	r, _, _ := newMemResolver(t, &src)

	ins := r.Inspect(testSource)
	if ins.OK() {
		t.Fatalf("expected problems")
	}
	// storePassword, keyAlias, keyPassword and the absent keystore.
	if got := len(ins.Problems.Errors); got != 4 {
		t.Fatalf("expected 4 problems, got %d: %v", got, ins.Err())
	}
	var fields []Field
	for _, e := range ins.Problems.Errors {
		var mf *MissingFieldError
		if errors.As(e, &mf) {
			fields = append(fields, mf.Field)
		}
	}
	want := []Field{FieldStorePassword, FieldKeyAlias, FieldKeyPassword}
	if len(fields) != len(want) {
		t.Fatalf("unexpected missing fields %v", fields)
	}
	for i := range want {
		if fields[i] != want[i] {
			t.Fatalf("missing fields out of order: %v", fields)
		}
	}
	var ke *KeystoreError
	if !errors.As(ins.Err(), &ke) {
		t.Fatalf("expected a KeystoreError in %v", ins.Err())
	}
	if len(ins.Warnings) != 1 || !strings.Contains(ins.Warnings[0], "flavor") {
		t.Fatalf("expected unknown key warning, got %v", ins.Warnings)
	}
}

func TestInspectMissingSource(t *testing.T) {
	r, _, _ := newMemResolver(t, nil)
	ins := r.Inspect(testSource)
	if !errors.Is(ins.Err(), ErrMissingSource) {
		t.Fatalf("expected ErrMissingSource, got %v", ins.Err())
	}
}

func TestInspectWarnsOnUnknownKeystoreFormat(t *testing.T) {
	src := validSource
	r, fsys, _ := newMemResolver(t, &src)
	ks := filepath.Join(testBase, "keys", "release.jks")
	if err := fsys.MkdirAll(filepath.Dir(ks), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := afero.WriteFile(fsys, ks, []byte("not a keystore"), 0o600); err != nil {
		t.Fatalf("write keystore: %v", err)
	}
	ins := r.Inspect(testSource)
	if !ins.OK() {
		t.Fatalf("format mismatch is a warning, not a problem: %v", ins.Err())
	}
	if len(ins.Warnings) != 1 || !strings.Contains(ins.Warnings[0], "does not look like") {
		t.Fatalf("expected format warning, got %v", ins.Warnings)
	}
}

func TestSniffKeystore(t *testing.T) {
	if w := sniffKeystore([]byte{0x30, 0x82, 0x0a, 0x00}, "a.p12"); w != "" {
		t.Fatalf("PKCS#12 should be accepted, got %q", w)
	}
	if w := sniffKeystore(jceksMagic, "a.jceks"); w != "" {
		t.Fatalf("JCEKS should be accepted, got %q", w)
	}
	if w := sniffKeystore(nil, "empty"); w == "" {
		t.Fatalf("empty header should warn")
	}
}
