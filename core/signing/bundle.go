// Copyright (c) 2026 Releasesign Team
// Releasesign - release signing configuration resolver
// This source code is licensed under the MIT license found in the LICENSE file.

package signing

import (
	"bytes"
	"strings"

	"github.com/reyden7/releasesign/core/security"
)

// Field names one of the required keys of the credential source.
type Field string

const (
	FieldStoreFile     Field = "storeFile"
	FieldStorePassword Field = "storePassword"
	FieldKeyAlias      Field = "keyAlias"
	FieldKeyPassword   Field = "keyPassword"
)

// RequiredFields lists the required keys in the order they are validated.
var RequiredFields = []Field{FieldStoreFile, FieldStorePassword, FieldKeyAlias, FieldKeyPassword}

// Bundle is a complete set of release signing credentials. The zero value is
// not usable; bundles only come from NewBundle, which guarantees every field
// is populated.
type Bundle struct {
	keystorePath  string
	storePassword security.Secret
	keyAlias      string
	keyPassword   security.Secret
}

// NewBundle builds a Bundle, failing with a *MissingFieldError naming the
// first empty or whitespace-only field.
func NewBundle(keystorePath string, storePassword security.Secret, keyAlias string, keyPassword security.Secret) (Bundle, error) {
	switch {
	case strings.TrimSpace(keystorePath) == "":
		return Bundle{}, &MissingFieldError{Field: FieldStoreFile}
	case blankSecret(storePassword):
		return Bundle{}, &MissingFieldError{Field: FieldStorePassword}
	case strings.TrimSpace(keyAlias) == "":
		return Bundle{}, &MissingFieldError{Field: FieldKeyAlias}
	case blankSecret(keyPassword):
		return Bundle{}, &MissingFieldError{Field: FieldKeyPassword}
	}
	return Bundle{
		keystorePath:  keystorePath,
		storePassword: security.FromBytes(storePassword),
		keyAlias:      keyAlias,
		keyPassword:   security.FromBytes(keyPassword),
	}, nil
}

// KeystorePath is the keystore location. It is not checked for existence.
func (b Bundle) KeystorePath() string { return b.keystorePath }

func (b Bundle) StorePassword() security.Secret { return b.storePassword }

func (b Bundle) KeyAlias() string { return b.keyAlias }

func (b Bundle) KeyPassword() security.Secret { return b.keyPassword }

// BundleView is the serialisable form of a Bundle; secrets stay redacted.
type BundleView struct {
	KeystorePath  string          `json:"keystorePath" yaml:"keystorePath"`
	StorePassword security.Secret `json:"storePassword" yaml:"storePassword"`
	KeyAlias      string          `json:"keyAlias" yaml:"keyAlias"`
	KeyPassword   security.Secret `json:"keyPassword" yaml:"keyPassword"`
}

// View returns the redacted, serialisable form of b.
func (b Bundle) View() BundleView {
	return BundleView{
		KeystorePath:  b.keystorePath,
		StorePassword: b.storePassword,
		KeyAlias:      b.keyAlias,
		KeyPassword:   b.keyPassword,
	}
}

func blankSecret(s security.Secret) bool {
	return len(bytes.TrimSpace(s)) == 0
}
