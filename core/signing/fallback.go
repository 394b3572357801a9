// Copyright (c) 2026 Releasesign Team
// Releasesign - release signing configuration resolver
// This source code is licensed under the MIT license found in the LICENSE file.

package signing

import (
	"fmt"
	"path/filepath"

	"github.com/reyden7/releasesign/core/security"
)

// Credentials of the keystore the Android SDK generates for debug builds.
const (
	DebugKeystoreName     = "debug.keystore"
	DebugKeystorePassword = "android"
	DebugKeyAlias         = "androiddebugkey"
	DebugKeyPassword      = "android"
)

// DebugBundle returns the well-known debug credentials stored under
// <home>/.android.
func DebugBundle(home string) Bundle {
	return Bundle{
		keystorePath:  filepath.Join(home, ".android", DebugKeystoreName),
		storePassword: security.FromString(DebugKeystorePassword),
		keyAlias:      DebugKeyAlias,
		keyPassword:   security.FromString(DebugKeyPassword),
	}
}

// Fallback picks the bundle a build should sign with. A resolved outcome
// yields its own bundle and a non-fatal MissingSource yields the debug bundle
// (the boolean is true in that case). Everything else is returned as error:
// a source that exists but lacks a field is never replaced by debug keys.
func Fallback(o Outcome, home string) (Bundle, bool, error) {
	switch {
	case o.State == Resolved && o.Bundle != nil:
		return *o.Bundle, false, nil
	case o.Fatal(), o.State != MissingSource:
		return Bundle{}, false, o.Err()
	case home == "":
		return Bundle{}, false, fmt.Errorf("no home directory for the debug keystore: %w", o.Err())
	default:
		return DebugBundle(home), true, nil
	}
}
