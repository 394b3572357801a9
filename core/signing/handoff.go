// Copyright (c) 2026 Releasesign Team
// Releasesign - release signing configuration resolver
// This source code is licensed under the MIT license found in the LICENSE file.

package signing

// The renderers below are the only places passwords leave their Secret
// wrapper. Their output is meant for the signing toolchain, not for logs.

// GradleProperties renders b as the injected signing properties understood
// by the Android Gradle Plugin.
func GradleProperties(b Bundle) []string {
	return []string{
		"-Pandroid.injected.signing.store.file=" + b.keystorePath,
		"-Pandroid.injected.signing.store.password=" + b.storePassword.Reveal(),
		"-Pandroid.injected.signing.key.alias=" + b.keyAlias,
		"-Pandroid.injected.signing.key.password=" + b.keyPassword.Reveal(),
	}
}

// ApksignerArgs renders b as apksigner sign flags.
func ApksignerArgs(b Bundle) []string {
	return []string{
		"--ks", b.keystorePath,
		"--ks-pass", "pass:" + b.storePassword.Reveal(),
		"--ks-key-alias", b.keyAlias,
		"--key-pass", "pass:" + b.keyPassword.Reveal(),
	}
}

// Environment variable names used by EnvVars.
const (
	EnvStoreFile     = "RELEASESIGN_STORE_FILE"
	EnvStorePassword = "RELEASESIGN_STORE_PASSWORD"
	EnvKeyAlias      = "RELEASESIGN_KEY_ALIAS"
	EnvKeyPassword   = "RELEASESIGN_KEY_PASSWORD"
)

// EnvVars renders b as KEY=VALUE pairs for a child process environment.
func EnvVars(b Bundle) []string {
	return []string{
		EnvStoreFile + "=" + b.keystorePath,
		EnvStorePassword + "=" + b.storePassword.Reveal(),
		EnvKeyAlias + "=" + b.keyAlias,
		EnvKeyPassword + "=" + b.keyPassword.Reveal(),
	}
}
