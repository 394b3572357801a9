// Copyright (c) 2026 Releasesign Team
// Releasesign - release signing configuration resolver
// This source code is licensed under the MIT license found in the LICENSE file.

// Package signing resolves the release signing credentials of a build from
// a Java-style properties file (usually android/key.properties).
//
// A Resolver reads the source once per call and returns an Outcome that is
// either Resolved with a complete Bundle, MissingSource, or MissingField.
// Whether a failure aborts the build depends on the Mode the caller asked
// for: Strict failures are fatal, Permissive ones let the caller fall back
// to another signing path such as the debug keystore.
//
// Both modes check the required fields, so a Permissive resolution can
// return a non-fatal MissingField. Fallback only substitutes the debug
// keystore for a missing source, never for an incomplete one.
//
// The package never signs anything. A resolved Bundle is handed to the
// external signing toolchain through the renderers in handoff.go.
package signing
