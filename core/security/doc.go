// Copyright (c) 2026 Releasesign Team
// Releasesign - release signing configuration resolver
// This source code is licensed under the MIT license found in the LICENSE file.
//
// Package security provides lightweight secret handling helpers used to keep
// keystore passwords in redacting wrappers so they never leak through logs,
// JSON or YAML output by accident.
package security
