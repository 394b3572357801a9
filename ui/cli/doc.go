// Copyright (c) 2026 Releasesign Team
// Releasesign - release signing configuration resolver
// This source code is licensed under the MIT license found in the LICENSE file.
//
// Package cli implements the releasesign command-line interface using Cobra.
// It wires configuration, logging and localisation, and delegates the actual
// resolution to `core/signing`. CLI code should remain thin.
package cli
