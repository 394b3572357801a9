// Copyright (c) 2026 Releasesign Team
// Releasesign - release signing configuration resolver
// This source code is licensed under the MIT license found in the LICENSE file.

// Command-line entrypoint for releasesign.
//
// Usage:
//
//	go run . resolve --mode strict
//	./releasesign check --source android/key.properties
//
// See --help for all commands and options.
package main

import (
	"os"

	"github.com/reyden7/releasesign/internal/logging"
	"github.com/reyden7/releasesign/ui/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		logging.Errorf("%v", err)
		os.Exit(1)
	}
}
