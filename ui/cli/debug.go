// Copyright (c) 2026 Releasesign Team
// Releasesign - release signing configuration resolver
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func newDebugCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "debug",
		Short: "Dump the effective configuration, flags and environment",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, "--- RELEASESIGN DEBUG ---")

			fmt.Fprintln(w, "-- effective config --")
			b, err := yaml.Marshal(appConfig)
			if err != nil {
				return fmt.Errorf("could not marshal config: %w", err)
			}
			fmt.Fprint(w, string(b))

			fmt.Fprintln(w, "-- flags --")
			cmd.Flags().VisitAll(func(f *pflag.Flag) {
				fmt.Fprintf(w, "%s = %s\n", f.Name, f.Value.String())
			})

			fmt.Fprintln(w, "-- environment (RELEASESIGN_*) --")
			for _, e := range os.Environ() {
				if strings.HasPrefix(e, "RELEASESIGN_") {
					fmt.Fprintln(w, maskEnv(e))
				}
			}

			if wd, err := os.Getwd(); err == nil {
				fmt.Fprintf(w, "PWD=%s\n", wd)
			}
			fmt.Fprintln(w, "--- END DEBUG ---")
			return nil
		},
	}
}

// maskEnv hides the value of password variables.
func maskEnv(kv string) string {
	k, _, ok := strings.Cut(kv, "=")
	if ok && strings.Contains(k, "PASSWORD") {
		return k + "=[SECRET]"
	}
	return kv
}
