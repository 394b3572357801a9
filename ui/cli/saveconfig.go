// Copyright (c) 2026 Releasesign Team
// Releasesign - release signing configuration resolver
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reyden7/releasesign/internal/config"
)

func newSaveConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "save-config",
		Short: "Persist the effective settings to releasesign.yaml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			system, _ := cmd.Flags().GetBool("system")
			if err := config.WriteConfigFile(&appConfig, system); err != nil {
				return fmt.Errorf("could not write config file: %w", err)
			}
			path, err := config.GetConfigPath(system)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	cmd.Flags().Bool("system", false, "Write the system-wide config instead of the user config")
	return cmd
}
