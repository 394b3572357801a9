// Copyright (c) 2026 Releasesign Team
// Releasesign - release signing configuration resolver
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reyden7/releasesign/internal/i18n"
)

var errCheckFailed = errors.New("credential source check failed")

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Report every problem of the credential source",
		Long: `Validates the credential source in one pass: every missing or empty
field, a keystore file that does not exist, and unknown keys (as warnings).
Exits non-zero when a problem is found.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := newResolver()
			if err != nil {
				return err
			}
			ins := r.Inspect(appConfig.Source)
			w := cmd.OutOrStdout()

			for _, warning := range ins.Warnings {
				fmt.Fprintln(w, warnStyle.Render(i18n.T("check.warning", warning)))
			}
			if ins.OK() {
				fmt.Fprintln(w, okStyle.Render(i18n.T("check.ok", appConfig.Source)))
				return nil
			}

			fmt.Fprintln(w, errStyle.Render(i18n.T("check.problems", appConfig.Source)))
			for _, problem := range ins.Problems.Errors {
				fmt.Fprintf(w, "  - %v\n", problem)
			}
			return errCheckFailed
		},
	}
}
