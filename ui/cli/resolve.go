// Copyright (c) 2026 Releasesign Team
// Releasesign - release signing configuration resolver
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/reyden7/releasesign/core/signing"
	"github.com/reyden7/releasesign/internal/i18n"
	"github.com/reyden7/releasesign/internal/logging"
)

// userHomeDir is swapped in tests.
var userHomeDir = os.UserHomeDir

func newResolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve the release signing credentials",
		Long: `Reads the credential source and prints the resolved signing configuration.

With --output gradle, apksigner or env the credentials are printed in clear
text for the signing toolchain, one argument per line. The other formats
always redact passwords.

A strict failure exits non-zero with a message naming the missing file or
field. A permissive failure exits zero; with --fallback-debug a missing
source is replaced by the debug keystore. An existing source with a missing
field is never replaced and fails even in permissive mode.`,
		Args: cobra.NoArgs,
		RunE: runResolve,
	}
	cmd.Flags().StringP("mode", "m", "strict", "Resolution mode: 'strict' or 'permissive'")
	cmd.Flags().StringP("output", "o", outputText, "Output format: text, json, yaml, gradle, apksigner, env")
	cmd.Flags().Bool("fallback-debug", false, "In permissive mode, fall back to the debug keystore")
	return cmd
}

func runResolve(cmd *cobra.Command, args []string) error {
	mode, err := signing.ParseMode(appConfig.Mode)
	if err != nil {
		return err
	}
	if err := validOutput(appConfig.Output); err != nil {
		return err
	}
	r, err := newResolver()
	if err != nil {
		return err
	}

	out := r.Resolve(appConfig.Source, mode)
	logging.Debugf("resolution of %s: %s", appConfig.Source, out)

	if out.Fatal() {
		return fmt.Errorf("%s: %w", i18n.T("resolve.fatal"), out.Err())
	}

	bundle := out.Bundle
	usedDebug := false
	if bundle == nil && appConfig.FallbackDebug {
		home, _ := userHomeDir()
		b, debugUsed, err := signing.Fallback(out, home)
		if err != nil {
			return fmt.Errorf("%s: %w", i18n.T("resolve.fatal"), err)
		}
		bundle, usedDebug = &b, debugUsed
	}

	w := cmd.OutOrStdout()
	if isHandoff(appConfig.Output) {
		if bundle == nil {
			// Nothing to hand over; the caller decides how to build unsigned.
			// A missing source was already reported by the resolver.
			if out.State != signing.MissingSource {
				logging.Warnf("%s: %v", i18n.T("resolve.nonfatal"), out.Err())
			}
			return nil
		}
		return renderHandoff(w, appConfig.Output, *bundle)
	}

	rep := out.Report()
	if usedDebug {
		v := bundle.View()
		rep.Bundle = &v
	}
	return renderReport(w, appConfig.Output, rep, usedDebug)
}
