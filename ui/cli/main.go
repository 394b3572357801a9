// Copyright (c) 2026 Releasesign Team
// Releasesign - release signing configuration resolver
// This source code is licensed under the MIT license found in the LICENSE file.

// main.go sets up the root command, the shared flags and the configuration
// bootstrap that runs before every subcommand.

package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/reyden7/releasesign/buildvars"
	"github.com/reyden7/releasesign/core/signing"
	"github.com/reyden7/releasesign/internal/config"
	"github.com/reyden7/releasesign/internal/i18n"
	"github.com/reyden7/releasesign/internal/logging"
)

var version = "dev"   // set by the linker
var gitCommit = "dev" // short commit SHA, set at build time
var buildDate = ""    // RFC3339, set at build time

var cfgFile string
var verbose bool
var showVersionFlag bool

var appConfig config.Config

// appFs is the filesystem every command reads and writes through.
var appFs afero.Fs = afero.NewOsFs()

// loadSettings resolves the effective configuration for cmd. A missing
// config file is fine; everything then comes from defaults, env and flags.
func loadSettings(cmd *cobra.Command, args []string) error {
	optionalConfigPath, err := getConfigPathFromCli(cmd)
	if err != nil {
		return err
	}

	appConfig, err = config.LoadConfig[config.Config](cmd, config.Defaults(), optionalConfigPath)
	if errors.As(err, &viper.ConfigFileNotFoundError{}) {
		logging.Debugf("no releasesign.yaml found, using defaults")
	} else if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	i18n.Init(appConfig.Language)
	return nil
}

func getConfigPathFromCli(cmd *cobra.Command) (*string, error) {
	if !cmd.Flags().Changed("config") {
		return nil, nil
	}
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("could not read --config flag: %w", err)
	}
	if path == "" {
		return nil, nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file specified via --config flag not found or is not accessible: %w", err)
	}
	return &path, nil
}

// Execute runs the CLI entrypoint. The main package should call this
// function and handle process exit.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd creates a fresh root command with all subcommands attached.
// Tests build a new one per case.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "releasesign",
		Short: "Resolve release signing credentials for a build",
		Long: `releasesign reads the keystore credentials of a release build from a
properties file (android/key.properties by default) and decides whether the
release artifact can be signed with them.

In strict mode a missing file or field aborts the build step. In permissive
mode a missing file only produces a warning and the build may fall back to
the debug keystore.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if showVersionFlag {
				fmt.Fprintln(cmd.OutOrStdout(), compositeVersion(resolveBuildVersion(nil)))
				os.Exit(0)
			}
			logging.SetDebug(verbose)
			return loadSettings(cmd, args)
		},
	}
	cmd.Version = compositeVersion(resolveBuildVersion(nil))

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().BoolVarP(&showVersionFlag, "version", "V", false, "Print version and exit")
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file")
	cmd.PersistentFlags().String("language", "en", `Message language ("en", "fr")`)
	cmd.PersistentFlags().String("source", filepath.Join("android", "key.properties"), "Credential properties file")
	cmd.PersistentFlags().String("base-dir", filepath.Join("android", "app"), "Directory relative keystore paths resolve against")

	cmd.AddCommand(
		newResolveCmd(),
		newCheckCmd(),
		newInitCmd(),
		newDebugCmd(),
		newSaveConfigCmd(),
		newVersionCmd(),
	)
	return cmd
}

// newResolver builds a resolver for the configured base directory.
func newResolver() (*signing.Resolver, error) {
	return signing.NewResolver(appConfig.BaseDir, signing.WithFs(appFs))
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			v, c, d := resolveBuildVersion(nil)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "version: %s\n", v)
			fmt.Fprintf(out, "commit: %s\n", c)
			if d != "" {
				fmt.Fprintf(out, "built: %s\n", d)
			}
		},
	}
}

func compositeVersion(v, c, d string) string {
	out := v
	if c != "" && c != "dev" {
		out += " (" + c + ")"
	}
	if d != "" {
		out += " built: " + d
	}
	return out
}

// resolveBuildVersion computes the best-available version, commit and build
// date for the running binary. If `info` is nil, it reads build info from
// the runtime.
func resolveBuildVersion(info *debug.BuildInfo) (versionOut, commitOut, dateOut string) {
	resolvedVersion := buildvars.VersionOrDefault(version)
	resolvedCommit := gitCommit
	resolvedDate := buildDate

	if info == nil {
		if local, ok := debug.ReadBuildInfo(); ok {
			info = local
		}
	}

	if info != nil {
		if resolvedVersion == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
			resolvedVersion = info.Main.Version
		}
		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				if s.Value != "" && resolvedCommit == "dev" {
					resolvedCommit = s.Value
				}
			case "vcs.time":
				if s.Value != "" && resolvedDate == "" {
					resolvedDate = s.Value
				}
			}
		}
	}

	if resolvedVersion == "dev" && gitCommit != "dev" && gitCommit != "" {
		resolvedVersion = gitCommit
	}

	return resolvedVersion, resolvedCommit, resolvedDate
}
