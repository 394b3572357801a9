// Copyright (c) 2026 Releasesign Team
// Releasesign - release signing configuration resolver
// This source code is licensed under the MIT license found in the LICENSE file.

// Package config loads releasesign settings from defaults, a YAML file,
// RELEASESIGN_* environment variables and command-line flags, in that order
// of increasing precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds the settings shared by the releasesign commands.
type Config struct {
	// Source is the credential properties file.
	Source string `mapstructure:"source" yaml:"source"`
	// Mode is "strict" or "permissive".
	Mode string `mapstructure:"mode" yaml:"mode"`
	// BaseDir is the module root relative keystore paths resolve against.
	BaseDir       string `mapstructure:"base_dir" yaml:"base_dir"`
	Output        string `mapstructure:"output" yaml:"output"`
	FallbackDebug bool   `mapstructure:"fallback_debug" yaml:"fallback_debug"`
	Language      string `mapstructure:"language" yaml:"language"`
}

// Defaults mirror the layout of a Flutter project: key.properties lives in
// android/ and the keystore path is relative to the app module.
func Defaults() map[string]any {
	return map[string]any{
		"source":         filepath.Join("android", "key.properties"),
		"mode":           "strict",
		"base_dir":       filepath.Join("android", "app"),
		"output":         "text",
		"fallback_debug": false,
		"language":       "en",
	}
}

// GetConfigPath returns the full path for the configuration file.
func GetConfigPath(system bool) (string, error) {
	var configDir string
	var err error

	if system {
		switch runtime.GOOS {
		case "windows":
			configDir = filepath.Join(os.Getenv("ProgramData"), "Releasesign")
		default:
			configDir = "/etc/releasesign"
		}
	} else {
		configDir, err = os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("could not get user config directory: %w", err)
		}
		configDir = filepath.Join(configDir, "releasesign")
	}

	return filepath.Join(configDir, "releasesign.yaml"), nil
}

// LoadConfig reads the configuration into a T. A missing config file is
// reported as viper.ConfigFileNotFoundError alongside the populated value,
// so callers can keep running on defaults.
func LoadConfig[T any](cmd *cobra.Command, defaults map[string]any, configFile *string) (T, error) {
	var c T
	v := viper.New()

	// 1. Defaults
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	// 2. Config file: explicit path first, then the standard locations.
	v.SetConfigName("releasesign")
	v.SetConfigType("yaml")
	if configFile != nil {
		v.SetConfigFile(*configFile)
	}
	if userConfigPath, err := GetConfigPath(false); err == nil {
		v.AddConfigPath(filepath.Dir(userConfigPath))
	}
	if systemConfigPath, err := GetConfigPath(true); err == nil {
		v.AddConfigPath(filepath.Dir(systemConfigPath))
	}
	v.AddConfigPath(".")

	var notFound error
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return c, err
		}
		notFound = err
	}

	// 3. Environment
	v.SetEnvPrefix("releasesign")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// 4. Flags. Flag names use dashes, config keys underscores.
	if cmd != nil {
		var bindErr error
		cmd.Flags().VisitAll(func(f *pflag.Flag) {
			if bindErr != nil {
				return
			}
			bindErr = v.BindPFlag(strings.ReplaceAll(f.Name, "-", "_"), f)
		})
		if bindErr != nil {
			return c, bindErr
		}
	}

	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}

	return c, notFound
}

// WriteConfigFile persists c as YAML in the user or system config location.
func WriteConfigFile[T any](c *T, system bool) error {
	path, err := GetConfigPath(system)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	configDir := filepath.Dir(path)
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("could not create config directory %s: %w", configDir, err)
	}

	return os.WriteFile(path, data, 0o600)
}
