// Copyright (c) 2026 Releasesign Team
// Releasesign - release signing configuration resolver
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/goccy/go-yaml"

	"github.com/reyden7/releasesign/core/signing"
	"github.com/reyden7/releasesign/internal/i18n"
)

// Output formats accepted by --output.
const (
	outputText      = "text"
	outputJSON      = "json"
	outputYAML      = "yaml"
	outputGradle    = "gradle"
	outputApksigner = "apksigner"
	outputEnv       = "env"
)

var outputFormats = []string{outputText, outputJSON, outputYAML, outputGradle, outputApksigner, outputEnv}

var (
	okStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	warnStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	errStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	labelStyle = lipgloss.NewStyle().Faint(true).Width(16)
)

func validOutput(format string) error {
	for _, f := range outputFormats {
		if f == format {
			return nil
		}
	}
	return fmt.Errorf("unknown output format %q (expected one of %s)", format, strings.Join(outputFormats, ", "))
}

// isHandoff reports whether format hands clear-text credentials to a tool.
func isHandoff(format string) bool {
	switch format {
	case outputGradle, outputApksigner, outputEnv:
		return true
	}
	return false
}

// renderHandoff prints one argument or variable per line so shells can read
// them without word splitting on spaces inside passwords.
func renderHandoff(w io.Writer, format string, b signing.Bundle) error {
	var lines []string
	switch format {
	case outputGradle:
		lines = signing.GradleProperties(b)
	case outputApksigner:
		lines = signing.ApksignerArgs(b)
	case outputEnv:
		lines = signing.EnvVars(b)
	default:
		return fmt.Errorf("%s is not a handoff format", format)
	}
	for _, l := range lines {
		if _, err := fmt.Fprintln(w, l); err != nil {
			return err
		}
	}
	return nil
}

// renderReport prints a redacted summary of the resolution.
func renderReport(w io.Writer, format string, rep signing.Report, usedDebug bool) error {
	switch format {
	case outputJSON:
		data, err := json.MarshalIndent(rep, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case outputYAML:
		data, err := yaml.Marshal(rep)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	default:
		return renderText(w, rep, usedDebug)
	}
}

func renderText(w io.Writer, rep signing.Report, usedDebug bool) error {
	var sb strings.Builder
	switch {
	case rep.State == signing.Resolved:
		sb.WriteString(okStyle.Render(i18n.T("resolve.resolved")))
	case usedDebug:
		sb.WriteString(warnStyle.Render(i18n.T("resolve.nonfatal")))
	case rep.Fatal:
		sb.WriteString(errStyle.Render(i18n.T("resolve.fatal")))
	default:
		sb.WriteString(warnStyle.Render(i18n.T("resolve.nonfatal")))
	}
	sb.WriteString("\n")

	row := func(label, value string) {
		sb.WriteString(labelStyle.Render(label))
		sb.WriteString(value)
		sb.WriteString("\n")
	}
	row("mode", rep.Mode.String())
	row("source", rep.Source)
	if rep.Error != "" {
		row("error", rep.Error)
	}
	if rep.Bundle != nil {
		if usedDebug {
			row("fallback", i18n.T("resolve.fallback_debug", rep.Bundle.KeystorePath))
		}
		row("keystore", rep.Bundle.KeystorePath)
		row("storePassword", rep.Bundle.StorePassword.String())
		row("keyAlias", rep.Bundle.KeyAlias)
		row("keyPassword", rep.Bundle.KeyPassword.String())
	}
	_, err := io.WriteString(w, sb.String())
	return err
}
