// Copyright (c) 2026 Releasesign Team
// Releasesign - release signing configuration resolver
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/magiconair/properties"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/reyden7/releasesign/core/security"
	"github.com/reyden7/releasesign/core/signing"
	"github.com/reyden7/releasesign/internal/i18n"
)

const sourceHeader = "# Release signing credentials. Keep this file out of version control.\n"

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a new credential properties file",
		Long: `Prompts for the four signing fields and writes them to the credential
source with mode 0600. Passwords are read without echo when stdin is a
terminal. An existing file is only replaced with --force.`,
		Args: cobra.NoArgs,
		RunE: runInit,
	}
	cmd.Flags().Bool("force", false, "Overwrite an existing credential file")
	return cmd
}

func runInit(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")
	path := appConfig.Source

	exists, err := afero.Exists(appFs, path)
	if err != nil {
		return err
	}
	if exists && !force {
		return errors.New(i18n.T("init.exists", path))
	}

	p := newPrompter(cmd.InOrStdin(), cmd.ErrOrStderr())
	storeFile, err := p.line(i18n.T("init.prompt_store_file"))
	if err != nil {
		return err
	}
	storePassword, err := p.secret(i18n.T("init.prompt_store_password"))
	if err != nil {
		return err
	}
	keyAlias, err := p.line(i18n.T("init.prompt_key_alias"))
	if err != nil {
		return err
	}
	keyPassword, err := p.secret(i18n.T("init.prompt_key_password"))
	if err != nil {
		return err
	}
	defer storePassword.Zero()
	defer keyPassword.Zero()

	// Refuse to write what the resolver would reject.
	if _, err := signing.NewBundle(storeFile, storePassword, keyAlias, keyPassword); err != nil {
		return err
	}

	data, err := encodeSource(storeFile, storePassword, keyAlias, keyPassword)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := appFs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("could not create %s: %w", dir, err)
		}
	}
	if err := afero.WriteFile(appFs, path, data, 0o600); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), i18n.T("init.written", path))
	return nil
}

// encodeSource renders the four fields in resolver order, escaped the way
// java.util.Properties expects.
func encodeSource(storeFile string, storePassword security.Secret, keyAlias string, keyPassword security.Secret) ([]byte, error) {
	props := properties.NewProperties()
	props.DisableExpansion = true
	values := []string{storeFile, storePassword.Reveal(), keyAlias, keyPassword.Reveal()}
	for i, field := range signing.RequiredFields {
		if _, _, err := props.Set(string(field), values[i]); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	buf.WriteString(sourceHeader)
	if _, err := props.Write(&buf, properties.UTF8); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// prompter reads answers from in, hiding secrets when in is a terminal.
type prompter struct {
	in     io.Reader
	reader *bufio.Reader
	out    io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{in: in, reader: bufio.NewReader(in), out: out}
}

func (p *prompter) line(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	s, err := p.reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && s != "") {
		return "", fmt.Errorf("could not read answer: %w", err)
	}
	return strings.TrimRight(s, "\r\n"), nil
}

func (p *prompter) secret(prompt string) (security.Secret, error) {
	if f, ok := p.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(p.out, prompt)
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(p.out)
		if err != nil {
			return nil, fmt.Errorf("could not read password: %w", err)
		}
		return security.Secret(b), nil
	}
	s, err := p.line(prompt)
	if err != nil {
		return nil, err
	}
	return security.FromString(s), nil
}
