// Package cli implements the cms-passwd command that manages the credentials file.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/dtroode/filecms/internal/model"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// isTerminal is a test seam for term.IsTerminal.
var isTerminal = term.IsTerminal

// ErrEmptyPassword is returned when no password was entered.
var ErrEmptyPassword = errors.New("password is empty")

// SetUserFunc writes one user entry into the credentials file.
type SetUserFunc func(path, username, hash string) error

// NewRootCommand builds the cms-passwd command tree.
func NewRootCommand(hasher model.PasswordHasher, setUser SetUserFunc) *cobra.Command {
	var file string

	root := &cobra.Command{
		Use:           "cms-passwd",
		Short:         "Manage CMS user credentials",
		Long:          `cms-passwd hashes passwords and edits the users file read by the CMS server.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	defaultFile := os.Getenv("CREDENTIALS_FILE")
	if defaultFile == "" {
		defaultFile = "users.yml"
	}
	root.PersistentFlags().StringVarP(&file, "file", "f", defaultFile, "Path to the credentials file")

	root.AddCommand(&cobra.Command{
		Use:   "hash",
		Short: "Print a bcrypt hash of a password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := getPassword(cmd.InOrStdin(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			hash, err := hasher.Hash(password)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "add [username]",
		Short: "Add or replace a user in the credentials file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			username := strings.TrimSpace(args[0])
			if username == "" {
				return errors.New("username is empty")
			}
			password, err := getPassword(cmd.InOrStdin(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			hash, err := hasher.Hash(password)
			if err != nil {
				return err
			}
			if err := setUser(file, username, hash); err != nil {
				return fmt.Errorf("failed to save user: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "User saved: %s\n", username)
			return nil
		},
	})

	return root
}

// getPassword reads a password without echo when in is a terminal,
// otherwise it takes the first line of in.
func getPassword(in io.Reader, w io.Writer) (string, error) {
	if f, ok := in.(*os.File); ok && isTerminal(int(f.Fd())) {
		fmt.Fprint(w, "Enter password: ")
		pw, err := readPassword(int(f.Fd()))
		fmt.Fprintln(w)
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		if len(pw) == 0 {
			return "", ErrEmptyPassword
		}
		return string(pw), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", ErrEmptyPassword
	}
	return line, nil
}
