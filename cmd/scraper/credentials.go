package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/shanickcuello/linkedin-people-scrapper/internal/secrets"
)

func newCredentialsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "credentials",
		Short: "Manage the LinkedIn password in the OS keychain",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <username>",
		Short: "Store the password for a LinkedIn account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := readPassword()
			if err != nil {
				return err
			}
			if err := secrets.SetPassword(args[0], password); err != nil {
				return fmt.Errorf("store password: %w", err)
			}
			fmt.Printf("password stored for %s\n", args[0])
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <username>",
		Short: "Remove the stored password for a LinkedIn account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := secrets.DeletePassword(args[0]); err != nil {
				return fmt.Errorf("delete password: %w", err)
			}
			fmt.Printf("password removed for %s\n", args[0])
			return nil
		},
	})

	return cmd
}

// readPassword reads the password without echo when stdin is a terminal,
// falling back to a plain line read for piped input.
func readPassword() (string, error) {
	fmt.Fprint(os.Stderr, "Password: ")
	if term.IsTerminal(int(syscall.Stdin)) {
		b, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
