package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shanickcuello/linkedin-people-scrapper/internal/auth"
	"github.com/shanickcuello/linkedin-people-scrapper/internal/config"
)

// Exit codes: 0 success, 1 invalid configuration, 2 authentication failed,
// 3 unrecoverable runtime fault.
const (
	exitOK      = 0
	exitConfig  = 1
	exitAuth    = 2
	exitRuntime = 3
)

var configPath string

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "scraper",
		Short:         "Search LinkedIn people by job title and export visible profile fields to CSV",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScrape(cmd)
		},
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "path to the YAML config file")
	root.Flags().Bool("headless", false, "run Chrome headless (overrides config)")
	root.Flags().Int("max-pages", 0, "page cap per query (overrides config)")
	root.Flags().String("out-dir", "", "output directory (overrides config)")

	root.AddCommand(newCredentialsCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	var cfgErr *config.ConfigError
	if errors.As(err, &cfgErr) {
		return exitConfig
	}
	var authErr *auth.AuthError
	if errors.As(err, &authErr) {
		return exitAuth
	}
	return exitRuntime
}
