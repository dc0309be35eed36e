// Package main is the zamanipay terminal client. Each subcommand drives one
// screen against the configured backend.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const appName = "zamanipay"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var g globalFlags

	cmd := &cobra.Command{
		Use:   appName,
		Short: "ZamaniPay mobile banking client",
		Long: `zamanipay runs the ZamaniPay screens from a terminal.

Log in once and the identity is cached; dashboard, pay and profile then
load the account snapshot for the cached user.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&g.envFile, "env-file", ".env", "Dotenv file to load before reading the environment")
	cmd.PersistentFlags().StringVar(&g.apiURL, "api-url", "", "Backend base URL (overrides API_BASE_URL)")
	cmd.PersistentFlags().StringVar(&g.store, "store", "", "Identity store: file, redis or memory (overrides IDENTITY_STORE)")
	cmd.PersistentFlags().StringVar(&g.stateDir, "state-dir", "", "Directory of the file identity store (overrides STATE_DIR)")
	cmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	cmd.AddCommand(
		onboardingCmd(),
		signupCmd(&g),
		loginCmd(&g),
		logoutCmd(&g),
		forgotPasswordCmd(&g),
		dashboardCmd(&g),
		payCmd(&g),
		profileCmd(&g),
	)
	return cmd
}
