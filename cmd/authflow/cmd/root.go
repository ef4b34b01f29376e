// Package cmd implements the authflow command line.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:   "authflow",
	Short: "Username and password sign up and sign in over htmx",
	Long: `authflow serves the register, login and home pages of a server rendered
htmx application backed by PostgreSQL and Redis.

Configuration is read from the environment, optionally seeded from an .env file.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "authflow: %v\n", err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "file with environment variables, ignored when missing")
	rootCmd.AddCommand(serveCmd, migrateCmd)
}
