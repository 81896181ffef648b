// Package cli implements cartctl, the operator tool for the cart service.
package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "cartctl",
		Short:         "Operate the pizza cart service",
		Long:          "cartctl loads menus into the record store and prices carts offline against a menu file.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			_ = godotenv.Load()
		},
	}
	cmd.AddCommand(newMenuCmd())
	cmd.AddCommand(newPriceCmd())
	return cmd
}

// Execute runs the root command and prints any error to stderr.
func Execute() error {
	err := newRootCmd().Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
	}
	return err
}
