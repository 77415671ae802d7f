// cmd/batchctl/main.go
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "batchctl",
		Short: "Batch code tooling for AgriTrace360",
		Long: `Generate, inspect and print commodity batch codes.

Available subcommands:
  generate - Build a batch code, optionally allocating from the live backend
  parse    - Decode a batch code into its parts
  label    - Render a printable label from a commodity JSON record
  token    - Issue a development bearer token`,
		SilenceUsage: true,
	}

	root.AddCommand(newGenerateCmd(), newParseCmd(), newLabelCmd(), newTokenCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
