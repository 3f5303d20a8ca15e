package main

import (
	"os"

	"github.com/spf13/cobra"
)

var contentPath string

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "termquest-cli",
		Short: "Play the simulated terminal from your own shell",
		Long: `termquest-cli runs the sandbox and quest terminals locally.

Content is read from --content, then $TERMQUEST_CONTENT, then the
built-in world.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&contentPath, "content", "", "Content YAML file")

	rootCmd.AddCommand(newPlayCmd(), newCheckCmd())
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
