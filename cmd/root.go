package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the conflictfewer application
var rootCmd = &cobra.Command{
	Use:   "conflictfewer",
	Short: "Conflict-aware scheduling across multiple Google calendars",
	Long: `conflictfewer resolves calendar requests against all of your calendars
before anything is written: creations are blocked when they overlap an
existing event (alternative slots are offered instead), and ambiguous
update or delete requests come back as a clarification instead of a guess.

It can run as:
  - An MCP (Model Context Protocol) server for AI assistants (default)
  - A standalone CLI applying scheduling plans from YAML files`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "conflictfewer version %s\n" .Version}}`)

	// If no subcommand is provided, run the serve command by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newApplyCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newGenerateDocsCmd())
}
