package cli

import (
	"github.com/spf13/cobra"
)

const version = "0.1.0"

// rootOptions holds the global flags shared by every command
type rootOptions struct {
	cfgFile  string
	logLevel string
	workdir  string
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = NewRootCmd()

// NewRootCmd builds a fresh command tree
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "sesh",
		Short: "sesh - named workspace session files",
		Long: `sesh saves and restores the set of open documents as named session files.
Global sessions live in one directory; a local session lives in the working
directory under a fixed file name and takes precedence when both exist.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "config file (default is $HOME/.sesh/sesh.json)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&opts.workdir, "workdir", "", "working directory for local sessions (default is the current directory)")

	// Version template
	cmd.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "version %s" .Version}}
`)

	cmd.AddCommand(
		newListCmd(opts),
		newLatestCmd(opts),
		newReadCmd(opts),
		newWriteCmd(opts),
		newDeleteCmd(opts),
		newStartupCmd(opts),
		newShutdownCmd(opts),
		newWatchCmd(opts),
		newDocsCmd(opts),
		newConfigCmd(opts),
	)

	return cmd
}

// Execute runs the root command. This is called by main.main().
func Execute() error {
	return rootCmd.Execute()
}

// GetRootCmd returns the root command
func GetRootCmd() *cobra.Command {
	return rootCmd
}

// GetVersion returns the current version
func GetVersion() string {
	return version
}
