package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/harun/sesh/internal/logger"
	"github.com/harun/sesh/pkg/workspace"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func newDocsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docs",
		Short: "Manage open documents in the workspace",
	}

	cmd.AddCommand(
		newDocsOpenCmd(opts),
		newDocsListCmd(opts),
		newDocsDirtyCmd(opts),
		newDocsCloseCmd(opts),
	)
	return cmd
}

// openWorkspace loads the workspace without building the session service
func openWorkspace(cmd *cobra.Command, opts *rootOptions) (*workspace.Workspace, func(), error) {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return nil, nil, err
	}

	workdir, err := resolveWorkdir(opts)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve working directory: %w", err)
	}

	lg, err := logger.New(logger.Config{
		Level:   cfg.Logging.Level,
		Console: cfg.Logging.Console,
		Pretty:  true,
		Out:     cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	ws, err := workspace.New(afero.NewOsFs(), workspace.Config{
		StateFile: cfg.Workspace.StateFile,
		Getwd:     func() (string, error) { return workdir, nil },
	})
	if err != nil {
		lg.Close()
		return nil, nil, fmt.Errorf("failed to open workspace: %w", err)
	}

	return ws, func() { lg.Close() }, nil
}

func newDocsOpenCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "open <path>...",
		Short: "Open documents",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, done, err := openWorkspace(cmd, opts)
			if err != nil {
				return err
			}
			defer done()

			for _, path := range args {
				doc, err := ws.Open(path)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", doc.ID, doc.Path)
			}
			return nil
		},
	}
}

func newDocsListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List open documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, done, err := openWorkspace(cmd, opts)
			if err != nil {
				return err
			}
			defer done()

			out := cmd.OutOrStdout()
			if current := ws.CurrentSessionPath(); current != "" {
				fmt.Fprintf(out, "Current session: %s\n", current)
			}

			docs := ws.Documents()
			if len(docs) == 0 {
				fmt.Fprintln(out, "No open documents")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tDIRTY\tOPENED\tPATH")
			for _, doc := range docs {
				dirty := ""
				if doc.Dirty {
					dirty = "*"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					doc.ID,
					dirty,
					doc.OpenedAt.Local().Format(time.DateTime),
					doc.Path,
				)
			}
			return w.Flush()
		},
	}
}

func newDocsDirtyCmd(opts *rootOptions) *cobra.Command {
	var clean bool

	cmd := &cobra.Command{
		Use:   "dirty <id>",
		Short: "Mark a document as having unsaved changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, done, err := openWorkspace(cmd, opts)
			if err != nil {
				return err
			}
			defer done()

			return ws.SetDirty(args[0], !clean)
		},
	}

	cmd.Flags().BoolVar(&clean, "clean", false, "mark the document as saved instead")
	return cmd
}

func newDocsCloseCmd(opts *rootOptions) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "close <id>",
		Short: "Close a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, done, err := openWorkspace(cmd, opts)
			if err != nil {
				return err
			}
			defer done()

			return ws.Close(args[0], force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "close even with unsaved changes")
	return cmd
}
