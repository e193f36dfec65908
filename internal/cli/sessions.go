package cli

import (
	"encoding/json"
	"fmt"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/harun/sesh/pkg/session"
	"github.com/spf13/cobra"
)

func newListCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List known sessions",
		Long:  `Detect sessions and list them, most recently modified first.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.close()

			a.sessions.Detect()
			records := sortedByRecency(a.sessions.Records())

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(records)
			}

			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No sessions found")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tKIND\tMODIFIED\tPATH")
			for _, rec := range records {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					rec.Name,
					rec.Kind,
					rec.ModifiedAt.Local().Format(time.DateTime),
					rec.Path,
				)
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print sessions as JSON")
	return cmd
}

func newLatestCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "latest",
		Short: "Print the most recently modified session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.close()

			a.sessions.Detect()
			name, ok := a.sessions.Latest()
			if !ok {
				return session.ErrEmptyRegistry
			}

			fmt.Fprintln(cmd.OutOrStdout(), name)
			return nil
		},
	}
}

func newReadCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "read [name]",
		Short: "Restore a session",
		Long: `Replace the open documents with those recorded in a session.
Without a name the local session is read if present, otherwise the latest one.
Open documents with unsaved changes block the read unless --force is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAction(cmd, opts, session.ActionRead, args)
		},
	}
	addActionFlags(cmd)
	return cmd
}

func newWriteCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "write [name]",
		Short: "Save the open documents as a session",
		Long: `Save the open documents to a session file. A name equal to the local session
file name writes into the working directory; any other name writes into the
global session directory. Without a name the current session is rewritten.
Existing files are only replaced with --force.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAction(cmd, opts, session.ActionWrite, args)
		},
	}
	addActionFlags(cmd)
	return cmd
}

func newDeleteCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete [name]",
		Short: "Delete a session file",
		Long: `Delete a session file and forget it. Without a name the current session is
deleted. Deleting the current session requires --force.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAction(cmd, opts, session.ActionDelete, args)
		},
	}
	addActionFlags(cmd)
	return cmd
}

func addActionFlags(cmd *cobra.Command) {
	cmd.Flags().BoolP("force", "f", false, "override safety checks (default from config)")
	cmd.Flags().BoolP("verbose", "v", false, "report the outcome (default from config)")
}

// runAction detects sessions and runs one of read, write or delete
func runAction(cmd *cobra.Command, opts *rootOptions, action session.Action, args []string) error {
	a, err := newApp(cmd, opts)
	if err != nil {
		return err
	}
	defer a.close()

	actionOpts, err := actionOptions(cmd, a.cfg.Sessions, action)
	if err != nil {
		return err
	}

	a.sessions.Detect()
	target := targetFromArgs(args)

	switch action {
	case session.ActionRead:
		return a.sessions.Read(target, actionOpts)
	case session.ActionWrite:
		return a.sessions.Write(target, actionOpts)
	case session.ActionDelete:
		return a.sessions.Delete(target, actionOpts)
	default:
		return fmt.Errorf("unknown action: %s", action)
	}
}

// sortedByRecency orders records newest first, breaking ties by name
func sortedByRecency(records []session.Record) []session.Record {
	sorted := make([]session.Record, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].ModifiedAt.Equal(sorted[j].ModifiedAt) {
			return sorted[i].ModifiedAt.After(sorted[j].ModifiedAt)
		}
		return sorted[i].Name < sorted[j].Name
	})
	return sorted
}
