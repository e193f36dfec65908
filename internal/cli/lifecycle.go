package cli

import (
	"errors"

	"github.com/harun/sesh/pkg/session"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newStartupCmd(opts *rootOptions) *cobra.Command {
	var shown bool

	cmd := &cobra.Command{
		Use:   "startup",
		Short: "Host hook: read a session automatically on startup",
		Long: `Run when the editor starts. If sessions.auto_read is enabled and no content
was shown yet, the default session is read. Nothing happens when there are
no sessions.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.close()

			if !session.ShouldAutoRead(shown, a.cfg.Sessions) {
				log.Debug().Bool("shown", shown).Msg("Auto-read skipped")
				return nil
			}

			a.sessions.Detect()
			if len(a.sessions.Records()) == 0 {
				log.Debug().Msg("Auto-read found no sessions")
				return nil
			}

			err = a.sessions.Read(session.Default(), a.cfg.Sessions.Defaults(session.ActionRead))
			if errors.Is(err, session.ErrNoSessions) {
				log.Debug().Msg("Auto-read found no default session")
				return nil
			}
			return err
		},
	}

	cmd.Flags().BoolVar(&shown, "shown", false, "content is already shown")
	return cmd
}

func newShutdownCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "shutdown",
		Short: "Host hook: write the current session automatically on shutdown",
		Long: `Run when the editor exits. If sessions.auto_write is enabled and a session is
current, it is overwritten with the open documents.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.close()

			return autoWrite(a)
		},
	}
}

// autoWrite overwrites the current session when auto-write applies
func autoWrite(a *app) error {
	hasCurrent := a.workspace.CurrentSessionPath() != ""
	if !session.ShouldAutoWrite(hasCurrent, a.cfg.Sessions) {
		log.Debug().Bool("has_current", hasCurrent).Msg("Auto-write skipped")
		return nil
	}

	opts := a.cfg.Sessions.Defaults(session.ActionWrite)
	opts.Force = true
	return a.sessions.Write(session.Default(), opts)
}
