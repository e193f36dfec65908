package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/harun/sesh/internal/config"
	"github.com/harun/sesh/internal/logger"
	"github.com/harun/sesh/internal/metrics"
	"github.com/harun/sesh/pkg/session"
	"github.com/harun/sesh/pkg/workspace"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// app is everything a command needs, built from config and global flags
type app struct {
	cfg       *config.Config
	workdir   string
	fs        afero.Fs
	logger    *logger.Logger
	workspace *workspace.Workspace
	metrics   *metrics.Metrics
	sessions  *session.Service
}

// loadConfig loads and validates the config, applying --log-level
func loadConfig(cmd *cobra.Command, opts *rootOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.cfgFile)
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("log-level") {
		cfg.Logging.Level = opts.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// resolveWorkdir returns the absolute working directory for local sessions
func resolveWorkdir(opts *rootOptions) (string, error) {
	if opts.workdir == "" {
		return os.Getwd()
	}
	return filepath.Abs(opts.workdir)
}

// newApp wires config, logging, the workspace host and the session service
func newApp(cmd *cobra.Command, opts *rootOptions) (*app, error) {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return nil, err
	}

	workdir, err := resolveWorkdir(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve working directory: %w", err)
	}

	lg, err := logger.New(logger.Config{
		Level:    cfg.Logging.Level,
		File:     cfg.Logging.File,
		Console:  cfg.Logging.Console,
		Pretty:   true,
		Out:      cmd.ErrOrStderr(),
		MaxSize:  cfg.Logging.MaxSize,
		MaxAge:   cfg.Logging.MaxAge,
		Compress: cfg.Logging.Compress,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	fs := afero.NewOsFs()
	getwd := func() (string, error) { return workdir, nil }

	ws, err := workspace.New(fs, workspace.Config{
		StateFile: cfg.Workspace.StateFile,
		Getwd:     getwd,
	})
	if err != nil {
		lg.Close()
		return nil, fmt.Errorf("failed to open workspace: %w", err)
	}

	m := metrics.NewMetrics()
	zl := lg.GetZerolog()

	svc, err := session.NewService(session.ServiceOptions{
		Config:    cfg.Sessions,
		Fs:        fs,
		Getwd:     getwd,
		Snapshots: ws,
		Documents: ws,
		Current:   ws,
		Reporter: session.ReporterFunc(func(message string) {
			fmt.Fprintln(cmd.ErrOrStderr(), message)
		}),
		Observer: m,
		Logger:   &zl,
	})
	if err != nil {
		lg.Close()
		return nil, err
	}

	log.Debug().
		Str("workdir", workdir).
		Str("directory", cfg.Sessions.Directory).
		Str("local_file_name", cfg.Sessions.LocalFileName).
		Msg("sesh initialized")

	return &app{
		cfg:       cfg,
		workdir:   workdir,
		fs:        fs,
		logger:    lg,
		workspace: ws,
		metrics:   m,
		sessions:  svc,
	}, nil
}

// close releases the log file
func (a *app) close() {
	if err := a.logger.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to close log file: %v\n", err)
	}
}

// actionOptions starts from the configured defaults for action and applies
// --force and --verbose only when they were given.
func actionOptions(cmd *cobra.Command, cfg session.Config, action session.Action) (session.Options, error) {
	opts := cfg.Defaults(action)

	if cmd.Flags().Changed("force") {
		force, err := cmd.Flags().GetBool("force")
		if err != nil {
			return opts, err
		}
		opts.Force = force
	}
	if cmd.Flags().Changed("verbose") {
		verbose, err := cmd.Flags().GetBool("verbose")
		if err != nil {
			return opts, err
		}
		opts.Verbose = verbose
	}

	return opts, nil
}

// targetFromArgs maps an optional positional name onto a session.Target
func targetFromArgs(args []string) session.Target {
	if len(args) == 0 {
		return session.Default()
	}
	return session.Named(args[0])
}
