package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/harun/sesh/internal/config"
	"github.com/harun/sesh/pkg/workspace"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newWatchCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Keep the session list current and autosave",
		Long: `Watch the global session directory and the local session file, rescanning
whenever they change. With watch.autosave set, the current session is written
on that schedule. With watch.metrics_addr set, Prometheus metrics are served
on /metrics. Runs until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runWatch(ctx, cmd, opts)
		},
	}
}

// runWatch owns the session service; watcher, cron and HTTP goroutines only
// signal it over channels.
func runWatch(ctx context.Context, cmd *cobra.Command, opts *rootOptions) error {
	a, err := newApp(cmd, opts)
	if err != nil {
		return err
	}
	defer a.close()

	out := cmd.OutOrStdout()
	cfg := a.cfg

	watcherCfg := workspace.WatcherConfig{
		StabilityThreshold: time.Duration(cfg.Watch.DebounceMs) * time.Millisecond,
	}
	if cfg.Sessions.Directory != "" {
		if err := a.fs.MkdirAll(cfg.Sessions.Directory, 0755); err != nil {
			return fmt.Errorf("failed to create session directory: %w", err)
		}
		watcherCfg.Dirs = []string{cfg.Sessions.Directory}
	}
	if cfg.Sessions.LocalFileName != "" {
		watcherCfg.Files = []string{filepath.Join(a.workdir, cfg.Sessions.LocalFileName)}
	}

	watcher, err := workspace.NewWatcher(watcherCfg)
	if err != nil {
		return err
	}
	if err := watcher.Start(); err != nil {
		return err
	}
	defer watcher.Stop()

	autosave := make(chan struct{}, 1)
	if cfg.Watch.Autosave != "" {
		scheduler := cron.New(cron.WithParser(config.AutosaveParser))
		if _, err := scheduler.AddFunc(cfg.Watch.Autosave, func() {
			select {
			case autosave <- struct{}{}:
			default:
			}
		}); err != nil {
			return fmt.Errorf("invalid autosave schedule: %w", err)
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	if cfg.Watch.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", a.metrics.Handler())
		server := &http.Server{
			Addr:              cfg.Watch.MetricsAddr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}

		go func() {
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Str("addr", cfg.Watch.MetricsAddr).Msg("Metrics server failed")
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Shutdown(shutdownCtx)
		}()

		log.Info().Str("addr", cfg.Watch.MetricsAddr).Msg("Serving metrics")
	}

	a.sessions.Detect()
	fmt.Fprintf(out, "Watching sessions (%d known)\n", len(a.sessions.Records()))

	for {
		select {
		case <-ctx.Done():
			fmt.Fprintln(out, "Stopped watching")
			return nil

		case path := <-watcher.Events():
			a.sessions.Detect()
			log.Info().Str("path", path).Int("sessions", len(a.sessions.Records())).Msg("Sessions changed")
			fmt.Fprintf(out, "Sessions changed: %s (%d known)\n", filepath.Base(path), len(a.sessions.Records()))

		case <-autosave:
			if err := autoWrite(a); err != nil {
				log.Error().Err(err).Msg("Autosave failed")
			}
		}
	}
}
