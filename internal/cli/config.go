package cli

import (
	"fmt"
	"os"

	"github.com/harun/sesh/internal/config"
	"github.com/spf13/cobra"
)

func newConfigCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and create the configuration file",
	}

	cmd.AddCommand(
		newConfigShowCmd(opts),
		newConfigValidateCmd(opts),
		newConfigInitCmd(opts),
	)
	return cmd
}

func newConfigShowCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.cfgFile)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cfg.String())
			return nil
		},
	}
}

func newConfigValidateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the configuration file for errors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			loader := config.NewLoader(opts.cfgFile)
			validator := config.NewValidator()
			out := cmd.OutOrStdout()

			var problems []error

			data, err := os.ReadFile(loader.GetConfigPath())
			switch {
			case err == nil:
				problems = append(problems, validator.ValidateSchema(data)...)
			case os.IsNotExist(err):
				fmt.Fprintf(out, "No config file at %s, checking defaults\n", loader.GetConfigPath())
			default:
				return fmt.Errorf("failed to read config file: %w", err)
			}

			if len(problems) == 0 {
				cfg, err := loader.Load()
				if err != nil {
					return err
				}
				problems = append(problems, validator.ValidateConfig(cfg)...)
			}

			if len(problems) > 0 {
				for _, p := range problems {
					fmt.Fprintf(out, "- %v\n", p)
				}
				return fmt.Errorf("configuration has %d problem(s)", len(problems))
			}

			fmt.Fprintln(out, "Configuration is valid")
			return nil
		},
	}
}

func newConfigInitCmd(opts *rootOptions) *cobra.Command {
	var (
		force       bool
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a configuration file with default values",
		Long: `Write a configuration file with default values, or run an interactive wizard
with --interactive. An existing file is only replaced with --force.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			loader := config.NewLoader(opts.cfgFile)
			configPath := loader.GetConfigPath()

			if _, err := os.Stat(configPath); err == nil && !force {
				return fmt.Errorf("config file already exists: %s (use --force to replace it)", configPath)
			}

			cfg, err := loader.Load()
			if err != nil {
				return err
			}

			if interactive {
				cfg, err = config.NewWizard(cmd.InOrStdin(), cmd.OutOrStdout()).Run(cfg)
				if err != nil {
					return fmt.Errorf("configuration failed: %w", err)
				}
			}

			if errs := config.NewValidator().ValidateConfig(cfg); len(errs) > 0 {
				return fmt.Errorf("invalid configuration: %v", errs[0])
			}

			if err := loader.Save(cfg); err != nil {
				return fmt.Errorf("failed to save configuration: %w", err)
			}

			if cfg.Sessions.Directory != "" {
				if err := os.MkdirAll(cfg.Sessions.Directory, 0755); err != nil {
					return fmt.Errorf("failed to create session directory: %w", err)
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Configuration saved to: %s\n", configPath)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "replace an existing config file")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "run the configuration wizard")
	return cmd
}
