package config

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Wizard provides an interactive configuration wizard
type Wizard struct {
	reader *bufio.Reader
	out    io.Writer
}

// NewWizard creates a wizard reading answers from in and prompting on out
func NewWizard(in io.Reader, out io.Writer) *Wizard {
	return &Wizard{
		reader: bufio.NewReader(in),
		out:    out,
	}
}

// Run walks through the settings, starting from base. Empty answers keep the
// value shown in brackets.
func (w *Wizard) Run(base *Config) (*Config, error) {
	cfg := *base
	validator := NewValidator()

	fmt.Fprintln(w.out, "=== sesh configuration ===")
	fmt.Fprintln(w.out)

	// Global sessions
	for {
		dir, err := w.ask("Global session directory (\"-\" disables)", cfg.Sessions.Directory)
		if err != nil {
			return nil, err
		}
		if dir == "-" {
			dir = ""
		}
		if dir != "" && !filepath.IsAbs(expandHome(dir)) {
			fmt.Fprintln(w.out, "Error: directory must be an absolute path")
			continue
		}
		cfg.Sessions.Directory = expandHome(dir)
		break
	}

	// Local sessions
	for {
		name, err := w.ask("Local session file name (\"-\" disables)", cfg.Sessions.LocalFileName)
		if err != nil {
			return nil, err
		}
		if name == "-" {
			name = ""
		}
		probe := cfg.Sessions
		probe.LocalFileName = name
		if err := probe.Validate(); err != nil {
			fmt.Fprintf(w.out, "Error: %v\n", err)
			continue
		}
		cfg.Sessions.LocalFileName = name
		break
	}

	var err error
	if cfg.Sessions.AutoRead, err = w.confirm("Read a session automatically on startup?", cfg.Sessions.AutoRead); err != nil {
		return nil, err
	}
	if cfg.Sessions.AutoWrite, err = w.confirm("Write the current session automatically on shutdown?", cfg.Sessions.AutoWrite); err != nil {
		return nil, err
	}

	if cfg.Sessions.AutoWrite {
		for {
			expr, err := w.ask("Autosave schedule for `sesh watch` (cron or @every, \"-\" disables)", cfg.Watch.Autosave)
			if err != nil {
				return nil, err
			}
			if expr == "-" {
				expr = ""
			}
			if err := validator.ValidateAutosave(expr); err != nil {
				fmt.Fprintf(w.out, "Error: %v\n", err)
				continue
			}
			cfg.Watch.Autosave = expr
			break
		}
	} else {
		cfg.Watch.Autosave = ""
	}

	level, err := w.ask("Log level (debug/info/warn/error)", cfg.Logging.Level)
	if err != nil {
		return nil, err
	}
	if err := validator.ValidateLogLevel(level); err != nil {
		fmt.Fprintf(w.out, "Warning: %v, keeping %s\n", err, cfg.Logging.Level)
	} else {
		cfg.Logging.Level = level
	}

	fmt.Fprintln(w.out)
	fmt.Fprintln(w.out, "Configuration complete!")

	return &cfg, nil
}

func (w *Wizard) ask(prompt, current string) (string, error) {
	fmt.Fprintf(w.out, "%s [%s]: ", prompt, current)
	answer, err := w.readLine()
	if err != nil {
		return "", err
	}
	if answer == "" {
		return current, nil
	}
	return answer, nil
}

func (w *Wizard) confirm(prompt string, current bool) (bool, error) {
	def := "n"
	if current {
		def = "y"
	}
	answer, err := w.ask(prompt+" (y/n)", def)
	if err != nil {
		return false, err
	}
	return strings.HasPrefix(strings.ToLower(answer), "y"), nil
}

func (w *Wizard) readLine() (string, error) {
	line, err := w.reader.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
