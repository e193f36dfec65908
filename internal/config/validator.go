package config

import (
	"fmt"
	"net"
	"strings"

	"github.com/robfig/cron/v3"
	"github.com/xeipuuv/gojsonschema"
)

// Schema is the JSON schema for the sesh config file
const Schema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "sessions": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "directory": {"type": "string"},
        "local_file_name": {"type": "string"},
        "auto_read": {"type": "boolean"},
        "auto_write": {"type": "boolean"},
        "force": {"$ref": "#/definitions/actionFlags"},
        "verbose": {"$ref": "#/definitions/actionFlags"}
      }
    },
    "workspace": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "state_file": {"type": "string"}
      }
    },
    "logging": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "level": {"enum": ["debug", "info", "warn", "error"]},
        "file": {"type": "string"},
        "console": {"type": "boolean"},
        "max_size": {"type": "integer", "minimum": 0},
        "max_age": {"type": "integer", "minimum": 0},
        "compress": {"type": "boolean"}
      }
    },
    "watch": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "debounce_ms": {"type": "integer", "minimum": 0},
        "metrics_addr": {"type": "string"},
        "autosave": {"type": "string"}
      }
    },
    "data_dir": {"type": "string"}
  },
  "definitions": {
    "actionFlags": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "read": {"type": "boolean"},
        "write": {"type": "boolean"},
        "delete": {"type": "boolean"}
      }
    }
  }
}`

// AutosaveParser parses watch.autosave: five cron fields or a descriptor
// such as "@every 5m".
var AutosaveParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// Validator validates configuration values
type Validator struct {
	schemaLoader gojsonschema.JSONLoader
}

// NewValidator creates a new validator
func NewValidator() *Validator {
	return &Validator{
		schemaLoader: gojsonschema.NewStringLoader(Schema),
	}
}

// ValidateSchema checks raw config file content against Schema
func (v *Validator) ValidateSchema(data []byte) []error {
	result, err := gojsonschema.Validate(v.schemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return []error{fmt.Errorf("schema validation error: %w", err)}
	}

	var errors []error
	for _, desc := range result.Errors() {
		errors = append(errors, fmt.Errorf("%s", desc.String()))
	}
	return errors
}

// ValidateLogLevel validates log level
func (v *Validator) ValidateLogLevel(level string) error {
	validLevels := []string{"debug", "info", "warn", "error"}
	for _, valid := range validLevels {
		if level == valid {
			return nil
		}
	}
	return fmt.Errorf("invalid log level: %s (must be one of: %s)", level, strings.Join(validLevels, ", "))
}

// ValidateAutosave validates the autosave schedule
func (v *Validator) ValidateAutosave(expr string) error {
	if expr == "" {
		return nil // Autosave disabled
	}
	if _, err := AutosaveParser.Parse(expr); err != nil {
		return fmt.Errorf("invalid watch.autosave schedule %q: %w", expr, err)
	}
	return nil
}

// ValidateMetricsAddr validates the metrics listen address
func (v *Validator) ValidateMetricsAddr(addr string) error {
	if addr == "" {
		return nil // Metrics disabled
	}
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return fmt.Errorf("invalid watch.metrics_addr %q: %w", addr, err)
	}
	return nil
}

// ValidateConfig performs comprehensive validation
func (v *Validator) ValidateConfig(cfg *Config) []error {
	var errors []error

	if err := cfg.Validate(); err != nil {
		errors = append(errors, err)
	}

	if err := v.ValidateLogLevel(cfg.Logging.Level); err != nil {
		errors = append(errors, err)
	}
	if cfg.Logging.MaxSize < 0 {
		errors = append(errors, fmt.Errorf("logging.max_size must be >= 0"))
	}
	if cfg.Logging.MaxAge < 0 {
		errors = append(errors, fmt.Errorf("logging.max_age must be >= 0"))
	}

	if err := v.ValidateAutosave(cfg.Watch.Autosave); err != nil {
		errors = append(errors, err)
	}
	if err := v.ValidateMetricsAddr(cfg.Watch.MetricsAddr); err != nil {
		errors = append(errors, err)
	}

	if cfg.Watch.Autosave != "" && !cfg.Sessions.AutoWrite {
		errors = append(errors, fmt.Errorf("watch.autosave requires sessions.auto_write"))
	}

	return errors
}
