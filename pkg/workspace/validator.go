package workspace

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// SnapshotSchema is the JSON schema every session file must satisfy
const SnapshotSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["version", "id", "created_at", "documents"],
  "properties": {
    "version": {"type": "integer", "minimum": 1, "maximum": 1},
    "id": {"type": "string", "minLength": 1},
    "created_at": {"type": "string", "minLength": 1},
    "cwd": {"type": "string"},
    "documents": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["path"],
        "properties": {
          "path": {"type": "string", "minLength": 1},
          "dirty": {"type": "boolean"}
        }
      }
    }
  }
}`

// SnapshotValidator validates raw session file content
type SnapshotValidator struct {
	schemaLoader gojsonschema.JSONLoader
}

// NewSnapshotValidator creates a validator for SnapshotSchema
func NewSnapshotValidator() *SnapshotValidator {
	return &SnapshotValidator{
		schemaLoader: gojsonschema.NewStringLoader(SnapshotSchema),
	}
}

// Validate checks data against the snapshot schema. Failures wrap
// ErrInvalidSnapshot.
func (v *SnapshotValidator) Validate(data []byte) error {
	result, err := gojsonschema.Validate(v.schemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}

	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}
		return fmt.Errorf("%w: %s", ErrInvalidSnapshot, strings.Join(msgs, "; "))
	}

	return nil
}
