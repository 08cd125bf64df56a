package decision

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"HotelSim/internal/model"

	"gopkg.in/yaml.v3"
)

// ErrNoValue is returned when a single-field update carries a null or empty value.
var ErrNoValue = errors.New("no value given")

// Load reads a YAML decision sheet from path on top of base.
// Fields missing from the file keep their value from base.
func Load(path string, base model.Decisions) (model.Decisions, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("read decisions: %w", err)
	}
	return Parse(data, base)
}

// Parse decodes a YAML decision sheet on top of base. Unknown keys are rejected.
func Parse(data []byte, base model.Decisions) (model.Decisions, error) {
	out := base
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&out); err != nil {
		if errors.Is(err, io.EOF) {
			return base, nil
		}
		return base, fmt.Errorf("parse decisions: %w", err)
	}
	return out, nil
}

// ParseField sets one field of base from its YAML value. Null and empty values
// are rejected instead of leaving the field silently unchanged.
func ParseField(field, value string, base model.Decisions) (model.Decisions, error) {
	var v any
	if err := yaml.Unmarshal([]byte(value), &v); err != nil {
		return base, fmt.Errorf("parse %s: %w", field, err)
	}
	if v == nil {
		return base, fmt.Errorf("%s: %w", field, ErrNoValue)
	}
	return Parse([]byte(field+": "+value), base)
}
