// Package cartridge reads, validates and writes world definitions in their
// JSON and YAML interchange forms.
package cartridge

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/diegesis/engine/internal/core/ecs"
	"github.com/diegesis/engine/internal/core/types"
	"github.com/diegesis/engine/internal/world"
)

// ErrMalformed is returned for input that does not describe a world.
var ErrMalformed = errors.New("malformed world definition")

// Format selects the encoding of a cartridge file.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

// FormatOf picks the encoding from a file extension; anything that is not
// .yaml or .yml is JSON.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// probe mirrors world.Definition with pointer fields so absent required
// sections can be told apart from empty ones.
type probe struct {
	Meta      *world.Meta                   `json:"meta" yaml:"meta"`
	Entities  map[types.EntityID]ecs.Entity `json:"entities" yaml:"entities"`
	Start     world.Start                   `json:"start" yaml:"start"`
	Variables map[string]any                `json:"variables" yaml:"variables"`
}

func (p probe) definition() (world.Definition, error) {
	var meta world.Meta
	if p.Meta != nil {
		meta = *p.Meta
	}
	def := world.Definition{
		Meta:      meta,
		Entities:  p.Entities,
		Start:     p.Start,
		Variables: p.Variables,
	}
	if err := Check(def); err != nil {
		return world.Definition{}, err
	}
	for id, e := range p.Entities {
		if id <= types.NilEntityID {
			return world.Definition{}, fmt.Errorf("%w: entity key %d is not a positive id", ErrMalformed, id)
		}
		e.ID = id
		p.Entities[id] = e
	}
	return def, nil
}

// Check rejects a definition without a meta section or an entity table.
// A meta whose fields are all empty counts as missing.
func Check(def world.Definition) error {
	if def.Meta == (world.Meta{}) {
		return fmt.Errorf("%w: missing meta", ErrMalformed)
	}
	if def.Entities == nil {
		return fmt.Errorf("%w: missing entities", ErrMalformed)
	}
	return nil
}

// Decode parses and validates a JSON world definition.
func Decode(data []byte) (world.Definition, error) {
	var p probe
	if err := json.Unmarshal(data, &p); err != nil {
		return world.Definition{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return p.definition()
}

// DecodeYAML parses and validates a YAML world definition.
func DecodeYAML(data []byte) (world.Definition, error) {
	var p probe
	if err := yaml.Unmarshal(data, &p); err != nil {
		return world.Definition{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return p.definition()
}

// Encode renders a definition as indented JSON.
func Encode(def world.Definition) ([]byte, error) {
	out, err := json.MarshalIndent(def, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode world definition: %w", err)
	}
	return out, nil
}

// EncodeYAML renders a definition as YAML.
func EncodeYAML(def world.Definition) ([]byte, error) {
	out, err := yaml.Marshal(def)
	if err != nil {
		return nil, fmt.Errorf("encode world definition: %w", err)
	}
	return out, nil
}

// LoadFile reads a cartridge, choosing the decoder by extension.
func LoadFile(path string) (world.Definition, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return world.Definition{}, fmt.Errorf("read cartridge: %w", err)
	}
	var def world.Definition
	if FormatOf(path) == FormatYAML {
		def, err = DecodeYAML(raw)
	} else {
		def, err = Decode(raw)
	}
	if err != nil {
		return world.Definition{}, fmt.Errorf("parse cartridge %s: %w", filepath.Base(path), err)
	}
	return def, nil
}

// WriteFile writes a cartridge, choosing the encoder by extension.
func WriteFile(path string, def world.Definition) error {
	var (
		out []byte
		err error
	)
	if FormatOf(path) == FormatYAML {
		out, err = EncodeYAML(def)
	} else {
		out, err = Encode(def)
	}
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("write cartridge: %w", err)
	}
	return nil
}
