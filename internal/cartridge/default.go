package cartridge

import (
	_ "embed"
	"sync"

	"go.uber.org/zap"

	"github.com/diegesis/engine/internal/world"
)

//go:embed default_world.yaml
var defaultWorld []byte

var parseDefault = sync.OnceValues(func() (world.Definition, error) {
	return DecodeYAML(defaultWorld)
})

// Default returns the built-in world definition. The embedded file is part
// of the binary, so a decode failure is a build defect and panics.
func Default() world.Definition {
	def, err := parseDefault()
	if err != nil {
		panic("cartridge: built-in world: " + err.Error())
	}
	return def.Clone()
}

// Compatible reports whether a persisted definition may be auto-loaded by
// an engine expecting the given version.
func Compatible(def world.Definition, expected string) bool {
	return def.Meta.Version == expected
}

// Resolve picks the definition a session should start from: the persisted
// one when present and its version matches exactly, else the built-in world.
// A mismatch is not an error and is only noted in the log.
func Resolve(persisted *world.Definition, expected string, log *zap.Logger) world.Definition {
	if log == nil {
		log = zap.NewNop()
	}
	if persisted == nil {
		return Default()
	}
	if !Compatible(*persisted, expected) {
		log.Info("persisted world version mismatch, using built-in world",
			zap.String("found", persisted.Meta.Version),
			zap.String("expected", expected),
			zap.String("title", persisted.Meta.Title),
		)
		return Default()
	}
	return persisted.Clone()
}
