package cartridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/diegesis/engine/internal/world"
)

func custom(version string) *world.Definition {
	def := Default()
	def.Meta.Title = "Custom"
	def.Meta.Version = version
	return &def
}

func TestResolveVersionGate(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log := zap.New(core)

	got := Resolve(custom("2.0.1"), "2.0.1", log)
	assert.Equal(t, "Custom", got.Meta.Title)
	assert.Equal(t, 0, logs.Len())

	got = Resolve(custom("1.9.0"), "2.0.1", log)
	assert.Equal(t, Default(), got, "a mismatch falls back to the built-in world")
	assert.Equal(t, 1, logs.FilterMessage("persisted world version mismatch, using built-in world").Len())

	assert.Equal(t, Default(), Resolve(nil, "2.0.1", nil))
}

func TestResolveMismatchMatchesFreshState(t *testing.T) {
	got := world.FromDefinition(Resolve(custom("0.1"), "2.0.1", nil))
	want := world.FromDefinition(Default())
	assert.Equal(t, want, got)
}

func TestCompatibleIsExact(t *testing.T) {
	def := Default()
	assert.True(t, Compatible(def, "2.0.1"))
	assert.False(t, Compatible(def, "2.0"))
	assert.False(t, Compatible(def, "2.0.1 "))
}
