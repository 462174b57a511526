package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestReader(t *testing.T) {
	r := NewReader("  TAKE   the Rusty  Key ")
	assert.Equal(t, "take", r.Verb())
	assert.Equal(t, 3, r.Remaining())
	assert.Equal(t, "Rusty Key", r.Rest())
	assert.Equal(t, 0, r.Remaining())
	assert.Equal(t, "", r.Next())
	assert.Equal(t, "", r.Rest())

	r = NewReader("save slot-2 extra")
	assert.Equal(t, "slot-2", r.Next())
	assert.Equal(t, "extra", r.Next())

	r = NewReader(`@dispatch {"type": "ADD_MESSAGE", "payload": {"text": "a  b"}}`)
	assert.Equal(t, `{"type": "ADD_MESSAGE", "payload": {"text": "a  b"}}`, r.Raw())

	r = NewReader("   ")
	assert.Equal(t, "", r.Verb())
	assert.Equal(t, "", r.Raw())
}

func TestReaderFillersOnlyAtFront(t *testing.T) {
	r := NewReader("go to the hall of the king")
	assert.Equal(t, "hall of the king", r.Rest())
}

func TestDispatchRoutesVerbsAndAliases(t *testing.T) {
	reg := NewRegistry(nil)
	var got []string
	reg.Register("look", []string{"l"}, []Privilege{PrivPlayer, PrivEditor}, "describe", func(_ context.Context, r *Reader) error {
		got = append(got, "look:"+r.Rest())
		return nil
	})

	ctx := context.Background()
	require.NoError(t, reg.Dispatch(ctx, PrivPlayer, "LOOK"))
	require.NoError(t, reg.Dispatch(ctx, PrivPlayer, "l at statue"))
	require.NoError(t, reg.Dispatch(ctx, PrivPlayer, ""))
	assert.Equal(t, []string{"look:", "look:statue"}, got)

	err := reg.Dispatch(ctx, PrivPlayer, "dance")
	assert.ErrorIs(t, err, ErrUnknownVerb)
}

func TestDispatchEnforcesPrivilege(t *testing.T) {
	reg := NewRegistry(nil)
	called := false
	reg.Register("@tp", nil, []Privilege{PrivEditor}, "teleport", func(context.Context, *Reader) error {
		called = true
		return nil
	})
	reg.Register("look", nil, []Privilege{PrivPlayer, PrivEditor}, "describe", func(context.Context, *Reader) error { return nil })

	ctx := context.Background()
	assert.ErrorIs(t, reg.Dispatch(ctx, PrivPlayer, "@tp 3"), ErrUnknownVerb)
	assert.False(t, called)
	require.NoError(t, reg.Dispatch(ctx, PrivEditor, "@tp 3"))
	assert.True(t, called)

	assert.Equal(t, []Verb{{Name: "look", Help: "describe"}}, reg.Verbs(PrivPlayer))
	assert.Len(t, reg.Verbs(PrivEditor), 2)
}

func TestDispatchRecoversPanics(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	reg := NewRegistry(zap.New(core))
	reg.Register("boom", nil, []Privilege{PrivPlayer}, "", func(context.Context, *Reader) error {
		panic("kaboom")
	})
	reg.Register("quit", nil, []Privilege{PrivPlayer}, "", func(context.Context, *Reader) error {
		return ErrQuit
	})

	ctx := context.Background()
	err := reg.Dispatch(ctx, PrivPlayer, "boom")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kaboom")
	assert.Equal(t, 1, logs.FilterMessage("handler panic recovered").Len())

	assert.ErrorIs(t, reg.Dispatch(ctx, PrivPlayer, "quit"), ErrQuit)
}

func TestPrivilegeString(t *testing.T) {
	assert.Equal(t, "player", PrivPlayer.String())
	assert.Equal(t, "editor", PrivEditor.String())
	assert.Equal(t, "Unknown(7)", Privilege(7).String())
}
