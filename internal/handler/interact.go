package handler

import (
	"context"

	"go.uber.org/zap"

	"github.com/diegesis/engine/internal/command"
)

// HandleTalk interacts with an entity, running its ON_INTERACT scripts.
// Without a matching script the session narrates the fallback message.
func HandleTalk(_ context.Context, r *command.Reader, deps *Deps) error {
	e, ok := deps.near(r.Rest())
	if !ok {
		return nil
	}
	fired := deps.Session.Interact(e.ID)
	deps.Log.Debug("interact",
		zap.Stringer("entity", e.ID),
		zap.String("alias", e.Alias),
		zap.Bool("scripted", fired),
	)
	return nil
}
