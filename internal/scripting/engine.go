package scripting

import (
	"go.uber.org/zap"

	"github.com/diegesis/engine/internal/component"
	"github.com/diegesis/engine/internal/world"
)

// Engine evaluates entity scripts against a game state and compiles the
// winning script's effects into world actions. It never mutates state;
// callers dispatch the returned actions in order.
type Engine struct {
	log *zap.Logger
}

// NewEngine creates a script engine. Unknown condition and effect kinds are
// reported on log as warnings.
func NewEngine(log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{log: log}
}

// EvaluateConditions reports whether every condition holds. An empty list
// always holds. Unknown kinds evaluate to false.
func (e *Engine) EvaluateConditions(s world.State, conds []component.Condition) bool {
	for _, c := range conds {
		switch c.Type {
		case component.ConditionFlagTrue:
			if !s.Flag(c.Flag) {
				return false
			}
		case component.ConditionFlagFalse:
			if s.Flag(c.Flag) {
				return false
			}
		default:
			e.log.Warn("unknown script condition",
				zap.String("type", string(c.Type)),
				zap.String("flag", c.Flag),
			)
			return false
		}
	}
	return true
}

// ProcessEffects translates effects into actions, preserving order.
// Unknown kinds are skipped.
func (e *Engine) ProcessEffects(effects []component.Effect) []world.Action {
	actions := make([]world.Action, 0, len(effects))
	for _, fx := range effects {
		switch fx.Type {
		case component.EffectSetFlag:
			actions = append(actions, world.SetVariable{Key: fx.Flag, Value: fx.Value})
		case component.EffectShowDialogue:
			actions = append(actions, world.AddMessage{Text: fx.Text})
		default:
			e.log.Warn("unknown script effect", zap.String("type", string(fx.Type)))
		}
	}
	return actions
}

// Match returns the first script registered for trigger whose conditions
// hold. Script order is the only tie-break.
func (e *Engine) Match(s world.State, scripts component.Scripts, trigger string) (component.Script, bool) {
	for i, sc := range scripts[trigger] {
		if e.EvaluateConditions(s, sc.Conditions) {
			e.log.Debug("script matched",
				zap.String("trigger", trigger),
				zap.Int("index", i),
				zap.Int("effects", len(sc.Effects)),
			)
			return sc, true
		}
	}
	return component.Script{}, false
}

// ExecuteTrigger returns the effects of the matching script as actions, or
// nil when the trigger has no scripts or none match. Choosing a fallback
// response is up to the caller.
func (e *Engine) ExecuteTrigger(s world.State, scripts component.Scripts, trigger string) []world.Action {
	sc, ok := e.Match(s, scripts, trigger)
	if !ok {
		return nil
	}
	return e.ProcessEffects(sc.Effects)
}
