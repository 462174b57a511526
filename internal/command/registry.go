package command

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"

	"go.uber.org/zap"
)

// Privilege gates which verbs a console may use.
type Privilege int

const (
	PrivPlayer Privilege = iota // ordinary play
	PrivEditor                  // world editing and raw action dispatch
)

func (p Privilege) String() string {
	switch p {
	case PrivPlayer:
		return "player"
	case PrivEditor:
		return "editor"
	default:
		return fmt.Sprintf("Unknown(%d)", int(p))
	}
}

// ErrQuit is returned by a handler to end the console loop.
var ErrQuit = errors.New("quit")

// HandlerFunc handles one parsed input line.
type HandlerFunc func(ctx context.Context, r *Reader) error

type handlerEntry struct {
	fn      HandlerFunc
	allowed map[Privilege]bool
	help    string
}

// Registry maps verbs to handlers with privilege-based access control.
type Registry struct {
	handlers map[string]*handlerEntry
	aliases  map[string]string
	log      *zap.Logger
}

func NewRegistry(log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{
		handlers: make(map[string]*handlerEntry),
		aliases:  make(map[string]string),
		log:      log,
	}
}

// Register maps a verb and its aliases to a handler usable at the given
// privileges.
func (reg *Registry) Register(verb string, aliases []string, privs []Privilege, help string, fn HandlerFunc) {
	allowed := make(map[Privilege]bool, len(privs))
	for _, p := range privs {
		allowed[p] = true
	}
	reg.handlers[verb] = &handlerEntry{fn: fn, allowed: allowed, help: help}
	for _, a := range aliases {
		reg.aliases[a] = verb
	}
}

// Verb is one help line.
type Verb struct {
	Name string
	Help string
}

// Verbs lists the verbs usable at priv, sorted by name.
func (reg *Registry) Verbs(priv Privilege) []Verb {
	var out []Verb
	for _, name := range slices.Sorted(maps.Keys(reg.handlers)) {
		e := reg.handlers[name]
		if e.allowed[priv] {
			out = append(out, Verb{Name: name, Help: e.help})
		}
	}
	return out
}

// ErrUnknownVerb is returned for verbs that are not registered or not
// allowed at the caller's privilege.
var ErrUnknownVerb = errors.New("unknown verb")

// Dispatch parses line and calls the handler for its verb. Blank lines are
// ignored. A panicking handler is recovered and reported as an error so one
// bad command cannot end the session.
func (reg *Registry) Dispatch(ctx context.Context, priv Privilege, line string) error {
	r := NewReader(line)
	verb := r.Verb()
	if verb == "" {
		return nil
	}
	if canon, ok := reg.aliases[verb]; ok {
		verb = canon
	}
	reg.log.Debug("command",
		zap.String("verb", verb),
		zap.Int("args", r.Remaining()),
		zap.Stringer("privilege", priv),
	)

	entry, ok := reg.handlers[verb]
	if !ok || !entry.allowed[priv] {
		return fmt.Errorf("%w: %s", ErrUnknownVerb, verb)
	}
	return reg.safeCall(ctx, entry.fn, r, verb)
}

func (reg *Registry) safeCall(ctx context.Context, fn HandlerFunc, r *Reader, verb string) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			reg.log.Error("handler panic recovered",
				zap.String("verb", verb),
				zap.Any("panic", rec),
			)
			err = fmt.Errorf("handler panic for %s: %v", verb, rec)
		}
	}()
	return fn(ctx, r)
}
