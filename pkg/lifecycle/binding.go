package lifecycle

import (
	"errors"
	"fmt"
	"sync"

	"github.com/bft-labs/deeplink/pkg/deeplink"
	"github.com/bft-labs/deeplink/pkg/log"
)

// Common lifecycle errors.
var (
	ErrAlreadyAppeared   = errors.New("lifecycle: screen already appeared")
	ErrNotAppeared       = errors.New("lifecycle: screen not appeared")
	ErrInvalidTransition = errors.New("lifecycle: invalid state transition")
)

// Binding registers a screen's deeplink handler while the screen is visible.
type Binding[L any] struct {
	mu        sync.Mutex
	name      string
	state     State
	handlerID string

	// registering is set while Appear waits for Register; dismissed records
	// a Disappear that arrived during that window.
	registering bool
	dismissed   bool

	registrar Registrar[L]
	handler   deeplink.Handler[L]
	logger    log.Logger
	emitter   EventEmitter
}

// NewBinding creates a detached binding for the named screen.
// logger and emitter may be nil.
func NewBinding[L any](name string, registrar Registrar[L], handler deeplink.Handler[L], logger log.Logger, emitter EventEmitter) *Binding[L] {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Binding[L]{
		name:      name,
		state:     StateDetached,
		registrar: registrar,
		handler:   handler,
		logger:    logger.With(log.Screen(name)),
		emitter:   emitter,
	}
}

// Name returns the screen name.
func (b *Binding[L]) Name() string { return b.name }

// State returns the current state.
func (b *Binding[L]) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// HandlerID returns the id of the registered handler, or "" while the screen
// is not visible.
func (b *Binding[L]) HandlerID() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.handlerID
}

// Appear registers the handler. A pending link is replayed to the handler
// before Appear returns.
//
// If the replayed handler dismisses its own screen, the Disappear call made
// during the replay succeeds and the handler is unregistered as soon as
// Register returns; the binding ends up Disappeared.
func (b *Binding[L]) Appear() error {
	b.mu.Lock()
	if b.state == StateAppeared {
		b.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrAlreadyAppeared, b.name)
	}
	prev := b.state
	// claim the state before registering so a reentrant Appear from the
	// replayed handler is rejected
	b.state = StateAppeared
	b.registering = true
	b.mu.Unlock()

	id := b.registrar.Register(b.handler)

	b.mu.Lock()
	b.registering = false
	dismissed := b.dismissed
	b.dismissed = false
	if dismissed {
		b.state = StateDisappeared
	} else {
		b.handlerID = id
	}
	b.mu.Unlock()

	b.transition(prev, StateAppeared)
	b.logger.Debug("screen appeared", log.HandlerID(id))
	if !dismissed {
		return nil
	}

	b.transition(StateAppeared, StateDisappeared)
	if err := b.registrar.Unregister(id); err != nil {
		b.logger.Error("unregister failed", log.HandlerID(id), log.Err(err))
		return err
	}
	b.logger.Debug("screen dismissed during replay", log.HandlerID(id))
	return nil
}

// Disappear unregisters the handler registered by the last Appear.
func (b *Binding[L]) Disappear() error {
	b.mu.Lock()
	if b.state == StateAppeared && b.registering {
		// Appear finishes the unregistration once it has the id
		b.dismissed = true
		b.mu.Unlock()
		return nil
	}
	if b.state != StateAppeared || b.handlerID == "" {
		b.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNotAppeared, b.name)
	}
	id := b.handlerID
	b.handlerID = ""
	b.state = StateDisappeared
	b.mu.Unlock()

	b.transition(StateAppeared, StateDisappeared)

	if err := b.registrar.Unregister(id); err != nil {
		b.logger.Error("unregister failed", log.HandlerID(id), log.Err(err))
		return err
	}
	b.logger.Debug("screen disappeared", log.HandlerID(id))
	return nil
}

// TransitionTo drives the binding to the requested state, registering or
// unregistering as needed. Transitioning to the current state is a no-op.
func (b *Binding[L]) TransitionTo(next State) error {
	current := b.State()
	if current == next {
		return nil
	}
	switch next {
	case StateAppeared:
		return b.Appear()
	case StateDisappeared:
		if current == StateDetached {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current, next)
		}
		return b.Disappear()
	default:
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current, next)
	}
}

func (b *Binding[L]) transition(previous, current State) {
	if b.emitter != nil {
		b.emitter.OnStateChange(b.name, previous, current)
	}
	b.logger.Info("state transition",
		log.String("from", previous.String()),
		log.String("to", current.String()),
	)
}
