package lifecycle

import "github.com/bft-labs/deeplink/pkg/deeplink"

// State represents the visibility state of a screen binding.
type State int

const (
	StateDetached State = iota
	StateAppeared
	StateDisappeared
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case StateDetached:
		return "Detached"
	case StateAppeared:
		return "Appeared"
	case StateDisappeared:
		return "Disappeared"
	default:
		return "Unknown"
	}
}

// EventEmitter is called when a binding changes state.
type EventEmitter interface {
	OnStateChange(screen string, previous, current State)
}

// Registrar is the part of the dispatcher a binding needs.
// *deeplink.Dispatcher[L] satisfies it.
type Registrar[L any] interface {
	Register(handler deeplink.Handler[L]) string
	Unregister(id string) error
}

var _ Registrar[string] = (*deeplink.Dispatcher[string])(nil)
