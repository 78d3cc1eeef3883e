package deeplink

import "time"

// Observer receives notifications about dispatcher activity.
// Callbacks run synchronously on the goroutine that performed the operation,
// after the state change and with no dispatcher lock held. Implementations
// should return quickly.
type Observer interface {
	// OnRegister is called after a handler was added (and replayed, if a
	// link was pending).
	OnRegister(event RegisterEvent)

	// OnUnregister is called after a handler was removed.
	OnUnregister(event UnregisterEvent)

	// OnReplay is called after a pending link was replayed to a newly
	// registered handler.
	OnReplay(event ReplayEvent)

	// OnDispatch is called after a dispatch pass completed.
	OnDispatch(event DispatchEvent)

	// OnContractViolation is called when Unregister is given an unknown id.
	// In strict mode it is called before the panic.
	OnContractViolation(violation ContractViolation)
}

// RegisterEvent describes a completed Register call.
type RegisterEvent struct {
	ID       string
	Count    int  // registered handlers after the call
	Replayed bool // a pending link was replayed to the new handler
}

// UnregisterEvent describes a completed Unregister call.
type UnregisterEvent struct {
	ID    string
	Count int // registered handlers after the call
}

// ReplayEvent describes a pending link replayed to a new handler.
type ReplayEvent struct {
	ID       string
	Start    time.Time
	Result   Result
	Duration time.Duration
	Pending  bool // the link is still pending after the replay
}

// Outcome is the result of one handler during a dispatch pass.
type Outcome struct {
	ID       string
	Result   Result
	Duration time.Duration
}

// DispatchEvent describes a completed dispatch pass.
type DispatchEvent struct {
	Start    time.Time
	Duration time.Duration

	// Outcomes lists every handler that ran, in invocation order.
	Outcomes []Outcome

	// Pending reports whether the link is still pending after the pass.
	Pending bool

	// Handling is the final value of the handling flag.
	Handling bool
}

// BaseObserver implements Observer with no-ops. Embed it to implement only
// the callbacks you need.
type BaseObserver struct{}

func (BaseObserver) OnRegister(RegisterEvent)              {}
func (BaseObserver) OnUnregister(UnregisterEvent)          {}
func (BaseObserver) OnReplay(ReplayEvent)                  {}
func (BaseObserver) OnDispatch(DispatchEvent)              {}
func (BaseObserver) OnContractViolation(ContractViolation) {}

// MultiObserver fans every notification out to its members in order.
type MultiObserver []Observer

func (m MultiObserver) OnRegister(e RegisterEvent) {
	for _, o := range m {
		o.OnRegister(e)
	}
}

func (m MultiObserver) OnUnregister(e UnregisterEvent) {
	for _, o := range m {
		o.OnUnregister(e)
	}
}

func (m MultiObserver) OnReplay(e ReplayEvent) {
	for _, o := range m {
		o.OnReplay(e)
	}
}

func (m MultiObserver) OnDispatch(e DispatchEvent) {
	for _, o := range m {
		o.OnDispatch(e)
	}
}

func (m MultiObserver) OnContractViolation(v ContractViolation) {
	for _, o := range m {
		o.OnContractViolation(v)
	}
}

// Ensure the helpers implement Observer.
var (
	_ Observer = BaseObserver{}
	_ Observer = MultiObserver(nil)
)
