package deeplink

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/bft-labs/deeplink/pkg/log"
)

// Handler inspects a link and reports how far it handled it.
type Handler[L any] func(link L) Result

// entry is one registered handler.
type entry[L any] struct {
	id      string
	handler Handler[L]
}

// Dispatcher broadcasts links to registered handlers and replays the
// pending link to handlers that register late.
//
// Create one with New and pass it to every screen that handles links; its
// lifetime belongs to the application, not to any screen.
type Dispatcher[L any] struct {
	mu       sync.Mutex
	handlers []entry[L]

	// pending is only meaningful while hasPending is set.
	pending    L
	hasPending bool
	handling   bool

	// seq increments on every Dispatch; state updates from a pass that was
	// superseded by a newer Dispatch are dropped.
	seq uint64

	opts options
}

// New creates an empty Dispatcher.
func New[L any](opts ...Option) *Dispatcher[L] {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Dispatcher[L]{opts: o}
}

// Dispatch runs link through every registered handler in registration order.
//
// The link becomes pending and the handling flag is reset. Each result then
// updates the flag: FullyHandled clears it, PartiallyHandled sets it,
// NotHandled leaves it alone. Iteration never stops early. When the pass
// ends with the flag cleared, the link stops being pending; otherwise it
// stays pending and is replayed to handlers registered later.
//
// A panicking handler aborts the pass; the link stays pending.
func (d *Dispatcher[L]) Dispatch(link L) {
	start := time.Now()

	d.mu.Lock()
	d.seq++
	seq := d.seq
	d.pending = link
	d.hasPending = true
	d.handling = false
	snapshot := slices.Clone(d.handlers)
	d.mu.Unlock()

	d.opts.logger.Debug("dispatching deeplink", log.Int("handlers", len(snapshot)))

	outcomes := make([]Outcome, 0, len(snapshot))
	for _, e := range snapshot {
		began := time.Now()
		result := e.handler(link)
		outcomes = append(outcomes, Outcome{ID: e.id, Result: result, Duration: time.Since(began)})

		d.mu.Lock()
		if d.seq == seq {
			d.applyLocked(result)
		}
		d.mu.Unlock()

		d.opts.logger.Debug("handler ran", log.HandlerID(e.id), log.Result(result))
	}

	d.mu.Lock()
	if d.seq == seq && !d.handling {
		d.clearPendingLocked()
	}
	pending, handling := d.hasPending, d.handling
	d.mu.Unlock()

	if pending {
		d.opts.logger.Debug("deeplink still pending")
	} else {
		d.opts.logger.Debug("deeplink resolved")
	}

	d.opts.observers.OnDispatch(DispatchEvent{
		Start:    start,
		Duration: time.Since(start),
		Outcomes: outcomes,
		Pending:  pending,
		Handling: handling,
	})
}

// Register appends handler to the end of the registry and returns its id.
//
// If a link is pending, handler is invoked with it once before Register
// returns. FullyHandled resolves the pending link, PartiallyHandled keeps it
// pending and sets the handling flag, NotHandled changes nothing.
//
// Register panics if handler is nil.
func (d *Dispatcher[L]) Register(handler Handler[L]) string {
	if handler == nil {
		panic("deeplink: Register called with nil handler")
	}

	d.mu.Lock()
	id := d.uniqueIDLocked()
	d.handlers = append(d.handlers, entry[L]{id: id, handler: handler})
	count := len(d.handlers)
	link, replay, seq := d.pending, d.hasPending, d.seq
	d.mu.Unlock()

	d.opts.logger.Info("handler registered", log.HandlerID(id), log.Int("handlers", count))

	if replay {
		d.replay(id, seq, link, handler)
	}

	d.opts.observers.OnRegister(RegisterEvent{ID: id, Count: count, Replayed: replay})
	return id
}

// replay runs the pending link through a newly registered handler.
func (d *Dispatcher[L]) replay(id string, seq uint64, link L, handler Handler[L]) {
	start := time.Now()
	result := handler(link)
	duration := time.Since(start)

	d.mu.Lock()
	if d.seq == seq {
		d.applyLocked(result)
		if result == FullyHandled {
			d.clearPendingLocked()
		}
	}
	pending := d.hasPending
	d.mu.Unlock()

	d.opts.logger.Debug("replayed pending deeplink",
		log.HandlerID(id),
		log.Result(result),
		log.Bool("pending", pending),
	)

	d.opts.observers.OnReplay(ReplayEvent{
		ID:       id,
		Start:    start,
		Result:   result,
		Duration: duration,
		Pending:  pending,
	})
}

// Unregister removes the handler with the given id.
//
// An unknown id means the caller's mount/unmount bookkeeping is broken. The
// registry is left untouched and the returned error wraps ErrUnknownHandler;
// with WithStrictContract(true) Unregister panics with *ContractViolation
// instead.
func (d *Dispatcher[L]) Unregister(id string) error {
	d.mu.Lock()
	idx := d.indexLocked(id)
	if idx < 0 {
		d.mu.Unlock()
		return d.violation(id)
	}
	d.handlers = slices.Delete(d.handlers, idx, idx+1)
	count := len(d.handlers)
	d.mu.Unlock()

	d.opts.logger.Info("handler unregistered", log.HandlerID(id), log.Int("handlers", count))
	d.opts.observers.OnUnregister(UnregisterEvent{ID: id, Count: count})
	return nil
}

func (d *Dispatcher[L]) violation(id string) error {
	v := &ContractViolation{ID: id}
	d.opts.logger.Error("unregister of unknown handler", log.HandlerID(id), log.Err(v))
	d.opts.observers.OnContractViolation(*v)
	if d.opts.strict {
		panic(v)
	}
	return v
}

// RegisterScoped registers handler and returns a function that unregisters
// it. Only the first call to release has an effect, so it can be deferred
// and also called explicitly.
func (d *Dispatcher[L]) RegisterScoped(handler Handler[L]) (release func()) {
	id := d.Register(handler)
	var once sync.Once
	return func() {
		once.Do(func() {
			// failures are already logged and reported to observers
			_ = d.Unregister(id)
		})
	}
}

// Pending returns the pending link, if any.
func (d *Dispatcher[L]) Pending() (L, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending, d.hasPending
}

// Handling reports whether some handler still holds partial responsibility
// for the pending link.
func (d *Dispatcher[L]) Handling() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.handling
}

// Len returns the number of registered handlers.
func (d *Dispatcher[L]) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.handlers)
}

// IDs returns the registered handler ids in registration order.
func (d *Dispatcher[L]) IDs() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	ids := make([]string, len(d.handlers))
	for i, e := range d.handlers {
		ids[i] = e.id
	}
	return ids
}

func (d *Dispatcher[L]) applyLocked(result Result) {
	switch result {
	case FullyHandled:
		d.handling = false
	case PartiallyHandled:
		d.handling = true
	}
}

func (d *Dispatcher[L]) clearPendingLocked() {
	var zero L
	d.pending = zero
	d.hasPending = false
}

func (d *Dispatcher[L]) indexLocked(id string) int {
	return slices.IndexFunc(d.handlers, func(e entry[L]) bool { return e.id == id })
}

func (d *Dispatcher[L]) uniqueIDLocked() string {
	base := d.opts.newID()
	id := base
	for n := 2; d.indexLocked(id) >= 0; n++ {
		id = fmt.Sprintf("%s-%d", base, n)
	}
	return id
}
