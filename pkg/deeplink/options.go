package deeplink

import (
	"github.com/google/uuid"

	"github.com/bft-labs/deeplink/pkg/log"
)

// Option configures optional behavior of a Dispatcher.
type Option func(*options)

// options holds the optional configuration for a Dispatcher.
type options struct {
	logger    log.Logger
	observers MultiObserver
	newID     func() string
	strict    bool
}

// defaultOptions returns options with sensible defaults.
func defaultOptions() options {
	return options{
		logger: log.NewNoopLogger(),
		newID:  uuid.NewString,
	}
}

// WithLogger sets a logger for structured logging.
// If not provided, a no-op logger is used (no output).
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithObserver adds an observer. May be given several times; observers are
// notified in the order they were added.
func WithObserver(observer Observer) Option {
	return func(o *options) {
		if observer != nil {
			o.observers = append(o.observers, observer)
		}
	}
}

// WithIDGenerator replaces the random UUID handler ids.
// Ids that collide with a registered handler are suffixed to stay unique.
func WithIDGenerator(gen func() string) Option {
	return func(o *options) {
		if gen != nil {
			o.newID = gen
		}
	}
}

// WithStrictContract makes Unregister panic with a *ContractViolation
// instead of returning an error. Use it in debug builds and tests.
func WithStrictContract(strict bool) Option {
	return func(o *options) {
		o.strict = strict
	}
}
