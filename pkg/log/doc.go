// Package log provides the logging abstraction used by the deeplink packages.
//
// The dispatcher, the screen lifecycle bindings and the demo CLI all log
// through the Logger interface so that embedding applications can route
// deeplink diagnostics into whatever logging stack they already run.
//
// # Usage
//
// Wrap a zerolog logger:
//
//	logger := log.NewZerologAdapterWithLogger(zerolog.New(os.Stderr))
//	d := deeplink.New[MyLink](deeplink.WithLogger(logger))
//
// Or discard everything (the dispatcher default):
//
//	logger := log.NewNoopLogger()
//
// Loggers can be narrowed with fixed fields, for example per screen:
//
//	screenLog := logger.With(log.Screen("inbox"))
//
// # Version
//
// Current version: 1.1.0
// Minimum compatible version: 1.0.0
package log
