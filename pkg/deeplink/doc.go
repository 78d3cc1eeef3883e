// Package deeplink lets independently mounted screens cooperatively claim
// an incoming deeplink.
//
// A Dispatcher keeps an ordered list of handlers and a single pending link.
// Dispatch runs a link through every registered handler in registration
// order; a handler registered while a link is still pending gets that link
// replayed to it immediately, so screens that mount as a consequence of the
// link (or simply later) still get their turn.
//
// # Handler results
//
// Each handler returns one of:
//
//   - [FullyHandled]: the handler owns the link; nothing else needs it.
//   - [PartiallyHandled]: the handler acted, but the link stays pending for
//     other handlers and for screens that have not mounted yet.
//   - [NotHandled]: the handler ignored the link.
//
// Dispatch never stops early. Every handler runs for every link, and the
// last handler that returned FullyHandled or PartiallyHandled decides
// whether the link stays pending.
//
// # Usage
//
//	d := deeplink.New[Route](deeplink.WithLogger(logger))
//
//	release := d.RegisterScoped(func(r Route) deeplink.Result {
//	    if r.Tab != "inbox" {
//	        return deeplink.NotHandled
//	    }
//	    openInbox()
//	    return deeplink.PartiallyHandled
//	})
//	defer release()
//
//	d.Dispatch(Route{Tab: "inbox", Message: "42"})
//
// # Concurrency
//
// All methods are safe for concurrent use. The internal lock is never held
// while a handler runs, so handlers may call Register, Unregister and
// Dispatch on the same Dispatcher. Dispatch iterates over the handlers that
// were registered when it started; handlers registered during the pass are
// reached through replay instead.
//
// # Errors
//
// Unregistering an id that is not registered is a caller bug and returns an
// error wrapping [ErrUnknownHandler] (or panics in strict mode). Handlers
// report failure by panicking; the panic is not recovered and aborts the
// remainder of the pass.
//
// # Version
//
// Current version: 1.0.0
// Minimum compatible version: 1.0.0
package deeplink
