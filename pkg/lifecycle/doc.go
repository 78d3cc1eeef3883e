// Package lifecycle ties deeplink handler registration to screen visibility.
//
// A screen that wants deeplinks owns one Binding. When the screen appears the
// binding registers the screen's handler with the dispatcher (receiving any
// pending link through replay); when the screen disappears it unregisters the
// handler with the id it retained. The binding enforces the mount/unmount
// contract the dispatcher relies on: no double registration and exactly one
// unregistration per registration.
//
// # Usage
//
//	b := lifecycle.NewBinding("inbox", dispatcher, inboxHandler, logger, nil)
//
//	if err := b.Appear(); err != nil {
//	    return err
//	}
//	// ... screen is visible ...
//	if err := b.Disappear(); err != nil {
//	    return err
//	}
//
// # State Machine
//
// Valid state transitions:
//   - Detached -> Appeared
//   - Appeared -> Disappeared
//   - Disappeared -> Appeared
//
// # Version
//
// Current version: 2.0.0
// Minimum compatible version: 2.0.0
package lifecycle
