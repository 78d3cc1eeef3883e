package deeplink

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownHandler is returned when Unregister is called with an id
	// that is not registered. It signals mismatched mount/unmount bookkeeping
	// in the caller.
	ErrUnknownHandler = errors.New("deeplink: unknown handler id")

	// ErrInvalidResult is returned by ParseResult for unrecognised input.
	ErrInvalidResult = errors.New("deeplink: invalid handler result")
)

// ContractViolation describes a broken register/unregister contract.
// It is the panic value in strict mode and is reachable with errors.As
// otherwise.
type ContractViolation struct {
	// ID is the handler id the caller tried to unregister.
	ID string
}

func (c *ContractViolation) Error() string {
	return fmt.Sprintf("%s: %q", ErrUnknownHandler.Error(), c.ID)
}

// Unwrap makes errors.Is(err, ErrUnknownHandler) hold.
func (c *ContractViolation) Unwrap() error {
	return ErrUnknownHandler
}
