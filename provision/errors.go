package provision

import (
	"errors"
	"fmt"

	"sakuranet-billing/pterodactyl"
)

var (
	// ErrInsufficientFunds means the balance could not cover the order.
	// Nothing has been mutated when it is returned.
	ErrInsufficientFunds = errors.New("insufficient balance")

	// ErrNoEggSelected means neither the request nor the product names
	// a nest/egg pair.
	ErrNoEggSelected = errors.New("no egg selected")

	// ErrNotProvisioned means the service has no panel server attached,
	// i.e. an earlier purchase never completed.
	ErrNotProvisioned = errors.New("service is not linked to a panel server")
)

type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string { return e.Resource + " not found" }

// RemoteError wraps a failed panel call and names the step so the
// caller can tell which side effect may or may not have happened.
type RemoteError struct {
	Step string
	Err  error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("panel %s failed: %v", e.Step, e.Err)
}

func (e *RemoteError) Unwrap() error { return e.Err }

// Detail returns the panel's own error text when available.
func (e *RemoteError) Detail() string {
	var apiErr *pterodactyl.APIError
	if errors.As(e.Err, &apiErr) {
		return apiErr.Detail
	}
	return e.Err.Error()
}
