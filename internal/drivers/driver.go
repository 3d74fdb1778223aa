// Package drivers implements per-service authentication drivers. A driver
// performs exactly one authentication attempt against one target and owns
// the classification boundary between "service reachable and rejected the
// credentials" and "transport or protocol layer is broken".
package drivers

import (
	"context"
	"fmt"
	"time"
)

// Driver is the capability contract for one service type.
type Driver interface {
	// Name identifies the driver on the CLI and in credential list paths.
	Name() string

	// DefaultPort applies to targets that carry no explicit port.
	DefaultPort() int

	// Connect attempts one authentication against host:port. It returns
	// true when the service accepted the credentials and false when the
	// service was reachable but rejected them. A *UnreachableError means
	// the target could not be spoken to at all. Drivers hold no state
	// between calls.
	Connect(ctx context.Context, host string, port int, username, password string, timeout time.Duration) (bool, error)
}

// UnreachableError signals transport-level breakage (connection refused,
// protocol reset, banner timeout) as opposed to a credential rejection.
type UnreachableError struct {
	Reason string
}

func (e *UnreachableError) Error() string {
	return e.Reason
}

func unreachable(format string, args ...any) *UnreachableError {
	return &UnreachableError{Reason: fmt.Sprintf(format, args...)}
}
