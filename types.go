package tableside

import (
	"context"
	"fmt"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Error(format string, args ...any)
}

// Identity is the verified user record returned by the backend's validation
// endpoint. It is never derived locally from the credential.
type Identity struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// TokenStore persists the single bearer credential across process restarts.
type TokenStore interface {
	// Load returns the persisted credential if any. Absence is not an
	// error; implementations degrade storage read faults to absence.
	Load(ctx context.Context) (string, bool)

	// Save persists the credential, overwriting any prior value. Storage
	// write faults propagate to the caller.
	Save(ctx context.Context, token string) error

	// Clear removes the persisted credential. Clearing an empty store is
	// a no-op.
	Clear(ctx context.Context) error
}

// SessionValidator exchanges a bearer credential for a verified identity.
type SessionValidator interface {
	// Validate performs one fresh round trip to the backend. Every
	// failure mode, rejection, network error, or malformed response
	// collapses into ErrInvalidSession. There is no retry.
	Validate(ctx context.Context, token string) (Identity, error)
}

// ValidatorFunc adapts a function into a SessionValidator.
type ValidatorFunc func(ctx context.Context, token string) (Identity, error)

// Validate satisfies the SessionValidator interface.
func (f ValidatorFunc) Validate(ctx context.Context, token string) (Identity, error) {
	if f == nil {
		return Identity{}, ErrInvalidSession
	}
	return f(ctx, token)
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] SESSION "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] SESSION "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] SESSION "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
