package tableside_test

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/gildedspoon/tableside"
)

// stubValidator accepts a fixed set of tokens and counts round trips.
type stubValidator struct {
	identities map[string]tableside.Identity
	calls      atomic.Int64

	// onValidate, when set, runs inside Validate before resolving. Tests
	// use it to observe session state during the validation window.
	onValidate func(token string)
}

func newStubValidator() *stubValidator {
	return &stubValidator{identities: map[string]tableside.Identity{}}
}

func (v *stubValidator) accept(token string, identity tableside.Identity) *stubValidator {
	v.identities[token] = identity
	return v
}

func (v *stubValidator) Validate(_ context.Context, token string) (tableside.Identity, error) {
	v.calls.Add(1)
	if v.onValidate != nil {
		v.onValidate(token)
	}
	identity, ok := v.identities[token]
	if !ok {
		return tableside.Identity{}, fmt.Errorf("%w: stub rejects %q", tableside.ErrInvalidSession, token)
	}
	return identity, nil
}

// failingStore wraps a TokenStore and fails writes on demand.
type failingStore struct {
	tableside.TokenStore
	saveErr error
}

func (s *failingStore) Save(ctx context.Context, token string) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	return s.TokenStore.Save(ctx, token)
}

var errDiskFull = errors.New("disk full")
