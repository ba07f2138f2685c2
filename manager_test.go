package tableside_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gildedspoon/tableside"
)

func TestHydrateWithStoredToken(t *testing.T) {
	ctx := context.Background()

	store := tableside.NewMemoryTokenStore()
	require.NoError(t, store.Save(ctx, "tok-stored"))

	identity := tableside.Identity{ID: 42, Username: "bob", Role: tableside.RoleUser}
	validator := newStubValidator().accept("tok-stored", identity)

	manager := tableside.NewManager(store, validator)
	assert.True(t, manager.Session().Loading, "session starts uninitialized")

	session := manager.Hydrate(ctx)

	assert.Equal(t, "tok-stored", session.Token)
	require.NotNil(t, session.Identity)
	assert.Equal(t, identity, *session.Identity)
	assert.False(t, session.Loading)
	assert.EqualValues(t, 1, validator.calls.Load())
}

func TestHydrateEmptyStore(t *testing.T) {
	ctx := context.Background()

	validator := newStubValidator()
	manager := tableside.NewManager(tableside.NewMemoryTokenStore(), validator)

	session := manager.Hydrate(ctx)

	assert.Empty(t, session.Token)
	assert.Nil(t, session.Identity)
	assert.False(t, session.Loading)
	assert.Zero(t, validator.calls.Load(), "no credential means no validator round trip")
}

func TestHydratePurgesRejectedToken(t *testing.T) {
	ctx := context.Background()

	store := tableside.NewMemoryTokenStore()
	require.NoError(t, store.Save(ctx, "tok-expired"))

	manager := tableside.NewManager(store, newStubValidator())
	session := manager.Hydrate(ctx)

	assert.Empty(t, session.Token)
	assert.Nil(t, session.Identity)
	assert.False(t, session.Loading)

	_, found := store.Load(ctx)
	assert.False(t, found, "rejected credential must be purged from storage")
}

func TestLoginOptimisticThenConfirm(t *testing.T) {
	ctx := context.Background()

	store := tableside.NewMemoryTokenStore()
	identity := tableside.Identity{ID: 7, Username: "alice", Role: tableside.RoleAdmin}
	validator := newStubValidator().accept("tok-new", identity)

	manager := tableside.NewManager(store, validator)
	manager.Hydrate(ctx)

	// During the validation window the credential is already visible and
	// the identity is still pending.
	validator.onValidate = func(string) {
		window := manager.Session()
		assert.Equal(t, "tok-new", window.Token)
		assert.True(t, window.IsAuthenticated())
		assert.Nil(t, window.Identity)
	}

	snapshots, cancel := manager.Subscribe()
	defer cancel()

	got, err := manager.Login(ctx, "tok-new")
	require.NoError(t, err)
	assert.Equal(t, identity, got)

	optimistic := <-snapshots
	assert.Equal(t, "tok-new", optimistic.Token)
	assert.Nil(t, optimistic.Identity)
	assert.True(t, optimistic.Loading)

	confirmed := <-snapshots
	require.NotNil(t, confirmed.Identity)
	assert.Equal(t, identity, *confirmed.Identity)
	assert.False(t, confirmed.Loading)

	stored, found := store.Load(ctx)
	assert.True(t, found)
	assert.Equal(t, "tok-new", stored)
}

func TestLoginRollbackOnRejection(t *testing.T) {
	ctx := context.Background()

	store := tableside.NewMemoryTokenStore()
	manager := tableside.NewManager(store, newStubValidator())
	manager.Hydrate(ctx)

	_, err := manager.Login(ctx, "tok-bogus")
	require.Error(t, err)
	assert.True(t, tableside.IsInvalidSession(err))

	session := manager.Session()
	assert.Empty(t, session.Token)
	assert.Nil(t, session.Identity)
	assert.False(t, session.Loading)

	_, found := store.Load(ctx)
	assert.False(t, found, "optimistic credential must be rolled back in storage")
}

func TestLoginSaveFailurePropagates(t *testing.T) {
	ctx := context.Background()

	store := &failingStore{TokenStore: tableside.NewMemoryTokenStore(), saveErr: errDiskFull}
	validator := newStubValidator().accept("tok-new", tableside.Identity{ID: 1, Username: "a", Role: tableside.RoleUser})

	manager := tableside.NewManager(store, validator)
	manager.Hydrate(ctx)

	_, err := manager.Login(ctx, "tok-new")
	require.ErrorIs(t, err, errDiskFull)

	assert.False(t, manager.Session().IsAuthenticated(), "session untouched after storage fault")
	assert.Zero(t, validator.calls.Load())
}

func TestLogoutDuringLoginDiscardsStaleResult(t *testing.T) {
	ctx := context.Background()

	store := tableside.NewMemoryTokenStore()
	identity := tableside.Identity{ID: 9, Username: "carol", Role: tableside.RoleUser}
	validator := newStubValidator().accept("tok-slow", identity)

	manager := tableside.NewManager(store, validator)
	manager.Hydrate(ctx)

	validating := make(chan struct{})
	release := make(chan struct{})
	validator.onValidate = func(string) {
		close(validating)
		<-release
	}

	result := make(chan error, 1)
	go func() {
		_, err := manager.Login(ctx, "tok-slow")
		result <- err
	}()

	<-validating
	manager.Logout(ctx)
	close(release)

	select {
	case err := <-result:
		assert.True(t, tableside.IsSessionReplaced(err))
	case <-time.After(5 * time.Second):
		t.Fatal("login did not resolve")
	}

	session := manager.Session()
	assert.False(t, session.IsAuthenticated(), "logout must win over the stale login result")
	assert.Nil(t, session.Identity)

	_, found := store.Load(ctx)
	assert.False(t, found)
}

func TestSubscribeCancelClosesChannel(t *testing.T) {
	manager := tableside.NewManager(tableside.NewMemoryTokenStore(), newStubValidator())

	snapshots, cancel := manager.Subscribe()
	cancel()

	_, open := <-snapshots
	assert.False(t, open)

	// Cancel is idempotent.
	cancel()
}

func TestFullSessionScenario(t *testing.T) {
	ctx := context.Background()

	store := tableside.NewMemoryTokenStore()
	validator := newStubValidator().accept("tok-abc", tableside.Identity{
		ID:       7,
		Username: "alice",
		Role:     tableside.RoleAdmin,
	})

	manager := tableside.NewManager(store, validator)

	session := manager.Hydrate(ctx)
	assert.False(t, session.IsAuthenticated())
	assert.Equal(t, tableside.GuardRedirect, tableside.RequireAuth(session))

	identity, err := manager.Login(ctx, "tok-abc")
	require.NoError(t, err)
	assert.Equal(t, tableside.RoleAdmin, identity.Role)

	session = manager.Session()
	require.NotNil(t, session.Identity)
	assert.Equal(t, "alice", session.Identity.Username)
	assert.Equal(t, tableside.GuardAllow, tableside.RequireAdmin(session))

	manager.Logout(ctx)

	session = manager.Session()
	assert.False(t, session.IsAuthenticated())
	assert.Nil(t, session.Identity)

	_, found := store.Load(ctx)
	assert.False(t, found)
}
