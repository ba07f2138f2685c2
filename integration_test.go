package tableside_test

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gildedspoon/tableside"
	"github.com/gildedspoon/tableside/client"
	"github.com/gildedspoon/tableside/config"
	"github.com/gildedspoon/tableside/server"
)

// startBackend runs the dev backend on an ephemeral port and returns
// its base URL.
func startBackend(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	cfg := &config.Server{
		Host:            "127.0.0.1",
		Port:            "0",
		DBPath:          filepath.Join(dir, "backend.db"),
		UploadDir:       filepath.Join(dir, "uploads"),
		JWTSecret:       "integration-secret",
		TokenTTLMinutes: 5,
		BcryptCost:      4,
		Seed:            false,
	}

	srv, err := server.New(cfg, zap.NewNop())
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	go func() { _ = srv.Serve(ln) }()
	t.Cleanup(func() { _ = srv.Shutdown() })

	baseURL := "http://" + ln.Addr().String()
	waitForBackend(t, baseURL)
	return baseURL
}

func waitForBackend(t *testing.T, baseURL string) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		res, err := http.Get(baseURL + "/menu/all")
		if err == nil {
			res.Body.Close()
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("backend never came up")
}

// TestSessionLifecycleAgainstBackend walks the full journey: cold start
// with no credential, sign in, verified identity, admin gating,
// restart with the persisted credential, sign out.
func TestSessionLifecycleAgainstBackend(t *testing.T) {
	baseURL := startBackend(t)
	ctx := context.Background()

	storePath := filepath.Join(t.TempDir(), "credentials.db")
	store, err := tableside.NewSQLiteTokenStore(ctx, storePath)
	require.NoError(t, err)
	defer store.Close()

	validator := tableside.NewHTTPValidator(baseURL, nil)
	manager := tableside.NewManager(store, validator)
	api := client.New(baseURL, manager)

	// Cold start: nothing stored, the app renders signed out.
	session := manager.Hydrate(ctx)
	assert.False(t, session.IsAuthenticated())
	assert.Equal(t, tableside.GuardRedirect, tableside.RequireAuth(session))

	// Create an admin account, then sign in through the real endpoints.
	creds := client.Credentials{Username: "alice", Password: "s3cret"}
	require.NoError(t, api.Register(ctx, creds, tableside.RoleAdmin))

	token, err := api.Login(ctx, creds)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	identity, err := manager.Login(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "alice", identity.Username)
	assert.Equal(t, tableside.RoleAdmin, identity.Role)

	session = manager.Session()
	assert.True(t, session.IsVerified())
	assert.Equal(t, tableside.GuardAllow, tableside.RequireAuth(session))
	assert.Equal(t, tableside.GuardAllow, tableside.RequireAdmin(session))

	// Authenticated calls carry the credential automatically.
	require.NoError(t, api.AddMenuItem(ctx, client.NewMenuItem{Name: "Paneer Tikka", Price: 245}))
	menu, err := api.Menu(ctx)
	require.NoError(t, err)
	require.Len(t, menu, 1)

	// A fresh process with the same credential store resumes the session.
	manager2 := tableside.NewManager(store, validator)
	session = manager2.Hydrate(ctx)
	assert.True(t, session.IsVerified())
	assert.Equal(t, "alice", session.Identity.Username)

	// Signing out clears the store; the next restart is anonymous.
	manager2.Logout(ctx)
	manager3 := tableside.NewManager(store, validator)
	session = manager3.Hydrate(ctx)
	assert.False(t, session.IsAuthenticated())
}

// TestRejectedCredentialIsPurged stores a token the backend refuses and
// verifies a restart drops it.
func TestRejectedCredentialIsPurged(t *testing.T) {
	baseURL := startBackend(t)
	ctx := context.Background()

	store := tableside.NewMemoryTokenStore()
	require.NoError(t, store.Save(ctx, "counterfeit-token"))

	manager := tableside.NewManager(store, tableside.NewHTTPValidator(baseURL, nil))
	session := manager.Hydrate(ctx)

	assert.False(t, session.IsAuthenticated())
	_, present := store.Load(ctx)
	assert.False(t, present, "rejected credential must not survive")
}

// TestRegularUserCannotReachAdminSurface signs in a diner and checks
// both the local guard and the backend agree.
func TestRegularUserCannotReachAdminSurface(t *testing.T) {
	baseURL := startBackend(t)
	ctx := context.Background()

	store := tableside.NewMemoryTokenStore()
	manager := tableside.NewManager(store, tableside.NewHTTPValidator(baseURL, nil))
	api := client.New(baseURL, manager)

	creds := client.Credentials{Username: "bob", Password: "pw"}
	require.NoError(t, api.Register(ctx, creds, tableside.RoleUser))

	token, err := api.Login(ctx, creds)
	require.NoError(t, err)
	_, err = manager.Login(ctx, token)
	require.NoError(t, err)

	session := manager.Session()
	assert.Equal(t, tableside.GuardAllow, tableside.RequireAuth(session))
	assert.Equal(t, tableside.GuardRedirect, tableside.RequireAdmin(session))

	_, err = api.AllOrders(ctx)
	require.Error(t, err)
	assert.True(t, tableside.IsInvalidSession(err), fmt.Sprintf("got %v", err))
}

// TestCartFlowEndToEnd orders two dishes, checks out and pays.
func TestCartFlowEndToEnd(t *testing.T) {
	baseURL := startBackend(t)
	ctx := context.Background()

	adminStore := tableside.NewMemoryTokenStore()
	adminManager := tableside.NewManager(adminStore, tableside.NewHTTPValidator(baseURL, nil))
	adminAPI := client.New(baseURL, adminManager)

	adminCreds := client.Credentials{Username: "chef", Password: "pw"}
	require.NoError(t, adminAPI.Register(ctx, adminCreds, tableside.RoleAdmin))
	adminToken, err := adminAPI.Login(ctx, adminCreds)
	require.NoError(t, err)
	_, err = adminManager.Login(ctx, adminToken)
	require.NoError(t, err)

	require.NoError(t, adminAPI.AddMenuItem(ctx, client.NewMenuItem{Name: "Butter Chicken", Price: 320}))
	require.NoError(t, adminAPI.AddMenuItem(ctx, client.NewMenuItem{Name: "Garlic Naan", Price: 55}))

	store := tableside.NewMemoryTokenStore()
	manager := tableside.NewManager(store, tableside.NewHTTPValidator(baseURL, nil))
	api := client.New(baseURL, manager)

	creds := client.Credentials{Username: "diner", Password: "pw"}
	require.NoError(t, api.Register(ctx, creds, tableside.RoleUser))
	token, err := api.Login(ctx, creds)
	require.NoError(t, err)
	identity, err := manager.Login(ctx, token)
	require.NoError(t, err)

	menu, err := api.Menu(ctx)
	require.NoError(t, err)
	require.Len(t, menu, 2)

	require.NoError(t, api.AddToCart(ctx, identity.ID, menu[0].ID, 1))
	require.NoError(t, api.AddToCart(ctx, identity.ID, menu[1].ID, 2))

	lines, err := api.DetailedCart(ctx, identity.ID)
	require.NoError(t, err)
	require.Len(t, lines, 2)

	summary := client.Summarize(lines)
	assert.Equal(t, 430.0, summary.Subtotal)
	assert.Equal(t, 470.0, summary.GrandTotal)

	placed, err := api.Checkout(ctx, identity.ID)
	require.NoError(t, err)
	assert.Equal(t, 470.0, placed.TotalAmount)

	require.NoError(t, api.Pay(ctx, identity.ID, client.PaymentRequest{
		OrderID:        placed.OrderID,
		UserID:         identity.ID,
		CardNumber:     "4111111111111111",
		CardHolderName: "Diner Test",
		ExpiryDate:     "09/27",
		CVV:            "123",
		BillingAddress: "12 MG Road, Bengaluru",
	}))

	orders, err := api.Orders(ctx, identity.ID)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "PAID", orders[0].Status)
}
