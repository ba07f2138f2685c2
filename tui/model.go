package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gildedspoon/tableside"
	"github.com/gildedspoon/tableside/client"
)

// Screen identifies which view is active.
type Screen int

const (
	// ScreenMenu shows the restaurant menu. Public.
	ScreenMenu Screen = iota
	// ScreenCart shows the signed-in user's cart with totals.
	ScreenCart
	// ScreenOrders shows the signed-in user's order history.
	ScreenOrders
	// ScreenProfile shows the signed-in user's saved details.
	ScreenProfile
	// ScreenAdmin shows every order in the system. Admin only.
	ScreenAdmin
	// ScreenLogin is the sign-in form.
	ScreenLogin
)

// noticeFadeDelay is how long a status notice stays visible.
const noticeFadeDelay = 3 * time.Second

// SessionController is the slice of the session manager the TUI needs.
// *tableside.Manager satisfies it.
type SessionController interface {
	Session() tableside.Session
	Subscribe() (<-chan tableside.Session, func())
	Hydrate(ctx context.Context) tableside.Session
	Login(ctx context.Context, token string) (tableside.Identity, error)
	Logout(ctx context.Context)
}

// Backend is the slice of the REST client the TUI calls. *client.Client
// satisfies it.
type Backend interface {
	Login(ctx context.Context, creds client.Credentials) (string, error)
	Menu(ctx context.Context) ([]client.MenuItem, error)
	DetailedCart(ctx context.Context, userID int64) ([]client.CartLine, error)
	AddToCart(ctx context.Context, userID, menuItemID int64, quantity int) error
	RemoveFromCart(ctx context.Context, userID, menuItemID int64) error
	Checkout(ctx context.Context, userID int64) (client.CheckoutResult, error)
	DetailedOrders(ctx context.Context, userID int64) ([]client.DetailedOrder, error)
	AllOrders(ctx context.Context) ([]client.Order, error)
	ProfileByUser(ctx context.Context, userID int64) (client.Profile, error)
}

// Messages delivered through the bubbletea loop.
type (
	// sessionChangedMsg carries a snapshot from the manager's
	// subscription channel.
	sessionChangedMsg struct{ session tableside.Session }

	// hydratedMsg is the result of the startup credential restore.
	hydratedMsg struct{ session tableside.Session }

	// loginFinishedMsg is the result of the sign-in round trip.
	loginFinishedMsg struct {
		identity tableside.Identity
		err      error
	}

	menuLoadedMsg struct {
		items []client.MenuItem
		err   error
	}
	cartLoadedMsg struct {
		lines []client.CartLine
		err   error
	}
	ordersLoadedMsg struct {
		orders []client.DetailedOrder
		err    error
	}
	allOrdersLoadedMsg struct {
		orders []client.Order
		err    error
	}
	profileLoadedMsg struct {
		profile client.Profile
		found   bool
		err     error
	}

	// actionDoneMsg reports a cart mutation or checkout; the active
	// screen reloads afterwards.
	actionDoneMsg struct {
		notice string
		err    error
	}

	noticeFadeMsg struct{}
)

// Model is the top-level bubbletea model for the ordering client.
type Model struct {
	ctrl  SessionController
	api   Backend
	keys  KeyMap
	theme Theme

	width  int
	height int

	spinner   spinner.Model
	session   tableside.Session
	sessionCh <-chan tableside.Session

	screen Screen
	// wanted is the screen the user asked for while the session was
	// still resolving; retried once the session settles.
	wanted  *Screen
	loading bool
	cursor  int

	menu       []client.MenuItem
	cart       []client.CartLine
	orders     []client.DetailedOrder
	allOrders  []client.Order
	profile    client.Profile
	hasProfile bool

	notice    string
	noticeErr bool

	loginInputs [2]textinput.Model
	loginFocus  int
	loginBusy   bool
}

// New builds the model. The controller's Hydrate runs as part of Init.
func New(ctrl SessionController, api Backend) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(DefaultTheme.Accent)

	username := textinput.New()
	username.Placeholder = "username"
	username.CharLimit = 100
	username.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 100
	password.EchoMode = textinput.EchoPassword

	ch, _ := ctrl.Subscribe() // lives for the program's lifetime

	return Model{
		ctrl:        ctrl,
		api:         api,
		keys:        DefaultKeyMap,
		theme:       DefaultTheme,
		spinner:     sp,
		session:     ctrl.Session(),
		sessionCh:   ch,
		screen:      ScreenMenu,
		loginInputs: [2]textinput.Model{username, password},
	}
}

// Init restores any stored credential, starts watching session changes
// and loads the menu.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		hydrateCmd(m.ctrl),
		watchSession(m.sessionCh),
		loadMenu(m.api),
	)
}

func hydrateCmd(ctrl SessionController) tea.Cmd {
	return func() tea.Msg {
		return hydratedMsg{session: ctrl.Hydrate(context.Background())}
	}
}

func watchSession(ch <-chan tableside.Session) tea.Cmd {
	return func() tea.Msg {
		session, ok := <-ch
		if !ok {
			return nil
		}
		return sessionChangedMsg{session: session}
	}
}

func loadMenu(api Backend) tea.Cmd {
	return func() tea.Msg {
		items, err := api.Menu(context.Background())
		return menuLoadedMsg{items: items, err: err}
	}
}

func loadCart(api Backend, userID int64) tea.Cmd {
	return func() tea.Msg {
		lines, err := api.DetailedCart(context.Background(), userID)
		return cartLoadedMsg{lines: lines, err: err}
	}
}

func loadOrders(api Backend, userID int64) tea.Cmd {
	return func() tea.Msg {
		orders, err := api.DetailedOrders(context.Background(), userID)
		return ordersLoadedMsg{orders: orders, err: err}
	}
}

func loadAllOrders(api Backend) tea.Cmd {
	return func() tea.Msg {
		orders, err := api.AllOrders(context.Background())
		return allOrdersLoadedMsg{orders: orders, err: err}
	}
}

func loadProfile(api Backend, userID int64) tea.Cmd {
	return func() tea.Msg {
		profile, err := api.ProfileByUser(context.Background(), userID)
		if err != nil {
			// A never-saved profile is not an error worth surfacing.
			return profileLoadedMsg{found: false}
		}
		return profileLoadedMsg{profile: profile, found: true}
	}
}

func loginCmd(api Backend, ctrl SessionController, creds client.Credentials) tea.Cmd {
	return func() tea.Msg {
		token, err := api.Login(context.Background(), creds)
		if err != nil {
			return loginFinishedMsg{err: err}
		}
		identity, err := ctrl.Login(context.Background(), token)
		return loginFinishedMsg{identity: identity, err: err}
	}
}

func fadeNotice() tea.Cmd {
	return tea.Tick(noticeFadeDelay, func(time.Time) tea.Msg {
		return noticeFadeMsg{}
	})
}

// userID returns the verified account id, false when nobody is signed
// in with a confirmed identity.
func (m Model) userID() (int64, bool) {
	if m.session.Identity == nil {
		return 0, false
	}
	return m.session.Identity.ID, true
}

// guardFor maps a screen to its access requirement.
func guardFor(screen Screen, session tableside.Session) tableside.GuardDecision {
	switch screen {
	case ScreenCart, ScreenOrders, ScreenProfile:
		return tableside.RequireAuth(session)
	case ScreenAdmin:
		return tableside.RequireAdmin(session)
	default:
		return tableside.GuardAllow
	}
}

// navigate switches screens subject to the guards. A Pending decision
// parks the request until the session settles; a Redirect lands on the
// sign-in form.
func (m Model) navigate(screen Screen) (Model, tea.Cmd) {
	switch guardFor(screen, m.session) {
	case tableside.GuardPending:
		target := screen
		m.wanted = &target
		return m, nil
	case tableside.GuardRedirect:
		target := screen
		m.wanted = &target
		m.screen = ScreenLogin
		if screen == ScreenAdmin && m.session.IsAuthenticated() {
			m.notice = "that screen needs an admin account"
			m.noticeErr = true
			m.screen = ScreenMenu
			m.wanted = nil
			return m, fadeNotice()
		}
		m.loginInputs[0].Focus()
		m.loginInputs[1].Blur()
		m.loginFocus = 0
		return m, textinput.Blink
	}

	m.screen = screen
	m.wanted = nil
	m.cursor = 0
	return m, m.loadFor(screen)
}

// loadFor returns the fetch command backing a screen.
func (m *Model) loadFor(screen Screen) tea.Cmd {
	switch screen {
	case ScreenMenu:
		m.loading = true
		return loadMenu(m.api)
	case ScreenCart:
		if id, ok := m.userID(); ok {
			m.loading = true
			return loadCart(m.api, id)
		}
	case ScreenOrders:
		if id, ok := m.userID(); ok {
			m.loading = true
			return loadOrders(m.api, id)
		}
	case ScreenProfile:
		if id, ok := m.userID(); ok {
			m.loading = true
			return loadProfile(m.api, id)
		}
	case ScreenAdmin:
		m.loading = true
		return loadAllOrders(m.api)
	}
	return nil
}

// Update is the single message handler.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case hydratedMsg:
		m.session = msg.session
		return m.retryWanted()

	case sessionChangedMsg:
		m.session = msg.session
		model, cmd := m.retryWanted()
		return model, tea.Batch(cmd, watchSession(m.sessionCh))

	case menuLoadedMsg:
		m.loading = false
		if msg.err != nil {
			return m.fail("menu unavailable: " + msg.err.Error())
		}
		m.menu = msg.items
		m.clampCursor(len(m.menu))
		return m, nil

	case cartLoadedMsg:
		m.loading = false
		if msg.err != nil {
			return m.fail("could not load cart: " + msg.err.Error())
		}
		m.cart = msg.lines
		m.clampCursor(len(m.cart))
		return m, nil

	case ordersLoadedMsg:
		m.loading = false
		if msg.err != nil {
			return m.fail("could not load orders: " + msg.err.Error())
		}
		m.orders = msg.orders
		return m, nil

	case allOrdersLoadedMsg:
		m.loading = false
		if msg.err != nil {
			return m.fail("could not load orders: " + msg.err.Error())
		}
		m.allOrders = msg.orders
		return m, nil

	case profileLoadedMsg:
		m.loading = false
		if msg.err != nil {
			return m.fail("could not load profile: " + msg.err.Error())
		}
		m.profile = msg.profile
		m.hasProfile = msg.found
		return m, nil

	case actionDoneMsg:
		if msg.err != nil {
			return m.fail(msg.err.Error())
		}
		m.notice = msg.notice
		m.noticeErr = false
		return m, tea.Batch(fadeNotice(), m.loadFor(m.screen))

	case loginFinishedMsg:
		m.loginBusy = false
		if msg.err != nil {
			return m.fail("sign-in failed: check your credentials")
		}
		m.session = m.ctrl.Session()
		m.notice = "signed in as " + msg.identity.Username
		m.noticeErr = false
		m.loginInputs[1].SetValue("")
		target := ScreenMenu
		if m.wanted != nil {
			target = *m.wanted
		}
		model, cmd := m.navigate(target)
		return model, tea.Batch(cmd, fadeNotice())

	case noticeFadeMsg:
		m.notice = ""
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// retryWanted re-attempts a navigation that was parked behind a
// resolving session.
func (m Model) retryWanted() (tea.Model, tea.Cmd) {
	if m.wanted == nil || m.session.Loading {
		return m, nil
	}
	target := *m.wanted
	m.wanted = nil
	return m.navigate(target)
}

func (m Model) fail(text string) (tea.Model, tea.Cmd) {
	m.notice = text
	m.noticeErr = true
	return m, fadeNotice()
}

func (m *Model) clampCursor(length int) {
	if m.cursor >= length {
		m.cursor = length - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// The sign-in form swallows most keys.
	if m.screen == ScreenLogin {
		return m.handleLoginKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.GoMenu):
		return m.navigate(ScreenMenu)
	case key.Matches(msg, m.keys.GoCart):
		return m.navigate(ScreenCart)
	case key.Matches(msg, m.keys.GoOrders):
		return m.navigate(ScreenOrders)
	case key.Matches(msg, m.keys.GoProfile):
		return m.navigate(ScreenProfile)
	case key.Matches(msg, m.keys.GoAdmin):
		return m.navigate(ScreenAdmin)

	case key.Matches(msg, m.keys.Refresh):
		return m, m.loadFor(m.screen)

	case key.Matches(msg, m.keys.Logout):
		m.ctrl.Logout(context.Background())
		m.session = m.ctrl.Session()
		m.notice = "signed out"
		m.noticeErr = false
		model, cmd := m.navigate(ScreenMenu)
		return model, tea.Batch(cmd, fadeNotice())

	case key.Matches(msg, m.keys.Up):
		m.cursor--
		m.clampCursor(m.listLength())
		return m, nil
	case key.Matches(msg, m.keys.Down):
		m.cursor++
		m.clampCursor(m.listLength())
		return m, nil

	case key.Matches(msg, m.keys.AddToCart):
		return m.addSelectionToCart()

	case key.Matches(msg, m.keys.RemoveItem):
		return m.removeSelectionFromCart()

	case key.Matches(msg, m.keys.Checkout):
		return m.checkout()
	}

	return m, nil
}

func (m Model) listLength() int {
	switch m.screen {
	case ScreenMenu:
		return len(m.menu)
	case ScreenCart:
		return len(m.cart)
	default:
		return 0
	}
}

func (m Model) addSelectionToCart() (tea.Model, tea.Cmd) {
	if m.screen != ScreenMenu || m.cursor >= len(m.menu) {
		return m, nil
	}
	id, ok := m.userID()
	if !ok {
		target := ScreenMenu
		m.wanted = &target
		m.screen = ScreenLogin
		m.loginInputs[0].Focus()
		return m, textinput.Blink
	}
	item := m.menu[m.cursor]
	api := m.api
	return m, func() tea.Msg {
		err := api.AddToCart(context.Background(), id, item.ID, 1)
		return actionDoneMsg{notice: item.Name + " added to cart", err: err}
	}
}

func (m Model) removeSelectionFromCart() (tea.Model, tea.Cmd) {
	if m.screen != ScreenCart || m.cursor >= len(m.cart) {
		return m, nil
	}
	id, ok := m.userID()
	if !ok {
		return m, nil
	}
	line := m.cart[m.cursor]
	api := m.api
	return m, func() tea.Msg {
		err := api.RemoveFromCart(context.Background(), id, line.MenuItemID)
		return actionDoneMsg{notice: line.Name + " removed", err: err}
	}
}

func (m Model) checkout() (tea.Model, tea.Cmd) {
	if m.screen != ScreenCart || len(m.cart) == 0 {
		return m, nil
	}
	id, ok := m.userID()
	if !ok {
		return m, nil
	}
	api := m.api
	return m, func() tea.Msg {
		result, err := api.Checkout(context.Background(), id)
		if err != nil {
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{notice: fmt.Sprintf("order #%d placed, total ₹%.2f", result.OrderID, result.TotalAmount)}
	}
}

func (m Model) handleLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.wanted = nil
		m.screen = ScreenMenu
		return m, nil

	case msg.Type == tea.KeyTab, msg.Type == tea.KeyShiftTab, msg.Type == tea.KeyDown, msg.Type == tea.KeyUp:
		m.loginFocus = (m.loginFocus + 1) % 2
		for i := range m.loginInputs {
			if i == m.loginFocus {
				m.loginInputs[i].Focus()
			} else {
				m.loginInputs[i].Blur()
			}
		}
		return m, textinput.Blink

	case msg.Type == tea.KeyEnter:
		if m.loginFocus == 0 {
			m.loginFocus = 1
			m.loginInputs[0].Blur()
			m.loginInputs[1].Focus()
			return m, textinput.Blink
		}
		if m.loginBusy {
			return m, nil
		}
		creds := client.Credentials{
			Username: m.loginInputs[0].Value(),
			Password: m.loginInputs[1].Value(),
		}
		if err := creds.Validate(); err != nil {
			return m.fail("both fields are required")
		}
		m.loginBusy = true
		return m, loginCmd(m.api, m.ctrl, creds)
	}

	var cmd tea.Cmd
	m.loginInputs[m.loginFocus], cmd = m.loginInputs[m.loginFocus].Update(msg)
	return m, cmd
}
