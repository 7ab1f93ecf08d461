// Package ui provides a Bubble Tea-based TUI for shopfront.
package ui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ozaka001/shopfront/internal/api"
	"github.com/ozaka001/shopfront/internal/paging"
	"github.com/ozaka001/shopfront/internal/prefs"
	"github.com/ozaka001/shopfront/internal/search"
	"github.com/ozaka001/shopfront/internal/session"
	"github.com/ozaka001/shopfront/internal/store"
)

// View represents the current active view.
type View int

const (
	ViewLogin View = iota
	ViewCatalog
	ViewSearch
	ViewCart
	ViewWishlist
	ViewDetail
)

// pagerWindow is how many page buttons the catalog pager shows at most.
const pagerWindow = 5

// Options configures the UI.
type Options struct {
	Context       context.Context
	Client        *api.Client
	Session       *session.Store
	Cart          *store.Cart
	Wishlist      *store.Wishlist
	Search        *search.Controller
	SearchResults <-chan search.Result
	PageSize      int
	PollTick      time.Duration
	ThemeName     string
	PrefsPath     string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	client    *api.Client
	session   *session.Store
	cart      *store.Cart
	wishlist  *store.Wishlist
	search    *search.Controller
	searchCh  <-chan search.Result
	pageSize  int
	pollTick  time.Duration
	prefsPath string

	// UI state
	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool
	showHelp    bool
	notice      string // transient status line, cleared on next action

	// Login state
	emailInput    textinput.Model
	passwordInput textinput.Model
	loginFocus    int // 0 = email, 1 = password
	loggingIn     bool
	loginErr      string

	// Catalog state
	catalog     api.ProductPage
	catalogRow  int
	catalogErr  string
	loadingPage bool

	// Search state
	searchInput  textinput.Model
	searchResult search.Result
	searchRow    int

	// Cart / wishlist snapshots
	cartSnap store.CartSnapshot
	wishSnap store.WishlistSnapshot
	cartRow  int
	wishRow  int

	// Detail state
	detail     *api.Product
	detailFrom View // view to return to on esc
	colorIdx   int
	detailQty  int
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	pollTick := opts.PollTick
	if pollTick == 0 {
		pollTick = time.Second
	}

	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = 12
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = "Dracula"
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	email := textinput.New()
	email.Placeholder = "email"
	email.CharLimit = 254
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '*'

	query := textinput.New()
	query.Placeholder = "search products"
	query.CharLimit = 120

	view := ViewLogin
	if opts.Session != nil && opts.Session.SignedIn() {
		view = ViewCatalog
	}

	return Model{
		ctx:           ctx,
		client:        opts.Client,
		session:       opts.Session,
		cart:          opts.Cart,
		wishlist:      opts.Wishlist,
		search:        opts.Search,
		searchCh:      opts.SearchResults,
		pageSize:      pageSize,
		pollTick:      pollTick,
		prefsPath:     prefsPath,
		theme:         GetTheme(themeName),
		currentView:   view,
		emailInput:    email,
		passwordInput: password,
		searchInput:   query,
		detailQty:     1,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnterAltScreen,
		textinput.Blink,
		tickCmd(m.pollTick),
	}
	if m.session != nil && m.session.SignedIn() {
		cmds = append(cmds, m.loadStoresCmd(), m.fetchPageCmd(1))
	}
	if m.searchCh != nil {
		cmds = append(cmds, waitSearchCmd(m.searchCh))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		return m, nil

	case tickMsg:
		return m, tea.Batch(m.snapshotCmd(), tickCmd(m.pollTick))

	case snapshotMsg:
		m.cartSnap = msg.cart
		m.wishSnap = msg.wishlist
		m.clampRows()
		return m, nil

	case loginMsg:
		return m.handleLogin(msg)

	case pageMsg:
		m.loadingPage = false
		if msg.err != nil {
			m.catalogErr = displayError(msg.err)
			return m.checkSignedOut()
		}
		m.catalogErr = ""
		m.catalog = *msg.page
		if m.catalogRow >= len(m.catalog.Items) {
			m.catalogRow = 0
		}
		return m, nil

	case searchMsg:
		m.searchResult = search.Result(msg)
		if m.searchRow >= len(m.searchResult.Products) {
			m.searchRow = 0
		}
		return m, waitSearchCmd(m.searchCh)

	case detailMsg:
		if msg.err != nil {
			m.notice = displayError(msg.err)
			return m.checkSignedOut()
		}
		m.detail = msg.product
		m.colorIdx = 0
		m.detailQty = 1
		m.currentView = ViewDetail
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	b.WriteString(m.renderContent())
	return b.String()
}

func (m Model) renderContent() string {
	switch m.currentView {
	case ViewLogin:
		return m.renderLogin()
	case ViewCatalog:
		return m.renderCatalog()
	case ViewSearch:
		return m.renderSearch()
	case ViewCart:
		return m.renderCart()
	case ViewWishlist:
		return m.renderWishlist()
	case ViewDetail:
		return m.renderDetail()
	default:
		return ""
	}
}

// handleLogin applies the outcome of a login attempt.
func (m Model) handleLogin(msg loginMsg) (tea.Model, tea.Cmd) {
	m.loggingIn = false
	if msg.err != nil {
		m.loginErr = displayError(msg.err)
		m.passwordInput.SetValue("")
		return m, nil
	}
	m.loginErr = ""
	m.notice = "Signed in as " + msg.user.Name
	m.currentView = ViewCatalog
	return m, tea.Batch(m.loadStoresCmd(), m.fetchPageCmd(1))
}

// checkSignedOut drops back to the login view when the session credential
// has been cleared, for example after the server rejected it.
func (m Model) checkSignedOut() (tea.Model, tea.Cmd) {
	if m.session != nil && !m.session.SignedIn() && m.currentView != ViewLogin {
		m.currentView = ViewLogin
		m.loginErr = "Session expired, sign in again"
		m.emailInput.Focus()
		m.passwordInput.Blur()
		m.loginFocus = 0
	}
	return m, nil
}

// clampRows keeps selections inside the shrunk collections.
func (m *Model) clampRows() {
	if n := len(m.cartSnap.Lines); m.cartRow >= n {
		m.cartRow = max(0, n-1)
	}
	if n := len(m.wishSnap.Items); m.wishRow >= n {
		m.wishRow = max(0, n-1)
	}
}

// selectedProduct returns the product the cursor is on in the current view.
func (m Model) selectedProduct() *api.Product {
	switch m.currentView {
	case ViewCatalog:
		if m.catalogRow < len(m.catalog.Items) {
			p := m.catalog.Items[m.catalogRow]
			return &p
		}
	case ViewSearch:
		if m.searchRow < len(m.searchResult.Products) {
			p := m.searchResult.Products[m.searchRow]
			return &p
		}
	case ViewDetail:
		return m.detail
	}
	return nil
}

// pager computes the page-button window for the catalog pager.
func (m Model) pager() paging.Window {
	return paging.Compute(m.catalog.Page, m.catalog.TotalPages, pagerWindow)
}

// Messages

type tickMsg time.Time

type snapshotMsg struct {
	cart     store.CartSnapshot
	wishlist store.WishlistSnapshot
}

type loginMsg struct {
	user api.User
	err  error
}

type pageMsg struct {
	page *api.ProductPage
	err  error
}

type searchMsg search.Result

type detailMsg struct {
	product *api.Product
	err     error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) snapshotCmd() tea.Cmd {
	cart, wishlist := m.cart, m.wishlist
	return func() tea.Msg {
		var msg snapshotMsg
		if cart != nil {
			msg.cart = cart.Snapshot()
		}
		if wishlist != nil {
			msg.wishlist = wishlist.Snapshot()
		}
		return msg
	}
}

// loadStoresCmd kicks off authoritative loads for the cart and wishlist and
// reports the immediate (possibly still loading) snapshots.
func (m Model) loadStoresCmd() tea.Cmd {
	ctx, cart, wishlist := m.ctx, m.cart, m.wishlist
	return func() tea.Msg {
		if cart != nil {
			cart.Load(ctx)
		}
		if wishlist != nil {
			wishlist.Load(ctx)
		}
		var msg snapshotMsg
		if cart != nil {
			msg.cart = cart.Snapshot()
		}
		if wishlist != nil {
			msg.wishlist = wishlist.Snapshot()
		}
		return msg
	}
}

func (m Model) fetchPageCmd(page int) tea.Cmd {
	ctx, client, size := m.ctx, m.client, m.pageSize
	return func() tea.Msg {
		result, err := client.FetchProducts(ctx, page, size)
		return pageMsg{page: result, err: err}
	}
}

func (m Model) fetchDetailCmd(productID string) tea.Cmd {
	ctx, client := m.ctx, m.client
	return func() tea.Msg {
		product, err := client.FetchProduct(ctx, productID)
		return detailMsg{product: product, err: err}
	}
}

func (m Model) loginCmd(email, password string) tea.Cmd {
	ctx, client, sess := m.ctx, m.client, m.session
	return func() tea.Msg {
		resp, err := client.Login(ctx, email, password)
		if err != nil {
			return loginMsg{err: err}
		}
		if sess != nil {
			if err := sess.Save(session.Identity{
				Token:     resp.Token,
				UserID:    resp.User.ID,
				UserName:  resp.User.Name,
				UserEmail: resp.User.Email,
				UserRole:  resp.User.Role,
			}); err != nil {
				return loginMsg{err: err}
			}
		}
		return loginMsg{user: resp.User}
	}
}

func waitSearchCmd(ch <-chan search.Result) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		result, ok := <-ch
		if !ok {
			return nil
		}
		return searchMsg(result)
	}
}

// displayError turns an API failure into a short user-facing message.
func displayError(err error) string {
	if err == nil {
		return ""
	}
	if kind, ok := api.ErrorKind(err); ok {
		switch kind {
		case api.KindNetwork:
			return "Cannot reach the shop, check your connection"
		case api.KindUnauthorized:
			return "Session expired, sign in again"
		}
	}
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return "Something went wrong, try again"
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
