package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ozaka001/shopfront/internal/prefs"
	"github.com/ozaka001/shopfront/internal/store"
)

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	// Typing views swallow everything except their own control keys.
	switch m.currentView {
	case ViewLogin:
		return m.handleLoginKey(msg)
	case ViewSearch:
		return m.handleSearchKey(msg)
	}

	m.notice = ""

	// Global keys for browsing views
	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "?":
		m.showHelp = true
		return m, nil

	case "T":
		m.theme = GetTheme(NextTheme(m.theme.Name))
		if m.prefsPath != "" {
			_ = prefs.Save(m.prefsPath, prefs.Prefs{Theme: m.theme.Name})
		}
		return m, nil

	case "b":
		m.currentView = ViewCatalog
		if len(m.catalog.Items) == 0 && !m.loadingPage {
			m.loadingPage = true
			return m, m.fetchPageCmd(1)
		}
		return m, nil

	case "/":
		m.currentView = ViewSearch
		m.searchInput.Focus()
		return m, nil

	case "c":
		m.currentView = ViewCart
		return m, m.snapshotCmd()

	case "w":
		m.currentView = ViewWishlist
		return m, m.snapshotCmd()

	case "L":
		return m.signOut()
	}

	switch m.currentView {
	case ViewCatalog:
		return m.handleCatalogKey(msg)
	case ViewCart:
		return m.handleCartKey(msg)
	case ViewWishlist:
		return m.handleWishlistKey(msg)
	case ViewDetail:
		return m.handleDetailKey(msg)
	}

	return m, nil
}

func (m Model) handleLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "shift+tab", "up", "down":
		if m.loginFocus == 0 {
			m.loginFocus = 1
			m.emailInput.Blur()
			m.passwordInput.Focus()
		} else {
			m.loginFocus = 0
			m.passwordInput.Blur()
			m.emailInput.Focus()
		}
		return m, nil

	case "enter":
		if m.loginFocus == 0 {
			m.loginFocus = 1
			m.emailInput.Blur()
			m.passwordInput.Focus()
			return m, nil
		}
		if m.loggingIn {
			return m, nil
		}
		email := strings.TrimSpace(m.emailInput.Value())
		password := m.passwordInput.Value()
		if email == "" || password == "" {
			m.loginErr = "Email and password are required"
			return m, nil
		}
		m.loggingIn = true
		m.loginErr = ""
		return m, m.loginCmd(email, password)
	}

	var cmd tea.Cmd
	if m.loginFocus == 0 {
		m.emailInput, cmd = m.emailInput.Update(msg)
	} else {
		m.passwordInput, cmd = m.passwordInput.Update(msg)
	}
	return m, cmd
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		// Leaving search clears it; an in-flight response becomes stale.
		m.searchInput.SetValue("")
		m.searchRow = 0
		if m.search != nil {
			m.search.Input(m.ctx, "")
		}
		m.currentView = ViewCatalog
		return m, nil

	case "enter":
		if len(m.searchResult.Products) > 0 && m.searchRow < len(m.searchResult.Products) {
			m.detailFrom = ViewSearch
			return m, m.fetchSelectedDetailCmd()
		}
		if m.search != nil {
			m.search.Flush(m.ctx)
		}
		return m, nil

	case "down", "ctrl+n":
		if m.searchRow < len(m.searchResult.Products)-1 {
			m.searchRow++
		}
		return m, nil

	case "up", "ctrl+p":
		if m.searchRow > 0 {
			m.searchRow--
		}
		return m, nil
	}

	var cmd tea.Cmd
	before := m.searchInput.Value()
	m.searchInput, cmd = m.searchInput.Update(msg)
	if after := m.searchInput.Value(); after != before && m.search != nil {
		// Echo is immediate; the request waits out the debounce window.
		m.search.Input(m.ctx, after)
	}
	return m, cmd
}

func (m Model) handleCatalogKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := m.catalog.Items

	switch msg.String() {
	case "j", "down":
		if m.catalogRow < len(items)-1 {
			m.catalogRow++
		}
	case "k", "up":
		if m.catalogRow > 0 {
			m.catalogRow--
		}
	case "g", "home":
		m.catalogRow = 0
	case "G", "end":
		m.catalogRow = max(0, len(items)-1)

	case "]", "right", "n":
		if m.pager().NextEnabled && !m.loadingPage {
			m.loadingPage = true
			return m, m.fetchPageCmd(m.catalog.Page + 1)
		}
	case "[", "left", "p":
		if m.pager().PrevEnabled && !m.loadingPage {
			m.loadingPage = true
			return m, m.fetchPageCmd(m.catalog.Page - 1)
		}

	case "enter":
		m.detailFrom = ViewCatalog
		return m, m.fetchSelectedDetailCmd()

	case "a":
		return m.addSelectedToCart(1, "")

	case "s":
		return m.toggleSelectedWishlist()
	}

	return m, nil
}

func (m Model) handleCartKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	lines := m.cartSnap.Lines

	switch msg.String() {
	case "j", "down":
		if m.cartRow < len(lines)-1 {
			m.cartRow++
		}
	case "k", "up":
		if m.cartRow > 0 {
			m.cartRow--
		}

	case "+", "=":
		if m.cartRow < len(lines) {
			line := lines[m.cartRow]
			key := store.LineKey{ProductID: line.ProductID, Color: line.Color}
			if err := m.cart.UpdateQuantity(m.ctx, key, line.Quantity+1); err != nil {
				m.notice = displayError(err)
			}
			return m, m.snapshotCmd()
		}

	case "-":
		if m.cartRow < len(lines) {
			line := lines[m.cartRow]
			key := store.LineKey{ProductID: line.ProductID, Color: line.Color}
			// Dropping to zero removes the line
			if err := m.cart.UpdateQuantity(m.ctx, key, line.Quantity-1); err != nil {
				m.notice = displayError(err)
			}
			return m, m.snapshotCmd()
		}

	case "x", "delete":
		if m.cartRow < len(lines) {
			line := lines[m.cartRow]
			key := store.LineKey{ProductID: line.ProductID, Color: line.Color}
			if err := m.cart.Remove(m.ctx, key); err != nil {
				m.notice = displayError(err)
			}
			return m, m.snapshotCmd()
		}

	case "C":
		if err := m.cart.Clear(m.ctx); err != nil {
			m.notice = displayError(err)
		}
		return m, m.snapshotCmd()

	case "enter":
		if m.cartRow < len(lines) {
			m.detailFrom = ViewCart
			return m, m.fetchDetailCmd(lines[m.cartRow].ProductID)
		}
	}

	return m, nil
}

func (m Model) handleWishlistKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := m.wishSnap.Items

	switch msg.String() {
	case "j", "down":
		if m.wishRow < len(items)-1 {
			m.wishRow++
		}
	case "k", "up":
		if m.wishRow > 0 {
			m.wishRow--
		}

	case "x", "delete":
		if m.wishRow < len(items) {
			if err := m.wishlist.Remove(m.ctx, items[m.wishRow].ProductID); err != nil {
				m.notice = displayError(err)
			}
			return m, m.snapshotCmd()
		}

	case "a":
		// Move to cart: add the product, then drop it from the wishlist.
		if m.wishRow < len(items) {
			item := items[m.wishRow]
			if item.Product == nil {
				m.notice = "Product details unavailable"
				return m, nil
			}
			if err := m.cart.Add(m.ctx, *item.Product, 1, ""); err != nil {
				m.notice = displayError(err)
				return m, m.snapshotCmd()
			}
			if err := m.wishlist.Remove(m.ctx, item.ProductID); err != nil {
				m.notice = displayError(err)
			} else {
				m.notice = "Moved to cart: " + item.Product.Name
			}
			return m, m.snapshotCmd()
		}

	case "enter":
		if m.wishRow < len(items) {
			m.detailFrom = ViewWishlist
			return m, m.fetchDetailCmd(items[m.wishRow].ProductID)
		}
	}

	return m, nil
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.detail == nil {
		m.currentView = ViewCatalog
		return m, nil
	}

	switch msg.String() {
	case "esc":
		back := m.detailFrom
		if back == ViewDetail || back == ViewLogin {
			back = ViewCatalog
		}
		m.currentView = back
		if back == ViewSearch {
			m.searchInput.Focus()
		}
		return m, nil

	case "h", "left":
		if len(m.detail.Colors) > 0 {
			m.colorIdx = (m.colorIdx + len(m.detail.Colors) - 1) % len(m.detail.Colors)
		}
	case "l", "right":
		if len(m.detail.Colors) > 0 {
			m.colorIdx = (m.colorIdx + 1) % len(m.detail.Colors)
		}

	case "+", "=":
		m.detailQty++
	case "-":
		if m.detailQty > 1 {
			m.detailQty--
		}

	case "a", "enter":
		color := ""
		if len(m.detail.Colors) > 0 {
			color = m.detail.Colors[m.colorIdx]
		}
		return m.addSelectedToCart(m.detailQty, color)

	case "s":
		return m.toggleSelectedWishlist()
	}

	return m, nil
}

// addSelectedToCart applies a local-first cart add for the product under the
// cursor.
func (m Model) addSelectedToCart(quantity int, color string) (tea.Model, tea.Cmd) {
	product := m.selectedProduct()
	if product == nil {
		return m, nil
	}
	if err := m.cart.Add(m.ctx, *product, quantity, color); err != nil {
		m.notice = displayError(err)
		return m, m.snapshotCmd()
	}
	m.notice = "Added to cart: " + product.Name
	return m, m.snapshotCmd()
}

// toggleSelectedWishlist adds or removes the product under the cursor.
func (m Model) toggleSelectedWishlist() (tea.Model, tea.Cmd) {
	product := m.selectedProduct()
	if product == nil {
		return m, nil
	}
	var err error
	if m.wishlist.Contains(product.ID) {
		err = m.wishlist.Remove(m.ctx, product.ID)
		m.notice = "Removed from wishlist: " + product.Name
	} else {
		err = m.wishlist.Add(m.ctx, *product)
		m.notice = "Saved to wishlist: " + product.Name
	}
	if err != nil {
		m.notice = displayError(err)
	}
	return m, m.snapshotCmd()
}

// fetchSelectedDetailCmd fetches the product under the cursor.
func (m Model) fetchSelectedDetailCmd() tea.Cmd {
	product := m.selectedProduct()
	if product == nil {
		return nil
	}
	return m.fetchDetailCmd(product.ID)
}

// signOut clears the session and resets the stores to empty.
func (m Model) signOut() (tea.Model, tea.Cmd) {
	if m.session != nil {
		_ = m.session.Clear()
	}
	if m.cart != nil {
		m.cart.Load(m.ctx)
	}
	if m.wishlist != nil {
		m.wishlist.Load(m.ctx)
	}
	m.currentView = ViewLogin
	m.loginFocus = 0
	m.emailInput.Focus()
	m.passwordInput.Blur()
	m.passwordInput.SetValue("")
	m.notice = ""
	return m, m.snapshotCmd()
}
