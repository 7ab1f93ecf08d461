package ui

import (
	"fmt"
	"strings"
)

// renderHeader renders the top status bar.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	p := newBarPainter(m.theme.Surface)

	var parts []string
	parts = append(parts, p.paint("shopfront", styles.Logo))

	if m.session != nil && m.session.SignedIn() {
		identity := m.session.Identity()
		parts = append(parts, p.paint(identity.UserName, styles.Text))

		// Cart summary with sync badge
		cartLabel := fmt.Sprintf("Cart: %d", m.cartSnap.TotalQuantity())
		parts = append(parts,
			p.paint(cartLabel, styles.MutedText)+p.pad(1)+
				m.syncBadge(styles, m.cartSnap.State.String()))

		wishLabel := fmt.Sprintf("Saved: %d", len(m.wishSnap.Items))
		parts = append(parts,
			p.paint(wishLabel, styles.MutedText)+p.pad(1)+
				m.syncBadge(styles, m.wishSnap.State.String()))
	} else {
		parts = append(parts, p.paint("Signed out", styles.MutedText))
	}

	if m.notice != "" {
		maxNotice := 60
		if m.width < 100 {
			maxNotice = 30
		}
		parts = append(parts, p.paint(truncate(m.notice, maxNotice), styles.InfoText))
	}

	if m.cartSnap.LastError != nil {
		parts = append(parts, p.paint("SYNC", styles.DangerText)+p.pad(1)+
			p.paint(truncate(displayError(m.cartSnap.LastError), 40), styles.DangerText))
	}

	return styles.Header.Width(m.width).Render(p.row(parts, 2) + p.pad(2))
}

// syncBadge renders a colored state badge, quiet when synced.
func (m Model) syncBadge(styles Styles, state string) string {
	if state == "synced" {
		return ""
	}
	return styles.StateStyle(state).Render(state)
}

// renderCommandBar renders the command hints bar for the current view.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	p := newBarPainter(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	switch m.currentView {
	case ViewLogin:
		commands = []cmd{
			{"Tab", "Next field"},
			{"Enter", "Sign in"},
			{"Ctrl+C", "Quit"},
		}
	case ViewSearch:
		commands = []cmd{
			{"↑/↓", "Navigate"},
			{"Enter", "Open"},
			{"Esc", "Back"},
		}
	case ViewCart:
		commands = []cmd{
			{"j/k", "Navigate"},
			{"+/-", "Quantity"},
			{"x", "Remove"},
			{"C", "Empty cart"},
			{"b", "Browse"},
			{"?", "More"},
		}
	case ViewWishlist:
		commands = []cmd{
			{"j/k", "Navigate"},
			{"a", "To cart"},
			{"x", "Remove"},
			{"b", "Browse"},
			{"?", "More"},
		}
	case ViewDetail:
		commands = []cmd{
			{"h/l", "Color"},
			{"+/-", "Quantity"},
			{"a", "Add to cart"},
			{"s", "Wishlist"},
			{"Esc", "Back"},
		}
	default: // ViewCatalog
		commands = []cmd{
			{"j/k", "Navigate"},
			{"[/]", "Page"},
			{"Enter", "Open"},
			{"a", "Add to cart"},
			{"s", "Wishlist"},
			{"/", "Search"},
			{"c", "Cart"},
			{"w", "Saved"},
			{"?", "More"},
		}
	}

	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments, p.hint(c.key, c.desc, styles.AccentText, styles.MutedText))
	}

	segments = append(segments, p.hint("T", m.theme.Name, styles.AccentText, styles.FaintText))

	return styles.Header.Width(m.width).Render(p.row(segments, 2))
}

// renderHelp renders the full-screen key reference.
func (m Model) renderHelp() string {
	styles := m.theme.Styles()

	var b strings.Builder
	b.WriteString(styles.Logo.Render("shopfront"))
	b.WriteString(styles.MutedText.Render("  key reference"))
	b.WriteString("\n\n")

	section := func(title string, rows [][2]string) {
		b.WriteString(styles.AccentText.Render(title))
		b.WriteString("\n")
		for _, r := range rows {
			b.WriteString("  ")
			b.WriteString(styles.Text.Render(fmt.Sprintf("%-10s", r[0])))
			b.WriteString(styles.MutedText.Render(r[1]))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	section("Global", [][2]string{
		{"b", "Browse catalog"},
		{"/", "Search"},
		{"c", "Cart"},
		{"w", "Wishlist"},
		{"L", "Sign out"},
		{"T", "Cycle theme"},
		{"q", "Quit"},
	})
	section("Catalog", [][2]string{
		{"j/k", "Move selection"},
		{"[ / ]", "Previous / next page"},
		{"enter", "Product detail"},
		{"a", "Add to cart"},
		{"s", "Toggle wishlist"},
	})
	section("Cart", [][2]string{
		{"+/-", "Change quantity (zero removes)"},
		{"x", "Remove line"},
		{"C", "Empty the cart"},
	})

	b.WriteString(styles.FaintText.Render("press any key to close"))
	return b.String()
}

// truncate truncates a string to max length with ellipsis.
func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
