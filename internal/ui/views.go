package ui

import (
	"fmt"
	"strings"

	"github.com/ozaka001/shopfront/internal/api"
)

// renderLogin renders the sign-in form.
func (m Model) renderLogin() string {
	styles := m.theme.Styles()

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(styles.AccentText.Render("  Sign in"))
	b.WriteString("\n\n")
	b.WriteString("  " + m.emailInput.View())
	b.WriteString("\n")
	b.WriteString("  " + m.passwordInput.View())
	b.WriteString("\n\n")

	if m.loggingIn {
		b.WriteString(styles.MutedText.Render("  Signing in..."))
	} else if m.loginErr != "" {
		b.WriteString(styles.DangerText.Render("  " + m.loginErr))
	}
	b.WriteString("\n")

	return b.String()
}

// renderCatalog renders the paginated product listing.
func (m Model) renderCatalog() string {
	styles := m.theme.Styles()

	if m.catalogErr != "" {
		return "\n" + styles.DangerText.Render("  "+m.catalogErr) + "\n"
	}
	if m.loadingPage && len(m.catalog.Items) == 0 {
		return "\n" + styles.MutedText.Render("  Loading catalog...") + "\n"
	}
	if len(m.catalog.Items) == 0 {
		return "\n" + styles.MutedText.Render("  No products.") + "\n"
	}

	var b strings.Builder
	b.WriteString("\n")
	for i, p := range m.catalog.Items {
		b.WriteString(m.renderProductRow(p, i == m.catalogRow, styles))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.renderPager(styles))
	b.WriteString("\n")
	return b.String()
}

// renderProductRow renders one catalog or search result line.
func (m Model) renderProductRow(p api.Product, selected bool, styles Styles) string {
	name := truncate(p.Name, 40)
	price := formatPrice(p.EffectivePrice())

	line := fmt.Sprintf("  %-42s %10s", name, price)
	if p.OnSale() {
		line += "  " + styles.StateStyle("sale").Render("sale")
	}
	switch {
	case !p.InStock():
		line += "  " + styles.DangerText.Render("out of stock")
	case p.Stock <= 5:
		line += "  " + styles.WarningText.Render(fmt.Sprintf("only %d left", p.Stock))
	}
	if m.wishlist != nil && m.wishlist.Contains(p.ID) {
		line += "  " + styles.AccentText.Render("♥")
	}

	if selected {
		return styles.Selected.Render(line)
	}
	return line
}

// renderPager renders the windowed page buttons with prev/next arrows.
func (m Model) renderPager(styles Styles) string {
	window := m.pager()
	if len(window.Items) == 0 {
		return ""
	}

	var parts []string
	if window.PrevEnabled {
		parts = append(parts, styles.AccentText.Render("‹"))
	} else {
		parts = append(parts, styles.FaintText.Render("‹"))
	}

	for _, item := range window.Items {
		switch {
		case item.IsGap():
			parts = append(parts, styles.FaintText.Render("…"))
		case item.Page == m.catalog.Page:
			parts = append(parts, styles.Selected.Render(fmt.Sprintf(" %d ", item.Page)))
		default:
			parts = append(parts, styles.MutedText.Render(fmt.Sprintf(" %d ", item.Page)))
		}
	}

	if window.NextEnabled {
		parts = append(parts, styles.AccentText.Render("›"))
	} else {
		parts = append(parts, styles.FaintText.Render("›"))
	}

	count := fmt.Sprintf("  %d items", m.catalog.TotalItems)
	return "  " + strings.Join(parts, " ") + styles.FaintText.Render(count)
}

// renderSearch renders the query input and its current results.
func (m Model) renderSearch() string {
	styles := m.theme.Styles()

	var b strings.Builder
	b.WriteString("\n  ")
	b.WriteString(m.searchInput.View())
	b.WriteString("\n\n")

	result := m.searchResult
	switch {
	case result.Err != "":
		b.WriteString(styles.DangerText.Render("  " + result.Err))
		b.WriteString("\n")
	case result.Query == "":
		b.WriteString(styles.MutedText.Render("  Type to search the catalog."))
		b.WriteString("\n")
	case len(result.Products) == 0:
		b.WriteString(styles.MutedText.Render(fmt.Sprintf("  Nothing matches %q.", result.Query)))
		b.WriteString("\n")
	default:
		for i, p := range result.Products {
			b.WriteString(m.renderProductRow(p, i == m.searchRow, styles))
			b.WriteString("\n")
		}
	}

	return b.String()
}

// renderCart renders the cart lines with quantities and the subtotal.
func (m Model) renderCart() string {
	styles := m.theme.Styles()

	if len(m.cartSnap.Lines) == 0 {
		return "\n" + styles.MutedText.Render("  Your cart is empty.") + "\n"
	}

	var b strings.Builder
	b.WriteString("\n")
	for i, line := range m.cartSnap.Lines {
		name := line.ProductID
		price := ""
		if line.Product != nil {
			name = line.Product.Name
			price = formatPrice(line.Product.EffectivePrice() * float64(line.Quantity))
		}
		label := truncate(name, 36)
		if line.Color != "" {
			label += styles.MutedText.Render(" (" + line.Color + ")")
		}
		row := fmt.Sprintf("  %-44s ×%-3d %10s", label, line.Quantity, price)
		if i == m.cartRow {
			row = styles.Selected.Render(row)
		}
		b.WriteString(row)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.Text.Render(fmt.Sprintf("  %d items", m.cartSnap.TotalQuantity())))
	b.WriteString(styles.AccentText.Render(fmt.Sprintf("   subtotal %s", formatPrice(m.cartSnap.Subtotal()))))
	b.WriteString("\n")
	return b.String()
}

// renderWishlist renders saved products, newest first.
func (m Model) renderWishlist() string {
	styles := m.theme.Styles()

	if len(m.wishSnap.Items) == 0 {
		return "\n" + styles.MutedText.Render("  Nothing saved yet.") + "\n"
	}

	var b strings.Builder
	b.WriteString("\n")
	for i, item := range m.wishSnap.Items {
		name := item.ProductID
		price := ""
		if item.Product != nil {
			name = item.Product.Name
			price = formatPrice(item.Product.EffectivePrice())
		}
		row := fmt.Sprintf("  %-44s %10s", truncate(name, 42), price)
		if i == m.wishRow {
			row = styles.Selected.Render(row)
		}
		b.WriteString(row)
		b.WriteString("\n")
	}
	return b.String()
}

// renderDetail renders a single product with color and quantity pickers.
func (m Model) renderDetail() string {
	styles := m.theme.Styles()
	p := m.detail
	if p == nil {
		return "\n" + styles.MutedText.Render("  Loading product...") + "\n"
	}

	var b strings.Builder
	b.WriteString("\n  ")
	b.WriteString(styles.AccentText.Render(p.Name))
	if p.OnSale() {
		b.WriteString("  " + styles.StateStyle("sale").Render("sale"))
	}
	b.WriteString("\n\n")

	price := formatPrice(p.EffectivePrice())
	if p.OnSale() {
		price += styles.FaintText.Render("  was " + formatPrice(p.Price))
	}
	b.WriteString("  " + styles.Text.Render(price))
	b.WriteString("\n")

	switch {
	case !p.InStock():
		b.WriteString("  " + styles.DangerText.Render("Out of stock"))
	case p.Stock <= 5:
		b.WriteString("  " + styles.WarningText.Render(fmt.Sprintf("Only %d left", p.Stock)))
	default:
		b.WriteString("  " + styles.SuccessText.Render("In stock"))
	}
	b.WriteString("\n\n")

	if p.Description != "" {
		b.WriteString("  " + styles.MutedText.Render(truncate(p.Description, 100)))
		b.WriteString("\n\n")
	}

	if len(p.Colors) > 0 {
		b.WriteString("  Color: ")
		for i, color := range p.Colors {
			if i == m.colorIdx {
				b.WriteString(styles.Selected.Render(" " + color + " "))
			} else {
				b.WriteString(styles.MutedText.Render(" " + color + " "))
			}
		}
		b.WriteString("\n")
	}

	b.WriteString(fmt.Sprintf("  Quantity: %d\n", m.detailQty))

	if m.wishlist != nil && m.wishlist.Contains(p.ID) {
		b.WriteString("\n  " + styles.AccentText.Render("♥ saved to wishlist"))
		b.WriteString("\n")
	}

	return b.String()
}

// formatPrice renders a price in the shop's display currency.
func formatPrice(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}
