package api

import (
	"time"
)

// User is the denormalized account record returned by login.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// LoginResponse mirrors POST /auth/login.
type LoginResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

// Product describes a catalog item.
type Product struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	SalePrice   *float64 `json:"salePrice,omitempty"`
	Stock       int      `json:"stock"`
	Category    string   `json:"category"`
	Colors      []string `json:"colors,omitempty"`
	Images      []string `json:"images,omitempty"`
}

// EffectivePrice returns the sale price when one is set and lower than the
// regular price, else the regular price.
func (p Product) EffectivePrice() float64 {
	if p.SalePrice != nil && *p.SalePrice < p.Price {
		return *p.SalePrice
	}
	return p.Price
}

// OnSale reports whether the effective price comes from a sale.
func (p Product) OnSale() bool {
	return p.SalePrice != nil && *p.SalePrice < p.Price
}

// InStock reports whether the product can currently be added to a cart.
func (p Product) InStock() bool {
	return p.Stock > 0
}

// CartLine is one entry in a cart: a product reference, a quantity, and an
// optional selected color. The server keeps at most one line per
// (product, color) pair.
type CartLine struct {
	ProductID string   `json:"productId"`
	Quantity  int      `json:"quantity"`
	Color     string   `json:"color,omitempty"`
	Product   *Product `json:"product,omitempty"`
}

// Cart mirrors GET /carts/{userId}.
type Cart struct {
	UserID string     `json:"userId"`
	Items  []CartLine `json:"items"`
}

// TotalQuantity sums the quantities across all lines.
func (c Cart) TotalQuantity() int {
	total := 0
	for _, line := range c.Items {
		total += line.Quantity
	}
	return total
}

// Subtotal sums effective price times quantity for lines that carry product
// details. Lines without an embedded product contribute nothing.
func (c Cart) Subtotal() float64 {
	var total float64
	for _, line := range c.Items {
		if line.Product != nil {
			total += line.Product.EffectivePrice() * float64(line.Quantity)
		}
	}
	return total
}

// WishlistItem is one saved product with its added timestamp.
type WishlistItem struct {
	ProductID string   `json:"productId"`
	AddedAt   string   `json:"addedAt"`
	Product   *Product `json:"product,omitempty"`
}

// ParsedAddedAt parses the added timestamp, returning the zero time when the
// value is missing or malformed.
func (w WishlistItem) ParsedAddedAt() time.Time {
	return parseTimestamp(w.AddedAt)
}

// WishlistResponse mirrors GET /wishlist/{userId}.
type WishlistResponse struct {
	Items      []WishlistItem `json:"items"`
	TotalItems int            `json:"totalItems"`
}

// ProductPage mirrors the paginated listing responses.
type ProductPage struct {
	Items      []Product `json:"items"`
	Page       int       `json:"page"`
	PageSize   int       `json:"pageSize"`
	TotalItems int       `json:"totalItems"`
	TotalPages int       `json:"totalPages"`
}

// errorBody is the JSON error payload the API attaches to failures.
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (b errorBody) text() string {
	if b.Message != "" {
		return b.Message
	}
	return b.Error
}

func parseTimestamp(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05"} {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts
		}
	}
	return time.Time{}
}
