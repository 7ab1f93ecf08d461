package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Credentials supplies the bearer token attached to outbound requests and
// is cleared when the API rejects it. Implemented by session.Store.
type Credentials interface {
	Token() string
	Clear() error
}

// Client talks to the shop REST API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	creds     Credentials
	logger    *log.Logger
}

const (
	defaultAPIURL    = "127.0.0.1:4000"
	defaultUserAgent = "shopfront/0.1"
	requestTimeout   = 10 * time.Second
)

// NewClient builds a Client for the given API base URL. A nil creds makes
// every request anonymous; a nil logger discards request logging.
func NewClient(apiURL string, creds Credentials, logger *log.Logger) (*Client, error) {
	base, err := parseBaseURL(apiURL)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
		creds:     creds,
		logger:    logger,
	}, nil
}

// Login authenticates and returns the user record plus bearer credential.
// The caller is responsible for persisting the session.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, validationError("email is required")
	}
	if password == "" {
		return nil, validationError("password is required")
	}
	body := map[string]string{"email": email, "password": password}
	var payload LoginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &payload); err != nil {
		return nil, err
	}
	if payload.Token == "" {
		return nil, serverError(0, "login response carried no credential")
	}
	return &payload, nil
}

// FetchCart retrieves the cart for a user. Carts are created lazily, so a
// 404 means the user simply has no cart yet and yields an empty one.
func (c *Client) FetchCart(ctx context.Context, userID string) (*Cart, error) {
	var payload Cart
	err := c.do(ctx, http.MethodGet, "/carts/"+url.PathEscape(userID), nil, &payload)
	if IsNotFound(err) {
		return &Cart{UserID: userID}, nil
	}
	if err != nil {
		return nil, err
	}
	return &payload, nil
}

// AddCartItem adds quantity of a product (optionally a specific color) to
// the cart and returns the updated cart.
func (c *Client) AddCartItem(ctx context.Context, userID, productID string, quantity int, color string) (*Cart, error) {
	if quantity <= 0 {
		return nil, validationError("quantity must be a positive integer")
	}
	body := map[string]any{"productId": productID, "quantity": quantity}
	if color != "" {
		body["color"] = color
	}
	var payload Cart
	if err := c.do(ctx, http.MethodPost, "/carts/"+url.PathEscape(userID)+"/items", body, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// UpdateCartItem replaces the quantity of an existing cart line and returns
// the updated cart.
func (c *Client) UpdateCartItem(ctx context.Context, userID, productID string, quantity int, color string) (*Cart, error) {
	if quantity <= 0 {
		return nil, validationError("quantity must be a positive integer")
	}
	rel := &url.URL{Path: "/carts/" + userID + "/items/" + productID}
	if color != "" {
		rel.RawQuery = url.Values{"color": {color}}.Encode()
	}
	body := map[string]any{"quantity": quantity}
	var payload Cart
	if err := c.doURL(ctx, http.MethodPut, rel, body, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// RemoveCartItem deletes a cart line and returns the updated cart.
func (c *Client) RemoveCartItem(ctx context.Context, userID, productID, color string) (*Cart, error) {
	rel := &url.URL{Path: "/carts/" + userID + "/items/" + productID}
	if color != "" {
		rel.RawQuery = url.Values{"color": {color}}.Encode()
	}
	var payload Cart
	if err := c.doURL(ctx, http.MethodDelete, rel, nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// ClearCart empties the user's cart.
func (c *Client) ClearCart(ctx context.Context, userID string) error {
	return c.do(ctx, http.MethodDelete, "/carts/"+url.PathEscape(userID), nil, nil)
}

// FetchWishlist retrieves the wishlist with its total count.
func (c *Client) FetchWishlist(ctx context.Context, userID string) (*WishlistResponse, error) {
	var payload WishlistResponse
	err := c.do(ctx, http.MethodGet, "/wishlist/"+url.PathEscape(userID), nil, &payload)
	if IsNotFound(err) {
		return &WishlistResponse{}, nil
	}
	if err != nil {
		return nil, err
	}
	return &payload, nil
}

// AddWishlistItem saves a product to the wishlist. The server treats the
// wishlist as a membership set, so re-adding an existing product is a no-op
// on its side.
func (c *Client) AddWishlistItem(ctx context.Context, userID, productID string) (*WishlistResponse, error) {
	body := map[string]string{"productId": productID}
	var payload WishlistResponse
	if err := c.do(ctx, http.MethodPost, "/wishlist/"+url.PathEscape(userID), body, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// RemoveWishlistItem deletes a product from the wishlist and returns the
// updated list.
func (c *Client) RemoveWishlistItem(ctx context.Context, userID, productID string) (*WishlistResponse, error) {
	rel := &url.URL{Path: "/wishlist/" + userID + "/" + productID}
	var payload WishlistResponse
	if err := c.doURL(ctx, http.MethodDelete, rel, nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// SearchProducts runs a catalog text search.
func (c *Client) SearchProducts(ctx context.Context, query string) ([]Product, error) {
	rel := &url.URL{
		Path:     "/products/search",
		RawQuery: url.Values{"q": {query}}.Encode(),
	}
	var payload []Product
	if err := c.doURL(ctx, http.MethodGet, rel, nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// FetchProducts retrieves one page of the catalog listing.
func (c *Client) FetchProducts(ctx context.Context, page, pageSize int) (*ProductPage, error) {
	if page < 1 {
		page = 1
	}
	values := url.Values{}
	values.Set("page", strconv.Itoa(page))
	if pageSize > 0 {
		values.Set("pageSize", strconv.Itoa(pageSize))
	}
	rel := &url.URL{Path: "/products", RawQuery: values.Encode()}
	var payload ProductPage
	if err := c.doURL(ctx, http.MethodGet, rel, nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// FetchProduct retrieves a single catalog item.
func (c *Client) FetchProduct(ctx context.Context, productID string) (*Product, error) {
	var payload Product
	if err := c.do(ctx, http.MethodGet, "/products/"+url.PathEscape(productID), nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, dest any) error {
	rel := &url.URL{Path: path}
	return c.doURL(ctx, method, rel, body, dest)
}

func (c *Client) doURL(ctx context.Context, method string, rel *url.URL, body, dest any) error {
	reqURL := c.baseURL.ResolveReference(rel)

	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	authenticated := false
	if c.creds != nil {
		if token := c.creds.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
			authenticated = true
		}
	}

	// The request id ties the request and response log lines together. The
	// credential value itself is never logged.
	reqID := uuid.NewString()
	start := time.Now()
	c.logger.Debug("api request",
		"id", reqID, "method", method, "path", rel.Path, "auth", authenticated)

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("api transport failure", "id", reqID, "error", err)
		return networkError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Debug("api response",
		"id", reqID, "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		// A rejected credential invalidates the whole session.
		if c.creds != nil {
			if clearErr := c.creds.Clear(); clearErr != nil {
				c.logger.Warn("clear session after rejection", "error", clearErr)
			}
		}
		return unauthorizedError(resp.StatusCode, decodeErrorMessage(resp))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return serverError(resp.StatusCode, decodeErrorMessage(resp))
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// decodeErrorMessage pulls a display message out of a JSON error body when
// one is present; an empty string lets the caller synthesize from status.
func decodeErrorMessage(resp *http.Response) string {
	var body errorBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return ""
	}
	return strings.TrimSpace(body.text())
}

func parseBaseURL(apiURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiURL)
	if trimmed == "" {
		trimmed = defaultAPIURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api url %q: %w", apiURL, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
