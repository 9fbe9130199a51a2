// Package api is the typed client for the storefront REST API. It owns
// the session cookie, so one Client equals one anonymous shopper.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type Client struct {
	baseURL *url.URL
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[*http.Response]
}

type Option func(*Client)

// WithHTTPClient replaces the default client. The caller is then
// responsible for providing a cookie jar if session affinity matters.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}

	c := &Client{
		baseURL: u,
		http: &http.Client{
			Jar:       jar,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		breaker: gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
			Name: "storefront-api",
		}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) ListCategories(ctx context.Context, page int) (*Page[Category], error) {
	var out Page[Category]
	if err := c.do(ctx, http.MethodGet, listPath("/api/categories/", "", page), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetCategory(ctx context.Context, slug string) (*Category, error) {
	var out Category
	if err := c.do(ctx, http.MethodGet, "/api/categories/"+url.PathEscape(slug)+"/", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListProducts lists products, optionally filtered to a category slug
// (empty means all). Pages start at 1; 0 means the first page.
func (c *Client) ListProducts(ctx context.Context, category string, page int) (*Page[Product], error) {
	var out Page[Product]
	if err := c.do(ctx, http.MethodGet, listPath("/api/products/", category, page), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetProduct(ctx context.Context, slug string) (*ProductDetail, error) {
	var out ProductDetail
	if err := c.do(ctx, http.MethodGet, "/api/products/"+url.PathEscape(slug)+"/", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetCart(ctx context.Context) (*Cart, error) {
	var out Cart
	if err := c.do(ctx, http.MethodGet, "/api/cart/", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AddItem(ctx context.Context, productID string, quantity int) (*CartMutation, error) {
	body := map[string]interface{}{"product_id": productID, "quantity": quantity}
	var out CartMutation
	if err := c.do(ctx, http.MethodPost, "/api/cart/items/", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateItem(ctx context.Context, productID string, quantity int) (*CartMutation, error) {
	body := map[string]interface{}{"quantity": quantity}
	var out CartMutation
	if err := c.do(ctx, http.MethodPatch, "/api/cart/items/"+url.PathEscape(productID)+"/", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RemoveItem(ctx context.Context, productID string) (*CartRemoval, error) {
	var out CartRemoval
	if err := c.do(ctx, http.MethodDelete, "/api/cart/items/"+url.PathEscape(productID)+"/", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ClearCart(ctx context.Context) (*Cart, error) {
	var out Cart
	if err := c.do(ctx, http.MethodDelete, "/api/cart/", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Checkout(ctx context.Context, req CheckoutRequest) (*Order, error) {
	var out Order
	if err := c.do(ctx, http.MethodPost, "/api/orders/checkout/", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetOrder(ctx context.Context, id string) (*Order, error) {
	var out Order
	if err := c.do(ctx, http.MethodGet, "/api/orders/"+url.PathEscape(id)+"/", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListOrders(ctx context.Context, page int) (*Page[OrderListItem], error) {
	var out Page[OrderListItem]
	if err := c.do(ctx, http.MethodGet, listPath("/api/orders/", "", page), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func listPath(base, category string, page int) string {
	q := url.Values{}
	if category != "" {
		q.Set("category", category)
	}
	if page > 1 {
		q.Set("page", strconv.Itoa(page))
	}
	if len(q) == 0 {
		return base
	}
	return base + "?" + q.Encode()
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	ref, err := url.Parse(path)
	if err != nil {
		return fmt.Errorf("parse request path: %w", err)
	}

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.ResolveReference(ref).String(), reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.breaker.Execute(func() (*http.Response, error) {
		return c.http.Do(req)
	})
	if err != nil {
		return fmt.Errorf("request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	var payload struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	// An undecodable error body still yields a usable status error.
	_ = json.NewDecoder(resp.Body).Decode(&payload)

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    payload.Error,
		Fields:     payload.Fields,
	}
}
