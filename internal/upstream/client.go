// Package upstream talks to the product/catalog REST API the storefront
// consumes. Responses use the {success, data, error} JSON envelope; anything
// that is not JSON (a proxy or cold-start HTML error page) is a hard failure.
package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Cristian668/VentaX/internal/catalog"
	"github.com/Cristian668/VentaX/internal/platform/httpx"
)

// envelope is the wire format shared by every upstream endpoint.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
	Message string          `json:"message,omitempty"`
}

// RetryPolicy states explicitly which failures are retried, how often and
// with what pause. Only idempotent reads go through it.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     time.Duration
	Retryable   func(error) bool
}

// DefaultRetryPolicy retries transient transport failures exactly once after
// a fixed delay, mirroring the storefront's cold-start retry.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 2, Backoff: 3 * time.Second, Retryable: IsTransient}
}

// IsTransient reports whether err is worth one more attempt: network-level
// failures and 5xx responses qualify; malformed bodies, 404s and envelope
// business errors do not.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, httpx.ErrMalformedResponse) || errors.Is(err, httpx.ErrNotFound) {
		return false
	}
	var remote *httpx.RemoteError
	if errors.As(err, &remote) {
		return remote.Status >= http.StatusInternalServerError
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	return true
}

// Client is the HTTP client for the upstream product API.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
	retry   RetryPolicy
}

// NewClient builds a Client. timeout caps each individual request.
func NewClient(baseURL string, timeout time.Duration, retry RetryPolicy, logger *slog.Logger) *Client {
	if retry.MaxAttempts <= 0 {
		retry = DefaultRetryPolicy()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
		retry:   retry,
	}
}

// ListProducts fetches the product listing for a supplier view.
func (c *Client) ListProducts(ctx context.Context, view catalog.Supplier, limit int) ([]catalog.Product, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("supplier", view.FilterParam())
	return c.listProducts(ctx, q)
}

// SearchProducts queries across both supplier views.
func (c *Client) SearchProducts(ctx context.Context, query string, limit int) ([]catalog.Product, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("search", query)
	return c.listProducts(ctx, q)
}

func (c *Client) listProducts(ctx context.Context, q url.Values) ([]catalog.Product, error) {
	var products []catalog.Product
	if err := c.getJSON(ctx, "/products?"+q.Encode(), &products); err != nil {
		return nil, err
	}
	return products, nil
}

// GetProduct fetches a single product by id or product code.
func (c *Client) GetProduct(ctx context.Context, token string) (catalog.Product, error) {
	var product catalog.Product
	if err := c.getJSON(ctx, "/products/"+url.PathEscape(token), &product); err != nil {
		return catalog.Product{}, err
	}
	if product.ID == "" && product.ProductCode == "" {
		return catalog.Product{}, httpx.ErrNotFound
	}
	return product, nil
}

// GetOrderStatus reads the mirrored status of an order on the upstream store,
// for the background sync job.
func (c *Client) GetOrderStatus(ctx context.Context, code string) (string, error) {
	var dto struct {
		Status string `json:"status"`
	}
	if err := c.getJSON(ctx, "/orders/"+url.PathEscape(code), &dto); err != nil {
		return "", err
	}
	if dto.Status == "" {
		return "", httpx.ErrNotFound
	}
	return dto.Status, nil
}

// getJSON performs a GET under the retry policy and decodes the envelope's
// data field into out.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	var lastErr error
	for attempt := 1; attempt <= c.retry.MaxAttempts; attempt++ {
		if attempt > 1 {
			c.logger.Info("upstream retry",
				slog.String("path", path),
				slog.Int("attempt", attempt))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.retry.Backoff):
			}
		}
		lastErr = c.doGet(ctx, path, out)
		if lastErr == nil {
			return nil
		}
		if c.retry.Retryable == nil || !c.retry.Retryable(lastErr) {
			return lastErr
		}
	}
	return lastErr
}

func (c *Client) doGet(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("upstream: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("upstream: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("upstream: read body: %w", err)
	}
	return decodeEnvelope(resp.StatusCode, body, out)
}

const maxBodyBytes = 8 << 20

func decodeEnvelope(status int, body []byte, out any) error {
	trimmed := strings.TrimSpace(string(body))
	if strings.HasPrefix(trimmed, "<") {
		return fmt.Errorf("%w: got HTML (status %d)", httpx.ErrMalformedResponse, status)
	}
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("%w: status %d", httpx.ErrMalformedResponse, status)
	}
	if status == http.StatusNotFound {
		return httpx.ErrNotFound
	}
	if status < 200 || status >= 300 {
		return &httpx.RemoteError{Status: status, Message: firstOf(env.Error, env.Message)}
	}
	if !env.Success {
		// Some deployments omit success on listing endpoints; a non-empty
		// data array still counts as a successful response.
		if len(env.Data) == 0 || string(env.Data) == "[]" || string(env.Data) == "null" {
			return &httpx.RemoteError{Status: status, Message: firstOf(env.Error, env.Message)}
		}
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%w: data field", httpx.ErrMalformedResponse)
	}
	return nil
}

func firstOf(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return "unknown error"
}
