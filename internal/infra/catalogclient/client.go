// Package catalogclient is the resilient boundary in front of the catalog
// service. Transport failures, timeouts and 5xx responses are retried with
// exponential backoff and counted by a circuit breaker; business outcomes
// (404, insufficient stock) pass through untouched and never trip the
// breaker. An open breaker short-circuits calls into ErrCatalogUnavailable.
package catalogclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"ordersvc/internal/pkg/config"
	"ordersvc/internal/pkg/errs"
	"ordersvc/internal/usecase/commands"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker/v2"
)

type httpResult struct {
	status int
	body   []byte
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	cfg        config.CatalogConfig
	breaker    *gobreaker.CircuitBreaker[httpResult]
}

var _ commands.CatalogGateway = (*Client)(nil)

func New(cfg config.CatalogConfig) *Client {
	settings := gobreaker.Settings{
		Name:        "catalog",
		MaxRequests: 1, // single trial call while half-open
		Timeout:     cfg.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
		},
	}

	return &Client{
		httpClient: &http.Client{},
		baseURL:    cfg.BaseURL,
		cfg:        cfg,
		breaker:    gobreaker.NewCircuitBreaker[httpResult](settings),
	}
}

type productResponse struct {
	ID    uuid.UUID       `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

type reserveResponse struct {
	Reserved bool `json:"reserved"`
}

func (c *Client) GetProduct(ctx context.Context, productID uuid.UUID) (*commands.ProductSnapshot, error) {
	res, err := c.call(ctx, http.MethodGet, "/api/products/"+productID.String(), c.cfg.MaxRetries)
	if err != nil {
		return nil, err
	}

	switch res.status {
	case http.StatusOK:
		var body productResponse
		if err := json.Unmarshal(res.body, &body); err != nil {
			return nil, errs.Mark(err, errs.ErrCatalogUnavailable)
		}
		return &commands.ProductSnapshot{
			ID:    body.ID,
			Name:  body.Name,
			Price: body.Price,
		}, nil
	case http.StatusNotFound:
		return nil, errs.ErrProductNotFound
	default:
		return nil, errs.Mark(fmt.Errorf("unexpected catalog status %d", res.status), errs.ErrCatalogUnavailable)
	}
}

// Reserve is retried like a read: the reservation id makes replays a no-op on
// the catalog side, so a retry after an ambiguous failure cannot
// double-decrement stock.
func (c *Client) Reserve(ctx context.Context, productID uuid.UUID, quantity int32, reservationID uuid.UUID) error {
	path := fmt.Sprintf("/api/products/%s/reserve?%s", productID, reservationQuery(quantity, reservationID))
	res, err := c.call(ctx, http.MethodPost, path, c.cfg.MaxRetries)
	if err != nil {
		return err
	}

	switch res.status {
	case http.StatusOK:
		var body reserveResponse
		if err := json.Unmarshal(res.body, &body); err != nil {
			return errs.Mark(err, errs.ErrCatalogUnavailable)
		}
		if !body.Reserved {
			return errs.ErrInsufficientStock
		}
		return nil
	case http.StatusNotFound:
		return errs.ErrProductNotFound
	default:
		return errs.Mark(fmt.Errorf("unexpected catalog status %d", res.status), errs.ErrCatalogUnavailable)
	}
}

func (c *Client) Release(ctx context.Context, productID uuid.UUID, quantity int32, reservationID uuid.UUID) error {
	path := fmt.Sprintf("/api/products/%s/release?%s", productID, reservationQuery(quantity, reservationID))
	res, err := c.call(ctx, http.MethodPost, path, c.cfg.ReleaseMaxRetries)
	if err != nil {
		return err
	}

	switch res.status {
	case http.StatusOK, http.StatusNotFound:
		// Release is an idempotent ack; an unknown product or reservation is
		// nothing left to credit.
		return nil
	default:
		return errs.Mark(fmt.Errorf("unexpected catalog status %d", res.status), errs.ErrCatalogUnavailable)
	}
}

func reservationQuery(quantity int32, reservationID uuid.UUID) string {
	q := url.Values{}
	q.Set("quantity", fmt.Sprintf("%d", quantity))
	q.Set("reservation_id", reservationID.String())
	return q.Encode()
}

func (c *Client) call(ctx context.Context, method, path string, maxRetries uint64) (httpResult, error) {
	res, err := c.breaker.Execute(func() (httpResult, error) {
		return c.doWithRetry(ctx, method, path, maxRetries)
	})
	if err != nil {
		return httpResult{}, errs.Mark(err, errs.ErrCatalogUnavailable)
	}
	return res, nil
}

// doWithRetry reports only transport failures, timeouts and 5xx responses as
// errors; any other status is a successful round trip whose meaning is up to
// the caller.
func (c *Client) doWithRetry(ctx context.Context, method, path string, maxRetries uint64) (httpResult, error) {
	var result httpResult

	op := func() error {
		reqCtx, cancel := context.WithTimeout(ctx, c.cfg.RequestTimeout)
		defer cancel()

		req, err := http.NewRequestWithContext(reqCtx, method, c.baseURL+path, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			return fmt.Errorf("catalog returned status %d", resp.StatusCode)
		}

		result = httpResult{status: resp.StatusCode, body: body}
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.cfg.RetryInterval

	err := backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(bo, maxRetries), ctx))
	if err != nil {
		return httpResult{}, err
	}
	return result, nil
}
