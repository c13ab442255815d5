package orders

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"reader-booking/internal/models"
	"reader-booking/pkg/utils"

	"github.com/google/uuid"
)

// TokenSource supplies the bearer token attached to every request. Token
// storage and refresh live outside this module.
type TokenSource func() string

// Client talks to the booking backend. The backend is authoritative for all
// order state; this client only moves envelopes back and forth.
type Client struct {
	baseURL string
	http    *http.Client
	token   TokenSource
}

// NewClient builds a client for the backend at baseURL.
func NewClient(baseURL string, timeout time.Duration, token TokenSource) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		token:   token,
	}
}

// ListOrders fetches a page of all orders (admin view).
func (c *Client) ListOrders(ctx context.Context, q models.Query) (models.Page[models.Order], error) {
	return c.list(ctx, "/admin/allOrders", q)
}

// ListOrdersForCurrentUser fetches a page of the logged-in user's orders.
// q.Target may select server-side semantics such as a reader's monthly or
// pending lists.
func (c *Client) ListOrdersForCurrentUser(ctx context.Context, q models.Query) (models.Page[models.Order], error) {
	return c.list(ctx, "/order/allOrdersForLoggedUser", q)
}

func (c *Client) list(ctx context.Context, path string, q models.Query) (models.Page[models.Order], error) {
	if err := utils.GetValidator().Validate(q); err != nil {
		return models.Page[models.Order]{}, fmt.Errorf("orders.Client.list: %w", err)
	}
	var page models.Page[models.Order]
	if err := c.doQuery(ctx, http.MethodGet, path, q.Values(), nil, &page); err != nil {
		return models.Page[models.Order]{}, err
	}
	return page, nil
}

// Assign binds a reader to an order (admin mutation).
func (c *Client) Assign(ctx context.Context, orderID, readerID int64) (models.Order, error) {
	body := models.AssignOrderRequest{ReaderID: readerID}
	var order models.Order
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/admin/%d", orderID), body, &order); err != nil {
		return models.Order{}, err
	}
	return order, nil
}

// Accept records the calling reader's confirmation of an order.
func (c *Client) Accept(ctx context.Context, orderID, readerID int64) (models.Order, error) {
	body := models.AcceptOrderRequest{ReaderID: readerID}
	var order models.Order
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/order/%d", orderID), body, &order); err != nil {
		return models.Order{}, err
	}
	return order, nil
}

// Update edits address/date fields on a still-pending order.
func (c *Client) Update(ctx context.Context, orderID int64, fields models.UpdateOrderRequest) (models.Order, error) {
	if err := utils.GetValidator().Validate(fields); err != nil {
		return models.Order{}, fmt.Errorf("orders.Client.Update: %w", err)
	}
	var order models.Order
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/order/%d", orderID), fields, &order); err != nil {
		return models.Order{}, err
	}
	return order, nil
}

// Cancel withdraws the calling client's pending order.
func (c *Client) Cancel(ctx context.Context, orderID int64) (models.Order, error) {
	var order models.Order
	if err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/order/%d", orderID), nil, &order); err != nil {
		return models.Order{}, err
	}
	return order, nil
}

// Reject records the assigned reader's decline.
func (c *Client) Reject(ctx context.Context, orderID int64) (models.Order, error) {
	var order models.Order
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/order/%d/reject", orderID), nil, &order); err != nil {
		return models.Order{}, err
	}
	return order, nil
}

// do issues one request and decodes the shared envelope into out. An HTTP
// error status or an envelope with success=false both become a ServerError
// carrying the server's message.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	return c.doQuery(ctx, method, path, nil, body, out)
}

func (c *Client) doQuery(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	u, err := url.JoinPath(c.baseURL, path)
	if err != nil {
		return fmt.Errorf("orders.Client.do: %w", err)
	}
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("orders.Client.do: encode body: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return fmt.Errorf("orders.Client.do: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String())
	if c.token != nil {
		if t := c.token(); t != "" {
			req.Header.Set("Authorization", "Bearer "+t)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("orders.Client.do: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var env struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Message string          `json:"message"`
	}
	if decodeErr := json.NewDecoder(resp.Body).Decode(&env); decodeErr != nil {
		if resp.StatusCode >= 400 {
			return &models.ServerError{StatusCode: resp.StatusCode}
		}
		return fmt.Errorf("orders.Client.do: decode response: %w", decodeErr)
	}
	if resp.StatusCode >= 400 || !env.Success {
		return &models.ServerError{StatusCode: resp.StatusCode, Message: env.Message}
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("orders.Client.do: decode data: %w", err)
		}
	}
	return nil
}
