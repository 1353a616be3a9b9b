package ruapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"io"
	"net/http"
	"net/url"
	"ru-ticket/common/errs"
	"ru-ticket/model"
	"strings"
	"time"
)

// APIError is a non-2xx answer from the ticket API.
type APIError struct {
	Status  int
	Message string
	Data    any
}

func (e *APIError) Error() string {
	return fmt.Sprintf("ru api: status %d: %s", e.Status, e.Message)
}

func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusNotFound:
		return errs.ErrNotFound
	case http.StatusBadRequest:
		return errs.ErrInvalidInput
	}
	return nil
}

type Client struct {
	BaseURL    string
	HttpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}

	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HttpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

func (c *Client) CreateTicket(ctx context.Context, req model.CreateTicketRequest) (string, error) {
	var resp model.CreateTicketResponse
	if err := c.do(ctx, http.MethodPost, "/api/tickets", req, &resp); err != nil {
		return "", err
	}
	return resp.TicketId, nil
}

func (c *Client) AttachExtras(ctx context.Context, req model.AttachExtrasRequest) error {
	return c.do(ctx, http.MethodPost, "/api/tickets/extras", req, nil)
}

func (c *Client) PaymentReference(ctx context.Context, ticketId string) (model.PaymentReferenceResponse, error) {
	var resp model.PaymentReferenceResponse
	err := c.do(ctx, http.MethodPost, "/api/payments/reference", model.TicketRequest{TicketId: ticketId}, &resp)
	return resp, err
}

func (c *Client) ConfirmPayment(ctx context.Context, ticketId string) error {
	return c.do(ctx, http.MethodPost, "/api/payments/confirm", model.TicketRequest{TicketId: ticketId}, nil)
}

func (c *Client) PaymentStatus(ctx context.Context, ticketId string) (bool, error) {
	var resp model.PaymentStatusResponse
	err := c.do(ctx, http.MethodGet, "/api/payments/status/"+url.PathEscape(ticketId), nil, &resp)
	return resp.Paid, err
}

func (c *Client) Validate(ctx context.Context, code string) (model.ValidateResponse, error) {
	var resp model.ValidateResponse
	err := c.do(ctx, http.MethodPost, "/api/tickets/validate", model.ValidateRequest{TicketId: code}, &resp)
	return resp, err
}

func (c *Client) Restaurants(ctx context.Context) ([]model.RestaurantStatusResponse, error) {
	var resp []model.RestaurantStatusResponse
	err := c.do(ctx, http.MethodGet, "/api/restaurants", nil, &resp)
	return resp, err
}

func (c *Client) do(ctx context.Context, method, path string, body any, dst any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HttpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}

		var errResp model.ErrorResponse
		if json.NewDecoder(resp.Body).Decode(&errResp) == nil && errResp.Error != "" {
			apiErr.Message = errResp.Error
			apiErr.Data = errResp.Data
		}
		return apiErr
	}

	if dst == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	return json.NewDecoder(resp.Body).Decode(dst)
}
