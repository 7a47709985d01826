// Package api is the viewer's HTTP client for the NoteGuard backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/studyvault/noteguard/internal/client/models"
	"github.com/studyvault/noteguard/internal/common"
)

type Client struct {
	baseURL string
	userID  string
	http    *http.Client

	viewToken string
}

func NewClient(baseURL, userID string) *Client {
	return &Client{baseURL: baseURL, userID: userID, http: &http.Client{}}
}

type errorBody struct {
	Error string `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, in, out any, withToken bool) (string, error) {

	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return "", err
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return "", err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userID != "" {
		req.Header.Set(common.UserIDHeaderName, c.userID)
	}
	if withToken && c.viewToken != "" {
		req.Header.Set(common.ViewTokenHeaderName, c.viewToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrTransientLookup, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out != nil {
			if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
				return "", err
			}
		}
		return "", nil
	}

	var eb errorBody
	_ = json.NewDecoder(resp.Body).Decode(&eb)

	if resp.StatusCode >= 500 {
		return eb.Error, fmt.Errorf("%w: server returned %s", common.ErrTransientLookup, resp.Status)
	}

	return eb.Error, fmt.Errorf("server returned %s (%s)", resp.Status, eb.Error)
}

// IssueSession mints a view session for the note and remembers the bearer
// token for subsequent watermark and progress calls.
func (c *Client) IssueSession(ctx context.Context, noteID string) (*models.IssuedSession, error) {

	out := &models.IssuedSession{}
	code, err := c.do(ctx, http.MethodPost, "/v1/sessions", map[string]string{"noteId": noteID}, out, false)
	if err != nil {
		switch code {
		case "REQUIRES_PAYMENT":
			return nil, common.ErrPaymentRequired
		case "DENY":
			return nil, common.ErrAccountBlocked
		case "NOT_FOUND":
			return nil, common.ErrNotFound
		}
		return nil, err
	}

	c.viewToken = out.ViewToken
	return out, nil
}

func (c *Client) GetWatermark(ctx context.Context) (*models.Watermark, error) {

	out := &models.Watermark{}
	code, err := c.do(ctx, http.MethodGet, "/v1/watermark", nil, out, true)
	if err != nil {
		if code == "SESSION_EXPIRED" {
			return nil, common.ErrSessionExpired
		}
		return nil, err
	}

	return out, nil
}

type progressReport struct {
	LastPage          int `json:"lastPage"`
	CompletionPercent int `json:"completionPercent"`
}

func (c *Client) ReportProgress(ctx context.Context, lastPage, completionPercent int) error {
	_, err := c.do(ctx, http.MethodPost, "/v1/progress",
		progressReport{LastPage: lastPage, CompletionPercent: completionPercent}, nil, true)
	return err
}

func (c *Client) GetProgress(ctx context.Context, noteID string) (lastPage, completionPercent int, err error) {

	out := struct {
		LastPage          int `json:"lastPage"`
		CompletionPercent int `json:"completionPercent"`
	}{}

	code, err := c.do(ctx, http.MethodGet, "/v1/progress/"+noteID, nil, &out, false)
	if err != nil {
		if code == "NOT_FOUND" {
			return 0, 0, common.ErrNotFound
		}
		return 0, 0, err
	}

	return out.LastPage, out.CompletionPercent, nil
}

type createOrderRequest struct {
	PlanID     string `json:"planId"`
	CouponCode string `json:"couponCode,omitempty"`
}

func (c *Client) CreateOrder(ctx context.Context, planID, couponCode string) (*models.CheckoutIntent, error) {

	out := &models.CheckoutIntent{}
	code, err := c.do(ctx, http.MethodPost, "/v1/orders",
		createOrderRequest{PlanID: planID, CouponCode: couponCode}, out, false)
	if err != nil {
		if code == "NOT_FOUND" {
			return nil, common.ErrNotFound
		}
		return nil, err
	}

	return out, nil
}

// GetOrderStatus is the polled observation call. Network failures and 5xx
// responses come back wrapping ErrTransientLookup so the poller treats them
// as not-yet-resolved rather than a failed order.
func (c *Client) GetOrderStatus(ctx context.Context, merchantTxID string) (*models.Order, error) {

	out := &models.Order{}
	code, err := c.do(ctx, http.MethodGet, "/v1/orders/"+merchantTxID, nil, out, false)
	if err != nil {
		if code == "ORDER_NOT_FOUND" {
			return nil, common.ErrOrderNotFound
		}
		return nil, err
	}

	return out, nil
}
