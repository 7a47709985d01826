package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/studyvault/noteguard/internal/common"
	"github.com/studyvault/noteguard/internal/server/models"
)

// ProviderClient hands a checkout over to the payment provider and returns
// the redirect URL the browser should be sent to. The provider's own
// protocol is out of scope here; we only initiate and later observe status
// through webhook events.
type ProviderClient interface {
	InitiatePayment(ctx context.Context, order *models.PaymentOrder) (redirectURL string, err error)
}

// ProviderEvent is one status callback from the provider, delivered to the
// webhook endpoint. Status values are provider-side and mapped onto the
// order state machine by the service.
type ProviderEvent struct {
	MerchantTxID string `json:"merchantTransactionId" binding:"required"`
	Status       string `json:"status" binding:"required"`
}

type HTTPProvider struct {
	baseURL string
	client  *http.Client
}

func NewHTTPProvider(baseURL string) *HTTPProvider {
	return &HTTPProvider{baseURL: baseURL, client: &http.Client{}}
}

func (p *HTTPProvider) InitiatePayment(ctx context.Context, order *models.PaymentOrder) (string, error) {

	body, err := json.Marshal(map[string]any{
		"merchantTransactionId": order.MerchantTxID,
		"amountPaise":           order.FinalAmountPaise,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/checkout", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrTransientLookup, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("provider checkout failed: %s", resp.Status)
	}

	var out struct {
		RedirectURL string `json:"redirectUrl"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}

	return out.RedirectURL, nil
}
