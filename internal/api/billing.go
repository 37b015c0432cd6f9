package api

import (
	"context"
	"fmt"
	"net/http"
)

// Tier is a subscription entitlement level as reported by the server.
type Tier string

// Known subscription tiers. TierNone means the user never subscribed.
const (
	TierNone     Tier = "none"
	TierActive   Tier = "active"
	TierInactive Tier = "inactive"
)

// CreateCheckoutSession starts a payment-processor checkout for the given
// price. The returned session ID feeds the processor's hosted redirect.
func (c *Client) CreateCheckoutSession(ctx context.Context, priceID string) (string, error) {
	body := map[string]string{"priceId": priceID}
	var out struct {
		SessionID string `json:"sessionId"`
		URL       string `json:"url"`
	}
	url := c.url("api", "create-checkout-session")
	if err := c.doJSON(ctx, http.MethodPost, url, body, &out); err != nil {
		return "", fmt.Errorf("creating checkout session: %w", err)
	}
	if out.SessionID == "" {
		return "", fmt.Errorf("creating checkout session: server returned no session ID")
	}
	return out.SessionID, nil
}

// VerifyPayment confirms a completed checkout session and returns the
// resulting subscription tier.
func (c *Client) VerifyPayment(ctx context.Context, sessionID string) (Tier, error) {
	body := map[string]string{"sessionId": sessionID}
	var out struct {
		Success            bool   `json:"success"`
		SubscriptionStatus string `json:"subscription_status"`
	}
	url := c.url("api", "verify-payment")
	if err := c.doJSON(ctx, http.MethodPost, url, body, &out); err != nil {
		return "", fmt.Errorf("verifying payment: %w", err)
	}
	if !out.Success {
		return "", fmt.Errorf("payment verification failed")
	}
	return Tier(out.SubscriptionStatus), nil
}

// SubscriptionStatus fetches the signed-in user's current tier.
func (c *Client) SubscriptionStatus(ctx context.Context) (Tier, error) {
	var out struct {
		SubscriptionStatus string `json:"subscription_status"`
	}
	url := c.url("api", "subscription-status")
	if err := c.doJSON(ctx, http.MethodGet, url, nil, &out); err != nil {
		return "", fmt.Errorf("fetching subscription status: %w", err)
	}
	return Tier(out.SubscriptionStatus), nil
}
