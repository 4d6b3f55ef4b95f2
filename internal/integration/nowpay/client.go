package nowpay

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	ierr "github.com/invomate/invomate/internal/errors"
	"github.com/invomate/invomate/internal/httpclient"
	"github.com/invomate/invomate/internal/logger"
)

const defaultBaseURL = "https://api.nowpayments.io/v1"

// Client talks to the crypto gateway's REST API. It is used to re-fetch a
// payment's status when a delivered notification looks suspect.
type Client struct {
	http    httpclient.Client
	baseURL string
	apiKey  string
	logger  *logger.Logger
}

// NewClient creates a new gateway API client
func NewClient(http httpclient.Client, apiKey string, logger *logger.Logger) *Client {
	return &Client{
		http:    http,
		baseURL: defaultBaseURL,
		apiKey:  apiKey,
		logger:  logger,
	}
}

// GetPaymentStatus fetches the current status of a payment from the gateway.
func (c *Client) GetPaymentStatus(ctx context.Context, paymentID string) (*PaymentStatusResponse, error) {
	resp, err := c.http.Send(ctx, &httpclient.Request{
		Method: http.MethodGet,
		URL:    fmt.Sprintf("%s/payment/%s", c.baseURL, paymentID),
		Headers: map[string]string{
			"x-api-key": c.apiKey,
		},
	})
	if err != nil {
		return nil, err
	}

	var status PaymentStatusResponse
	if err := json.Unmarshal(resp.Body, &status); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to parse gateway payment status").
			Mark(ierr.ErrHTTPClient)
	}

	return &status, nil
}
