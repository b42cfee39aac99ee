package paymentgateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperrors "github.com/frahmantamala/plan-checkout/internal"
	paymentgatewaytypes "github.com/frahmantamala/plan-checkout/internal/core/datamodel/paymentgateway"
)

// maxErrorBody caps how much of a rejected response is logged.
const maxErrorBody = 16 << 10

type Config struct {
	Timeout time.Duration
}

// Client creates payments on the external gateway. Payment creation is not
// idempotent, so Submit sends exactly one request and never retries.
type Client struct {
	client  *http.Client
	timeout time.Duration
	logger  *slog.Logger
}

func NewClient(config Config, logger *slog.Logger) *Client {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		client:  &http.Client{},
		timeout: timeout,
		logger:  logger,
	}
}

// Submit sends req and returns the redirect url the payer must visit.
func (c *Client) Submit(ctx context.Context, req *Request) (string, error) {
	ctx, cancel := apperrors.WithTimeout(ctx, c.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, bytes.NewReader(req.Body))
	if err != nil {
		return "", apperrors.NewInternalError("failed to create gateway request", err)
	}
	for name, values := range req.Header {
		for _, v := range values {
			httpReq.Header.Add(name, v)
		}
	}

	c.logger.Info("sending payment request",
		"url", req.URL,
		"method", req.Method,
		"order_id", req.OrderID)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		c.logger.Error("payment request failed", "error", err, "order_id", req.OrderID)
		return "", apperrors.NewGatewayUnavailableError(fmt.Errorf("HTTP request error: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.logger.Error("payment API returned error",
			"status", resp.StatusCode,
			"response", diagnosticBody(respBody),
			"order_id", req.OrderID)
		return "", apperrors.NewGatewayRejectedError(fmt.Errorf("payment API error: status %d", resp.StatusCode))
	}

	// A 2xx means the payment exists; its body is never truncated.
	var paymentResp paymentgatewaytypes.PaymentResponse
	if err := json.NewDecoder(resp.Body).Decode(&paymentResp); err != nil {
		c.logger.Error("failed to decode payment response", "error", err, "order_id", req.OrderID)
		return "", apperrors.NewGatewayResponseMalformedError(fmt.Errorf("response decode error: %w", err))
	}

	redirectURL := strings.TrimSpace(paymentResp.RedirectURL)
	if err := checkRedirect(redirectURL); err != nil {
		c.logger.Error("payment response has no usable redirect url",
			"error", err,
			"order_id", req.OrderID)
		return "", apperrors.NewGatewayResponseMalformedError(err)
	}

	c.logger.Info("payment created", "order_id", req.OrderID)

	return redirectURL, nil
}

func checkRedirect(raw string) error {
	if raw == "" {
		return errors.New("redirect_url missing from gateway response")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("redirect_url is not a url: %w", err)
	}
	if !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("redirect_url %q is not absolute", raw)
	}
	return nil
}

// diagnosticBody returns the parsed JSON error body when possible so logs
// stay structured, otherwise the raw text.
func diagnosticBody(body []byte) any {
	var parsed map[string]any
	if err := json.Unmarshal(body, &parsed); err == nil {
		return parsed
	}
	return string(body)
}
