package coupon

import (
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

	"github.com/shopspring/decimal"

	apperrors "github.com/frahmantamala/plan-checkout/internal"
)

const applyCouponAction = "apply-coupon"

type Config struct {
	// AllowedHosts restricts request-supplied endpoints. Empty allows any host.
	AllowedHosts []string
	Timeout      time.Duration
}

// Validator asks the external coupon endpoint whether a code applies.
type Validator struct {
	client       *http.Client
	allowedHosts map[string]struct{}
	timeout      time.Duration
	logger       *slog.Logger
}

func NewValidator(cfg Config, logger *slog.Logger) *Validator {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	hosts := make(map[string]struct{}, len(cfg.AllowedHosts))
	for _, h := range cfg.AllowedHosts {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			hosts[h] = struct{}{}
		}
	}
	return &Validator{
		// the default client follows redirects
		client:       &http.Client{},
		allowedHosts: hosts,
		timeout:      timeout,
		logger:       logger,
	}
}

// Validate resolves a non-empty coupon code against endpoint. A code the
// service refuses yields CouponInvalidError; any failure to get a usable
// answer yields CouponUnavailableError. Neither is ever downgraded to
// "no discount".
func (v *Validator) Validate(ctx context.Context, code, endpoint string) (*Result, error) {
	couponURL, err := v.buildURL(code, endpoint)
	if err != nil {
		return nil, err
	}

	ctx, cancel := apperrors.WithTimeout(ctx, v.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, couponURL, nil)
	if err != nil {
		return nil, apperrors.NewCouponConfigError("coupon endpoint is not a valid url").WithCause(err)
	}
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Connection", "keep-alive")

	v.logger.Debug("validating coupon", "coupon", code, "endpoint", endpoint)

	resp, err := v.client.Do(req)
	if err != nil {
		v.logger.Error("coupon request failed", "error", err, "coupon", code)
		return nil, apperrors.NewCouponUnavailableError(fmt.Errorf("coupon request failed: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		v.logger.Error("coupon service returned error",
			"status", resp.StatusCode,
			"response", string(body),
			"coupon", code)
		return nil, apperrors.NewCouponUnavailableError(fmt.Errorf("coupon service returned status %d", resp.StatusCode))
	}

	var payload response
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		v.logger.Error("failed to decode coupon response", "error", err, "status", resp.StatusCode)
		return nil, apperrors.NewCouponUnavailableError(fmt.Errorf("failed to decode coupon response: %w", err))
	}

	if !payload.Valid {
		message := strings.TrimSpace(payload.Message)
		if message == "" {
			message = defaultInvalidMessage
		}
		v.logger.Info("coupon rejected", "coupon", code, "reason", message)
		return nil, apperrors.NewCouponInvalidError(message)
	}

	discount, err := checkDiscount(payload.Discount)
	if err != nil {
		v.logger.Error("coupon service returned unusable discount", "error", err, "coupon", code)
		return nil, apperrors.NewCouponUnavailableError(err)
	}

	result := &Result{
		Code:             code,
		Valid:            true,
		DiscountFraction: discount,
		Message:          payload.Message,
	}

	v.logger.Info("coupon accepted", "coupon", code, "discount_percent", result.Percent().String())

	return result, nil
}

// checkDiscount accepts fractions only. A value above 1 could be a whole
// percentage; guessing would change the charged amount, so it is refused.
func checkDiscount(d *decimal.Decimal) (decimal.Decimal, error) {
	if d == nil {
		return decimal.Zero, errors.New("valid coupon without discount")
	}
	if d.IsNegative() || d.GreaterThan(decimal.NewFromInt(1)) {
		return decimal.Zero, fmt.Errorf("discount %s is outside [0,1]", d.String())
	}
	return *d, nil
}

func (v *Validator) buildURL(code, endpoint string) (string, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return "", apperrors.NewCouponConfigError("coupon endpoint is not configured")
	}

	u, err := url.Parse(endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", apperrors.NewCouponConfigError("coupon endpoint is not a valid url")
	}

	if len(v.allowedHosts) > 0 {
		if _, ok := v.allowedHosts[strings.ToLower(u.Hostname())]; !ok {
			return "", apperrors.NewCouponConfigError("coupon endpoint is not allowed")
		}
	}

	query := u.Query()
	query.Set("coupon", code)
	query.Set("action", applyCouponAction)
	u.RawQuery = query.Encode()

	return u.String(), nil
}
