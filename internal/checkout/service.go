package checkout

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	errors "github.com/frahmantamala/plan-checkout/internal"
	"github.com/frahmantamala/plan-checkout/internal/core/events"
	"github.com/frahmantamala/plan-checkout/internal/coupon"
	"github.com/frahmantamala/plan-checkout/internal/order"
	"github.com/frahmantamala/plan-checkout/internal/paymentgateway"
	"github.com/frahmantamala/plan-checkout/internal/plan"
	"github.com/frahmantamala/plan-checkout/internal/pricing"
	"github.com/frahmantamala/plan-checkout/pkg/logger"
)

// State names a step of the checkout pipeline. They appear in debug logs
// and in checkout.failed events.
type State string

const (
	StateFetchingPlan          State = "fetching_plan"
	StateFetchingGatewayConfig State = "fetching_gateway_config"
	StateValidatingCoupon      State = "validating_coupon"
	StateComputingAmount       State = "computing_amount"
	StateBuildingOrder         State = "building_order"
	StateSubmittingPayment     State = "submitting_payment"
	StateSucceeded             State = "succeeded"
	StateFailed                State = "failed"
)

type CouponValidator interface {
	Validate(ctx context.Context, code, endpoint string) (*coupon.Result, error)
}

type PaymentSubmitter interface {
	Submit(ctx context.Context, req *paymentgateway.Request) (string, error)
}

type OrderIDGenerator interface {
	Generate(planName string, amount decimal.Decimal, now time.Time) (string, error)
}

type ServiceAPI interface {
	Checkout(ctx context.Context, req *Request) (*Result, error)
}

type Config struct {
	DefaultCredentials    Credentials
	DefaultCouponEndpoint string
	PlanStoreTimeout      time.Duration
}

// Result is a successful checkout. Discount is the applied fraction.
type Result struct {
	RedirectURL string
	OrderID     string
	Amount      decimal.Decimal
	Currency    string
	Discount    decimal.Decimal
}

type Service struct {
	plans     plan.RepositoryAPI
	coupons   CouponValidator
	gateway   PaymentSubmitter
	ids       OrderIDGenerator
	publisher events.Publisher
	config    Config
	now       func() time.Time
	logger    *slog.Logger
}

func NewService(
	plans plan.RepositoryAPI,
	coupons CouponValidator,
	gateway PaymentSubmitter,
	ids OrderIDGenerator,
	publisher events.Publisher,
	config Config,
	logger *slog.Logger,
) *Service {
	return &Service{
		plans:     plans,
		coupons:   coupons,
		gateway:   gateway,
		ids:       ids,
		publisher: publisher,
		config:    config,
		now:       time.Now,
		logger:    logger,
	}
}

// WithClock replaces the time source used for order ids.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// run carries the per-request pipeline state.
type run struct {
	req     *Request
	state   State
	orderID string
	log     *slog.Logger
}

func (r *run) enter(state State) {
	r.state = state
	r.log.Debug("checkout state", "state", string(state))
}

// Checkout runs one payment attempt end to end. Every failure is returned
// as an *errors.AppError; nothing after a failed stage runs.
func (s *Service) Checkout(ctx context.Context, req *Request) (*Result, error) {
	req.Normalize()
	if appErr := req.Validate(); appErr != nil {
		return nil, appErr
	}

	r := &run{
		req: req,
		log: logger.From(ctx).With("plan_id", req.PlanID),
	}

	result, err := s.checkout(ctx, r)
	if err != nil {
		appErr := errors.AsAppError(err)
		failedAt := r.state
		r.enter(StateFailed)
		r.log.Warn("checkout failed",
			"stage", string(failedAt),
			"code", appErr.Code,
			"error", err)
		s.publish(ctx, events.NewCheckoutFailedEvent(req.PlanID, r.orderID, string(failedAt), string(appErr.Code)))
		return nil, appErr
	}

	r.enter(StateSucceeded)
	s.publish(ctx, events.NewCheckoutSucceededEvent(req.PlanID, result.OrderID, result.Amount.String()))
	return result, nil
}

func (s *Service) checkout(ctx context.Context, r *run) (*Result, error) {
	r.enter(StateFetchingPlan)
	p, err := s.findPlan(ctx, r.req.PlanID)
	if err != nil {
		return nil, err
	}
	price, err := pricing.ParsePrice(p.RawPrice)
	if err != nil {
		return nil, err
	}

	r.enter(StateFetchingGatewayConfig)
	gatewayConfig, err := ResolveGatewayConfig(p, s.config.DefaultCredentials)
	if err != nil {
		return nil, err
	}

	var couponResult *coupon.Result
	if r.req.CouponCode != "" {
		r.enter(StateValidatingCoupon)
		endpoint := r.req.CouponsEndpoint
		if endpoint == "" {
			endpoint = s.config.DefaultCouponEndpoint
		}
		couponResult, err = s.coupons.Validate(ctx, r.req.CouponCode, endpoint)
		if err != nil {
			return nil, err
		}
	}

	r.enter(StateComputingAmount)
	finalAmount := couponResult.ApplyTo(price.Amount)
	discount := decimal.Zero
	if couponResult != nil {
		discount = couponResult.DiscountFraction
	}

	r.enter(StateBuildingOrder)
	orderID, err := s.ids.Generate(p.Name, finalAmount, s.now().UTC())
	if err != nil {
		return nil, errors.NewInternalError("failed to generate order id", err)
	}
	r.orderID = orderID
	r.log = r.log.With("order_id", orderID)
	o := order.New(orderID, finalAmount, price.Currency)

	gatewayReq, err := paymentgateway.BuildRequest(gatewayConfig, o)
	if err != nil {
		return nil, errors.NewInternalError("failed to build payment request", err)
	}

	percent := discount.Mul(decimal.NewFromInt(100))
	r.log.Info("checkout amount computed",
		"base_amount", price.Amount.String(),
		"final_amount", finalAmount.String(),
		"discount_percent", percent.String(),
		"currency", price.Currency)
	s.publish(ctx, events.NewAmountComputedEvent(
		p.ID, orderID,
		price.Amount.String(), finalAmount.String(), percent.String(),
		price.Currency, r.req.CouponCode))

	r.enter(StateSubmittingPayment)
	redirectURL, err := s.gateway.Submit(ctx, gatewayReq)
	if err != nil {
		return nil, err
	}

	return &Result{
		RedirectURL: redirectURL,
		OrderID:     orderID,
		Amount:      finalAmount,
		Currency:    price.Currency,
		Discount:    discount,
	}, nil
}

func (s *Service) findPlan(ctx context.Context, planID string) (*plan.Plan, error) {
	ctx, cancel := errors.WithTimeout(ctx, s.config.PlanStoreTimeout)
	defer cancel()

	p, err := s.plans.FindByID(ctx, planID)
	if err != nil {
		if _, ok := errors.IsAppError(err); ok {
			return nil, err
		}
		return nil, errors.NewPlanStoreUnavailableError(err)
	}
	if p == nil {
		return nil, errors.NewPlanNotFoundError(planID)
	}
	return p, nil
}

// publish is fire and forget; audit delivery never affects the payment.
func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("failed to publish checkout event",
			"event_type", event.EventType(),
			"error", err)
	}
}
