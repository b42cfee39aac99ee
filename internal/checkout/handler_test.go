package checkout_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"github.com/frahmantamala/plan-checkout/internal"
	"github.com/frahmantamala/plan-checkout/internal/checkout"
)

type mockCheckoutService struct {
	result  *checkout.Result
	err     error
	lastReq *checkout.Request
}

func (m *mockCheckoutService) Checkout(ctx context.Context, req *checkout.Request) (*checkout.Result, error) {
	m.lastReq = req
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

var _ = Describe("Handler", func() {
	var (
		service *mockCheckoutService
		handler *checkout.Handler
	)

	BeforeEach(func() {
		service = &mockCheckoutService{result: &checkout.Result{
			RedirectURL: "https://pay.example/x",
			OrderID:     "Pro-01-01-2024-10-100-abc123",
			Amount:      decimal.NewFromInt(100),
			Currency:    "USD",
		}}
		handler = checkout.NewHandler(service)
	})

	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		handler.Checkout(rec, req)
		return rec
	}

	decode := func(rec *httptest.ResponseRecorder) map[string]interface{} {
		var out map[string]interface{}
		Expect(json.Unmarshal(rec.Body.Bytes(), &out)).To(Succeed())
		return out
	}

	It("returns the redirect url", func() {
		rec := post(`{"planId": "pro", "couponCode": "SAVE15", "couponsEndpoint": "https://c.test"}`)

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Header().Get("Content-Type")).To(Equal("application/json"))
		Expect(decode(rec)).To(Equal(map[string]interface{}{"redirectUrl": "https://pay.example/x"}))
		Expect(service.lastReq.PlanID).To(Equal("pro"))
		Expect(service.lastReq.CouponCode).To(Equal("SAVE15"))
		Expect(service.lastReq.CouponsEndpoint).To(Equal("https://c.test"))
	})

	It("rejects an undecodable body", func() {
		rec := post(`{"planId":`)

		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		Expect(decode(rec)).To(HaveKeyWithValue("code", string(internal.ErrCodeValidationFailed)))
		Expect(service.lastReq).To(BeNil())
	})

	DescribeTable("maps service errors to status and code",
		func(err error, status int, code internal.ErrorCode) {
			service.err = err

			rec := post(`{"planId": "pro"}`)

			Expect(rec.Code).To(Equal(status))
			body := decode(rec)
			Expect(body).To(HaveKeyWithValue("code", string(code)))
			Expect(body).To(HaveKey("error"))
		},
		Entry("plan not found", internal.NewPlanNotFoundError("pro"), http.StatusNotFound, internal.ErrCodePlanNotFound),
		Entry("gateway config missing", internal.NewGatewayConfigMissingError("missing"), http.StatusBadRequest, internal.ErrCodeGatewayConfigMissing),
		Entry("coupon invalid", internal.NewCouponInvalidError("expired"), http.StatusBadRequest, internal.ErrCodeCouponInvalid),
		Entry("coupon unavailable", internal.NewCouponUnavailableError(errors.New("down")), http.StatusBadGateway, internal.ErrCodeCouponUnavailable),
		Entry("malformed price", internal.NewMalformedPriceError("free"), http.StatusInternalServerError, internal.ErrCodeMalformedPrice),
		Entry("gateway rejected", internal.NewGatewayRejectedError(errors.New("402")), http.StatusBadGateway, internal.ErrCodeGatewayRejected),
		Entry("gateway malformed", internal.NewGatewayResponseMalformedError(errors.New("no url")), http.StatusBadGateway, internal.ErrCodeGatewayResponseMalformed),
		Entry("gateway unavailable", internal.NewGatewayUnavailableError(errors.New("timeout")), http.StatusServiceUnavailable, internal.ErrCodeGatewayUnavailable),
		Entry("unclassified", errors.New("boom"), http.StatusInternalServerError, internal.ErrCodeInternal),
	)

	It("relays the coupon service's reason", func() {
		service.err = internal.NewCouponInvalidError("expired")

		rec := post(`{"planId": "pro", "couponCode": "OLD"}`)

		Expect(decode(rec)).To(HaveKeyWithValue("error", "expired"))
	})

	It("does not leak the cause", func() {
		service.err = internal.NewGatewayRejectedError(errors.New("secret-body-from-gateway"))

		rec := post(`{"planId": "pro"}`)

		Expect(rec.Body.String()).NotTo(ContainSubstring("secret-body-from-gateway"))
	})
})
