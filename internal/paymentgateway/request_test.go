package paymentgateway_test

import (
	"encoding/json"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"github.com/frahmantamala/plan-checkout/internal/order"
	"github.com/frahmantamala/plan-checkout/internal/paymentgateway"
	"github.com/frahmantamala/plan-checkout/internal/plan"
)

var _ = Describe("BuildRequest", func() {
	var (
		cfg plan.GatewayConfig
		o   order.Order
	)

	BeforeEach(func() {
		cfg = plan.GatewayConfig{
			APIEndpoint: "https://sandbox.gateway.test/",
			HTTPMethod:  "post",
			APIKey:      "key-1",
			SecretKey:   "secret-1",
		}
		o = order.New("Pro-07-03-2024-09-84-abc123", decimal.RequireFromString("84.915"), "USD")
	})

	DescribeTable("endpoint normalization",
		func(endpoint, expected string) {
			cfg.APIEndpoint = endpoint
			req, err := paymentgateway.BuildRequest(cfg, o)

			Expect(err).NotTo(HaveOccurred())
			Expect(req.URL).To(Equal(expected))
			Expect(strings.Count(req.URL, "v1/payments")).To(Equal(1))
		},
		Entry("already ends with the payments path", "https://gw.test/v1/payments", "https://gw.test/v1/payments"),
		Entry("payments path with trailing slash", "https://gw.test/v1/payments/", "https://gw.test/v1/payments"),
		Entry("base with trailing slash", "https://gw.test/", "https://gw.test/v1/payments"),
		Entry("base without trailing slash", "https://gw.test", "https://gw.test/v1/payments"),
		Entry("base with a prefix path", "https://gw.test/api", "https://gw.test/api/v1/payments"),
	)

	It("sets JSON content type and the combined bearer credentials", func() {
		req, err := paymentgateway.BuildRequest(cfg, o)

		Expect(err).NotTo(HaveOccurred())
		Expect(req.Header.Get("Content-Type")).To(Equal("application/json"))
		Expect(req.Header.Get("Authorization")).To(Equal("Bearer key-1:secret-1"))
	})

	It("upper-cases the method and defaults to POST", func() {
		req, err := paymentgateway.BuildRequest(cfg, o)
		Expect(err).NotTo(HaveOccurred())
		Expect(req.Method).To(Equal("POST"))

		cfg.HTTPMethod = ""
		req, err = paymentgateway.BuildRequest(cfg, o)
		Expect(err).NotTo(HaveOccurred())
		Expect(req.Method).To(Equal("POST"))

		cfg.HTTPMethod = "put"
		req, err = paymentgateway.BuildRequest(cfg, o)
		Expect(err).NotTo(HaveOccurred())
		Expect(req.Method).To(Equal("PUT"))
	})

	It("serializes the exact decimal amount", func() {
		req, err := paymentgateway.BuildRequest(cfg, o)
		Expect(err).NotTo(HaveOccurred())

		Expect(string(req.Body)).To(ContainSubstring(`"amount":84.915`))

		var body map[string]any
		Expect(json.Unmarshal(req.Body, &body)).To(Succeed())
		Expect(body).To(HaveKeyWithValue("currency", "USD"))
		Expect(body).To(HaveKeyWithValue("order_id", "Pro-07-03-2024-09-84-abc123"))
		Expect(body["amount"]).To(BeNumerically("~", 84.915, 1e-9))
		Expect(req.OrderID).To(Equal(o.ID))
	})

	It("fails on an empty endpoint", func() {
		cfg.APIEndpoint = "  "
		_, err := paymentgateway.BuildRequest(cfg, o)

		Expect(err).To(HaveOccurred())
	})

	It("fails on an order without id", func() {
		o.ID = ""
		_, err := paymentgateway.BuildRequest(cfg, o)

		Expect(err).To(MatchError(ContainSubstring("order_id is required")))
	})
})
