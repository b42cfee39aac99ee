package paymentgateway_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/plan-checkout/internal"
	"github.com/frahmantamala/plan-checkout/internal/paymentgateway"
)

var _ = Describe("Client", func() {
	var (
		server   *httptest.Server
		respond  http.HandlerFunc
		calls    int32
		lastReq  *http.Request
		lastBody []byte
		client   *paymentgateway.Client
		request  *paymentgateway.Request
		logger   *slog.Logger
	)

	BeforeEach(func() {
		atomic.StoreInt32(&calls, 0)
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
		respond = func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"id": "D-1", "redirect_url": "https://pay.example/x"}`))
		}
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			lastReq = r
			lastBody, _ = io.ReadAll(r.Body)
			respond(w, r)
		}))
		client = paymentgateway.NewClient(paymentgateway.Config{Timeout: time.Second}, logger)

		header := http.Header{}
		header.Set("Content-Type", "application/json")
		header.Set("Authorization", "Bearer k:s")
		request = &paymentgateway.Request{
			URL:     server.URL + "/v1/payments",
			Method:  http.MethodPost,
			Header:  header,
			Body:    []byte(`{"amount":100,"currency":"USD","order_id":"o-1"}`),
			OrderID: "o-1",
		}
	})

	AfterEach(func() {
		server.Close()
	})

	It("sends the built request and returns the redirect url", func() {
		redirect, err := client.Submit(context.Background(), request)

		Expect(err).NotTo(HaveOccurred())
		Expect(redirect).To(Equal("https://pay.example/x"))
		Expect(lastReq.Method).To(Equal(http.MethodPost))
		Expect(lastReq.URL.Path).To(Equal("/v1/payments"))
		Expect(lastReq.Header.Get("Authorization")).To(Equal("Bearer k:s"))
		Expect(lastReq.Header.Get("Content-Type")).To(Equal("application/json"))
		Expect(string(lastBody)).To(Equal(`{"amount":100,"currency":"USD","order_id":"o-1"}`))
	})

	It("accepts 201 Created", func() {
		respond = func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"redirect_url": "https://pay.example/created"}`))
		}

		redirect, err := client.Submit(context.Background(), request)

		Expect(err).NotTo(HaveOccurred())
		Expect(redirect).To(Equal("https://pay.example/created"))
	})

	It("returns GatewayRejectedError on a non-success status and does not retry", func() {
		respond = func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"code": 5000, "message": "invalid secret key-1"}`))
		}

		_, err := client.Submit(context.Background(), request)

		Expect(errors.Is(err, internal.ErrGatewayRejected)).To(BeTrue())
		appErr, _ := internal.IsAppError(err)
		Expect(appErr.Message).NotTo(ContainSubstring("secret"))
		Expect(atomic.LoadInt32(&calls)).To(Equal(int32(1)))
	})

	It("returns GatewayRejectedError on a server error with a non JSON body", func() {
		respond = func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			w.Write([]byte(`upstream down`))
		}

		_, err := client.Submit(context.Background(), request)

		Expect(errors.Is(err, internal.ErrGatewayRejected)).To(BeTrue())
		Expect(atomic.LoadInt32(&calls)).To(Equal(int32(1)))
	})

	It("reads a success body larger than the error log cap", func() {
		respond = func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"redirect_url": "https://pay.example/x", "meta": "` + strings.Repeat("a", 20000) + `"}`))
		}

		redirect, err := client.Submit(context.Background(), request)

		Expect(err).NotTo(HaveOccurred())
		Expect(redirect).To(Equal("https://pay.example/x"))
		Expect(atomic.LoadInt32(&calls)).To(Equal(int32(1)))
	})

	DescribeTable("returns GatewayResponseMalformedError for unusable success bodies",
		func(body string) {
			respond = func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(body))
			}

			_, err := client.Submit(context.Background(), request)

			Expect(errors.Is(err, internal.ErrGatewayResponseMalformed)).To(BeTrue())
			Expect(atomic.LoadInt32(&calls)).To(Equal(int32(1)))
		},
		Entry("redirect field absent", `{"id": "D-1", "status": "PENDING"}`),
		Entry("redirect field empty", `{"redirect_url": ""}`),
		Entry("redirect relative", `{"redirect_url": "/checkout/x"}`),
		Entry("body not JSON", `OK`),
	)

	It("returns GatewayUnavailableError on timeout", func() {
		respond = func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(300 * time.Millisecond)
			w.Write([]byte(`{"redirect_url": "https://pay.example/late"}`))
		}
		client = paymentgateway.NewClient(paymentgateway.Config{Timeout: 50 * time.Millisecond}, logger)

		_, err := client.Submit(context.Background(), request)

		Expect(errors.Is(err, internal.ErrGatewayUnavailable)).To(BeTrue())
		Expect(errors.Is(err, context.DeadlineExceeded)).To(BeTrue())
	})

	It("returns GatewayUnavailableError when the gateway is unreachable", func() {
		server.Close()

		_, err := client.Submit(context.Background(), request)

		Expect(errors.Is(err, internal.ErrGatewayUnavailable)).To(BeTrue())
	})
})
