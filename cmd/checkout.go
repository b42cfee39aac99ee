package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/frahmantamala/plan-checkout/internal/checkout"
)

var (
	checkoutPlanID          string
	checkoutCouponCode      string
	checkoutCouponsEndpoint string
)

var checkoutCmd = &cobra.Command{
	Use:   "checkout",
	Short: "Run one checkout from the shell",
	Long:  `Resolve a plan, apply an optional coupon and create the gateway payment, printing the redirect url.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := initializeDependencies()
		if err != nil {
			return err
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			deps.Close(ctx)
		}()

		result, err := deps.Checkout.Checkout(cmd.Context(), &checkout.Request{
			PlanID:          checkoutPlanID,
			CouponCode:      checkoutCouponCode,
			CouponsEndpoint: checkoutCouponsEndpoint,
		})
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(map[string]string{
			"redirectUrl": result.RedirectURL,
			"orderId":     result.OrderID,
			"amount":      result.Amount.String(),
			"currency":    result.Currency,
			"discount":    result.Discount.String(),
		}); err != nil {
			return fmt.Errorf("failed to print result: %w", err)
		}
		return nil
	},
}

func init() {
	checkoutCmd.Flags().StringVar(&checkoutPlanID, "plan", "", "pricing plan id")
	checkoutCmd.Flags().StringVar(&checkoutCouponCode, "coupon", "", "optional coupon code")
	checkoutCmd.Flags().StringVar(&checkoutCouponsEndpoint, "coupons-endpoint", "", "coupon endpoint, overrides coupon.default_endpoint")
	_ = checkoutCmd.MarkFlagRequired("plan")
}
