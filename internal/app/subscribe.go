package app

import (
	"fmt"

	"github.com/blackwell-systems/readctl/internal/api"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newSubscribeCmd() *cobra.Command {
	var verifySession string

	cmd := &cobra.Command{
		Use:   "subscribe",
		Short: "Start or verify a Pro subscription",
		Long: `Create a checkout session for the Pro subscription, then verify the
payment once checkout completes.

Checkout itself happens in the browser; readctl prints the session ID
to verify with afterwards.

Examples:
  readctl subscribe
  readctl subscribe --verify cs_test_a1b2...`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if store.Session() == nil {
				return fmt.Errorf("not signed in — run 'readctl login'")
			}

			if verifySession != "" {
				tier, err := client.VerifyPayment(cmd.Context(), verifySession)
				if err != nil {
					return fmt.Errorf("verifying payment: %w", err)
				}
				if tier == api.TierActive {
					ok("Subscription active — premium features unlocked")
				} else {
					warn("Payment not confirmed yet (tier: %s) — try again in a moment", tier)
				}
				// Pull the fresh tier into the store either way.
				_ = store.RefreshSubscription(cmd.Context())
				return nil
			}

			if store.Tier() == api.TierActive {
				ok("Subscription already active")
				return nil
			}

			if cfg.Billing.PriceID == "" {
				return fmt.Errorf("no price configured — set billing.price_id in %s", "~/.config/readctl/config.yml")
			}

			sessionID, err := client.CreateCheckoutSession(cmd.Context(), cfg.Billing.PriceID)
			if err != nil {
				return fmt.Errorf("creating checkout session: %w", err)
			}

			header("Checkout session created")
			printField("session", sessionID)
			fmt.Println()
			fmt.Println("Complete checkout in your browser, then verify with:")
			fmt.Printf("  %s\n", color.CyanString("readctl subscribe --verify %s", sessionID))
			return nil
		},
	}

	cmd.Flags().StringVar(&verifySession, "verify", "", "Checkout session ID to verify")
	return cmd
}
