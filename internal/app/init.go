package app

import (
	"fmt"

	"github.com/blackwell-systems/readctl/internal/config"
	"github.com/spf13/cobra"
)

func newInitCmd() *cobra.Command {
	var (
		apiURL  string
		authURL string
		priceID string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the readctl config file",
		Long: `Write ~/.config/readctl/config.yml pointing at your reading-tracker
service and its identity provider.

The provider's anon key is never written to the file; export it instead:

  export READCTL_ANON_KEY=eyJ...

Examples:
  readctl init --api https://api.example.com/api/v1 --auth https://auth.example.com/auth/v1`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if apiURL == "" || authURL == "" {
				return fmt.Errorf("both --api and --auth are required")
			}

			cfg.API.BaseURL = apiURL
			cfg.Auth.URL = authURL
			if priceID != "" {
				cfg.Billing.PriceID = priceID
			}

			if err := config.Save(cfg); err != nil {
				return fmt.Errorf("writing config: %w", err)
			}

			ok("Config written to %s", config.DefaultPath())
			if cfg.Auth.Key == "" {
				keyEnv := cfg.Auth.KeyEnv
				if keyEnv == "" {
					keyEnv = "READCTL_ANON_KEY"
				}
				warn("Provider key not set — export %s before signing in", keyEnv)
			}
			fmt.Println()
			fmt.Println("Next: readctl login <email>")
			return nil
		},
	}

	cmd.Flags().StringVar(&apiURL, "api", "", "Reading-tracker API base URL")
	cmd.Flags().StringVar(&authURL, "auth", "", "Identity provider base URL")
	cmd.Flags().StringVar(&priceID, "price-id", "", "Checkout price ID for subscriptions")
	return cmd
}
