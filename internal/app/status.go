package app

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/blackwell-systems/readctl/internal/api"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

type statusOutput struct {
	SignedIn     bool   `json:"signed_in"`
	Email        string `json:"email,omitempty"`
	Tier         string `json:"tier,omitempty"`
	SessionUntil string `json:"session_until,omitempty"`
	Books        int    `json:"books"`
	Reading      int    `json:"reading"`
	ToRead       int    `json:"to_read"`
	Finished     int    `json:"finished"`
	Abandoned    int    `json:"abandoned"`
}

func newStatusCmd() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show account and library status",
		Long: `Show who is signed in, the subscription tier, and library counts.

Examples:
  readctl status
  readctl status --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := collectStatus(cmd)

			if jsonOut {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}

			printStatusText(out)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

func collectStatus(cmd *cobra.Command) statusOutput {
	var out statusOutput

	sess := store.Session()
	if sess == nil {
		return out
	}

	out.SignedIn = true
	out.Email = sess.User.Email
	if !sess.ExpiresAt.IsZero() {
		out.SessionUntil = sess.ExpiresAt.Format(time.RFC3339)
	}

	// The async refresh from Initialize may not have landed yet; ask directly
	// so status shows fresh entitlement.
	if err := store.RefreshSubscription(cmd.Context()); err != nil {
		warn("Could not fetch subscription status: %v", err)
	}
	out.Tier = string(store.Tier())

	shelves, err := svc.Shelves(cmd.Context())
	if err != nil {
		warn("Could not load library: %v", err)
		return out
	}
	out.Books = shelves.Total()
	out.Reading = len(shelves.Reading)
	out.ToRead = len(shelves.ToRead)
	out.Finished = len(shelves.Finished)
	out.Abandoned = len(shelves.Abandoned)
	return out
}

func printStatusText(out statusOutput) {
	header("Account")
	if !out.SignedIn {
		printField("session", color.YellowString("signed out"))
		fmt.Println()
		fmt.Println("Sign in with: readctl login <email>")
		return
	}

	printField("email", out.Email)
	if out.SessionUntil != "" {
		printField("session_until", out.SessionUntil)
	}
	switch api.Tier(out.Tier) {
	case api.TierActive:
		printField("tier", color.GreenString("active"))
	case api.TierInactive:
		printField("tier", "inactive")
	default:
		printField("tier", "none")
	}

	fmt.Println()
	header("Library")
	printField("books", fmt.Sprintf("%d", out.Books))
	if out.Books > 0 {
		printField("reading", fmt.Sprintf("%d", out.Reading))
		printField("to_read", fmt.Sprintf("%d", out.ToRead))
		printField("finished", fmt.Sprintf("%d", out.Finished))
		if out.Abandoned > 0 {
			printField("abandoned", fmt.Sprintf("%d", out.Abandoned))
		}
	}
}
