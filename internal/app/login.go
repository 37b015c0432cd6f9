package app

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func newLoginCmd() *cobra.Command {
	var code string

	cmd := &cobra.Command{
		Use:   "login <email>",
		Short: "Sign in with a one-time email code",
		Long: `Request a one-time sign-in code for the given email, then verify it.

With a TTY, readctl prompts for the code after requesting it. Otherwise
run the command twice: once to request, once with --code to verify.

Examples:
  readctl login reader@example.com
  readctl login reader@example.com --code 123456`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			email := strings.TrimSpace(args[0])
			if email == "" || !strings.Contains(email, "@") {
				return fmt.Errorf("%q does not look like an email address", email)
			}

			ctx := cmd.Context()
			provider := store.Provider()

			if code == "" {
				if err := provider.RequestCode(ctx, email); err != nil {
					return fmt.Errorf("requesting code: %w", err)
				}
				ok("Code sent to %s", email)

				if !isInteractive() {
					fmt.Println()
					fmt.Printf("Verify with: readctl login %s --code <code>\n", email)
					return nil
				}

				fmt.Print("Enter the code from your email: ")
				reader := bufio.NewReader(os.Stdin)
				line, err := reader.ReadString('\n')
				if err != nil {
					return err
				}
				code = strings.TrimSpace(line)
				if code == "" {
					return fmt.Errorf("no code entered")
				}
			}

			sess, err := provider.VerifyCode(ctx, email, code)
			if err != nil {
				return err
			}
			if err := store.SetSession(sess); err != nil {
				warn("Session verified but could not be persisted: %v", err)
			}

			ok("Signed in as %s", sess.User.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&code, "code", "", "One-time code from the sign-in email")
	return cmd
}

func isInteractive() bool {
	if flagNoInteractive {
		return false
	}
	fi, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
