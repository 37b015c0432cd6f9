package app

import (
	"context"
	"fmt"

	"github.com/blackwell-systems/readctl/internal/tui"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// runHub launches the interactive menu and routes to the selected action.
func runHub() error {
	if !cfg.Configured() {
		fmt.Println(color.YellowString("Welcome to readctl!"))
		fmt.Println()
		fmt.Println("No service is configured yet. Point readctl at your reading")
		fmt.Println("tracker first:")
		fmt.Println()
		fmt.Printf("  %s\n", color.CyanString("readctl init --api https://api.example.com/api/v1 --auth https://auth.example.com/auth/v1"))
		fmt.Println()
		fmt.Println("Then run 'readctl' again.")
		return nil
	}

	for {
		ctx := buildHubContext()

		action, err := tui.RunHub(ctx)
		if err != nil {
			return err
		}
		if action == "quit" {
			return nil
		}

		cmdErr := runHubAction(action)

		// Hub actions are all TUI or short commands; canceling one just
		// returns to the menu.
		if cmdErr != nil && cmdErr.Error() != "canceled" {
			fmt.Println()
			fmt.Println(color.RedString("Failed: %v", cmdErr))
			fmt.Println()
			fmt.Println(color.CyanString("Press Enter to return to the menu..."))
			var dummy string
			_, _ = fmt.Scanln(&dummy)
		}
		fmt.Print("\033[2J\033[H")
	}
}

func runHubAction(action string) error {
	var cmd *cobra.Command
	switch action {
	case "library":
		cmd = newLibraryCmd()
	case "discover":
		cmd = newDiscoverCmd()
	case "add":
		cmd = newAddCmd()
	case "status":
		cmd = newStatusCmd()
	case "subscribe":
		cmd = newSubscribeCmd()
	default:
		return fmt.Errorf("unknown action: %s", action)
	}
	cmd.SetArgs([]string{})
	return cmd.Execute()
}

func buildHubContext() tui.HubContext {
	ctx := tui.HubContext{
		Email:     store.Email(),
		Tier:      string(store.Tier()),
		BookCount: -1,
	}

	if ctx.Email != "" {
		// Best effort; the menu works without the count.
		if shelves, err := svc.Shelves(context.Background()); err == nil {
			ctx.BookCount = shelves.Total()
		}
	}
	return ctx
}
