package app

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/blackwell-systems/readctl/internal/library"
	"github.com/spf13/cobra"
)

func newUpdateCmd() *cobra.Command {
	var (
		status   string
		progress float64
	)

	cmd := &cobra.Command{
		Use:   "update <book-id>",
		Short: "Move a book between shelves or set its progress",
		Long: `Apply a partial update to a library entry.

Shelves: to_read, reading, finished, abandoned.

Examples:
  readctl update 4f2c9b10-... --status reading
  readctl update 4f2c9b10-... --progress 62.5
  readctl update 4f2c9b10-... --status finished --progress 100`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch library.Patch

			if status != "" {
				st := library.Status(status)
				if !st.Valid() {
					return fmt.Errorf("unknown shelf %q (want to_read, reading, finished, or abandoned)", status)
				}
				patch.Status = &st
			}
			if cmd.Flags().Changed("progress") {
				if progress < 0 || progress > 100 {
					return fmt.Errorf("progress must be between 0 and 100")
				}
				patch.Progress = &progress
			}
			if patch.IsZero() {
				return fmt.Errorf("nothing to update — pass --status and/or --progress")
			}

			entry, err := svc.Update(cmd.Context(), args[0], patch)
			if err != nil {
				return err
			}
			ok("%s is now on %s", entry.Title, entry.Status)
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Target shelf")
	cmd.Flags().Float64Var(&progress, "progress", 0, "Reading progress percentage (0-100)")
	return cmd
}

// promptUpdate asks for a target shelf for an entry picked in the browser.
func promptUpdate(cmd *cobra.Command, entry library.Entry) error {
	fmt.Println()
	header("Re-shelve: %s", entry.Title)
	fmt.Printf("Current shelf: %s\n\n", entry.Status)
	fmt.Println("  1. to_read")
	fmt.Println("  2. reading")
	fmt.Println("  3. finished")
	fmt.Println("  4. abandoned")
	fmt.Println()
	fmt.Print("Target shelf (1-4, empty to cancel): ")

	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return err
	}

	var st library.Status
	switch strings.TrimSpace(line) {
	case "1":
		st = library.StatusToRead
	case "2":
		st = library.StatusReading
	case "3":
		st = library.StatusFinished
	case "4":
		st = library.StatusAbandoned
	case "":
		return nil
	default:
		return fmt.Errorf("invalid choice")
	}

	updated, err := svc.Update(cmd.Context(), entry.ID, library.Patch{Status: &st})
	if err != nil {
		return err
	}
	ok("%s moved to %s", updated.Title, updated.Status)
	return nil
}
