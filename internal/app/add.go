package app

import (
	"errors"

	"github.com/blackwell-systems/readctl/internal/api"
	"github.com/blackwell-systems/readctl/internal/tui"
	"github.com/spf13/cobra"
)

func newAddCmd() *cobra.Command {
	var (
		page  int
		limit int
	)

	cmd := &cobra.Command{
		Use:   "add [book-id]",
		Short: "Add a catalog book to your library",
		Long: `Shelve a catalog book onto your to-read shelf.

With a book ID the add happens directly. Without one (and with a TTY)
a catalog picker opens.

Examples:
  readctl add 4f2c9b10-...
  readctl add`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bookID := ""
			if len(args) == 1 {
				bookID = args[0]
			}

			if bookID == "" {
				if !tui.ShouldUseTUI(cmd) {
					return errors.New("a book ID is required in non-interactive mode")
				}
				if limit <= 0 {
					limit = cfg.Defaults.PageLimit
				}
				books, err := svc.Catalog(cmd.Context(), page, limit)
				if err != nil {
					return err
				}
				picked, err := tui.RunBookPicker(books, "Add a book")
				if err != nil {
					return nil
				}
				bookID = picked.ID
			}

			entry, err := svc.Add(cmd.Context(), bookID)
			if err != nil {
				if errors.Is(err, api.ErrConflict) {
					ok("Already in your library")
					return nil
				}
				return err
			}
			ok("Added %s to %s", entry.Title, entry.Status)
			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "Catalog page for the interactive picker")
	cmd.Flags().IntVar(&limit, "limit", 0, "Books per page for the interactive picker")
	return cmd
}
