package app

import (
	"errors"
	"fmt"

	"github.com/blackwell-systems/readctl/internal/api"
	"github.com/blackwell-systems/readctl/internal/tui"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newDiscoverCmd() *cobra.Command {
	var (
		page  int
		limit int
	)

	cmd := &cobra.Command{
		Use:   "discover",
		Short: "Browse the public book catalog",
		Long: `Page through the catalog of books available on the service.

With a TTY this launches an interactive picker; selecting a book adds it
to your to-read shelf. Otherwise books are listed one per line.

Examples:
  readctl discover
  readctl discover --page 3 --limit 50`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit <= 0 {
				limit = cfg.Defaults.PageLimit
			}

			books, err := svc.Catalog(cmd.Context(), page, limit)
			if err != nil {
				return err
			}
			if len(books) == 0 {
				warn("No books on page %d", page)
				return nil
			}

			if !tui.ShouldUseTUI(cmd) {
				for _, b := range books {
					line := b.Title
					if b.Author != nil {
						line += " — " + *b.Author
					}
					if b.InLibrary {
						line += " " + color.GreenString("(in library)")
					}
					fmt.Printf("%s  %s\n", color.HiBlackString(b.ID), line)
				}
				return nil
			}

			title := fmt.Sprintf("Catalog — page %d", page)
			picked, err := tui.RunBookPicker(books, title)
			if err != nil {
				return nil // canceled is not a failure
			}

			if picked.InLibrary {
				ok("%s is already in your library", picked.Title)
				return nil
			}

			entry, err := svc.Add(cmd.Context(), picked.ID)
			if err != nil {
				if errors.Is(err, api.ErrConflict) {
					ok("%s is already in your library", picked.Title)
					return nil
				}
				return err
			}
			ok("Added %s to %s", entry.Title, entry.Status)
			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "Catalog page number")
	cmd.Flags().IntVar(&limit, "limit", 0, "Books per page (default from config)")
	return cmd
}
