package app

import (
	"fmt"

	"github.com/blackwell-systems/readctl/internal/library"
	"github.com/blackwell-systems/readctl/internal/tui"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newLibraryCmd() *cobra.Command {
	var flagShelf string

	cmd := &cobra.Command{
		Use:     "library",
		Aliases: []string{"shelves"},
		Short:   "Browse your library shelves",
		Long: `Show your library, partitioned into reading / to-read / finished /
abandoned shelves.

With a TTY this launches an interactive browser: enter opens a book in
the reader, 'u' re-shelves it. Otherwise shelves are printed as text.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			shelves, err := svc.Shelves(cmd.Context())
			if err != nil {
				return err
			}

			if flagShelf != "" {
				st := library.Status(flagShelf)
				if !st.Valid() {
					return fmt.Errorf("unknown shelf %q (want to_read, reading, finished or abandoned)", flagShelf)
				}
				printShelfText(st, shelves.ByStatus(st))
				return nil
			}

			if shelves.IsEmpty() {
				fmt.Println("Your library is empty.")
				fmt.Println()
				fmt.Printf("Find something to read with: %s\n", color.CyanString("readctl discover"))
				return nil
			}

			if !tui.ShouldUseTUI(cmd) {
				printShelvesText(shelves)
				return nil
			}

			result, err := tui.RunShelfBrowser(shelves)
			if err != nil {
				return nil // canceled is not a failure
			}

			switch result.Action {
			case tui.ActionRead:
				return runReadBook(cmd, result.Entry)
			case tui.ActionUpdate:
				return promptUpdate(cmd, result.Entry)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&flagShelf, "shelf", "", "show a single shelf (to_read, reading, finished, abandoned)")

	return cmd
}

// shelfLabels maps statuses to their display headings.
var shelfLabels = map[library.Status]string{
	library.StatusReading:   "Reading",
	library.StatusToRead:    "To Read",
	library.StatusFinished:  "Finished",
	library.StatusAbandoned: "Abandoned",
}

func printShelfText(st library.Status, entries []library.Entry) {
	if len(entries) == 0 {
		fmt.Printf("Nothing on the %s shelf.\n", shelfLabels[st])
		return
	}
	header("%s (%d)", shelfLabels[st], len(entries))
	for _, e := range entries {
		printEntryLine(e)
	}
}

func printShelvesText(shelves library.Shelves) {
	sections := []struct {
		label   string
		entries []library.Entry
	}{
		{"Reading", shelves.Reading},
		{"To Read", shelves.ToRead},
		{"Finished", shelves.Finished},
		{"Abandoned", shelves.Abandoned},
	}

	first := true
	for _, sec := range sections {
		if len(sec.entries) == 0 {
			continue
		}
		if !first {
			fmt.Println()
		}
		first = false

		header("%s (%d)", sec.label, len(sec.entries))
		for _, e := range sec.entries {
			printEntryLine(e)
		}
	}
}

func printEntryLine(e library.Entry) {
	line := "  " + e.Title
	if e.Author != nil {
		line += " — " + *e.Author
	}
	if e.Status == library.StatusReading && e.Progress != nil {
		line += color.GreenString("  %.0f%%", *e.Progress)
	}
	fmt.Printf("%s  %s\n", line, color.HiBlackString(e.ID))
}
