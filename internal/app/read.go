package app

import (
	"fmt"
	"io"

	"github.com/blackwell-systems/readctl/internal/epub"
	"github.com/blackwell-systems/readctl/internal/library"
	"github.com/blackwell-systems/readctl/internal/reader"
	"github.com/blackwell-systems/readctl/internal/tui"
	"github.com/blackwell-systems/readctl/internal/util"
	"github.com/spf13/cobra"
)

func newReadCmd() *cobra.Command {
	var copyTo string

	cmd := &cobra.Command{
		Use:   "read [book-id]",
		Short: "Read a book in the terminal",
		Long: `Open a library book in the paged terminal reader.

Content is downloaded once and cached locally. While reading, progress
is synced back to the service after each pause in page turns. Books on
the reading shelf resume at their saved position.

Without a book ID (and with a TTY) the library browser opens.

Examples:
  readctl read 4f2c9b10-...
  readctl read 4f2c9b10-... --to ./book.epub`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var entry library.Entry

			if len(args) == 1 {
				found, err := findEntry(cmd, args[0])
				if err != nil {
					return err
				}
				entry = *found
			} else {
				if !tui.ShouldUseTUI(cmd) {
					return fmt.Errorf("a book ID is required in non-interactive mode")
				}
				shelves, err := svc.Shelves(cmd.Context())
				if err != nil {
					return err
				}
				if shelves.IsEmpty() {
					fmt.Println("Your library is empty. Find something with: readctl discover")
					return nil
				}
				result, err := tui.RunShelfBrowser(shelves)
				if err != nil {
					return nil
				}
				if result.Action == tui.ActionUpdate {
					return promptUpdate(cmd, result.Entry)
				}
				entry = result.Entry
			}

			if copyTo != "" {
				return exportBook(cmd, entry, copyTo)
			}
			return runReadBook(cmd, entry)
		},
	}

	cmd.Flags().StringVar(&copyTo, "to", "", "Copy the EPUB to this path instead of reading")
	return cmd
}

// findEntry resolves a book ID against the user's shelves so the reader has
// the title and saved progress, not just an ID.
func findEntry(cmd *cobra.Command, bookID string) (*library.Entry, error) {
	shelves, err := svc.Shelves(cmd.Context())
	if err != nil {
		return nil, err
	}
	entry := shelves.Find(bookID)
	if entry == nil {
		return nil, fmt.Errorf("book %q not found in your library — add it first with 'readctl add'", bookID)
	}
	return entry, nil
}

// loadContent fetches the book's EPUB bytes, showing a progress bar for
// fresh downloads in TTY mode.
func loadContent(cmd *cobra.Command, entry library.Entry) ([]byte, error) {
	ldr := reader.NewLoader(client, cacheMgr, logger)

	if cacheMgr.Exists(entry.ID) || !util.IsTTY() || !tui.ShouldUseTUI(cmd) {
		if !cacheMgr.Exists(entry.ID) {
			fmt.Printf("Downloading %s …\n", entry.Title)
		}
		return ldr.Load(cmd.Context(), entry.ID)
	}

	updates := make(chan int64, 50)
	totalCh := make(chan int64, 1)
	ldr.Wrap = func(r io.Reader, total int64) io.Reader {
		totalCh <- total
		return tui.NewProgressReader(r, total, updates)
	}

	var data []byte
	errCh := make(chan error, 1)
	go func() {
		var err error
		data, err = ldr.Load(cmd.Context(), entry.ID)
		close(updates)
		errCh <- err
	}()

	// The signed-URL fetch happens before any bytes flow, so wait for either
	// the download to start or the load to fail outright.
	select {
	case total := <-totalCh:
		label := fmt.Sprintf("Downloading %s (%s)", entry.Title, humanBytes(total))
		if err := tui.ShowDownload(label, total, updates); err != nil {
			return nil, err
		}
	case err := <-errCh:
		if err != nil {
			return nil, err
		}
		return data, nil
	}

	if err := <-errCh; err != nil {
		return nil, err
	}
	return data, nil
}

// runReadBook downloads (or reuses) the content, opens the reader, and keeps
// progress synced while pages turn.
func runReadBook(cmd *cobra.Command, entry library.Entry) error {
	data, err := loadContent(cmd, entry)
	if err != nil {
		return err
	}

	doc, err := epub.Open(data)
	if err != nil {
		return fmt.Errorf("opening %s: %w", entry.Title, err)
	}
	defer doc.Close()

	if _, err := doc.BuildLocations(epub.DefaultLocationSize); err != nil {
		return err
	}

	start := 0
	if entry.Status == library.StatusReading && entry.Progress != nil {
		start = int(*entry.Progress)
	}

	sync := reader.NewProgressSync(svc, entry.ID, reader.DefaultQuietInterval, logger)
	defer sync.Cancel()

	return tui.RunReader(doc, start, func(loc epub.Location) {
		sync.Note(loc.Percent)
	})
}

// exportBook copies the (cached or freshly downloaded) EPUB to a local path.
func exportBook(cmd *cobra.Command, entry library.Entry, dest string) error {
	if !cacheMgr.Exists(entry.ID) {
		ldr := reader.NewLoader(client, cacheMgr, logger)
		fmt.Printf("Downloading %s …\n", entry.Title)
		if _, err := ldr.Load(cmd.Context(), entry.ID); err != nil {
			return err
		}
	}

	if err := util.CopyFile(cacheMgr.Path(entry.ID), dest); err != nil {
		return err
	}
	ok("Copied to %s", dest)
	return nil
}
