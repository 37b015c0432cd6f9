package app

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage locally cached book content",
		Long:  "Manage the local cache of downloaded EPUBs. Clearing it never touches your library or reading progress.",
	}

	cmd.AddCommand(
		newCacheInfoCmd(),
		newCacheClearCmd(),
	)
	return cmd
}

func newCacheInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show cache statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			size, count, err := cacheMgr.Size()
			if err != nil {
				return err
			}

			header("Content cache")
			printField("books", fmt.Sprintf("%d", count))
			printField("size", humanBytes(size))
			printField("dir", cacheMgr.Dir())
			return nil
		},
	}
}

func newCacheClearCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "clear [book-id...]",
		Short: "Remove downloaded books from the cache",
		Long: `Remove books from the local cache. They are re-downloaded the next
time they are opened.

Examples:
  readctl cache clear 4f2c9b10-...
  readctl cache clear --all`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if all {
				return clearAllCache()
			}
			if len(args) == 0 {
				return fmt.Errorf("pass book IDs or --all")
			}

			removed := 0
			for _, id := range args {
				if !cacheMgr.Exists(id) {
					fmt.Printf("%s: not cached\n", id)
					continue
				}
				if err := cacheMgr.Remove(id); err != nil {
					warn("Could not remove %s: %v", id, err)
					continue
				}
				removed++
			}
			ok("Removed %d book(s) from cache", removed)
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Clear the entire cache")
	return cmd
}

func clearAllCache() error {
	size, count, err := cacheMgr.Size()
	if err != nil {
		return err
	}
	if count == 0 {
		ok("Cache is already empty")
		return nil
	}

	fmt.Printf("This will remove %d cached books (%s)\n", count, humanBytes(size))
	fmt.Print("Type 'CLEAR' to confirm: ")
	reader := bufio.NewReader(os.Stdin)
	confirmation, _ := reader.ReadString('\n')
	if strings.TrimSpace(confirmation) != "CLEAR" {
		return fmt.Errorf("cancelled")
	}

	if err := cacheMgr.Clear(); err != nil {
		return fmt.Errorf("clearing cache: %w", err)
	}
	ok("Cleared %d books (%s)", count, humanBytes(size))
	return nil
}
