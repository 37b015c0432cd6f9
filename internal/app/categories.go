package app

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List catalog categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cats, err := svc.Categories(cmd.Context())
			if err != nil {
				return err
			}
			if len(cats) == 0 {
				warn("No categories")
				return nil
			}

			for _, c := range cats {
				line := fmt.Sprintf("%-24s %s", c.Name, color.HiBlackString(c.Slug))
				if c.Description != nil && *c.Description != "" {
					line += "  " + *c.Description
				}
				fmt.Println(line)
			}
			return nil
		},
	}
}
