package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/mylora/mylora-desktop/internal/catalog"
	"github.com/mylora/mylora-desktop/internal/model"
	"github.com/mylora/mylora-desktop/internal/orchestrator"
)

const maxColWidth = 60

type searchOptions struct {
	limit  int
	offset int
}

func newSearchCmd(a *cliApp) *cobra.Command {
	o := &searchOptions{}

	cmd := &cobra.Command{
		Use:   "search QUERY",
		Short: "search the catalog",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var limit *int
			if cmd.Flags().Changed("limit") {
				limit = &o.limit
			}
			query := strings.Join(args, " ")
			entries, err := await(cmd.Context(), a, func(deliver func(orchestrator.Result[[]model.CatalogEntry])) *orchestrator.Handle {
				return a.services.Session.Search(query, limit, o.offset, deliver)
			})
			if err != nil {
				return err
			}
			writeEntries(a.out, a.services.Client.Locator(), entries)
			return nil
		},
	}

	f := cmd.Flags()
	f.IntVar(&o.limit, "limit", 0, "maximum number of results, server default when unset")
	f.IntVar(&o.offset, "offset", 0, "number of results to skip")
	return cmd
}

func writeEntries(out io.Writer, loc catalog.Locator, entries []model.CatalogEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(out, "No results found")
		return
	}
	table := uitable.New()
	table.MaxColWidth = maxColWidth
	table.AddRow("NAME", "FILENAME", "CATEGORY", "PREVIEW")
	for _, e := range entries {
		category := "-"
		if e.CategoryID != nil {
			category = fmt.Sprint(*e.CategoryID)
		}
		preview := "-"
		if e.HasPreview() {
			preview = loc.Resolve(*e.PreviewURL)
		}
		table.AddRow(e.DisplayName(), e.Filename, category, preview)
	}
	fmt.Fprintln(out, table)
}
