package main

import (
	"github.com/spf13/cobra"

	"github.com/mylora/mylora-desktop/internal/catalog"
	"github.com/mylora/mylora-desktop/internal/model"
	"github.com/mylora/mylora-desktop/internal/orchestrator"
)

type gridOptions struct {
	q        string
	category int
	offset   int
	limit    int
}

func newGridCmd(a *cliApp) *cobra.Command {
	o := &gridOptions{}

	cmd := &cobra.Command{
		Use:   "grid",
		Short: "list catalog entries, optionally filtered by category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			q := catalog.GridQuery{Q: o.q, Offset: o.offset, Limit: o.limit}
			if cmd.Flags().Changed("category") {
				q.Category = &o.category
			}
			entries, err := await(cmd.Context(), a, func(deliver func(orchestrator.Result[[]model.CatalogEntry])) *orchestrator.Handle {
				return a.services.Session.ListGrid(q, deliver)
			})
			if err != nil {
				return err
			}
			writeEntries(a.out, a.services.Client.Locator(), entries)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&o.q, "q", catalog.DefaultGridQuery, "filter query")
	f.IntVar(&o.category, "category", 0, "category id, all categories when unset")
	f.IntVar(&o.offset, "offset", 0, "number of entries to skip")
	f.IntVar(&o.limit, "limit", catalog.DefaultGridLimit, "maximum number of entries")
	return cmd
}
