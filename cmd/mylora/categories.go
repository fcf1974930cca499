package main

import (
	"fmt"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/mylora/mylora-desktop/internal/model"
	"github.com/mylora/mylora-desktop/internal/orchestrator"
)

func newCategoriesCmd(a *cliApp) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "list catalog categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			categories, err := await(cmd.Context(), a, func(deliver func(orchestrator.Result[[]model.Category])) *orchestrator.Handle {
				return a.services.Session.Categories(deliver)
			})
			if err != nil {
				return err
			}
			if len(categories) == 0 {
				fmt.Fprintln(a.out, "No categories found")
				return nil
			}
			table := uitable.New()
			table.AddRow("ID", "NAME")
			for _, c := range categories {
				table.AddRow(c.ID, c.Name)
			}
			fmt.Fprintln(a.out, table)
			return nil
		},
	}
}
