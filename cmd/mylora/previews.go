package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mylora/mylora-desktop/internal/model"
	"github.com/mylora/mylora-desktop/internal/orchestrator"
)

func newPreviewsCmd(a *cliApp) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "previews FILENAME",
		Short: "list the preview images stored next to an artifact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entry := model.CatalogEntry{Filename: args[0]}
			urls, err := await(cmd.Context(), a, func(deliver func(orchestrator.Result[[]string])) *orchestrator.Handle {
				return a.services.Session.Previews(entry, deliver)
			})
			if err != nil {
				return err
			}
			if len(urls) == 0 {
				fmt.Fprintln(a.out, "No previews found")
				return nil
			}
			for _, u := range urls {
				fmt.Fprintln(a.out, u)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&a.maxIndex, "max-index", -1, "highest numbered preview suffix probed, $MYLORA_PREVIEW_MAX_INDEX when unset")
	return cmd
}
