package main

import (
	"errors"
	"fmt"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/mylora/mylora-desktop/internal/model"
	"github.com/mylora/mylora-desktop/internal/orchestrator"
)

func newMetadataCmd(a *cliApp) *cobra.Command {
	return &cobra.Command{
		Use:   "metadata FILENAME",
		Short: "print the metadata embedded in an artifact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, err := await(cmd.Context(), a, func(deliver func(orchestrator.Result[model.Metadata])) *orchestrator.Handle {
				return a.services.Session.Metadata(args[0], deliver)
			})
			if err != nil {
				return err
			}
			if meta.Failed() {
				return errors.New(meta.Err)
			}
			if len(meta.Values) == 0 {
				fmt.Fprintln(a.out, "No metadata")
				return nil
			}
			table := uitable.New()
			table.MaxColWidth = maxColWidth
			table.Wrap = true
			table.AddRow("KEY", "VALUE")
			for _, k := range meta.Keys() {
				table.AddRow(k, meta.Values[k])
			}
			fmt.Fprintln(a.out, table)
			return nil
		},
	}
}
