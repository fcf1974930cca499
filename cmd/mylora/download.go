package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/mylora/mylora-desktop/internal/model"
	"github.com/mylora/mylora-desktop/internal/orchestrator"
	"github.com/mylora/mylora-desktop/internal/platform"
)

type downloadOptions struct {
	out   string
	quiet bool
}

func newDownloadCmd(a *cliApp) *cobra.Command {
	o := &downloadOptions{}

	cmd := &cobra.Command{
		Use:   "download FILENAME",
		Short: "download an artifact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]
			dest := o.out
			if dest == "" {
				dest = platform.LocalFileName(filename)
			}
			if err := platform.CreateDirectoryIfNotExists(filepath.Dir(dest)); err != nil {
				return err
			}

			if !o.quiet {
				a.services.Session.OnDownloadUpdate(func(task model.DownloadTask) {
					writeProgress(a, task)
				})
			}

			var res orchestrator.Result[string]
			h, err := a.services.Session.Download(filename, dest, func(r orchestrator.Result[string]) { res = r })
			if err != nil {
				return err
			}
			written, err := waitHandle(cmd.Context(), a, h, &res)
			if err != nil {
				return err
			}

			size := "?"
			if info, err := os.Stat(written); err == nil {
				size = humanize.Bytes(uint64(info.Size()))
			}
			fmt.Fprintf(a.out, "Saved %s (%s)\n", written, size)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&o.out, "out", "o", "", "destination path, the artifact's base name in the current directory when unset")
	f.BoolVarP(&o.quiet, "quiet", "q", false, "do not report progress")
	return cmd
}

func writeProgress(a *cliApp, task model.DownloadTask) {
	switch {
	case task.Status != model.TaskStatusInProgress:
		fmt.Fprintf(a.errOut, "%s: %s\n", task.GetDisplayTitle(), task.Status)
	case task.Percent() >= 0:
		fmt.Fprintf(a.errOut, "%s: %s of %s (%d%%)\n", task.GetDisplayTitle(),
			humanize.Bytes(uint64(task.BytesWritten)), humanize.Bytes(uint64(task.TotalBytes)), task.Percent())
	default:
		fmt.Fprintf(a.errOut, "%s: %s\n", task.GetDisplayTitle(), humanize.Bytes(uint64(task.BytesWritten)))
	}
}
