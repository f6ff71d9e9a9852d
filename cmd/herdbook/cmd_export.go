package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"herdbook/internal/blob"
	"herdbook/internal/report"
)

func (c *cli) exportCommand() *cobra.Command {
	var format string
	var stdout bool
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Render a pedigree report and store it in the blob store",
		Long: "Render a pedigree report of the registry. The report is stored under reports/ in the blob\n" +
			"store selected by HERDBOOK_BLOB_DRIVER unless --stdout is given.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := report.ParseFormat(format)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if stdout {
				snapshot, err := c.svc.Snapshot(ctx)
				if err != nil {
					return err
				}
				r, err := report.Build(snapshot, nil)
				if err != nil {
					return err
				}
				payload, err := report.Render(r, f)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(payload)
				return err
			}
			store, err := blob.Open(ctx)
			if err != nil {
				return fmt.Errorf("open blob store: %w", err)
			}
			info, err := report.NewExporter(c.svc, store, nil).Export(ctx, f)
			if err != nil {
				return err
			}
			c.logger.Info("report stored", "key", info.Key, "driver", string(store.Driver()), "size", info.Size)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d bytes\n", info.Key, info.Size)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", string(report.FormatJSON), "report format: json|csv")
	cmd.Flags().BoolVar(&stdout, "stdout", false, "write the report to stdout instead of the blob store")
	return cmd
}
