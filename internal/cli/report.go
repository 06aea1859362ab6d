package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/brunesovrbrauns/bdc-manager-app/internal/businessday"
	"github.com/brunesovrbrauns/bdc-manager-app/internal/service"
	"github.com/spf13/cobra"
)

type reportOptions struct {
	date string
	out  string
}

func newReportCommand(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show or export the nightly numbers report",
	}
	cmd.AddCommand(newReportShowCommand(root), newReportExportCommand(root))
	return cmd
}

func (o reportOptions) load(cmd *cobra.Command, root *rootOptions) (service.Report, error) {
	ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
	defer cancel()
	app, err := root.open(ctx, root.log())
	if err != nil {
		return service.Report{}, err
	}
	defer app.Close()

	date := app.Storewide.Clock.Today()
	if o.date != "" {
		if date, err = businessday.Parse(o.date); err != nil {
			return service.Report{}, fmt.Errorf("--date must be YYYY-MM-DD: %w", err)
		}
	}
	return app.Reports.ForDate(ctx, date)
}

func newReportShowCommand(root *rootOptions) *cobra.Command {
	opts := &reportOptions{}
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the report",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rep, err := opts.load(cmd, root)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s • Closer: %s • %s\n", rep.Date, rep.Closer, rep.GeneratedAt)
			fmt.Fprintf(out, "Status: %s\n\n", rep.Status)
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			for _, l := range rep.Lines {
				fmt.Fprintf(tw, "%s\t%d\n", l.Label, l.Value)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&opts.date, "date", "", "Business date (YYYY-MM-DD), default today")
	return cmd
}

func newReportExportCommand(root *rootOptions) *cobra.Command {
	opts := &reportOptions{}
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the report as an .xlsx workbook",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rep, err := opts.load(cmd, root)
			if err != nil {
				return err
			}
			path := opts.out
			if path == "" {
				path = "nightly-numbers-" + rep.Date + ".xlsx"
			}
			f, err := os.Create(path)
			if err != nil {
				return err
			}
			if err := service.WriteReportXLSX(f, rep); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			root.log().Info("report exported", "path", path, "date", rep.Date, "status", rep.Status)
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.date, "date", "", "Business date (YYYY-MM-DD), default today")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "Output file, default nightly-numbers-<date>.xlsx")
	return cmd
}
