package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/turtacn/PatentVault/internal/application/portfolio"
	"github.com/turtacn/PatentVault/internal/application/reporting"
	"github.com/turtacn/PatentVault/pkg/errors"
)

type exportOptions struct {
	out    string
	search string
	status string
}

func newExportCmd() *cobra.Command {
	opts := &exportOptions{}
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the portfolio as an Excel workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExport(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.out, "out", "", "output file (default: the dated export name; \"-\" for stdout)")
	cmd.Flags().StringVar(&opts.search, "q", "", "only records whose name or patentee contains this text")
	cmd.Flags().StringVar(&opts.status, "status", "", "only records with this status")
	return cmd
}

func runExport(cmd *cobra.Command, opts *exportOptions) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := commandContext(cmd, cliCtx)
	defer cancel()

	app, err := NewApp(ctx, cliCtx.Config, cliCtx.Logger, AppOptions{SkipAI: true})
	if err != nil {
		return err
	}
	defer app.Close()

	ps, err := app.Portfolio.List(ctx, portfolio.Filter{Search: opts.search, Status: opts.status})
	if err != nil {
		return err
	}

	if opts.out == "-" {
		w := bufio.NewWriter(cmd.OutOrStdout())
		if err := app.Reports.ExportXLSX(w, ps); err != nil {
			return err
		}
		return w.Flush()
	}

	path := opts.out
	if path == "" {
		path = reporting.ExportFileName(time.Now())
	}
	if err := writeFile(path, func(w io.Writer) error { return app.Reports.ExportXLSX(w, ps) }); err != nil {
		return err
	}
	PrintSuccess(cmd, fmt.Sprintf("exported %d record(s) to %s", len(ps), path))
	return nil
}

// writeFile creates path and removes it again when write fails.
func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeExportFailed, "creating output file").WithDetail(path)
	}
	if err := write(f); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(err, errors.ErrCodeExportFailed, "closing output file").WithDetail(path)
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show portfolio counts by status, type and country",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd, cliCtx)
			defer cancel()

			app, err := NewApp(ctx, cliCtx.Config, cliCtx.Logger, AppOptions{SkipAI: true})
			if err != nil {
				return err
			}
			defer app.Close()

			st, err := app.Portfolio.Stats(ctx)
			if err != nil {
				return err
			}
			return PrintResult(cmd, statsReport{st})
		},
	}
}

type statsReport struct {
	*portfolio.Stats
}

func (r statsReport) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "total:         %d\n", r.Total)
	fmt.Fprintf(&sb, "survival rate: %d%%\n", r.SurvivalRate)
	for _, sec := range []struct {
		title  string
		counts map[string]int
	}{{"status", r.ByStatus}, {"type", r.ByType}, {"country", r.ByCountry}} {
		fmt.Fprintf(&sb, "\nby %s:\n", sec.title)
		for _, k := range sortedKeys(sec.counts) {
			fmt.Fprintf(&sb, "  %-12s %d\n", k, sec.counts[k])
		}
	}
	return sb.String()
}

func (r statsReport) TableHeaders() []string { return []string{"DIMENSION", "VALUE", "COUNT"} }

func (r statsReport) TableRows() [][]string {
	rows := [][]string{{"total", "", strconv.Itoa(r.Total)}}
	for _, sec := range []struct {
		name   string
		counts map[string]int
	}{{"status", r.ByStatus}, {"type", r.ByType}, {"country", r.ByCountry}} {
		for _, k := range sortedKeys(sec.counts) {
			rows = append(rows, []string{sec.name, k, strconv.Itoa(sec.counts[k])})
		}
	}
	return rows
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func newAlertsCmd() *cobra.Command {
	var within int
	var nowFlag string
	cmd := &cobra.Command{
		Use:   "alerts",
		Short: "List active patents whose annuity falls due soon",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			now, err := parseNow(nowFlag)
			if err != nil {
				return err
			}
			if within <= 0 {
				within = cliCtx.Config.Alerts.WindowDays
			}
			ctx, cancel := commandContext(cmd, cliCtx)
			defer cancel()

			app, err := NewApp(ctx, cliCtx.Config, cliCtx.Logger, AppOptions{SkipAI: true})
			if err != nil {
				return err
			}
			defer app.Close()

			alerts, err := app.Portfolio.Alerts(ctx, now, within)
			if err != nil {
				return err
			}
			return PrintResult(cmd, alertReport(alerts))
		},
	}
	cmd.Flags().IntVar(&within, "within", 0, "alert window in days (default: alerts.window_days)")
	cmd.Flags().StringVar(&nowFlag, "now", "", "reference date (YYYY-MM-DD)")
	return cmd
}

type alertReport []portfolio.Alert

func (r alertReport) String() string {
	if len(r) == 0 {
		return "no annuities due\n"
	}
	var sb strings.Builder
	for _, a := range r {
		fmt.Fprintf(&sb, "%4d days  %s  %s\n", a.DaysLeft, a.Patent.AnnuityDate, a.Patent.Name)
	}
	return sb.String()
}

func (r alertReport) TableHeaders() []string {
	return []string{"DAYS LEFT", "ANNUITY DATE", "YEAR", "ID", "NAME"}
}

func (r alertReport) TableRows() [][]string {
	rows := make([][]string, 0, len(r))
	for _, a := range r {
		rows = append(rows, []string{
			strconv.Itoa(a.DaysLeft), a.Patent.AnnuityDate, strconv.Itoa(a.Patent.AnnuityYear), a.Patent.ID, a.Patent.Name,
		})
	}
	return rows
}

//Personal.AI order the ending
