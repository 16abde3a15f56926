package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/turtacn/PatentVault/internal/application/importing"
	"github.com/turtacn/PatentVault/internal/domain/patent"
	"github.com/turtacn/PatentVault/pkg/errors"
)

type extractOptions struct {
	heuristicOnly bool
	commit        bool
	now           string
}

func newExtractCmd() *cobra.Command {
	opts := &extractOptions{}
	cmd := &cobra.Command{
		Use:   "extract [file|-]",
		Short: "Extract patent fields from gazette text or a PDF document",
		Long: "Reads a text or PDF document (stdin when no file or \"-\" is given) and prints\n" +
			"the extracted patent record. The AI provider is used when configured unless\n" +
			"--heuristic is set.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, args, opts)
		},
	}
	cmd.Flags().BoolVar(&opts.heuristicOnly, "heuristic", false, "use the heuristic extractor only")
	cmd.Flags().BoolVar(&opts.commit, "commit", false, "store the extracted records in the portfolio")
	cmd.Flags().StringVar(&opts.now, "now", "", "reference date (YYYY-MM-DD) for status and annuity inference")
	return cmd
}

func runExtract(cmd *cobra.Command, args []string, opts *extractOptions) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}
	now, err := parseNow(opts.now)
	if err != nil {
		return err
	}

	name, data, err := readInput(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	ctx, cancel := commandContext(cmd, cliCtx)
	defer cancel()

	app, err := NewApp(ctx, cliCtx.Config, cliCtx.Logger, AppOptions{
		Now:    func() time.Time { return now },
		SkipAI: opts.heuristicOnly,
	})
	if err != nil {
		return err
	}
	defer app.Close()

	importOpts := importing.Options{HeuristicOnly: opts.heuristicOnly, Commit: opts.commit}
	var res *importing.Result
	if name == "" {
		res, err = app.Importer.FromText(ctx, string(data), importOpts)
	} else {
		res, err = app.Importer.FromFile(ctx, importing.Document{Name: name, Data: data}, importOpts)
	}
	if err != nil {
		return err
	}
	return PrintResult(cmd, extractReport{res})
}

// readInput returns the file name and content of args[0], or the content of
// in with an empty name for stdin.
func readInput(in io.Reader, args []string) (string, []byte, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(in)
		if err != nil {
			return "", nil, errors.Wrap(err, errors.ErrCodeImportDocumentRead, "reading stdin")
		}
		return "", data, nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", nil, errors.Wrap(err, errors.ErrCodeImportDocumentRead, "reading input file").WithDetail(args[0])
	}
	return filepath.Base(args[0]), data, nil
}

// parseNow reads a YYYY-MM-DD reference date; empty means today.
func parseNow(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	t, err := time.ParseInLocation(patent.DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, errors.InvalidParam("--now must be YYYY-MM-DD").WithDetail(s)
	}
	return t, nil
}

// extractReport renders an import result for the terminal.
type extractReport struct {
	*importing.Result
}

func (r extractReport) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "method: %s", r.Method)
	if r.Provider != "" {
		fmt.Fprintf(&sb, " (%s)", r.Provider)
	}
	sb.WriteString("\n")
	for i, p := range r.Patents {
		sb.WriteString("\n")
		if len(r.Patents) > 1 {
			fmt.Fprintf(&sb, "# record %d\n", i+1)
		}
		for _, f := range patentFields(p) {
			if f[1] != "" {
				fmt.Fprintf(&sb, "%-18s %s\n", f[0]+":", f[1])
			}
		}
	}
	if r.Committed {
		fmt.Fprintf(&sb, "\nstored %d record(s)\n", len(r.Patents))
	}
	return sb.String()
}

func (r extractReport) TableHeaders() []string { return patentTableHeaders }

func (r extractReport) TableRows() [][]string { return patentTableRows(r.Patents) }

// patentFields lists the labelled fields of p in display order.
func patentFields(p *patent.Patent) [][2]string {
	year := ""
	if p.AnnuityYear > 0 {
		year = strconv.Itoa(p.AnnuityYear)
	}
	return [][2]string{
		{"id", p.ID},
		{"name", p.Name},
		{"patentee", p.Patentee},
		{"country", string(p.Country)},
		{"status", string(p.Status)},
		{"type", string(p.Type)},
		{"appNumber", p.AppNumber},
		{"pubNumber", p.PubNumber},
		{"appDate", p.AppDate},
		{"pubDate", p.PubDate},
		{"duration", p.Duration},
		{"annuityDate", p.AnnuityDate},
		{"annuityYear", year},
		{"inventor", p.Inventor},
		{"link", p.Link},
		{"abstract", p.Abstract},
		{"notificationEmails", p.NotificationEmails},
	}
}

var patentTableHeaders = []string{"ID", "NAME", "COUNTRY", "STATUS", "TYPE", "APP NO", "ANNUITY DATE"}

func patentTableRows(ps []*patent.Patent) [][]string {
	rows := make([][]string, 0, len(ps))
	for _, p := range ps {
		rows = append(rows, []string{p.ID, p.Name, string(p.Country), string(p.Status), string(p.Type), p.AppNumber, p.AnnuityDate})
	}
	return rows
}

//Personal.AI order the ending
