package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-course-registration/internal/app"
	"github.com/noah-isme/sma-course-registration/internal/catalog"
	"github.com/noah-isme/sma-course-registration/internal/dto"
	"github.com/noah-isme/sma-course-registration/internal/models"
	"github.com/noah-isme/sma-course-registration/internal/service"
	"github.com/noah-isme/sma-course-registration/pkg/config"
	"github.com/noah-isme/sma-course-registration/pkg/logger"
)

// cliOptions carries the persistent flags shared by every subcommand.
type cliOptions struct {
	catalogPath string
	csvPath     string
	logLevel    string
	loadConfig  func() (*config.Config, error)
}

func newRootCmd() *cobra.Command {
	opts := &cliOptions{loadConfig: config.Load}

	root := &cobra.Command{
		Use:           "registrar",
		Short:         "Inspect the course catalog and stored registrations",
		SilenceUsage:  true,
		SilenceErrors: true,
		Long: `registrar works against the same configuration as the API server.

Available subcommands:
  catalog  - Print the subject offerings for a grade level
  validate - Check a selection of subject codes against the registration rules
  summary  - Print per-subject enrollment counts
  export   - Write the stored records or the summary to a file`,
	}
	root.PersistentFlags().StringVar(&opts.catalogPath, "catalog", "", "catalog YAML file (default: built-in catalog or CATALOG_PATH)")
	root.PersistentFlags().StringVar(&opts.csvPath, "store", "", "CSV store path (default: STORE_CSV_PATH)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level")

	root.AddCommand(
		newCatalogCmd(opts),
		newValidateCmd(opts),
		newSummaryCmd(opts),
		newExportCmd(opts),
	)
	return root
}

func (o *cliOptions) config() (*config.Config, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if o.catalogPath != "" {
		cfg.Catalog.Path = o.catalogPath
	}
	if o.csvPath != "" {
		cfg.Store.Driver = config.StoreDriverCSV
		cfg.Store.CSVPath = o.csvPath
	}
	return cfg, nil
}

func (o *cliOptions) catalog() (*catalog.Catalog, error) {
	cfg, err := o.config()
	if err != nil {
		return nil, err
	}
	return catalog.Load(cfg.Catalog.Path)
}

func (o *cliOptions) app(ctx context.Context) (*app.App, error) {
	cfg, err := o.config()
	if err != nil {
		return nil, err
	}
	logr, err := logger.NewCLI(o.logLevel)
	if err != nil {
		logr = zap.NewNop()
	}
	return app.New(ctx, cfg, logr)
}

func parseGrade(raw string) (models.GradeLevel, error) {
	grade := models.GradeLevel(strings.TrimSpace(raw))
	if !grade.Valid() {
		return "", fmt.Errorf("grade must be %s or %s, got %q", models.GradeSecondYear, models.GradeThirdYear, raw)
	}
	return grade, nil
}

func newCatalogCmd(opts *cliOptions) *cobra.Command {
	var grade string
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Print the subject offerings for a grade level",
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := parseGrade(grade)
			if err != nil {
				return err
			}
			cat, err := opts.catalog()
			if err != nil {
				return err
			}
			return printOfferings(cmd.OutOrStdout(), cat.Offerings(g))
		},
	}
	cmd.Flags().StringVar(&grade, "grade", string(models.GradeThirdYear), "grade level")
	return cmd
}

func printOfferings(out io.Writer, rows []models.OfferingRow) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CODE\tAREA\tTRACK\tTITLE\tCREDITS\tFIRST\tSECOND\tMAJOR")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\t%s\t%s\n",
			r.Code, r.SubjectArea, r.TrackType, r.Title, r.Credits,
			mark(r.FirstTermOffered), mark(r.SecondTermOffered), mark(r.IsMajor))
	}
	return tw.Flush()
}

func mark(v bool) string {
	if v {
		return models.MajorMarker
	}
	return ""
}

func newValidateCmd(opts *cliOptions) *cobra.Command {
	var grade string
	cmd := &cobra.Command{
		Use:   "validate [subject codes...]",
		Short: "Check a selection of subject codes against the registration rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := parseGrade(grade)
			if err != nil {
				return err
			}
			cat, err := opts.catalog()
			if err != nil {
				return err
			}
			svc := service.NewSubmissionService(nil, cat, nil, nil, nil, nil)
			result, err := svc.Validate(cmd.Context(), dto.ValidateSelectionRequest{GradeLevel: g, SubjectCodes: args})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "subjects: %d  credits: %d  majors: %d\n", result.Totals.SubjectCount, result.Totals.TotalCredits, result.Totals.MajorCount)
			if !result.Accepted {
				return fmt.Errorf("rejected (%s): %s", result.Rule, result.Message)
			}
			fmt.Fprintln(out, result.Message)
			return nil
		},
	}
	cmd.Flags().StringVar(&grade, "grade", string(models.GradeThirdYear), "grade level")
	return cmd
}

func summaryFlags(cmd *cobra.Command, filter *models.SummaryFilter, grade, term *string) {
	cmd.Flags().StringVar(grade, "grade", "", "filter by grade level")
	cmd.Flags().StringVar(term, "term", "", "filter by term")
	cmd.Flags().BoolVar(&filter.MajorOnly, "major-only", false, "only count major subjects")
	cmd.Flags().BoolVar(&filter.GroupByMajor, "group-by-major", false, "split counts by the major flag")
}

func resolveSummaryFilter(filter models.SummaryFilter, grade, term string) (models.SummaryFilter, error) {
	if grade != "" {
		g, err := parseGrade(grade)
		if err != nil {
			return filter, err
		}
		filter.GradeLevel = g
	}
	if term != "" {
		t := models.Term(term)
		if !t.Valid() {
			return filter, fmt.Errorf("term must be %s or %s, got %q", models.TermFirst, models.TermSecond, term)
		}
		filter.Term = t
	}
	return filter, nil
}

func newSummaryCmd(opts *cliOptions) *cobra.Command {
	var (
		filter      models.SummaryFilter
		grade, term string
	)
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print per-subject enrollment counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := resolveSummaryFilter(filter, grade, term)
			if err != nil {
				return err
			}
			a, err := opts.app(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			counts := a.Reports.Summary(cmd.Context(), f)
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "GRADE\tTERM\tAREA\tTITLE\tMAJOR\tCOUNT")
			total := 0
			for _, c := range counts {
				major := ""
				if c.IsMajor != nil {
					major = mark(*c.IsMajor)
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\n", c.GradeLevel, c.Term, c.SubjectArea, c.SubjectTitle, major, c.Count)
				total += c.Count
			}
			fmt.Fprintf(tw, "\t\t\tTOTAL\t\t%d\n", total)
			return tw.Flush()
		},
	}
	summaryFlags(cmd, &filter, &grade, &term)
	return cmd
}

func newExportCmd(opts *cliOptions) *cobra.Command {
	var (
		filter      models.SummaryFilter
		grade, term string
		what        string
		format      string
		outPath     string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the stored records or the summary to a file",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := resolveSummaryFilter(filter, grade, term)
			if err != nil {
				return err
			}
			a, err := opts.app(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			var result *service.ExportResult
			switch {
			case what == "records":
				result, err = a.Reports.ExportRecordsCSV(cmd.Context())
			case what == "summary" && format == "csv":
				result, err = a.Reports.ExportSummaryCSV(cmd.Context(), f)
			case what == "summary" && format == "pdf":
				result, err = a.Reports.ExportSummaryPDF(cmd.Context(), f)
			default:
				return fmt.Errorf("unsupported export %q in format %q", what, format)
			}
			if err != nil {
				return err
			}
			if outPath == "" {
				outPath = result.Filename
			}
			if err := os.WriteFile(outPath, result.Data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", outPath, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", outPath, len(result.Data))
			return nil
		},
	}
	cmd.Flags().StringVar(&what, "what", "records", "records or summary")
	cmd.Flags().StringVar(&format, "format", "csv", "csv or pdf (summary only)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default: generated name)")
	summaryFlags(cmd, &filter, &grade, &term)
	return cmd
}
