package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-course-registration/internal/models"
	"github.com/noah-isme/sma-course-registration/internal/repository"
	appErrors "github.com/noah-isme/sma-course-registration/pkg/errors"
	"github.com/noah-isme/sma-course-registration/pkg/export"
)

// ExportResult is a rendered download.
type ExportResult struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ReportService aggregates stored submissions into enrollment summaries and downloads.
type ReportService struct {
	store   submissionStore
	csv     *export.CSVExporter
	pdf     *export.PDFExporter
	metrics submissionMetrics
	logger  *zap.Logger
	now     func() time.Time
}

// NewReportService constructs the report service.
func NewReportService(store submissionStore, metrics submissionMetrics, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &ReportService{
		store:   store,
		csv:     export.NewCSVExporter(true),
		pdf:     export.NewPDFExporter(false),
		metrics: metrics,
		logger:  logger,
		now:     time.Now,
	}
}

// Summary returns per-subject enrollment counts over the stored records.
func (s *ReportService) Summary(ctx context.Context, filter models.SummaryFilter) []models.EnrollmentCount {
	return Aggregate(loadRecords(ctx, s.store, s.metrics, s.logger), filter)
}

// ExportRecordsCSV renders every stored record in the backing column layout.
func (s *ReportService) ExportRecordsCSV(ctx context.Context) (*ExportResult, error) {
	records := loadRecords(ctx, s.store, s.metrics, s.logger)
	data, err := s.csv.Render(repository.EncodeRecords(records))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render records csv")
	}
	return &ExportResult{
		Filename:    fmt.Sprintf("course_applications_%s.csv", s.now().Format("20060102_150405")),
		ContentType: "text/csv; charset=utf-8",
		Data:        data,
	}, nil
}

// ExportSummaryCSV renders the enrollment summary as CSV.
func (s *ReportService) ExportSummaryCSV(ctx context.Context, filter models.SummaryFilter) (*ExportResult, error) {
	data, err := s.csv.Render(summaryDataset(s.Summary(ctx, filter), filter.GroupByMajor, models.MajorMarker))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render summary csv")
	}
	return &ExportResult{
		Filename:    fmt.Sprintf("enrollment_summary_%s.csv", s.now().Format("20060102_150405")),
		ContentType: "text/csv; charset=utf-8",
		Data:        data,
	}, nil
}

// ExportSummaryPDF renders the enrollment summary as a printable table.
func (s *ReportService) ExportSummaryPDF(ctx context.Context, filter models.SummaryFilter) (*ExportResult, error) {
	counts := s.Summary(ctx, filter)
	total := 0
	for _, c := range counts {
		total += c.Count
	}
	generated := s.now()
	title := "Course Enrollment Summary"
	if filter.GradeLevel != "" {
		title = fmt.Sprintf("%s (%s)", title, filter.GradeLevel)
	}
	footer := fmt.Sprintf("%d selections, generated %s", total, generated.Format(models.SubmittedAtLayout))

	data, err := s.pdf.Render(summaryDataset(counts, filter.GroupByMajor, pdfMajorMarker), title, footer)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render summary pdf")
	}
	return &ExportResult{
		Filename:    fmt.Sprintf("enrollment_summary_%s.pdf", generated.Format("20060102_150405")),
		ContentType: "application/pdf",
		Data:        data,
	}, nil
}

type summaryKey struct {
	grade models.GradeLevel
	term  models.Term
	area  string
	title string
	major bool
}

// Aggregate counts stored rows per (grade, term, area, title), optionally split by the major flag.
// Output is ordered by grade, term, area, title, then non-majors first.
func Aggregate(records []models.SubmissionRecord, filter models.SummaryFilter) []models.EnrollmentCount {
	match := models.RecordFilter{GradeLevel: filter.GradeLevel, Term: filter.Term, MajorOnly: filter.MajorOnly}
	counts := make(map[summaryKey]int)
	for _, r := range records {
		if !match.Match(r) {
			continue
		}
		key := summaryKey{grade: r.GradeLevel, term: r.Term, area: r.SubjectArea, title: r.SubjectTitle}
		if filter.GroupByMajor {
			key.major = r.IsMajor
		}
		counts[key]++
	}

	keys := make([]summaryKey, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		switch {
		case a.grade != b.grade:
			return a.grade < b.grade
		case a.term != b.term:
			return a.term < b.term
		case a.area != b.area:
			return a.area < b.area
		case a.title != b.title:
			return a.title < b.title
		default:
			return !a.major && b.major
		}
	})

	out := make([]models.EnrollmentCount, 0, len(keys))
	for _, k := range keys {
		row := models.EnrollmentCount{
			GradeLevel:   k.grade,
			Term:         k.term,
			SubjectArea:  k.area,
			SubjectTitle: k.title,
			Count:        counts[k],
		}
		if filter.GroupByMajor {
			major := k.major
			row.IsMajor = &major
		}
		out = append(out, row)
	}
	return out
}

// PDF core fonts cannot draw the major marker glyph.
const pdfMajorMarker = "yes"

func summaryDataset(counts []models.EnrollmentCount, withMajor bool, marker string) export.Dataset {
	headers := []string{"grade_level", "term", "subject_area", "subject_title"}
	if withMajor {
		headers = append(headers, "is_major")
	}
	headers = append(headers, "count")

	rows := make([]map[string]string, 0, len(counts))
	for _, c := range counts {
		row := map[string]string{
			"grade_level":   string(c.GradeLevel),
			"term":          string(c.Term),
			"subject_area":  c.SubjectArea,
			"subject_title": c.SubjectTitle,
			"count":         strconv.Itoa(c.Count),
		}
		if withMajor && c.IsMajor != nil && *c.IsMajor {
			row["is_major"] = marker
		}
		rows = append(rows, row)
	}
	return export.Dataset{Headers: headers, Rows: rows}
}
