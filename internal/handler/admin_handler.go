package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-course-registration/internal/dto"
	"github.com/noah-isme/sma-course-registration/internal/models"
	"github.com/noah-isme/sma-course-registration/internal/service"
	appErrors "github.com/noah-isme/sma-course-registration/pkg/errors"
	"github.com/noah-isme/sma-course-registration/pkg/response"
)

type adminRecordService interface {
	ListRecords(ctx context.Context, filter models.RecordFilter) ([]models.SubmissionRecord, *models.Pagination, error)
	ReplaceRecords(ctx context.Context, records []models.SubmissionRecord) error
}

type adminReportService interface {
	Summary(ctx context.Context, filter models.SummaryFilter) []models.EnrollmentCount
	ExportRecordsCSV(ctx context.Context) (*service.ExportResult, error)
	ExportSummaryCSV(ctx context.Context, filter models.SummaryFilter) (*service.ExportResult, error)
	ExportSummaryPDF(ctx context.Context, filter models.SummaryFilter) (*service.ExportResult, error)
}

// AdminHandler exposes the administrator record table, summary and downloads.
type AdminHandler struct {
	records adminRecordService
	reports adminReportService
}

// NewAdminHandler constructs AdminHandler.
func NewAdminHandler(records adminRecordService, reports adminReportService) *AdminHandler {
	return &AdminHandler{records: records, reports: reports}
}

// ListRecords godoc
// @Summary List stored submission rows
// @Tags Admin
// @Produce json
// @Param student_id query string false "Filter by student id"
// @Param grade_level query string false "Filter by grade level"
// @Param term query string false "Filter by term"
// @Param major_only query bool false "Only major subjects"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /admin/records [get]
func (h *AdminHandler) ListRecords(c *gin.Context) {
	filter := models.RecordFilter{
		StudentID:  c.Query("student_id"),
		GradeLevel: models.GradeLevel(c.Query("grade_level")),
		Term:       models.Term(c.Query("term")),
		MajorOnly:  queryBool(c, "major_only"),
		Page:       queryInt(c, "page", 1),
		PageSize:   queryInt(c, "limit", 0),
	}
	records, pagination, err := h.records.ListRecords(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, pagination)
}

// ReplaceRecords godoc
// @Summary Replace the whole record table with an edited copy
// @Tags Admin
// @Accept json
// @Produce json
// @Param payload body dto.ReplaceRecordsRequest true "Edited records"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /admin/records [put]
func (h *AdminHandler) ReplaceRecords(c *gin.Context) {
	var req dto.ReplaceRecordsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.WrapAs(appErrors.ErrInvalidInput, err, "invalid payload"))
		return
	}
	if req.Records == nil {
		req.Records = []models.SubmissionRecord{}
	}
	if err := h.records.ReplaceRecords(c.Request.Context(), req.Records); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.ReplaceRecordsResponse{Count: len(req.Records)}, nil)
}

// Summary godoc
// @Summary Per-subject enrollment counts
// @Tags Admin
// @Produce json
// @Param grade_level query string false "Filter by grade level"
// @Param term query string false "Filter by term"
// @Param major_only query bool false "Only major subjects"
// @Param group_by_major query bool false "Split counts by the major flag"
// @Success 200 {object} response.Envelope
// @Router /admin/summary [get]
func (h *AdminHandler) Summary(c *gin.Context) {
	filter, ok := h.summaryFilter(c)
	if !ok {
		return
	}
	counts := h.reports.Summary(c.Request.Context(), filter)
	total := 0
	for _, row := range counts {
		total += row.Count
	}
	response.JSON(c, http.StatusOK, counts, nil, map[string]interface{}{"total": total})
}

// ExportRecords godoc
// @Summary Download every stored row as CSV
// @Tags Admin
// @Produce text/csv
// @Success 200 {file} file
// @Router /admin/exports/records [get]
func (h *AdminHandler) ExportRecords(c *gin.Context) {
	result, err := h.reports.ExportRecordsCSV(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, result.Filename, result.ContentType, result.Data)
}

// ExportSummary godoc
// @Summary Download the enrollment summary
// @Tags Admin
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv (default) or pdf"
// @Success 200 {file} file
// @Router /admin/exports/summary [get]
func (h *AdminHandler) ExportSummary(c *gin.Context) {
	filter, ok := h.summaryFilter(c)
	if !ok {
		return
	}
	var (
		result *service.ExportResult
		err    error
	)
	switch strings.ToLower(c.DefaultQuery("format", "csv")) {
	case "csv":
		result, err = h.reports.ExportSummaryCSV(c.Request.Context(), filter)
	case "pdf":
		result, err = h.reports.ExportSummaryPDF(c.Request.Context(), filter)
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrInvalidInput, "format must be csv or pdf"))
		return
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, result.Filename, result.ContentType, result.Data)
}

func (h *AdminHandler) summaryFilter(c *gin.Context) (models.SummaryFilter, bool) {
	filter := summaryFilterFromQuery(c)
	if filter.GradeLevel != "" && !filter.GradeLevel.Valid() {
		response.Error(c, appErrors.Clone(appErrors.ErrInvalidInput, "invalid grade_level filter"))
		return filter, false
	}
	if filter.Term != "" && !filter.Term.Valid() {
		response.Error(c, appErrors.Clone(appErrors.ErrInvalidInput, "invalid term filter"))
		return filter, false
	}
	return filter, true
}
