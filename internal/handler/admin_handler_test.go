package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-course-registration/internal/models"
	"github.com/noah-isme/sma-course-registration/internal/service"
)

type adminServiceMock struct {
	lastFilter models.RecordFilter
	replaced   []models.SubmissionRecord
	err        error
}

func (m *adminServiceMock) ListRecords(ctx context.Context, filter models.RecordFilter) ([]models.SubmissionRecord, *models.Pagination, error) {
	m.lastFilter = filter
	return []models.SubmissionRecord{{StudentID: "30101"}}, &models.Pagination{Page: filter.Page, PageSize: 50, TotalCount: 1}, m.err
}

func (m *adminServiceMock) ReplaceRecords(ctx context.Context, records []models.SubmissionRecord) error {
	m.replaced = records
	return m.err
}

type reportServiceMock struct {
	lastFilter models.SummaryFilter
	pdfCalled  bool
}

func (m *reportServiceMock) Summary(ctx context.Context, filter models.SummaryFilter) []models.EnrollmentCount {
	m.lastFilter = filter
	return []models.EnrollmentCount{{SubjectTitle: "Art", Count: 3}, {SubjectTitle: "Chinese", Count: 2}}
}

func (m *reportServiceMock) ExportRecordsCSV(ctx context.Context) (*service.ExportResult, error) {
	return &service.ExportResult{Filename: "course_applications.csv", ContentType: "text/csv; charset=utf-8", Data: []byte("student_id\n")}, nil
}

func (m *reportServiceMock) ExportSummaryCSV(ctx context.Context, filter models.SummaryFilter) (*service.ExportResult, error) {
	m.lastFilter = filter
	return &service.ExportResult{Filename: "summary.csv", ContentType: "text/csv; charset=utf-8", Data: []byte("count\n")}, nil
}

func (m *reportServiceMock) ExportSummaryPDF(ctx context.Context, filter models.SummaryFilter) (*service.ExportResult, error) {
	m.pdfCalled = true
	return &service.ExportResult{Filename: "summary.pdf", ContentType: "application/pdf", Data: []byte("%PDF-1.3")}, nil
}

func TestAdminHandlerListRecordsParsesFilter(t *testing.T) {
	records := &adminServiceMock{}
	handler := NewAdminHandler(records, &reportServiceMock{})

	c, w := getRequest(t, "/admin/records?grade_level=third-year&term=first-term&major_only=true&page=2&limit=10&student_id=30101")
	handler.ListRecords(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.GradeThirdYear, records.lastFilter.GradeLevel)
	assert.Equal(t, models.TermFirst, records.lastFilter.Term)
	assert.True(t, records.lastFilter.MajorOnly)
	assert.Equal(t, 2, records.lastFilter.Page)
	assert.Equal(t, 10, records.lastFilter.PageSize)
	assert.Contains(t, w.Body.String(), `"total_count":1`)
}

func TestAdminHandlerReplaceRecords(t *testing.T) {
	records := &adminServiceMock{}
	handler := NewAdminHandler(records, &reportServiceMock{})

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPut, "/admin/records", bytes.NewBufferString(`{"records":[{"student_id":"30101","student_name":"Lee","grade_level":"third-year","subject_title":"Chinese","credits":4}]}`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.ReplaceRecords(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, records.replaced, 1)
	assert.Equal(t, 4, records.replaced[0].Credits)
	assert.Contains(t, w.Body.String(), `"count":1`)
}

func TestAdminHandlerSummary(t *testing.T) {
	reports := &reportServiceMock{}
	handler := NewAdminHandler(&adminServiceMock{}, reports)

	c, w := getRequest(t, "/admin/summary?grade_level=second-year&group_by_major=1")
	handler.Summary(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, reports.lastFilter.GroupByMajor)
	assert.Contains(t, w.Body.String(), `"total":5`)
}

func TestAdminHandlerSummaryRejectsBadTerm(t *testing.T) {
	handler := NewAdminHandler(&adminServiceMock{}, &reportServiceMock{})

	c, w := getRequest(t, "/admin/summary?term=summer")
	handler.Summary(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminHandlerExports(t *testing.T) {
	reports := &reportServiceMock{}
	handler := NewAdminHandler(&adminServiceMock{}, reports)

	c, w := getRequest(t, "/admin/exports/records")
	handler.ExportRecords(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="course_applications.csv"`, w.Header().Get("Content-Disposition"))

	c, w = getRequest(t, "/admin/exports/summary?format=pdf")
	handler.ExportSummary(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, reports.pdfCalled)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))

	c, w = getRequest(t, "/admin/exports/summary?format=xlsx")
	handler.ExportSummary(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
