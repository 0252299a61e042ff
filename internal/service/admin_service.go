package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-course-registration/internal/models"
	appErrors "github.com/noah-isme/sma-course-registration/pkg/errors"
)

const (
	defaultRecordPageSize = 50
	maxRecordPageSize     = 500
)

// AdminService exposes the stored record table to administrators.
type AdminService struct {
	store     submissionStore
	guard     writeGuard
	validator *validator.Validate
	metrics   submissionMetrics
	logger    *zap.Logger
}

// NewAdminService constructs the admin service.
func NewAdminService(store submissionStore, guard writeGuard, validate *validator.Validate, metrics submissionMetrics, logger *zap.Logger) *AdminService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if guard == nil {
		guard = NewWriteGuard(nil, 0, logger)
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &AdminService{store: store, guard: guard, validator: validate, metrics: metrics, logger: logger}
}

// ListRecords returns one page of stored records matching filter, in storage order.
func (s *AdminService) ListRecords(ctx context.Context, filter models.RecordFilter) ([]models.SubmissionRecord, *models.Pagination, error) {
	if filter.GradeLevel != "" && !filter.GradeLevel.Valid() {
		return nil, nil, appErrors.Clone(appErrors.ErrInvalidInput, "invalid grade_level filter")
	}
	if filter.Term != "" && !filter.Term.Valid() {
		return nil, nil, appErrors.Clone(appErrors.ErrInvalidInput, "invalid term filter")
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = defaultRecordPageSize
	}
	if filter.PageSize > maxRecordPageSize {
		filter.PageSize = maxRecordPageSize
	}

	all := loadRecords(ctx, s.store, s.metrics, s.logger)
	matched := make([]models.SubmissionRecord, 0, len(all))
	for _, r := range all {
		if filter.Match(r) {
			matched = append(matched, r)
		}
	}

	start := (filter.Page - 1) * filter.PageSize
	if start > len(matched) {
		start = len(matched)
	}
	end := start + filter.PageSize
	if end > len(matched) {
		end = len(matched)
	}

	return matched[start:end], &models.Pagination{
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalCount: len(matched),
	}, nil
}

// ReplaceRecords overwrites the whole table with an edited copy. Every row must carry a student id and
// name; nothing is written when any row fails.
func (s *AdminService) ReplaceRecords(ctx context.Context, edited []models.SubmissionRecord) error {
	records := make([]models.SubmissionRecord, len(edited))
	for i, rec := range edited {
		rec.StudentID = strings.TrimSpace(rec.StudentID)
		rec.StudentName = strings.TrimSpace(rec.StudentName)
		records[i] = rec
		if err := s.validator.Struct(rec); err != nil {
			return appErrors.WithDetails(
				appErrors.WrapAs(appErrors.ErrInvalidInput, err, fmt.Sprintf("row %d: student_id and student_name are required", i+1)),
				map[string]interface{}{"row": i + 1},
			)
		}
	}

	err := s.guard.Do(ctx, func(ctx context.Context) error {
		start := time.Now()
		err := s.store.ReplaceAll(ctx, records)
		s.metrics.ObserveStoreOperation("replace_all", err, time.Since(start))
		return err
	})
	if err != nil {
		s.logger.Error("failed to replace submission records", zap.Int("rows", len(records)), zap.Error(err))
		return appErrors.WrapAs(appErrors.ErrStoreWrite, err, "failed to save edited records")
	}
	s.logger.Info("submission records replaced", zap.Int("rows", len(records)))
	return nil
}
