package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-course-registration/internal/dto"
	"github.com/noah-isme/sma-course-registration/internal/models"
	appErrors "github.com/noah-isme/sma-course-registration/pkg/errors"
)

type submissionStore interface {
	LoadAll(ctx context.Context) ([]models.SubmissionRecord, error)
	Upsert(ctx context.Context, key models.SubmissionKey, records []models.SubmissionRecord) error
	ReplaceAll(ctx context.Context, records []models.SubmissionRecord) error
}

type subjectResolver interface {
	Resolve(codes []string) ([]models.Subject, []string)
}

type writeGuard interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

type submissionMetrics interface {
	RecordSubmission(grade, outcome, rule string)
	ObserveStoreOperation(operation string, err error, duration time.Duration)
	RecordStoreReadFallback()
}

// SubmissionService validates course selections and persists accepted ones.
type SubmissionService struct {
	store     submissionStore
	catalog   subjectResolver
	guard     writeGuard
	validator *validator.Validate
	metrics   submissionMetrics
	logger    *zap.Logger
	now       func() time.Time
}

// NewSubmissionService constructs the service. guard and metrics are optional.
func NewSubmissionService(store submissionStore, catalog subjectResolver, guard writeGuard, validate *validator.Validate, metrics submissionMetrics, logger *zap.Logger) *SubmissionService {
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
	return &SubmissionService{
		store:     store,
		catalog:   catalog,
		guard:     guard,
		validator: validate,
		metrics:   metrics,
		logger:    logger,
		now:       time.Now,
	}
}

// Validate runs the eligibility rules without persisting anything.
func (s *SubmissionService) Validate(ctx context.Context, req dto.ValidateSelectionRequest) (*dto.EligibilityResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.WrapAs(appErrors.ErrInvalidInput, err, "grade_level must be second-year or third-year")
	}
	subjects, err := s.resolve(req.SubjectCodes)
	if err != nil {
		return nil, err
	}
	result := ValidateSelection(subjects, req.GradeLevel)
	effective := result.Effective
	if effective == nil {
		effective = []models.Subject{}
	}
	return &dto.EligibilityResponse{
		Accepted: result.Accepted,
		Message:  result.Message,
		Rule:     result.Rule,
		Totals:   selectionTotals(effective),
		Subjects: effective,
	}, nil
}

// Submit validates the selection and, when accepted, replaces the student's rows for the grade level.
func (s *SubmissionService) Submit(ctx context.Context, req dto.SubmitSelectionRequest) (*dto.SubmissionResponse, error) {
	req.StudentID = strings.TrimSpace(req.StudentID)
	req.StudentName = strings.TrimSpace(req.StudentName)
	if err := s.validator.Struct(req); err != nil {
		s.metrics.RecordSubmission(string(req.GradeLevel), OutcomeInvalidInput, "")
		return nil, appErrors.WrapAs(appErrors.ErrInvalidInput, err, "student_id, student_name and a valid grade_level are required")
	}
	subjects, err := s.resolve(req.SubjectCodes)
	if err != nil {
		s.metrics.RecordSubmission(string(req.GradeLevel), OutcomeInvalidInput, "")
		return nil, err
	}

	result := ValidateSelection(subjects, req.GradeLevel)
	if !result.Accepted {
		s.metrics.RecordSubmission(string(req.GradeLevel), OutcomeRejected, result.Rule)
		return nil, appErrors.WithDetails(appErrors.Clone(appErrors.ErrEligibility, result.Message), map[string]interface{}{
			"rule": result.Rule,
		})
	}

	submittedAt := s.now()
	if err := s.Upsert(ctx, req.StudentID, req.StudentName, req.GradeLevel, result.Effective, submittedAt); err != nil {
		s.metrics.RecordSubmission(string(req.GradeLevel), OutcomeStoreFailure, "")
		return nil, err
	}
	s.metrics.RecordSubmission(string(req.GradeLevel), OutcomeAccepted, "")
	s.logger.Info("course selection submitted",
		zap.String("student_id", req.StudentID),
		zap.String("grade_level", string(req.GradeLevel)),
		zap.Int("subjects", len(result.Effective)),
	)

	return &dto.SubmissionResponse{
		StudentID:   req.StudentID,
		StudentName: req.StudentName,
		GradeLevel:  req.GradeLevel,
		Message:     result.Message,
		SubmittedAt: submittedAt.Format(models.SubmittedAtLayout),
		Totals:      selectionTotals(result.Effective),
		Records:     models.NewSubmissionRecords(req.StudentID, req.StudentName, req.GradeLevel, result.Effective, submittedAt),
	}, nil
}

// Upsert replaces every stored row keyed by (studentID, grade) with one row per effective subject.
// A failure leaves the previously stored rows unchanged.
func (s *SubmissionService) Upsert(ctx context.Context, studentID, studentName string, grade models.GradeLevel, effective []models.Subject, submittedAt time.Time) error {
	records := models.NewSubmissionRecords(studentID, studentName, grade, effective, submittedAt)
	key := models.SubmissionKey{StudentID: studentID, GradeLevel: grade}

	err := s.guard.Do(ctx, func(ctx context.Context) error {
		start := time.Now()
		err := s.store.Upsert(ctx, key, records)
		s.metrics.ObserveStoreOperation("upsert", err, time.Since(start))
		return err
	})
	if err != nil {
		s.logger.Error("failed to store submission",
			zap.String("student_id", studentID),
			zap.String("grade_level", string(grade)),
			zap.Error(err),
		)
		return appErrors.WrapAs(appErrors.ErrStoreWrite, err, "")
	}
	return nil
}

// LoadAll returns every stored record. An unreadable store is logged and yields an empty set.
func (s *SubmissionService) LoadAll(ctx context.Context) []models.SubmissionRecord {
	return loadRecords(ctx, s.store, s.metrics, s.logger)
}

func (s *SubmissionService) resolve(codes []string) ([]models.Subject, error) {
	subjects, unknown := s.catalog.Resolve(codes)
	if len(unknown) > 0 {
		return nil, appErrors.WithDetails(
			appErrors.Clone(appErrors.ErrInvalidInput, fmt.Sprintf("unknown subject codes: %s", strings.Join(unknown, ", "))),
			map[string]interface{}{"unknown_codes": unknown},
		)
	}

	// A selection is a set; repeating a code must not count toward the quotas twice.
	seen := make(map[string]bool, len(subjects))
	var duplicates []string
	for _, subject := range subjects {
		if seen[subject.Code] {
			duplicates = append(duplicates, subject.Code)
			continue
		}
		seen[subject.Code] = true
	}
	if len(duplicates) > 0 {
		return nil, appErrors.WithDetails(
			appErrors.Clone(appErrors.ErrInvalidInput, fmt.Sprintf("duplicate subject codes: %s", strings.Join(duplicates, ", "))),
			map[string]interface{}{"duplicate_codes": duplicates},
		)
	}
	return subjects, nil
}

func loadRecords(ctx context.Context, store submissionStore, metrics submissionMetrics, logger *zap.Logger) []models.SubmissionRecord {
	start := time.Now()
	records, err := store.LoadAll(ctx)
	metrics.ObserveStoreOperation("load_all", err, time.Since(start))
	if err != nil {
		metrics.RecordStoreReadFallback()
		logger.Error("submission store unreadable, serving empty record set",
			zap.String("code", appErrors.ErrStoreRead.Code),
			zap.Error(err),
		)
		return []models.SubmissionRecord{}
	}
	if records == nil {
		return []models.SubmissionRecord{}
	}
	return records
}

func selectionTotals(subjects []models.Subject) dto.SelectionTotals {
	totals := dto.SelectionTotals{SubjectCount: len(subjects)}
	for _, s := range subjects {
		totals.TotalCredits += s.Credits
		if s.IsMajor {
			totals.MajorCount++
		}
	}
	return totals
}

type noopMetrics struct{}

func (noopMetrics) RecordSubmission(string, string, string) {}

func (noopMetrics) ObserveStoreOperation(string, error, time.Duration) {}

func (noopMetrics) RecordStoreReadFallback() {}
