package dto

import "github.com/noah-isme/sma-course-registration/internal/models"

// SubmitSelectionRequest captures POST /registrations payload.
type SubmitSelectionRequest struct {
	StudentID    string            `json:"student_id" validate:"required"`
	StudentName  string            `json:"student_name" validate:"required"`
	GradeLevel   models.GradeLevel `json:"grade_level" validate:"required,oneof=second-year third-year"`
	SubjectCodes []string          `json:"subject_codes"`
}

// ValidateSelectionRequest captures POST /registrations/validate payload.
type ValidateSelectionRequest struct {
	GradeLevel   models.GradeLevel `json:"grade_level" validate:"required,oneof=second-year third-year"`
	SubjectCodes []string          `json:"subject_codes"`
}

// SelectionTotals summarises the effective selection.
type SelectionTotals struct {
	SubjectCount int `json:"subject_count"`
	TotalCredits int `json:"total_credits"`
	MajorCount   int `json:"major_count"`
}

// EligibilityResponse reports the verdict of a dry-run validation.
type EligibilityResponse struct {
	Accepted bool             `json:"accepted"`
	Message  string           `json:"message"`
	Rule     string           `json:"rule,omitempty"`
	Totals   SelectionTotals  `json:"totals"`
	Subjects []models.Subject `json:"subjects"`
}

// SubmissionResponse is returned after a selection is stored.
type SubmissionResponse struct {
	StudentID   string                    `json:"student_id"`
	StudentName string                    `json:"student_name"`
	GradeLevel  models.GradeLevel         `json:"grade_level"`
	Message     string                    `json:"message"`
	SubmittedAt string                    `json:"submitted_at"`
	Totals      SelectionTotals           `json:"totals"`
	Records     []models.SubmissionRecord `json:"records"`
}

// CatalogResponse lists the offerings for one grade level.
type CatalogResponse struct {
	GradeLevel models.GradeLevel    `json:"grade_level"`
	Offerings  []models.OfferingRow `json:"offerings"`
	Subjects   []models.Subject     `json:"subjects"`
}

// ReplaceRecordsRequest captures PUT /admin/records payload.
type ReplaceRecordsRequest struct {
	Records []models.SubmissionRecord `json:"records" validate:"dive"`
}

// ReplaceRecordsResponse reports the outcome of a bulk replace.
type ReplaceRecordsResponse struct {
	Count int `json:"count"`
}
