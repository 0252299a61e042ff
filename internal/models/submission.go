package models

import (
	"strings"
	"time"
)

// MajorMarker is written to the is_major column for major subjects; non-major rows leave it empty.
const MajorMarker = "⭕"

// SubmittedAtLayout is the timestamp layout of the submitted_at column.
const SubmittedAtLayout = "2006-01-02 15:04:05"

// SubmissionColumns is the exact header of the backing medium.
var SubmissionColumns = []string{
	"student_id",
	"student_name",
	"grade_level",
	"subject_title",
	"credits",
	"term",
	"subject_area",
	"track_type",
	"is_major",
	"submitted_at",
}

// SubmissionRecord is one persisted (student, grade level, subject) row.
type SubmissionRecord struct {
	StudentID    string     `db:"student_id" json:"student_id" validate:"required"`
	StudentName  string     `db:"student_name" json:"student_name" validate:"required"`
	GradeLevel   GradeLevel `db:"grade_level" json:"grade_level"`
	SubjectTitle string     `db:"subject_title" json:"subject_title"`
	Credits      int        `db:"credits" json:"credits"`
	Term         Term       `db:"term" json:"term"`
	SubjectArea  string     `db:"subject_area" json:"subject_area"`
	TrackType    TrackType  `db:"track_type" json:"track_type"`
	IsMajor      bool       `db:"is_major" json:"is_major"`
	SubmittedAt  string     `db:"submitted_at" json:"submitted_at"`
}

// Key returns the overwrite key of the record.
func (r SubmissionRecord) Key() SubmissionKey {
	return SubmissionKey{StudentID: r.StudentID, GradeLevel: r.GradeLevel}
}

// SubmissionKey identifies the rows replaced by a resubmission.
type SubmissionKey struct {
	StudentID  string
	GradeLevel GradeLevel
}

// Matches compares keys with the student id normalised as trimmed text, so "0123" and " 0123" collide.
func (k SubmissionKey) Matches(other SubmissionKey) bool {
	return NormalizeStudentID(k.StudentID) == NormalizeStudentID(other.StudentID) && k.GradeLevel == other.GradeLevel
}

// NormalizeStudentID returns the comparison form of a student id.
func NormalizeStudentID(id string) string {
	return strings.TrimSpace(id)
}

// NewSubmissionRecords expands an effective selection into one record per subject.
func NewSubmissionRecords(studentID, studentName string, grade GradeLevel, subjects []Subject, submittedAt time.Time) []SubmissionRecord {
	stamp := submittedAt.Format(SubmittedAtLayout)
	records := make([]SubmissionRecord, 0, len(subjects))
	for _, s := range subjects {
		records = append(records, SubmissionRecord{
			StudentID:    studentID,
			StudentName:  studentName,
			GradeLevel:   grade,
			SubjectTitle: s.Title,
			Credits:      s.Credits,
			Term:         s.Term,
			SubjectArea:  s.SubjectArea,
			TrackType:    s.TrackType,
			IsMajor:      s.IsMajor,
			SubmittedAt:  stamp,
		})
	}
	return records
}

// RecordFilter narrows the admin record table and the enrollment summary.
type RecordFilter struct {
	StudentID  string
	GradeLevel GradeLevel
	Term       Term
	MajorOnly  bool
	Page       int
	PageSize   int
}

// Match reports whether r passes every populated filter field.
func (f RecordFilter) Match(r SubmissionRecord) bool {
	if f.StudentID != "" && NormalizeStudentID(r.StudentID) != NormalizeStudentID(f.StudentID) {
		return false
	}
	if f.GradeLevel != "" && r.GradeLevel != f.GradeLevel {
		return false
	}
	if f.Term != "" && r.Term != f.Term {
		return false
	}
	if f.MajorOnly && !r.IsMajor {
		return false
	}
	return true
}

// SummaryFilter configures the per-subject enrollment aggregation.
type SummaryFilter struct {
	GradeLevel   GradeLevel
	Term         Term
	MajorOnly    bool
	GroupByMajor bool
}

// EnrollmentCount is the number of rows sharing one subject group.
type EnrollmentCount struct {
	GradeLevel   GradeLevel `json:"grade_level"`
	Term         Term       `json:"term"`
	SubjectArea  string     `json:"subject_area"`
	SubjectTitle string     `json:"subject_title"`
	IsMajor      *bool      `json:"is_major,omitempty"`
	Count        int        `json:"count"`
}
