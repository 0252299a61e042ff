package repository

import (
	"context"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-course-registration/internal/models"
	"github.com/noah-isme/sma-course-registration/pkg/export"
	"github.com/noah-isme/sma-course-registration/pkg/storage"
)

// CSVSubmissionRepository keeps every submission row in a single CSV file. Each write loads the whole
// file, edits it in memory and atomically replaces it; nothing is cached between calls.
type CSVSubmissionRepository struct {
	files    *storage.LocalStorage
	filename string
	codec    *export.CSVExporter
	logger   *zap.Logger
}

// NewCSVSubmissionRepository constructs the repository for the file at path.
func NewCSVSubmissionRepository(path string, logger *zap.Logger) (*CSVSubmissionRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	files, err := storage.NewLocalStorage(filepath.Dir(path))
	if err != nil {
		return nil, err
	}
	return &CSVSubmissionRepository{
		files:    files,
		filename: filepath.Base(path),
		codec:    export.NewCSVExporter(true),
		logger:   logger,
	}, nil
}

// Path returns the location of the backing file.
func (r *CSVSubmissionRepository) Path() string {
	return r.files.Path(r.filename)
}

// LoadAll returns every stored row. A missing or blank file is an empty store; an unparseable file is
// reported as an error so callers can decide whether to fall back.
func (r *CSVSubmissionRepository) LoadAll(ctx context.Context) ([]models.SubmissionRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := r.files.Read(r.filename)
	if err != nil {
		if errors.Is(err, storage.ErrNotExist) {
			return []models.SubmissionRecord{}, nil
		}
		return nil, err
	}
	data, err := r.codec.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", r.filename, err)
	}
	records := make([]models.SubmissionRecord, 0, len(data.Rows))
	for _, row := range data.Rows {
		records = append(records, decodeRecord(row))
	}
	return records, nil
}

// Upsert drops every row stored for key and appends records in their place.
func (r *CSVSubmissionRepository) Upsert(ctx context.Context, key models.SubmissionKey, records []models.SubmissionRecord) error {
	current, err := r.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("load existing submissions: %w", err)
	}
	next := make([]models.SubmissionRecord, 0, len(current)+len(records))
	removed := 0
	for _, rec := range current {
		if key.Matches(rec.Key()) {
			removed++
			continue
		}
		next = append(next, rec)
	}
	next = append(next, records...)
	if err := r.write(ctx, next); err != nil {
		return err
	}
	r.logger.Debug("submission rows replaced",
		zap.String("student_id", key.StudentID),
		zap.String("grade_level", string(key.GradeLevel)),
		zap.Int("removed", removed),
		zap.Int("inserted", len(records)),
	)
	return nil
}

// ReplaceAll overwrites the file with records.
func (r *CSVSubmissionRepository) ReplaceAll(ctx context.Context, records []models.SubmissionRecord) error {
	return r.write(ctx, records)
}

func (r *CSVSubmissionRepository) write(ctx context.Context, records []models.SubmissionRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	raw, err := r.codec.Render(EncodeRecords(records))
	if err != nil {
		return err
	}
	if _, err := r.files.Save(r.filename, raw); err != nil {
		return err
	}
	return nil
}

// EncodeRecords converts records into the backing medium's tabular layout.
func EncodeRecords(records []models.SubmissionRecord) export.Dataset {
	rows := make([]map[string]string, 0, len(records))
	for _, rec := range records {
		marker := ""
		if rec.IsMajor {
			marker = models.MajorMarker
		}
		rows = append(rows, map[string]string{
			"student_id":    rec.StudentID,
			"student_name":  rec.StudentName,
			"grade_level":   string(rec.GradeLevel),
			"subject_title": rec.SubjectTitle,
			"credits":       strconv.Itoa(rec.Credits),
			"term":          string(rec.Term),
			"subject_area":  rec.SubjectArea,
			"track_type":    string(rec.TrackType),
			"is_major":      marker,
			"submitted_at":  rec.SubmittedAt,
		})
	}
	return export.Dataset{Headers: models.SubmissionColumns, Rows: rows}
}

// decodeRecord maps one row, backfilling absent columns with zero values.
func decodeRecord(row map[string]string) models.SubmissionRecord {
	return models.SubmissionRecord{
		StudentID:    row["student_id"],
		StudentName:  row["student_name"],
		GradeLevel:   models.GradeLevel(row["grade_level"]),
		SubjectTitle: row["subject_title"],
		Credits:      parseCredits(row["credits"]),
		Term:         models.Term(row["term"]),
		SubjectArea:  row["subject_area"],
		TrackType:    models.TrackType(row["track_type"]),
		IsMajor:      strings.TrimSpace(row["is_major"]) != "",
		SubmittedAt:  row["submitted_at"],
	}
}

// parseCredits accepts integer or float text ("4", "4.0"); anything else counts as 0.
func parseCredits(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return int(f)
	}
	return 0
}
