package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-course-registration/internal/models"
	"github.com/noah-isme/sma-course-registration/internal/repository"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func seedStore(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "course_applications.csv")
	repo, err := repository.NewCSVSubmissionRepository(path, nil)
	require.NoError(t, err)

	subjects := []models.Subject{
		{Title: "Chinese", SubjectArea: models.AreaSecondLanguage, TrackType: models.TrackGeneral, Credits: 4, Term: models.TermFirst, GradeLevel: models.GradeThirdYear},
		{Title: "Geometry", SubjectArea: models.AreaMathematics, TrackType: models.TrackCareer, Credits: 4, Term: models.TermSecond, GradeLevel: models.GradeThirdYear},
	}
	ts := time.Date(2025, 3, 2, 9, 30, 0, 0, time.UTC)
	for _, id := range []string{"30101", "30102"} {
		key := models.SubmissionKey{StudentID: id, GradeLevel: models.GradeThirdYear}
		require.NoError(t, repo.Upsert(context.Background(), key, models.NewSubmissionRecords(id, "Student "+id, models.GradeThirdYear, subjects, ts)))
	}
	return path
}

func TestCatalogCommand(t *testing.T) {
	out, err := run(t, "catalog", "--grade", "second-year")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 10)
	assert.True(t, strings.HasPrefix(lines[0], "CODE"))
	assert.Contains(t, out, "y2-s2-general-ai")
}

func TestCatalogCommandRejectsGrade(t *testing.T) {
	_, err := run(t, "catalog", "--grade", "first-year")
	assert.Error(t, err)
}

func TestValidateCommand(t *testing.T) {
	out, err := run(t, "validate", "--grade", "third-year",
		"y3-s1-ap-calculus-1", "y3-s1-ap-physics-1", "y3-s1-ap-chemistry-1", "y3-s1-ap-biology-1",
		"y3-s1-astronomy-seminar", "y3-s1-informatics-project", "y3-s2-discrete-math", "y3-s2-ap-physics-2",
		"y3-s1-social-issues", "y3-s1-chinese")
	require.NoError(t, err)
	assert.Contains(t, out, "credits: 40")

	_, err = run(t, "validate", "--grade", "third-year", "y3-s1-chinese")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SOCIAL_STUDIES_REQUIRED")
}

func TestSummaryCommand(t *testing.T) {
	store := seedStore(t)

	out, err := run(t, "--store", store, "summary", "--term", "first-term")
	require.NoError(t, err)
	assert.Contains(t, out, "Chinese")
	assert.NotContains(t, out, "Geometry")
	assert.Regexp(t, `TOTAL\s+2`, out)
}

func TestExportCommand(t *testing.T) {
	store := seedStore(t)
	dir := t.TempDir()

	pdfPath := filepath.Join(dir, "summary.pdf")
	_, err := run(t, "--store", store, "export", "--what", "summary", "--format", "pdf", "-o", pdfPath)
	require.NoError(t, err)
	raw, err := os.ReadFile(pdfPath)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))

	csvPath := filepath.Join(dir, "records.csv")
	_, err = run(t, "--store", store, "export", "-o", csvPath)
	require.NoError(t, err)
	raw, err = os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(string(raw)), "\n"), 5)

	_, err = run(t, "--store", store, "export", "--what", "everything")
	assert.Error(t, err)
}
