package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-course-registration/internal/models"
)

func TestDefaultCatalog(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	assert.Len(t, c.Subjects(models.GradeSecondYear), 9)
	assert.Len(t, c.Subjects(models.GradeThirdYear), 24)

	ai, ok := c.Lookup("y2-s2-general-ai")
	require.True(t, ok)
	assert.Equal(t, models.SubjectGeneralAI, ai.Title)
	assert.Equal(t, models.GradeSecondYear, ai.GradeLevel)
	assert.True(t, ai.IsMajor)

	majors := 0
	for _, s := range c.Subjects(models.GradeThirdYear) {
		if s.IsMajor {
			majors++
		}
	}
	assert.Equal(t, 11, majors)
}

func TestResolveKeepsOrderAndReportsUnknown(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	subjects, unknown := c.Resolve([]string{"y3-s2-chinese", "nope", "y3-s1-chinese"})
	require.Len(t, subjects, 2)
	assert.Equal(t, models.TermSecond, subjects[0].Term)
	assert.Equal(t, models.TermFirst, subjects[1].Term)
	assert.Equal(t, []string{"nope"}, unknown)
}

func TestOfferingsMarkTermAvailability(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	for _, row := range c.Offerings(models.GradeThirdYear) {
		assert.NotEqual(t, row.FirstTermOffered, row.SecondTermOffered, row.Code)
		assert.Equal(t, row.Term == models.TermFirst, row.FirstTermOffered, row.Code)
	}
}

func TestParseRejectsDuplicateOffering(t *testing.T) {
	doc := []byte(`
offerings:
  - grade_level: third-year
    subjects:
      - {code: a, subject_area: Science, track_type: general, title: Physics, credits: 4, term: first-term}
      - {code: b, subject_area: Science, track_type: general, title: Physics, credits: 3, term: first-term}
`)
	_, err := Parse(doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicates")
}

func TestParseAllowsSameTitleInOtherTerm(t *testing.T) {
	doc := []byte(`
offerings:
  - grade_level: third-year
    subjects:
      - {code: a, subject_area: Science, track_type: general, title: Physics, credits: 4, term: first-term}
      - {code: b, subject_area: Science, track_type: general, title: Physics, credits: 4, term: second-term}
`)
	c, err := Parse(doc)
	require.NoError(t, err)
	assert.Len(t, c.All(), 2)
}

func TestParseRejectsInvalidEntries(t *testing.T) {
	cases := map[string]string{
		"zero credits":  `{code: a, subject_area: Science, track_type: general, title: X, credits: 0, term: first-term}`,
		"unknown term":  `{code: a, subject_area: Science, track_type: general, title: X, credits: 2, term: summer}`,
		"unknown track": `{code: a, subject_area: Science, track_type: elective, title: X, credits: 2, term: first-term}`,
		"missing code":  `{subject_area: Science, track_type: general, title: X, credits: 2, term: first-term}`,
	}
	for name, entry := range cases {
		t.Run(name, func(t *testing.T) {
			doc := []byte("offerings:\n  - grade_level: second-year\n    subjects:\n      - " + entry + "\n")
			_, err := Parse(doc)
			assert.Error(t, err)
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
offerings:
  - grade_level: second-year
    subjects:
      - {code: art, subject_area: Arts, track_type: general, title: Art, credits: 3, term: second-term}
`), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	require.Len(t, c.All(), 1)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
