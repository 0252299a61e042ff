package service

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-course-registration/internal/catalog"
	"github.com/noah-isme/sma-course-registration/internal/models"
)

func thirdYear(title, area string, credits int, major bool) models.Subject {
	return models.Subject{
		Code:        title,
		SubjectArea: area,
		TrackType:   models.TrackCareer,
		Title:       title,
		Credits:     credits,
		Term:        models.TermFirst,
		IsMajor:     major,
		GradeLevel:  models.GradeThirdYear,
	}
}

// acceptedThirdYear has 8 majors, 32 credits, one social studies and two information subjects.
func acceptedThirdYear() []models.Subject {
	return []models.Subject{
		thirdYear("Physics", models.AreaScience, 4, true),
		thirdYear("Chemistry", models.AreaScience, 4, true),
		thirdYear("Biology", models.AreaScience, 4, true),
		thirdYear("Astronomy", models.AreaScience, 4, true),
		thirdYear("Calculus", models.AreaMathematics, 4, true),
		thirdYear("Discrete Mathematics", models.AreaMathematics, 4, true),
		thirdYear("Informatics Project", models.AreaInformation, 2, true),
		thirdYear("Data Science", models.AreaInformation, 2, true),
		thirdYear("Social Issues", models.AreaSocialStudies, 4, false),
	}
}

func without(subjects []models.Subject, title string) []models.Subject {
	out := make([]models.Subject, 0, len(subjects))
	for _, s := range subjects {
		if s.Title != title {
			out = append(out, s)
		}
	}
	return out
}

func TestValidateSelectionEmpty(t *testing.T) {
	for _, grade := range []models.GradeLevel{models.GradeSecondYear, models.GradeThirdYear} {
		result := ValidateSelection(nil, grade)
		assert.False(t, result.Accepted)
		assert.Equal(t, RuleEmptySelection, result.Rule)
		assert.NotEmpty(t, result.Message)
	}
}

func TestValidateSelectionOnlyOtherGrade(t *testing.T) {
	selection := []models.Subject{{Title: "Art", SubjectArea: models.AreaArts, Credits: 3, GradeLevel: models.GradeSecondYear}}

	result := ValidateSelection(selection, models.GradeThirdYear)
	assert.False(t, result.Accepted)
	assert.Equal(t, RuleEmptyForGrade, result.Rule)
	assert.Contains(t, result.Message, string(models.GradeThirdYear))
}

func TestValidateSelectionSecondYearAcceptsAnyNonEmpty(t *testing.T) {
	c, err := catalog.Default()
	require.NoError(t, err)

	for _, s := range c.Subjects(models.GradeSecondYear) {
		result := ValidateSelection([]models.Subject{s}, models.GradeSecondYear)
		assert.True(t, result.Accepted, s.Code)
		assert.Equal(t, EligibilityAcceptedMsg, result.Message)
	}
}

func TestValidateSelectionFiltersOtherGrades(t *testing.T) {
	selection := append(acceptedThirdYear(), models.Subject{Title: "Art", Credits: 3, GradeLevel: models.GradeSecondYear})

	result := ValidateSelection(selection, models.GradeThirdYear)
	require.True(t, result.Accepted, result.Message)
	assert.Len(t, result.Effective, len(acceptedThirdYear()))
}

func TestValidateSelectionThirdYearAccepted(t *testing.T) {
	result := ValidateSelection(acceptedThirdYear(), models.GradeThirdYear)
	assert.True(t, result.Accepted, result.Message)
	assert.Equal(t, RuleNone, result.Rule)
}

func TestValidateSelectionSocialStudiesRequired(t *testing.T) {
	result := ValidateSelection(without(acceptedThirdYear(), "Social Issues"), models.GradeThirdYear)
	assert.False(t, result.Accepted)
	assert.Equal(t, RuleSocialStudies, result.Rule)
	assert.Contains(t, result.Message, "Social Studies")
}

func TestValidateSelectionInfoForeignWithoutAI(t *testing.T) {
	selection := without(acceptedThirdYear(), "Data Science")
	selection = append(selection, thirdYear("Geometry", models.AreaMathematics, 4, false))

	result := ValidateSelection(selection, models.GradeThirdYear)
	assert.False(t, result.Accepted)
	assert.Equal(t, RuleInfoForeign, result.Rule)
}

func TestValidateSelectionInfoForeignWithAI(t *testing.T) {
	selection := []models.Subject{
		thirdYear("Physics", models.AreaScience, 4, true),
		thirdYear("Chemistry", models.AreaScience, 4, true),
		thirdYear("Biology", models.AreaScience, 4, true),
		thirdYear("Astronomy", models.AreaScience, 4, true),
		thirdYear("Calculus", models.AreaMathematics, 4, true),
		thirdYear("Discrete Mathematics", models.AreaMathematics, 4, true),
		thirdYear("Earth Science", models.AreaScience, 4, true),
		thirdYear("Statistics", models.AreaMathematics, 4, true),
		thirdYear("Social Issues", models.AreaSocialStudies, 4, false),
		thirdYear(models.SubjectGeneralAI, models.AreaInformation, 3, false),
	}

	result := ValidateSelection(selection, models.GradeThirdYear)
	assert.False(t, result.Accepted)
	assert.Equal(t, RuleInfoForeignWithAI, result.Rule)
	assert.Contains(t, result.Message, models.SubjectGeneralAI)

	selection = append(selection, thirdYear("Japanese", models.AreaSecondLanguage, 4, false))
	result = ValidateSelection(selection, models.GradeThirdYear)
	assert.True(t, result.Accepted, result.Message)
}

func TestValidateSelectionMajorQuota(t *testing.T) {
	selection := []models.Subject{
		thirdYear("Physics", models.AreaScience, 4, true),
		thirdYear("Chemistry", models.AreaScience, 4, true),
		thirdYear("Biology", models.AreaScience, 4, true),
		thirdYear("Astronomy", models.AreaScience, 4, true),
		thirdYear("Calculus", models.AreaMathematics, 4, true),
		thirdYear("Discrete Mathematics", models.AreaMathematics, 4, true),
		thirdYear("Earth Science", models.AreaScience, 4, true),
		thirdYear("Social Issues", models.AreaSocialStudies, 4, false),
		thirdYear("Chinese", models.AreaSecondLanguage, 4, false),
		thirdYear("Japanese", models.AreaSecondLanguage, 4, false),
	}

	result := ValidateSelection(selection, models.GradeThirdYear)
	assert.False(t, result.Accepted)
	assert.Equal(t, RuleMajorQuota, result.Rule)

	selection = append(selection, thirdYear("AP Physics II", models.AreaScience, 4, true))
	result = ValidateSelection(selection, models.GradeThirdYear)
	assert.True(t, result.Accepted, result.Message)
}

func TestValidateSelectionMinimumCredits(t *testing.T) {
	var selection []models.Subject
	for _, title := range []string{"A", "B", "C", "D", "E", "F", "G", "H"} {
		selection = append(selection, thirdYear(title, models.AreaScience, 2, true))
	}
	selection = append(selection,
		thirdYear("Social Issues", models.AreaSocialStudies, 2, false),
		thirdYear("Chinese", models.AreaSecondLanguage, 2, false),
		thirdYear("Japanese", models.AreaSecondLanguage, 2, false),
	)

	result := ValidateSelection(selection, models.GradeThirdYear)
	assert.False(t, result.Accepted)
	assert.Equal(t, RuleMinimumCredits, result.Rule)
	assert.Contains(t, result.Message, "currently 22 credits")
}

func TestValidateSelectionReportsFirstFailureOnly(t *testing.T) {
	// Fails every third-year rule; only the social studies rule is reported.
	selection := []models.Subject{thirdYear("Geometry", models.AreaMathematics, 2, false)}

	result := ValidateSelection(selection, models.GradeThirdYear)
	assert.Equal(t, RuleSocialStudies, result.Rule)
}

func TestValidateSelectionOrderIndependent(t *testing.T) {
	c, err := catalog.Default()
	require.NoError(t, err)

	fixtures := [][]models.Subject{
		acceptedThirdYear(),
		without(acceptedThirdYear(), "Social Issues"),
		c.Subjects(models.GradeThirdYear),
		append(c.Subjects(models.GradeSecondYear), c.Subjects(models.GradeThirdYear)[:5]...),
	}
	rng := rand.New(rand.NewSource(42))
	for _, fixture := range fixtures {
		for _, grade := range []models.GradeLevel{models.GradeSecondYear, models.GradeThirdYear} {
			want := ValidateSelection(fixture, grade)
			for i := 0; i < 20; i++ {
				shuffled := make([]models.Subject, len(fixture))
				copy(shuffled, fixture)
				rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

				got := ValidateSelection(shuffled, grade)
				assert.Equal(t, want.Accepted, got.Accepted)
				assert.Equal(t, want.Rule, got.Rule)
				assert.Equal(t, want.Message, got.Message)
				assert.ElementsMatch(t, want.Effective, got.Effective)
			}
		}
	}
}

func TestValidateSelectionFullThirdYearCatalogIsAccepted(t *testing.T) {
	c, err := catalog.Default()
	require.NoError(t, err)

	result := ValidateSelection(c.Subjects(models.GradeThirdYear), models.GradeThirdYear)
	assert.True(t, result.Accepted, result.Message)
}
