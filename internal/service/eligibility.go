package service

import (
	"fmt"

	"github.com/noah-isme/sma-course-registration/internal/models"
)

// Third-year registration thresholds.
const (
	MinMajorSubjects      = 8
	MinThirdYearCredits   = 30
	minInfoForeignWithAI  = 1
	minInfoForeignDefault = 2
)

// Rule identifiers reported with a rejection.
const (
	RuleNone               = ""
	RuleEmptySelection     = "EMPTY_SELECTION"
	RuleEmptyForGrade      = "EMPTY_FOR_GRADE"
	RuleSocialStudies      = "SOCIAL_STUDIES_REQUIRED"
	RuleInfoForeignWithAI  = "INFO_FOREIGN_WITH_AI"
	RuleInfoForeign        = "INFO_FOREIGN_REQUIRED"
	RuleMajorQuota         = "MAJOR_QUOTA"
	RuleMinimumCredits     = "MINIMUM_CREDITS"
	EligibilityAcceptedMsg = "The selection satisfies all registration requirements."
)

// EligibilityResult is the outcome of ValidateSelection.
type EligibilityResult struct {
	Accepted bool   `json:"accepted"`
	Message  string `json:"message"`
	Rule     string `json:"rule,omitempty"`
	// Effective is the part of the selection that belongs to the target grade level.
	Effective []models.Subject `json:"-"`
}

func reject(rule, message string, effective []models.Subject) EligibilityResult {
	return EligibilityResult{Accepted: false, Message: message, Rule: rule, Effective: effective}
}

// EffectiveSelection keeps only the subjects offered to grade, in input order.
func EffectiveSelection(selection []models.Subject, grade models.GradeLevel) []models.Subject {
	effective := make([]models.Subject, 0, len(selection))
	for _, s := range selection {
		if s.GradeLevel == grade {
			effective = append(effective, s)
		}
	}
	return effective
}

// ValidateSelection checks a selection against the registration rules for grade and reports the first
// rule that fails. It only counts and sums over the selection, so permuting the input never changes
// the outcome.
func ValidateSelection(selection []models.Subject, grade models.GradeLevel) EligibilityResult {
	if len(selection) == 0 {
		return reject(RuleEmptySelection, "At least one subject must be selected.", nil)
	}
	effective := EffectiveSelection(selection, grade)
	if len(effective) == 0 {
		return reject(RuleEmptyForGrade, fmt.Sprintf("At least one %s subject must be selected.", grade), effective)
	}

	if grade == models.GradeThirdYear {
		if result, ok := checkThirdYear(effective); !ok {
			return result
		}
	}

	return EligibilityResult{Accepted: true, Message: EligibilityAcceptedMsg, Effective: effective}
}

func checkThirdYear(effective []models.Subject) (EligibilityResult, bool) {
	var (
		socialStudies int
		infoForeign   int
		majors        int
		credits       int
		aiSelected    bool
	)
	for _, s := range effective {
		// The AI subject is the trigger for the relaxed requirement, not one of the subjects satisfying it.
		if s.Title == models.SubjectGeneralAI {
			aiSelected = true
		} else if s.SubjectArea == models.AreaInformation || s.SubjectArea == models.AreaSecondLanguage {
			infoForeign++
		}
		if s.SubjectArea == models.AreaSocialStudies {
			socialStudies++
		}
		if s.IsMajor {
			majors++
		}
		credits += s.Credits
	}

	if socialStudies == 0 {
		return reject(RuleSocialStudies, "Third year: at least one Social Studies subject must be selected.", effective), false
	}
	if aiSelected && infoForeign < minInfoForeignWithAI {
		return reject(RuleInfoForeignWithAI, fmt.Sprintf("Third year: selecting '%s' requires at least %d Information/Technology or Second-Language subject.", models.SubjectGeneralAI, minInfoForeignWithAI), effective), false
	}
	if !aiSelected && infoForeign < minInfoForeignDefault {
		return reject(RuleInfoForeign, fmt.Sprintf("Third year: at least %d Information/Technology or Second-Language subjects must be selected.", minInfoForeignDefault), effective), false
	}
	if majors < MinMajorSubjects {
		return reject(RuleMajorQuota, fmt.Sprintf("Third year: at least %d major subjects must be selected.", MinMajorSubjects), effective), false
	}
	if credits < MinThirdYearCredits {
		return reject(RuleMinimumCredits, fmt.Sprintf("Third year: at least %d credits must be selected. (currently %d credits)", MinThirdYearCredits, credits), effective), false
	}
	return EligibilityResult{}, true
}
