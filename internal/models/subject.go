package models

// GradeLevel partitions the catalog and the eligibility rules.
type GradeLevel string

// Supported grade levels.
const (
	GradeSecondYear GradeLevel = "second-year"
	GradeThirdYear  GradeLevel = "third-year"
)

// Valid reports whether g is a known grade level.
func (g GradeLevel) Valid() bool {
	return g == GradeSecondYear || g == GradeThirdYear
}

// Term is the offering window of a subject.
type Term string

// Supported terms.
const (
	TermFirst  Term = "first-term"
	TermSecond Term = "second-term"
)

// Valid reports whether t is a known term.
func (t Term) Valid() bool {
	return t == TermFirst || t == TermSecond
}

// TrackType classifies a subject as general, career-track or fusion.
type TrackType string

// Supported track types.
const (
	TrackGeneral TrackType = "general"
	TrackCareer  TrackType = "career-track"
	TrackFusion  TrackType = "fusion"
)

// Valid reports whether t is a known track type.
func (t TrackType) Valid() bool {
	return t == TrackGeneral || t == TrackCareer || t == TrackFusion
}

// Subject areas referenced by the registration rules. Catalog documents may use other areas too.
const (
	AreaKorean         = "Korean"
	AreaEnglish        = "English"
	AreaMathematics    = "Mathematics"
	AreaScience        = "Science"
	AreaSocialStudies  = "Social Studies"
	AreaInformation    = "Information/Technology"
	AreaSecondLanguage = "Second-Language/Classical-Chinese"
	AreaArts           = "Arts"
)

// SubjectGeneralAI unlocks the relaxed information/second-language requirement for third-year students.
const SubjectGeneralAI = "General Artificial Intelligence"

// Subject is an immutable catalog offering.
type Subject struct {
	Code        string     `json:"code" yaml:"code"`
	SubjectArea string     `json:"subject_area" yaml:"subject_area"`
	TrackType   TrackType  `json:"track_type" yaml:"track_type"`
	Title       string     `json:"title" yaml:"title"`
	Credits     int        `json:"credits" yaml:"credits"`
	Term        Term       `json:"term" yaml:"term"`
	IsMajor     bool       `json:"is_major" yaml:"is_major"`
	GradeLevel  GradeLevel `json:"grade_level" yaml:"grade_level"`
}

// OfferingRow is the tabular catalog view with per-term availability columns.
type OfferingRow struct {
	Subject
	FirstTermOffered  bool `json:"first_term_offered"`
	SecondTermOffered bool `json:"second_term_offered"`
}
