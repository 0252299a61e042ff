// Package catalog loads the fixed subject offerings that students choose from.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/noah-isme/sma-course-registration/internal/models"
)

//go:embed catalog.yaml
var defaultDocument []byte

type document struct {
	Offerings []gradeOfferings `yaml:"offerings"`
}

type gradeOfferings struct {
	GradeLevel models.GradeLevel `yaml:"grade_level"`
	Subjects   []models.Subject  `yaml:"subjects"`
}

type offeringKey struct {
	grade models.GradeLevel
	area  string
	track models.TrackType
	title string
	term  models.Term
}

// Catalog is the immutable set of offerings, partitioned by grade level.
type Catalog struct {
	subjects []models.Subject
	byCode   map[string]models.Subject
}

// Default returns the built-in catalog.
func Default() (*Catalog, error) {
	return Parse(defaultDocument)
}

// Load reads the catalog document at path, or the built-in catalog when path is empty.
func Load(path string) (*Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes and checks a catalog document.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return New(flatten(doc))
}

func flatten(doc document) []models.Subject {
	var subjects []models.Subject
	for _, group := range doc.Offerings {
		for _, s := range group.Subjects {
			if s.GradeLevel == "" {
				s.GradeLevel = group.GradeLevel
			}
			subjects = append(subjects, s)
		}
	}
	return subjects
}

// New builds a catalog from subjects, rejecting invalid enumerations, duplicate codes and
// duplicate (subject_area, track_type, title, term) offerings within a grade level.
func New(subjects []models.Subject) (*Catalog, error) {
	c := &Catalog{byCode: make(map[string]models.Subject, len(subjects))}
	seen := make(map[offeringKey]string, len(subjects))
	for i, s := range subjects {
		if err := check(s); err != nil {
			return nil, fmt.Errorf("catalog entry %d (%s): %w", i, s.Code, err)
		}
		if _, dup := c.byCode[s.Code]; dup {
			return nil, fmt.Errorf("duplicate subject code %q", s.Code)
		}
		key := offeringKey{grade: s.GradeLevel, area: s.SubjectArea, track: s.TrackType, title: s.Title, term: s.Term}
		if other, dup := seen[key]; dup {
			return nil, fmt.Errorf("subject %q duplicates %q in %s", s.Code, other, s.GradeLevel)
		}
		seen[key] = s.Code
		c.byCode[s.Code] = s
		c.subjects = append(c.subjects, s)
	}
	sortSubjects(c.subjects)
	return c, nil
}

func check(s models.Subject) error {
	switch {
	case strings.TrimSpace(s.Code) == "":
		return fmt.Errorf("code is required")
	case strings.TrimSpace(s.Title) == "":
		return fmt.Errorf("title is required")
	case strings.TrimSpace(s.SubjectArea) == "":
		return fmt.Errorf("subject_area is required")
	case s.Credits <= 0:
		return fmt.Errorf("credits must be positive, got %d", s.Credits)
	case !s.GradeLevel.Valid():
		return fmt.Errorf("unknown grade level %q", s.GradeLevel)
	case !s.Term.Valid():
		return fmt.Errorf("unknown term %q", s.Term)
	case !s.TrackType.Valid():
		return fmt.Errorf("unknown track type %q", s.TrackType)
	}
	return nil
}

// sortSubjects orders by grade, area, track, title, then term, matching the published course table.
func sortSubjects(subjects []models.Subject) {
	sort.SliceStable(subjects, func(i, j int) bool {
		a, b := subjects[i], subjects[j]
		if a.GradeLevel != b.GradeLevel {
			return a.GradeLevel < b.GradeLevel
		}
		if a.SubjectArea != b.SubjectArea {
			return a.SubjectArea < b.SubjectArea
		}
		if a.TrackType != b.TrackType {
			return a.TrackType < b.TrackType
		}
		if a.Title != b.Title {
			return a.Title < b.Title
		}
		return a.Term < b.Term
	})
}

// All returns every offering.
func (c *Catalog) All() []models.Subject {
	out := make([]models.Subject, len(c.subjects))
	copy(out, c.subjects)
	return out
}

// Subjects returns the offerings for one grade level.
func (c *Catalog) Subjects(grade models.GradeLevel) []models.Subject {
	var out []models.Subject
	for _, s := range c.subjects {
		if s.GradeLevel == grade {
			out = append(out, s)
		}
	}
	return out
}

// Lookup finds a subject by code.
func (c *Catalog) Lookup(code string) (models.Subject, bool) {
	s, ok := c.byCode[strings.TrimSpace(code)]
	return s, ok
}

// Resolve maps codes to subjects, preserving request order. Unknown codes are returned separately.
func (c *Catalog) Resolve(codes []string) ([]models.Subject, []string) {
	subjects := make([]models.Subject, 0, len(codes))
	var unknown []string
	for _, code := range codes {
		s, ok := c.Lookup(code)
		if !ok {
			unknown = append(unknown, code)
			continue
		}
		subjects = append(subjects, s)
	}
	return subjects, unknown
}

// Offerings renders the course table for a grade level with term availability flags.
func (c *Catalog) Offerings(grade models.GradeLevel) []models.OfferingRow {
	subjects := c.Subjects(grade)
	rows := make([]models.OfferingRow, 0, len(subjects))
	for _, s := range subjects {
		rows = append(rows, models.OfferingRow{
			Subject:           s,
			FirstTermOffered:  s.Term == models.TermFirst,
			SecondTermOffered: s.Term == models.TermSecond,
		})
	}
	return rows
}
