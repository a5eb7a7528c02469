// Package sections detects standard resume headings and pulls simple profile facts out of resume text.
package sections

import (
	"regexp"
	"strings"
)

// Name identifies a resume section.
type Name string

const (
	Contact        Name = "contact"
	Summary        Name = "summary"
	Experience     Name = "experience"
	Education      Name = "education"
	Skills         Name = "skills"
	Projects       Name = "projects"
	Certifications Name = "certifications"
	Achievements   Name = "achievements"
)

// Names lists every detected section in a fixed order.
var Names = []Name{Contact, Summary, Experience, Education, Skills, Projects, Certifications, Achievements}

var patterns = map[Name]*regexp.Regexp{
	Contact:        regexp.MustCompile(`(?i)(email|phone|linkedin|github|address)`),
	Summary:        regexp.MustCompile(`(?i)(summary|objective|profile|about)`),
	Experience:     regexp.MustCompile(`(?i)(experience|employment|work history)`),
	Education:      regexp.MustCompile(`(?i)(education|academic|qualification)`),
	Skills:         regexp.MustCompile(`(?i)(skills|technical skills|competencies)`),
	Projects:       regexp.MustCompile(`(?i)(projects|portfolio)`),
	Certifications: regexp.MustCompile(`(?i)(certifications|certificates|licenses)`),
	Achievements:   regexp.MustCompile(`(?i)(achievements|awards|honors)`),
}

// Presence records which sections a document contains.
type Presence struct {
	Contact        bool `json:"contact"`
	Summary        bool `json:"summary"`
	Experience     bool `json:"experience"`
	Education      bool `json:"education"`
	Skills         bool `json:"skills"`
	Projects       bool `json:"projects"`
	Certifications bool `json:"certifications"`
	Achievements   bool `json:"achievements"`
}

// Detect tests every section pattern against the lowercased text.
func Detect(text string) Presence {
	lower := strings.ToLower(text)

	var p Presence
	for _, name := range Names {
		p.set(name, patterns[name].MatchString(lower))
	}
	return p
}

// Has reports whether the named section is present. Unknown names are absent.
func (p Presence) Has(name Name) bool {
	switch name {
	case Contact:
		return p.Contact
	case Summary:
		return p.Summary
	case Experience:
		return p.Experience
	case Education:
		return p.Education
	case Skills:
		return p.Skills
	case Projects:
		return p.Projects
	case Certifications:
		return p.Certifications
	case Achievements:
		return p.Achievements
	default:
		return false
	}
}

func (p *Presence) set(name Name, present bool) {
	switch name {
	case Contact:
		p.Contact = present
	case Summary:
		p.Summary = present
	case Experience:
		p.Experience = present
	case Education:
		p.Education = present
	case Skills:
		p.Skills = present
	case Projects:
		p.Projects = present
	case Certifications:
		p.Certifications = present
	case Achievements:
		p.Achievements = present
	}
}
