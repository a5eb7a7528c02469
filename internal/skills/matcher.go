package skills

import (
	"regexp"
	"strings"
)

type skillPattern struct {
	skill string
	re    *regexp.Regexp
}

// Matcher finds catalog phrases in free text. The pattern table is compiled once
// in NewMatcher and only read afterwards, so one Matcher serves concurrent calls.
type Matcher struct {
	catalog  *Catalog
	patterns []skillPattern
}

// NewMatcher compiles a whole-phrase pattern for every catalog skill.
func NewMatcher(catalog *Catalog) *Matcher {
	m := &Matcher{catalog: catalog}
	for _, skill := range catalog.Skills() {
		m.patterns = append(m.patterns, skillPattern{
			skill: skill,
			re:    regexp.MustCompile(phrasePattern(skill)),
		})
	}
	return m
}

// phrasePattern anchors skill so that it is neither preceded nor followed by a
// word character. Unlike \b this also works for phrases that start or end with
// punctuation such as "c++", "c#" or ".net".
func phrasePattern(skill string) string {
	return `(?:^|[^0-9a-z_])` + regexp.QuoteMeta(skill) + `(?:[^0-9a-z_]|$)`
}

// Catalog returns the catalog the matcher was built from.
func (m *Matcher) Catalog() *Catalog { return m.catalog }

// Extract returns the catalog skills found in raw text. Matching is case-insensitive
// and needs the original punctuation, so text must not be normalized first.
func (m *Matcher) Extract(text string) Set {
	lower := strings.ToLower(text)
	found := make(Set)

	for _, p := range m.patterns {
		if !strings.Contains(lower, p.skill) {
			continue
		}
		if p.re.MatchString(lower) {
			found[p.skill] = struct{}{}
		}
	}

	return found
}

// Gap compares the skills of a resume with those required by a job.
type Gap struct {
	Matched         []string `json:"matched"`
	Missing         []string `json:"missing"`
	Extra           []string `json:"extra"`
	MatchPercentage float64  `json:"match_percentage"`
}

// FindGaps returns matched (resume ∩ job), missing (job \ resume) and extra
// (resume \ job) skills in catalog order. MatchPercentage is 0 when job is empty.
func (c *Catalog) FindGaps(resume, job Set) Gap {
	matched := resume.Intersect(job)

	gap := Gap{
		Matched: c.Ordered(matched),
		Missing: c.Ordered(job.Difference(resume)),
		Extra:   c.Ordered(resume.Difference(job)),
	}

	if job.Len() > 0 {
		gap.MatchPercentage = float64(matched.Len()) / float64(job.Len()) * 100
	}

	return gap
}
