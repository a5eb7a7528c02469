package sections

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

const educationContextRadius = 50

var (
	emailPattern    = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	phonePattern    = regexp.MustCompile(`(\+?\d{1,3}[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`)
	linkedinPattern = regexp.MustCompile(`(?i)linkedin\.com/in/[\w-]+`)
	githubPattern   = regexp.MustCompile(`(?i)github\.com/[\w-]+`)

	// Abbreviations must stand alone: "ma" would otherwise match inside "management".
	degreePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(bachelor\w*|b\.s\.|b\.a\.|bs|ba)(?:[^\w]|$)`),
		regexp.MustCompile(`(?i)\b(master\w*|m\.s\.|m\.a\.|ms|ma|mba)(?:[^\w]|$)`),
		regexp.MustCompile(`(?i)\b(ph\.d\.|phd|doctorate)(?:[^\w]|$)`),
		regexp.MustCompile(`(?i)\b(associate\w*|a\.s\.|a\.a\.)(?:[^\w]|$)`),
	}

	yearsOfExperiencePattern = regexp.MustCompile(`(?i)(\d+)\+?\s*years?\s*(of)?\s*experience`)
	yearRangePattern         = regexp.MustCompile(`(?i)(20\d{2}|19\d{2})\s*[-–]\s*(20\d{2}|19\d{2}|present|current)`)
)

// ContactInfo holds the first contact details found in a resume.
type ContactInfo struct {
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	GitHub   string `json:"github,omitempty"`
}

// Profile collects the facts extracted from a resume.
type Profile struct {
	Contact         ContactInfo `json:"contact"`
	Education       []string    `json:"education"`
	ExperienceYears *int        `json:"experience_years,omitempty"`
}

// ExtractProfile runs every extractor over text. now resolves open-ended date ranges.
func ExtractProfile(text string, now time.Time) Profile {
	p := Profile{
		Contact:   ExtractContactInfo(text),
		Education: ExtractEducation(text),
	}
	if years, ok := ExtractExperienceYears(text, now); ok {
		p.ExperienceYears = &years
	}
	return p
}

// ExtractContactInfo returns the first email, phone, LinkedIn and GitHub reference in text.
func ExtractContactInfo(text string) ContactInfo {
	return ContactInfo{
		Email:    emailPattern.FindString(text),
		Phone:    phonePattern.FindString(text),
		LinkedIn: linkedinPattern.FindString(text),
		GitHub:   githubPattern.FindString(text),
	}
}

// ExtractEducation returns each degree mention with up to 50 characters of
// surrounding context, grouped by degree level.
func ExtractEducation(text string) []string {
	entries := []string{}
	seen := make(map[string]bool)

	for _, pattern := range degreePatterns {
		for _, loc := range pattern.FindAllStringSubmatchIndex(text, -1) {
			start := runeStart(text, max(0, loc[2]-educationContextRadius))
			end := runeStart(text, min(len(text), loc[3]+educationContextRadius))

			snippet := strings.TrimSpace(text[start:end])
			if snippet == "" || seen[snippet] {
				continue
			}
			seen[snippet] = true
			entries = append(entries, snippet)
		}
	}

	return entries
}

// ExtractExperienceYears reads an explicit "N years of experience" statement,
// falling back to the sum of all year ranges ("2019 - 2022", "2021 - present").
func ExtractExperienceYears(text string, now time.Time) (int, bool) {
	if m := yearsOfExperiencePattern.FindStringSubmatch(text); m != nil {
		years, err := strconv.Atoi(m[1])
		if err == nil {
			return years, true
		}
	}

	ranges := yearRangePattern.FindAllStringSubmatch(text, -1)
	if len(ranges) == 0 {
		return 0, false
	}

	total := 0
	for _, r := range ranges {
		start, _ := strconv.Atoi(r[1])
		end := now.Year()
		if y, err := strconv.Atoi(r[2]); err == nil {
			end = y
		}
		total += end - start
	}

	return total, true
}

// runeStart moves i back to the start of the rune containing it.
func runeStart(s string, i int) int {
	for i > 0 && i < len(s) && !utf8.RuneStart(s[i]) {
		i--
	}
	return i
}
