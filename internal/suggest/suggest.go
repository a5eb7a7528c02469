// Package suggest turns an analysis outcome into ordered, actionable resume feedback.
package suggest

import (
	"fmt"
	"strings"

	"github.com/spigell/ats-analyzer/internal/sections"
)

// Severity ranks how urgent a suggestion is.
type Severity string

const (
	SeveritySuccess  Severity = "success"
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

const (
	criticalBelow = 60
	successFrom   = 75
	maxListed     = 5
)

// Suggestion is one piece of feedback.
type Suggestion struct {
	Type     Severity `json:"type"`
	Category string   `json:"category"`
	Message  string   `json:"message"`
	Action   string   `json:"action"`
}

// Generate builds the suggestion list. The order is the display priority:
// problems in the order they are checked, the two formatting reminders, and a
// success note moved to the front for scores of 75 and above.
func Generate(score float64, missingKeywords, missingSkills []string, present sections.Presence) []Suggestion {
	var out []Suggestion

	if score < criticalBelow {
		out = append(out, Suggestion{
			Type:     SeverityCritical,
			Category: "Overall",
			Message:  "Your resume needs significant improvements to pass ATS screening",
			Action:   "Focus on adding relevant keywords and restructuring content",
		})
	}

	if len(missingKeywords) > 0 {
		out = append(out, Suggestion{
			Type:     SeverityHigh,
			Category: "Keywords",
			Message:  fmt.Sprintf("Add these critical keywords: %s", joinFirst(missingKeywords)),
			Action:   "Incorporate these keywords naturally in your experience and skills sections",
		})
	}

	if len(missingSkills) > 0 {
		out = append(out, Suggestion{
			Type:     SeverityHigh,
			Category: "Skills",
			Message:  fmt.Sprintf("Missing required skills: %s", joinFirst(missingSkills)),
			Action:   "Add these skills if you have them, or consider learning them",
		})
	}

	if !present.Summary {
		out = append(out, Suggestion{
			Type:     SeverityMedium,
			Category: "Structure",
			Message:  "Add a professional summary at the top",
			Action:   "Write a 2-3 sentence summary highlighting your key qualifications",
		})
	}

	if !present.Skills {
		out = append(out, Suggestion{
			Type:     SeverityHigh,
			Category: "Structure",
			Message:  "Add a dedicated Skills section",
			Action:   "Create a clear skills section with relevant technical and soft skills",
		})
	}

	out = append(out,
		Suggestion{
			Type:     SeverityLow,
			Category: "Formatting",
			Message:  "Use standard section headings",
			Action:   `Use clear headings like "Experience", "Education", "Skills"`,
		},
		Suggestion{
			Type:     SeverityLow,
			Category: "Formatting",
			Message:  "Avoid tables, images, and complex formatting",
			Action:   "Use simple text formatting that ATS can easily parse",
		},
	)

	if score >= successFrom {
		out = append([]Suggestion{{
			Type:     SeveritySuccess,
			Category: "Overall",
			Message:  "Great job! Your resume is well-optimized for ATS",
			Action:   "Make the suggested minor improvements to reach excellent level",
		}}, out...)
	}

	return out
}

func joinFirst(items []string) string {
	if len(items) > maxListed {
		items = items[:maxListed]
	}
	return strings.Join(items, ", ")
}
