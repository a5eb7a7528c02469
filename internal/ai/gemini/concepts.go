package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/mitchellh/mapstructure"
	"github.com/spigell/ats-analyzer/internal/ai"
	"github.com/spigell/ats-analyzer/internal/logger"
	"github.com/spigell/ats-analyzer/internal/utils"
	"go.uber.org/zap"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, system, prompt string) (string, error)
	Model() string
}

//go:embed prompt.md
var promptTemplate string

const (
	systemInstruction = "You extract entities and key concepts from resumes and job descriptions and answer with JSON only."

	defaultMaxLogLength = 200
	// documents are cut to this many runes before they are sent
	maxDocumentRunes = 12000
	maxItems         = 20
)

// ConceptExtractor asks Gemini for the entities and key concepts of a resume and a job description.
type ConceptExtractor struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

func NewConceptExtractor(generator contentGenerator, log *zap.Logger, maxLogLength int) *ConceptExtractor {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &ConceptExtractor{
		generator: generator,
		logger:    logger.WithCommonFields(log, providerName, generator.Model()),
		maxLogLen: maxLogLength,
	}
}

func (c *ConceptExtractor) ExtractConcepts(ctx context.Context, resumeText, jobText string) (*ai.Concepts, error) {
	prompt := buildPrompt(resumeText, jobText)

	c.logger.Debug("gemini concept request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, c.maxLogLen)),
	)

	raw, err := c.generator.GenerateContent(ctx, systemInstruction, prompt)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("gemini concept response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, c.maxLogLen)),
	)

	return parseResponse(raw)
}

func buildPrompt(resumeText, jobText string) string {
	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Resume:\n{{RESUME}}\n\nJob description:\n{{JOB}}\n\nJSON Response:"
	}
	return strings.NewReplacer(
		"{{MAX_ITEMS}}", strconv.Itoa(maxItems),
		"{{RESUME}}", sanitizeDocument(resumeText),
		"{{JOB}}", sanitizeDocument(jobText),
	).Replace(template)
}

// sanitizeDocument trims and truncates a document and defuses the prompt's
// section markers inside it.
func sanitizeDocument(text string) string {
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) > maxDocumentRunes {
		text = string([]rune(text)[:maxDocumentRunes])
	}
	return strings.NewReplacer(
		"[", "(",
		"]", ")",
		"<<<", "<",
		">>>", ">",
	).Replace(text)
}

func parseResponse(raw string) (*ai.Concepts, error) {
	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}

	var concepts ai.Concepts
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &concepts,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, fmt.Errorf("create response decoder: %w", err)
	}
	if err := decoder.Decode(data); err != nil {
		return nil, fmt.Errorf("decode gemini response: %w", err)
	}

	concepts.ResumeEntities = cleanEntities(concepts.ResumeEntities)
	concepts.JobEntities = cleanEntities(concepts.JobEntities)
	concepts.ResumeConcepts = cleanConcepts(concepts.ResumeConcepts)
	concepts.JobConcepts = cleanConcepts(concepts.JobConcepts)

	return &concepts, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

func cleanEntities(in []ai.Entity) []ai.Entity {
	out := make([]ai.Entity, 0, len(in))
	seen := make(map[ai.Entity]struct{}, len(in))
	for _, e := range in {
		e.Text = strings.TrimSpace(e.Text)
		e.Label = strings.ToUpper(strings.TrimSpace(e.Label))
		if e.Text == "" {
			continue
		}
		if _, ok := seen[e]; ok {
			continue
		}
		seen[e] = struct{}{}
		out = append(out, e)
		if len(out) == maxItems {
			break
		}
	}
	return out
}

func cleanConcepts(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, c := range in {
		c = strings.ToLower(strings.Join(strings.Fields(c), " "))
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
		if len(out) == maxItems {
			break
		}
	}
	return out
}
