package ai

import (
	"context"
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"
)

// ErrDisabled is returned by providers that are switched off in the configuration.
var ErrDisabled = errors.New("similarity provider is disabled")

// Entity is a named entity found in a document.
type Entity struct {
	Text  string `json:"text" mapstructure:"text"`
	Label string `json:"label" mapstructure:"label"`
}

// Concepts are the optional entity and key-phrase lists of both documents.
type Concepts struct {
	ResumeEntities []Entity `json:"resume_entities" mapstructure:"resume_entities"`
	JobEntities    []Entity `json:"job_entities" mapstructure:"job_entities"`
	ResumeConcepts []string `json:"resume_concepts" mapstructure:"resume_concepts"`
	JobConcepts    []string `json:"job_concepts" mapstructure:"job_concepts"`
}

// Analysis is what a SimilarityProvider knows about a pair of documents.
type Analysis struct {
	// Similarity is the semantic closeness of the documents in [0,1].
	Similarity float64
	Concepts
}

// SimilarityProvider compares two documents semantically.
type SimilarityProvider interface {
	Analyze(ctx context.Context, resumeText, jobText string) (*Analysis, error)
}

// Embedder turns texts into embedding vectors, one per text and in input order.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// ConceptExtractor lists entities and key phrases of both documents.
type ConceptExtractor interface {
	ExtractConcepts(ctx context.Context, resumeText, jobText string) (*Concepts, error)
}

// Disabled is the provider used when no similarity backend is configured.
type Disabled struct{}

func (Disabled) Analyze(context.Context, string, string) (*Analysis, error) {
	return nil, ErrDisabled
}

// EmbeddingSimilarity scores documents by the cosine similarity of their
// embeddings and optionally enriches the result with extracted concepts.
type EmbeddingSimilarity struct {
	embedder Embedder
	concepts ConceptExtractor
	logger   *zap.Logger
}

// NewEmbeddingSimilarity builds a provider. concepts may be nil.
func NewEmbeddingSimilarity(embedder Embedder, concepts ConceptExtractor, logger *zap.Logger) *EmbeddingSimilarity {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmbeddingSimilarity{embedder: embedder, concepts: concepts, logger: logger}
}

func (s *EmbeddingSimilarity) Analyze(ctx context.Context, resumeText, jobText string) (*Analysis, error) {
	vectors, err := s.embedder.Embed(ctx, []string{resumeText, jobText})
	if err != nil {
		return nil, fmt.Errorf("embed documents: %w", err)
	}
	if len(vectors) != 2 {
		return nil, fmt.Errorf("embed documents: expected 2 vectors, got %d", len(vectors))
	}

	analysis := &Analysis{Similarity: CosineSimilarity(vectors[0], vectors[1])}

	if s.concepts == nil {
		return analysis, nil
	}

	concepts, err := s.concepts.ExtractConcepts(ctx, resumeText, jobText)
	if err != nil {
		s.logger.Warn("concept extraction failed", zap.Error(err))
		return analysis, nil
	}
	if concepts != nil {
		analysis.Concepts = *concepts
	}

	return analysis, nil
}

// CosineSimilarity returns the cosine of the angle between a and b clipped to
// [0,1]. Vectors of different length or zero norm yield 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	switch {
	case math.IsNaN(sim) || sim < 0:
		return 0
	case sim > 1:
		return 1
	default:
		return sim
	}
}
