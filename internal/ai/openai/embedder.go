package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/spigell/ats-analyzer/internal/logger"
	"go.uber.org/zap"
)

const providerName = "openai"

// DefaultModel is the embedding model used when none is configured.
const DefaultModel = string(openai.EmbeddingModelTextEmbedding3Small)

type embeddingsAPI interface {
	New(ctx context.Context, body openai.EmbeddingNewParams, opts ...option.RequestOption) (*openai.CreateEmbeddingResponse, error)
}

// Options configure an Embedder.
type Options struct {
	APIKey     string
	Model      string
	MaxRetries int
}

// Embedder creates embeddings with the OpenAI API.
type Embedder struct {
	embeddings embeddingsAPI
	model      string
	logger     *zap.Logger
}

func NewEmbedder(opts Options, log *zap.Logger) (*Embedder, error) {
	apiKey := strings.TrimSpace(opts.APIKey)
	if apiKey == "" {
		return nil, errors.New("openai api key is required")
	}

	reqOpts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if opts.MaxRetries > 0 {
		reqOpts = append(reqOpts, option.WithMaxRetries(opts.MaxRetries))
	}

	client := openai.NewClient(reqOpts...)

	return newEmbedder(&client.Embeddings, opts.Model, log), nil
}

func newEmbedder(api embeddingsAPI, model string, log *zap.Logger) *Embedder {
	if model = strings.TrimSpace(model); model == "" {
		model = DefaultModel
	}
	return &Embedder{
		embeddings: api,
		model:      model,
		logger:     logger.WithCommonFields(log, providerName, model),
	}
}

// Embed returns one embedding per text, in input order.
func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	for i, text := range texts {
		if strings.TrimSpace(text) == "" {
			return nil, fmt.Errorf("text at index %d is empty", i)
		}
	}

	e.logger.Debug("openai embeddings request", zap.Int("texts", len(texts)))

	resp, err := e.embeddings.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{
			OfArrayOfStrings: texts,
		},
		Model: openai.EmbeddingModel(e.model),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate embeddings: %w", err)
	}

	if resp == nil || len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("expected %d embeddings from openai", len(texts))
	}

	vectors := make([][]float32, len(texts))
	for _, data := range resp.Data {
		idx := int(data.Index)
		if idx < 0 || idx >= len(vectors) || vectors[idx] != nil {
			return nil, fmt.Errorf("unexpected embedding index %d", data.Index)
		}
		embedding32 := make([]float32, len(data.Embedding))
		for j, v := range data.Embedding {
			embedding32[j] = float32(v)
		}
		vectors[idx] = embedding32
	}

	return vectors, nil
}

func (e *Embedder) Model() string {
	return e.model
}
