package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/ats-analyzer/internal/ai"
	"github.com/spigell/ats-analyzer/internal/ai/gemini"
	"github.com/spigell/ats-analyzer/internal/ai/openai"
	"github.com/spigell/ats-analyzer/internal/analyzer"
	"github.com/spigell/ats-analyzer/internal/logger"
	"github.com/spigell/ats-analyzer/internal/secrets"
	"github.com/spigell/ats-analyzer/internal/skills"
)

// setup creates the logger and loads the config, exiting on failure.
func setup() (*zap.Logger, *Config) {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Debug("config loaded",
		zap.String("config_file", viper.ConfigFileUsed()),
		zap.Bool("ai_enabled", config.AI.Enabled),
		zap.String("ai_provider", config.AI.Provider),
		zap.Duration("similarity_timeout", config.Analysis.SimilarityTimeout),
	)

	return logger, config
}

// buildAnalyzer wires the skill catalog and the similarity provider into an analyzer.
func buildAnalyzer(ctx context.Context, config *Config, logger *zap.Logger) (*analyzer.Analyzer, error) {
	catalog, err := skills.LoadCatalog(config.CatalogFile)
	if err != nil {
		return nil, err
	}

	logger.Debug("skill catalog loaded", zap.Int("skills", catalog.Len()), zap.String("file", config.CatalogFile))

	provider, err := newSimilarityProvider(ctx, config.AI, logger)
	if err != nil {
		return nil, err
	}

	return analyzer.New(skills.NewMatcher(catalog), provider, analyzer.Options{
		TopKeywords:       config.Analysis.TopKeywords,
		TopBigrams:        config.Analysis.TopBigrams,
		SimilarityTimeout: config.Analysis.SimilarityTimeout,
	}, logger), nil
}

func newSimilarityProvider(ctx context.Context, cfg AIConfig, logger *zap.Logger) (ai.SimilarityProvider, error) {
	if !cfg.Enabled {
		logger.Debug("semantic similarity disabled")
		return ai.Disabled{}, nil
	}

	switch strings.TrimSpace(strings.ToLower(cfg.Provider)) {
	case "", "gemini":
		apiKey, err := secrets.Load(secrets.Source{
			Name:  "gemini api key",
			Value: cfg.Gemini.APIKey,
			File:  cfg.Gemini.APIKeyFile,
			Env:   []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"},
		})
		if err != nil {
			return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY)", err)
		}

		generator, err := gemini.NewGenerator(ctx, gemini.Options{
			APIKey:         apiKey,
			ConceptModel:   cfg.Gemini.ConceptModel,
			EmbeddingModel: cfg.Gemini.EmbeddingModel,
			MaxRetries:     cfg.Gemini.MaxRetries,
		}, logger)
		if err != nil {
			return nil, err
		}

		var concepts ai.ConceptExtractor
		if cfg.Gemini.Concepts {
			concepts = gemini.NewConceptExtractor(generator, logger, cfg.Gemini.MaxLogLength)
		}

		return ai.NewEmbeddingSimilarity(generator, concepts, logger), nil
	case "openai":
		apiKey, err := secrets.Load(secrets.Source{
			Name:  "openai api key",
			Value: cfg.OpenAI.APIKey,
			File:  cfg.OpenAI.APIKeyFile,
			Env:   []string{"OPENAI_API_KEY"},
		})
		if err != nil {
			return nil, fmt.Errorf("%w (set ai.openai.api-key-file or OPENAI_API_KEY)", err)
		}

		embedder, err := openai.NewEmbedder(openai.Options{
			APIKey:     apiKey,
			Model:      cfg.OpenAI.Model,
			MaxRetries: cfg.OpenAI.MaxRetries,
		}, logger)
		if err != nil {
			return nil, err
		}

		return ai.NewEmbeddingSimilarity(embedder, nil, logger), nil
	default:
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}
}

// readInput returns the content of path, or of stdin when path is "-".
func readInput(path string, stdin io.Reader) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", fmt.Errorf("input file is required")
	}

	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}
