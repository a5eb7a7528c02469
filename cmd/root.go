package cmd

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/ats-analyzer/internal/ai/gemini"
	"github.com/spigell/ats-analyzer/internal/ai/openai"
	"github.com/spigell/ats-analyzer/internal/analyzer"
	"github.com/spigell/ats-analyzer/internal/ranking"
	"github.com/spigell/ats-analyzer/internal/server"
	"github.com/spigell/ats-analyzer/internal/textproc"
)

const (
	app       = "ats-analyzer"
	envPrefix = "ATS"
)

type Config struct {
	CatalogFile string         `mapstructure:"catalog-file"`
	Analysis    AnalysisConfig `mapstructure:"analysis"`
	AI          AIConfig       `mapstructure:"ai"`
	Server      ServerConfig   `mapstructure:"server"`
}

type AnalysisConfig struct {
	TopKeywords       int           `mapstructure:"top-keywords" validate:"gte=1,lte=500"`
	TopBigrams        int           `mapstructure:"top-bigrams" validate:"gte=1,lte=200"`
	SimilarityTimeout time.Duration `mapstructure:"similarity-timeout" validate:"gt=0"`
	Concurrency       int           `mapstructure:"concurrency" validate:"gte=1,lte=64"`
}

type AIConfig struct {
	Enabled  bool         `mapstructure:"enabled"`
	Provider string       `mapstructure:"provider" validate:"omitempty,oneof=gemini openai"`
	Gemini   GeminiConfig `mapstructure:"gemini"`
	OpenAI   OpenAIConfig `mapstructure:"openai"`
}

type GeminiConfig struct {
	APIKey         string `mapstructure:"api-key"`
	APIKeyFile     string `mapstructure:"api-key-file"`
	EmbeddingModel string `mapstructure:"embedding-model"`
	ConceptModel   string `mapstructure:"concept-model"`
	Concepts       bool   `mapstructure:"concepts"`
	MaxRetries     int    `mapstructure:"max-retries" validate:"gte=0"`
	MaxLogLength   int    `mapstructure:"max-log-length" validate:"gte=0"`
}

type OpenAIConfig struct {
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
	MaxRetries int    `mapstructure:"max-retries" validate:"gte=0"`
}

type ServerConfig struct {
	Addr         string `mapstructure:"addr" validate:"required"`
	MaxBodyBytes int64  `mapstructure:"max-body-bytes" validate:"gt=0"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "ats-analyzer scores how well a resume matches a job description",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is ats-analyzer.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().String("catalog-file", "", "skill catalog yaml file (default is the built-in catalog)")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("catalog-file", rootCmd.PersistentFlags().Lookup("catalog-file"))

	setDefaults(viper.GetViper())
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("catalog-file", "")
	v.SetDefault("analysis.top-keywords", textproc.DefaultTopKeywords)
	v.SetDefault("analysis.top-bigrams", textproc.DefaultTopBigrams)
	v.SetDefault("analysis.similarity-timeout", analyzer.DefaultSimilarityTimeout)
	v.SetDefault("analysis.concurrency", ranking.DefaultConcurrency)

	v.SetDefault("ai.enabled", false)
	v.SetDefault("ai.provider", "gemini")
	v.SetDefault("ai.gemini.api-key", "")
	v.SetDefault("ai.gemini.api-key-file", "")
	v.SetDefault("ai.gemini.embedding-model", gemini.DefaultEmbeddingModel)
	v.SetDefault("ai.gemini.concept-model", gemini.DefaultConceptModel)
	v.SetDefault("ai.gemini.concepts", false)
	v.SetDefault("ai.gemini.max-retries", 3)
	v.SetDefault("ai.gemini.max-log-length", 200)
	v.SetDefault("ai.openai.api-key", "")
	v.SetDefault("ai.openai.api-key-file", "")
	v.SetDefault("ai.openai.model", openai.DefaultModel)
	v.SetDefault("ai.openai.max-retries", 2)

	v.SetDefault("server.addr", server.DefaultAddr)
	v.SetDefault("server.max-body-bytes", server.DefaultMaxBodyBytes)

	// ATS_AI_GEMINI_API_KEY_FILE overrides ai.gemini.api-key-file and so on.
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
}

func initConfig() {
	// a missing .env file is fine
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return
		}
		// We can't proceed if the config file parsed with error.
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	return decodeConfig(viper.GetViper())
}

func decodeConfig(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := validator.New().Struct(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}
