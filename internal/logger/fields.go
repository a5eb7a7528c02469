package logger

import (
	"strings"

	"go.uber.org/zap"
)

// Structured field keys used across the analyzer.
const (
	FieldProvider   = "ai_provider"
	FieldModel      = "ai_model"
	FieldAnalysisID = "analysis_id"
	FieldRequestID  = "request_id"
	FieldScore      = "ats_score"
)

// StringField is a key/value pair rendered as a zap string field.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts pairs to zap fields. Keys and values are trimmed and
// pairs with a blank key or value are dropped.
func StringFields(fields ...StringField) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		value := strings.TrimSpace(field.Value)
		if key == "" || value == "" {
			continue
		}
		result = append(result, zap.String(key, value))
	}
	return result
}

// WithFields returns logger enriched with fields. A nil logger becomes a no-op one.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(fields) == 0 {
		return logger
	}
	return logger.With(fields...)
}

// CommonFields describes the similarity backend of a log entry.
func CommonFields(provider, model string) []zap.Field {
	return StringFields(
		StringField{Key: FieldProvider, Value: provider},
		StringField{Key: FieldModel, Value: model},
	)
}

func WithCommonFields(logger *zap.Logger, provider, model string) *zap.Logger {
	return WithFields(logger, CommonFields(provider, model)...)
}

// WithAnalysis tags every entry of logger with the analysis id.
func WithAnalysis(logger *zap.Logger, analysisID string) *zap.Logger {
	return WithFields(logger, StringFields(StringField{Key: FieldAnalysisID, Value: analysisID})...)
}
