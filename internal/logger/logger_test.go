package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	for _, tc := range []struct {
		json, debug bool
		level       zapcore.Level
	}{
		{false, false, zapcore.InfoLevel},
		{true, true, zapcore.DebugLevel},
	} {
		logger, err := New(tc.json, tc.debug)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !logger.Core().Enabled(tc.level) {
			t.Fatalf("expected level %s to be enabled", tc.level)
		}
		if tc.level == zapcore.InfoLevel && logger.Core().Enabled(zapcore.DebugLevel) {
			t.Fatalf("expected debug to be disabled")
		}
	}
}

func TestStringFieldsDropsBlankPairs(t *testing.T) {
	fields := StringFields(
		StringField{Key: "  ai_provider  ", Value: "  gemini  "},
		StringField{Key: "ignored", Value: "   "},
		StringField{Key: "   ", Value: "no key"},
	)

	if len(fields) != 1 {
		t.Fatalf("expected 1 field, got %d", len(fields))
	}
	if fields[0].Key != "ai_provider" || fields[0].String != "gemini" {
		t.Fatalf("unexpected field: %+v", fields[0])
	}
	if len(StringFields()) != 0 {
		t.Fatalf("expected no fields")
	}
}

func TestWithFieldsNilLogger(t *testing.T) {
	enriched := WithFields(nil, zap.String("k", "v"))
	if enriched == nil {
		t.Fatalf("expected fallback logger when nil provided")
	}
	enriched.Info("does not panic")
}

func TestWithCommonFields(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)

	WithCommonFields(zap.New(core), "openai", "text-embedding-3-small").Info("embedded")
	WithCommonFields(zap.New(core), "gemini", "").Info("no model")

	entries := observed.All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	first := entries[0].ContextMap()
	if first[FieldProvider] != "openai" || first[FieldModel] != "text-embedding-3-small" {
		t.Fatalf("unexpected fields: %v", first)
	}

	second := entries[1].ContextMap()
	if _, ok := second[FieldModel]; ok {
		t.Fatalf("expected blank model to be omitted, got %v", second)
	}
}

func TestWithAnalysis(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)

	WithAnalysis(zap.New(core), "abc").Info("scored")
	WithAnalysis(zap.New(core), "  ").Info("no id")

	entries := observed.All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].ContextMap()[FieldAnalysisID] != "abc" {
		t.Fatalf("expected analysis id field, got %v", entries[0].ContextMap())
	}
	if _, ok := entries[1].ContextMap()[FieldAnalysisID]; ok {
		t.Fatalf("expected blank analysis id to be omitted")
	}
}
