package gemini

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

type fakeResult struct {
	generate *genai.GenerateContentResponse
	embed    *genai.EmbedContentResponse
	err      error
}

type fakeModels struct {
	mu      sync.Mutex
	queue   []fakeResult
	calls   int
	model   string
	config  *genai.GenerateContentConfig
	embeds  *genai.EmbedContentConfig
	content []*genai.Content
}

func (f *fakeModels) enqueue(res fakeResult) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queue = append(f.queue, res)
}

func (f *fakeModels) next() (fakeResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if len(f.queue) == 0 {
		return fakeResult{}, errors.New("unexpected call")
	}
	res := f.queue[0]
	f.queue = f.queue[1:]
	return res, nil
}

func (f *fakeModels) GenerateContent(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	res, err := f.next()
	if err != nil {
		return nil, err
	}
	f.model, f.config, f.content = model, config, contents
	return res.generate, res.err
}

func (f *fakeModels) EmbedContent(_ context.Context, model string, contents []*genai.Content, config *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error) {
	res, err := f.next()
	if err != nil {
		return nil, err
	}
	f.model, f.embeds, f.content = model, config, contents
	return res.embed, res.err
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: text}}},
		}},
	}
}

func newTestGenerator(models modelsAPI, retries int) (*Generator, *[]time.Duration) {
	g := newGenerator(models, Options{ConceptModel: "gemini-pro", MaxRetries: retries}, zap.NewNop())
	var waits []time.Duration
	g.wait = func(_ context.Context, d time.Duration) error {
		waits = append(waits, d)
		return nil
	}
	return g, &waits
}

func TestGeneratorRetriesOnTemporaryError(t *testing.T) {
	models := &fakeModels{}
	models.enqueue(fakeResult{err: genai.APIError{Code: http.StatusInternalServerError, Status: "INTERNAL"}})
	models.enqueue(fakeResult{generate: textResponse("retry ok")})

	g, waits := newTestGenerator(models, 2)

	output, err := g.GenerateContent(context.Background(), "system", "message")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if output != "retry ok" {
		t.Fatalf("unexpected output: %q", output)
	}

	if models.calls != 2 {
		t.Fatalf("expected 2 calls, got %d", models.calls)
	}

	if len(*waits) != 1 || (*waits)[0] != retryBaseDelay {
		t.Fatalf("unexpected waits: %v", *waits)
	}

	if models.config == nil || models.config.SystemInstruction == nil {
		t.Fatalf("expected system instruction to be set")
	}
	if got := models.config.SystemInstruction.Parts[0].Text; got != "system" {
		t.Fatalf("unexpected system instruction: %q", got)
	}
	if models.model != "gemini-pro" {
		t.Fatalf("unexpected model: %q", models.model)
	}
}

func TestGeneratorStopsAfterRetriesExhausted(t *testing.T) {
	models := &fakeModels{}
	tempErr := genai.APIError{Code: http.StatusInternalServerError, Status: "INTERNAL"}
	models.enqueue(fakeResult{err: tempErr})
	models.enqueue(fakeResult{err: tempErr})

	g, _ := newTestGenerator(models, 2)

	_, err := g.GenerateContent(context.Background(), "sys", "msg")
	if err == nil {
		t.Fatal("expected error after retries exhausted")
	}

	if models.calls != 2 {
		t.Fatalf("expected 2 calls, got %d", models.calls)
	}
}

func TestGeneratorDoesNotRetryOnLongQuotaDelay(t *testing.T) {
	models := &fakeModels{}
	models.enqueue(fakeResult{err: genai.APIError{
		Code:    http.StatusTooManyRequests,
		Status:  "RESOURCE_EXHAUSTED",
		Message: "quota exhausted, retry after 60 seconds",
	}})

	g, _ := newTestGenerator(models, 3)

	_, err := g.GenerateContent(context.Background(), "sys", "msg")
	if err == nil {
		t.Fatal("expected error when quota delay too long")
	}

	if models.calls != 1 {
		t.Fatalf("expected single call, got %d", models.calls)
	}
}

func TestGeneratorHonoursShortQuotaDelay(t *testing.T) {
	models := &fakeModels{}
	models.enqueue(fakeResult{err: genai.APIError{
		Code:    http.StatusTooManyRequests,
		Message: "please retry in 2s",
	}})
	models.enqueue(fakeResult{generate: textResponse("ok")})

	g, waits := newTestGenerator(models, 3)

	if _, err := g.GenerateContent(context.Background(), "", "msg"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(*waits) != 1 || (*waits)[0] != 2*time.Second {
		t.Fatalf("unexpected waits: %v", *waits)
	}
	if models.config.SystemInstruction != nil {
		t.Fatalf("expected no system instruction")
	}
}

func TestGeneratorDoesNotRetryClientErrors(t *testing.T) {
	models := &fakeModels{}
	models.enqueue(fakeResult{err: genai.APIError{Code: http.StatusBadRequest}})

	g, _ := newTestGenerator(models, 3)

	if _, err := g.GenerateContent(context.Background(), "", "msg"); err == nil {
		t.Fatal("expected error")
	}
	if models.calls != 1 {
		t.Fatalf("expected single call, got %d", models.calls)
	}
}

func TestGeneratorRejectsEmptyPromptAndResponse(t *testing.T) {
	models := &fakeModels{}
	g, _ := newTestGenerator(models, 1)

	if _, err := g.GenerateContent(context.Background(), "", "   "); err == nil {
		t.Fatal("expected error for empty prompt")
	}

	models.enqueue(fakeResult{generate: textResponse("  ")})
	if _, err := g.GenerateContent(context.Background(), "", "msg"); err == nil {
		t.Fatal("expected error for empty response")
	}
}

func TestGeneratorEmbed(t *testing.T) {
	models := &fakeModels{}
	models.enqueue(fakeResult{embed: &genai.EmbedContentResponse{
		Embeddings: []*genai.ContentEmbedding{{Values: []float32{1, 0}}, {Values: []float32{0, 1}}},
	}})

	g, _ := newTestGenerator(models, 1)

	vectors, err := g.Embed(context.Background(), []string{"resume", "job"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(vectors) != 2 || vectors[1][1] != 1 {
		t.Fatalf("unexpected vectors: %v", vectors)
	}
	if models.model != DefaultEmbeddingModel {
		t.Fatalf("expected default embedding model, got %q", models.model)
	}
	if models.embeds == nil || models.embeds.TaskType != embeddingTaskType {
		t.Fatalf("expected similarity task type")
	}
	if len(models.content) != 2 || models.content[0].Parts[0].Text != "resume" {
		t.Fatalf("unexpected contents sent")
	}
}

func TestGeneratorEmbedCountMismatch(t *testing.T) {
	models := &fakeModels{}
	models.enqueue(fakeResult{embed: &genai.EmbedContentResponse{
		Embeddings: []*genai.ContentEmbedding{{Values: []float32{1}}},
	}})

	g, _ := newTestGenerator(models, 1)

	if _, err := g.Embed(context.Background(), []string{"a", "b"}); err == nil {
		t.Fatal("expected error on embedding count mismatch")
	}
}
