package textgen

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"google.golang.org/genai"

	"cadence/internal/logging"
)

// geminiModel pairs a model name with its request budget.
type geminiModel struct {
	Name string
	RPM  int
	RPD  int
}

// GeminiClient implements Client against the Gemini API with a small
// fallback list: when the primary model is over budget or rate limited,
// the next model is tried.
type GeminiClient struct {
	client *genai.Client
	models []geminiModel

	mu           sync.Mutex
	dailyCount   map[string]int
	minuteCount  map[string]int
	lastResetDay time.Time
	lastResetMin time.Time
}

// NewGeminiClient creates a Gemini-backed client.
func NewGeminiClient(ctx context.Context, apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &GeminiClient{
		client: client,
		models: []geminiModel{
			{Name: "gemini-2.5-flash", RPM: 10, RPD: 250},
			{Name: "gemini-2.5-flash-lite", RPM: 15, RPD: 1000},
		},
		dailyCount:   make(map[string]int),
		minuteCount:  make(map[string]int),
		lastResetDay: time.Now(),
		lastResetMin: time.Now(),
	}, nil
}

var _ Client = (*GeminiClient)(nil)

// Complete sends the prompt to the first in-budget model, falling back on
// rate-limit errors.
func (g *GeminiClient) Complete(ctx context.Context, prompt string, opts Options) (string, error) {
	log := logging.Get(logging.CategoryAPI)

	temp := float32(opts.Temperature)
	cfg := &genai.GenerateContentConfig{}
	if opts.Temperature > 0 {
		cfg.Temperature = &temp
	}
	if opts.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(opts.MaxTokens)
	}

	var lastErr error
	for _, m := range g.models {
		if !g.canUse(m) {
			continue
		}
		result, err := g.client.Models.GenerateContent(ctx, m.Name, genai.Text(prompt), cfg)
		if err != nil {
			errStr := strings.ToLower(err.Error())
			if strings.Contains(errStr, "429") || strings.Contains(errStr, "rate limit") || strings.Contains(errStr, "exhausted") {
				log.Warn("gemini model %s rate limited, trying fallback", m.Name)
				lastErr = err
				continue
			}
			return "", &BackendError{Reason: "gemini request failed", Err: err}
		}
		if result != nil && len(result.Candidates) > 0 && len(result.Candidates[0].Content.Parts) > 0 {
			g.recordUsage(m)
			return strings.TrimSpace(result.Candidates[0].Content.Parts[0].Text), nil
		}
		lastErr = fmt.Errorf("model %s returned no candidates", m.Name)
	}
	return "", &BackendError{Reason: "all gemini models failed", Err: lastErr}
}

func (g *GeminiClient) canUse(m geminiModel) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	now := time.Now()
	if now.YearDay() != g.lastResetDay.YearDay() {
		g.dailyCount = make(map[string]int)
		g.lastResetDay = now
	}
	if now.Sub(g.lastResetMin) >= time.Minute {
		g.minuteCount = make(map[string]int)
		g.lastResetMin = now
	}
	return g.dailyCount[m.Name] < m.RPD && g.minuteCount[m.Name] < m.RPM
}

func (g *GeminiClient) recordUsage(m geminiModel) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.dailyCount[m.Name]++
	g.minuteCount[m.Name]++
}
