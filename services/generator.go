package services

import (
	"context"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// TextGenerator produces text from a system instruction and a user prompt.
type TextGenerator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	Provider() string
}

// cleanModelOutput strips whitespace and markdown code fences that models
// like to wrap JSON in.
func cleanModelOutput(text string) string {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```JSON")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	return strings.TrimSpace(cleaned)
}

// timedGenerator records call latency per provider and use.
type timedGenerator struct {
	next    TextGenerator
	kind    string
	latency *prometheus.HistogramVec
}

// WithLatency wraps gen so every call is observed in latency under kind.
// A nil histogram returns gen unchanged.
func WithLatency(gen TextGenerator, latency *prometheus.HistogramVec, kind string) TextGenerator {
	if latency == nil {
		return gen
	}
	return &timedGenerator{next: gen, kind: kind, latency: latency}
}

func (g *timedGenerator) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	start := time.Now()
	defer func() {
		g.latency.WithLabelValues(g.next.Provider(), g.kind).Observe(time.Since(start).Seconds())
	}()
	return g.next.Generate(ctx, systemPrompt, userPrompt)
}

func (g *timedGenerator) Provider() string {
	return g.next.Provider()
}
