package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/yxyphoebe/lavender-mind-haven-sub000/models"
)

// PersonaFinder resolves a persona by id.
type PersonaFinder interface {
	FindByID(ctx context.Context, id string) (*models.Persona, error)
}

// DailyMessageWriter appends fresh messages to a user's pool.
type DailyMessageWriter interface {
	InsertMessages(ctx context.Context, userID, personaID string, texts []string) error
}

// DailyMessageGenerator writes new daily messages in a persona's voice and
// appends them to the pool.
type DailyMessageGenerator struct {
	gen      TextGenerator
	personas PersonaFinder
	pool     DailyMessageWriter
}

func NewDailyMessageGenerator(gen TextGenerator, personas PersonaFinder, pool DailyMessageWriter) *DailyMessageGenerator {
	return &DailyMessageGenerator{gen: gen, personas: personas, pool: pool}
}

// GenerateMessages produces count messages and inserts them unused.
func (g *DailyMessageGenerator) GenerateMessages(ctx context.Context, userID, personaID string, count int) error {
	if count <= 0 {
		return nil
	}
	persona, err := g.personas.FindByID(ctx, personaID)
	if err != nil {
		return fmt.Errorf("failed to load persona %s: %w", personaID, err)
	}

	systemPrompt := fmt.Sprintf(
		`You are %s, a wellness companion. Your style: %s. %s`,
		persona.Name, persona.Style, persona.Description,
	)
	prompt := fmt.Sprintf(
		`Write %d different short daily check-in messages for the user, one or two sentences each.
Each message should feel personal and kind and may invite the user to reflect on their day.

Required Output Format (JSON):
["first message", "second message"]

Provide ONLY the JSON output without additional text or markdown formatting.`,
		count,
	)

	response, err := g.gen.Generate(ctx, systemPrompt, prompt)
	if err != nil {
		return fmt.Errorf("failed to generate daily messages: %w", err)
	}

	texts, err := parseMessageList(response)
	if err != nil {
		return err
	}
	if len(texts) > count {
		texts = texts[:count]
	}
	return g.pool.InsertMessages(ctx, userID, personaID, texts)
}

func parseMessageList(response string) ([]string, error) {
	var raw []string
	if err := json.Unmarshal([]byte(cleanModelOutput(response)), &raw); err != nil {
		return nil, fmt.Errorf("invalid daily message format: %w", err)
	}
	texts := lo.Uniq(lo.FilterMap(raw, func(text string, _ int) (string, bool) {
		text = strings.TrimSpace(text)
		return text, text != ""
	}))
	if len(texts) == 0 {
		return nil, errors.New("no daily messages generated")
	}
	return texts, nil
}
