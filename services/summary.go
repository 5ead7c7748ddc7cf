package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// SessionSummaryService writes the short reflection shown after a chat or
// video session.
type SessionSummaryService struct {
	gen TextGenerator
}

func NewSessionSummaryService(gen TextGenerator) *SessionSummaryService {
	return &SessionSummaryService{gen: gen}
}

// GenerateSummary asks the generator for a supportive two sentence summary of
// the session. chatContext holds the user's latest messages, oldest first,
// and is empty for video sessions.
func (s *SessionSummaryService) GenerateSummary(ctx context.Context, personaName, sessionType string, chatContext []string) (string, error) {
	if s.gen == nil {
		return "", errors.New("summary generator not configured")
	}

	systemPrompt := fmt.Sprintf(
		`You are %s, a warm wellness companion. You write short, supportive reflections addressed directly to the user.`,
		personaName,
	)

	var b strings.Builder
	fmt.Fprintf(&b, "The user just finished a %s session with you.\n", sessionType)
	if len(chatContext) > 0 {
		b.WriteString("Their latest messages were:\n")
		for _, text := range chatContext {
			fmt.Fprintf(&b, "- %s\n", text)
		}
	}
	b.WriteString(`Write at most two sentences that acknowledge how they are doing and gently encourage them.
Provide ONLY the message text without quotes or markdown formatting.`)

	summary, err := s.gen.Generate(ctx, systemPrompt, b.String())
	if err != nil {
		return "", fmt.Errorf("failed to generate session summary: %w", err)
	}
	return strings.Trim(strings.TrimSpace(summary), `"`), nil
}
