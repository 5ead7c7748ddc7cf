package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yxyphoebe/lavender-mind-haven-sub000/models"
)

const defaultChatHistoryTurns = 12

// ChatRepository stores chat turns.
type ChatRepository interface {
	Append(ctx context.Context, msg models.ChatMessage) (models.ChatMessage, error)
	History(ctx context.Context, userID, personaID string, limit int) ([]models.ChatMessage, error)
}

// ChatService runs text conversations between a user and a persona.
type ChatService struct {
	store        ChatRepository
	personas     PersonaFinder
	gen          TextGenerator
	historyTurns int
	now          func() time.Time
}

func NewChatService(store ChatRepository, personas PersonaFinder, gen TextGenerator) *ChatService {
	return &ChatService{
		store:        store,
		personas:     personas,
		gen:          gen,
		historyTurns: defaultChatHistoryTurns,
		now:          time.Now,
	}
}

// History returns the latest turns of the conversation, oldest first.
func (s *ChatService) History(ctx context.Context, userID, personaID string, limit int) ([]models.ChatMessage, error) {
	if limit <= 0 {
		limit = s.historyTurns
	}
	return s.store.History(ctx, userID, personaID, limit)
}

// Reply stores the user's message, asks the persona for an answer and stores
// that too. The user turn is kept even when generation fails.
func (s *ChatService) Reply(ctx context.Context, userID, personaID, text string) (models.ChatMessage, models.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.ChatMessage{}, models.ChatMessage{}, errors.New("message text is required")
	}

	persona, err := s.personas.FindByID(ctx, personaID)
	if err != nil {
		return models.ChatMessage{}, models.ChatMessage{}, fmt.Errorf("failed to load persona: %w", err)
	}

	userTurn, err := s.store.Append(ctx, models.ChatMessage{
		UserID:    userID,
		PersonaID: personaID,
		Sender:    models.SenderUser,
		Text:      text,
		CreatedAt: s.now(),
	})
	if err != nil {
		return models.ChatMessage{}, models.ChatMessage{}, err
	}

	history, err := s.store.History(ctx, userID, personaID, s.historyTurns)
	if err != nil {
		return userTurn, models.ChatMessage{}, err
	}

	answer, err := s.gen.Generate(ctx, personaPrompt(persona), transcript(persona.Name, history))
	if err != nil {
		return userTurn, models.ChatMessage{}, fmt.Errorf("failed to generate reply: %w", err)
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return userTurn, models.ChatMessage{}, errors.New("empty reply generated")
	}

	reply, err := s.store.Append(ctx, models.ChatMessage{
		UserID:    userID,
		PersonaID: personaID,
		Sender:    models.SenderPersona,
		Text:      answer,
		CreatedAt: s.now(),
	})
	if err != nil {
		return userTurn, models.ChatMessage{}, err
	}
	return userTurn, reply, nil
}

func personaPrompt(p *models.Persona) string {
	return fmt.Sprintf(
		`You are %s, a wellness companion. Your style: %s. %s
Reply in a caring, conversational tone in at most four sentences. You are not a therapist; if the user mentions being in danger, encourage them to contact local emergency services.`,
		p.Name, p.Style, p.Description,
	)
}

func transcript(personaName string, history []models.ChatMessage) string {
	var b strings.Builder
	b.WriteString("Conversation so far:\n")
	for _, turn := range history {
		speaker := "User"
		if turn.Sender == models.SenderPersona {
			speaker = personaName
		}
		fmt.Fprintf(&b, "%s: %s\n", speaker, turn.Text)
	}
	fmt.Fprintf(&b, "%s:", personaName)
	return b.String()
}
