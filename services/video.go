package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yxyphoebe/lavender-mind-haven-sub000/models"
)

// ErrNoReplica is returned for personas without a video avatar.
var ErrNoReplica = errors.New("persona has no video replica")

// ConversationProvider creates and ends hosted video conversations.
type ConversationProvider interface {
	CreateConversation(ctx context.Context, replicaID, name, conversationalContext, greeting string) (Conversation, error)
	EndConversation(ctx context.Context, conversationID string) error
}

// VideoSessionRepository stores video sessions.
type VideoSessionRepository interface {
	Create(ctx context.Context, session models.VideoSession) (models.VideoSession, error)
	End(ctx context.Context, userID, conversationID string) error
}

// VideoService opens and closes video calls with a persona's replica.
type VideoService struct {
	provider ConversationProvider
	personas PersonaFinder
	sessions VideoSessionRepository
	now      func() time.Time
}

func NewVideoService(provider ConversationProvider, personas PersonaFinder, sessions VideoSessionRepository) *VideoService {
	return &VideoService{provider: provider, personas: personas, sessions: sessions, now: time.Now}
}

// Start opens a conversation for userID with the persona.
func (s *VideoService) Start(ctx context.Context, userID, personaID string) (models.VideoSession, error) {
	persona, err := s.personas.FindByID(ctx, personaID)
	if err != nil {
		return models.VideoSession{}, fmt.Errorf("failed to load persona: %w", err)
	}
	if persona.ReplicaID == "" {
		return models.VideoSession{}, ErrNoReplica
	}

	conv, err := s.provider.CreateConversation(ctx,
		persona.ReplicaID,
		fmt.Sprintf("%s with %s", persona.Name, userID),
		personaPrompt(persona),
		fmt.Sprintf("Hi, it's %s. How are you feeling right now?", persona.Name),
	)
	if err != nil {
		return models.VideoSession{}, err
	}

	return s.sessions.Create(ctx, models.VideoSession{
		UserID:          userID,
		PersonaID:       personaID,
		ConversationID:  conv.ConversationID,
		ConversationURL: conv.ConversationURL,
		CreatedAt:       s.now(),
	})
}

// End closes the user's conversation at the provider and marks it ended.
func (s *VideoService) End(ctx context.Context, userID, conversationID string) error {
	if err := s.sessions.End(ctx, userID, conversationID); err != nil {
		return err
	}
	return s.provider.EndConversation(ctx, conversationID)
}
