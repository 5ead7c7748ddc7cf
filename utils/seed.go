package utils

import (
	"context"
	"fmt"

	"github.com/yxyphoebe/lavender-mind-haven-sub000/internal/onboarding"
	"github.com/yxyphoebe/lavender-mind-haven-sub000/models"
)

// DefaultPersonas is the built-in companion catalogue.
func DefaultPersonas() []models.Persona {
	return []models.Persona{
		{
			Name:        "Sage",
			Style:       "calm, wise and reflective",
			Description: "Sage helps you slow down, untangle stress and find perspective through thoughtful questions.",
			AvatarURL:   "/avatars/sage.png",
			ReplicaID:   "r79e1c033f",
		},
		{
			Name:        "Elena",
			Style:       "warm, nurturing and patient",
			Description: "Elena listens gently and helps you care for your relationships and yourself.",
			AvatarURL:   "/avatars/elena.png",
			ReplicaID:   "rb17cf590e15",
		},
		{
			Name:        "Julie",
			Style:       "upbeat, playful and encouraging",
			Description: "Julie is the friend you can vent to about anything, any time.",
			AvatarURL:   "/avatars/julie.png",
			ReplicaID:   "r1af76e94d00",
		},
		{
			Name:        "Camille",
			Style:       "direct, practical and motivating",
			Description: "Camille coaches you toward small, concrete steps for growth.",
			AvatarURL:   "/avatars/camille.png",
			ReplicaID:   "rf4703150052",
		},
	}
}

type personaSeeder interface {
	Seed(ctx context.Context, personas []models.Persona) error
}

type questionSeeder interface {
	SeedIfEmpty(ctx context.Context, questions []models.Question) error
}

// SeedCatalogue inserts the built-in personas and, when none are authored
// yet, the built-in onboarding questions.
func SeedCatalogue(ctx context.Context, personas personaSeeder, questions questionSeeder) error {
	if err := personas.Seed(ctx, DefaultPersonas()); err != nil {
		return fmt.Errorf("failed to seed personas: %w", err)
	}
	if err := questions.SeedIfEmpty(ctx, onboarding.DefaultQuestions()); err != nil {
		return fmt.Errorf("failed to seed questions: %w", err)
	}
	return nil
}
