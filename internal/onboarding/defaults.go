package onboarding

import "github.com/yxyphoebe/lavender-mind-haven-sub000/models"

// DefaultPersonas is the candidate order of the built-in personas.
var DefaultPersonas = []string{"Sage", "Elena", "Julie", "Camille"}

// DefaultQuestions is the built-in onboarding assessment.
func DefaultQuestions() []models.Question {
	return []models.Question{
		{
			Index:         0,
			Prompt:        "What brings you here today?",
			SelectionMode: models.SelectionMultiple,
			Options: []models.Option{
				{Key: "talk-emotions", Label: "I want to talk through my emotions", MatchingRoles: []string{"Julie"}},
				{Key: "manage-stress", Label: "I'm looking to manage stress or anxiety", MatchingRoles: []string{"Sage"}},
				{Key: "relationships", Label: "Relationships are on my mind", MatchingRoles: []string{"Elena"}},
				{Key: "self-growth", Label: "I want to grow and set goals", MatchingRoles: []string{"Camille"}},
			},
		},
		{
			Index:         1,
			Prompt:        "How do you like to be supported?",
			SelectionMode: models.SelectionSingle,
			Options: []models.Option{
				{Key: "gentle-listening", Label: "Someone who just listens", MatchingRoles: []string{"Elena", "Julie"}},
				{Key: "reflective-questions", Label: "Questions that help me reflect", MatchingRoles: []string{"Sage"}},
				{Key: "practical-advice", Label: "Practical, concrete advice", MatchingRoles: []string{"Camille"}},
			},
		},
		{
			Index:         2,
			Prompt:        "What kind of companion feels right for you?",
			SelectionMode: models.SelectionMultiple,
			Options: []models.Option{
				{Key: "warm-motherly", Label: "Warm and nurturing", MatchingRoles: []string{"Elena", "Sage"}},
				{Key: "calm-wise", Label: "Calm and wise", MatchingRoles: []string{"Sage"}},
				{Key: "upbeat-friend", Label: "An upbeat friend", MatchingRoles: []string{"Julie"}},
				{Key: "direct-coach", Label: "A direct coach", MatchingRoles: []string{"Camille"}},
			},
		},
		{
			Index:         3,
			Prompt:        "When do you usually want to check in?",
			SelectionMode: models.SelectionSingle,
			Options: []models.Option{
				{Key: "mornings", Label: "Mornings, to set my intentions", MatchingRoles: []string{"Camille"}},
				{Key: "evenings", Label: "Evenings, to unwind", MatchingRoles: []string{"Elena"}},
				{Key: "in-the-moment", Label: "Whenever something comes up", MatchingRoles: []string{"Julie"}},
				{Key: "quiet-time", Label: "During quiet moments to reflect", MatchingRoles: []string{"Sage"}},
			},
		},
	}
}

// DefaultScoringTable is the static source of truth used when questions are
// not loaded from the database.
func DefaultScoringTable() ScoringTable {
	return NewScoringTable(DefaultPersonas, DefaultQuestions())
}
