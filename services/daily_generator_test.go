package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yxyphoebe/lavender-mind-haven-sub000/models"
)

type recordingPool struct {
	userID, personaID string
	texts             []string
	err               error
}

func (p *recordingPool) InsertMessages(_ context.Context, userID, personaID string, texts []string) error {
	p.userID, p.personaID, p.texts = userID, personaID, texts
	return p.err
}

func sagePersonas() personaMap {
	return personaMap{"p1": models.Persona{Name: "Sage", Style: "calm and wise"}}
}

func TestGenerateMessagesInsertsParsedList(t *testing.T) {
	gen := &mockGenerator{}
	gen.On("Generate", mock.Anything, mock.Anything, mock.Anything).
		Return("```json\n[\"one\", \" two \", \"\", \"one\", \"three\"]\n```", nil)
	pool := &recordingPool{}

	err := NewDailyMessageGenerator(gen, sagePersonas(), pool).GenerateMessages(context.Background(), "u1", "p1", 5)

	require.NoError(t, err)
	assert.Equal(t, "u1", pool.userID)
	assert.Equal(t, "p1", pool.personaID)
	assert.Equal(t, []string{"one", "two", "three"}, pool.texts)
}

func TestGenerateMessagesTruncatesToCount(t *testing.T) {
	gen := &mockGenerator{}
	gen.On("Generate", mock.Anything, mock.Anything, mock.Anything).Return(`["a","b","c","d"]`, nil)
	pool := &recordingPool{}

	err := NewDailyMessageGenerator(gen, sagePersonas(), pool).GenerateMessages(context.Background(), "u1", "p1", 2)

	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, pool.texts)
}

func TestGenerateMessagesRejectsBadOutput(t *testing.T) {
	for name, output := range map[string]string{
		"not json": "Here are your messages!",
		"empty":    "[]",
	} {
		t.Run(name, func(t *testing.T) {
			gen := &mockGenerator{}
			gen.On("Generate", mock.Anything, mock.Anything, mock.Anything).Return(output, nil)
			pool := &recordingPool{}

			err := NewDailyMessageGenerator(gen, sagePersonas(), pool).GenerateMessages(context.Background(), "u1", "p1", 5)

			assert.Error(t, err)
			assert.Nil(t, pool.texts)
		})
	}
}

func TestGenerateMessagesPropagatesFailures(t *testing.T) {
	gen := &mockGenerator{}
	gen.On("Generate", mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("quota"))

	err := NewDailyMessageGenerator(gen, sagePersonas(), &recordingPool{}).GenerateMessages(context.Background(), "u1", "p1", 5)
	assert.ErrorContains(t, err, "quota")

	err = NewDailyMessageGenerator(gen, sagePersonas(), &recordingPool{}).GenerateMessages(context.Background(), "u1", "unknown", 5)
	assert.Error(t, err)
}

func TestGenerateSummaryTrimsOutput(t *testing.T) {
	gen := &mockGenerator{}
	gen.On("Generate", mock.Anything, mock.Anything, mock.MatchedBy(func(prompt string) bool {
		return strings.Contains(prompt, "chat session") && strings.Contains(prompt, "- I feel tired")
	})).Return(`  "Rest well tonight."  `, nil)

	summary, err := NewSessionSummaryService(gen).GenerateSummary(context.Background(), "Sage", "chat", []string{"I feel tired"})

	require.NoError(t, err)
	assert.Equal(t, "Rest well tonight.", summary)
}
