package services

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/mock"

	"github.com/yxyphoebe/lavender-mind-haven-sub000/models"
)

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

type mockGenerator struct {
	mock.Mock
}

func (m *mockGenerator) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	args := m.Called(ctx, systemPrompt, userPrompt)
	return args.String(0), args.Error(1)
}

func (m *mockGenerator) Provider() string { return "mock" }

type mockPool struct {
	mock.Mock
}

func (m *mockPool) CountUnused(ctx context.Context, userID, personaID string) (int, error) {
	args := m.Called(ctx, userID, personaID)
	return args.Int(0), args.Error(1)
}

func (m *mockPool) PickAndMarkUsed(ctx context.Context, userID, personaID string) (string, bool, error) {
	args := m.Called(ctx, userID, personaID)
	return args.String(0), args.Bool(1), args.Error(2)
}

type mockReplenisher struct {
	mock.Mock
}

func (m *mockReplenisher) GenerateMessages(ctx context.Context, userID, personaID string, count int) error {
	args := m.Called(ctx, userID, personaID, count)
	return args.Error(0)
}

type mockSummaries struct {
	mock.Mock
}

func (m *mockSummaries) GenerateSummary(ctx context.Context, personaName, sessionType string, chatContext []string) (string, error) {
	args := m.Called(ctx, personaName, sessionType, chatContext)
	return args.String(0), args.Error(1)
}

type mockDaily struct {
	mock.Mock
}

func (m *mockDaily) Ensure(ctx context.Context, userID, personaID string) (string, bool, error) {
	args := m.Called(ctx, userID, personaID)
	return args.String(0), args.Bool(1), args.Error(2)
}

type mockChatContext struct {
	mock.Mock
}

func (m *mockChatContext) RecentUserTexts(ctx context.Context, userID, personaID string, n int) ([]string, error) {
	args := m.Called(ctx, userID, personaID, n)
	texts, _ := args.Get(0).([]string)
	return texts, args.Error(1)
}

type staticRoutes struct {
	route string
	err   error
}

func (r staticRoutes) LastRoute(context.Context, string) (string, bool, error) {
	return r.route, r.route != "", r.err
}

type personaMap map[string]models.Persona

func (p personaMap) FindByID(_ context.Context, id string) (*models.Persona, error) {
	persona, ok := p[id]
	if !ok {
		return nil, io.EOF
	}
	return &persona, nil
}

func (p personaMap) FindByNames(_ context.Context, names []string) (map[string]models.Persona, error) {
	out := map[string]models.Persona{}
	for _, persona := range p {
		for _, name := range names {
			if persona.Name == name {
				out[name] = persona
			}
		}
	}
	return out, nil
}
