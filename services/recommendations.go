package services

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/yxyphoebe/lavender-mind-haven-sub000/internal/metrics"
	"github.com/yxyphoebe/lavender-mind-haven-sub000/internal/onboarding"
	"github.com/yxyphoebe/lavender-mind-haven-sub000/models"
)

const (
	TableSourceStatic   = "static"
	TableSourceDatabase = "database"
)

// TableSource yields the scoring table used for an onboarding run.
type TableSource interface {
	Table(ctx context.Context) (onboarding.ScoringTable, error)
}

// StaticTable serves the built-in questions.
type StaticTable struct{}

func (StaticTable) Table(context.Context) (onboarding.ScoringTable, error) {
	return onboarding.DefaultScoringTable(), nil
}

// QuestionLister reads the authored question set.
type QuestionLister interface {
	List(ctx context.Context) ([]models.Question, error)
}

// DatabaseTable builds the table from authored questions and falls back to
// the built-in table while none are stored.
type DatabaseTable struct {
	Questions QuestionLister
	Personas  []string
	Logger    *log.Logger
}

func (t DatabaseTable) Table(ctx context.Context) (onboarding.ScoringTable, error) {
	questions, err := t.Questions.List(ctx)
	if err != nil {
		return onboarding.ScoringTable{}, fmt.Errorf("failed to load questions: %w", err)
	}
	if len(questions) == 0 {
		if t.Logger != nil {
			t.Logger.Warn("No authored questions stored, using built-in table")
		}
		return onboarding.DefaultScoringTable(), nil
	}
	return onboarding.NewScoringTable(t.Personas, questions), nil
}

// RecommendationStore persists onboarding results. Writes are insert-only.
type RecommendationStore interface {
	SaveAssessment(ctx context.Context, assessment models.Assessment) error
	InsertBatch(ctx context.Context, records []models.RecommendationRecord) error
	Latest(ctx context.Context, userID string) ([]models.RecommendationRecord, error)
}

// PersonaDirectory resolves persona names to stored personas.
type PersonaDirectory interface {
	FindByNames(ctx context.Context, names []string) (map[string]models.Persona, error)
}

// RecommendationService runs onboarding: score the answers, keep a snapshot
// and store the ranked personas as a new batch.
type RecommendationService struct {
	recommender *onboarding.Recommender
	tables      TableSource
	store       RecommendationStore
	personas    PersonaDirectory
	logger      *log.Logger
	metrics     *metrics.Metrics
	now         func() time.Time
}

func NewRecommendationService(
	recommender *onboarding.Recommender,
	tables TableSource,
	store RecommendationStore,
	personas PersonaDirectory,
	logger *log.Logger,
	m *metrics.Metrics,
) *RecommendationService {
	if logger == nil {
		logger = log.New(os.Stderr)
	}
	if tables == nil {
		tables = StaticTable{}
	}
	return &RecommendationService{
		recommender: recommender,
		tables:      tables,
		store:       store,
		personas:    personas,
		logger:      logger.With("component", "recommendations"),
		metrics:     m,
		now:         time.Now,
	}
}

// SubmitResult is the outcome of an onboarding submission. Saved is false
// when persisting failed; the ranking is still returned.
type SubmitResult struct {
	BatchID         string                        `json:"batchId"`
	Recommendations []models.RecommendationRecord `json:"recommendations"`
	Saved           bool                          `json:"saved"`
}

// Questions returns the question set the client should render.
func (s *RecommendationService) Questions(ctx context.Context) ([]models.Question, error) {
	table, err := s.table(ctx)
	if err != nil {
		return nil, err
	}
	return table.Questions, nil
}

// Submit scores answers for userID and records the result.
func (s *RecommendationService) Submit(ctx context.Context, userID string, answers models.AnswerSet) SubmitResult {
	table, err := s.table(ctx)
	if err != nil {
		s.logger.Error("Scoring table unavailable, using built-in table", "err", err)
		table = onboarding.DefaultScoringTable()
	}

	ranked := s.recommender.Compute(answers, table)
	if s.metrics != nil {
		s.metrics.Recommendations.Inc()
	}

	now := s.now()
	batchID := uuid.NewString()
	records := make([]models.RecommendationRecord, 0, len(ranked))
	ids := s.personaIDs(ctx, ranked)
	for _, rec := range ranked {
		records = append(records, models.RecommendationRecord{
			UserID:      userID,
			PersonaID:   ids[rec.PersonaName],
			PersonaName: rec.PersonaName,
			Score:       rec.Score,
			Rank:        rec.Rank,
			BatchID:     batchID,
			CreatedAt:   now,
		})
	}

	result := SubmitResult{BatchID: batchID, Recommendations: records}
	if s.store == nil {
		return result
	}

	assessment := models.Assessment{
		UserID:    userID,
		BatchID:   batchID,
		Answers:   answersDocument(answers),
		CreatedAt: now,
	}
	if err := s.store.SaveAssessment(ctx, assessment); err != nil {
		s.logger.Error("Failed to save assessment", "user", userID, "err", err)
		return result
	}
	if err := s.store.InsertBatch(ctx, records); err != nil {
		s.logger.Error("Failed to save recommendations", "user", userID, "batch", batchID, "err", err)
		return result
	}
	result.Saved = true
	return result
}

// Latest returns the user's most recent batch.
func (s *RecommendationService) Latest(ctx context.Context, userID string) ([]models.RecommendationRecord, error) {
	return s.store.Latest(ctx, userID)
}

func (s *RecommendationService) table(ctx context.Context) (onboarding.ScoringTable, error) {
	return s.tables.Table(ctx)
}

func (s *RecommendationService) personaIDs(ctx context.Context, ranked []models.Recommendation) map[string]string {
	ids := make(map[string]string, len(ranked))
	if s.personas == nil || len(ranked) == 0 {
		return ids
	}
	names := make([]string, 0, len(ranked))
	for _, rec := range ranked {
		names = append(names, rec.PersonaName)
	}
	found, err := s.personas.FindByNames(ctx, names)
	if err != nil {
		s.logger.Warn("Could not resolve persona ids", "err", err)
		return ids
	}
	for name, persona := range found {
		ids[name] = persona.ID.Hex()
	}
	return ids
}

// answersDocument re-keys answers by string, which is what BSON documents
// require.
func answersDocument(answers models.AnswerSet) map[string][]string {
	doc := make(map[string][]string, len(answers))
	for index, keys := range answers {
		doc[strconv.Itoa(index)] = keys
	}
	return doc
}
