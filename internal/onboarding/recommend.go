package onboarding

import (
	"os"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/yxyphoebe/lavender-mind-haven-sub000/models"
)

// DefaultRecommendationSize is how many ranked personas are kept downstream.
const DefaultRecommendationSize = 3

// Recommender turns an Answer Set into ranked personas.
type Recommender struct {
	logger *log.Logger
	limit  int
}

func NewRecommender(logger *log.Logger, limit int) *Recommender {
	if logger == nil {
		logger = log.New(os.Stderr)
	}
	if limit <= 0 {
		limit = DefaultRecommendationSize
	}
	return &Recommender{logger: logger, limit: limit}
}

// Scores tallies one vote per (question, selected option) endorsement. Only
// personas of the table's candidate set are scored. Unknown question indices
// and option keys are logged and skipped.
func (r *Recommender) Scores(answers models.AnswerSet, table ScoringTable) map[string]int {
	scores := make(map[string]int, len(table.Personas))
	for _, persona := range table.Personas {
		scores[persona] = 0
	}

	indices := make([]int, 0, len(answers))
	for index := range answers {
		indices = append(indices, index)
	}
	sort.Ints(indices)

	for _, index := range indices {
		if !table.HasQuestion(index) {
			r.logger.Warn("skipping answer for unknown question", "index", index)
			continue
		}
		seen := make(map[string]struct{}, len(answers[index]))
		for _, key := range answers[index] {
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}

			roles, ok := table.Lookup(index, key)
			if !ok {
				r.logger.Warn("no mapping for option", "index", index, "option", key)
				continue
			}
			for _, role := range roles {
				if _, eligible := scores[role]; !eligible {
					r.logger.Warn("option endorses persona outside the candidate set", "index", index, "option", key, "persona", role)
					continue
				}
				scores[role]++
			}
		}
	}
	return scores
}

// Compute ranks every candidate persona by score, highest first, keeping the
// candidate order on ties, and returns the top entries. An empty table yields
// an empty result; all-zero scores still produce a ranking.
func (r *Recommender) Compute(answers models.AnswerSet, table ScoringTable) []models.Recommendation {
	if table.Empty() {
		return []models.Recommendation{}
	}

	scores := r.Scores(answers, table)

	ranked := make([]models.Recommendation, 0, len(table.Personas))
	for _, persona := range table.Personas {
		ranked = append(ranked, models.Recommendation{PersonaName: persona, Score: scores[persona]})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })

	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	if len(ranked) > r.limit {
		ranked = ranked[:r.limit]
	}
	return ranked
}
