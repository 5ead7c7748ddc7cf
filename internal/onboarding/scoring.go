package onboarding

import (
	"sort"

	"github.com/samber/lo"

	"github.com/yxyphoebe/lavender-mind-haven-sub000/models"
)

// ScoringTable maps (question, option) pairs to the personas they endorse.
// Personas is the candidate set in insertion order; it doubles as the
// tie-break order when scores are equal.
type ScoringTable struct {
	Personas  []string
	Questions []models.Question

	byIndex map[int]map[string][]string
}

// NewScoringTable builds a table from persisted or static questions. When
// personas is empty the candidate set is derived from the questions in order
// of first appearance.
func NewScoringTable(personas []string, questions []models.Question) ScoringTable {
	ordered := make([]models.Question, len(questions))
	copy(ordered, questions)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Index < ordered[j].Index })

	if len(personas) == 0 {
		personas = derivePersonas(ordered)
	}

	byIndex := make(map[int]map[string][]string, len(ordered))
	for _, q := range ordered {
		options := make(map[string][]string, len(q.Options))
		for _, opt := range q.Options {
			// An option endorses each persona at most once.
			options[opt.Key] = lo.Uniq(opt.MatchingRoles)
		}
		byIndex[q.Index] = options
	}

	return ScoringTable{
		Personas:  lo.Uniq(personas),
		Questions: ordered,
		byIndex:   byIndex,
	}
}

func derivePersonas(questions []models.Question) []string {
	seen := make(map[string]struct{})
	var personas []string
	for _, q := range questions {
		for _, opt := range q.Options {
			for _, role := range opt.MatchingRoles {
				if _, ok := seen[role]; ok {
					continue
				}
				seen[role] = struct{}{}
				personas = append(personas, role)
			}
		}
	}
	return personas
}

// HasQuestion reports whether index is a question of the table.
func (t ScoringTable) HasQuestion(index int) bool {
	_, ok := t.byIndex[index]
	return ok
}

// Lookup returns the personas endorsed by option key of question index.
func (t ScoringTable) Lookup(index int, key string) ([]string, bool) {
	options, ok := t.byIndex[index]
	if !ok {
		return nil, false
	}
	roles, ok := options[key]
	return roles, ok
}

// Empty reports whether no persona can be scored.
func (t ScoringTable) Empty() bool {
	return len(t.Personas) == 0
}
