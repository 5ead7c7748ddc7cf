package navigation

import (
	"context"
	"fmt"

	"github.com/yxyphoebe/lavender-mind-haven-sub000/models"
)

// Store holds one "last route" slot per user.
type Store interface {
	// Swap stores route and returns the value it replaced ("" when unset).
	Swap(ctx context.Context, userID, route string) (string, error)
	// Get returns the current route and whether one is set.
	Get(ctx context.Context, userID string) (string, bool, error)
}

// Tracker records the most recently entered screen of each user. Writes
// overwrite; no history is kept.
type Tracker struct {
	store Store
}

func NewTracker(store Store) *Tracker {
	return &Tracker{store: store}
}

// Track records route as the user's current screen and returns the transition
// so callers can hand the previous route to the next request explicitly.
// Any string is accepted verbatim.
func (t *Tracker) Track(ctx context.Context, userID, route string) (models.NavigationTransition, error) {
	previous, err := t.store.Swap(ctx, userID, route)
	if err != nil {
		return models.NavigationTransition{}, fmt.Errorf("failed to track navigation: %w", err)
	}
	return models.NavigationTransition{PreviousRoute: previous, Route: route}, nil
}

// LastRoute returns the user's most recently tracked route.
func (t *Tracker) LastRoute(ctx context.Context, userID string) (string, bool, error) {
	route, ok, err := t.store.Get(ctx, userID)
	if err != nil {
		return "", false, fmt.Errorf("failed to read last route: %w", err)
	}
	return route, ok, nil
}
