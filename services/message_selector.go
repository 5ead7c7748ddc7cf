package services

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/yxyphoebe/lavender-mind-haven-sub000/internal/metrics"
	"github.com/yxyphoebe/lavender-mind-haven-sub000/internal/sessioncache"
	"github.com/yxyphoebe/lavender-mind-haven-sub000/models"
)

// SessionType names the kind of session a route belongs to.
const (
	SessionChat  = "chat"
	SessionVideo = "video"
)

// RouteReader exposes the last route a user visited.
type RouteReader interface {
	LastRoute(ctx context.Context, userID string) (string, bool, error)
}

// SummaryGenerator writes a post-session reflection.
type SummaryGenerator interface {
	GenerateSummary(ctx context.Context, personaName, sessionType string, chatContext []string) (string, error)
}

// DailyMessageSource hands out one daily message.
type DailyMessageSource interface {
	Ensure(ctx context.Context, userID, personaID string) (string, bool, error)
}

// ChatContextSource returns the user's latest chat turns, oldest first.
type ChatContextSource interface {
	RecentUserTexts(ctx context.Context, userID, personaID string, n int) ([]string, error)
}

// SelectorConfig holds the route rules of the selector.
type SelectorConfig struct {
	CachedRoute      string
	SessionRoutes    map[string]string
	ChatContextTurns int
}

func DefaultSelectorConfig() SelectorConfig {
	return SelectorConfig{
		CachedRoute: "/profile",
		SessionRoutes: map[string]string{
			"/chat":       SessionChat,
			"/video-call": SessionVideo,
		},
		ChatContextTurns: 3,
	}
}

// SelectRequest identifies whose message is wanted. PreviousRoute, when set,
// is used instead of the stored navigation marker.
type SelectRequest struct {
	UserID        string
	PersonaID     string
	PersonaName   string
	PreviousRoute string
}

// StatusFunc observes every status change of a selection. May be nil.
type StatusFunc func(models.MessageStatus)

// MessageSelector picks the greeting shown when the user lands on a persona
// screen: the cached one, a summary of the session just left, or a daily
// message.
type MessageSelector struct {
	config    SelectorConfig
	routes    RouteReader
	cache     sessioncache.Cache
	summaries SummaryGenerator
	daily     DailyMessageSource
	chat      ChatContextSource
	logger    *log.Logger
	metrics   *metrics.Metrics
	now       func() time.Time
}

func NewMessageSelector(
	config SelectorConfig,
	routes RouteReader,
	cache sessioncache.Cache,
	summaries SummaryGenerator,
	daily DailyMessageSource,
	chat ChatContextSource,
	logger *log.Logger,
	m *metrics.Metrics,
) *MessageSelector {
	if logger == nil {
		logger = log.New(os.Stderr)
	}
	defaults := DefaultSelectorConfig()
	if config.CachedRoute == "" {
		config.CachedRoute = defaults.CachedRoute
	}
	if config.SessionRoutes == nil {
		config.SessionRoutes = defaults.SessionRoutes
	}
	if config.ChatContextTurns <= 0 {
		config.ChatContextTurns = defaults.ChatContextTurns
	}
	return &MessageSelector{
		config:    config,
		routes:    routes,
		cache:     cache,
		summaries: summaries,
		daily:     daily,
		chat:      chat,
		logger:    logger.With("component", "message-selector"),
		metrics:   m,
		now:       time.Now,
	}
}

// Select resolves the contextual message for req. It never returns an
// error: generator failures surface as StatusError with a nil text.
func (s *MessageSelector) Select(ctx context.Context, req SelectRequest, onStatus StatusFunc) models.ContextualMessage {
	notify := func(status models.MessageStatus) {
		if onStatus != nil {
			onStatus(status)
		}
	}
	notify(models.StatusIdle)

	route := s.lastRoute(ctx, req)

	// No marker means a fresh entry, never the cached route.
	if route != "" && route == s.config.CachedRoute {
		if entry, ok := s.cached(ctx, req.UserID); ok {
			return s.finish(models.ContextualMessage{Text: &entry.Value, Source: models.SourceCached, Status: models.StatusIdle}, notify, false)
		}
	}

	notify(models.StatusGenerating)

	if sessionType, ok := s.config.SessionRoutes[route]; ok {
		if summary, ok := s.sessionSummary(ctx, req, sessionType); ok {
			s.remember(ctx, req.UserID, summary, models.SourceSessionSummary)
			return s.finish(models.ContextualMessage{Text: &summary, Source: models.SourceSessionSummary, Status: models.StatusIdle}, notify, true)
		}
	}

	text, ok, err := s.daily.Ensure(ctx, req.UserID, req.PersonaID)
	if err != nil {
		s.logger.Error("Daily message unavailable", "user", req.UserID, "persona", req.PersonaID, "err", err)
		return s.finish(models.ContextualMessage{Source: models.SourceDaily, Status: models.StatusError}, notify, true)
	}
	if !ok {
		return s.finish(models.ContextualMessage{Source: models.SourceDaily, Status: models.StatusIdle}, notify, true)
	}
	s.remember(ctx, req.UserID, text, models.SourceDaily)
	return s.finish(models.ContextualMessage{Text: &text, Source: models.SourceDaily, Status: models.StatusIdle}, notify, true)
}

func (s *MessageSelector) lastRoute(ctx context.Context, req SelectRequest) string {
	if req.PreviousRoute != "" {
		return req.PreviousRoute
	}
	if s.routes == nil {
		return ""
	}
	route, _, err := s.routes.LastRoute(ctx, req.UserID)
	if err != nil {
		s.logger.Warn("Could not read last route, treating as fresh entry", "user", req.UserID, "err", err)
		return ""
	}
	return route
}

func (s *MessageSelector) cached(ctx context.Context, userID string) (models.CachedMessage, bool) {
	if s.cache == nil {
		return models.CachedMessage{}, false
	}
	entry, ok, err := s.cache.Get(ctx, userID)
	if err != nil {
		s.logger.Warn("Session cache read failed", "user", userID, "err", err)
		return models.CachedMessage{}, false
	}
	return entry, ok && entry.Value != ""
}

// sessionSummary reports false when the summary is unusable so the caller
// falls back to the daily message.
func (s *MessageSelector) sessionSummary(ctx context.Context, req SelectRequest, sessionType string) (string, bool) {
	if s.summaries == nil {
		return "", false
	}

	var chatContext []string
	if sessionType == SessionChat && s.chat != nil {
		texts, err := s.chat.RecentUserTexts(ctx, req.UserID, req.PersonaID, s.config.ChatContextTurns)
		if err != nil {
			s.logger.Warn("Chat history unavailable for summary", "user", req.UserID, "persona", req.PersonaID, "err", err)
		} else {
			chatContext = texts
		}
	}

	summary, err := s.summaries.GenerateSummary(ctx, req.PersonaName, sessionType, chatContext)
	if err != nil {
		s.logger.Warn("Session summary failed, falling back to daily message", "user", req.UserID, "session", sessionType, "err", err)
		return "", false
	}
	summary = strings.TrimSpace(summary)
	if summary == "" {
		s.logger.Warn("Session summary was empty, falling back to daily message", "user", req.UserID, "session", sessionType)
		return "", false
	}
	return summary, true
}

func (s *MessageSelector) remember(ctx context.Context, userID, text string, source models.MessageSource) {
	if s.cache == nil {
		return
	}
	entry := models.CachedMessage{Value: text, Source: source, WrittenAt: s.now()}
	if err := s.cache.Put(ctx, userID, entry); err != nil {
		s.logger.Error("Failed to cache contextual message", "user", userID, "source", source, "err", err)
	}
}

func (s *MessageSelector) finish(msg models.ContextualMessage, notify StatusFunc, generated bool) models.ContextualMessage {
	if generated {
		notify(msg.Status)
	}
	if s.metrics != nil {
		s.metrics.MessagesSelected.WithLabelValues(string(msg.Source), string(msg.Status)).Inc()
	}
	return msg
}
