package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yxyphoebe/lavender-mind-haven-sub000/internal/sessioncache"
	"github.com/yxyphoebe/lavender-mind-haven-sub000/models"
)

type selectorFixture struct {
	cache     *sessioncache.MemoryCache
	summaries *mockSummaries
	daily     *mockDaily
	chat      *mockChatContext
}

func newSelectorFixture() *selectorFixture {
	return &selectorFixture{
		cache:     sessioncache.NewMemoryCache(time.Hour),
		summaries: &mockSummaries{},
		daily:     &mockDaily{},
		chat:      &mockChatContext{},
	}
}

func (f *selectorFixture) selector(route string) *MessageSelector {
	return NewMessageSelector(DefaultSelectorConfig(), staticRoutes{route: route}, f.cache, f.summaries, f.daily, f.chat, quietLogger(), nil)
}

func request() SelectRequest {
	return SelectRequest{UserID: "u1", PersonaID: "p1", PersonaName: "Sage"}
}

func recordStatuses() (*[]models.MessageStatus, StatusFunc) {
	var seen []models.MessageStatus
	return &seen, func(s models.MessageStatus) { seen = append(seen, s) }
}

func TestSelectReturnsCachedMessageOnProfile(t *testing.T) {
	f := newSelectorFixture()
	require.NoError(t, f.cache.Put(context.Background(), "u1", models.CachedMessage{Value: "welcome back", Source: models.SourceDaily}))

	seen, onStatus := recordStatuses()
	msg := f.selector("/profile").Select(context.Background(), request(), onStatus)

	require.NotNil(t, msg.Text)
	assert.Equal(t, "welcome back", *msg.Text)
	assert.Equal(t, models.SourceCached, msg.Source)
	assert.Equal(t, models.StatusIdle, msg.Status)
	assert.Equal(t, []models.MessageStatus{models.StatusIdle}, *seen)
	f.daily.AssertNotCalled(t, "Ensure", mock.Anything, mock.Anything, mock.Anything)
	f.summaries.AssertNotCalled(t, "GenerateSummary", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSelectZeroConfigFreshEntrySkipsCache(t *testing.T) {
	f := newSelectorFixture()
	require.NoError(t, f.cache.Put(context.Background(), "u1", models.CachedMessage{Value: "stale", Source: models.SourceDaily}))
	f.daily.On("Ensure", mock.Anything, "u1", "p1").Return("fresh start", true, nil)

	selector := NewMessageSelector(SelectorConfig{}, staticRoutes{}, f.cache, f.summaries, f.daily, f.chat, quietLogger(), nil)
	msg := selector.Select(context.Background(), request(), nil)

	require.NotNil(t, msg.Text)
	assert.Equal(t, "fresh start", *msg.Text)
	assert.Equal(t, models.SourceDaily, msg.Source)
	assert.Equal(t, DefaultSelectorConfig(), selector.config)
}

func TestSelectProfileWithoutCacheUsesDaily(t *testing.T) {
	f := newSelectorFixture()
	f.daily.On("Ensure", mock.Anything, "u1", "p1").Return("good morning", true, nil)

	msg := f.selector("/profile").Select(context.Background(), request(), nil)

	require.NotNil(t, msg.Text)
	assert.Equal(t, "good morning", *msg.Text)
	assert.Equal(t, models.SourceDaily, msg.Source)
}

func TestSelectChatSummaryUsesRecentUserTurns(t *testing.T) {
	f := newSelectorFixture()
	turns := []string{"I slept badly", "work was a lot", "feeling better now"}
	f.chat.On("RecentUserTexts", mock.Anything, "u1", "p1", 3).Return(turns, nil)
	f.summaries.On("GenerateSummary", mock.Anything, "Sage", SessionChat, turns).Return("You handled today with care.", nil)

	seen, onStatus := recordStatuses()
	msg := f.selector("/chat").Select(context.Background(), request(), onStatus)

	require.NotNil(t, msg.Text)
	assert.Equal(t, "You handled today with care.", *msg.Text)
	assert.Equal(t, models.SourceSessionSummary, msg.Source)
	assert.Equal(t, []models.MessageStatus{models.StatusIdle, models.StatusGenerating, models.StatusIdle}, *seen)

	entry, ok, err := f.cache.Get(context.Background(), "u1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "You handled today with care.", entry.Value)
	assert.Equal(t, models.SourceSessionSummary, entry.Source)
	assert.False(t, entry.WrittenAt.IsZero())
}

func TestSelectVideoSummaryHasNoChatContext(t *testing.T) {
	f := newSelectorFixture()
	f.summaries.On("GenerateSummary", mock.Anything, "Sage", SessionVideo, []string(nil)).Return("Lovely to see you.", nil)

	msg := f.selector("/video-call").Select(context.Background(), request(), nil)

	assert.Equal(t, models.SourceSessionSummary, msg.Source)
	f.chat.AssertNotCalled(t, "RecentUserTexts", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSelectSummaryFailureFallsThroughToDaily(t *testing.T) {
	cases := map[string]func(*mockSummaries){
		"error": func(m *mockSummaries) {
			m.On("GenerateSummary", mock.Anything, "Sage", SessionVideo, mock.Anything).Return("", errors.New("timeout"))
		},
		"empty": func(m *mockSummaries) {
			m.On("GenerateSummary", mock.Anything, "Sage", SessionVideo, mock.Anything).Return("   ", nil)
		},
	}
	for name, setup := range cases {
		t.Run(name, func(t *testing.T) {
			f := newSelectorFixture()
			setup(f.summaries)
			f.daily.On("Ensure", mock.Anything, "u1", "p1").Return("daily hello", true, nil)

			msg := f.selector("/video-call").Select(context.Background(), request(), nil)

			require.NotNil(t, msg.Text)
			assert.Equal(t, "daily hello", *msg.Text)
			assert.Equal(t, models.SourceDaily, msg.Source)
			assert.Equal(t, models.StatusIdle, msg.Status)
		})
	}
}

func TestSelectDailyFailureReportsError(t *testing.T) {
	f := newSelectorFixture()
	f.daily.On("Ensure", mock.Anything, "u1", "p1").Return("", false, errors.New("count failed"))

	seen, onStatus := recordStatuses()
	msg := f.selector("").Select(context.Background(), request(), onStatus)

	assert.Nil(t, msg.Text)
	assert.Equal(t, models.SourceDaily, msg.Source)
	assert.Equal(t, models.StatusError, msg.Status)
	assert.Equal(t, []models.MessageStatus{models.StatusIdle, models.StatusGenerating, models.StatusError}, *seen)

	_, cached, err := f.cache.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.False(t, cached)
}

func TestSelectEmptyPoolIsNotAnError(t *testing.T) {
	f := newSelectorFixture()
	f.daily.On("Ensure", mock.Anything, "u1", "p1").Return("", false, nil)

	msg := f.selector("/home").Select(context.Background(), request(), nil)

	assert.Nil(t, msg.Text)
	assert.Equal(t, models.StatusIdle, msg.Status)
	_, cached, _ := f.cache.Get(context.Background(), "u1")
	assert.False(t, cached)
}

func TestSelectPrefersExplicitPreviousRoute(t *testing.T) {
	f := newSelectorFixture()
	f.summaries.On("GenerateSummary", mock.Anything, "Sage", SessionVideo, mock.Anything).Return("after video", nil)

	req := request()
	req.PreviousRoute = "/video-call"
	msg := f.selector("/profile").Select(context.Background(), req, nil)

	assert.Equal(t, models.SourceSessionSummary, msg.Source)
}

func TestSelectRouteReadErrorTreatedAsFreshEntry(t *testing.T) {
	f := newSelectorFixture()
	f.daily.On("Ensure", mock.Anything, "u1", "p1").Return("hi", true, nil)

	selector := NewMessageSelector(DefaultSelectorConfig(), staticRoutes{err: errors.New("redis down")}, f.cache, f.summaries, f.daily, f.chat, quietLogger(), nil)
	msg := selector.Select(context.Background(), request(), nil)

	assert.Equal(t, models.SourceDaily, msg.Source)
}

func TestSelectAlwaysResolvesWhenSummariesFail(t *testing.T) {
	for _, route := range []string{"/chat", "/video-call", "/profile", "/home", ""} {
		f := newSelectorFixture()
		f.chat.On("RecentUserTexts", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return([]string{}, nil)
		f.summaries.On("GenerateSummary", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("down"))
		f.daily.On("Ensure", mock.Anything, "u1", "p1").Return("", false, errors.New("down"))

		msg := f.selector(route).Select(context.Background(), request(), nil)
		assert.True(t, msg.Source == models.SourceDaily || msg.Status == models.StatusError, route)
	}
}
