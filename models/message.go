package models

import "time"

// MessageSource records which path produced a contextual message.
type MessageSource string

const (
	SourceCached         MessageSource = "cached"
	SourceSessionSummary MessageSource = "session_summary"
	SourceDaily          MessageSource = "daily"
)

// MessageStatus is the state of a contextual message request:
// idle -> generating -> idle | error.
type MessageStatus string

const (
	StatusIdle       MessageStatus = "idle"
	StatusGenerating MessageStatus = "generating"
	StatusError      MessageStatus = "error"
)

// ContextualMessage is the outcome of one message selection. Text is nil when
// no message is available; the client shows its own fallback greeting then.
type ContextualMessage struct {
	Text   *string       `json:"text"`
	Source MessageSource `json:"source"`
	Status MessageStatus `json:"status"`
}

// CachedMessage is the session-scoped cache entry, tagged with the path that
// wrote it.
type CachedMessage struct {
	Value     string        `json:"value"`
	Source    MessageSource `json:"source"`
	WrittenAt time.Time     `json:"writtenAt"`
}
