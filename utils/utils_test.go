package utils

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yxyphoebe/lavender-mind-haven-sub000/internal/onboarding"
	"github.com/yxyphoebe/lavender-mind-haven-sub000/models"
)

func TestAdminTokenRoundTrip(t *testing.T) {
	SetJWTSecret("test-secret")
	token, err := GenerateAdminToken("a1", "ops@example.com", "admin", time.Hour)
	require.NoError(t, err)

	claims, err := ParseJWTToken(token)
	require.NoError(t, err)
	assert.Equal(t, "a1", claims.UserID())
	assert.Equal(t, "ops@example.com", claims.Email)
	assert.Equal(t, "admin", claims.Role)
}

func TestParseProviderToken(t *testing.T) {
	SetJWTSecret("test-secret")
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   "user-42",
		"email": "me@example.com",
		"exp":   time.Now().Add(time.Minute).Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	claims, err := ParseJWTToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-42", claims.UserID())
	assert.Empty(t, claims.Role)
}

func TestParseRejectsBadTokens(t *testing.T) {
	SetJWTSecret("test-secret")

	expired, err := GenerateAdminToken("a1", "x@example.com", "admin", -time.Minute)
	require.NoError(t, err)
	_, err = ParseJWTToken(expired)
	assert.ErrorIs(t, err, ErrTokenExpired)

	_, err = ParseJWTToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"email": "x"}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = ParseJWTToken(noSubject)
	assert.ErrorIs(t, err, ErrInvalidToken)

	SetJWTSecret("other")
	valid, err := GenerateAdminToken("a1", "x@example.com", "admin", time.Hour)
	require.NoError(t, err)
	SetJWTSecret("test-secret")
	_, err = ParseJWTToken(valid)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestMissingSecret(t *testing.T) {
	SetJWTSecret("")
	_, err := GenerateAdminToken("a1", "x", "admin", time.Hour)
	assert.ErrorIs(t, err, ErrNoJWTSecret)
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("lavender")
	require.NoError(t, err)
	assert.True(t, CheckPasswordHash("lavender", hash))
	assert.False(t, CheckPasswordHash("rosemary", hash))
}

func TestExtractNameFromEmail(t *testing.T) {
	assert.Equal(t, "jo", ExtractNameFromEmail("jo@example.com"))
	assert.Equal(t, "plain", ExtractNameFromEmail("plain"))
}

func TestNewLoggerLevel(t *testing.T) {
	assert.Equal(t, log.DebugLevel, NewLogger("debug").GetLevel())
	assert.Equal(t, log.InfoLevel, NewLogger("nonsense").GetLevel())
}

type seedRecorder struct {
	personas  []models.Persona
	questions []models.Question
	err       error
}

func (s *seedRecorder) Seed(_ context.Context, p []models.Persona) error {
	s.personas = p
	return s.err
}

func (s *seedRecorder) SeedIfEmpty(_ context.Context, q []models.Question) error {
	s.questions = q
	return nil
}

func TestSeedCatalogue(t *testing.T) {
	rec := &seedRecorder{}
	require.NoError(t, SeedCatalogue(context.Background(), rec, rec))

	names := make([]string, 0, len(rec.personas))
	for _, p := range rec.personas {
		names = append(names, p.Name)
		assert.NotEmpty(t, p.ReplicaID)
	}
	assert.Equal(t, onboarding.DefaultPersonas, names)
	assert.Len(t, rec.questions, len(onboarding.DefaultQuestions()))

	failing := &seedRecorder{err: errors.New("down")}
	assert.Error(t, SeedCatalogue(context.Background(), failing, failing))
	assert.Nil(t, failing.questions)
}
