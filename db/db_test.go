package db

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestExtractDBName(t *testing.T) {
	cases := map[string]string{
		"mongodb://localhost:27017/haven":                "haven",
		"mongodb://localhost:27017/":                     "mindhaven",
		"mongodb://localhost:27017":                      "mindhaven",
		"mongodb+srv://u:p@cluster.example.net/prod?w=1": "prod",
		"::not a uri::":                                  "mindhaven",
	}
	for uri, want := range cases {
		assert.Equal(t, want, extractDBName(uri), uri)
	}
}

func TestUnusedFilter(t *testing.T) {
	assert.Equal(t, bson.M{"userId": "u1", "personaId": "p1", "used": false}, unusedFilter("u1", "p1"))
}

func TestBsonD(t *testing.T) {
	assert.Equal(t, bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: 1}}, bsonD("userId", "createdAt"))
}

// contendedPool hands out unused ids in order; the first lost claims are
// taken by someone else before this caller gets to them.
type contendedPool struct {
	unused []primitive.ObjectID
	lost   int
	texts  map[primitive.ObjectID]string
}

func newContendedPool(size, lost int) *contendedPool {
	p := &contendedPool{lost: lost, texts: make(map[primitive.ObjectID]string)}
	for i := 0; i < size; i++ {
		id := primitive.NewObjectID()
		p.unused = append(p.unused, id)
		p.texts[id] = "message " + id.Hex()
	}
	return p
}

func (p *contendedPool) sample(context.Context) (primitive.ObjectID, bool, error) {
	if len(p.unused) == 0 {
		return primitive.NilObjectID, false, nil
	}
	return p.unused[0], true, nil
}

func (p *contendedPool) claim(_ context.Context, id primitive.ObjectID) (string, bool, error) {
	p.unused = p.unused[1:]
	if p.lost > 0 {
		p.lost--
		return "", false, nil
	}
	return p.texts[id], true, nil
}

func TestPickUnusedRetriesPastLostClaims(t *testing.T) {
	pool := newContendedPool(8, 5)
	winner := pool.unused[5]

	text, ok, err := pickUnused(context.Background(), pool.sample, pool.claim)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, pool.texts[winner], text)
	assert.Len(t, pool.unused, 2)
}

func TestPickUnusedEmptyOnlyWhenNothingLeft(t *testing.T) {
	pool := newContendedPool(3, 3)

	text, ok, err := pickUnused(context.Background(), pool.sample, pool.claim)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, text)
}

func TestPickUnusedStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, ok, err := pickUnused(ctx, newContendedPool(2, 0).sample, newContendedPool(2, 0).claim)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, ok)
}

func TestPickUnusedPropagatesSampleErrors(t *testing.T) {
	boom := errors.New("aggregate failed")
	sample := func(context.Context) (primitive.ObjectID, bool, error) { return primitive.NilObjectID, false, boom }

	_, ok, err := pickUnused(context.Background(), sample, newContendedPool(1, 0).claim)
	assert.ErrorIs(t, err, boom)
	assert.False(t, ok)
}
