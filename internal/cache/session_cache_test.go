package cache

import (
	"adaptivequiz/internal/model"
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (SessionCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewSessionCache(client, 2*time.Hour, time.Minute), mr
}

func TestSessionRoundTripAndTTL(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	s := model.NewSession("s1")
	s.Info = &model.QuizInfo{Topic: "Photosynthesis", Subject: "Biology", Level: "High school", Length: "Short"}
	s.History = append(s.History, model.QuizQuestionAnswer{
		ID:       "q1",
		Question: model.QuizQuestion{Question: "Q?"},
		Answer:   &model.QuizAnswer{IsCorrect: true},
	})
	s.Score = 1
	require.NoError(t, c.Set(ctx, s))

	assert.True(t, mr.Exists("quiz:session:s1"))
	assert.Equal(t, 2*time.Hour, mr.TTL("quiz:session:s1"))

	got, err := c.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "Photosynthesis", got.Info.Topic)
	assert.Equal(t, 1, got.Score)
	require.Len(t, got.History, 1)
	assert.True(t, got.History[0].Answer.IsCorrect)
}

func TestGetMissingSession(t *testing.T) {
	c, _ := newTestCache(t)
	_, err := c.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionExpires(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, model.NewSession("s1")))

	mr.FastForward(3 * time.Hour)
	_, err := c.Get(ctx, "s1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestLockContention(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	token, err := c.Lock(ctx, "s1")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	_, err = c.Lock(ctx, "s1")
	assert.ErrorIs(t, err, ErrSessionLocked)

	// a stale token must not release someone else's lock
	require.NoError(t, c.Unlock(ctx, "s1", "stale"))
	assert.True(t, mr.Exists("quiz:session:s1:lock"))

	require.NoError(t, c.Unlock(ctx, "s1", token))
	assert.False(t, mr.Exists("quiz:session:s1:lock"))

	_, err = c.Lock(ctx, "s1")
	assert.NoError(t, err)
}

func TestLockExpires(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	_, err := c.Lock(ctx, "s1")
	require.NoError(t, err)
	mr.FastForward(2 * time.Minute)

	_, err = c.Lock(ctx, "s1")
	assert.NoError(t, err)
}

func TestDeleteKeepsLock(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, model.NewSession("s1")))
	_, err := c.Lock(ctx, "s1")
	require.NoError(t, err)

	require.NoError(t, c.Delete(ctx, "s1"))
	assert.False(t, mr.Exists("quiz:session:s1"))
	assert.True(t, mr.Exists("quiz:session:s1:lock"))

	_, err = c.Lock(ctx, "s1")
	assert.ErrorIs(t, err, ErrSessionLocked)
}

func TestReplaceRequiresLockAndExistingSession(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	s := model.NewSession("s1")
	require.NoError(t, c.Set(ctx, s))

	s.Score = 1
	assert.ErrorIs(t, c.Replace(ctx, s, "no-lock"), ErrLockLost)

	token, err := c.Lock(ctx, "s1")
	require.NoError(t, err)
	assert.ErrorIs(t, c.Replace(ctx, s, "stale"), ErrLockLost)

	require.NoError(t, c.Replace(ctx, s, token))
	got, err := c.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 1, got.Score)
	assert.Equal(t, 2*time.Hour, mr.TTL("quiz:session:s1"))

	require.NoError(t, c.Delete(ctx, "s1"))
	assert.ErrorIs(t, c.Replace(ctx, s, token), ErrSessionNotFound)
	assert.False(t, mr.Exists("quiz:session:s1"))
}

func TestRefreshExtendsOwnLockOnly(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	token, err := c.Lock(ctx, "s1")
	require.NoError(t, err)
	mr.FastForward(50 * time.Second)
	require.NoError(t, c.Refresh(ctx, "s1", token))
	assert.Equal(t, time.Minute, mr.TTL("quiz:session:s1:lock"))

	assert.ErrorIs(t, c.Refresh(ctx, "s1", "stale"), ErrLockLost)

	mr.FastForward(2 * time.Minute)
	assert.ErrorIs(t, c.Refresh(ctx, "s1", token), ErrLockLost)
}
