package cache

import (
	"adaptivequiz/internal/model"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionLocked   = errors.New("session is locked by another request")
	ErrLockLost        = errors.New("session lock is no longer held")
)

// SessionCache stores hosted quiz sessions and their request locks
type SessionCache interface {
	Set(ctx context.Context, session *model.Session) error
	// Replace overwrites an existing session, only while lockToken still holds its lock
	Replace(ctx context.Context, session *model.Session, lockToken string) error
	Get(ctx context.Context, id string) (*model.Session, error)
	Delete(ctx context.Context, id string) error
	// Lock takes the per-session request lock and returns the token needed to release it
	Lock(ctx context.Context, id string) (string, error)
	// Refresh extends the lock TTL, failing with ErrLockLost if token no longer owns it
	Refresh(ctx context.Context, id, token string) error
	Unlock(ctx context.Context, id, token string) error
	LockTTL() time.Duration
}

type sessionCache struct {
	client  *redis.Client
	ttl     time.Duration
	lockTTL time.Duration
}

// unlockScript deletes the lock only if it still holds our token
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// refreshScript extends the lock only if it still holds our token
var refreshScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`)

// replaceScript writes the session only under our lock and only if it was not deleted
var replaceScript = redis.NewScript(`
if redis.call("GET", KEYS[2]) ~= ARGV[1] then
	return -1
end
if redis.call("EXISTS", KEYS[1]) == 0 then
	return 0
end
redis.call("SET", KEYS[1], ARGV[2], "PX", ARGV[3])
return 1
`)

// NewSessionCache creates a new session cache
func NewSessionCache(client *redis.Client, ttl, lockTTL time.Duration) SessionCache {
	return &sessionCache{
		client:  client,
		ttl:     ttl,
		lockTTL: lockTTL,
	}
}

func (c *sessionCache) key(id string) string {
	return fmt.Sprintf("quiz:session:%s", id)
}

func (c *sessionCache) lockKey(id string) string {
	return fmt.Sprintf("quiz:session:%s:lock", id)
}

func (c *sessionCache) Set(ctx context.Context, session *model.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(session.ID), data, c.ttl).Err()
}

func (c *sessionCache) Replace(ctx context.Context, session *model.Session, lockToken string) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	keys := []string{c.key(session.ID), c.lockKey(session.ID)}
	res, err := replaceScript.Run(ctx, c.client, keys, lockToken, data, c.ttl.Milliseconds()).Int()
	if err != nil {
		return err
	}
	switch res {
	case -1:
		return ErrLockLost
	case 0:
		return ErrSessionNotFound
	}
	return nil
}

func (c *sessionCache) Get(ctx context.Context, id string) (*model.Session, error) {
	data, err := c.client.Get(ctx, c.key(id)).Result()
	if err == redis.Nil {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	var session model.Session
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// Delete removes the session. The lock stays with whoever holds it.
func (c *sessionCache) Delete(ctx context.Context, id string) error {
	return c.client.Del(ctx, c.key(id)).Err()
}

func (c *sessionCache) Lock(ctx context.Context, id string) (string, error) {
	token := uuid.New().String()
	ok, err := c.client.SetNX(ctx, c.lockKey(id), token, c.lockTTL).Result()
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrSessionLocked
	}
	return token, nil
}

func (c *sessionCache) Refresh(ctx context.Context, id, token string) error {
	ok, err := refreshScript.Run(ctx, c.client, []string{c.lockKey(id)}, token, c.lockTTL.Milliseconds()).Int()
	if err != nil {
		return err
	}
	if ok == 0 {
		return ErrLockLost
	}
	return nil
}

func (c *sessionCache) LockTTL() time.Duration {
	return c.lockTTL
}

func (c *sessionCache) Unlock(ctx context.Context, id, token string) error {
	return unlockScript.Run(ctx, c.client, []string{c.lockKey(id)}, token).Err()
}
