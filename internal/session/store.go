package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrNotFound = errors.New("session not found")

type Store interface {
	Load(ctx context.Context, token string) (*Session, error)
	Save(ctx context.Context, s *Session, ttl time.Duration) error
	Delete(ctx context.Context, token string) error
}

func encode(s *Session) ([]byte, error) {
	return json.Marshal(s)
}

func decode(token string, raw []byte) (*Session, error) {
	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	s.Token = token
	if s.Cart == nil {
		s.Cart = []CartLine{}
	}
	return &s, nil
}

type memoryEntry struct {
	raw     []byte
	expires time.Time
}

// MemoryStore keeps encoded sessions in process memory. Every Load decodes a
// fresh copy so concurrent requests never share a Session value.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry), now: time.Now}
}

func (m *MemoryStore) Load(_ context.Context, token string) (*Session, error) {
	m.mu.Lock()
	e, ok := m.entries[token]
	if ok && !m.now().Before(e.expires) {
		delete(m.entries, token)
		ok = false
	}
	m.mu.Unlock()
	if !ok {
		return nil, ErrNotFound
	}
	return decode(token, e.raw)
}

func (m *MemoryStore) Save(_ context.Context, s *Session, ttl time.Duration) error {
	raw, err := encode(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	now := m.now()
	m.mu.Lock()
	defer m.mu.Unlock()
	for tok, e := range m.entries {
		if !now.Before(e.expires) {
			delete(m.entries, tok)
		}
	}
	m.entries[s.Token] = memoryEntry{raw: raw, expires: now.Add(ttl)}
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, token string) error {
	m.mu.Lock()
	delete(m.entries, token)
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

const redisKeyPrefix = "session:"

type RedisStore struct {
	Client redis.UniversalClient
}

func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{Client: client}
}

func (r *RedisStore) Load(ctx context.Context, token string) (*Session, error) {
	raw, err := r.Client.Get(ctx, redisKeyPrefix+token).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get session: %w", err)
	}
	return decode(token, raw)
}

func (r *RedisStore) Save(ctx context.Context, s *Session, ttl time.Duration) error {
	raw, err := encode(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := r.Client.Set(ctx, redisKeyPrefix+s.Token, raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis set session: %w", err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, token string) error {
	if err := r.Client.Del(ctx, redisKeyPrefix+token).Err(); err != nil {
		return fmt.Errorf("redis del session: %w", err)
	}
	return nil
}
