package gateway

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ConfirmStore remembers notify_ids the gateway has already attested via the
// echo endpoint. It is consulted only after the digest check passes, so a
// cached entry can never widen what gets accepted; it just spares the second
// echo round-trip when the gateway redelivers a notification.
type ConfirmStore interface {
	Confirmed(ctx context.Context, notifyID string) (bool, error)
	MarkConfirmed(ctx context.Context, notifyID string) error
}

type redisConfirmStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func (s *redisConfirmStore) Confirmed(ctx context.Context, notifyID string) (bool, error) {
	n, err := s.client.Exists(ctx, s.prefix+":"+notifyID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *redisConfirmStore) MarkConfirmed(ctx context.Context, notifyID string) error {
	return s.client.Set(ctx, s.prefix+":"+notifyID, "1", s.ttl).Err()
}

type memoryConfirmStore struct {
	mu     sync.Mutex
	seen   map[string]time.Time
	ttl    time.Duration
	nextGC time.Time
}

func newMemoryConfirmStore(ttl time.Duration) *memoryConfirmStore {
	now := time.Now()
	return &memoryConfirmStore{
		seen:   make(map[string]time.Time),
		ttl:    ttl,
		nextGC: now.Add(ttl),
	}
}

func (s *memoryConfirmStore) Confirmed(_ context.Context, notifyID string) (bool, error) {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	exp, ok := s.seen[notifyID]
	return ok && exp.After(now), nil
}

func (s *memoryConfirmStore) MarkConfirmed(_ context.Context, notifyID string) error {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.seen[notifyID] = now.Add(s.ttl)
	if now.After(s.nextGC) {
		for id, exp := range s.seen {
			if exp.Before(now) {
				delete(s.seen, id)
			}
		}
		s.nextGC = now.Add(s.ttl)
	}
	return nil
}

// NewConfirmStore builds a Redis-backed store and falls back to in-memory
// when Redis is unreachable or no address is configured.
func NewConfirmStore(addr, pass string, db int, ttl time.Duration) (ConfirmStore, error) {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	if addr == "" {
		return newMemoryConfirmStore(ttl), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: pass,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return newMemoryConfirmStore(ttl), err
	}

	return &redisConfirmStore{
		client: client,
		prefix: "alipay:notify",
		ttl:    ttl,
	}, nil
}
