package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	revokedPrefix = "revoked:"
	dialTimeout   = 5 * time.Second
)

// Config selects the Redis server holding revoked token ids.
type Config struct {
	Addr    string
	DB      int
	Timeout time.Duration
}

// RevocationStore implements ports.TokenRevoker with one key per revoked
// token id. Keys expire together with the token, so the set never outgrows
// the live tokens.
// Key format: revoked:<token_id>
type RevocationStore struct {
	client redis.Cmdable
	close  func() error
	now    func() time.Time
}

func NewRevocationStore(client redis.Cmdable) *RevocationStore {
	return &RevocationStore{client: client, close: func() error { return nil }, now: time.Now}
}

// Open dials cfg.Addr and returns a store that owns the connection. The
// server must answer a ping within cfg.Timeout.
func Open(ctx context.Context, cfg Config) (*RevocationStore, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = dialTimeout
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		DB:           cfg.DB,
		DialTimeout:  timeout,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("revocation store %s unreachable: %w", cfg.Addr, err)
	}

	s := NewRevocationStore(client)
	s.close = client.Close
	return s, nil
}

// Revoke marks tokenID as revoked until expiresAt. Tokens that have already
// expired are not recorded.
func (s *RevocationStore) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, key(tokenID), "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (s *RevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := s.client.Exists(ctx, key(tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("revocation check: %w", err)
	}
	return n > 0, nil
}

// Ping reports whether Redis is reachable.
func (s *RevocationStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the connection opened by Open.
func (s *RevocationStore) Close() error {
	return s.close()
}

func key(tokenID string) string {
	return revokedPrefix + tokenID
}
