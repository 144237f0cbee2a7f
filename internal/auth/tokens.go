package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/torque-erp/torque-erp/internal/shared"
)

// TokenStore persists bearer tokens in Redis with a TTL.
type TokenStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewTokenStore constructs a TokenStore.
func NewTokenStore(client *redis.Client, ttl time.Duration) *TokenStore {
	return &TokenStore{client: client, ttl: ttl}
}

func tokenKey(value string) string {
	return fmt.Sprintf("auth:token:%s", value)
}

// Issue creates and stores a fresh token for the role.
func (s *TokenStore) Issue(ctx context.Context, role string) (Token, error) {
	value := uuid.NewString()
	if err := s.client.Set(ctx, tokenKey(value), role, s.ttl).Err(); err != nil {
		return Token{}, fmt.Errorf("auth: store token: %w", err)
	}
	return Token{Value: value, Role: role, ExpiresAt: time.Now().Add(s.ttl)}, nil
}

// Resolve returns the role bound to the token, or ErrUnauthorized.
func (s *TokenStore) Resolve(ctx context.Context, value string) (string, error) {
	role, err := s.client.Get(ctx, tokenKey(value)).Result()
	if errors.Is(err, redis.Nil) {
		return "", shared.ErrUnauthorized
	}
	if err != nil {
		return "", fmt.Errorf("auth: resolve token: %w", err)
	}
	return role, nil
}

// Revoke removes a token. Revoking an unknown token is not an error.
func (s *TokenStore) Revoke(ctx context.Context, value string) error {
	if err := s.client.Del(ctx, tokenKey(value)).Err(); err != nil {
		return fmt.Errorf("auth: revoke token: %w", err)
	}
	return nil
}
