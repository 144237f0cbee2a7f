package auth

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/torque-erp/torque-erp/internal/shared"
)

// Service wraps authentication business rules. The shop shares one password
// per role rather than per-user accounts.
type Service struct {
	store        *TokenStore
	adminHash    string
	mechanicHash string
}

// NewService constructs a new Service. The hashes are bcrypt digests of the
// role passwords, supplied through configuration.
func NewService(store *TokenStore, adminHash, mechanicHash string) *Service {
	return &Service{store: store, adminHash: adminHash, mechanicHash: mechanicHash}
}

// Login validates the role password and issues a bearer token.
func (s *Service) Login(ctx context.Context, role, password string) (Token, error) {
	if !ValidRole(role) {
		return Token{}, shared.ErrInvalidCredentials
	}
	hash := s.mechanicHash
	if role == RoleAdmin {
		hash = s.adminHash
	}
	if hash == "" {
		return Token{}, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return Token{}, shared.ErrInvalidCredentials
	}
	return s.store.Issue(ctx, role)
}

// Logout revokes the token.
func (s *Service) Logout(ctx context.Context, token string) error {
	return s.store.Revoke(ctx, token)
}

// ResolveToken returns the role bound to the bearer token.
func (s *Service) ResolveToken(ctx context.Context, token string) (string, error) {
	return s.store.Resolve(ctx, token)
}
