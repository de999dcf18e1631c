// revocation/store.go
package revocation

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	pep_errors "github.com/dive25/pep/errors"
	logger "github.com/dive25/pep/logging"
)

// Checker reports whether a token, or every token of a subject, has been
// revoked. Both checks run on every request; either blocks it.
type Checker interface {
	IsTokenRevoked(ctx context.Context, tokenID string) (bool, error)
	IsSubjectRevoked(ctx context.Context, subjectID string) (bool, error)
}

// Check runs both revocation lookups in the required order and collapses a
// positive result into ErrTokenRevoked.
func Check(ctx context.Context, checker Checker, tokenID string, subjectID string) error {
	if tokenID != "" {
		revoked, err := checker.IsTokenRevoked(ctx, tokenID)
		if err != nil {
			return fmt.Errorf("revocation lookup failed: %w", err)
		}
		if revoked {
			return fmt.Errorf("%w: token is blacklisted", pep_errors.ErrTokenRevoked)
		}
	}

	revoked, err := checker.IsSubjectRevoked(ctx, subjectID)
	if err != nil {
		return fmt.Errorf("revocation lookup failed: %w", err)
	}
	if revoked {
		return fmt.Errorf("%w: all tokens for subject are revoked", pep_errors.ErrTokenRevoked)
	}
	return nil
}

// Store is the Redis-backed revocation store. Individual tokens are keyed
// by jti, subject-wide revocations by subject id; both entries expire with
// a TTL so the store does not accumulate entries past token lifetimes.
type Store struct {
	client *redis.Client
}

func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

var _ Checker = &Store{}

func tokenKey(tokenID string) string {
	return fmt.Sprintf("revoked:token:%s", tokenID)
}

func subjectKey(subjectID string) string {
	return fmt.Sprintf("revoked:subject:%s", subjectID)
}

func (s *Store) IsTokenRevoked(ctx context.Context, tokenID string) (bool, error) {
	count, err := s.client.Exists(ctx, tokenKey(tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}
	return count > 0, nil
}

func (s *Store) IsSubjectRevoked(ctx context.Context, subjectID string) (bool, error) {
	count, err := s.client.Exists(ctx, subjectKey(subjectID)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check subject revocation: %w", err)
	}
	return count > 0, nil
}

// RevokeToken blacklists a single token until ttl elapses. The ttl should
// cover the token's remaining lifetime.
func (s *Store) RevokeToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	if err := s.client.Set(ctx, tokenKey(tokenID), "revoked", ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	logger.Info("Token revoked", zap.String("tokenID", tokenID))
	return nil
}

// RevokeSubject revokes every token of a subject, e.g. on logout or
// account suspension.
func (s *Store) RevokeSubject(ctx context.Context, subjectID string, ttl time.Duration) error {
	if err := s.client.Set(ctx, subjectKey(subjectID), "revoked", ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke subject tokens: %w", err)
	}
	logger.Info("Subject tokens revoked", zap.String("subjectID", subjectID))
	return nil
}
