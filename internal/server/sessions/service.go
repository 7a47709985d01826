// Package sessions mints and validates bounded-lifetime view sessions.
// Issuance is the access boundary: it refuses anything but an ALLOW verdict,
// and downstream components trust a valid, unexpired session without
// re-checking entitlement per page turn.
package sessions

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/studyvault/noteguard/internal/common"
	"github.com/studyvault/noteguard/internal/server/entitlements"
	"github.com/studyvault/noteguard/internal/server/models"
	"github.com/studyvault/noteguard/internal/server/notes"
)

// DefaultTTL keeps sessions short; an expired session is re-issuable by
// calling Issue again while the entitlement still holds.
const DefaultTTL = 30 * time.Minute

type EntitlementResolver interface {
	Resolve(ctx context.Context, userID, noteID string) (entitlements.Verdict, error)
}

// ContentPresigner hands out a short-lived URL for the note document so the
// rendering surface never sees storage credentials.
type ContentPresigner interface {
	PresignGet(ctx context.Context, key string, expires time.Duration) (string, error)
}

type IssuedSession struct {
	Session    *models.ViewSession
	ViewToken  string
	ContentURL string
	TotalPages int
}

type Service struct {
	repo     Repository
	notes    notes.Repository
	resolver EntitlementResolver
	content  ContentPresigner
	secret   []byte
	ttl      time.Duration
}

func NewService(repo Repository, n notes.Repository, resolver EntitlementResolver, content ContentPresigner, secret []byte, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{repo: repo, notes: n, resolver: resolver, content: content, secret: secret, ttl: ttl}
}

func (s *Service) Issue(ctx context.Context, userID, noteID string) (*IssuedSession, error) {

	verdict, err := s.resolver.Resolve(ctx, userID, noteID)
	if err != nil {
		return nil, fmt.Errorf("entitlement check: %w", err)
	}

	switch verdict {
	case entitlements.VerdictAllow:
	case entitlements.VerdictRequiresPayment:
		return nil, common.ErrPaymentRequired
	case entitlements.VerdictDeny:
		return nil, common.ErrAccountBlocked
	default:
		return nil, common.ErrForbidden
	}

	session := &models.ViewSession{
		ID:        uuid.NewString(),
		UserID:    userID,
		NoteID:    noteID,
		ExpiresAt: time.Now().Add(s.ttl),
	}

	if err := s.repo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("session create: %w", err)
	}

	token, err := GenerateViewToken(session.ID, userID, noteID, s.secret, session.ExpiresAt)
	if err != nil {
		return nil, fmt.Errorf("token: %w", err)
	}

	var contentURL string
	note, err := s.notes.GetByID(ctx, noteID)
	if err != nil {
		return nil, fmt.Errorf("note lookup: %w", err)
	}
	if note.ContentKey != "" && s.content != nil {
		contentURL, err = s.content.PresignGet(ctx, note.ContentKey, s.ttl)
		if err != nil {
			return nil, fmt.Errorf("content presign: %w", err)
		}
	}

	return &IssuedSession{Session: session, ViewToken: token, ContentURL: contentURL, TotalPages: note.TotalPages}, nil
}

// Validate parses the bearer token, loads the session row and enforces
// expiry. Sessions are never silently extended: past ExpiresAt the result
// is ErrSessionExpired regardless of the underlying entitlement.
func (s *Service) Validate(ctx context.Context, tokenString string) (*models.ViewSession, error) {

	claims, err := ParseViewToken(tokenString, s.secret)
	if err != nil {
		return nil, err
	}

	session, err := s.repo.GetByID(ctx, claims.SessionID)
	if err != nil {
		return nil, common.ErrInvalidToken
	}

	if session.Expired(time.Now()) {
		return nil, common.ErrSessionExpired
	}

	return session, nil
}
