// Package progress persists how far a user has read a note. Records are
// keyed by user+note, not by session, so progress survives re-issued
// sessions.
package progress

import (
	"context"
	"fmt"

	"github.com/studyvault/noteguard/internal/server/models"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Record clamps the reported values and overwrites the stored position.
// Monotonicity is deliberately not enforced: clients may legitimately
// rewind, and duplicate or stale reports are harmless overwrites.
func (s *Service) Record(ctx context.Context, userID, noteID string, lastPage, completionPercent int) error {

	if lastPage < 0 {
		lastPage = 0
	}
	if completionPercent < 0 {
		completionPercent = 0
	}
	if completionPercent > 100 {
		completionPercent = 100
	}

	rec := &models.ProgressRecord{
		UserID:            userID,
		NoteID:            noteID,
		LastPage:          lastPage,
		CompletionPercent: completionPercent,
	}

	if err := s.repo.Upsert(ctx, rec); err != nil {
		return fmt.Errorf("progress upsert: %w", err)
	}

	return nil
}

func (s *Service) Get(ctx context.Context, userID, noteID string) (*models.ProgressRecord, error) {
	return s.repo.Get(ctx, userID, noteID)
}
