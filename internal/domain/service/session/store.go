package session

import (
	"MindProfile/internal/domain/errorz"
	"MindProfile/internal/domain/repository"
	"MindProfile/internal/domain/schema"
	"context"
	"fmt"
	"time"
)

// Store wraps the session repository and applies due timed transitions on
// every load.
type Store struct {
	repo repository.SessionStateRepository
}

func NewStore(repo repository.SessionStateRepository) *Store {
	return &Store{repo: repo}
}

func (s *Store) Get(ctx context.Context, id string, now time.Time) (schema.Session, error) {
	st, ok, err := s.repo.Get(ctx, id)
	if err != nil {
		return schema.Session{}, fmt.Errorf("load session %s: %w", id, err)
	}
	if !ok {
		return schema.Session{}, fmt.Errorf("session %s: %w", id, errorz.ErrNotFound)
	}
	return Expire(st, now), nil
}

func (s *Store) Save(ctx context.Context, st schema.Session) error {
	if err := s.repo.Set(ctx, st); err != nil {
		return fmt.Errorf("save session %s: %w", st.ID, err)
	}
	return nil
}

func (s *Store) Drop(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("drop session %s: %w", id, err)
	}
	return nil
}
