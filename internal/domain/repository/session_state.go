package repository

import (
	"MindProfile/internal/domain/schema"
	"context"
)

type SessionStateRepository interface {
	Get(ctx context.Context, sessionID string) (schema.Session, bool, error)
	Set(ctx context.Context, state schema.Session) error
	Delete(ctx context.Context, sessionID string) error
}
