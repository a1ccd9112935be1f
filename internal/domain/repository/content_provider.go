package repository

import (
	"MindProfile/internal/domain/schema"
	"context"
)

type GeneratedQuestion struct {
	Category schema.Category
	Text     string
	Context  string
}

// ContentProvider is the AI text-generation boundary. Any error it returns
// is treated as a provider failure and replaced with fallback content.
type ContentProvider interface {
	GenerateQuestion(ctx context.Context, category schema.Category) (GeneratedQuestion, error)
	GenerateReaction(ctx context.Context, question, answer string) (schema.Reaction, error)
}

type IDGenerator interface {
	NewID() string
}
