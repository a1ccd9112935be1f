package content

import (
	"MindProfile/internal/domain/errorz"
	"MindProfile/internal/domain/repository"
	"MindProfile/internal/domain/schema"
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

// Service turns provider output into domain content. It never fails: every
// provider error is logged and replaced with fallback content.
type Service struct {
	provider repository.ContentProvider
	bank     Bank
	ids      repository.IDGenerator
	pick     func(n int) int
	logger   *zap.Logger
}

type Option func(*Service)

// WithPicker replaces the random index source used to sample the bank.
func WithPicker(pick func(n int) int) Option {
	return func(s *Service) { s.pick = pick }
}

func WithBank(b Bank) Option {
	return func(s *Service) { s.bank = b }
}

func New(provider repository.ContentProvider, ids repository.IDGenerator, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		provider: provider,
		bank:     DefaultBank(),
		ids:      ids,
		pick:     rand.IntN,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Question(ctx context.Context, category schema.Category) schema.Question {
	q, err := s.generateQuestion(ctx, category)
	if err == nil {
		return q
	}
	s.logger.Warn("question provider failed, using fallback",
		zap.String("category", string(category)),
		zap.Error(err),
	)
	return s.fallbackQuestion(category)
}

func (s *Service) Reaction(ctx context.Context, question, answer string) schema.Reaction {
	r, err := s.generateReaction(ctx, question, answer)
	if err == nil {
		return r
	}
	s.logger.Warn("reaction provider failed, using fallback", zap.Error(err))
	return schema.FallbackReaction()
}

func (s *Service) generateQuestion(ctx context.Context, category schema.Category) (q schema.Question, err error) {
	defer recoverProvider(&err)

	gen, err := s.provider.GenerateQuestion(ctx, category)
	if err != nil {
		return schema.Question{}, fmt.Errorf("%w: %w", errorz.ErrProvider, err)
	}
	text := strings.TrimSpace(gen.Text)
	if text == "" {
		return schema.Question{}, fmt.Errorf("%w: empty question", errorz.ErrProvider)
	}
	if utf8.RuneCountInString(text) > schema.MaxProviderQuestionLength {
		return schema.Question{}, fmt.Errorf("%w: question longer than %d runes", errorz.ErrProvider, schema.MaxProviderQuestionLength)
	}
	qctx := strings.TrimSpace(gen.Context)
	if qctx == "" {
		qctx = schema.DefaultContext
	}
	return schema.Question{
		ID:       s.ids.NewID(),
		Category: category,
		Text:     text,
		Context:  qctx,
	}, nil
}

func (s *Service) generateReaction(ctx context.Context, question, answer string) (r schema.Reaction, err error) {
	defer recoverProvider(&err)

	r, err = s.provider.GenerateReaction(ctx, question, answer)
	if err != nil {
		return schema.Reaction{}, fmt.Errorf("%w: %w", errorz.ErrProvider, err)
	}
	r.Comment = strings.TrimSpace(r.Comment)
	r.FollowUpQuestion = strings.TrimSpace(r.FollowUpQuestion)
	r.Emoji = strings.TrimSpace(r.Emoji)
	if r.Comment == "" || r.FollowUpQuestion == "" || r.Emoji == "" {
		return schema.Reaction{}, fmt.Errorf("%w: incomplete reaction", errorz.ErrProvider)
	}
	return r, nil
}

func (s *Service) fallbackQuestion(category schema.Category) schema.Question {
	list := s.bank.Entries(category)
	e := list[s.pick(len(list))]
	return schema.Question{
		ID:       s.ids.NewID(),
		Category: category,
		Text:     e.Question,
		Context:  e.Context,
	}
}

func recoverProvider(err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("%w: panic: %v", errorz.ErrProvider, r)
	}
}
