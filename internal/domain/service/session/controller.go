package session

import (
	"MindProfile/internal/domain/errorz"
	"MindProfile/internal/domain/repository"
	"MindProfile/internal/domain/schema"
	"MindProfile/internal/domain/service/share"
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Content produces questions and reactions. Both calls always succeed;
// provider failures are absorbed into fallbacks.
type Content interface {
	Question(ctx context.Context, category schema.Category) schema.Question
	Reaction(ctx context.Context, question, answer string) schema.Reaction
}

// Sharing delivers share payloads through the platform share or clipboard.
type Sharing interface {
	Deliver(ctx context.Context, req share.Request, sharer share.Sharer, clipboard share.Clipboard) (share.Outcome, error)
}

// Capabilities are the front-end hooks for one dispatch. Any of them may be
// nil: a missing Confirm declines, a missing Sharer skips straight to the
// clipboard.
type Capabilities struct {
	Confirm   Confirmer
	Sharer    share.Sharer
	Clipboard share.Clipboard
}

type Result struct {
	Session  schema.Session
	Declined bool
	Prompt   string
	Share    *share.Payload
	Copied   bool
	Alert    string
}

type Controller struct {
	store   *Store
	content Content
	sharing Sharing
	ids     repository.IDGenerator
	clock   clockwork.Clock
	seed    func(n int) int
	ttl     time.Duration
	locks   *keyedMutex
	logger  *zap.Logger
}

// commitAttempts is how many times a reaction commit is tried before the
// submission is abandoned.
const commitAttempts = 2

type ControllerOption func(*Controller)

func WithClock(c clockwork.Clock) ControllerOption {
	return func(ctl *Controller) { ctl.clock = c }
}

// WithSeed replaces the random source used for avatar seeds.
func WithSeed(seed func(n int) int) ControllerOption {
	return func(ctl *Controller) { ctl.seed = seed }
}

// WithAnalyzingTTL sets how long a submission may stay in flight before the
// session accepts a new one.
func WithAnalyzingTTL(ttl time.Duration) ControllerOption {
	return func(ctl *Controller) { ctl.ttl = ttl }
}

func NewController(
	store *Store,
	content Content,
	sharing Sharing,
	ids repository.IDGenerator,
	logger *zap.Logger,
	opts ...ControllerOption,
) *Controller {
	c := &Controller{
		store:   store,
		content: content,
		sharing: sharing,
		ids:     ids,
		clock:   clockwork.NewRealClock(),
		seed:    rand.IntN,
		ttl:     DefaultAnalyzingTTL,
		locks:   newKeyedMutex(),
		logger:  logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Create starts a session and fetches its two generated questions. An empty
// id gets a random one; an id already in use is rejected with
// ErrAlreadyExists.
func (c *Controller) Create(ctx context.Context, id string) (schema.Session, error) {
	if id == "" {
		id = uuid.NewString()
	}
	unlock := c.locks.Lock(id)
	defer unlock()

	if _, err := c.store.Get(ctx, id, c.clock.Now()); err == nil {
		return schema.Session{}, fmt.Errorf("session %s: %w", id, errorz.ErrAlreadyExists)
	} else if !errors.Is(err, errorz.ErrNotFound) {
		return schema.Session{}, err
	}
	return c.start(ctx, id)
}

// Restart replaces whatever session is stored under id with a fresh one.
// Front ends that own their ids, like a chat, use it.
func (c *Controller) Restart(ctx context.Context, id string) (schema.Session, error) {
	if id == "" {
		return schema.Session{}, fmt.Errorf("%w: empty session id", errorz.ErrInvalidIntent)
	}
	unlock := c.locks.Lock(id)
	defer unlock()

	return c.start(ctx, id)
}

func (c *Controller) start(ctx context.Context, id string) (schema.Session, error) {
	s, effects := NewState(id, c.clock.Now())
	if err := c.store.Save(ctx, s); err != nil {
		return schema.Session{}, err
	}

	for _, e := range effects {
		if e.Kind != EffectLoadQuestions {
			continue
		}
		loaded, err := c.loadQuestions(ctx)
		if err != nil {
			if derr := c.store.Drop(context.WithoutCancel(ctx), id); derr != nil {
				c.logger.Warn("drop unfinished session", zap.String("session_id", id), zap.Error(derr))
			}
			return schema.Session{}, err
		}
		s, _, err = Apply(s, questionsLoadedIntent(loaded), c.env())
		if err != nil {
			return schema.Session{}, err
		}
	}

	if err := c.store.Save(ctx, s); err != nil {
		return schema.Session{}, err
	}
	c.logger.Info("session created", zap.String("session_id", id))
	return s, nil
}

// loadQuestions fills each slot independently; one slot falling back does
// not affect the other. It fails only when ctx is done.
func (c *Controller) loadQuestions(ctx context.Context) ([schema.GeneratedSlots]*schema.Question, error) {
	var loaded [schema.GeneratedSlots]*schema.Question
	g, gctx := errgroup.WithContext(ctx)
	for i, sc := range StartupCategories {
		g.Go(func() error {
			q := c.content.Question(gctx, sc.Category)
			if err := gctx.Err(); err != nil {
				return err
			}
			q.Theme = sc.Theme
			loaded[i] = &q
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return loaded, fmt.Errorf("load questions: %w", err)
	}
	return loaded, nil
}

func (c *Controller) Get(ctx context.Context, id string) (schema.Session, error) {
	return c.store.Get(ctx, id, c.clock.Now())
}

func (c *Controller) Close(ctx context.Context, id string) error {
	unlock := c.locks.Lock(id)
	defer unlock()

	if _, err := c.store.Get(ctx, id, c.clock.Now()); err != nil {
		return err
	}
	if err := c.store.Drop(ctx, id); err != nil {
		return err
	}
	c.logger.Info("session closed", zap.String("session_id", id))
	return nil
}

// Dispatch applies one user intent to the session and runs whatever effects
// the transition asked for. On a guard failure the stored session is left
// as it was and returned alongside the error.
func (c *Controller) Dispatch(ctx context.Context, id string, in Intent, caps Capabilities) (Result, error) {
	if !in.Kind.External() {
		return Result{}, fmt.Errorf("%w: %q", errorz.ErrInvalidIntent, in.Kind)
	}

	unlock := c.locks.Lock(id)
	defer func() { unlock() }()

	s, err := c.store.Get(ctx, id, c.clock.Now())
	if err != nil {
		return Result{}, err
	}

	next, effects, err := Apply(s, in, c.env())
	var verr *errorz.ValidationError
	switch {
	case errors.As(err, &verr):
		if serr := c.store.Save(ctx, next); serr != nil {
			return Result{Session: s}, serr
		}
		return Result{Session: next}, err
	case err != nil:
		c.logger.Debug("intent rejected",
			zap.String("session_id", id),
			zap.String("intent", string(in.Kind)),
			zap.Error(err),
		)
		return Result{Session: s}, err
	}

	if prompt, ok := ConfirmationPrompt(s, in); ok {
		confirm := caps.Confirm
		if confirm == nil {
			confirm = NeverConfirm
		}
		if !confirm.Confirm(ctx, prompt) {
			return Result{Session: s, Declined: true, Prompt: prompt}, nil
		}
	}

	if err := c.store.Save(ctx, next); err != nil {
		return Result{Session: s}, err
	}

	res := Result{Session: next}
	for _, e := range effects {
		switch e.Kind {
		case EffectGenerateReaction:
			res, err = c.react(ctx, id, e.Submission, &unlock)
		case EffectShare:
			res, err = c.share(ctx, res.Session, e.Share, caps)
		}
		if err != nil {
			return res, err
		}
	}
	return res, nil
}

// react calls the provider without holding the session lock. The analyzing
// flag is already persisted, so a concurrent submit is rejected meanwhile.
func (c *Controller) react(ctx context.Context, id string, sub submission, unlock *func()) (Result, error) {
	(*unlock)()

	// The commit must happen even if the caller goes away.
	r := c.content.Reaction(context.WithoutCancel(ctx), sub.Question.Text, sub.Answer)

	*unlock = c.locks.Lock(id)
	ctx = context.WithoutCancel(ctx)

	var err error
	for attempt := 1; attempt <= commitAttempts; attempt++ {
		var s schema.Session
		s, err = c.commit(ctx, id, sub, r)
		if err == nil {
			c.logger.Info("answer committed",
				zap.String("session_id", id),
				zap.String("record_id", s.SelectedRecordID),
				zap.Bool("edit", sub.EditTargetID != ""),
			)
			return Result{Session: s}, nil
		}
		if errors.Is(err, errorz.ErrNotFound) {
			return Result{}, err
		}
		c.logger.Warn("commit answer",
			zap.String("session_id", id),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
	}

	c.abandon(ctx, id)
	return Result{}, err
}

func (c *Controller) commit(ctx context.Context, id string, sub submission, r schema.Reaction) (schema.Session, error) {
	s, err := c.store.Get(ctx, id, c.clock.Now())
	if err != nil {
		return schema.Session{}, err
	}
	s, _, err = Apply(s, reactionReadyIntent(sub, r), c.env())
	if err != nil {
		return schema.Session{}, err
	}
	if err := c.store.Save(ctx, s); err != nil {
		return schema.Session{}, err
	}
	return s, nil
}

// abandon clears the in-flight flag of a submission that could not be
// committed. If this fails too, the flag still expires with AnalyzingUntil.
func (c *Controller) abandon(ctx context.Context, id string) {
	s, err := c.store.Get(ctx, id, c.clock.Now())
	if err == nil && s.Analyzing {
		s, _, err = Apply(s, reactionFailedIntent(), c.env())
		if err == nil {
			err = c.store.Save(ctx, s)
		}
	}
	if err != nil {
		c.logger.Warn("release submission", zap.String("session_id", id), zap.Error(err))
	}
}

func (c *Controller) share(ctx context.Context, s schema.Session, req share.Request, caps Capabilities) (Result, error) {
	out, err := c.sharing.Deliver(ctx, req, caps.Sharer, caps.Clipboard)
	var serr *errorz.ShareError
	if errors.As(err, &serr) {
		p := out.Payload
		return Result{Session: s, Share: &p, Alert: serr.Alert}, nil
	}
	if err != nil {
		return Result{Session: s}, err
	}

	p := out.Payload
	res := Result{Session: s, Share: &p, Copied: out.Copied}
	if !out.Copied {
		return res, nil
	}
	next, _, err := Apply(s, shareCopiedIntent(req.Kind), c.env())
	if err != nil {
		return res, err
	}
	if err := c.store.Save(ctx, next); err != nil {
		return res, err
	}
	res.Session = next
	return res, nil
}

func (c *Controller) env() Env {
	return Env{
		Now:   c.clock.Now(),
		NewID: c.ids.NewID,
		Seed:  c.seed,

		AnalyzingTTL: c.ttl,
	}
}
