package telegram

import (
	"MindProfile/internal/domain/errorz"
	"MindProfile/internal/domain/schema"
	"MindProfile/internal/domain/service/session"
	"context"
	"errors"
	"strings"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

const (
	textAnalyzing = "루미가 답변을 읽고 있어요..."
	textUseStart  = "대화를 시작하려면 /start 를 눌러주세요."
	textUseMenu   = "아래 버튼을 사용하거나 /menu 를 눌러주세요."
	textFailed    = "잠시 후 다시 시도해주세요."
)

// Sender is the part of the Bot API the controller talks to.
type Sender interface {
	SendMessage(ctx context.Context, params *tgbot.SendMessageParams) (*models.Message, error)
	AnswerCallbackQuery(ctx context.Context, params *tgbot.AnswerCallbackQueryParams) (bool, error)
}

type SessionService interface {
	Restart(ctx context.Context, id string) (schema.Session, error)
	Get(ctx context.Context, id string) (schema.Session, error)
	Dispatch(ctx context.Context, id string, in session.Intent, caps session.Capabilities) (session.Result, error)
}

type Runner struct {
	bot    *tgbot.Bot
	logger *zap.Logger
}

// Controller maps one chat onto one session. Every update ends with the
// current screen re-rendered as a new message.
type Controller struct {
	bot      Sender
	sessions SessionService
	logger   *zap.Logger
}

func NewController(bot Sender, sessions SessionService, logger *zap.Logger) *Controller {
	return &Controller{bot: bot, sessions: sessions, logger: logger}
}

func New(token string, sessions SessionService, logger *zap.Logger) (*Runner, error) {
	ctrl := &Controller{sessions: sessions, logger: logger}

	b, err := tgbot.New(token, tgbot.WithDefaultHandler(ctrl.defaultHandler))
	if err != nil {
		return nil, err
	}
	ctrl.bot = b

	b.RegisterHandler(tgbot.HandlerTypeMessageText, "/start", tgbot.MatchTypeExact, ctrl.start)
	b.RegisterHandler(tgbot.HandlerTypeMessageText, "/menu", tgbot.MatchTypeExact, ctrl.menu)

	return &Runner{bot: b, logger: logger}, nil
}

// Start blocks until ctx is done.
func (r *Runner) Start(ctx context.Context) {
	r.logger.Info("telegram bot started")
	r.bot.Start(ctx)
}

func (c *Controller) start(ctx context.Context, _ *tgbot.Bot, upd *models.Update) {
	if upd.Message == nil {
		return
	}
	c.handleStart(ctx, upd.Message.Chat.ID)
}

func (c *Controller) menu(ctx context.Context, _ *tgbot.Bot, upd *models.Update) {
	if upd.Message == nil {
		return
	}
	c.handleMenu(ctx, upd.Message.Chat.ID)
}

func (c *Controller) defaultHandler(ctx context.Context, _ *tgbot.Bot, upd *models.Update) {
	c.handleUpdate(ctx, upd)
}

func (c *Controller) handleUpdate(ctx context.Context, upd *models.Update) {
	switch {
	case upd.CallbackQuery != nil:
		c.handleCallback(ctx, upd.CallbackQuery)
	case upd.Message != nil && upd.Message.Text != "":
		c.handleText(ctx, upd.Message.Chat.ID, upd.Message.Text)
	}
}

// handleStart always begins a fresh session for the chat.
func (c *Controller) handleStart(ctx context.Context, chatID int64) {
	s, err := c.sessions.Restart(ctx, sessionID(chatID))
	if err != nil {
		c.logger.Error("create session", zap.Int64("chat_id", chatID), zap.Error(err))
		c.send(ctx, chatID, textFailed, nil)
		return
	}
	c.render(ctx, chatID, s)
}

func (c *Controller) handleMenu(ctx context.Context, chatID int64) {
	s, err := c.sessions.Get(ctx, sessionID(chatID))
	if errors.Is(err, errorz.ErrNotFound) {
		c.handleStart(ctx, chatID)
		return
	}
	if err != nil {
		c.logger.Error("load session", zap.Int64("chat_id", chatID), zap.Error(err))
		c.send(ctx, chatID, textFailed, nil)
		return
	}
	c.render(ctx, chatID, s)
}

func (c *Controller) handleCallback(ctx context.Context, cb *models.CallbackQuery) {
	c.answerCallback(ctx, cb.ID, "")
	if cb.Message.Message == nil {
		return
	}
	chatID := cb.Message.Message.Chat.ID

	parsed, ok := parseCallback(cb.Data)
	if !ok {
		c.logger.Debug("unknown callback", zap.String("data", cb.Data))
		return
	}
	switch parsed.action {
	case actionIntent:
		c.dispatch(ctx, chatID, parsed.intent, false)
	case actionConfirmed:
		c.dispatch(ctx, chatID, parsed.intent, true)
	case actionCancel:
		c.handleMenu(ctx, chatID)
	}
}

// handleText routes free text to whichever input the current screen has.
func (c *Controller) handleText(ctx context.Context, chatID int64, text string) {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "/") {
		return
	}

	s, err := c.sessions.Get(ctx, sessionID(chatID))
	if errors.Is(err, errorz.ErrNotFound) {
		c.send(ctx, chatID, textUseStart, nil)
		return
	}
	if err != nil {
		c.logger.Error("load session", zap.Int64("chat_id", chatID), zap.Error(err))
		return
	}

	in, ok := textIntent(s, text)
	if !ok {
		c.send(ctx, chatID, textUseMenu, nil)
		return
	}
	c.dispatch(ctx, chatID, in, false)
}

func textIntent(s schema.Session, text string) (session.Intent, bool) {
	switch {
	case !s.IntroDone:
		return session.Intent{}, false
	case s.LoginPrompt:
		return session.Intent{Kind: session.Login, Text: text}, true
	case s.View == schema.ViewHome && s.Slide == schema.CustomSlide:
		return session.Intent{Kind: session.SetCustomQuestion, Text: text}, true
	case s.View == schema.ViewAnswer:
		return session.Intent{Kind: session.SetDraft, Text: text}, true
	case s.View == schema.ViewProfileEdit:
		return session.Intent{Kind: session.SetEditNickname, Text: text}, true
	}
	return session.Intent{}, false
}

// dispatch runs one intent. A confirmation the user has not given yet is
// turned into a yes/no keyboard carrying the same intent.
func (c *Controller) dispatch(ctx context.Context, chatID int64, in session.Intent, confirmed bool) {
	if in.Kind == session.Submit {
		c.send(ctx, chatID, textAnalyzing, nil)
	}

	caps := session.Capabilities{
		Confirm: session.ConfirmFunc(func(context.Context, string) bool { return confirmed }),
		Sharer:  &chatSharer{bot: c.bot, chatID: chatID},
	}
	res, err := c.sessions.Dispatch(ctx, sessionID(chatID), in, caps)

	var verr *errorz.ValidationError
	switch {
	case errors.Is(err, errorz.ErrNotFound):
		c.send(ctx, chatID, textUseStart, nil)
		return
	case errors.As(err, &verr):
		// The message is part of the rendered screen.
	case errors.Is(err, errorz.ErrGuard):
		c.send(ctx, chatID, guardText(err), nil)
	case err != nil:
		c.logger.Error("dispatch intent",
			zap.Int64("chat_id", chatID),
			zap.String("intent", string(in.Kind)),
			zap.Error(err),
		)
		c.send(ctx, chatID, textFailed, nil)
		return
	}

	if res.Declined {
		c.send(ctx, chatID, res.Prompt, confirmKeyboard(in))
		return
	}
	if res.Alert != "" {
		c.send(ctx, chatID, res.Alert, nil)
	}
	c.render(ctx, chatID, res.Session)
}

func (c *Controller) render(ctx context.Context, chatID int64, s schema.Session) {
	text, kb := render(s)
	c.send(ctx, chatID, text, kb)
}

func guardText(err error) string {
	switch {
	case errors.Is(err, errorz.ErrEmptyAnswer):
		return "답변을 입력해주세요."
	case errors.Is(err, errorz.ErrNoQuestionSelected):
		return "질문을 먼저 골라주세요."
	case errors.Is(err, errorz.ErrSubmitInFlight):
		return textAnalyzing
	case errors.Is(err, errorz.ErrAlreadyLoggedIn):
		return "이미 로그인되어 있어요."
	case errors.Is(err, errorz.ErrIntroPending):
		return "소개를 먼저 끝내주세요."
	}
	return "지금은 할 수 없는 동작이에요."
}
