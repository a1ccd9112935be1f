package telegram

import (
	"MindProfile/internal/adapters/provider"
	"MindProfile/internal/adapters/repository/memstate"
	"MindProfile/internal/domain/schema"
	"MindProfile/internal/domain/service/content"
	"MindProfile/internal/domain/service/session"
	"MindProfile/internal/domain/service/share"
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const chatID int64 = 42

type sent struct {
	text   string
	markup *models.InlineKeyboardMarkup
}

type fakeSender struct {
	mu       sync.Mutex
	messages []sent
	answered int
}

func (f *fakeSender) SendMessage(_ context.Context, p *tgbot.SendMessageParams) (*models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var kb *models.InlineKeyboardMarkup
	if p.ReplyMarkup != nil {
		kb = p.ReplyMarkup.(*models.InlineKeyboardMarkup)
	}
	f.messages = append(f.messages, sent{text: p.Text, markup: kb})
	return &models.Message{}, nil
}

func (f *fakeSender) AnswerCallbackQuery(context.Context, *tgbot.AnswerCallbackQueryParams) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.answered++
	return true, nil
}

func (f *fakeSender) last() sent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.messages[len(f.messages)-1]
}

func (f *fakeSender) texts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.messages))
	for _, m := range f.messages {
		out = append(out, m.text)
	}
	return out
}

type seqIDs struct {
	mu sync.Mutex
	n  int
}

func (s *seqIDs) NewID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return strconv.Itoa(s.n)
}

type fixture struct {
	bot      *fakeSender
	sessions *session.Controller
	ctrl     *Controller
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := zap.NewNop()
	clock := clockwork.NewFakeClockAt(time.Date(2024, time.March, 9, 12, 0, 0, 0, time.UTC))
	ids := &seqIDs{}
	sessions := session.NewController(
		session.NewStore(memstate.NewSessionStateRepo(time.Hour, clock)),
		content.New(provider.Disabled{}, ids, logger),
		share.New("https://mindprofile.app", logger),
		ids,
		logger,
		session.WithClock(clock),
	)
	bot := &fakeSender{}
	return &fixture{bot: bot, sessions: sessions, ctrl: NewController(bot, sessions, logger)}
}

func (f *fixture) click(data string) {
	f.ctrl.handleUpdate(context.Background(), &models.Update{CallbackQuery: &models.CallbackQuery{
		ID:      "cb",
		Data:    data,
		Message: models.MaybeInaccessibleMessage{Message: &models.Message{Chat: models.Chat{ID: chatID}}},
	}})
}

func (f *fixture) say(text string) {
	f.ctrl.handleUpdate(context.Background(), &models.Update{Message: &models.Message{
		Chat: models.Chat{ID: chatID},
		Text: text,
	}})
}

func (f *fixture) state(t *testing.T) schema.Session {
	t.Helper()
	s, err := f.sessions.Get(context.Background(), sessionID(chatID))
	require.NoError(t, err)
	return s
}

func TestController_AnswerFlow(t *testing.T) {
	f := newFixture(t)
	f.ctrl.handleStart(context.Background(), chatID)
	assert.Equal(t, introSteps[0], f.bot.last().text)

	f.click(intentData(session.IntroSkip))
	f.click(intentData(session.StartAnswering))
	assert.True(t, f.state(t).LoginPrompt)

	f.say("a")
	assert.Contains(t, f.bot.last().text, "⚠️")

	f.say("봄날")
	s := f.state(t)
	require.NotNil(t, s.Profile)
	assert.Equal(t, schema.ViewAnswer, s.View)

	f.say("엄마")
	assert.Equal(t, "엄마", f.state(t).Draft)

	f.click(intentData(session.Submit))
	texts := f.bot.texts()
	assert.Equal(t, textAnalyzing, texts[len(texts)-2])
	assert.Contains(t, f.bot.last().text, "✨")

	s = f.state(t)
	assert.Equal(t, schema.ViewResult, s.View)
	require.Len(t, s.History, 1)
	assert.Equal(t, 3, f.bot.answered)
}

func TestController_DeleteAsksFirst(t *testing.T) {
	f := newFixture(t)
	f.ctrl.handleStart(context.Background(), chatID)
	f.click(intentData(session.IntroSkip))
	f.click(intentData(session.StartAnswering))
	f.say("봄날")
	f.say("엄마")
	f.click(intentData(session.Submit))
	f.click(intentData(session.BackToProfile))

	id := f.state(t).History[0].ID
	f.click(intentData(session.SelectHistory, id))
	assert.Equal(t, schema.ViewProfileDetail, f.state(t).View)

	f.click(intentData(session.DeleteAnswer, id))
	prompt := f.bot.last()
	assert.Equal(t, session.PromptDelete, prompt.text)
	assert.Equal(t, []string{"y:delete_answer:" + id, dataCancel}, callbacks(prompt.markup))
	assert.Len(t, f.state(t).History, 1)

	f.click(dataCancel)
	assert.Len(t, f.state(t).History, 1)

	f.click("y:delete_answer:" + id)
	s := f.state(t)
	assert.Empty(t, s.History)
	assert.Equal(t, schema.ViewProfile, s.View)
}

func TestController_ShareSendsToChat(t *testing.T) {
	f := newFixture(t)
	f.ctrl.handleStart(context.Background(), chatID)
	f.click(intentData(session.IntroSkip))
	f.click(intentData(session.StartAnswering))
	f.say("봄날")
	f.click(intentData(session.ShareQuestion))

	texts := f.bot.texts()
	shared := texts[len(texts)-2]
	assert.Contains(t, shared, "[마음프로필]")
	assert.Contains(t, shared, "https://mindprofile.app")
	assert.Equal(t, schema.ViewAnswer, f.state(t).View)
}

func TestController_GuardFailureKeepsScreen(t *testing.T) {
	f := newFixture(t)
	f.ctrl.handleStart(context.Background(), chatID)
	f.click(intentData(session.IntroSkip))
	f.click(intentData(session.StartAnswering))
	f.say("봄날")

	f.click(intentData(session.Submit))
	texts := f.bot.texts()
	assert.Equal(t, "답변을 입력해주세요.", texts[len(texts)-2])
	assert.Equal(t, schema.ViewAnswer, f.state(t).View)
}

func TestController_UnknownChat(t *testing.T) {
	f := newFixture(t)

	f.say("안녕")
	assert.Equal(t, textUseStart, f.bot.last().text)

	f.click(intentData(session.IntroSkip))
	assert.Equal(t, textUseStart, f.bot.last().text)
	assert.Equal(t, 1, f.bot.answered)
}

func TestController_TextWithoutInput(t *testing.T) {
	f := newFixture(t)
	f.ctrl.handleStart(context.Background(), chatID)
	f.click(intentData(session.IntroSkip))

	f.say("아무말")
	assert.Equal(t, textUseMenu, f.bot.last().text)

	before := len(f.bot.texts())
	f.say("/unknown")
	assert.Len(t, f.bot.texts(), before)
}

func TestController_MenuCreatesMissingSession(t *testing.T) {
	f := newFixture(t)
	f.ctrl.handleMenu(context.Background(), chatID)
	assert.Equal(t, introSteps[0], f.bot.last().text)
	assert.Equal(t, sessionID(chatID), f.state(t).ID)
}

func TestController_StartBeginsAgain(t *testing.T) {
	f := newFixture(t)
	f.ctrl.handleStart(context.Background(), chatID)
	f.click(intentData(session.IntroSkip))
	require.True(t, f.state(t).IntroDone)

	f.ctrl.handleStart(context.Background(), chatID)
	assert.Equal(t, introSteps[0], f.bot.last().text)
	assert.False(t, f.state(t).IntroDone)
}
