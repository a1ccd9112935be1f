package session

import (
	"MindProfile/internal/domain/schema"
	"time"
)

// StartupCategories are fetched in parallel when a session is created; the
// slot index doubles as the slide index.
var StartupCategories = [schema.GeneratedSlots]struct {
	Category schema.Category
	Theme    schema.Theme
}{
	{schema.CategoryRelationship, schema.ThemePurple},
	{schema.CategoryIf, schema.ThemePink},
}

// NewState returns a fresh session and the effects needed to finish it.
func NewState(id string, now time.Time) (schema.Session, []Effect) {
	s := schema.Session{
		ID:            id,
		View:          schema.ViewHome,
		CustomTheme:   schema.ThemeGray,
		History:       []schema.AnswerRecord{},
		Friends:       seedFriends(),
		Notifications: seedNotifications(),
		ProfileTab:    schema.ProfileTabHistory,
		Loading:       true,
		CopyStatus:    schema.CopyStatusNone,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	return s, []Effect{{Kind: EffectLoadQuestions}}
}

// Expire applies time-based transitions that are due at now.
func Expire(s schema.Session, now time.Time) schema.Session {
	if s.CopyStatus != schema.CopyStatusNone && s.CopyStatus != "" && !now.Before(s.CopyStatusUntil) {
		s.CopyStatus = schema.CopyStatusNone
		s.CopyStatusUntil = time.Time{}
	}
	if s.Analyzing && !s.AnalyzingUntil.IsZero() && !now.Before(s.AnalyzingUntil) {
		s.Analyzing = false
		s.AnalyzingUntil = time.Time{}
	}
	return s
}

func seedFriends() []schema.Friend {
	return []schema.Friend{
		{
			ID:              "friend1",
			Nickname:        "우주여행자",
			AvatarURL:       "https://api.dicebear.com/9.x/avataaars/svg?seed=Felix&backgroundColor=b6e3f4",
			LastInteraction: "2023.10.25",
			Status:          schema.FriendStatusActive,
		},
		{
			ID:              "friend2",
			Nickname:        "새벽감성",
			AvatarURL:       "https://api.dicebear.com/9.x/avataaars/svg?seed=Aneka&backgroundColor=c0aede",
			LastInteraction: "2023.10.24",
			Status:          schema.FriendStatusNew,
		},
	}
}

func seedNotifications() []schema.Notification {
	return []schema.Notification{
		{ID: "n1", Type: schema.NotificationAnswer, Message: "우주여행자님이 내 질문에 답변을 남겼습니다.", Time: "방금 전"},
		{ID: "n2", Type: schema.NotificationNewFriend, Message: "새벽감성님과 친구가 되었습니다!", Time: "3시간 전"},
		{ID: "n3", Type: schema.NotificationReminder, Message: "답변을 못 받은 질문이 1일 이상 지났어요.", Time: "1일 전", IsRead: true},
	}
}
