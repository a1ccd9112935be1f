package telegram

import (
	"MindProfile/internal/domain/schema"
	"MindProfile/internal/domain/service/session"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-telegram/bot/models"
)

var introSteps = [schema.IntroSteps]string{
	"여러분, 안녕하세요!\n저는 루미라고 해요.",
	"저는 매일 이 광활한 우주에서\n흥미로운 질문 편지를\n여러분에게 배달해 드려요!",
	"우리들의 답변이 모여\n서로를 이해하는 새로운 은하가\n만들어질 거예요.",
	"우리들의 물음으로\n우주를 물들이자.\n\n준비 되셨나요?",
}

var themeLabels = map[schema.Theme]string{
	schema.ThemePurple: "💜",
	schema.ThemePink:   "🩷",
	schema.ThemeBlue:   "💙",
	schema.ThemeOrange: "🧡",
	schema.ThemeGreen:  "💚",
	schema.ThemeGray:   "🩶",
}

// render turns a session into the message that represents its current screen.
func render(s schema.Session) (string, *models.InlineKeyboardMarkup) {
	if !s.IntroDone {
		return renderIntro(s)
	}
	if s.LoginPrompt {
		return renderLogin(s)
	}

	var text string
	var kb *models.InlineKeyboardMarkup
	switch s.View {
	case schema.ViewAnswer:
		text, kb = renderAnswer(s)
	case schema.ViewResult:
		text, kb = renderResult(s)
	case schema.ViewProfile:
		text, kb = renderProfile(s)
	case schema.ViewProfileDetail:
		text, kb = renderDetail(s)
	case schema.ViewProfileEdit:
		text, kb = renderEdit(s)
	default:
		text, kb = renderHome(s)
	}

	if s.ShowNotifications {
		text += "\n\n" + renderNotifications(s)
		kb.InlineKeyboard = append(kb.InlineKeyboard, []models.InlineKeyboardButton{
			button("모두 읽음", intentData(session.MarkNotificationsRead)),
			button("알림 닫기", intentData(session.ToggleNotifications)),
		})
	}
	if s.CopyStatus != schema.CopyStatusNone && s.CopyStatus != "" {
		text += "\n\n📋 복사되었습니다!"
	}
	return text, kb
}

func renderIntro(s schema.Session) (string, *models.InlineKeyboardMarkup) {
	step := min(max(s.IntroStep, 0), schema.IntroSteps-1)
	next := "다음 ▶"
	if step == schema.IntroSteps-1 {
		next = "시작하기"
	}
	var nav []models.InlineKeyboardButton
	if step > 0 {
		nav = append(nav, button("◀ 이전", intentData(session.IntroBack)))
	}
	nav = append(nav, button(next, intentData(session.IntroNext)))
	return introSteps[step], keyboard(nav, []models.InlineKeyboardButton{button("건너뛰기", intentData(session.IntroSkip))})
}

func renderLogin(s schema.Session) (string, *models.InlineKeyboardMarkup) {
	text := "반가워요!\n친구에게 보여질 닉네임을 입력해주세요. (2~10자)"
	if s.LoginError != "" {
		text += "\n\n⚠️ " + s.LoginError
	}
	return text, keyboard([]models.InlineKeyboardButton{button("닫기", intentData(session.CloseLogin))})
}

func renderHome(s schema.Session) (string, *models.InlineKeyboardMarkup) {
	var b strings.Builder
	fmt.Fprintf(&b, "오늘의 질문 %d/%d\n\n", s.Slide+1, schema.SlideCount)

	var rows [][]models.InlineKeyboardButton
	switch {
	case s.Slide == schema.CustomSlide:
		b.WriteString("✍️ 직접 질문 만들기\n")
		if s.CustomQuestion == "" {
			fmt.Fprintf(&b, "메시지로 질문을 보내주세요. (최대 %d자)", schema.MaxCustomQuestionLength)
		} else {
			fmt.Fprintf(&b, "Q. %s\n%s", s.CustomQuestion, schema.CustomQuestionContext)
		}
		var themes []models.InlineKeyboardButton
		for _, t := range schema.Themes {
			label := themeLabels[t]
			if t == s.CustomTheme {
				label = "✓" + label
			}
			themes = append(themes, button(label, intentData(session.SetCustomTheme, string(t))))
		}
		rows = append(rows, themes)
	case s.Loading || s.Generated[s.Slide] == nil:
		b.WriteString("질문을 불러오는 중...")
	default:
		q := s.Generated[s.Slide]
		fmt.Fprintf(&b, "[%s] %s\n\nQ. %s", q.Category, q.Context, q.Text)
	}

	rows = append(rows,
		[]models.InlineKeyboardButton{
			button("◀", intentData(session.PrevSlide)),
			button(fmt.Sprintf("%d/%d", s.Slide+1, schema.SlideCount), dataNoop),
			button("▶", intentData(session.NextSlide)),
		},
		[]models.InlineKeyboardButton{button("답변하기", intentData(session.StartAnswering))},
		[]models.InlineKeyboardButton{
			button("내 프로필", intentData(session.OpenProfile)),
			button(notificationsLabel(s), intentData(session.ToggleNotifications)),
		},
	)
	return b.String(), keyboard(rows...)
}

func renderAnswer(s schema.Session) (string, *models.InlineKeyboardMarkup) {
	var b strings.Builder
	if s.Selected != nil {
		fmt.Fprintf(&b, "[%s] %s\n\nQ. %s\n\n", s.Selected.Category, s.Selected.Context, s.Selected.Text)
	}
	if s.Draft == "" {
		fmt.Fprintf(&b, "메시지로 답변을 보내주세요. (최대 %d자)", schema.MaxAnswerLength)
	} else {
		fmt.Fprintf(&b, "A. %s\n(%d/%d)", s.Draft, utf8.RuneCountInString(s.Draft), schema.MaxAnswerLength)
	}
	if s.Analyzing {
		b.WriteString("\n\n루미가 답변을 읽고 있어요...")
	}
	return b.String(), keyboard(
		[]models.InlineKeyboardButton{button("보내기", intentData(session.Submit))},
		[]models.InlineKeyboardButton{button("질문 공유", intentData(session.ShareQuestion))},
		[]models.InlineKeyboardButton{button("홈으로", intentData(session.GoHome))},
	)
}

func renderResult(s schema.Session) (string, *models.InlineKeyboardMarkup) {
	var b strings.Builder
	rec, ok := s.SelectedRecord()
	if ok {
		fmt.Fprintf(&b, "Q. %s\nA. %s\n", rec.Question.Text, rec.Answer)
	}
	if s.LastReaction != nil {
		fmt.Fprintf(&b, "\n%s %s\n💬 %s", s.LastReaction.Emoji, s.LastReaction.Comment, s.LastReaction.FollowUpQuestion)
	}
	return b.String(), keyboard(
		[]models.InlineKeyboardButton{
			button("답변 공유", intentData(session.ShareQA)),
			button("질문 공유", intentData(session.ShareQuestion)),
		},
		[]models.InlineKeyboardButton{
			button("내 기록 보기", intentData(session.BackToProfile)),
			button("홈으로", intentData(session.GoHome)),
		},
	)
}

func renderProfile(s schema.Session) (string, *models.InlineKeyboardMarkup) {
	var b strings.Builder
	if s.Profile != nil {
		fmt.Fprintf(&b, "👤 %s\n%s\n\n", s.Profile.Nickname, s.Profile.AvatarURL)
	}

	var rows [][]models.InlineKeyboardButton
	rows = append(rows, []models.InlineKeyboardButton{
		button(tabLabel("기록", s.ProfileTab == schema.ProfileTabHistory), intentData(session.SetProfileTab, string(schema.ProfileTabHistory))),
		button(tabLabel("친구", s.ProfileTab == schema.ProfileTabFriends), intentData(session.SetProfileTab, string(schema.ProfileTabFriends))),
	})

	if s.ProfileTab == schema.ProfileTabFriends {
		fmt.Fprintf(&b, "친구 %d명", len(s.Friends))
		for _, f := range s.Friends {
			mark := ""
			if f.Status == schema.FriendStatusNew {
				mark = " 🆕"
			}
			fmt.Fprintf(&b, "\n• %s%s (%s)", f.Nickname, mark, f.LastInteraction)
		}
	} else {
		fmt.Fprintf(&b, "답변 기록 %d개", len(s.History))
		for _, r := range s.History {
			rows = append(rows, []models.InlineKeyboardButton{
				button(r.DateLabel+" · "+shortText(r.Question.Text, 28), intentData(session.SelectHistory, r.ID)),
			})
		}
	}

	rows = append(rows, []models.InlineKeyboardButton{
		button("프로필 수정", intentData(session.StartEditProfile)),
		button("프로필 공유", intentData(session.ShareProfile)),
	})
	if s.ShowSettings {
		rows = append(rows, []models.InlineKeyboardButton{
			button("로그아웃", intentData(session.Logout)),
			button("탈퇴하기", intentData(session.Withdraw)),
		})
	}
	rows = append(rows, []models.InlineKeyboardButton{
		button("⚙️ 설정", intentData(session.ToggleSettings)),
		button(notificationsLabel(s), intentData(session.ToggleNotifications)),
		button("홈으로", intentData(session.GoHome)),
	})
	return b.String(), keyboard(rows...)
}

func renderDetail(s schema.Session) (string, *models.InlineKeyboardMarkup) {
	rec, ok := s.SelectedRecord()
	if !ok {
		return "기록을 찾을 수 없어요.", keyboard([]models.InlineKeyboardButton{button("뒤로", intentData(session.BackToProfile))})
	}
	text := fmt.Sprintf("%s\n\nQ. %s\nA. %s", rec.DateLabel, rec.Question.Text, rec.Answer)
	if rec.Reaction != nil {
		text += fmt.Sprintf("\n\n%s %s", rec.Reaction.Emoji, rec.Reaction.Comment)
	}
	return text, keyboard(
		[]models.InlineKeyboardButton{
			button("수정하기", intentData(session.EditAnswer)),
			button("삭제하기", intentData(session.DeleteAnswer, rec.ID)),
		},
		[]models.InlineKeyboardButton{
			button("답변 공유", intentData(session.ShareQA)),
			button("질문 공유", intentData(session.ShareQuestion)),
		},
		[]models.InlineKeyboardButton{button("뒤로", intentData(session.BackToProfile))},
	)
}

func renderEdit(s schema.Session) (string, *models.InlineKeyboardMarkup) {
	text := fmt.Sprintf("프로필 수정\n\n닉네임: %s\n아바타: %s\n\n메시지로 새 닉네임을 보내주세요.", s.ProfileForm.Nickname, s.ProfileForm.AvatarURL)
	if s.ProfileForm.Error != "" {
		text += "\n\n⚠️ " + s.ProfileForm.Error
	}
	return text, keyboard(
		[]models.InlineKeyboardButton{button("🎲 아바타 바꾸기", intentData(session.RandomizeAvatar))},
		[]models.InlineKeyboardButton{
			button("저장", intentData(session.SaveProfile)),
			button("취소", intentData(session.CancelEditProfile)),
		},
	)
}

func renderNotifications(s schema.Session) string {
	if len(s.Notifications) == 0 {
		return "🔔 알림이 없어요."
	}
	var b strings.Builder
	b.WriteString("🔔 알림")
	for _, n := range s.Notifications {
		dot := "  "
		if !n.IsRead {
			dot = "● "
		}
		fmt.Fprintf(&b, "\n%s%s · %s", dot, n.Message, n.Time)
	}
	return b.String()
}

func notificationsLabel(s schema.Session) string {
	if n := s.UnreadNotifications(); n > 0 {
		return fmt.Sprintf("🔔 %d", n)
	}
	return "🔔"
}

func tabLabel(label string, active bool) string {
	if active {
		return "• " + label
	}
	return label
}

func confirmKeyboard(in session.Intent) *models.InlineKeyboardMarkup {
	return keyboard([]models.InlineKeyboardButton{
		button("✅ 네", confirmData(in)),
		button("❌ 아니요", dataCancel),
	})
}
