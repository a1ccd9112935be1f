package session

import (
	"MindProfile/internal/domain/schema"
	"MindProfile/internal/domain/service/share"
)

type Kind string

const (
	IntroNext Kind = "intro_next"
	IntroBack Kind = "intro_back"
	IntroSkip Kind = "intro_skip"

	NextSlide         Kind = "next_slide"
	PrevSlide         Kind = "prev_slide"
	SetCustomQuestion Kind = "set_custom_question"
	SetCustomTheme    Kind = "set_custom_theme"
	StartAnswering    Kind = "start_answering"

	Login      Kind = "login"
	CloseLogin Kind = "close_login"

	SetDraft      Kind = "set_draft"
	Submit        Kind = "submit"
	BackToProfile Kind = "back_to_profile"
	GoHome        Kind = "go_home"

	OpenProfile   Kind = "open_profile"
	SelectHistory Kind = "select_history"
	EditAnswer    Kind = "edit_answer"
	DeleteAnswer  Kind = "delete_answer"

	StartEditProfile  Kind = "start_edit_profile"
	SetEditNickname   Kind = "set_edit_nickname"
	RandomizeAvatar   Kind = "randomize_avatar"
	SaveProfile       Kind = "save_profile"
	CancelEditProfile Kind = "cancel_edit_profile"

	SetProfileTab         Kind = "set_profile_tab"
	ToggleNotifications   Kind = "toggle_notifications"
	ToggleSettings        Kind = "toggle_settings"
	MarkNotificationsRead Kind = "mark_notifications_read"
	Logout                Kind = "logout"
	Withdraw              Kind = "withdraw"

	ShareQA       Kind = "share_qa"
	ShareQuestion Kind = "share_question"
	ShareProfile  Kind = "share_profile"

	// Effect outcomes; never accepted from a front end.
	questionsLoaded Kind = "questions_loaded"
	reactionReady   Kind = "reaction_ready"
	shareCopied     Kind = "share_copied"
	reactionFailed  Kind = "reaction_failed"
)

var externalKinds = map[Kind]struct{}{
	IntroNext: {}, IntroBack: {}, IntroSkip: {},
	NextSlide: {}, PrevSlide: {}, SetCustomQuestion: {}, SetCustomTheme: {}, StartAnswering: {},
	Login: {}, CloseLogin: {},
	SetDraft: {}, Submit: {}, BackToProfile: {}, GoHome: {},
	OpenProfile: {}, SelectHistory: {}, EditAnswer: {}, DeleteAnswer: {},
	StartEditProfile: {}, SetEditNickname: {}, RandomizeAvatar: {}, SaveProfile: {}, CancelEditProfile: {},
	SetProfileTab: {}, ToggleNotifications: {}, ToggleSettings: {}, MarkNotificationsRead: {},
	Logout: {}, Withdraw: {},
	ShareQA: {}, ShareQuestion: {}, ShareProfile: {},
}

// External reports whether k may be sent by a front end.
func (k Kind) External() bool {
	_, ok := externalKinds[k]
	return ok
}

func (k Kind) isIntro() bool {
	return k == IntroNext || k == IntroBack || k == IntroSkip
}

func (k Kind) isInternal() bool {
	return k == questionsLoaded || k == reactionReady || k == shareCopied || k == reactionFailed
}

// Intent is a user action. Only the fields relevant to Kind are read.
type Intent struct {
	Kind  Kind              `json:"type"`
	Text  string            `json:"text,omitempty"`
	ID    string            `json:"id,omitempty"`
	Theme schema.Theme      `json:"theme,omitempty"`
	Tab   schema.ProfileTab `json:"tab,omitempty"`

	loaded     [schema.GeneratedSlots]*schema.Question
	submission submission
	reaction   schema.Reaction
	shared     share.Kind
}

// submission is captured when a submit starts so the commit does not depend
// on whatever the session looks like when the reaction arrives.
type submission struct {
	Question     schema.Question
	Answer       string
	EditTargetID string
}

func questionsLoadedIntent(loaded [schema.GeneratedSlots]*schema.Question) Intent {
	return Intent{Kind: questionsLoaded, loaded: loaded}
}

func reactionReadyIntent(sub submission, r schema.Reaction) Intent {
	return Intent{Kind: reactionReady, submission: sub, reaction: r}
}

func reactionFailedIntent() Intent {
	return Intent{Kind: reactionFailed}
}

func shareCopiedIntent(kind share.Kind) Intent {
	return Intent{Kind: shareCopied, shared: kind}
}
