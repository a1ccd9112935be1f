package schema

import (
	"slices"
	"time"
)

type View string

type ProfileTab string

type CopyStatus string

const (
	ViewHome          View = "HOME"
	ViewAnswer        View = "ANSWER"
	ViewResult        View = "RESULT"
	ViewProfile       View = "PROFILE"
	ViewProfileEdit   View = "PROFILE_EDIT"
	ViewProfileDetail View = "PROFILE_DETAIL"
)

const (
	ProfileTabHistory ProfileTab = "HISTORY"
	ProfileTabFriends ProfileTab = "FRIENDS"
)

const (
	CopyStatusNone     CopyStatus = "NONE"
	CopyStatusQA       CopyStatus = "QA"
	CopyStatusQuestion CopyStatus = "Q"
	CopyStatusProfile  CopyStatus = "PROFILE"
)

const (
	IntroSteps     = 4
	SlideCount     = 3
	CustomSlide    = 2
	GeneratedSlots = 2
)

type ProfileForm struct {
	Nickname  string `json:"nickname"`
	AvatarURL string `json:"avatar_url"`
	Error     string `json:"error,omitempty"`
}

// Session is the whole state of one visitor. It is loaded, transformed and
// saved as a unit.
type Session struct {
	ID   string `json:"id"`
	View View   `json:"view"`

	IntroStep int  `json:"intro_step"`
	IntroDone bool `json:"intro_done"`

	Profile     *UserProfile `json:"profile,omitempty"`
	LoginPrompt bool         `json:"login_prompt"`
	LoginError  string       `json:"login_error,omitempty"`

	Generated      [GeneratedSlots]*Question `json:"generated"`
	Slide          int                       `json:"slide"`
	CustomQuestion string                    `json:"custom_question"`
	CustomTheme    Theme                     `json:"custom_theme"`

	Selected         *Question `json:"selected,omitempty"`
	Draft            string    `json:"draft"`
	EditTargetID     string    `json:"edit_target_id,omitempty"`
	SelectedRecordID string    `json:"selected_record_id,omitempty"`
	LastReaction     *Reaction `json:"last_reaction,omitempty"`

	History       []AnswerRecord `json:"history"`
	Friends       []Friend       `json:"friends"`
	Notifications []Notification `json:"notifications"`

	ProfileForm       ProfileForm `json:"profile_form"`
	ProfileTab        ProfileTab  `json:"profile_tab"`
	ShowNotifications bool        `json:"show_notifications"`
	ShowSettings      bool        `json:"show_settings"`

	Loading         bool       `json:"loading"`
	Analyzing       bool       `json:"analyzing"`
	AnalyzingUntil  time.Time  `json:"analyzing_until,omitempty"`
	CopyStatus      CopyStatus `json:"copy_status"`
	CopyStatusUntil time.Time  `json:"copy_status_until,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Clone returns a copy that shares no mutable memory with s.
func (s Session) Clone() Session {
	out := s
	out.Profile = clonePtr(s.Profile)
	out.Selected = clonePtr(s.Selected)
	out.LastReaction = clonePtr(s.LastReaction)
	for i := range s.Generated {
		out.Generated[i] = clonePtr(s.Generated[i])
	}
	out.History = slices.Clone(s.History)
	for i := range out.History {
		out.History[i].Reaction = clonePtr(out.History[i].Reaction)
	}
	out.Friends = slices.Clone(s.Friends)
	out.Notifications = slices.Clone(s.Notifications)
	return out
}

func (s Session) FindRecord(id string) (int, bool) {
	if id == "" {
		return -1, false
	}
	for i, r := range s.History {
		if r.ID == id {
			return i, true
		}
	}
	return -1, false
}

// SelectedRecord is the history item opened in PROFILE_DETAIL, if any.
func (s Session) SelectedRecord() (AnswerRecord, bool) {
	i, ok := s.FindRecord(s.SelectedRecordID)
	if !ok {
		return AnswerRecord{}, false
	}
	return s.History[i], true
}

func (s Session) UnreadNotifications() int {
	n := 0
	for _, v := range s.Notifications {
		if !v.IsRead {
			n++
		}
	}
	return n
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
