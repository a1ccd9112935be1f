package httpapi

import (
	"MindProfile/internal/domain/schema"
	"MindProfile/internal/domain/service/session"
	"MindProfile/internal/domain/service/share"
)

type CreateSessionRequest struct {
	ID string `json:"id" binding:"omitempty,max=128"`
}

type IntentRequest struct {
	Type    string `json:"type" binding:"required"`
	Text    string `json:"text"`
	ID      string `json:"id"`
	Theme   string `json:"theme"`
	Tab     string `json:"tab"`
	Confirm bool   `json:"confirm"`
}

func (r IntentRequest) Intent() session.Intent {
	return session.Intent{
		Kind:  session.Kind(r.Type),
		Text:  r.Text,
		ID:    r.ID,
		Theme: schema.Theme(r.Theme),
		Tab:   schema.ProfileTab(r.Tab),
	}
}

type SessionResponse struct {
	schema.Session
	UnreadNotifications int `json:"unread_notifications"`
}

func ToSessionResponse(s schema.Session) SessionResponse {
	return SessionResponse{Session: s, UnreadNotifications: s.UnreadNotifications()}
}

type SessionEnvelope struct {
	Session SessionResponse `json:"session"`
}

type SharePayload struct {
	Title  string `json:"title"`
	Text   string `json:"text"`
	URL    string `json:"url"`
	Copied bool   `json:"copied"`
}

type IntentResponse struct {
	Session  SessionResponse `json:"session"`
	Declined bool            `json:"declined,omitempty"`
	Prompt   string          `json:"prompt,omitempty"`
	Share    *SharePayload   `json:"share,omitempty"`
	Alert    string          `json:"alert,omitempty"`
}

func ToIntentResponse(res session.Result) IntentResponse {
	out := IntentResponse{
		Session:  ToSessionResponse(res.Session),
		Declined: res.Declined,
		Prompt:   res.Prompt,
		Alert:    res.Alert,
	}
	if res.Share != nil {
		out.Share = toSharePayload(*res.Share, res.Copied)
	}
	return out
}

func toSharePayload(p share.Payload, copied bool) *SharePayload {
	return &SharePayload{Title: p.Title, Text: p.Text, URL: p.URL, Copied: copied}
}

type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}
