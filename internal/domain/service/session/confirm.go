package session

import (
	"MindProfile/internal/domain/schema"
	"context"
)

const (
	PromptLeaveDraft = "홈으로 돌아가시겠습니까? 작성 중인 내용은 사라집니다."
	PromptDelete     = "정말 삭제하시겠습니까? 삭제된 기록은 복구할 수 없습니다."
	PromptLogout     = "로그아웃 하시겠습니까?"
	PromptWithdraw   = "정말로 탈퇴하시겠습니까? 모든 기록과 친구 목록이 삭제됩니다."
)

// Confirmer is the blocking yes/no prompt shown before destructive or
// data-losing transitions.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

type ConfirmFunc func(ctx context.Context, prompt string) bool

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) bool { return f(ctx, prompt) }

var (
	AlwaysConfirm = ConfirmFunc(func(context.Context, string) bool { return true })
	NeverConfirm  = ConfirmFunc(func(context.Context, string) bool { return false })
)

// ConfirmationPrompt returns the prompt the user must accept before in is
// applied to s, or false when no confirmation is needed.
func ConfirmationPrompt(s schema.Session, in Intent) (string, bool) {
	switch in.Kind {
	case GoHome:
		if s.View == schema.ViewAnswer && s.Draft != "" {
			return PromptLeaveDraft, true
		}
	case DeleteAnswer:
		return PromptDelete, true
	case Logout:
		return PromptLogout, true
	case Withdraw:
		return PromptWithdraw, true
	}
	return "", false
}
