package session

import "MindProfile/internal/domain/service/share"

type EffectKind string

const (
	EffectLoadQuestions    EffectKind = "load_questions"
	EffectGenerateReaction EffectKind = "generate_reaction"
	EffectShare            EffectKind = "share"
)

// Effect is side-effecting work requested by a transition. The controller
// runs it and feeds the outcome back as an internal intent.
type Effect struct {
	Kind       EffectKind
	Submission submission
	Share      share.Request
}
