package schema

import (
	"fmt"
	"time"
)

const MaxAnswerLength = 50

type Reaction struct {
	Comment          string `json:"comment"`
	FollowUpQuestion string `json:"follow_up_question"`
	Emoji            string `json:"emoji"`
}

// FallbackReaction is attached whenever the provider cannot produce one.
func FallbackReaction() Reaction {
	return Reaction{
		Comment:          "친구의 생각이 정말 궁금해지네요!",
		FollowUpQuestion: "너도 그렇게 생각해?",
		Emoji:            "✨",
	}
}

type AnswerRecord struct {
	ID        string    `json:"id"`
	Question  Question  `json:"question"`
	Answer    string    `json:"answer"`
	CreatedAt time.Time `json:"created_at"`
	DateLabel string    `json:"date_label"`
	Reaction  *Reaction `json:"reaction,omitempty"`
	Theme     Theme     `json:"theme,omitempty"`
}

// KST is the zone history dates are shown in. Korea has no DST.
var KST = time.FixedZone("KST", 9*60*60)

// DateLabel renders t the way the history list shows it, e.g. "10월 15일".
func DateLabel(t time.Time) string {
	t = t.In(KST)
	return fmt.Sprintf("%d월 %d일", int(t.Month()), t.Day())
}
