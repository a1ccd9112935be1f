package provider

import (
	"MindProfile/internal/domain/repository"
	"MindProfile/internal/domain/schema"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrDisabled      = errors.New("content provider disabled")
	ErrEmptyResponse = errors.New("empty provider response")
)

// QuestionPayload is the structured output requested for a new question.
type QuestionPayload struct {
	Category string `json:"category" jsonschema:"description=Echo of the requested category"`
	Question string `json:"question" jsonschema:"description=The question text in Korean (max 40 chars)"`
	Context  string `json:"context" jsonschema:"description=A very short subtitle (max 15 chars)"`
}

// ReactionPayload is the structured output requested for an answer.
type ReactionPayload struct {
	Comment          string `json:"comment" jsonschema:"description=Short reaction in Korean"`
	FollowUpQuestion string `json:"followUpQuestion" jsonschema:"description=Follow-up question in Korean"`
	Emoji            string `json:"emoji" jsonschema:"description=A single matching emoji"`
}

func QuestionPrompt(category schema.Category) string {
	return fmt.Sprintf(`Create a short, engaging conversation starter question for friends in Korean.
Category: %s

Constraint: The question must be short (under %d characters) to fit on a mobile card.
The tone should be sentimental yet trendy, suitable for Gen Z.
Return JSON format.`, category, schema.MaxProviderQuestionLength)
}

func ReactionPrompt(question, answer string) string {
	return fmt.Sprintf(`You are a witty, empathetic friend.
Analyze this Q&A between friends.

Q: %q
A: %q

Give a very short 1-sentence reaction (Korean) and a matching emoji.
Also suggest a follow-up question.
Return JSON.`, question, answer)
}

func DecodeQuestion(raw string) (repository.GeneratedQuestion, error) {
	var p QuestionPayload
	if err := decode(raw, &p); err != nil {
		return repository.GeneratedQuestion{}, err
	}
	return repository.GeneratedQuestion{
		Category: schema.Category(p.Category),
		Text:     p.Question,
		Context:  p.Context,
	}, nil
}

func DecodeReaction(raw string) (schema.Reaction, error) {
	var p ReactionPayload
	if err := decode(raw, &p); err != nil {
		return schema.Reaction{}, err
	}
	return schema.Reaction{
		Comment:          p.Comment,
		FollowUpQuestion: p.FollowUpQuestion,
		Emoji:            p.Emoji,
	}, nil
}

// decode accepts bare JSON and JSON wrapped in a markdown code fence.
func decode(raw string, v any) error {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ErrEmptyResponse
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("decode provider response: %w", err)
	}
	return nil
}

// Disabled always fails, so every caller gets the built-in fallbacks.
type Disabled struct{}

var _ repository.ContentProvider = Disabled{}

func (Disabled) GenerateQuestion(context.Context, schema.Category) (repository.GeneratedQuestion, error) {
	return repository.GeneratedQuestion{}, ErrDisabled
}

func (Disabled) GenerateReaction(context.Context, string, string) (schema.Reaction, error) {
	return schema.Reaction{}, ErrDisabled
}
