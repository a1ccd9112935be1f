package openai

import (
	"MindProfile/internal/adapters/provider"
	"MindProfile/internal/domain/repository"
	"MindProfile/internal/domain/schema"
	"context"
	"fmt"
	"time"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.uber.org/zap"
)

const (
	defaultModel = "gpt-4o-mini"
	systemPrompt = "You write short Korean conversation content for a friends Q&A app. Always answer with JSON matching the schema."
	maxTokens    = 300
)

type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// Client talks to any OpenAI-compatible chat completions endpoint using a
// strict JSON schema response format.
type Client struct {
	client  openai.Client
	model   string
	timeout time.Duration
	logger  *zap.Logger
}

var _ repository.ContentProvider = (*Client)(nil)

func New(cfg Config, logger *zap.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	return &Client{
		client:  openai.NewClient(opts...),
		model:   model,
		timeout: cfg.Timeout,
		logger:  logger,
	}, nil
}

func (c *Client) GenerateQuestion(ctx context.Context, category schema.Category) (repository.GeneratedQuestion, error) {
	raw, err := c.chat(ctx, provider.QuestionPrompt(category), "daily_question", questionSchema)
	if err != nil {
		return repository.GeneratedQuestion{}, err
	}
	return provider.DecodeQuestion(raw)
}

func (c *Client) GenerateReaction(ctx context.Context, question, answer string) (schema.Reaction, error) {
	raw, err := c.chat(ctx, provider.ReactionPrompt(question, answer), "answer_reaction", reactionSchema)
	if err != nil {
		return schema.Reaction{}, err
	}
	return provider.DecodeReaction(raw)
}

func (c *Client) chat(ctx context.Context, prompt, schemaName string, responseSchema any) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	params := openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(prompt),
		},
		MaxTokens: openai.Int(maxTokens),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   schemaName,
					Schema: responseSchema,
					Strict: openai.Bool(true),
				},
			},
		},
	}

	start := time.Now()
	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai chat: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", provider.ErrEmptyResponse
	}
	c.logger.Debug("openai chat completed",
		zap.String("model", c.model),
		zap.Duration("took", time.Since(start)),
		zap.Int64("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int64("completion_tokens", resp.Usage.CompletionTokens),
	)
	return resp.Choices[0].Message.Content, nil
}

var (
	questionSchema = generateSchema[provider.QuestionPayload]()
	reactionSchema = generateSchema[provider.ReactionPayload]()
)

func generateSchema[T any]() any {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return reflector.Reflect(v)
}
