package gemini

import (
	"MindProfile/internal/adapters/provider"
	"MindProfile/internal/domain/repository"
	"MindProfile/internal/domain/schema"
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

const defaultModel = "gemini-3-flash-preview"

type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// Client generates questions and reactions with Gemini structured output.
type Client struct {
	client  *genai.Client
	model   string
	timeout time.Duration
	logger  *zap.Logger
}

var _ repository.ContentProvider = (*Client)(nil)

func New(ctx context.Context, cfg Config, logger *zap.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	return &Client{client: client, model: model, timeout: cfg.Timeout, logger: logger}, nil
}

func (c *Client) GenerateQuestion(ctx context.Context, category schema.Category) (repository.GeneratedQuestion, error) {
	raw, err := c.generate(ctx, provider.QuestionPrompt(category), questionSchema)
	if err != nil {
		return repository.GeneratedQuestion{}, err
	}
	return provider.DecodeQuestion(raw)
}

func (c *Client) GenerateReaction(ctx context.Context, question, answer string) (schema.Reaction, error) {
	raw, err := c.generate(ctx, provider.ReactionPrompt(question, answer), reactionSchema)
	if err != nil {
		return schema.Reaction{}, err
	}
	return provider.DecodeReaction(raw)
}

func (c *Client) generate(ctx context.Context, prompt string, responseSchema *genai.Schema) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   responseSchema,
	})
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	c.logger.Debug("gemini generate completed",
		zap.String("model", c.model),
		zap.Duration("took", time.Since(start)),
	)

	text := resp.Text()
	if text == "" {
		return "", provider.ErrEmptyResponse
	}
	return text, nil
}

var questionSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"category": {Type: genai.TypeString},
		"question": {Type: genai.TypeString, Description: "The actual question text in Korean (max 40 chars)"},
		"context":  {Type: genai.TypeString, Description: "A very short subtitle or context (max 15 chars)."},
	},
	Required: []string{"category", "question"},
}

var reactionSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"comment":          {Type: genai.TypeString, Description: "Short reaction in Korean"},
		"followUpQuestion": {Type: genai.TypeString},
		"emoji":            {Type: genai.TypeString},
	},
	Required: []string{"comment", "followUpQuestion", "emoji"},
}
