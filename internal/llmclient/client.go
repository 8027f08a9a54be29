// Package llmclient wraps the OpenAI-compatible chat and embedding APIs
// behind the two primitives the rest of the system needs: complete a chat
// turn, and embed a batch of texts.
package llmclient

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sashabaranov/go-openai"

	"github.com/nadlanit/concierge/internal/config"
)

// Message is one chat turn in a provider request.
type Message struct {
	Role    string // "system", "user", "assistant"
	Content string
}

// Client talks to an OpenAI-compatible chat endpoint and an
// OpenAI-compatible embedding endpoint, which may be different deployments
// (separate base URL / API key / model) per config.
type Client struct {
	chat       *openai.Client
	chatModel  string
	maxTokens  int
	embed      *openai.Client
	embedModel string
}

func New(cfg *config.Config) *Client {
	chatCfg := openai.DefaultConfig(cfg.LLMAPIKey)
	if cfg.LLMBaseURL != "" {
		chatCfg.BaseURL = cfg.LLMBaseURL
	}

	embedCfg := openai.DefaultConfig(cfg.EmbeddingAPIKey)
	if cfg.EmbeddingBaseURL != "" {
		embedCfg.BaseURL = cfg.EmbeddingBaseURL
	}

	return &Client{
		chat:       openai.NewClientWithConfig(chatCfg),
		chatModel:  cfg.LLMModel,
		maxTokens:  cfg.LLMMaxTokens,
		embed:      openai.NewClientWithConfig(embedCfg),
		embedModel: cfg.EmbeddingModel,
	}
}

// Chat completes one turn at temperature 0.3, per the LLM Pipeline's fixed
// request parameters.
func (c *Client) Chat(ctx context.Context, messages []Message) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       c.chatModel,
		Temperature: 0.3,
		MaxTokens:   c.maxTokens,
		Messages:    make([]openai.ChatCompletionMessage, len(messages)),
	}
	for i, m := range messages {
		req.Messages[i] = openai.ChatCompletionMessage{Role: m.Role, Content: m.Content}
	}

	resp, err := c.chat.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", errors.Wrap(err, "chat completion failed")
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("empty chat completion response")
	}
	return resp.Choices[0].Message.Content, nil
}

const embedBatchSize = 100

// Embed returns one vector per input text, batching calls at 100 inputs
// each to respect typical provider limits.
func (c *Client) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	vectors := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(texts) {
			end = len(texts)
		}
		batch := texts[start:end]

		resp, err := c.embed.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
			Input: batch,
			Model: openai.EmbeddingModel(c.embedModel),
		})
		if err != nil {
			return nil, errors.Wrap(err, "create embeddings failed")
		}
		if len(resp.Data) != len(batch) {
			return nil, errors.Errorf("embedding response size mismatch: got %d, want %d", len(resp.Data), len(batch))
		}
		for _, d := range resp.Data {
			vectors = append(vectors, d.Embedding)
		}
	}
	return vectors, nil
}
