// Package completion sends composed prompts to the hosted chat-completion
// API and classifies provider failures. No retries happen here; retry
// policy, if any, belongs to the caller.
package completion

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/sashabaranov/go-openai"

	"github.com/aidomo/pkg/models"
)

// Failure taxonomy surfaced to the caller.
var (
	// ErrAuthFailure means the provider rejected our credentials.
	ErrAuthFailure = errors.New("completion provider rejected credentials")

	// ErrQuotaExceeded means a rate or billing limit was hit.
	ErrQuotaExceeded = errors.New("completion provider quota exceeded")

	// ErrEmptyCompletion means the provider returned no content.
	ErrEmptyCompletion = errors.New("completion provider returned no content")

	// ErrTransient covers network errors and provider 5xx responses.
	ErrTransient = errors.New("transient completion failure")
)

// Config pins the model parameters. These are fixed configuration values,
// never request parameters.
type Config struct {
	Model       string  `yaml:"model"`
	Temperature float32 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
}

// DefaultConfig returns the production completion parameters.
func DefaultConfig() Config {
	return Config{
		Model:       openai.GPT4oMini,
		Temperature: 0.7,
		MaxTokens:   1500,
	}
}

// Invoker calls the OpenAI chat-completion API.
type Invoker struct {
	client *openai.Client
	config Config
}

func NewInvoker(client *openai.Client, config Config) *Invoker {
	if config.Model == "" {
		config = DefaultConfig()
	}
	return &Invoker{client: client, config: config}
}

// Complete sends the system prompt plus the full history, in order, and
// returns the generated reply text.
func (inv *Invoker) Complete(ctx context.Context, systemPrompt string, history []models.Message) (string, error) {
	chatMessages := make([]openai.ChatCompletionMessage, 0, len(history)+1)
	chatMessages = append(chatMessages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: systemPrompt,
	})
	for _, m := range history {
		chatMessages = append(chatMessages, openai.ChatCompletionMessage{
			Role:    string(m.Role),
			Content: m.Content,
		})
	}

	resp, err := inv.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       inv.config.Model,
		Temperature: inv.config.Temperature,
		MaxTokens:   inv.config.MaxTokens,
		Messages:    chatMessages,
	})
	if err != nil {
		return "", classify(err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", ErrEmptyCompletion
	}
	return resp.Choices[0].Message.Content, nil
}

// classify maps provider errors onto the package taxonomy using the HTTP
// status the OpenAI client reports.
func classify(err error) error {
	status := 0

	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	}

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return fmt.Errorf("%w: %v", ErrAuthFailure, err)
	case status == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %v", ErrQuotaExceeded, err)
	default:
		return fmt.Errorf("%w: %v", ErrTransient, err)
	}
}
