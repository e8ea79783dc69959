package completion

import (
	"context"
	"errors"
	"net"
	"strings"

	"github.com/singhshivanjali049-sudo/customer-support-chatbot/domain"
)

// ErrMalformedResponse marks a backend response that could not be decoded.
var ErrMalformedResponse = errors.New("malformed response")

// SystemPrompt is the fixed instruction prepended to every request. It is a
// per-call artifact and is never stored back into the session.
const SystemPrompt = `You are a helpful customer support assistant.
You should be polite, professional, and try to resolve customer issues effectively.
If you cannot help with a specific issue, politely direct them to human support.
Keep responses concise but helpful.`

// Outcome is the normalized result of one completion attempt: either a
// reply or a classified, contained failure. Never both.
type Outcome struct {
	Reply   string
	Failure *domain.Failure
}

// Failed reports whether the outcome is a contained failure.
func (o Outcome) Failed() bool {
	return o.Failure != nil
}

// Completer dispatches a conversation history to a Backend and contains
// every backend failure at this boundary.
type Completer struct {
	backend      Backend
	systemPrompt string
}

// NewCompleter creates a Completer with the default system prompt.
func NewCompleter(backend Backend) *Completer {
	return &Completer{
		backend:      backend,
		systemPrompt: SystemPrompt,
	}
}

// NewCompleterWithPrompt creates a Completer with a custom system prompt.
func NewCompleterWithPrompt(backend Backend, prompt string) *Completer {
	return &Completer{
		backend:      backend,
		systemPrompt: prompt,
	}
}

// Complete prepends the system instruction to history, sends the combined
// sequence with the supplied configuration, and returns the normalized
// outcome. The call suspends until a reply or terminal failure is obtained;
// there is exactly one outbound attempt.
func (c *Completer) Complete(ctx context.Context, history []domain.Message, cfg domain.CompletionConfig) Outcome {
	messages := make([]ChatMessage, 0, len(history)+1)
	messages = append(messages, ChatMessage{Role: string(domain.RoleSystem), Content: c.systemPrompt})
	for _, msg := range history {
		messages = append(messages, ChatMessage{Role: string(msg.Role), Content: msg.Content})
	}

	model := cfg.Model
	if model == "" {
		model = domain.DefaultModel
	}
	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = domain.DefaultTemperature
	}
	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = domain.DefaultMaxTokens
	}

	resp, err := c.backend.CreateChatCompletion(ctx, cfg.APIKey, &ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: &temperature,
		MaxTokens:   &maxTokens,
	})
	if err != nil {
		return Outcome{Failure: classify(err)}
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message == nil {
		return Outcome{Failure: &domain.Failure{
			Kind:   domain.FailureMalformed,
			Detail: "response contained no choices",
		}}
	}

	return Outcome{Reply: strings.TrimSpace(resp.Choices[0].Message.Content)}
}

// classify maps a backend error to a failure kind.
func classify(err error) *domain.Failure {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		kind := domain.FailureBackend
		switch statusErr.StatusCode {
		case 401, 403:
			kind = domain.FailureAuth
		case 429:
			kind = domain.FailureQuota
		}
		return &domain.Failure{Kind: kind, Detail: statusErr.Error()}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &domain.Failure{Kind: domain.FailureTimeout, Detail: err.Error()}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &domain.Failure{Kind: domain.FailureTimeout, Detail: err.Error()}
	}

	if errors.Is(err, ErrMalformedResponse) {
		return &domain.Failure{Kind: domain.FailureMalformed, Detail: err.Error()}
	}

	return &domain.Failure{Kind: domain.FailureNetwork, Detail: err.Error()}
}
