package completion

import "context"

// Backend defines the interface to the remote completion service.
type Backend interface {
	// CreateChatCompletion sends a chat completion request (non-streaming).
	CreateChatCompletion(ctx context.Context, apiKey string, req *ChatCompletionRequest) (*ChatCompletionResponse, error)
}

// Ensure Client implements Backend.
var _ Backend = (*Client)(nil)
