package token_counter

import "context"

// TokenCounterInterface is what callers depend on; MockTokenCounter stands in for it in tests.
type TokenCounterInterface interface {
	CountTextTokens(ctx context.Context, text string) (int, error)
	CountMessagesTokens(ctx context.Context, messages []Message) (int, error)
	EstimateMessageTokens(ctx context.Context, msg Message) (int, error)
}

// Encoder turns text into BPE token ids. *tiktoken.Tiktoken satisfies it.
type Encoder interface {
	Encode(text string, allowedSpecial []string, disallowedSpecial []string) []int
}

// Loader returns the encoder for a named encoding.
type Loader func(encoding string) (Encoder, error)

// Message is one chat turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
