package token_counter

import (
	"context"
	"fmt"
	"time"

	"github.com/FrenchMajesty/turbo-kit/utils/logger"
	"github.com/FrenchMajesty/turbo-kit/utils/memo"
	"github.com/FrenchMajesty/turbo-kit/utils/retry"
	"github.com/pkoukk/tiktoken-go"
)

const (
	// cl100k_base is used by GPT-4, GPT-3.5-turbo and text-embedding-ada-002
	DefaultEncoding = "cl100k_base"
	DefaultCacheTTL = 10 * time.Minute

	// Per-message overhead, following OpenAI's token counting methodology
	messageOverhead = 4
)

// Options configures NewTokenCounter. Zero fields take defaults.
type Options struct {
	Encoding string
	// Load defaults to TiktokenLoader.
	Load Loader
	// Retry governs loading the encoding; the first load downloads the
	// vocabulary and can fail transiently. Zero MaxAttempts means 3; zero
	// Delay then means 500ms.
	Retry retry.Config
	// CacheTTL is how long a counted text is remembered.
	CacheTTL time.Duration

	Logger  logger.Logger
	Verbose bool
}

// TiktokenLoader loads encodings with tiktoken-go.
func TiktokenLoader(encoding string) (Encoder, error) {
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, err
	}
	return enc, nil
}

// tokenCounterImpl counts tokens with a loaded encoder and remembers the
// count of every text it has seen for CacheTTL.
type tokenCounterImpl struct {
	encoder   Encoder
	countText func(ctx context.Context, text string) (int, error)
}

var _ TokenCounterInterface = (*tokenCounterImpl)(nil)

// NewTokenCounter loads the encoding, retrying per opts.Retry.
func NewTokenCounter(ctx context.Context, opts Options) (*tokenCounterImpl, error) {
	if opts.Encoding == "" {
		opts.Encoding = DefaultEncoding
	}
	if opts.Load == nil {
		opts.Load = TiktokenLoader
	}
	if opts.Retry.MaxAttempts == 0 {
		opts.Retry.MaxAttempts = 3
		if opts.Retry.Delay == 0 {
			opts.Retry.Delay = 500 * time.Millisecond
		}
	}
	if opts.Retry.Name == "" {
		opts.Retry.Name = "load encoding " + opts.Encoding
	}
	if opts.Retry.Logger == nil {
		opts.Retry.Logger = opts.Logger
		opts.Retry.Verbose = opts.Verbose
	}
	if opts.CacheTTL == 0 {
		opts.CacheTTL = DefaultCacheTTL
	}

	encoder, err := retry.Execute(ctx, opts.Retry, func(ctx context.Context) (Encoder, error) {
		return opts.Load(opts.Encoding)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get tiktoken encoding: %w", err)
	}

	countText, err := memo.Memoize1(func(ctx context.Context, text string) (int, error) {
		return len(encoder.Encode(text, nil, nil)), nil
	}, memo.Options{
		Name:    "token_counter/" + opts.Encoding,
		TTL:     opts.CacheTTL,
		Logger:  opts.Logger,
		Verbose: opts.Verbose,
	})
	if err != nil {
		return nil, err
	}

	return &tokenCounterImpl{
		encoder:   encoder,
		countText: countText,
	}, nil
}

// CountTextTokens counts tokens in plain text.
func (tc *tokenCounterImpl) CountTextTokens(ctx context.Context, text string) (int, error) {
	return tc.countText(ctx, text)
}

// EstimateMessageTokens counts role and content tokens plus the per-message overhead.
func (tc *tokenCounterImpl) EstimateMessageTokens(ctx context.Context, msg Message) (int, error) {
	roleTokens, err := tc.countText(ctx, msg.Role)
	if err != nil {
		return 0, err
	}
	contentTokens, err := tc.countText(ctx, msg.Content)
	if err != nil {
		return 0, err
	}
	return roleTokens + contentTokens + messageOverhead, nil
}

// CountMessagesTokens sums EstimateMessageTokens over messages.
func (tc *tokenCounterImpl) CountMessagesTokens(ctx context.Context, messages []Message) (int, error) {
	total := 0
	for _, msg := range messages {
		n, err := tc.EstimateMessageTokens(ctx, msg)
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}
