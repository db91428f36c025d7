package token_counter

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockTokenCounter is a mock implementation of TokenCounterInterface for testing.
type MockTokenCounter struct {
	mock.Mock
}

var _ TokenCounterInterface = (*MockTokenCounter)(nil)

func NewMockTokenCounter() *MockTokenCounter {
	return &MockTokenCounter{}
}

func (m *MockTokenCounter) CountTextTokens(ctx context.Context, text string) (int, error) {
	args := m.Called(ctx, text)
	return args.Int(0), args.Error(1)
}

func (m *MockTokenCounter) CountMessagesTokens(ctx context.Context, messages []Message) (int, error) {
	args := m.Called(ctx, messages)
	return args.Int(0), args.Error(1)
}

func (m *MockTokenCounter) EstimateMessageTokens(ctx context.Context, msg Message) (int, error) {
	args := m.Called(ctx, msg)
	return args.Int(0), args.Error(1)
}
