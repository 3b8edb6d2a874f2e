package brain

import (
	"context"
	"sync"
)

// Mock is a Provider for tests. Every method records itself so tests
// can assert what the app asked and how often.
type Mock struct {
	// AskFunc is called when Ask is invoked.
	AskFunc func(ctx context.Context, prompt string) (string, error)

	// HealthFunc is called when Health is invoked.
	HealthFunc func(ctx context.Context) error

	// CloseFunc is called when Close is invoked.
	CloseFunc func() error

	mu    sync.Mutex
	calls []MockCall
}

// MockCall is one recorded invocation. Prompt is empty for methods
// that take none.
type MockCall struct {
	Method string
	Prompt string
}

// NewMock returns a mock that answers every prompt with a canned
// reply, and empty prompts the way the real provider handles silence.
func NewMock() *Mock {
	return &Mock{
		AskFunc: func(ctx context.Context, prompt string) (string, error) {
			if prompt == "" {
				return ReplyDidNotCatch, nil
			}
			return "Mock response", nil
		},
	}
}

// WithError returns a mock whose Ask always fails with err, answering
// with the canned apology the way the real provider does.
func WithError(err error) *Mock {
	return &Mock{
		AskFunc: func(ctx context.Context, prompt string) (string, error) {
			return ReplyTroubleThinking, err
		},
		HealthFunc: func(ctx context.Context) error {
			return err
		},
	}
}

// Ask calls AskFunc and records the call.
func (m *Mock) Ask(ctx context.Context, prompt string) (string, error) {
	m.record("Ask", prompt)
	if m.AskFunc != nil {
		return m.AskFunc(ctx, prompt)
	}
	return ReplyTroubleThinking, WrapError("mock", ErrEmptyReply)
}

// Reset records the call. The mock keeps no conversation state to
// clear.
func (m *Mock) Reset() {
	m.record("Reset", "")
}

// Health calls HealthFunc and records the call.
func (m *Mock) Health(ctx context.Context) error {
	m.record("Health", "")
	if m.HealthFunc != nil {
		return m.HealthFunc(ctx)
	}
	return nil
}

// Close calls CloseFunc and records the call.
func (m *Mock) Close() error {
	m.record("Close", "")
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

func (m *Mock) record(method, prompt string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, MockCall{Method: method, Prompt: prompt})
}

// Calls returns a copy of every recorded call, in order.
func (m *Mock) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MockCall, len(m.calls))
	copy(out, m.calls)
	return out
}

// CallCount reports how many times the named method was invoked.
func (m *Mock) CallCount(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		if c.Method == method {
			n++
		}
	}
	return n
}

var _ Provider = (*Mock)(nil)
