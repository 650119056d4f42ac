package gateway

import (
	"context"
	"strings"
	"sync"
)

// MockTransport provides canned responses for tests. Responses are
// keyed by a substring matched against the user prompt; the first
// matching key wins, falling back to DefaultResponse.
type MockTransport struct {
	mu              sync.Mutex
	responses       map[string]string
	errs            []error
	calls           int
	DefaultResponse string
}

func NewMockTransport() *MockTransport {
	return &MockTransport{
		responses:       map[string]string{},
		DefaultResponse: `{}`,
	}
}

// Respond registers a canned completion for prompts containing key.
func (m *MockTransport) Respond(key, content string) *MockTransport {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[key] = content
	return m
}

// FailWith queues errors returned ahead of any canned response, one
// per call, to exercise the retry path.
func (m *MockTransport) FailWith(errs ...error) *MockTransport {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs = append(m.errs, errs...)
	return m
}

// Calls reports how many round trips were attempted.
func (m *MockTransport) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *MockTransport) Do(ctx context.Context, req Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++

	if len(m.errs) > 0 {
		err := m.errs[0]
		m.errs = m.errs[1:]
		return nil, err
	}

	content := m.DefaultResponse
	for key, resp := range m.responses {
		if strings.Contains(req.UserPrompt, key) {
			content = resp
			break
		}
	}

	promptTokens := (len(req.SystemPrompt) + len(req.UserPrompt)) / 4
	completionTokens := len(content) / 4
	return &Response{
		Content: content,
		Usage: Usage{
			PromptTokens:     promptTokens,
			CompletionTokens: completionTokens,
			TotalTokens:      promptTokens + completionTokens,
		},
		Model:        "mock",
		FinishReason: FinishStop,
	}, nil
}
