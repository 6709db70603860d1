// Package evaluatortest provides a scripted evaluator.Generator for tests.
package evaluatortest

import (
	"context"
	"strings"
	"sync"
)

// Reply is one scripted answer.
type Reply struct {
	Text string
	Err  error
}

// MockGenerator answers prompts from Routes, matching the first key the
// prompt contains, and otherwise from Responses in sequence.
//
//	gen := &MockGenerator{
//	    Routes: map[string]Reply{
//	        "WEBSITE TYPE": {Text: `{"holistic_score": 70, ...}`},
//	    },
//	}
type MockGenerator struct {
	mu        sync.Mutex
	Routes    map[string]Reply
	Responses []Reply
	Err       error

	prompts []string
	next    int
}

// Generate implements evaluator.Generator.
func (m *MockGenerator) Generate(_ context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.prompts = append(m.prompts, prompt)

	if m.Err != nil {
		return "", m.Err
	}
	for key, reply := range m.Routes {
		if strings.Contains(prompt, key) {
			return reply.Text, reply.Err
		}
	}
	if m.next < len(m.Responses) {
		reply := m.Responses[m.next]
		m.next++
		return reply.Text, reply.Err
	}
	return "", nil
}

// Prompts returns every prompt received so far.
func (m *MockGenerator) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.prompts...)
}

// CallCount returns how many prompts were received.
func (m *MockGenerator) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts)
}
