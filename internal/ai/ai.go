package ai

import (
	"context"
	"sync"
	"time"
)

// Generator sends one prompt to a text-generation backend and returns the raw reply.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Options configures a single model endpoint. It is passed explicitly instead of
// being read from the environment by the gateway itself.
type Options struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

const DefaultModel = "gemini-2.5-flash"

// Static replies with a fixed text or a fixed error. Useful offline and in tests.
type Static struct {
	Reply string
	Err   error

	mu sync.Mutex
	// Prompts records every prompt received, in order.
	Prompts []string
}

func (s *Static) Generate(ctx context.Context, prompt string) (string, error) {
	s.mu.Lock()
	s.Prompts = append(s.Prompts, prompt)
	s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s.Err != nil {
		return "", s.Err
	}
	return s.Reply, nil
}

// GeneratorFunc adapts a plain function to Generator.
type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}
