package ai

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
	genai "google.golang.org/genai"
)

// Gemini is a Generator backed by the Gemini API. The client is created on the
// first call so that a missing key surfaces there rather than at startup.
type Gemini struct {
	opts Options

	mu     sync.Mutex
	client *genai.Client
}

// NewGateway returns the Gemini generator for opts, bounded by opts.Timeout.
func NewGateway(opts Options) Generator {
	g := NewGemini(opts)
	return WithTimeout(g, g.Model(), opts.Timeout)
}

func NewGemini(opts Options) *Gemini {
	if opts.Model == "" {
		opts.Model = DefaultModel
	}
	return &Gemini{opts: opts}
}

func (g *Gemini) Model() string { return g.opts.Model }

func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	c, err := g.clientFor(ctx)
	if err != nil {
		return "", err
	}

	log.Debug().Str("model", g.opts.Model).Int("prompt_chars", len(prompt)).Msg("calling gemini")
	res, err := c.Models.GenerateContent(ctx, g.opts.Model, genai.Text(prompt), nil)
	if err != nil {
		return "", &ModelCallError{Model: g.opts.Model, Err: err}
	}
	out := res.Text()
	log.Debug().Str("model", g.opts.Model).Int("reply_chars", len(out)).Msg("gemini replied")
	return out, nil
}

func (g *Gemini) clientFor(ctx context.Context) (*genai.Client, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.client != nil {
		return g.client, nil
	}
	if g.opts.APIKey == "" {
		return nil, &ConfigurationError{Setting: "llm.api_key", Reason: "missing GEMINI_API_KEY / GOOGLE_API_KEY"}
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  g.opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, &ConfigurationError{Setting: "llm.api_key", Reason: err.Error()}
	}
	g.client = c
	return c, nil
}
