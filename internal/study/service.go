package study

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/thywilljoshua/studynotes/internal/ai"
	"github.com/thywilljoshua/studynotes/internal/metrics"
)

// ErrEmptyDocument is returned when there is no text to generate from.
var ErrEmptyDocument = errors.New("document has no extractable text")

// Result is the outcome of one generation pipeline. Value is always renderable:
// when Err is set it holds the kind's fallback. Err is a *ai.ModelCallError or
// a *ParseError.
type Result[T Artifact] struct {
	Value T
	Err   error
}

func (r Result[T]) Failed() bool { return r.Err != nil }

// Recorder receives one observation per pipeline run.
type Recorder interface {
	ObserveGeneration(artifact, outcome string, d time.Duration)
}

// Service runs the build -> generate -> parse pipeline for each artifact kind.
// Calls are independent and share no mutable state.
type Service struct {
	summary ai.Generator
	quiz    ai.Generator
	rec     Recorder
}

type Option func(*Service)

func WithRecorder(r Recorder) Option {
	return func(s *Service) { s.rec = r }
}

// NewService wires the summary and quiz generators. A nil quiz generator reuses summary.
func NewService(summary, quiz ai.Generator, opts ...Option) *Service {
	if quiz == nil {
		quiz = summary
	}
	s := &Service{summary: summary, quiz: quiz}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Service) Summarize(ctx context.Context, docName, text string) (Result[Summary], error) {
	return run(ctx, s, s.summary, SummaryRequest{DocumentName: docName}, text, FallbackSummary(docName),
		func(raw string) (Summary, error) { return ParseSummary(raw, docName) })
}

func (s *Service) GenerateMCQs(ctx context.Context, text string, count int) (Result[MCQSet], error) {
	return run(ctx, s, s.quiz, MCQRequest{Count: count}, text, FallbackMCQs(), ParseMCQs)
}

// GenerateMixedQuiz takes the three counts already split by the caller (see SplitMixed).
func (s *Service) GenerateMixedQuiz(ctx context.Context, text string, mcq, trueFalse, shortAnswer int) (Result[MixedQuiz], error) {
	req := MixedQuizRequest{MCQ: mcq, TrueFalse: trueFalse, ShortAnswer: shortAnswer}
	return run(ctx, s, s.quiz, req, text, FallbackMixedQuiz(), ParseMixedQuiz)
}

// Generate dispatches on the request kind.
func (s *Service) Generate(ctx context.Context, req Request, text string) (Result[Artifact], error) {
	switch r := req.(type) {
	case SummaryRequest:
		res, err := s.Summarize(ctx, r.DocumentName, text)
		return Result[Artifact]{Value: res.Value, Err: res.Err}, err
	case MCQRequest:
		res, err := s.GenerateMCQs(ctx, text, r.Count)
		return Result[Artifact]{Value: res.Value, Err: res.Err}, err
	case MixedQuizRequest:
		res, err := s.GenerateMixedQuiz(ctx, text, r.MCQ, r.TrueFalse, r.ShortAnswer)
		return Result[Artifact]{Value: res.Value, Err: res.Err}, err
	default:
		return Result[Artifact]{}, fmt.Errorf("%w: unsupported request %T", ErrInvalidRequest, req)
	}
}

func run[T Artifact](ctx context.Context, s *Service, gen ai.Generator, req Request, text string, fallback T, parse func(string) (T, error)) (Result[T], error) {
	kind := req.Kind()
	logger := log.With().Str("artifact", string(kind)).Logger()

	if err := req.Validate(); err != nil {
		return Result[T]{Value: fallback}, err
	}
	if strings.TrimSpace(text) == "" {
		return Result[T]{Value: fallback}, ErrEmptyDocument
	}

	start := time.Now()
	prompt := BuildPrompt(req, text)
	raw, err := gen.Generate(ctx, prompt)
	if err != nil {
		if ai.IsConfigurationError(err) {
			s.observe(kind, metrics.OutcomeConfigError, start)
			logger.Error().Err(err).Msg("model gateway is not configured")
			return Result[T]{Value: fallback}, err
		}
		var mce *ai.ModelCallError
		if !errors.As(err, &mce) {
			mce = &ai.ModelCallError{Err: err}
		}
		s.observe(kind, metrics.OutcomeModelError, start)
		logger.Error().Err(mce).Dur("elapsed", time.Since(start)).Msg("model call failed, using fallback")
		return Result[T]{Value: fallback, Err: mce}, nil
	}

	v, err := parse(raw)
	if err != nil {
		s.observe(kind, metrics.OutcomeParseError, start)
		return Result[T]{Value: v, Err: err}, nil
	}
	s.observe(kind, metrics.OutcomeOK, start)
	logger.Info().Int("items", count(v)).Dur("elapsed", time.Since(start)).Msg("artifact generated")
	return Result[T]{Value: v}, nil
}

func (s *Service) observe(kind Kind, outcome string, start time.Time) {
	if s.rec != nil {
		s.rec.ObserveGeneration(string(kind), outcome, time.Since(start))
	}
}

func count(a Artifact) int {
	switch v := a.(type) {
	case MCQSet:
		return len(v)
	case MixedQuiz:
		return v.Len()
	case Summary:
		return len(v.StudyNotes) + len(v.KeyIdeas) + len(v.ImportantConcepts)
	}
	return 0
}
