package study

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

// ParseError explains why a model reply could not be turned into an artifact.
type ParseError struct {
	Kind   Kind
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse %s: %s: %v", e.Kind, e.Reason, e.Err)
	}
	return fmt.Sprintf("parse %s: %s", e.Kind, e.Reason)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Parse turns a raw model reply into the artifact req asks for. On failure it
// returns the kind's fallback value together with a *ParseError.
func Parse(raw string, req Request) (Artifact, error) {
	switch r := req.(type) {
	case SummaryRequest:
		return ParseSummary(raw, r.DocumentName)
	case MCQRequest:
		return ParseMCQs(raw)
	case MixedQuizRequest:
		return ParseMixedQuiz(raw)
	default:
		return nil, fmt.Errorf("%w: unsupported request %T", ErrInvalidRequest, req)
	}
}

func ParseSummary(raw, docName string) (Summary, error) {
	var s Summary
	if err := decode(raw, '{', &s); err != nil {
		return FallbackSummary(docName), fail(KindSummary, err, raw)
	}
	return normalizeSummary(s), nil
}

func ParseMCQs(raw string) (MCQSet, error) {
	var wire []mcqWire
	if err := decode(raw, '[', &wire); err != nil {
		return FallbackMCQs(), fail(KindMCQ, err, raw)
	}
	out := make(MCQSet, 0, len(wire))
	for i, w := range wire {
		item, err := w.item(i)
		if err != nil {
			return FallbackMCQs(), fail(KindMCQ, err, raw)
		}
		out = append(out, item)
	}
	return out, nil
}

func ParseMixedQuiz(raw string) (MixedQuiz, error) {
	var wire struct {
		MCQs         []mcqWire `json:"mcqs"`
		TrueFalse    []tfWire  `json:"true_false"`
		ShortAnswers []saWire  `json:"short_answers"`
	}
	if err := decode(raw, '{', &wire); err != nil {
		return FallbackMixedQuiz(), fail(KindMixed, err, raw)
	}

	q := FallbackMixedQuiz()
	for i, w := range wire.MCQs {
		item, err := w.item(i)
		if err != nil {
			return FallbackMixedQuiz(), fail(KindMixed, fmt.Errorf("mcqs: %w", err), raw)
		}
		q.MCQs = append(q.MCQs, item)
	}
	for i, w := range wire.TrueFalse {
		item, err := w.item(i)
		if err != nil {
			return FallbackMixedQuiz(), fail(KindMixed, fmt.Errorf("true_false: %w", err), raw)
		}
		q.TrueFalse = append(q.TrueFalse, item)
	}
	for i, w := range wire.ShortAnswers {
		item, err := w.item(i)
		if err != nil {
			return FallbackMixedQuiz(), fail(KindMixed, fmt.Errorf("short_answers: %w", err), raw)
		}
		q.ShortAnswers = append(q.ShortAnswers, item)
	}
	return q, nil
}

// stripCodeFences removes a leading "```json" and a trailing "```", each with
// the whitespace around it. Nothing else is touched.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimSpace(strings.TrimPrefix(s, "```json"))
	}
	if strings.HasSuffix(s, "```") {
		s = strings.TrimSpace(strings.TrimSuffix(s, "```"))
	}
	return s
}

type shapeError struct{ reason string }

func (e *shapeError) Error() string { return e.reason }

func shapef(format string, args ...any) error {
	return &shapeError{reason: fmt.Sprintf(format, args...)}
}

func decode(raw string, root byte, v any) error {
	s := stripCodeFences(raw)
	if s == "" {
		return shapef("empty reply")
	}
	if s[0] != root {
		want := "object"
		if root == '[' {
			want = "array"
		}
		if err := json.Unmarshal([]byte(s), new(any)); err != nil {
			return err
		}
		return shapef("root must be a JSON %s", want)
	}
	return json.Unmarshal([]byte(s), v)
}

func fail(kind Kind, err error, raw string) *ParseError {
	pe := &ParseError{Kind: kind, Reason: "invalid JSON", Err: err}
	var se *shapeError
	if errors.As(err, &se) {
		pe.Reason, pe.Err = se.reason, nil
	} else {
		var ute *json.UnmarshalTypeError
		if errors.As(err, &ute) {
			pe.Reason = "unexpected type"
		}
	}
	log.Warn().Str("artifact", string(kind)).Str("reason", pe.Reason).Err(pe.Err).
		Str("reply", snippet(raw, 200)).Msg("model reply rejected, using fallback")
	return pe
}

// snippet keeps at most n runes of s for log output.
func snippet(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos] + "..."
		}
		i++
	}
	return s
}

type mcqWire struct {
	Question      *string            `json:"question"`
	Options       map[string]*string `json:"options"`
	CorrectAnswer *string            `json:"correct_answer"`
}

func (w mcqWire) item(i int) (MCQItem, error) {
	if w.Question == nil {
		return MCQItem{}, shapef("item %d: missing question", i)
	}
	if len(w.Options) != len(OptionKeys) {
		return MCQItem{}, shapef("item %d: options must have exactly the keys A, B, C, D", i)
	}
	opts := make(map[string]string, len(OptionKeys))
	for _, k := range OptionKeys {
		v, ok := w.Options[k]
		if !ok || v == nil {
			return MCQItem{}, shapef("item %d: options must have exactly the keys A, B, C, D", i)
		}
		opts[k] = *v
	}
	if w.CorrectAnswer == nil {
		return MCQItem{}, shapef("item %d: missing correct_answer", i)
	}
	if _, ok := opts[*w.CorrectAnswer]; !ok {
		return MCQItem{}, shapef("item %d: correct_answer %q is not an option", i, *w.CorrectAnswer)
	}
	return MCQItem{Question: *w.Question, Options: opts, CorrectAnswer: *w.CorrectAnswer}, nil
}

type tfWire struct {
	Question *string `json:"question"`
	Answer   *string `json:"answer"`
}

func (w tfWire) item(i int) (TrueFalseItem, error) {
	if w.Question == nil {
		return TrueFalseItem{}, shapef("item %d: missing question", i)
	}
	if w.Answer == nil {
		return TrueFalseItem{}, shapef("item %d: missing answer", i)
	}
	var answer string
	switch strings.ToLower(strings.TrimSpace(*w.Answer)) {
	case "true":
		answer = "True"
	case "false":
		answer = "False"
	default:
		return TrueFalseItem{}, shapef("item %d: answer %q is not True or False", i, *w.Answer)
	}
	return TrueFalseItem{Question: *w.Question, Answer: answer}, nil
}

type saWire struct {
	Question         *string   `json:"question"`
	RequiredKeywords *[]string `json:"required_keywords"`
}

func (w saWire) item(i int) (ShortAnswerItem, error) {
	if w.Question == nil {
		return ShortAnswerItem{}, shapef("item %d: missing question", i)
	}
	if w.RequiredKeywords == nil {
		return ShortAnswerItem{}, shapef("item %d: missing required_keywords", i)
	}
	kw := *w.RequiredKeywords
	if kw == nil {
		kw = []string{}
	}
	return ShortAnswerItem{Question: *w.Question, RequiredKeywords: kw}, nil
}

func normalizeSummary(s Summary) Summary {
	if s.StudyNotes == nil {
		s.StudyNotes = []string{}
	}
	if s.ImportantConcepts == nil {
		s.ImportantConcepts = map[string]string{}
	}
	if s.KeyIdeas == nil {
		s.KeyIdeas = []string{}
	}
	return s
}
