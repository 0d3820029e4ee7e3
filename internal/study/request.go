package study

import (
	"errors"
	"fmt"
)

// ErrInvalidRequest is returned for requests that cannot be turned into a prompt.
var ErrInvalidRequest = errors.New("invalid request")

// Request describes what to generate. Exactly one of SummaryRequest, MCQRequest
// and MixedQuizRequest.
type Request interface {
	Kind() Kind
	Validate() error
}

type SummaryRequest struct {
	DocumentName string
}

type MCQRequest struct {
	Count int
}

type MixedQuizRequest struct {
	MCQ         int
	TrueFalse   int
	ShortAnswer int
}

func (SummaryRequest) Kind() Kind   { return KindSummary }
func (MCQRequest) Kind() Kind       { return KindMCQ }
func (MixedQuizRequest) Kind() Kind { return KindMixed }

func (SummaryRequest) Validate() error { return nil }

func (r MCQRequest) Validate() error {
	if r.Count < 1 {
		return fmt.Errorf("%w: mcq count must be at least 1, got %d", ErrInvalidRequest, r.Count)
	}
	return nil
}

func (r MixedQuizRequest) Validate() error {
	if r.MCQ < 0 || r.TrueFalse < 0 || r.ShortAnswer < 0 {
		return fmt.Errorf("%w: counts must be non-negative, got %d/%d/%d", ErrInvalidRequest, r.MCQ, r.TrueFalse, r.ShortAnswer)
	}
	if r.Total() == 0 {
		return fmt.Errorf("%w: mixed quiz needs at least one question", ErrInvalidRequest)
	}
	return nil
}

func (r MixedQuizRequest) Total() int { return r.MCQ + r.TrueFalse + r.ShortAnswer }

// SplitMixed divides a user-requested total: half MCQ and 30% true/false, both
// truncated, with the remainder going to short answers.
func SplitMixed(total int) MixedQuizRequest {
	if total < 0 {
		total = 0
	}
	mcq := total * 5 / 10
	tf := total * 3 / 10
	return MixedQuizRequest{MCQ: mcq, TrueFalse: tf, ShortAnswer: total - mcq - tf}
}
