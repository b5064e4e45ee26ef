package grading

import (
	"context"
	"fmt"
)

// Kind tags how a question is graded. It is decided once, when the answer
// key is extracted, and never re-inferred from a submission.
type Kind string

const (
	KindOpenText Kind = "open_text"
	KindChoice   Kind = "choice"
)

// Q is a minimal view of a question needed for grading.
// For KindOpenText AnswerKey holds normalized accepted texts,
// for KindChoice the identifiers of the correct answers.
type Q struct {
	Kind      Kind
	AnswerKey []string
}

// Result is the outcome of grading a single question response.
type Result struct {
	Correct  bool
	Feedback []string // optional notes
}

// Strategy grades a single question.
type Strategy interface {
	Grade(ctx context.Context, q Q, selected []string) (Result, error)
}

// Grader routes by question kind to the correct Strategy.
type Grader interface {
	Grade(ctx context.Context, q Q, selected []string) (Result, error)
}

type defaultGrader struct {
	strategies map[Kind]Strategy
}

func (g *defaultGrader) Grade(ctx context.Context, q Q, selected []string) (Result, error) {
	s, ok := g.strategies[q.Kind]
	if !ok {
		return Result{}, fmt.Errorf("no grading strategy for kind %q", q.Kind)
	}
	return s.Grade(ctx, q, selected)
}

// NewDefaultGrader installs built-in strategies.
func NewDefaultGrader() Grader {
	return &defaultGrader{
		strategies: map[Kind]Strategy{
			KindOpenText: openTextStrategy{},
			KindChoice:   choiceStrategy{},
		},
	}
}

// --- Strategies ---

// openTextStrategy accepts the first submitted value when its normalized form
// is one of the accepted texts. Further values are ignored.
type openTextStrategy struct{}

func (openTextStrategy) Grade(_ context.Context, q Q, selected []string) (Result, error) {
	first := ""
	if len(selected) > 0 {
		first = selected[0]
	}
	_, ok := toSet(q.AnswerKey)[Normalize(first)]
	res := Result{Correct: ok}
	if len(selected) > 1 {
		res.Feedback = append(res.Feedback, "only the first value is graded")
	}
	return res, nil
}

// choiceStrategy requires the selection to match the correct set exactly.
// There is no partial credit.
type choiceStrategy struct{}

func (choiceStrategy) Grade(_ context.Context, q Q, selected []string) (Result, error) {
	correct := toSet(q.AnswerKey)
	if len(selected) != len(correct) {
		return Result{}, nil
	}
	return Result{Correct: setEqual(correct, toSet(selected))}, nil
}

// helpers

func toSet(arr []string) map[string]struct{} {
	m := make(map[string]struct{}, len(arr))
	for _, s := range arr {
		m[s] = struct{}{}
	}
	return m
}

func setEqual(a, b map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}
