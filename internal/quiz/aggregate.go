package quiz

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/mind-engage/fsquiz/internal/fsquiz"
	"github.com/mind-engage/fsquiz/internal/logging"
	syncx "github.com/mind-engage/fsquiz/internal/sync"
)

// Generate assembles a quiz for an event across an inclusive year range.
// Questions are collected from every quiz in range, de-duplicated by id and
// then sampled uniformly. Any upstream failure aborts the whole request and
// no session is created.
func (s *Service) Generate(ctx context.Context, req GenerateRequest) (Generated, error) {
	if err := s.validate(&req); err != nil {
		return Generated{}, err
	}
	log := logging.WithContext(ctx).WithField("event_id", req.EventID)

	refs, err := s.collectQuizzes(ctx, req)
	if err != nil {
		return Generated{}, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	raw, err := s.collectQuestions(ctx, refs)
	if err != nil {
		return Generated{}, fmt.Errorf("%w: %w", ErrUpstream, err)
	}

	pool := dedupeQuestions(raw)
	idx := sampleIndices(len(pool), req.Count, s.rng)
	picked := make([]fsquiz.RawQuestion, 0, len(idx))
	for _, i := range idx {
		picked = append(picked, pool[i])
	}

	sess, err := s.store.Create(ctx, extractKeys(picked))
	if err != nil {
		return Generated{}, fmt.Errorf("create session: %w", err)
	}

	out := Generated{SessionID: sess.ID, Questions: make([]Question, 0, len(picked))}
	for _, q := range picked {
		out.Questions = append(out.Questions, sanitize(q, s.source.ImageURL))
	}

	log.WithField("quiz_id", sess.ID).
		WithField("quizzes", len(refs)).
		WithField("pool", len(pool)).
		WithField("questions", len(out.Questions)).
		Info("quiz generated")
	s.record(ctx, syncx.TypeQuizGenerated, sess.ID, map[string]any{
		"event_id":   req.EventID,
		"year_start": req.YearStart,
		"year_end":   req.YearEnd,
		"class":      req.Class,
		"requested":  req.Count,
		"pool":       len(pool),
		"questions":  len(out.Questions),
	})
	return out, nil
}

func (s *Service) validate(req *GenerateRequest) error {
	req.EventID = strings.TrimSpace(req.EventID)
	if req.EventID == "" {
		return fmt.Errorf("%w: eventId is required", ErrInvalidRequest)
	}
	if req.YearStart < MinYear || req.YearStart > MaxYear || req.YearEnd < MinYear || req.YearEnd > MaxYear {
		return fmt.Errorf("%w: years must be between %d and %d", ErrInvalidRequest, MinYear, MaxYear)
	}
	if req.YearStart > req.YearEnd {
		return fmt.Errorf("%w: yearStart %d is after yearEnd %d", ErrInvalidRequest, req.YearStart, req.YearEnd)
	}
	if span := req.YearEnd - req.YearStart + 1; span > s.maxYearSpan {
		return fmt.Errorf("%w: year range spans %d years, at most %d allowed", ErrInvalidRequest, span, s.maxYearSpan)
	}
	if req.Count <= 0 {
		req.Count = s.count
	}
	return nil
}

// collectQuizzes lists the quizzes of every year in range. The result keeps
// year order and each quiz id appears once.
func (s *Service) collectQuizzes(ctx context.Context, req GenerateRequest) ([]fsquiz.QuizRef, error) {
	years := req.YearEnd - req.YearStart + 1
	perYear := make([][]fsquiz.QuizRef, years)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i := 0; i < years; i++ {
		year := req.YearStart + i
		g.Go(func() error {
			refs, err := s.source.Quizzes(gctx, req.EventID, year, req.Class)
			if err != nil {
				return fmt.Errorf("list quizzes for %d: %w", year, err)
			}
			perYear[i] = refs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := map[int]struct{}{}
	var out []fsquiz.QuizRef
	for _, refs := range perYear {
		for _, r := range refs {
			if _, dup := seen[r.QuizID]; dup {
				continue
			}
			seen[r.QuizID] = struct{}{}
			out = append(out, r)
		}
	}
	return out, nil
}

// collectQuestions fetches every quiz and concatenates their questions in quiz order.
func (s *Service) collectQuestions(ctx context.Context, refs []fsquiz.QuizRef) ([]fsquiz.RawQuestion, error) {
	perQuiz := make([][]fsquiz.RawQuestion, len(refs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, ref := range refs {
		g.Go(func() error {
			detail, err := s.source.Quiz(gctx, ref.QuizID)
			if err != nil {
				return fmt.Errorf("fetch quiz %d: %w", ref.QuizID, err)
			}
			perQuiz[i] = detail.Questions
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []fsquiz.RawQuestion
	for _, qs := range perQuiz {
		out = append(out, qs...)
	}
	return out, nil
}
