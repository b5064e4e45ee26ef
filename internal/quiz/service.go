package quiz

import (
	"context"
	"fmt"
	"strings"

	"github.com/mind-engage/fsquiz/internal/fsquiz"
	"github.com/mind-engage/fsquiz/internal/grading"
	"github.com/mind-engage/fsquiz/internal/logging"
	syncx "github.com/mind-engage/fsquiz/internal/sync"
)

const (
	DefaultCount       = 5
	DefaultMaxYearSpan = 30
	DefaultConcurrency = 8

	// Accepted bounds for yearStart and yearEnd.
	MinYear = 0
	MaxYear = 9999
)

// Source is the upstream question source. *fsquiz.Client implements it.
type Source interface {
	Quizzes(ctx context.Context, eventID string, year int, class string) ([]fsquiz.QuizRef, error)
	Quiz(ctx context.Context, quizID int) (fsquiz.QuizDetail, error)
	ImageURL(img fsquiz.Image) string
}

// Recorder receives activity events. *syncx.EventRepo implements it.
type Recorder interface {
	Append(ctx context.Context, e syncx.Event) error
}

type Service struct {
	source      Source
	store       Store
	grader      grading.Grader
	rng         Rand
	recorder    Recorder
	count       int
	maxYearSpan int
	concurrency int
}

type Option func(*Service)

func WithGrader(g grading.Grader) Option { return func(s *Service) { s.grader = g } }
func WithRecorder(r Recorder) Option     { return func(s *Service) { s.recorder = r } }

// WithRand replaces the sampling source. r need not be safe for concurrent use.
func WithRand(r Rand) Option { return func(s *Service) { s.rng = &lockedRand{r: r} } }

func WithDefaultCount(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.count = n
		}
	}
}

func WithMaxYearSpan(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxYearSpan = n
		}
	}
}

func WithConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

func NewService(source Source, store Store, opts ...Option) *Service {
	s := &Service{
		source:      source,
		store:       store,
		grader:      grading.NewDefaultGrader(),
		rng:         globalRand{},
		count:       DefaultCount,
		maxYearSpan: DefaultMaxYearSpan,
		concurrency: DefaultConcurrency,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Grade scores answers against the key stored for sessionID. Answers for
// questions outside the session are skipped. Grading never mutates the
// session, so the same submission always yields the same result.
func (s *Service) Grade(ctx context.Context, sessionID string, answers []SubmittedAnswer) (GradeResult, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return GradeResult{}, ErrSessionNotFound
	}
	sess, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return GradeResult{}, err
	}

	out := GradeResult{Submitted: len(answers), Results: []ResultItem{}}
	for _, a := range answers {
		entry, ok := sess.Entries[string(a.QuestionID)]
		if !ok {
			out.Skipped = append(out.Skipped, a.QuestionID)
			continue
		}
		res, err := s.grader.Grade(ctx, entry.gradingQ(), selectedStrings(a.Selected))
		if err != nil {
			return GradeResult{}, fmt.Errorf("grade question %s: %w", a.QuestionID, err)
		}
		if res.Correct {
			out.Score++
		}
		user := a.Selected
		if user == nil {
			user = []any{}
		}
		out.Results = append(out.Results, ResultItem{
			QuestionID:     a.QuestionID,
			Correct:        res.Correct,
			CorrectAnswers: entry.disclosure(),
			UserAnswers:    user,
			Notes:          res.Feedback,
		})
	}
	out.Total = len(out.Results)

	log := logging.WithContext(ctx).WithField("quiz_id", sessionID)
	if len(out.Skipped) > 0 {
		log.WithField("skipped", len(out.Skipped)).Debug("answers for unknown questions ignored")
	}
	log.WithField("score", out.Score).WithField("total", out.Total).Info("quiz graded")
	s.record(ctx, syncx.TypeQuizGraded, sessionID, map[string]any{
		"score": out.Score, "total": out.Total, "submitted": out.Submitted,
	})
	return out, nil
}

// record appends an activity event. Failures are logged and never surface.
func (s *Service) record(ctx context.Context, typ, key string, data any) {
	if s.recorder == nil {
		return
	}
	log := logging.WithContext(ctx).WithField("event_type", typ)
	ev, err := syncx.NewEvent(typ, key, data)
	if err != nil {
		log.WithError(err).Warn("encode activity event")
		return
	}
	if err := s.recorder.Append(ctx, ev); err != nil {
		log.WithError(err).Warn("append activity event")
	}
}
