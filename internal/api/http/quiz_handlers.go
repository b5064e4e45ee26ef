package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/mind-engage/fsquiz/internal/fsquiz"
	"github.com/mind-engage/fsquiz/internal/logging"
	"github.com/mind-engage/fsquiz/internal/quiz"
)

type EventLister interface {
	Events(ctx context.Context) ([]fsquiz.Event, error)
}

type QuizService interface {
	Generate(ctx context.Context, req quiz.GenerateRequest) (quiz.Generated, error)
	Grade(ctx context.Context, sessionID string, answers []quiz.SubmittedAnswer) (quiz.GradeResult, error)
}

type gradeReq struct {
	QuizID  quiz.ID                `json:"quizId"`
	Answers []quiz.SubmittedAnswer `json:"answers"`
}

// GET /api/events
func EventsHandler(src EventLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		events, err := src.Events(r.Context())
		if err != nil {
			logging.WithContext(r.Context()).WithError(err).Warn("list events")
			writeError(w, http.StatusBadGateway, "Failed to load events")
			return
		}
		if events == nil {
			events = []fsquiz.Event{}
		}
		writeJSON(w, http.StatusOK, events)
	}
}

// GET /api/generateRange?eventId=&yearStart=&yearEnd=&count=&className=
func GenerateRangeHandler(svc QuizService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		yearStart, err1 := strconv.Atoi(strings.TrimSpace(q.Get("yearStart")))
		yearEnd, err2 := strconv.Atoi(strings.TrimSpace(q.Get("yearEnd")))
		if err1 != nil || err2 != nil {
			writeError(w, http.StatusBadRequest, "yearStart and yearEnd must be integers")
			return
		}
		// absent or malformed count falls back to the default
		count, _ := strconv.Atoi(strings.TrimSpace(q.Get("count")))

		out, err := svc.Generate(r.Context(), quiz.GenerateRequest{
			EventID:   q.Get("eventId"),
			YearStart: yearStart,
			YearEnd:   yearEnd,
			Class:     q.Get("className"),
			Count:     count,
		})
		if err != nil {
			writeServiceError(w, r, err, "Quiz generation failed")
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// POST /api/grade
func GradeHandler(svc QuizService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req gradeReq
		dec := json.NewDecoder(r.Body)
		dec.UseNumber()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad json: "+err.Error())
			return
		}
		res, err := svc.Grade(r.Context(), string(req.QuizID), req.Answers)
		if err != nil {
			writeServiceError(w, r, err, "Grade failed")
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}
