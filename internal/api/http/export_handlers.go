package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/mind-engage/fsquiz/internal/export"
	"github.com/mind-engage/fsquiz/internal/logging"
	"github.com/mind-engage/fsquiz/internal/quiz"
)

type DocumentRenderer interface {
	Render(ctx context.Context, w io.Writer, doc export.Document) error
}

type exportReq struct {
	QuizID    quiz.ID         `json:"quizId"`
	Questions []quiz.Question `json:"questions"`
}

// POST /api/exportPDFQuestions
func ExportQuestionsHandler(renderer DocumentRenderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req exportReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad json: "+err.Error())
			return
		}
		var buf bytes.Buffer
		doc := export.Document{SessionID: string(req.QuizID), Questions: req.Questions}
		if err := renderer.Render(r.Context(), &buf, doc); err != nil {
			logging.WithContext(r.Context()).WithError(err).Error("PDF export failed")
			writeError(w, http.StatusInternalServerError, "PDF export failed")
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", "attachment; filename="+exportFilename(string(req.QuizID)))
		w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
		_, _ = buf.WriteTo(w)
	}
}

// exportFilename keeps the quiz id header-safe.
func exportFilename(id string) string {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, id)
	if clean == "" {
		clean = "quiz"
	}
	return "questions_" + clean + ".pdf"
}
