package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mind-engage/fsquiz/internal/logging"
	"github.com/mind-engage/fsquiz/internal/quiz"
)

// writeJSON encodes v before writing the status. Encoding failures become a 500.
func writeJSON(w http.ResponseWriter, status int, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal error"}` + "\n"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(b, '\n'))
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeServiceError maps quiz errors to a status. fallback is the message
// shown for upstream and internal failures, whose details stay in the log.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	log := logging.WithContext(r.Context()).WithError(err)
	switch {
	case errors.Is(err, quiz.ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, quiz.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, "Quiz not found")
	case errors.Is(err, quiz.ErrUpstream):
		log.Warn(fallback)
		writeError(w, http.StatusBadGateway, fallback)
	default:
		log.Error(fallback)
		writeError(w, http.StatusInternalServerError, fallback)
	}
}
