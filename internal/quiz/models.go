package quiz

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mind-engage/fsquiz/internal/grading"
)

type Answer struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
}

// Question is the caller-facing view of a question. It never carries
// correctness. One answer or none marks an open-text question.
type Question struct {
	ID      int      `json:"id"`
	Text    string   `json:"text"`
	Type    string   `json:"type,omitempty"`
	Images  []string `json:"images"`
	Answers []Answer `json:"answers"`
}

func (q Question) IsOpen() bool { return len(q.Answers) <= 1 }

// KeyEntry is the server-held grading data for one question.
type KeyEntry struct {
	QuestionID       int          `json:"question_id"`
	Kind             grading.Kind `json:"kind"`
	AcceptedTexts    []string     `json:"accepted_texts,omitempty"`     // open text, normalized
	CorrectAnswerIDs []int        `json:"correct_answer_ids,omitempty"` // choice
}

func (e KeyEntry) gradingQ() grading.Q {
	q := grading.Q{Kind: e.Kind}
	switch e.Kind {
	case grading.KindOpenText:
		q.AnswerKey = e.AcceptedTexts
	case grading.KindChoice:
		q.AnswerKey = make([]string, 0, len(e.CorrectAnswerIDs))
		for _, id := range e.CorrectAnswerIDs {
			q.AnswerKey = append(q.AnswerKey, strconv.Itoa(id))
		}
	}
	return q
}

// disclosure is what grading reveals as the correct answer.
func (e KeyEntry) disclosure() any {
	if e.Kind == grading.KindOpenText {
		if e.AcceptedTexts == nil {
			return []string{}
		}
		return e.AcceptedTexts
	}
	if e.CorrectAnswerIDs == nil {
		return []int{}
	}
	return e.CorrectAnswerIDs
}

type Session struct {
	ID        string
	CreatedAt time.Time
	Entries   map[string]KeyEntry // keyed by question id
}

type GenerateRequest struct {
	EventID   string
	YearStart int
	YearEnd   int
	Class     string // optional, forwarded verbatim
	Count     int    // <= 0 means the configured default
}

type Generated struct {
	SessionID string     `json:"quizId"`
	Questions []Question `json:"questions"`
}

// ID is a question identifier as sent by a caller, either a JSON number or a
// string. Integral ids are kept in canonical decimal form so "007" and 7 name
// the same question.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			s = strconv.FormatInt(i, 10)
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("question id must be a number or string: %w", err)
	}
	*id = ID(canonicalNumber(n))
	return nil
}

func (id ID) MarshalJSON() ([]byte, error) {
	if i, err := strconv.ParseInt(string(id), 10, 64); err == nil && strconv.FormatInt(i, 10) == string(id) {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

type SubmittedAnswer struct {
	QuestionID ID    `json:"questionId"`
	Selected   []any `json:"selected"`
}

type ResultItem struct {
	QuestionID     ID       `json:"questionId"`
	Correct        bool     `json:"correct"`
	CorrectAnswers any      `json:"correctAnswers"`
	UserAnswers    []any    `json:"userAnswers"`
	Notes          []string `json:"notes,omitempty"`
}

type GradeResult struct {
	Score     int          `json:"score"`
	Total     int          `json:"total"`     // answers matched to a question of the session
	Submitted int          `json:"submitted"` // answers received
	Skipped   []ID         `json:"skipped,omitempty"`
	Results   []ResultItem `json:"results"`
}

// selectedStrings flattens submitted values for the grader. Integral numbers
// are printed without a fraction so 2 and 2.0 both match answer id 2.
func selectedStrings(vals []any) []string {
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		switch t := v.(type) {
		case nil:
			out = append(out, "")
		case string:
			out = append(out, t)
		case json.Number:
			out = append(out, canonicalNumber(t))
		case float64:
			out = append(out, strconv.FormatFloat(t, 'f', -1, 64))
		default:
			out = append(out, fmt.Sprint(t))
		}
	}
	return out
}

func canonicalNumber(n json.Number) string {
	if i, err := n.Int64(); err == nil {
		return strconv.FormatInt(i, 10)
	}
	if f, err := n.Float64(); err == nil && f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return n.String()
}
