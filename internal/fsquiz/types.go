package fsquiz

import (
	"bytes"
	"encoding/json"
)

// Event is one competition event as listed by the question source.
type Event struct {
	ID        int    `json:"id"`
	ShortName string `json:"short_name"`
	EventName string `json:"event_name"`
}

// QuizRef identifies a quiz held for an event in a given year.
type QuizRef struct {
	QuizID int    `json:"quiz_id"`
	Class  string `json:"class,omitempty"`
	Date   string `json:"date,omitempty"`
}

type Image struct {
	Path string `json:"path"`
}

type RawAnswer struct {
	AnswerID   int             `json:"answer_id"`
	AnswerText string          `json:"answer_text"`
	IsCorrect  json.RawMessage `json:"is_correct"`
}

// Correct reports whether the source flagged the answer as correct.
// Only a literal JSON true counts.
func (a RawAnswer) Correct() bool {
	return bytes.Equal(bytes.TrimSpace(a.IsCorrect), []byte("true"))
}

// RawQuestion mirrors the question payload of the quiz detail endpoint.
type RawQuestion struct {
	QuestionID int         `json:"question_id"`
	Text       string      `json:"text"`
	Type       string      `json:"type"`
	Images     []Image     `json:"images"`
	Answers    []RawAnswer `json:"answers"`
}

type QuizDetail struct {
	QuizID    int           `json:"quiz_id"`
	Questions []RawQuestion `json:"questions"`
}

type eventsResponse struct {
	Events []Event `json:"events"`
}

type quizzesResponse struct {
	Quizzes []QuizRef `json:"quizzes"`
}
