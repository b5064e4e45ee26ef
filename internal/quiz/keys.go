package quiz

import (
	"strconv"

	"github.com/mind-engage/fsquiz/internal/fsquiz"
	"github.com/mind-engage/fsquiz/internal/grading"
)

// dedupeQuestions keeps the first occurrence of every question id.
func dedupeQuestions(in []fsquiz.RawQuestion) []fsquiz.RawQuestion {
	seen := make(map[int]struct{}, len(in))
	out := make([]fsquiz.RawQuestion, 0, len(in))
	for _, q := range in {
		if _, dup := seen[q.QuestionID]; dup {
			continue
		}
		seen[q.QuestionID] = struct{}{}
		out = append(out, q)
	}
	return out
}

// extractKey derives the grading data for one raw question. A question with
// at most one answer is open text and every listed answer text is accepted;
// otherwise it is a choice question keyed by the answers flagged correct.
func extractKey(q fsquiz.RawQuestion) KeyEntry {
	e := KeyEntry{QuestionID: q.QuestionID}
	if len(q.Answers) <= 1 {
		e.Kind = grading.KindOpenText
		texts := make([]string, 0, len(q.Answers))
		for _, a := range q.Answers {
			texts = append(texts, a.AnswerText)
		}
		e.AcceptedTexts = grading.NormalizeAll(texts)
		return e
	}
	e.Kind = grading.KindChoice
	e.CorrectAnswerIDs = []int{}
	for _, a := range q.Answers {
		if a.Correct() {
			e.CorrectAnswerIDs = append(e.CorrectAnswerIDs, a.AnswerID)
		}
	}
	return e
}

func extractKeys(qs []fsquiz.RawQuestion) map[string]KeyEntry {
	out := make(map[string]KeyEntry, len(qs))
	for _, q := range qs {
		out[strconv.Itoa(q.QuestionID)] = extractKey(q)
	}
	return out
}

// sanitize strips correctness and resolves image paths to absolute URLs.
// Open-text questions go out with no answers at all, since their only
// answer entry is the accepted text.
func sanitize(q fsquiz.RawQuestion, imageURL func(fsquiz.Image) string) Question {
	out := Question{
		ID:      q.QuestionID,
		Text:    q.Text,
		Type:    q.Type,
		Images:  make([]string, 0, len(q.Images)),
		Answers: make([]Answer, 0, len(q.Answers)),
	}
	for _, img := range q.Images {
		if u := imageURL(img); u != "" {
			out.Images = append(out.Images, u)
		}
	}
	if len(q.Answers) <= 1 {
		return out
	}
	for _, a := range q.Answers {
		out.Answers = append(out.Answers, Answer{ID: a.AnswerID, Text: a.AnswerText})
	}
	return out
}
