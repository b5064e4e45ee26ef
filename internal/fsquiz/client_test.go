package fsquiz

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Body:       io.NopCloser(bytes.NewReader([]byte(body))),
		Header:     make(http.Header),
	}
}

func newTestClient(rt http.RoundTripper) *Client {
	return NewClient(Options{
		BaseURL:      "https://api.test/2/",
		ImageBaseURL: "https://img.test",
		HTTPClient:   &http.Client{Transport: rt},
	})
}

func TestQuizzesBuildsQueryAndDecodes(t *testing.T) {
	var seen *http.Request
	c := newTestClient(roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		seen = r
		return jsonResponse(http.StatusOK, `{"quizzes":[{"quiz_id":7,"class":"EV"},{"quiz_id":9}]}`), nil
	}))

	got, err := c.Quizzes(context.Background(), "12", 2023, "EV")
	if err != nil {
		t.Fatalf("Quizzes: %v", err)
	}
	if len(got) != 2 || got[0].QuizID != 7 || got[1].QuizID != 9 {
		t.Fatalf("unexpected quizzes: %+v", got)
	}
	if seen.URL.Path != "/2/event/12/quizzes" {
		t.Fatalf("path = %q", seen.URL.Path)
	}
	if seen.URL.Query().Get("year") != "2023" || seen.URL.Query().Get("class") != "EV" {
		t.Fatalf("query = %q", seen.URL.RawQuery)
	}
}

func TestQuizzesOmitsEmptyClass(t *testing.T) {
	var rawQuery string
	c := newTestClient(roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		rawQuery = r.URL.RawQuery
		return jsonResponse(http.StatusOK, `{"quizzes":[]}`), nil
	}))
	if _, err := c.Quizzes(context.Background(), "1", 2020, ""); err != nil {
		t.Fatalf("Quizzes: %v", err)
	}
	if rawQuery != "year=2020" {
		t.Fatalf("query = %q, want year only", rawQuery)
	}
}

func TestQuizDecodesQuestionsAndCorrectness(t *testing.T) {
	c := newTestClient(roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		if r.URL.Path != "/2/quiz/5" {
			t.Errorf("path = %q", r.URL.Path)
		}
		return jsonResponse(http.StatusOK, `{"questions":[{"question_id":1,"text":"Q","type":"single-choice",
			"images":[{"path":"a/b.png"}],
			"answers":[{"answer_id":10,"answer_text":"x","is_correct":true},
			           {"answer_id":11,"answer_text":"y","is_correct":false},
			           {"answer_id":12,"answer_text":"z","is_correct":1}]}]}`), nil
	}))

	detail, err := c.Quiz(context.Background(), 5)
	if err != nil {
		t.Fatalf("Quiz: %v", err)
	}
	if detail.QuizID != 5 {
		t.Fatalf("QuizID = %d, want 5", detail.QuizID)
	}
	q := detail.Questions[0]
	if !q.Answers[0].Correct() || q.Answers[1].Correct() || q.Answers[2].Correct() {
		t.Fatalf("only a literal true marks a correct answer: %+v", q.Answers)
	}
	if got := c.ImageURL(q.Images[0]); got != "https://img.test/a/b.png" {
		t.Fatalf("ImageURL = %q", got)
	}
}

func TestEventsPropagatesNonOKStatus(t *testing.T) {
	c := newTestClient(roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusBadGateway, ``), nil
	}))
	if _, err := c.Events(context.Background()); err == nil {
		t.Fatalf("expected error for non-2xx status")
	}
}

func TestEventsDecodeError(t *testing.T) {
	c := newTestClient(roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `not-json`), nil
	}))
	if _, err := c.Events(context.Background()); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestTransportErrorIsWrapped(t *testing.T) {
	boom := errors.New("boom")
	c := newTestClient(roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		return nil, boom
	}))
	_, err := c.Quiz(context.Background(), 1)
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped boom", err)
	}
}

func TestPerCallTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	c := NewClient(Options{BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
	start := time.Now()
	if _, err := c.Events(context.Background()); err == nil {
		t.Fatalf("expected timeout error")
	}
	if time.Since(start) > time.Second {
		t.Fatalf("timeout not applied")
	}
}

func TestImageURLEmptyPath(t *testing.T) {
	c := NewClient(Options{})
	if got := c.ImageURL(Image{}); got != "" {
		t.Fatalf("ImageURL = %q, want empty", got)
	}
	if got := c.ImageURL(Image{Path: "/x.jpg"}); got != DefaultImageBaseURL+"x.jpg" {
		t.Fatalf("ImageURL = %q", got)
	}
}
