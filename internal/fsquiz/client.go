package fsquiz

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultBaseURL      = "https://api.fs-quiz.eu/2"
	DefaultImageBaseURL = "https://img.fs-quiz.eu/"
	defaultTimeout      = 10 * time.Second
)

// Client reads events, quizzes and questions from the FS Quiz API.
type Client struct {
	baseURL      string
	imageBaseURL string
	http         *http.Client
	timeout      time.Duration
}

type Options struct {
	BaseURL      string
	ImageBaseURL string
	HTTPClient   *http.Client
	Timeout      time.Duration // per call
}

func NewClient(opts Options) *Client {
	c := &Client{
		baseURL:      strings.TrimSuffix(opts.BaseURL, "/"),
		imageBaseURL: opts.ImageBaseURL,
		http:         opts.HTTPClient,
		timeout:      opts.Timeout,
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.imageBaseURL == "" {
		c.imageBaseURL = DefaultImageBaseURL
	}
	if !strings.HasSuffix(c.imageBaseURL, "/") {
		c.imageBaseURL += "/"
	}
	if c.http == nil {
		c.http = http.DefaultClient
	}
	if c.timeout <= 0 {
		c.timeout = defaultTimeout
	}
	return c
}

func (c *Client) Events(ctx context.Context) ([]Event, error) {
	var payload eventsResponse
	if err := c.getJSON(ctx, "/event", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Events, nil
}

// Quizzes lists the quizzes of an event in one year. class is passed through
// untouched when non-empty.
func (c *Client) Quizzes(ctx context.Context, eventID string, year int, class string) ([]QuizRef, error) {
	q := url.Values{}
	q.Set("year", strconv.Itoa(year))
	if class != "" {
		q.Set("class", class)
	}
	var payload quizzesResponse
	if err := c.getJSON(ctx, "/event/"+url.PathEscape(eventID)+"/quizzes", q, &payload); err != nil {
		return nil, err
	}
	return payload.Quizzes, nil
}

func (c *Client) Quiz(ctx context.Context, quizID int) (QuizDetail, error) {
	var detail QuizDetail
	if err := c.getJSON(ctx, "/quiz/"+strconv.Itoa(quizID), nil, &detail); err != nil {
		return QuizDetail{}, err
	}
	if detail.QuizID == 0 {
		detail.QuizID = quizID
	}
	return detail, nil
}

// ImageURL resolves an image reference against the image host.
func (c *Client) ImageURL(img Image) string {
	p := strings.TrimPrefix(img.Path, "/")
	if p == "" {
		return ""
	}
	return c.imageBaseURL + p
}

// ImageBaseURL is the prefix every resolved image URL starts with.
func (c *Client) ImageBaseURL() string { return c.imageBaseURL }

func (c *Client) getJSON(ctx context.Context, path string, q url.Values, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build request %s: %w", u, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("GET %s: upstream returned %s", u, resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("GET %s: decode body: %w", u, err)
	}
	return nil
}
