package grading

import (
	"context"
	"testing"
)

func TestOpenTextNormalizationRoundTrip(t *testing.T) {
	g := NewDefaultGrader()
	q := Q{Kind: KindOpenText, AnswerKey: NormalizeAll([]string{"Paris"})}

	res, err := g.Grade(context.Background(), q, []string{"  Paris  "})
	if err != nil {
		t.Fatalf("Grade: %v", err)
	}
	if !res.Correct {
		t.Fatalf("expected %q to match accepted %v", "  Paris  ", q.AnswerKey)
	}
}

func TestOpenTextOnlyFirstValueCounts(t *testing.T) {
	g := NewDefaultGrader()
	q := Q{Kind: KindOpenText, AnswerKey: []string{"42"}}

	cases := []struct {
		name     string
		selected []string
		want     bool
	}{
		{"first matches", []string{"42", "nope"}, true},
		{"second would match", []string{"nope", "42"}, false},
		{"empty submission", nil, false},
		{"other accepted phrasing", []string{"forty-two"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := g.Grade(context.Background(), q, tc.selected)
			if err != nil {
				t.Fatalf("Grade: %v", err)
			}
			if res.Correct != tc.want {
				t.Fatalf("Correct = %v, want %v", res.Correct, tc.want)
			}
		})
	}
}

func TestOpenTextMultiplePhrasings(t *testing.T) {
	g := NewDefaultGrader()
	q := Q{Kind: KindOpenText, AnswerKey: NormalizeAll([]string{"Newton", "N", "newton "})}
	if len(q.AnswerKey) != 2 {
		t.Fatalf("NormalizeAll should dedupe equal phrasings: %v", q.AnswerKey)
	}
	res, _ := g.Grade(context.Background(), q, []string{"n"})
	if !res.Correct {
		t.Fatalf("expected alternative phrasing to be accepted")
	}
}

func TestChoiceExactness(t *testing.T) {
	g := NewDefaultGrader()
	q := Q{Kind: KindChoice, AnswerKey: []string{"1", "2"}}

	cases := []struct {
		name     string
		selected []string
		want     bool
	}{
		{"subset", []string{"1"}, false},
		{"superset", []string{"1", "2", "3"}, false},
		{"reordered exact", []string{"2", "1"}, true},
		{"duplicate padding", []string{"1", "1"}, false},
		{"nothing", nil, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := g.Grade(context.Background(), q, tc.selected)
			if err != nil {
				t.Fatalf("Grade: %v", err)
			}
			if res.Correct != tc.want {
				t.Fatalf("Correct = %v, want %v", res.Correct, tc.want)
			}
		})
	}
}

func TestUnknownKindIsAnError(t *testing.T) {
	g := NewDefaultGrader()
	if _, err := g.Grade(context.Background(), Q{Kind: "essay"}, nil); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}

func TestNormalizeFoldsCase(t *testing.T) {
	if got := Normalize("\tÉCOLE  "); got != "école" {
		t.Fatalf("Normalize = %q", got)
	}
}
