package export

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/mind-engage/fsquiz/internal/quiz"
	"github.com/mind-engage/fsquiz/internal/storage"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestRenderWithImagesAndFailures(t *testing.T) {
	img := pngBytes(t, 4, 3)
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		switch r.URL.Path {
		case "/ok.png":
			w.Header().Set("Content-Type", "image/png")
			w.Write(img)
		case "/garbage.png":
			w.Header().Set("Content-Type", "image/png")
			w.Write([]byte("not a png"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	r := NewRenderer(HTTPFetcher{Client: srv.Client(), AllowedPrefix: srv.URL + "/"}, nil, "")
	r.compress = false

	questions := []quiz.Question{
		{ID: 1, Text: "Which part?", Images: []string{srv.URL + "/ok.png", srv.URL + "/missing.png"},
			Answers: []quiz.Answer{{ID: 1, Text: "Upright"}, {ID: 2, Text: "Wishbone"}}},
		{ID: 2, Text: "Name the rule", Images: []string{srv.URL + "/garbage.png", "http://elsewhere.test/x.png"}},
	}

	var out bytes.Buffer
	if err := r.Render(context.Background(), &out, Document{SessionID: "s1", Questions: questions}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	body := out.String()
	if !strings.HasPrefix(body, "%PDF-") {
		t.Fatalf("output is not a PDF: %q", body[:min(len(body), 16)])
	}
	for _, want := range []string{
		"Options:",
		"(Open answer)",
		"Image failed: " + srv.URL + "/missing.png",
		"Image failed: " + srv.URL + "/garbage.png",
		"Image failed: http://elsewhere.test/x.png",
	} {
		if !strings.Contains(body, escapePDF(want)) {
			t.Errorf("document lacks %q", want)
		}
	}
	if n := hits.Load(); n != 3 {
		t.Fatalf("image server hits = %d, want 3 (foreign host must not be fetched)", n)
	}
}

func TestRenderDrawsLogoFromAssets(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "logo.png"), pngBytes(t, 8, 8), 0o644); err != nil {
		t.Fatal(err)
	}
	assets, err := storage.NewFSStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	r := NewRenderer(HTTPFetcher{}, assets, "logo.png")

	var out bytes.Buffer
	if err := r.Render(context.Background(), &out, Document{}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !bytes.Contains(out.Bytes(), []byte("/Subtype /Image")) {
		t.Fatalf("logo image object missing")
	}
}

func TestRenderMissingLogoIsIgnored(t *testing.T) {
	assets, err := storage.NewFSStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRenderer(HTTPFetcher{}, assets, "logo.png")
	var out bytes.Buffer
	if err := r.Render(context.Background(), &out, Document{Questions: []quiz.Question{{ID: 1, Text: "Q"}}}); err != nil {
		t.Fatalf("Render: %v", err)
	}
}

func TestFit(t *testing.T) {
	cases := []struct {
		w, h, wantW, wantH float64
	}{
		{1000, 500, 500, 250},
		{200, 1000, 100, 500},
		{100, 50, 100, 50},
	}
	for _, tc := range cases {
		w, h := fit(tc.w, tc.h, 500, 500)
		if w != tc.wantW || h != tc.wantH {
			t.Errorf("fit(%v,%v) = %v,%v want %v,%v", tc.w, tc.h, w, h, tc.wantW, tc.wantH)
		}
	}
}

// escapePDF mirrors how fpdf escapes literal strings in content streams.
func escapePDF(s string) string {
	return strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`).Replace(s)
}
