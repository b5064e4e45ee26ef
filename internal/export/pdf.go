// Package export renders a quiz as a printable PDF without answers.
package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/mind-engage/fsquiz/internal/logging"
	"github.com/mind-engage/fsquiz/internal/quiz"
	"github.com/mind-engage/fsquiz/internal/storage"
)

const (
	Title = "FS Quiz – Questions"

	margin      = 40.0
	logoWidth   = 120.0
	imageBox    = 500.0
	maxImageLen = 10 << 20
)

// ImageFetcher downloads an image and reports its fpdf type (PNG, JPG, GIF).
type ImageFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, string, error)
}

// HTTPFetcher fetches images over HTTP. Only URLs under AllowedPrefix are
// fetched when it is set.
type HTTPFetcher struct {
	Client        *http.Client
	AllowedPrefix string
}

func (f HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, string, error) {
	if f.AllowedPrefix != "" && !strings.HasPrefix(url, f.AllowedPrefix) {
		return nil, "", fmt.Errorf("image %s is outside %s", url, f.AllowedPrefix)
	}
	client := f.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return nil, "", fmt.Errorf("GET %s: %s", url, resp.Status)
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, maxImageLen+1))
	if err != nil {
		return nil, "", err
	}
	if len(b) > maxImageLen {
		return nil, "", fmt.Errorf("GET %s: image larger than %d bytes", url, maxImageLen)
	}
	typ := imageType(resp.Header.Get("Content-Type"), url, b)
	if typ == "" {
		return nil, "", fmt.Errorf("GET %s: unsupported image format", url)
	}
	return b, typ, nil
}

func imageType(contentType, url string, body []byte) string {
	for _, ct := range []string{contentType, http.DetectContentType(body)} {
		switch {
		case strings.HasPrefix(ct, "image/png"):
			return "PNG"
		case strings.HasPrefix(ct, "image/jpeg"):
			return "JPG"
		case strings.HasPrefix(ct, "image/gif"):
			return "GIF"
		}
	}
	return extType(url)
}

func extType(name string) string {
	switch strings.ToLower(path.Ext(name)) {
	case ".png":
		return "PNG"
	case ".jpg", ".jpeg":
		return "JPG"
	case ".gif":
		return "GIF"
	}
	return ""
}

// Document is one quiz to print.
type Document struct {
	SessionID string
	Questions []quiz.Question
}

type Renderer struct {
	fetcher  ImageFetcher
	assets   storage.BlobStore // may be nil
	logoKey  string
	compress bool
}

func NewRenderer(fetcher ImageFetcher, assets storage.BlobStore, logoKey string) *Renderer {
	return &Renderer{fetcher: fetcher, assets: assets, logoKey: logoKey, compress: true}
}

// Render writes the PDF for doc to w. Image failures are drawn as a
// red placeholder line and never abort the document.
func (r *Renderer) Render(ctx context.Context, w io.Writer, doc Document) error {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetCompression(r.compress)
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)
	pdf.SetTitle(Title, true)
	if doc.SessionID != "" {
		pdf.SetSubject("quiz "+doc.SessionID, true)
	}
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	r.drawLogo(ctx, pdf)
	pdf.Ln(24)

	pdf.SetFont("Helvetica", "", 22)
	pdf.MultiCell(0, 26, tr(Title), "", "C", false)
	pdf.Ln(24)

	for i, q := range doc.Questions {
		pdf.SetFont("Helvetica", "", 14)
		pdf.MultiCell(0, 18, tr(q.Text), "", "L", false)
		pdf.Ln(6)

		for j, u := range q.Images {
			r.drawImage(ctx, pdf, tr, fmt.Sprintf("q%d-%d", i, j), u)
		}

		if len(q.Answers) > 1 {
			pdf.SetFont("Helvetica", "", 12)
			pdf.MultiCell(0, 16, "Options:", "", "L", false)
			pdf.SetFont("Helvetica", "", 11)
			for _, a := range q.Answers {
				pdf.MultiCell(0, 14, tr("• "+a.Text), "", "L", false)
			}
		} else {
			pdf.SetFont("Helvetica", "", 12)
			pdf.MultiCell(0, 16, "(Open answer)", "", "L", false)
		}
		pdf.Ln(18)
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return pdf.Output(w)
}

func (r *Renderer) drawLogo(ctx context.Context, pdf *fpdf.Fpdf) {
	if r.assets == nil || r.logoKey == "" {
		return
	}
	log := logging.WithContext(ctx).WithField("logo", r.logoKey)
	rc, err := r.assets.Get(r.logoKey)
	if errors.Is(err, storage.ErrNotFound) {
		log.Debug("logo not found")
		return
	}
	if err != nil {
		log.WithError(err).Warn("open logo")
		return
	}
	defer rc.Close()
	b, err := io.ReadAll(rc)
	if err != nil {
		log.WithError(err).Warn("read logo")
		return
	}
	typ := extType(r.logoKey)
	if typ == "" {
		typ = imageType("", r.logoKey, b)
	}
	if !register(pdf, "logo", typ, b) {
		log.Warn("logo is not a supported image")
		return
	}
	pdf.ImageOptions("logo", margin, pdf.GetY(), logoWidth, 0, true, fpdf.ImageOptions{ImageType: typ}, 0, "")
}

func (r *Renderer) drawImage(ctx context.Context, pdf *fpdf.Fpdf, tr func(string) string, name, url string) {
	log := logging.WithContext(ctx).WithField("image", url)
	b, typ, err := r.fetcher.Fetch(ctx, url)
	if err == nil && !register(pdf, name, typ, b) {
		err = errors.New("undecodable image")
	}
	if err != nil {
		log.WithError(err).Warn("export image failed")
		pdf.SetFont("Helvetica", "", 12)
		pdf.SetTextColor(255, 0, 0)
		pdf.MultiCell(0, 16, tr("Image failed: "+url), "", "L", false)
		pdf.SetTextColor(0, 0, 0)
		return
	}

	info := pdf.GetImageInfo(name)
	w, h := fit(info.Width(), info.Height(), imageBox, imageBox)
	pageW, pageH := pdf.GetPageSize()
	if pdf.GetY()+h > pageH-margin {
		pdf.AddPage()
	}
	x := (pageW - w) / 2
	pdf.ImageOptions(name, x, pdf.GetY(), w, h, true, fpdf.ImageOptions{ImageType: typ}, 0, "")
	pdf.Ln(12)
}

// register adds an image to the document. fpdf latches the first error, so a
// bad image is cleared here to keep the rest of the document renderable.
func register(pdf *fpdf.Fpdf, name, typ string, b []byte) bool {
	pdf.RegisterImageOptionsReader(name, fpdf.ImageOptions{ImageType: typ, ReadDpi: true}, bytes.NewReader(b))
	if pdf.Ok() {
		return true
	}
	pdf.ClearError()
	return false
}

// fit scales w x h to fit inside maxW x maxH, keeping the aspect ratio.
// Images already inside the box are left at their natural size.
func fit(w, h, maxW, maxH float64) (float64, float64) {
	if w <= 0 || h <= 0 {
		return maxW, maxH
	}
	scale := 1.0
	if w > maxW {
		scale = maxW / w
	}
	if h*scale > maxH {
		scale = maxH / h
	}
	return w * scale, h * scale
}
