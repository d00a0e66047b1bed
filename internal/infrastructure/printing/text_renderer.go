package printing

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	textFontSize   = 10.0
	textLineHeight = 14.0
	textWrapWidth  = 95
)

var (
	blockTagPattern = regexp.MustCompile(`(?i)<\s*(br|/p|/div|/h[1-6]|/tr|/li|/table|hr)[^>]*>`)
	cellTagPattern  = regexp.MustCompile(`(?i)<\s*/t[dh]\s*>`)
	dropTagPattern  = regexp.MustCompile(`(?is)<(style|script|head)[^>]*>.*?</(style|script|head)>`)
	anyTagPattern   = regexp.MustCompile(`<[^>]*>`)
	spacePattern    = regexp.MustCompile(`[ \t\r\f\v]+`)
)

// TextRenderer writes the visible text of the HTML into a plain PDF. It needs
// no browser and is used when chromedp is unavailable, in development and in
// tests.
type TextRenderer struct{}

// NewTextRenderer creates a TextRenderer
func NewTextRenderer() *TextRenderer {
	return &TextRenderer{}
}

// Render converts the HTML text content into a PDF document
func (r *TextRenderer) Render(ctx context.Context, req *RenderRequest) (*RenderResult, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, NewRenderError(ErrCodeRenderTimeout, "PDF rendering was cancelled", err)
	}
	start := time.Now()

	lines := wrapLines(htmlToLines(req.HTML), textWrapWidth)
	pdf, pages := writeTextPDF(lines, req.Page, req.Margins, req.Title)

	return &RenderResult{
		PDFData:        pdf,
		PageCount:      pages,
		RenderDuration: time.Since(start),
	}, nil
}

// Close is a no-op
func (r *TextRenderer) Close() error { return nil }

// htmlToLines extracts the visible text of an HTML document line by line
func htmlToLines(doc string) []string {
	doc = dropTagPattern.ReplaceAllString(doc, "")
	doc = blockTagPattern.ReplaceAllString(doc, "\n")
	doc = cellTagPattern.ReplaceAllString(doc, "  ")
	doc = anyTagPattern.ReplaceAllString(doc, "")
	doc = html.UnescapeString(doc)

	var lines []string
	blank := true
	for _, line := range strings.Split(doc, "\n") {
		line = strings.TrimSpace(spacePattern.ReplaceAllString(line, " "))
		if line == "" {
			if !blank {
				lines = append(lines, "")
			}
			blank = true
			continue
		}
		lines = append(lines, line)
		blank = false
	}
	return lines
}

func wrapLines(lines []string, width int) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		for utf8.RuneCountInString(line) > width {
			runes := []rune(line)
			cut := width
			for i := width; i > width/2; i-- {
				if runes[i] == ' ' {
					cut = i
					break
				}
			}
			out = append(out, strings.TrimSpace(string(runes[:cut])))
			line = strings.TrimSpace(string(runes[cut:]))
		}
		out = append(out, line)
	}
	return out
}

// pdfText escapes a string for a PDF literal, replacing runes outside
// Latin-1 since the standard fonts carry no others.
func pdfText(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r == '\\' || r == '(' || r == ')':
			b.WriteByte('\\')
			b.WriteRune(r)
		case r == '–' || r == '—':
			b.WriteByte('-')
		case r < 32 || r > 255:
			b.WriteByte('?')
		case r > 126:
			fmt.Fprintf(&b, "\\%03o", r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// writeTextPDF lays the lines out on as many pages as needed
func writeTextPDF(lines []string, size PageSize, m Margins, title string) ([]byte, int) {
	const ptPerMM = 72 / 25.4
	width, height := size.WidthMM*ptPerMM, size.HeightMM*ptPerMM
	left, top, bottom := m.Left*ptPerMM, height-m.Top*ptPerMM, m.Bottom*ptPerMM

	perPage := int((top - bottom) / textLineHeight)
	if perPage < 1 {
		perPage = 1
	}
	var pages [][]string
	for len(lines) > perPage {
		pages = append(pages, lines[:perPage])
		lines = lines[perPage:]
	}
	pages = append(pages, lines)

	// objects: 1 catalog, 2 pages, 3 font, 4 info, then page+content pairs
	var buf bytes.Buffer
	offsets := []int{}
	obj := func(body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", len(offsets), body)
	}

	buf.WriteString("%PDF-1.4\n")
	obj("<< /Type /Catalog /Pages 2 0 R >>")

	kids := make([]string, len(pages))
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 5+2*i)
	}
	obj(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages)))
	obj("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>")
	obj(fmt.Sprintf("<< /Title (%s) /Producer (nestapp) >>", pdfText(title)))

	for i, page := range pages {
		var content bytes.Buffer
		fmt.Fprintf(&content, "BT /F1 %.0f Tf %.0f TL %.2f %.2f Td\n", textFontSize, textLineHeight, left, top)
		for _, line := range page {
			fmt.Fprintf(&content, "(%s) '\n", pdfText(line))
		}
		content.WriteString("ET")

		obj(fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 %.2f %.2f] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>",
			width, height, 6+2*i))
		obj(fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", content.Len(), content.String()))
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(offsets)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R /Info 4 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xref)
	return buf.Bytes(), len(pages)
}

var _ PDFRenderer = (*TextRenderer)(nil)
