package services

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"strings"
	"unicode"

	"github.com/go-pdf/fpdf"
	"golang.org/x/text/unicode/norm"

	"docsum/internal/models"
)

// Export is a downloadable payload built in memory.
type Export struct {
	Filename string
	MIMEType string
	Data     []byte
}

// DataURI returns the payload as a base64 data: URI suitable for an <a download> link.
func (e Export) DataURI() string {
	return "data:" + e.MIMEType + ";base64," + base64.StdEncoding.EncodeToString(e.Data)
}

type ExportService struct{}

func NewExportService() *ExportService {
	return &ExportService{}
}

// ToMarkdown keeps the text byte for byte.
func (s *ExportService) ToMarkdown(text, name string) Export {
	return Export{
		Filename: name + ".md",
		MIMEType: "text/markdown;charset=utf-8",
		Data:     []byte(text),
	}
}

// ToPDF renders the text with a core font. Core fonts only cover Windows-1252, so
// the text goes through LatinSafe first.
func (s *ExportService) ToPDF(text, name string) (Export, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(name, true)
	pdf.AddPage()
	pdf.SetFont("Arial", "", 12)

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.MultiCell(0, 10, tr(LatinSafe(text)), "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return Export{}, fmt.Errorf("failed to render pdf: %w", err)
	}

	return Export{
		Filename: name + ".pdf",
		MIMEType: "application/pdf",
		Data:     buf.Bytes(),
	}, nil
}

// FormatQuestions lays out a question set for export.
func FormatQuestions(questions []models.QAPair) string {
	var b strings.Builder
	for i, qa := range questions {
		fmt.Fprintf(&b, "Q%d: %s\n", i+1, qa.Question)
		fmt.Fprintf(&b, "A%d: %s\n\n", i+1, qa.Answer)
	}
	return b.String()
}

// Characters Windows-1252 places in 0x80-0x9F.
var cp1252Extras = map[rune]bool{
	'€': true, '‚': true, 'ƒ': true, '„': true, '…': true, '†': true, '‡': true, 'ˆ': true,
	'‰': true, 'Š': true, '‹': true, 'Œ': true, 'Ž': true, '‘': true, '’': true, '“': true,
	'”': true, '•': true, '–': true, '—': true, '˜': true, '™': true, 'š': true, '›': true,
	'œ': true, 'ž': true, 'Ÿ': true,
}

var transliterations = map[rune]string{
	'\t': "    ",
	'‐':  "-",
	'‑':  "-",
	'‒':  "-",
	'−':  "-",
	'′':  "'",
	'″':  "\"",
	'←':  "<-",
	'→':  "->",
	'↔':  "<->",
	'⇒':  "=>",
	'≤':  "<=",
	'≥':  ">=",
	'≠':  "!=",
	'≈':  "~",
	'✓':  "v",
	'✔':  "v",
	'●':  "•",
	'▪':  "•",
	'‣':  "•",
	'Ł':  "L",
	'ł':  "l",
	'Đ':  "D",
	'đ':  "d",
}

// LatinSafe maps text onto the characters a Windows-1252 core font can draw.
// Accented letters outside the set lose their accents, common symbols get ASCII
// spellings and anything else becomes '?'.
func LatinSafe(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	for _, r := range text {
		if r == '\n' {
			b.WriteRune(r)
			continue
		}
		if isCP1252(r) {
			b.WriteRune(r)
			continue
		}
		if rep, ok := transliterations[r]; ok {
			b.WriteString(rep)
			continue
		}
		if unicode.IsControl(r) {
			continue
		}
		if unicode.IsSpace(r) {
			b.WriteByte(' ')
			continue
		}
		if folded := foldRune(r); folded != "" {
			b.WriteString(folded)
			continue
		}
		b.WriteByte('?')
	}

	return b.String()
}

func isCP1252(r rune) bool {
	switch {
	case r >= 0x20 && r < 0x7f:
		return true
	case r >= 0xa0 && r <= 0xff:
		return true
	default:
		return cp1252Extras[r]
	}
}

// foldRune decomposes r and keeps the drawable base characters.
func foldRune(r rune) string {
	var b strings.Builder
	for _, d := range norm.NFKD.String(string(r)) {
		if unicode.Is(unicode.Mn, d) {
			continue
		}
		if !isCP1252(d) {
			return ""
		}
		b.WriteRune(d)
	}
	return b.String()
}
