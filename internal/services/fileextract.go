package services

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"
)

const DefaultMaxUploadBytes = 10 * 1024 * 1024

type Format struct {
	Extension   string
	MIMEType    string
	Description string
}

// SupportedFormats lists what the upload form accepts.
var SupportedFormats = []Format{
	{".pdf", "application/pdf", "PDF Document"},
	{".docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document", "Word Document"},
	{".txt", "text/plain", "Plain Text"},
	{".png", "image/png", "PNG Image"},
	{".jpg", "image/jpeg", "JPEG Image"},
	{".jpeg", "image/jpeg", "JPEG Image"},
}

// AcceptAttribute renders SupportedFormats for an <input type="file" accept="..."> attribute.
func AcceptAttribute() string {
	parts := make([]string, 0, len(SupportedFormats))
	for _, f := range SupportedFormats {
		parts = append(parts, f.Extension)
	}
	return strings.Join(parts, ",")
}

// OCR recognizes text in an image.
type OCR interface {
	Recognize(ctx context.Context, image []byte, mimeType, language string) (string, error)
}

// Upload is a single uploaded file held in memory.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Data        []byte
}

type FileExtractService struct {
	maxBytes int64
	ocr      OCR
	ocrLang  string
}

func NewFileExtractService(maxBytes int64, ocr OCR, ocrLang string) *FileExtractService {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	if ocrLang == "" {
		ocrLang = "eng"
	}
	return &FileExtractService{maxBytes: maxBytes, ocr: ocr, ocrLang: ocrLang}
}

func (s *FileExtractService) MaxBytes() int64 {
	return s.maxBytes
}

// Extract returns the plain text of the upload. Every failure is an *ExtractionError.
func (s *FileExtractService) Extract(ctx context.Context, up Upload) (string, error) {
	size := up.Size
	if n := int64(len(up.Data)); n > size {
		size = n
	}
	if size > s.maxBytes {
		return "", &ExtractionError{
			Kind:    SizeExceeded,
			Message: fmt.Sprintf("File size exceeds the limit of %s.", FormatMegabytes(s.maxBytes)),
		}
	}

	contentType := ResolveContentType(up.ContentType, up.Data)

	switch {
	case strings.Contains(contentType, "pdf"):
		return s.extractPDF(up.Data)
	case strings.HasPrefix(contentType, "image/"):
		return s.extractImage(ctx, up.Data, contentType)
	case strings.Contains(contentType, "wordprocessingml"):
		return s.extractDOCX(up.Data)
	case strings.HasPrefix(contentType, "text/plain"):
		return s.extractTXT(up.Data)
	default:
		return "", &ExtractionError{
			Kind:    UnsupportedType,
			Message: "Unsupported file type. Please upload a PDF, DOCX, TXT or image file.",
		}
	}
}

// ResolveContentType trusts the declared type unless it is missing or generic,
// in which case the bytes are sniffed.
func ResolveContentType(declared string, data []byte) string {
	ct := strings.ToLower(strings.TrimSpace(declared))
	if ct == "" || strings.HasPrefix(ct, "application/octet-stream") {
		ct = strings.ToLower(mimetype.Detect(data).String())
	}
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	return ct
}

func (s *FileExtractService) extractTXT(data []byte) (string, error) {
	raw := string(data)
	if !utf8.ValidString(raw) {
		raw = strings.ToValidUTF8(raw, "�")
	}

	text := normalizeExtractedText(raw)
	if text == "" {
		return "", &ExtractionError{Kind: ExtractionFailed, Message: "Text file is empty."}
	}

	return text, nil
}

func (s *FileExtractService) extractPDF(data []byte) (text string, err error) {
	// The pdf reader panics on some malformed xref tables.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = &ExtractionError{
				Kind:    ExtractionFailed,
				Message: "Error extracting text from PDF.",
				Err:     fmt.Errorf("%v", r),
			}
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &ExtractionError{Kind: ExtractionFailed, Message: "Error extracting text from PDF.", Err: err}
	}

	var pages []string
	totalPage := reader.NumPage()
	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := reader.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		content, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		content = strings.TrimSpace(content)
		if content != "" {
			pages = append(pages, content)
		}
	}

	if len(pages) == 0 {
		return "", &ExtractionError{Kind: ExtractionFailed, Message: "No extractable text found in PDF."}
	}

	return strings.Join(pages, "\n\n"), nil
}

func (s *FileExtractService) extractImage(ctx context.Context, data []byte, contentType string) (string, error) {
	if s.ocr == nil {
		return "", &ExtractionError{Kind: ExtractionFailed, Message: "Image text recognition is not available."}
	}

	text, err := s.ocr.Recognize(ctx, data, contentType, s.ocrLang)
	if err != nil {
		return "", &ExtractionError{Kind: ExtractionFailed, Message: "Error extracting text from image.", Err: err}
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", &ExtractionError{Kind: ExtractionFailed, Message: "No text found in image."}
	}

	return text, nil
}

func (s *FileExtractService) extractDOCX(data []byte) (string, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &ExtractionError{Kind: ExtractionFailed, Message: "Error extracting text from DOCX.", Err: err}
	}

	var documentXML []byte
	for _, f := range r.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", &ExtractionError{Kind: ExtractionFailed, Message: "Error extracting text from DOCX.", Err: err}
		}
		documentXML, err = io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return "", &ExtractionError{Kind: ExtractionFailed, Message: "Error extracting text from DOCX.", Err: err}
		}
		break
	}

	if len(documentXML) == 0 {
		return "", &ExtractionError{Kind: ExtractionFailed, Message: "DOCX document body not found."}
	}

	text := normalizeExtractedText(stripDOCXML(documentXML))
	if text == "" {
		return "", &ExtractionError{Kind: ExtractionFailed, Message: "No extractable text found in DOCX."}
	}

	return text, nil
}

var xmlTagPattern = regexp.MustCompile(`<[^>]+>`)

func stripDOCXML(src []byte) string {
	s := string(src)

	// DOCX paragraphs and line breaks
	s = strings.ReplaceAll(s, "</w:p>", "\n")
	s = strings.ReplaceAll(s, "<w:br/>", "\n")
	s = strings.ReplaceAll(s, "<w:br />", "\n")
	s = strings.ReplaceAll(s, "<w:tab/>", "\t")

	s = xmlTagPattern.ReplaceAllString(s, "")

	replacer := strings.NewReplacer(
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&apos;", "'",
	)
	return replacer.Replace(s)
}

// normalizeExtractedText unifies line endings, trims each line and collapses runs
// of blank lines into one.
func normalizeExtractedText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	lines := strings.Split(s, "\n")
	buf := bytes.Buffer{}

	emptyCount := 0
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			emptyCount++
			if emptyCount > 1 {
				continue
			}
			buf.WriteString("\n")
			continue
		}
		emptyCount = 0
		buf.WriteString(trimmed)
		buf.WriteString("\n")
	}

	return strings.TrimSpace(buf.String())
}

// FormatMegabytes renders a byte count as "10 MB" or "1.5 MB".
func FormatMegabytes(n int64) string {
	mb := float64(n) / (1024 * 1024)
	if mb == float64(int64(mb)) {
		return fmt.Sprintf("%d MB", int64(mb))
	}
	return fmt.Sprintf("%.1f MB", mb)
}
