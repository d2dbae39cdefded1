package services

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"docsum/internal/models"
)

var languageNames = map[string]string{
	"eng": "English",
	"deu": "German",
	"fra": "French",
	"spa": "Spanish",
	"ita": "Italian",
	"por": "Portuguese",
}

func buildSummaryPrompt(text string) string {
	var b strings.Builder

	b.WriteString("You are an expert study assistant. Summarize the following document for a student preparing for an exam.\n\n")
	b.WriteString("Cover the main ideas, key terms and conclusions. Use short Markdown sections and bullet points where they help.\n")
	b.WriteString("Do not add information that is not in the document.\n\n")

	b.WriteString("---DOCUMENT START---\n")
	b.WriteString(text)
	b.WriteString("\n---DOCUMENT END---\n")

	return b.String()
}

func buildParagraphPrompt(text string) string {
	var b strings.Builder

	b.WriteString("Split the following text into coherent paragraphs. Each paragraph should cover one idea and be self-contained enough to study on its own.\n")
	b.WriteString("Keep the original wording; fix only broken line wraps and hyphenation.\n\n")
	b.WriteString("CRITICAL: Return ONLY a valid JSON array of strings. No preamble, no markdown, no backticks.\n\n")

	b.WriteString("---TEXT START---\n")
	b.WriteString(text)
	b.WriteString("\n---TEXT END---\n")

	return b.String()
}

func buildQuestionPrompt(paragraph string) string {
	var b strings.Builder

	b.WriteString("You are an expert educational assessor. Write comprehension questions that test understanding of the paragraph below.\n")
	b.WriteString("Choose the number of questions (usually 3 to 5) based on how much the paragraph contains.\n\n")
	b.WriteString("CRITICAL: Return ONLY a valid JSON array. No preamble, no markdown, no backticks.\n\n")
	b.WriteString(`JSON schema per question:
{"question": "string", "answer": "string"}
`)

	b.WriteString("\n---PARAGRAPH---\n")
	b.WriteString(paragraph)
	b.WriteString("\n---END---\n")

	return b.String()
}

func buildOCRPrompt(language string) string {
	name := languageNames[language]
	if name == "" {
		name = language
	}
	return fmt.Sprintf("Transcribe all %s text in this image verbatim, in reading order. Return plain text only, without markdown, headers, or explanations. If there is no text, return nothing.", name)
}

// stripCodeFences removes a leading ```lang line and a trailing ``` fence.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "```") {
		if firstNewline := strings.Index(s, "\n"); firstNewline != -1 {
			s = s[firstNewline+1:]
		} else {
			s = strings.TrimPrefix(s, "```")
		}
	}

	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// unmarshalArray decodes a JSON array, salvaging the outermost [...] when the
// model wrapped it in prose.
func unmarshalArray(raw string, v interface{}) error {
	cleaned := stripCodeFences(raw)
	err := json.Unmarshal([]byte(cleaned), v)
	if err == nil {
		return nil
	}

	start := strings.Index(cleaned, "[")
	end := strings.LastIndex(cleaned, "]")
	if start >= 0 && end > start {
		if err2 := json.Unmarshal([]byte(cleaned[start:end+1]), v); err2 == nil {
			return nil
		}
	}
	return err
}

var blankLinePattern = regexp.MustCompile(`\n\s*\n`)

// parseParagraphs reads the model's paragraph list. If the output is not JSON the
// text is split on blank lines instead.
func parseParagraphs(raw string) []string {
	var items []string
	if err := unmarshalArray(raw, &items); err != nil {
		items = blankLinePattern.Split(stripCodeFences(raw), -1)
	}

	paragraphs := make([]string, 0, len(items))
	for _, p := range items {
		p = strings.TrimSpace(p)
		if p != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	return paragraphs
}

func parseQuestions(raw string) ([]models.QAPair, error) {
	var items []models.QAPair
	if err := unmarshalArray(raw, &items); err != nil {
		return nil, fmt.Errorf("could not parse questions from model response: %w", err)
	}
	return validateQuestions(items), nil
}

func validateQuestions(items []models.QAPair) []models.QAPair {
	valid := make([]models.QAPair, 0, len(items))
	for _, q := range items {
		q.Question = strings.TrimSpace(q.Question)
		q.Answer = strings.TrimSpace(q.Answer)
		if q.Question == "" {
			continue
		}
		valid = append(valid, q)
	}
	return valid
}
