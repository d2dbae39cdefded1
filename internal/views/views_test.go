package views

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docsum/internal/models"
)

func render(t *testing.T, p Page) string {
	t.Helper()

	r, err := New()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, "page", p))
	return buf.String()
}

func TestMarkdown_DropsRawHTML(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	out := string(r.Markdown("# Title\n\n- one\n\n<script>alert(1)</script>"))

	assert.Contains(t, out, "<h1>Title</h1>")
	assert.Contains(t, out, "<li>one</li>")
	assert.NotContains(t, out, "<script>")
}

func TestRender_EmptySummaryShowsUploadButton(t *testing.T) {
	out := render(t, Page{ActiveTab: "summary"})

	assert.Contains(t, out, "No summary yet")
	assert.Contains(t, out, `action="/tabs/upload"`)
}

func TestRender_PracticeWithQuestions(t *testing.T) {
	out := render(t, Page{
		ActiveTab:       "practice",
		HasParagraphs:   true,
		Paragraph:       "Cells <divide>.",
		ParagraphNumber: 1,
		ParagraphCount:  3,
		HasNext:         true,
		Questions:       []models.QAPair{{Question: "What divides?", Answer: "Cells."}},
	})

	assert.Contains(t, out, "Paragraph 1 of 3")
	assert.Contains(t, out, "Cells &lt;divide&gt;.")
	assert.Contains(t, out, "Q1:</strong> What divides?")
	assert.NotContains(t, out, "A1:")
	assert.NotContains(t, out, `action="/paragraphs/prev"`)
}

func TestRender_QuizReveal(t *testing.T) {
	out := render(t, Page{
		ActiveTab:     "practice",
		HasParagraphs: true,
		Questions:     []models.QAPair{{Question: "Q", Answer: "The answer"}},
		Quiz:          &QuizView{Number: 1, Total: 1, Question: "Q", Answer: "The answer", Reveal: true},
	})

	assert.Contains(t, out, "Correct answer:</strong> The answer")
	assert.Equal(t, 1, strings.Count(out, `action="/quiz/finish"`))
}

func TestRender_QuizKeepsQuestionExports(t *testing.T) {
	out := render(t, Page{
		ActiveTab:     "practice",
		HasParagraphs: true,
		Questions:     []models.QAPair{{Question: "Q", Answer: "A"}},
		QuestionExports: []ExportLink{
			{Label: "Download as Markdown", Href: "/export/questions/md", Filename: "questions.md"},
		},
		Quiz: &QuizView{Number: 1, Total: 1, Question: "Q", Answer: "A"},
	})

	assert.Contains(t, out, `action="/quiz/answer"`)
	assert.Contains(t, out, `download="questions.md"`)
}

func TestRender_ErrorsAreShown(t *testing.T) {
	out := render(t, Page{ActiveTab: "upload", APIError: "quota exceeded", ExtractError: "Unsupported file type."})

	assert.Contains(t, out, "quota exceeded")
	assert.Contains(t, out, "Unsupported file type.")
}
