package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docsum/internal/models"
)

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"```json\n[\"a\"]\n```", `["a"]`},
		{"```\nplain\n```", "plain"},
		{"  no fences  ", "no fences"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, stripCodeFences(tt.in))
	}
}

func TestParseParagraphs_JSON(t *testing.T) {
	raw := "```json\n[\"First paragraph.\", \"  \", \"Second paragraph.\"]\n```"

	assert.Equal(t, []string{"First paragraph.", "Second paragraph."}, parseParagraphs(raw))
}

func TestParseParagraphs_SalvagesArrayFromProse(t *testing.T) {
	raw := "Here are the paragraphs:\n[\"One\", \"Two\"]\nHope this helps!"

	assert.Equal(t, []string{"One", "Two"}, parseParagraphs(raw))
}

func TestParseParagraphs_FallsBackToBlankLines(t *testing.T) {
	raw := "Cells divide.\n\nMitosis has phases.\n   \nCytokinesis ends it."

	assert.Equal(t, []string{"Cells divide.", "Mitosis has phases.", "Cytokinesis ends it."}, parseParagraphs(raw))
}

func TestParseParagraphs_Empty(t *testing.T) {
	assert.Empty(t, parseParagraphs("   "))
}

func TestParseQuestions(t *testing.T) {
	raw := `[{"question":" What is ATP? ","answer":"Energy currency."},{"question":"","answer":"orphan"},{"question":"Where?","answer":""}]`

	got, err := parseQuestions(raw)
	require.NoError(t, err)
	assert.Equal(t, []models.QAPair{
		{Question: "What is ATP?", Answer: "Energy currency."},
		{Question: "Where?", Answer: ""},
	}, got)
}

func TestParseQuestions_Invalid(t *testing.T) {
	_, err := parseQuestions("I cannot help with that.")
	assert.Error(t, err)
}

func TestPromptsCarryInput(t *testing.T) {
	assert.Contains(t, buildSummaryPrompt("the lecture text"), "the lecture text")
	assert.Contains(t, buildParagraphPrompt("some text"), "some text")
	assert.Contains(t, buildQuestionPrompt("a paragraph"), "a paragraph")
	assert.Contains(t, buildOCRPrompt("eng"), "English")
}
