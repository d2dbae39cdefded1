package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docsum/internal/models"
)

func analyzed() State {
	return New().
		LoadDocument("cells.pdf", "Cells divide. Mitosis has phases. Cytokinesis ends it.").
		ApplyAnalysis("Cells divide in phases.", []string{"Cells divide.", "Mitosis has phases.", "Cytokinesis ends it."})
}

var sampleQuestions = []models.QAPair{
	{Question: "What divides?", Answer: "Cells."},
	{Question: "What ends it?", Answer: "Cytokinesis."},
}

func TestNew(t *testing.T) {
	s := New()

	assert.Equal(t, TabUpload, s.ActiveTab)
	assert.False(t, s.HasDocument())
	_, ok := s.CurrentParagraph()
	assert.False(t, ok)
}

func TestParagraphNavigation_Bounded(t *testing.T) {
	s := analyzed()

	assert.Equal(t, 0, s.PrevParagraph().ParagraphIndex)

	s = s.NextParagraph().NextParagraph()
	assert.Equal(t, 2, s.ParagraphIndex)
	assert.Equal(t, 2, s.NextParagraph().ParagraphIndex)

	p, ok := s.CurrentParagraph()
	require.True(t, ok)
	assert.Equal(t, "Cytokinesis ends it.", p)
}

func TestParagraphNavigation_EmptyList(t *testing.T) {
	s := New().NextParagraph().PrevParagraph()
	assert.Equal(t, 0, s.ParagraphIndex)
}

func TestNextThenPrev_ClearsQuestions(t *testing.T) {
	s := analyzed().SetQuestions(sampleQuestions).ToggleAnswer()

	moved := s.NextParagraph()
	assert.Empty(t, moved.Questions)
	assert.False(t, moved.ShowAnswer)

	back := moved.PrevParagraph()
	assert.Equal(t, 0, back.ParagraphIndex)
	assert.Empty(t, back.Questions)
}

func TestNextParagraph_EndsQuiz(t *testing.T) {
	s := analyzed().SetQuestions(sampleQuestions).StartQuiz().NextParagraph()

	assert.False(t, s.Quiz.Active)
	assert.Empty(t, s.Quiz.UserAnswers)
}

func TestSwitchTab_LeavesContentAlone(t *testing.T) {
	s := analyzed()

	for _, tab := range Tabs {
		next := s.SwitchTab(tab)
		assert.Equal(t, tab, next.ActiveTab)
		assert.Equal(t, s.ExtractedText, next.ExtractedText)
		assert.Equal(t, s.Summary, next.Summary)
		assert.Equal(t, s.Paragraphs, next.Paragraphs)
	}

	assert.Equal(t, s, s.SwitchTab("settings"))
}

func TestStartQuiz(t *testing.T) {
	s := analyzed().SetQuestions(sampleQuestions).StartQuiz()

	assert.True(t, s.Quiz.Active)
	assert.Equal(t, 0, s.Quiz.CurrentIndex)
	assert.Equal(t, []string{"", ""}, s.Quiz.UserAnswers)
}

func TestStartQuiz_NoQuestions(t *testing.T) {
	s := analyzed().StartQuiz()
	assert.False(t, s.Quiz.Active)
}

func TestQuizNavigation_Bounded(t *testing.T) {
	s := analyzed().SetQuestions(sampleQuestions).StartQuiz()

	assert.Equal(t, 0, s.QuizPrev().Quiz.CurrentIndex)
	s = s.QuizNext()
	assert.Equal(t, 1, s.Quiz.CurrentIndex)
	assert.Equal(t, 1, s.QuizNext().Quiz.CurrentIndex)
}

func TestQuizNavigation_InactiveQuiz(t *testing.T) {
	s := analyzed().SetQuestions(sampleQuestions)
	assert.Equal(t, 0, s.QuizNext().Quiz.CurrentIndex)
}

func TestRecordAnswer(t *testing.T) {
	start := analyzed().SetQuestions(sampleQuestions).StartQuiz()

	s := start.RecordAnswer(1, "cytokinesis")
	assert.Equal(t, []string{"", "cytokinesis"}, s.Quiz.UserAnswers)
	assert.Equal(t, 1, s.Quiz.AnsweredCount())

	assert.Equal(t, []string{"", ""}, start.Quiz.UserAnswers, "earlier state untouched")
	assert.Equal(t, s, s.RecordAnswer(5, "out of range"))
}

func TestSetQuestions_EndsQuiz(t *testing.T) {
	s := analyzed().SetQuestions(sampleQuestions).StartQuiz().SetQuestions(sampleQuestions[:1])

	assert.False(t, s.Quiz.Active)
	assert.Len(t, s.Questions, 1)
}

func TestFinishQuiz(t *testing.T) {
	s := analyzed().SetQuestions(sampleQuestions).StartQuiz().FinishQuiz()

	assert.False(t, s.Quiz.Active)
	assert.Len(t, s.Questions, 2)
}

func TestLoadDocument_DropsDerivedData(t *testing.T) {
	s := analyzed().SetQuestions(sampleQuestions).StartQuiz().NextParagraph().SwitchTab(TabPractice)

	next := s.LoadDocument("other.txt", "New text.")

	assert.Equal(t, "New text.", next.ExtractedText)
	assert.Equal(t, "other.txt", next.SourceName)
	assert.Empty(t, next.Summary)
	assert.Empty(t, next.Paragraphs)
	assert.Equal(t, 0, next.ParagraphIndex)
	assert.Empty(t, next.Questions)
	assert.False(t, next.Quiz.Active)
	assert.Equal(t, TabPractice, next.ActiveTab)
}

func TestFailExtraction_KeepsCurrentDocument(t *testing.T) {
	before := analyzed().SetQuestions(sampleQuestions).StartQuiz()
	s := before.FailExtraction("Unsupported file type.")

	assert.Equal(t, "Unsupported file type.", s.ExtractError)
	s.ExtractError = ""
	assert.Equal(t, before, s)
}

func TestFailExtraction_WithoutDocument(t *testing.T) {
	s := New().FailExtraction("File size exceeds the limit of 10 MB.")

	assert.False(t, s.HasDocument())
	assert.Equal(t, TabUpload, s.ActiveTab)
	assert.Equal(t, "File size exceeds the limit of 10 MB.", s.ExtractError)
}

func TestLoadDocument_ClearsExtractError(t *testing.T) {
	s := New().FailExtraction("Unsupported file type.").LoadDocument("notes.txt", "text")
	assert.Empty(t, s.ExtractError)
}

func TestBeginAction_ResetsAPIError(t *testing.T) {
	s := analyzed().WithAPIError("quota exceeded").FailExtraction("No text found in image.")
	next := s.BeginAction()
	assert.Empty(t, next.APIError)
	assert.Empty(t, next.ExtractError)
	assert.Equal(t, s.Summary, next.Summary)
}

func TestClear(t *testing.T) {
	s := analyzed().SetQuestions(sampleQuestions).StartQuiz().SwitchTab(TabSummary).WithAPIError("x")
	assert.Equal(t, New(), s.Clear())
}
