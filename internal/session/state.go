package session

import (
	"github.com/google/uuid"

	"docsum/internal/models"
)

type Tab string

const (
	TabUpload   Tab = "upload"
	TabSummary  Tab = "summary"
	TabPractice Tab = "practice"
)

// Tabs in navigation order.
var Tabs = []Tab{TabUpload, TabSummary, TabPractice}

func ParseTab(s string) (Tab, bool) {
	for _, t := range Tabs {
		if string(t) == s {
			return t, true
		}
	}
	return "", false
}

type Quiz struct {
	Active       bool     `json:"active"`
	CurrentIndex int      `json:"current_index"`
	UserAnswers  []string `json:"user_answers"`
}

// AnsweredCount counts the non-blank answers.
func (q Quiz) AnsweredCount() int {
	n := 0
	for _, a := range q.UserAnswers {
		if a != "" {
			n++
		}
	}
	return n
}

// State is everything one browser session knows about its document.
//
// Transitions are methods on the value and return the next State. They never
// modify slices in place, so a State handed out by a store can be shared.
type State struct {
	ExtractedText  string          `json:"extracted_text"`
	Summary        string          `json:"summary"`
	Paragraphs     []string        `json:"paragraphs"`
	ParagraphIndex int             `json:"paragraph_index"`
	Questions      []models.QAPair `json:"questions"`
	Quiz           Quiz            `json:"quiz"`
	ActiveTab      Tab             `json:"active_tab"`
	ShowAnswer     bool            `json:"show_answer"`
	APIError       string          `json:"api_error"`
	ExtractError   string          `json:"extract_error"`
	SourceName     string          `json:"source_name"`
	DocumentID     *uuid.UUID      `json:"document_id,omitempty"`
}

func New() State {
	return State{ActiveTab: TabUpload}
}

func (s State) HasDocument() bool {
	return s.ExtractedText != ""
}

func (s State) CurrentParagraph() (string, bool) {
	if s.ParagraphIndex < 0 || s.ParagraphIndex >= len(s.Paragraphs) {
		return "", false
	}
	return s.Paragraphs[s.ParagraphIndex], true
}

// BeginAction clears the errors left by the previous action.
func (s State) BeginAction() State {
	s.APIError = ""
	s.ExtractError = ""
	return s
}

func (s State) WithAPIError(msg string) State {
	s.APIError = msg
	return s
}

func (s State) SwitchTab(tab Tab) State {
	if _, ok := ParseTab(string(tab)); !ok {
		return s
	}
	s.ActiveTab = tab
	return s
}

func (s State) NextParagraph() State {
	if s.ParagraphIndex+1 >= len(s.Paragraphs) {
		return s
	}
	s.ParagraphIndex++
	return s.resetParagraphScope()
}

func (s State) PrevParagraph() State {
	if s.ParagraphIndex <= 0 {
		return s
	}
	s.ParagraphIndex--
	return s.resetParagraphScope()
}

// Questions belong to the paragraph they were generated for.
func (s State) resetParagraphScope() State {
	s.Questions = nil
	s.ShowAnswer = false
	s.Quiz = Quiz{}
	return s
}

func (s State) ToggleAnswer() State {
	s.ShowAnswer = !s.ShowAnswer
	return s
}

func (s State) SetQuestions(qs []models.QAPair) State {
	if len(qs) == 0 {
		s.Questions = nil
	} else {
		s.Questions = append([]models.QAPair(nil), qs...)
	}
	s.ShowAnswer = false
	s.Quiz = Quiz{}
	return s
}

func (s State) StartQuiz() State {
	if len(s.Questions) == 0 {
		return s
	}
	s.Quiz = Quiz{
		Active:      true,
		UserAnswers: make([]string, len(s.Questions)),
	}
	return s
}

func (s State) QuizNext() State {
	if !s.Quiz.Active || s.Quiz.CurrentIndex+1 >= len(s.Questions) {
		return s
	}
	s.Quiz.CurrentIndex++
	return s
}

func (s State) QuizPrev() State {
	if !s.Quiz.Active || s.Quiz.CurrentIndex <= 0 {
		return s
	}
	s.Quiz.CurrentIndex--
	return s
}

func (s State) RecordAnswer(i int, text string) State {
	if !s.Quiz.Active || i < 0 || i >= len(s.Quiz.UserAnswers) {
		return s
	}
	answers := append([]string(nil), s.Quiz.UserAnswers...)
	answers[i] = text
	s.Quiz.UserAnswers = answers
	return s
}

func (s State) FinishQuiz() State {
	s.Quiz = Quiz{}
	return s
}

// LoadDocument replaces the document. Everything derived from the old one goes.
func (s State) LoadDocument(name, text string) State {
	next := New()
	next.ActiveTab = s.ActiveTab
	next.APIError = s.APIError
	next.ExtractedText = text
	next.SourceName = name
	return next
}

// FailExtraction records why an upload was rejected. The current document,
// if any, stays as it was.
func (s State) FailExtraction(msg string) State {
	s.ExtractError = msg
	return s
}

func (s State) ApplyAnalysis(summary string, paragraphs []string) State {
	s.Summary = summary
	if len(paragraphs) == 0 {
		s.Paragraphs = nil
	} else {
		s.Paragraphs = append([]string(nil), paragraphs...)
	}
	s.ParagraphIndex = 0
	return s.resetParagraphScope()
}

func (s State) WithDocumentID(id uuid.UUID) State {
	s.DocumentID = &id
	return s
}

func (s State) Clear() State {
	return New()
}
