package models

import (
	"time"

	"github.com/google/uuid"
)

// QAPair is one generated comprehension question with its model answer.
type QAPair struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// QuizRun records a finished quiz for the study history.
type QuizRun struct {
	ID             uuid.UUID  `json:"id"`
	SessionID      string     `json:"session_id"`
	DocumentID     *uuid.UUID `json:"document_id"`
	ParagraphIndex int        `json:"paragraph_index"`
	QuestionCount  int        `json:"question_count"`
	AnsweredCount  int        `json:"answered_count"`
	FinishedAt     time.Time  `json:"finished_at"`
}
