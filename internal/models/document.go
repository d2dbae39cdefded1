package models

import (
	"time"

	"github.com/google/uuid"
)

// Document is a processed upload as kept in the study history.
type Document struct {
	ID             uuid.UUID `json:"id"`
	SessionID      string    `json:"session_id"`
	Filename       string    `json:"filename"`
	ContentType    string    `json:"content_type"`
	CharCount      int       `json:"char_count"`
	ParagraphCount int       `json:"paragraph_count"`
	Summary        string    `json:"summary"`
	CreatedAt      time.Time `json:"created_at"`
}
