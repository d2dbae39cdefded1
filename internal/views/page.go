package views

import (
	"html/template"

	"docsum/internal/models"
)

type TabLink struct {
	Name   string
	Label  string
	Active bool
}

// ExportLink is a download link. Href is either a data: URI or a server route.
type ExportLink struct {
	Label    string
	Href     template.URL
	Filename string
}

type QuizView struct {
	Index      int
	Number     int
	Total      int
	Question   string
	Answer     string
	UserAnswer string
	HasPrev    bool
	HasNext    bool
	Reveal     bool
}

// Page is everything the templates read.
type Page struct {
	Tabs         []TabLink
	ActiveTab    string
	APIError     string
	ExtractError string
	Flash        string

	Accept      string
	MaxUpload   string
	SourceName  string
	HasDocument bool
	Recent      []*models.Document

	Summary        string
	SummaryExports []ExportLink

	HasParagraphs   bool
	Paragraph       string
	ParagraphNumber int
	ParagraphCount  int
	HasPrev         bool
	HasNext         bool
	Questions       []models.QAPair
	ShowAnswer      bool
	QuestionExports []ExportLink
	Quiz            *QuizView
}
