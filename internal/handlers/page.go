package handlers

import (
	"html/template"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"docsum/internal/middleware"
	"docsum/internal/models"
	"docsum/internal/services"
	"docsum/internal/session"
	"docsum/internal/views"
)

var tabLabels = map[session.Tab]string{
	session.TabUpload:   "Upload Content",
	session.TabSummary:  "Review Summary",
	session.TabPractice: "Practice Questions",
}

// Index renders the active tab.
func (h *StudyHandler) Index(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID := middleware.GetSessionID(ctx)

	s, err := h.sessions.Get(ctx, sessionID)
	if err != nil {
		h.log.Error("failed to load session", zap.String("session_id", sessionID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResp("SESSION_ERROR", "Failed to load session", r))
		return
	}

	var recent []*models.Document
	if s.ActiveTab == session.TabUpload {
		recent, err = h.history.RecentDocuments(ctx, sessionID, recentDocumentsLimit)
		if err != nil {
			h.log.Warn("failed to load recent documents", zap.Error(err))
			recent = nil
		}
	}

	page := h.buildPage(s, recent, r.URL.Query())

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := h.views.Render(w, "page", page); err != nil {
		h.log.Error("failed to render page", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to render page", r))
	}
}

func (h *StudyHandler) buildPage(s session.State, recent []*models.Document, q url.Values) views.Page {
	p := views.Page{
		ActiveTab:    string(s.ActiveTab),
		APIError:     s.APIError,
		ExtractError: s.ExtractError,
		Accept:       services.AcceptAttribute(),
		MaxUpload:    services.FormatMegabytes(h.extractor.MaxBytes()),
		SourceName:   s.SourceName,
		HasDocument:  s.HasDocument(),
		Recent:       recent,
		Summary:      s.Summary,
	}

	for _, t := range session.Tabs {
		p.Tabs = append(p.Tabs, views.TabLink{Name: string(t), Label: tabLabels[t], Active: t == s.ActiveTab})
	}

	if q.Get("finished") == "1" {
		p.Flash = "Quiz completed!"
	}

	switch s.ActiveTab {
	case session.TabSummary:
		if s.Summary != "" {
			p.SummaryExports = h.exportLinks("summary", s.Summary)
		}
	case session.TabPractice:
		h.fillPractice(&p, s, q.Get("reveal") == "1")
	}

	return p
}

func (h *StudyHandler) fillPractice(p *views.Page, s session.State, reveal bool) {
	paragraph, ok := s.CurrentParagraph()
	if !ok {
		return
	}

	p.HasParagraphs = true
	p.Paragraph = paragraph
	p.ParagraphNumber = s.ParagraphIndex + 1
	p.ParagraphCount = len(s.Paragraphs)
	p.HasPrev = s.ParagraphIndex > 0
	p.HasNext = s.ParagraphIndex < len(s.Paragraphs)-1
	p.Questions = s.Questions
	p.ShowAnswer = s.ShowAnswer

	if len(s.Questions) == 0 {
		return
	}
	p.QuestionExports = h.exportLinks("questions", services.FormatQuestions(s.Questions))

	if !s.Quiz.Active {
		return
	}
	i := s.Quiz.CurrentIndex
	if i < 0 || i >= len(s.Questions) {
		return
	}
	qv := &views.QuizView{
		Index:    i,
		Number:   i + 1,
		Total:    len(s.Questions),
		Question: s.Questions[i].Question,
		Answer:   s.Questions[i].Answer,
		HasPrev:  i > 0,
		HasNext:  i < len(s.Questions)-1,
		Reveal:   reveal,
	}
	if i < len(s.Quiz.UserAnswers) {
		qv.UserAnswer = s.Quiz.UserAnswers[i]
	}
	p.Quiz = qv
}

// exportLinks embeds both downloads in the page as data: URIs. If the PDF cannot
// be built the link points at the export route instead.
func (h *StudyHandler) exportLinks(target, text string) []views.ExportLink {
	md := h.exporter.ToMarkdown(text, target)

	pdfLink := views.ExportLink{
		Label:    "Download as PDF",
		Href:     template.URL("/export/" + target + "/pdf"),
		Filename: target + ".pdf",
	}
	if pdf, err := h.exporter.ToPDF(text, target); err != nil {
		h.log.Warn("pdf export failed", zap.String("target", target), zap.Error(err))
	} else {
		pdfLink.Href = template.URL(pdf.DataURI())
	}

	return []views.ExportLink{
		pdfLink,
		{Label: "Download as Markdown", Href: template.URL(md.DataURI()), Filename: md.Filename},
	}
}
