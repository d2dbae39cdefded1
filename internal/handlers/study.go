package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"docsum/internal/middleware"
	"docsum/internal/repository"
	"docsum/internal/services"
	"docsum/internal/session"
	"docsum/internal/views"
)

const recentDocumentsLimit = 5

// Messages shown in the error slot.
const (
	msgConfigFailed = "Language model configuration failed. Please check your API key."
	msgSummaryErr   = "Error generating summary: "
	msgParagraphErr = "Error processing paragraphs: "
	msgQuestionErr  = "Error generating questions: "
)

// Progress step names pushed to the browser while an action runs.
const (
	stepProcessing = "Processing file..."
	stepSummary    = "Generating summary..."
	stepParagraphs = "Processing paragraphs..."
	stepQuestions  = "Generating questions..."
)

type Extractor interface {
	Extract(ctx context.Context, up services.Upload) (string, error)
	MaxBytes() int64
}

type ModelProvider interface {
	Configure(ctx context.Context) (services.LanguageModel, error)
}

type Progress interface {
	Status(ctx context.Context, sessionID string, step int, name string)
	Done(ctx context.Context, sessionID string)
}

type StudyDeps struct {
	Sessions  *session.Manager
	Extractor Extractor
	Models    ModelProvider
	Exporter  *services.ExportService
	History   repository.History
	Progress  Progress
	Views     *views.Renderer
	Log       *zap.Logger
}

// StudyHandler serves the page and every action on it. Actions are form posts
// that apply one session transition and redirect back to the page.
type StudyHandler struct {
	sessions  *session.Manager
	extractor Extractor
	models    ModelProvider
	exporter  *services.ExportService
	history   repository.History
	progress  Progress
	views     *views.Renderer
	log       *zap.Logger
}

func NewStudyHandler(d StudyDeps) *StudyHandler {
	h := &StudyHandler{
		sessions:  d.Sessions,
		extractor: d.Extractor,
		models:    d.Models,
		exporter:  d.Exporter,
		history:   d.History,
		progress:  d.Progress,
		views:     d.Views,
		log:       d.Log,
	}
	if h.history == nil {
		h.history = repository.NoopHistory{}
	}
	if h.progress == nil {
		h.progress = nopProgress{}
	}
	if h.exporter == nil {
		h.exporter = services.NewExportService()
	}
	if h.log == nil {
		h.log = zap.NewNop()
	}
	return h
}

type nopProgress struct{}

func (nopProgress) Status(context.Context, string, int, string) {}

func (nopProgress) Done(context.Context, string) {}

// apply runs fn on the request's session, then redirects to target.
// The error slot is cleared first, so a message lives for one action.
func (h *StudyHandler) apply(w http.ResponseWriter, r *http.Request, target string, fn func(session.State) session.State) {
	sessionID := middleware.GetSessionID(r.Context())

	_, err := h.sessions.Update(r.Context(), sessionID, func(s session.State) session.State {
		return fn(s.BeginAction())
	})
	if err != nil {
		h.log.Error("session update failed", zap.String("session_id", sessionID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResp("SESSION_ERROR", "Failed to update session", r))
		return
	}

	http.Redirect(w, r, target, http.StatusSeeOther)
}

// configure returns the model handle, or the state with the configuration error recorded.
func (h *StudyHandler) configure(ctx context.Context, s session.State) (services.LanguageModel, session.State, bool) {
	m, err := h.models.Configure(ctx)
	if err != nil {
		h.log.Error("language model configuration failed", zap.Error(err))
		return nil, s.WithAPIError(msgConfigFailed), false
	}
	return m, s, true
}
