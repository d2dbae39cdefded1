package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"docsum/internal/middleware"
	"docsum/internal/services"
)

// Export downloads the summary or the question set as pdf or md.
func (h *StudyHandler) Export(w http.ResponseWriter, r *http.Request) {
	target := chi.URLParam(r, "target")
	format := chi.URLParam(r, "format")

	s, err := h.sessions.Get(r.Context(), middleware.GetSessionID(r.Context()))
	if err != nil {
		h.log.Error("failed to load session", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResp("SESSION_ERROR", "Failed to load session", r))
		return
	}

	var text string
	switch target {
	case "summary":
		text = s.Summary
	case "questions":
		if len(s.Questions) > 0 {
			text = services.FormatQuestions(s.Questions)
		}
	default:
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Unknown export target", r))
		return
	}
	if text == "" {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Nothing to export yet", r))
		return
	}

	var exp services.Export
	switch format {
	case "md":
		exp = h.exporter.ToMarkdown(text, target)
	case "pdf":
		exp, err = h.exporter.ToPDF(text, target)
		if err != nil {
			h.log.Error("pdf export failed", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to build PDF", r))
			return
		}
	default:
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Unknown export format", r))
		return
	}

	w.Header().Set("Content-Type", exp.MIMEType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+exp.Filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(exp.Data)))
	w.WriteHeader(http.StatusOK)
	w.Write(exp.Data)
}
