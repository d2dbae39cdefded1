package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"docsum/internal/middleware"
	"docsum/internal/models"
	"docsum/internal/services"
	"docsum/internal/session"
)

const (
	multipartOverhead  = 1 << 20
	multipartMaxMemory = 32 << 20
)

// Upload extracts the file, summarizes it, splits it into paragraphs and moves
// to the summary tab. Extraction failures keep the upload tab and skip the model.
func (h *StudyHandler) Upload(w http.ResponseWriter, r *http.Request) {
	maxBytes := h.extractor.MaxBytes()
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes+multipartOverhead)

	var up services.Upload
	if err := r.ParseMultipartForm(multipartMaxMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if !errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid upload form", r))
			return
		}
		// The extractor rejects it by size without reading anything.
		size := r.ContentLength
		if size <= maxBytes {
			size = maxBytes + 1
		}
		up = services.Upload{Size: size}
	} else {
		file, header, err := r.FormFile("file")
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "No file provided", r))
			return
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Failed to read uploaded file", r))
			return
		}
		up = services.Upload{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			Data:        data,
		}
	}

	sessionID := middleware.GetSessionID(r.Context())
	defer h.progress.Done(r.Context(), sessionID)

	h.apply(w, r, "/", func(s session.State) session.State {
		return h.process(r.Context(), sessionID, s, up)
	})
}

func (h *StudyHandler) process(ctx context.Context, sessionID string, s session.State, up services.Upload) session.State {
	h.progress.Status(ctx, sessionID, 1, stepProcessing)

	text, err := h.extractor.Extract(ctx, up)
	if err != nil {
		h.log.Warn("text extraction failed", zap.String("filename", up.Filename), zap.Error(err))
		msg := "Failed to extract text from the uploaded file."
		var extractErr *services.ExtractionError
		if errors.As(err, &extractErr) {
			msg = extractErr.Message
		}
		return s.FailExtraction(msg)
	}

	s = s.LoadDocument(up.Filename, text)

	model, s, ok := h.configure(ctx, s)
	if !ok {
		return s
	}

	h.progress.Status(ctx, sessionID, 2, stepSummary)
	summary, err := model.Summarize(ctx, text)
	if err != nil {
		h.log.Error("summarize failed", zap.Error(err))
		s = s.WithAPIError(msgSummaryErr + errorCause(err))
		summary = ""
	}

	h.progress.Status(ctx, sessionID, 3, stepParagraphs)
	paragraphs, err := model.SplitIntoParagraphs(ctx, text)
	if err != nil {
		h.log.Error("paragraph split failed", zap.Error(err))
		s = s.WithAPIError(msgParagraphErr + errorCause(err))
		paragraphs = nil
	}

	s = s.ApplyAnalysis(summary, paragraphs).SwitchTab(session.TabSummary)

	doc := &models.Document{
		SessionID:      sessionID,
		Filename:       up.Filename,
		ContentType:    services.ResolveContentType(up.ContentType, up.Data),
		CharCount:      utf8.RuneCountInString(text),
		ParagraphCount: len(s.Paragraphs),
		Summary:        s.Summary,
	}
	if err := h.history.RecordDocument(ctx, doc); err != nil {
		h.log.Warn("failed to record document", zap.Error(err))
	} else if doc.ID != uuid.Nil {
		s = s.WithDocumentID(doc.ID)
	}

	return s
}

// errorCause unwraps a model call error to the provider's message.
func errorCause(err error) string {
	var callErr *services.ModelCallError
	if errors.As(err, &callErr) && callErr.Err != nil {
		return callErr.Err.Error()
	}
	return err.Error()
}
