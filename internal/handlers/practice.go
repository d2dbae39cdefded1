package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"docsum/internal/middleware"
	"docsum/internal/models"
	"docsum/internal/session"
)

func (h *StudyHandler) SwitchTab(w http.ResponseWriter, r *http.Request) {
	tab, ok := session.ParseTab(chi.URLParam(r, "tab"))
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Unknown tab", r))
		return
	}
	h.apply(w, r, "/", func(s session.State) session.State { return s.SwitchTab(tab) })
}

func (h *StudyHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, "/", session.State.Clear)
}

func (h *StudyHandler) NextParagraph(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, "/", session.State.NextParagraph)
}

func (h *StudyHandler) PrevParagraph(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, "/", session.State.PrevParagraph)
}

func (h *StudyHandler) ToggleAnswer(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, "/", session.State.ToggleAnswer)
}

// GenerateQuestions asks the model about the current paragraph. On failure the
// question set is emptied.
func (h *StudyHandler) GenerateQuestions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID := middleware.GetSessionID(ctx)
	defer h.progress.Done(ctx, sessionID)

	h.apply(w, r, "/", func(s session.State) session.State {
		paragraph, ok := s.CurrentParagraph()
		if !ok {
			return s
		}

		model, s, ok := h.configure(ctx, s)
		if !ok {
			return s.SetQuestions(nil)
		}

		h.progress.Status(ctx, sessionID, 1, stepQuestions)
		questions, err := model.GenerateQuestions(ctx, paragraph)
		if err != nil {
			h.log.Error("question generation failed", zap.Error(err))
			return s.WithAPIError(msgQuestionErr + errorCause(err)).SetQuestions(nil)
		}
		return s.SetQuestions(questions)
	})
}

func (h *StudyHandler) StartQuiz(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, "/", session.State.StartQuiz)
}

func (h *StudyHandler) QuizNext(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, "/", session.State.QuizNext)
}

func (h *StudyHandler) QuizPrev(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, "/", session.State.QuizPrev)
}

// SubmitAnswer stores the answer and shows the correct one. Answers are not graded.
func (h *StudyHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid form", r))
		return
	}
	index, err := strconv.Atoi(r.PostForm.Get("index"))
	if err != nil || index < 0 {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid question index", r))
		return
	}
	answer := r.PostForm.Get("answer")

	h.apply(w, r, "/?reveal=1", func(s session.State) session.State {
		return s.RecordAnswer(index, answer)
	})
}

// FinishQuiz ends the quiz and records it in the study history.
func (h *StudyHandler) FinishQuiz(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID := middleware.GetSessionID(ctx)

	h.apply(w, r, "/?finished=1", func(s session.State) session.State {
		if !s.Quiz.Active {
			return s
		}
		run := &models.QuizRun{
			SessionID:      sessionID,
			DocumentID:     s.DocumentID,
			ParagraphIndex: s.ParagraphIndex,
			QuestionCount:  len(s.Questions),
			AnsweredCount:  s.Quiz.AnsweredCount(),
		}
		if err := h.history.RecordQuizRun(ctx, run); err != nil {
			h.log.Warn("failed to record quiz run", zap.Error(err))
		}
		return s.FinishQuiz()
	})
}
