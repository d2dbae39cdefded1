package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"docsum/internal/handlers"
	"docsum/internal/middleware"
	"docsum/internal/websocket"
)

func New(
	log *zap.Logger,
	sessions *middleware.Sessions,
	modelLimiter *middleware.RateLimiter,
	study *handlers.StudyHandler,
	wsHub *websocket.Hub,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Recoverer(log))
	r.Use(middleware.RequestLogger(log))

	r.Get("/health", handlers.Health)

	r.Group(func(r chi.Router) {
		r.Use(sessions.Middleware)

		r.Get("/", study.Index)
		r.Post("/tabs/{tab}", study.SwitchTab)
		r.Post("/clear", study.Clear)

		r.Post("/paragraphs/next", study.NextParagraph)
		r.Post("/paragraphs/prev", study.PrevParagraph)
		r.Post("/answers/toggle", study.ToggleAnswer)

		// ──── Model-backed actions ────
		r.Group(func(r chi.Router) {
			r.Use(modelLimiter.Middleware)
			r.Post("/upload", study.Upload)
			r.Post("/questions", study.GenerateQuestions)
		})

		r.Route("/quiz", func(r chi.Router) {
			r.Post("/start", study.StartQuiz)
			r.Post("/next", study.QuizNext)
			r.Post("/prev", study.QuizPrev)
			r.Post("/answer", study.SubmitAnswer)
			r.Post("/finish", study.FinishQuiz)
		})

		r.Get("/export/{target}/{format}", study.Export)
		r.Get("/ws", wsHub.HandleWebSocket)
	})

	return r
}
