package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter assembles the full API surface.
func NewRouter(attempts *AttemptHandler, quizzes *QuizHandler, users *UserHandler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", users.Register)
		r.Post("/auth/login", users.Login)

		r.Get("/users", users.List)
		r.Put("/users", users.UpdateStatus)

		r.Get("/quizzes", quizzes.List)
		r.Post("/quizzes", quizzes.Create)
		r.Get("/quizzes/{id}", quizzes.Get)
		r.Put("/quizzes/{id}", quizzes.Update)
		r.Get("/quizzes/{id}/attempts", attempts.ListByQuiz)

		r.Get("/attempts", attempts.ListAll)
		r.Post("/attempts", attempts.Submit)
		r.Get("/attempts/{userId}", attempts.ListByUser)

		r.Get("/leaderboard", attempts.Leaderboard)
	})

	return r
}
