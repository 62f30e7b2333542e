package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"quizhub-service/internal/app"
)

type AttemptHandler struct {
	attempts    *app.AttemptService
	leaderboard *app.LeaderboardService
}

func NewAttemptHandler(attempts *app.AttemptService, leaderboard *app.LeaderboardService) *AttemptHandler {
	return &AttemptHandler{attempts: attempts, leaderboard: leaderboard}
}

type submitAttemptRequest struct {
	UserID         string `json:"userId"`
	QuizID         string `json:"quizId"`
	Score          int    `json:"score"`
	TotalQuestions int    `json:"totalQuestions"`
	Answers        []int  `json:"answers,omitempty"`
}

// Submit handles POST /api/attempts.
func (h *AttemptHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitAttemptRequest
	if !decodeBody(w, r, &req) {
		return
	}

	attempt, err := h.attempts.Submit(r.Context(), app.SubmitAttemptInput{
		UserID:         req.UserID,
		QuizID:         req.QuizID,
		Score:          req.Score,
		TotalQuestions: req.TotalQuestions,
		Answers:        req.Answers,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, attempt)
}

// ListAll handles GET /api/attempts.
func (h *AttemptHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	attempts, err := h.attempts.ListAll(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, attempts)
}

// ListByUser handles GET /api/attempts/{userId}.
func (h *AttemptHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	attempts, err := h.attempts.ListByUser(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, attempts)
}

// ListByQuiz handles GET /api/quizzes/{id}/attempts.
func (h *AttemptHandler) ListByQuiz(w http.ResponseWriter, r *http.Request) {
	attempts, err := h.attempts.ListByQuiz(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, attempts)
}

// Leaderboard handles GET /api/leaderboard.
func (h *AttemptHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	lb, err := h.leaderboard.Leaderboard(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lb)
}
