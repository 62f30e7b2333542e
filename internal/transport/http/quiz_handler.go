package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"quizhub-service/internal/app"
	"quizhub-service/internal/domain"
)

type QuizHandler struct {
	quizzes *app.QuizService
}

func NewQuizHandler(quizzes *app.QuizService) *QuizHandler {
	return &QuizHandler{quizzes: quizzes}
}

type createQuizRequest struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	CreatedBy   string            `json:"createdBy"`
	Questions   []domain.Question `json:"questions"`
	EndTime     *time.Time        `json:"endTime,omitempty"`
}

// updateQuizRequest is a partial record; createdBy names the acting admin.
type updateQuizRequest struct {
	CreatedBy   string            `json:"createdBy"`
	Title       *string           `json:"title,omitempty"`
	Description *string           `json:"description,omitempty"`
	Questions   []domain.Question `json:"questions,omitempty"`
	EndTime     *time.Time        `json:"endTime,omitempty"`
	IsEnded     *bool             `json:"isEnded,omitempty"`
}

// List handles GET /api/quizzes.
func (h *QuizHandler) List(w http.ResponseWriter, r *http.Request) {
	quizzes, err := h.quizzes.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quizzes)
}

// Get handles GET /api/quizzes/{id}.
func (h *QuizHandler) Get(w http.ResponseWriter, r *http.Request) {
	quiz, err := h.quizzes.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quiz)
}

// Create handles POST /api/quizzes.
func (h *QuizHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createQuizRequest
	if !decodeBody(w, r, &req) {
		return
	}

	quiz, err := h.quizzes.Create(r.Context(), app.CreateQuizInput{
		Title:       req.Title,
		Description: req.Description,
		CreatedBy:   req.CreatedBy,
		Questions:   req.Questions,
		EndTime:     req.EndTime,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quiz)
}

// Update handles PUT /api/quizzes/{id}.
func (h *QuizHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateQuizRequest
	if !decodeBody(w, r, &req) {
		return
	}

	quiz, err := h.quizzes.Update(r.Context(), chi.URLParam(r, "id"), app.UpdateQuizInput{
		UpdatedBy:   req.CreatedBy,
		Title:       req.Title,
		Description: req.Description,
		Questions:   req.Questions,
		EndTime:     req.EndTime,
		IsEnded:     req.IsEnded,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quiz)
}
