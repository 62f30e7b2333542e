package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"quizhub-service/internal/domain"
)

// CreateQuizInput is the admin-supplied content for a new quiz.
type CreateQuizInput struct {
	Title       string
	Description string
	CreatedBy   string
	Questions   []domain.Question
	EndTime     *time.Time
}

// UpdateQuizInput is a partial update merged onto the stored record.
// Nil fields are left untouched; id and creator are immutable.
type UpdateQuizInput struct {
	UpdatedBy   string
	Title       *string
	Description *string
	Questions   []domain.Question
	EndTime     *time.Time
	IsEnded     *bool
}

// QuizService owns quiz authoring and read paths. Mutations are admin-gated.
type QuizService struct {
	store Store
	gate  *Gate
	newID func() string
}

func NewQuizService(store Store) *QuizService {
	return &QuizService{
		store: store,
		gate:  NewGate(store),
		newID: func() string { return uuid.NewString() },
	}
}

func (s *QuizService) List(ctx context.Context) ([]domain.Quiz, error) {
	return s.store.ListQuizzes(ctx)
}

func (s *QuizService) Get(ctx context.Context, id string) (domain.Quiz, error) {
	return s.store.GetQuiz(ctx, id)
}

// Create validates and persists a new quiz authored by an active admin.
func (s *QuizService) Create(ctx context.Context, input CreateQuizInput) (domain.Quiz, error) {
	if !s.gate.VerifyActiveRole(ctx, input.CreatedBy, domain.RoleAdmin) {
		return domain.Quiz{}, domain.ErrUnauthorized
	}
	if err := validateQuizContent(input.Title, input.Questions); err != nil {
		return domain.Quiz{}, err
	}

	quiz := domain.Quiz{
		ID:          s.newID(),
		Title:       input.Title,
		Description: input.Description,
		CreatedBy:   input.CreatedBy,
		Questions:   withQuestionIDs(input.Questions, s.newID),
		EndTime:     input.EndTime,
	}
	if err := s.store.PutQuiz(ctx, quiz); err != nil {
		return domain.Quiz{}, err
	}
	return quiz, nil
}

// Update merges a partial record onto the stored quiz. Setting IsEnded to
// true is how an admin terminates a quiz early; the quiz stays listed.
func (s *QuizService) Update(ctx context.Context, id string, input UpdateQuizInput) (domain.Quiz, error) {
	if !s.gate.VerifyActiveRole(ctx, input.UpdatedBy, domain.RoleAdmin) {
		return domain.Quiz{}, domain.ErrUnauthorized
	}

	quiz, err := s.store.GetQuiz(ctx, id)
	if err != nil {
		return domain.Quiz{}, err
	}

	if input.Title != nil {
		quiz.Title = *input.Title
	}
	if input.Description != nil {
		quiz.Description = *input.Description
	}
	if input.Questions != nil {
		quiz.Questions = withQuestionIDs(input.Questions, s.newID)
	}
	if input.EndTime != nil {
		quiz.EndTime = input.EndTime
	}
	if input.IsEnded != nil {
		quiz.IsEnded = *input.IsEnded
	}

	if err := validateQuizContent(quiz.Title, quiz.Questions); err != nil {
		return domain.Quiz{}, err
	}
	if err := s.store.PutQuiz(ctx, quiz); err != nil {
		return domain.Quiz{}, err
	}
	return quiz, nil
}

func validateQuizContent(title string, questions []domain.Question) error {
	if title == "" {
		return fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	if len(questions) == 0 {
		return fmt.Errorf("%w: a quiz needs at least one question", domain.ErrValidation)
	}
	for i, q := range questions {
		if q.Text == "" {
			return fmt.Errorf("%w: question %d has no text", domain.ErrValidation, i)
		}
		if len(q.Options) < 2 {
			return fmt.Errorf("%w: question %d needs at least two options", domain.ErrValidation, i)
		}
		if q.CorrectOptionIndex < 0 || q.CorrectOptionIndex >= len(q.Options) {
			return fmt.Errorf("%w: question %d has correct option %d out of range", domain.ErrValidation, i, q.CorrectOptionIndex)
		}
	}
	return nil
}

func withQuestionIDs(questions []domain.Question, newID func() string) []domain.Question {
	out := make([]domain.Question, len(questions))
	copy(out, questions)
	for i := range out {
		if out[i].ID == "" {
			out[i].ID = newID()
		}
	}
	return out
}
