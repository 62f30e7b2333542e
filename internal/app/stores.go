package app

import (
	"context"

	"quizhub-service/internal/domain"
)

// UserStore abstracts the users collection (in-memory, Redis, Postgres).
type UserStore interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	GetUser(ctx context.Context, id string) (domain.User, error)
	FindUserByEmail(ctx context.Context, email string) (domain.User, error)
	PutUser(ctx context.Context, user domain.User) error
	UpdateUserStatus(ctx context.Context, id string, status domain.Status) error
}

// QuizStore abstracts the quizzes collection.
type QuizStore interface {
	ListQuizzes(ctx context.Context) ([]domain.Quiz, error)
	GetQuiz(ctx context.Context, id string) (domain.Quiz, error)
	PutQuiz(ctx context.Context, quiz domain.Quiz) error
}

// AttemptStore abstracts the attempt log. ListAttempts returns attempts in
// stored insertion order; winner derivation depends on that ordering.
// InsertAttempt must be conditional on the (UserID, QuizID) pair: a duplicate
// insert returns domain.ErrAlreadyAttempted even when two submissions raced
// past the existence pre-check.
type AttemptStore interface {
	ListAttempts(ctx context.Context) ([]domain.Attempt, error)
	ListAttemptsByUser(ctx context.Context, userID string) ([]domain.Attempt, error)
	ListAttemptsByQuiz(ctx context.Context, quizID string) ([]domain.Attempt, error)
	HasAttempt(ctx context.Context, userID, quizID string) (bool, error)
	InsertAttempt(ctx context.Context, attempt domain.Attempt) error
}

// Store is the full document store consumed by the services.
type Store interface {
	UserStore
	QuizStore
	AttemptStore
}
