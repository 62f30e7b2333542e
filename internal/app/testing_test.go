package app_test

import (
	"context"
	"fmt"
	"time"

	"quizhub-service/internal/app"
	"quizhub-service/internal/domain"
	"quizhub-service/internal/infra/memory"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// newTestStore seeds a store with one admin, two students (one banned) and
// three quizzes: an open one, one flagged ended, and one past its deadline.
func newTestStore() *memory.Store {
	store := memory.NewStore()
	ctx := context.Background()

	_ = store.PutUser(ctx, domain.User{ID: "admin-1", Name: "Ada", Email: "ada@example.com", Role: domain.RoleAdmin, Status: domain.StatusActive})
	_ = store.PutUser(ctx, domain.User{ID: "student-1", Name: "Sam", Email: "sam@example.com", Role: domain.RoleStudent, Status: domain.StatusActive})
	_ = store.PutUser(ctx, domain.User{ID: "student-2", Name: "Bea", Email: "bea@example.com", Role: domain.RoleStudent, Status: domain.StatusActive})
	_ = store.PutUser(ctx, domain.User{ID: "banned-1", Name: "Mal", Email: "mal@example.com", Role: domain.RoleStudent, Status: domain.StatusBanned})

	_ = store.PutQuiz(ctx, sampleQuiz("quiz-open", "Capitals"))

	ended := sampleQuiz("quiz-ended", "Rivers")
	ended.IsEnded = true
	_ = store.PutQuiz(ctx, ended)

	past := sampleQuiz("quiz-past", "Mountains")
	deadline := testNow.Add(-time.Hour)
	past.EndTime = &deadline
	_ = store.PutQuiz(ctx, past)

	return store
}

func sampleQuiz(id, title string) domain.Quiz {
	return domain.Quiz{
		ID:        id,
		Title:     title,
		CreatedBy: "admin-1",
		Questions: []domain.Question{
			{ID: "q1", Text: "Capital of France?", Options: []string{"Paris", "Rome", "Berlin", "Madrid"}, CorrectOptionIndex: 0},
			{ID: "q2", Text: "Capital of Italy?", Options: []string{"Paris", "Rome", "Berlin", "Madrid"}, CorrectOptionIndex: 1},
			{ID: "q3", Text: "Capital of Germany?", Options: []string{"Paris", "Rome", "Berlin", "Madrid"}, CorrectOptionIndex: 2},
		},
	}
}

func newTestAttemptService(store *memory.Store) *app.AttemptService {
	var counter int
	return app.NewAttemptServiceWithClock(store,
		func() time.Time { return testNow },
		func() string { counter++; return fmt.Sprintf("attempt-%d", counter) },
	)
}
