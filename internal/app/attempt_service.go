package app

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"quizhub-service/internal/domain"
)

// SubmitAttemptInput carries one submission. When Answers is non-nil it holds
// the selected option index per question, in quiz order, and the service
// recomputes the score from the quiz's answer key, ignoring Score. When
// Answers is nil the client-reported Score is accepted after bounds checks.
type SubmitAttemptInput struct {
	UserID         string
	QuizID         string
	Score          int
	TotalQuestions int
	Answers        []int
}

// AttemptService enforces submission eligibility and owns the attempt read paths.
type AttemptService struct {
	store Store
	gate  *Gate
	now   func() time.Time
	newID func() string
}

func NewAttemptService(store Store) *AttemptService {
	return &AttemptService{
		store: store,
		gate:  NewGate(store),
		now:   time.Now,
		newID: func() string { return uuid.NewString() },
	}
}

// NewAttemptServiceWithClock is test-only for deterministic timestamps and ids.
func NewAttemptServiceWithClock(store Store, now func() time.Time, newID func() string) *AttemptService {
	s := NewAttemptService(store)
	if now != nil {
		s.now = now
	}
	if newID != nil {
		s.newID = newID
	}
	return s
}

// Submit runs the eligibility sequence and persists a new attempt. Each step
// short-circuits with its own sentinel; nothing is written on failure.
func (s *AttemptService) Submit(ctx context.Context, input SubmitAttemptInput) (domain.Attempt, error) {
	if input.UserID == "" || input.QuizID == "" {
		return domain.Attempt{}, fmt.Errorf("%w: userId and quizId are required", domain.ErrValidation)
	}

	// Only active students may submit.
	if !s.gate.VerifyActiveRole(ctx, input.UserID, domain.RoleStudent) {
		return domain.Attempt{}, domain.ErrUnauthorized
	}

	exists, err := s.store.HasAttempt(ctx, input.UserID, input.QuizID)
	if err != nil {
		return domain.Attempt{}, fmt.Errorf("check existing attempt: %w", err)
	}
	if exists {
		return domain.Attempt{}, domain.ErrAlreadyAttempted
	}

	quiz, err := s.store.GetQuiz(ctx, input.QuizID)
	if err != nil {
		return domain.Attempt{}, err
	}

	if !IsOpen(quiz, s.now()) {
		return domain.Attempt{}, domain.ErrQuizEnded
	}

	score, total, err := resolveScore(quiz, input)
	if err != nil {
		return domain.Attempt{}, err
	}

	attempt := domain.Attempt{
		ID:             s.newID(),
		UserID:         input.UserID,
		QuizID:         input.QuizID,
		Score:          score,
		TotalQuestions: total,
		Timestamp:      s.now(),
	}

	// The store keys attempts by (user, quiz), so a concurrent duplicate that
	// slipped past the pre-check loses here instead of landing twice.
	if err := s.store.InsertAttempt(ctx, attempt); err != nil {
		return domain.Attempt{}, err
	}
	return attempt, nil
}

// resolveScore recomputes the score from the answer key when option choices
// were submitted, and otherwise validates the client-reported values against
// the quiz.
func resolveScore(quiz domain.Quiz, input SubmitAttemptInput) (score, total int, err error) {
	total = len(quiz.Questions)

	if input.Answers != nil {
		if len(input.Answers) != total {
			return 0, 0, fmt.Errorf("%w: expected %d answers, got %d", domain.ErrValidation, total, len(input.Answers))
		}
		for i, q := range quiz.Questions {
			if input.Answers[i] == q.CorrectOptionIndex {
				score++
			}
		}
		return score, total, nil
	}

	if input.TotalQuestions != total {
		return 0, 0, fmt.Errorf("%w: totalQuestions %d does not match quiz question count %d", domain.ErrValidation, input.TotalQuestions, total)
	}
	if input.Score < 0 || input.Score > total {
		return 0, 0, fmt.Errorf("%w: score %d out of range 0..%d", domain.ErrValidation, input.Score, total)
	}
	return input.Score, total, nil
}

// ListAll returns every attempt with the submitter's name attached.
func (s *AttemptService) ListAll(ctx context.Context) ([]domain.QuizAttempt, error) {
	attempts, err := s.store.ListAttempts(ctx)
	if err != nil {
		return nil, err
	}
	names, err := s.userNames(ctx)
	if err != nil {
		return nil, err
	}
	return enrichWithUserNames(attempts, names), nil
}

// ListByUser returns one user's attempts with quiz titles, newest first.
func (s *AttemptService) ListByUser(ctx context.Context, userID string) ([]domain.UserAttempt, error) {
	attempts, err := s.store.ListAttemptsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	quizzes, err := s.store.ListQuizzes(ctx)
	if err != nil {
		return nil, err
	}
	titles := make(map[string]string, len(quizzes))
	for _, q := range quizzes {
		titles[q.ID] = q.Title
	}

	results := make([]domain.UserAttempt, 0, len(attempts))
	for _, a := range attempts {
		title, ok := titles[a.QuizID]
		if !ok {
			title = "Unknown"
		}
		results = append(results, domain.UserAttempt{Attempt: a, QuizTitle: title})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Timestamp.After(results[j].Timestamp)
	})
	return results, nil
}

// ListByQuiz returns one quiz's attempts with user names, newest first.
func (s *AttemptService) ListByQuiz(ctx context.Context, quizID string) ([]domain.QuizAttempt, error) {
	attempts, err := s.store.ListAttemptsByQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	names, err := s.userNames(ctx)
	if err != nil {
		return nil, err
	}
	results := enrichWithUserNames(attempts, names)
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Timestamp.After(results[j].Timestamp)
	})
	return results, nil
}

func (s *AttemptService) userNames(ctx context.Context) (map[string]string, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Name
	}
	return names, nil
}

func enrichWithUserNames(attempts []domain.Attempt, names map[string]string) []domain.QuizAttempt {
	results := make([]domain.QuizAttempt, 0, len(attempts))
	for _, a := range attempts {
		name, ok := names[a.UserID]
		if !ok {
			name = "Unknown User"
		}
		results = append(results, domain.QuizAttempt{Attempt: a, UserName: name})
	}
	return results
}
