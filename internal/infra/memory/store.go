package memory

import (
	"context"
	"sync"

	"quizhub-service/internal/domain"
)

// Store is an in-memory document store guarding each collection with a
// single mutex. Attempts keep insertion order, which the winner derivation
// relies on. Useful for tests and local development without Redis.
type Store struct {
	mu           sync.RWMutex
	users        map[string]domain.User
	quizzes      map[string]domain.Quiz
	quizOrder    []string
	attempts     []domain.Attempt
	attemptIndex map[string]struct{}
}

func NewStore() *Store {
	return &Store{
		users:        make(map[string]domain.User),
		quizzes:      make(map[string]domain.Quiz),
		attemptIndex: make(map[string]struct{}),
	}
}

func attemptKey(userID, quizID string) string {
	return userID + ":" + quizID
}

// ---- users ----

func (s *Store) ListUsers(_ context.Context) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	users := make([]domain.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u)
	}
	return users, nil
}

func (s *Store) GetUser(_ context.Context, id string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return user, nil
}

func (s *Store) FindUserByEmail(_ context.Context, email string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrUserNotFound
}

func (s *Store) PutUser(_ context.Context, user domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = user
	return nil
}

func (s *Store) UpdateUserStatus(_ context.Context, id string, status domain.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	user.Status = status
	s.users[id] = user
	return nil
}

// ---- quizzes ----

func (s *Store) ListQuizzes(_ context.Context) ([]domain.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	quizzes := make([]domain.Quiz, 0, len(s.quizOrder))
	for _, id := range s.quizOrder {
		quizzes = append(quizzes, s.quizzes[id])
	}
	return quizzes, nil
}

func (s *Store) GetQuiz(_ context.Context, id string) (domain.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	quiz, ok := s.quizzes[id]
	if !ok {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	return quiz, nil
}

func (s *Store) PutQuiz(_ context.Context, quiz domain.Quiz) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.quizzes[quiz.ID]; !ok {
		s.quizOrder = append(s.quizOrder, quiz.ID)
	}
	s.quizzes[quiz.ID] = quiz
	return nil
}

// ---- attempts ----

func (s *Store) ListAttempts(_ context.Context) ([]domain.Attempt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Attempt, len(s.attempts))
	copy(out, s.attempts)
	return out, nil
}

func (s *Store) ListAttemptsByUser(_ context.Context, userID string) ([]domain.Attempt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Attempt
	for _, a := range s.attempts {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *Store) ListAttemptsByQuiz(_ context.Context, quizID string) ([]domain.Attempt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Attempt
	for _, a := range s.attempts {
		if a.QuizID == quizID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *Store) HasAttempt(_ context.Context, userID, quizID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.attemptIndex[attemptKey(userID, quizID)]
	return ok, nil
}

// InsertAttempt is conditional on the (user, quiz) pair: the index check and
// the append happen under one lock, so concurrent duplicates cannot both land.
func (s *Store) InsertAttempt(_ context.Context, attempt domain.Attempt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := attemptKey(attempt.UserID, attempt.QuizID)
	if _, ok := s.attemptIndex[key]; ok {
		return domain.ErrAlreadyAttempted
	}
	s.attemptIndex[key] = struct{}{}
	s.attempts = append(s.attempts, attempt)
	return nil
}
