package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"quizhub-service/internal/domain"
)

// Store keeps each record as a JSON value under a typed key and maintains a
// per-collection id list so full scans come back in insertion order.
//
// Keys:
//
//	user:{id}                     user record JSON
//	users:ids                     list of user ids (insertion order)
//	users:by-email                hash email -> user id
//	quiz:{id}                     quiz record JSON
//	quizzes:ids                   list of quiz ids
//	attempt:{userId}:{quizId}     attempt record JSON (deterministic key)
//	attempts:log                  list of attempt keys
//
// The attempt key is derived from the (user, quiz) pair and written with
// SETNX, so the store itself enforces at-most-one attempt per pair; the
// check-then-write sequence in the service is only a fast path.
type Store struct {
	client *redis.Client
}

func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

func userKey(id string) string    { return "user:" + id }
func quizKey(id string) string    { return "quiz:" + id }
func attemptKey(userID, quizID string) string {
	return "attempt:" + userID + ":" + quizID
}

const (
	userIndexKey    = "users:ids"
	emailIndexKey   = "users:by-email"
	quizIndexKey    = "quizzes:ids"
	attemptIndexKey = "attempts:log"
)

// ---- users ----

func (s *Store) ListUsers(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	err := s.listCollection(ctx, userIndexKey, userKey, func(raw []byte) error {
		var u domain.User
		if err := json.Unmarshal(raw, &u); err != nil {
			return err
		}
		users = append(users, u)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *Store) GetUser(ctx context.Context, id string) (domain.User, error) {
	raw, err := s.client.Get(ctx, userKey(id)).Bytes()
	if err == redis.Nil {
		return domain.User{}, domain.ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("get user: %w", err)
	}
	var user domain.User
	if err := json.Unmarshal(raw, &user); err != nil {
		return domain.User{}, fmt.Errorf("decode user: %w", err)
	}
	return user, nil
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (domain.User, error) {
	id, err := s.client.HGet(ctx, emailIndexKey, email).Result()
	if err == redis.Nil {
		return domain.User{}, domain.ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("lookup email: %w", err)
	}
	return s.GetUser(ctx, id)
}

func (s *Store) PutUser(ctx context.Context, user domain.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}

	existed, err := s.client.Exists(ctx, userKey(user.ID)).Result()
	if err != nil {
		return fmt.Errorf("put user: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, userKey(user.ID), raw, 0)
	pipe.HSet(ctx, emailIndexKey, user.Email, user.ID)
	if existed == 0 {
		pipe.RPush(ctx, userIndexKey, user.ID)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("put user: %w", err)
	}
	return nil
}

func (s *Store) UpdateUserStatus(ctx context.Context, id string, status domain.Status) error {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return err
	}
	user.Status = status
	return s.PutUser(ctx, user)
}

// ---- quizzes ----

func (s *Store) ListQuizzes(ctx context.Context) ([]domain.Quiz, error) {
	var quizzes []domain.Quiz
	err := s.listCollection(ctx, quizIndexKey, quizKey, func(raw []byte) error {
		var q domain.Quiz
		if err := json.Unmarshal(raw, &q); err != nil {
			return err
		}
		quizzes = append(quizzes, q)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	return quizzes, nil
}

func (s *Store) GetQuiz(ctx context.Context, id string) (domain.Quiz, error) {
	raw, err := s.client.Get(ctx, quizKey(id)).Bytes()
	if err == redis.Nil {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("get quiz: %w", err)
	}
	var quiz domain.Quiz
	if err := json.Unmarshal(raw, &quiz); err != nil {
		return domain.Quiz{}, fmt.Errorf("decode quiz: %w", err)
	}
	return quiz, nil
}

func (s *Store) PutQuiz(ctx context.Context, quiz domain.Quiz) error {
	raw, err := json.Marshal(quiz)
	if err != nil {
		return fmt.Errorf("encode quiz: %w", err)
	}

	existed, err := s.client.Exists(ctx, quizKey(quiz.ID)).Result()
	if err != nil {
		return fmt.Errorf("put quiz: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, quizKey(quiz.ID), raw, 0)
	if existed == 0 {
		pipe.RPush(ctx, quizIndexKey, quiz.ID)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("put quiz: %w", err)
	}
	return nil
}

// ---- attempts ----

func (s *Store) ListAttempts(ctx context.Context) ([]domain.Attempt, error) {
	keys, err := s.client.LRange(ctx, attemptIndexKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	return s.fetchAttempts(ctx, keys)
}

func (s *Store) ListAttemptsByUser(ctx context.Context, userID string) ([]domain.Attempt, error) {
	attempts, err := s.ListAttempts(ctx)
	if err != nil {
		return nil, err
	}
	var out []domain.Attempt
	for _, a := range attempts {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *Store) ListAttemptsByQuiz(ctx context.Context, quizID string) ([]domain.Attempt, error) {
	attempts, err := s.ListAttempts(ctx)
	if err != nil {
		return nil, err
	}
	var out []domain.Attempt
	for _, a := range attempts {
		if a.QuizID == quizID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *Store) HasAttempt(ctx context.Context, userID, quizID string) (bool, error) {
	n, err := s.client.Exists(ctx, attemptKey(userID, quizID)).Result()
	if err != nil {
		return false, fmt.Errorf("check attempt: %w", err)
	}
	return n > 0, nil
}

// InsertAttempt writes the record with SETNX under its deterministic key.
// The second of two racing submissions sees the key already set and fails
// with ErrAlreadyAttempted without touching the log.
func (s *Store) InsertAttempt(ctx context.Context, attempt domain.Attempt) error {
	raw, err := json.Marshal(attempt)
	if err != nil {
		return fmt.Errorf("encode attempt: %w", err)
	}

	key := attemptKey(attempt.UserID, attempt.QuizID)
	set, err := s.client.SetNX(ctx, key, raw, 0).Result()
	if err != nil {
		return fmt.Errorf("insert attempt: %w", err)
	}
	if !set {
		return domain.ErrAlreadyAttempted
	}
	if err := s.client.RPush(ctx, attemptIndexKey, key).Err(); err != nil {
		return fmt.Errorf("index attempt: %w", err)
	}
	return nil
}

func (s *Store) fetchAttempts(ctx context.Context, keys []string) ([]domain.Attempt, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("fetch attempts: %w", err)
	}
	attempts := make([]domain.Attempt, 0, len(values))
	for _, v := range values {
		str, ok := v.(string)
		if !ok {
			continue // key vanished between LRANGE and MGET
		}
		var a domain.Attempt
		if err := json.Unmarshal([]byte(str), &a); err != nil {
			return nil, fmt.Errorf("decode attempt: %w", err)
		}
		attempts = append(attempts, a)
	}
	return attempts, nil
}

func (s *Store) listCollection(ctx context.Context, indexKey string, keyFn func(string) string, decode func([]byte) error) error {
	ids, err := s.client.LRange(ctx, indexKey, 0, -1).Result()
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = keyFn(id)
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return err
	}
	for _, v := range values {
		str, ok := v.(string)
		if !ok {
			continue
		}
		if err := decode([]byte(str)); err != nil {
			return err
		}
	}
	return nil
}
