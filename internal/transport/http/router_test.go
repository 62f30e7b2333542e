package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"quizhub-service/internal/app"
	"quizhub-service/internal/auth"
	"quizhub-service/internal/domain"
	"quizhub-service/internal/infra/memory"
)

func newTestServer(t *testing.T) (*httptest.Server, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	ctx := context.Background()

	_ = store.PutUser(ctx, domain.User{ID: "admin-1", Name: "Ada", Email: "ada@example.com", Role: domain.RoleAdmin, Status: domain.StatusActive})
	_ = store.PutUser(ctx, domain.User{ID: "student-1", Name: "Sam", Email: "sam@example.com", Role: domain.RoleStudent, Status: domain.StatusActive})
	_ = store.PutQuiz(ctx, domain.Quiz{
		ID: "quiz-1", Title: "Capitals", CreatedBy: "admin-1",
		Questions: []domain.Question{
			{ID: "q1", Text: "Capital of France?", Options: []string{"Paris", "Rome"}, CorrectOptionIndex: 0},
			{ID: "q2", Text: "Capital of Italy?", Options: []string{"Paris", "Rome"}, CorrectOptionIndex: 1},
			{ID: "q3", Text: "2+2?", Options: []string{"3", "4"}, CorrectOptionIndex: 1},
		},
	})

	tokens := auth.NewService("test-secret", time.Hour)
	handler := NewRouter(
		NewAttemptHandler(app.NewAttemptService(store), app.NewLeaderboardService(store)),
		NewQuizHandler(app.NewQuizService(store)),
		NewUserHandler(app.NewUserService(store, tokens)),
	)
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server, store
}

func postJSON(t *testing.T, url string, payload interface{}) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("post %s: %v", url, err)
	}
	return resp
}

func putJSON(t *testing.T, url string, payload interface{}) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req, err := http.NewRequest(http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("put %s: %v", url, err)
	}
	return resp
}

func TestSubmitAttemptStatusCodes(t *testing.T) {
	server, _ := newTestServer(t)

	// Happy path first; the duplicate below depends on it.
	resp := postJSON(t, server.URL+"/api/attempts", map[string]interface{}{
		"userId": "student-1", "quizId": "quiz-1", "score": 2, "totalQuestions": 3,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("submit: expected 200, got %d", resp.StatusCode)
	}
	var attempt domain.Attempt
	if err := json.NewDecoder(resp.Body).Decode(&attempt); err != nil {
		t.Fatalf("decode attempt: %v", err)
	}
	resp.Body.Close()
	if attempt.Score != 2 || attempt.TotalQuestions != 3 {
		t.Fatalf("unexpected attempt payload: %+v", attempt)
	}

	tests := []struct {
		name    string
		payload map[string]interface{}
		want    int
	}{
		{"duplicate attempt", map[string]interface{}{"userId": "student-1", "quizId": "quiz-1", "score": 1, "totalQuestions": 3}, http.StatusBadRequest},
		{"admin submitter", map[string]interface{}{"userId": "admin-1", "quizId": "quiz-1", "score": 1, "totalQuestions": 3}, http.StatusForbidden},
		{"unknown quiz", map[string]interface{}{"userId": "student-1", "quizId": "nope", "score": 1, "totalQuestions": 3}, http.StatusNotFound},
		{"bad score shape", map[string]interface{}{"userId": "student-1", "quizId": "quiz-1", "score": 9, "totalQuestions": 3}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postJSON(t, server.URL+"/api/attempts", tt.payload)
			resp.Body.Close()
			if resp.StatusCode != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, resp.StatusCode)
			}
		})
	}
}

func TestSubmitToEndedQuizReturns403(t *testing.T) {
	server, store := newTestServer(t)

	quiz, _ := store.GetQuiz(context.Background(), "quiz-1")
	quiz.IsEnded = true
	_ = store.PutQuiz(context.Background(), quiz)

	resp := postJSON(t, server.URL+"/api/attempts", map[string]interface{}{
		"userId": "student-1", "quizId": "quiz-1", "score": 1, "totalQuestions": 3,
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for ended quiz, got %d", resp.StatusCode)
	}
}

func TestLeaderboardEndpointShape(t *testing.T) {
	server, store := newTestServer(t)
	ctx := context.Background()

	_ = store.InsertAttempt(ctx, domain.Attempt{ID: "a1", UserID: "student-1", QuizID: "quiz-1", Score: 2, TotalQuestions: 3, Timestamp: time.Now()})

	resp, err := http.Get(server.URL + "/api/leaderboard")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var lb domain.Leaderboard
	if err := json.NewDecoder(resp.Body).Decode(&lb); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(lb.Global) != 1 || lb.Global[0].UserName != "Sam" || lb.Global[0].TotalScore != 2 {
		t.Fatalf("unexpected global view: %+v", lb.Global)
	}
	if len(lb.QuizWinners) != 1 || lb.QuizWinners[0].QuizTitle != "Capitals" {
		t.Fatalf("unexpected winners view: %+v", lb.QuizWinners)
	}
}

func TestQuizCreateAndUpdateGated(t *testing.T) {
	server, _ := newTestServer(t)

	quizPayload := map[string]interface{}{
		"title": "New quiz", "description": "d", "createdBy": "student-1",
		"questions": []map[string]interface{}{
			{"text": "Q?", "options": []string{"a", "b"}, "correctOptionIndex": 0},
		},
	}
	resp := postJSON(t, server.URL+"/api/quizzes", quizPayload)
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("student create: expected 403, got %d", resp.StatusCode)
	}

	quizPayload["createdBy"] = "admin-1"
	resp = postJSON(t, server.URL+"/api/quizzes", quizPayload)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("admin create: expected 200, got %d", resp.StatusCode)
	}
	var created domain.Quiz
	_ = json.NewDecoder(resp.Body).Decode(&created)
	resp.Body.Close()

	resp = putJSON(t, server.URL+"/api/quizzes/"+created.ID, map[string]interface{}{
		"createdBy": "admin-1", "isEnded": true,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update: expected 200, got %d", resp.StatusCode)
	}
	var updated domain.Quiz
	_ = json.NewDecoder(resp.Body).Decode(&updated)
	resp.Body.Close()
	if !updated.IsEnded || updated.Title != "New quiz" {
		t.Fatalf("partial merge broken: %+v", updated)
	}

	resp = putJSON(t, server.URL+"/api/quizzes/does-not-exist", map[string]interface{}{"createdBy": "admin-1"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown quiz update: expected 404, got %d", resp.StatusCode)
	}
}

func TestUserStatusUpdateGated(t *testing.T) {
	server, store := newTestServer(t)

	resp := putJSON(t, server.URL+"/api/users", map[string]interface{}{
		"adminId": "student-1", "userId": "student-1", "status": "banned",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("non-admin: expected 403, got %d", resp.StatusCode)
	}

	resp = putJSON(t, server.URL+"/api/users", map[string]interface{}{
		"adminId": "admin-1", "userId": "student-1", "status": "banned",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("admin: expected 200, got %d", resp.StatusCode)
	}

	banned, _ := store.GetUser(context.Background(), "student-1")
	if banned.Status != domain.StatusBanned {
		t.Fatalf("ban not applied: %+v", banned)
	}

	// The freshly banned student is now rejected on submission.
	resp = postJSON(t, server.URL+"/api/attempts", map[string]interface{}{
		"userId": "student-1", "quizId": "quiz-1", "score": 1, "totalQuestions": 3,
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("banned submit: expected 403, got %d", resp.StatusCode)
	}
}

func TestRegisterAndLoginFlow(t *testing.T) {
	server, _ := newTestServer(t)

	resp := postJSON(t, server.URL+"/api/auth/register", map[string]string{
		"name": "Niko", "email": "niko@example.com", "password": "hunter2",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("register: expected 200, got %d", resp.StatusCode)
	}
	var user domain.User
	_ = json.NewDecoder(resp.Body).Decode(&user)
	resp.Body.Close()
	if user.Role != domain.RoleStudent {
		t.Fatalf("expected student role, got %q", user.Role)
	}

	resp = postJSON(t, server.URL+"/api/auth/register", map[string]string{
		"name": "Niko2", "email": "niko@example.com", "password": "hunter3",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("duplicate email: expected 409, got %d", resp.StatusCode)
	}

	resp = postJSON(t, server.URL+"/api/auth/login", map[string]string{
		"email": "niko@example.com", "password": "hunter2",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login: expected 200, got %d", resp.StatusCode)
	}
	var login struct {
		Token string      `json:"token"`
		User  domain.User `json:"user"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&login)
	resp.Body.Close()
	if login.Token == "" {
		t.Fatal("expected a token in the login response")
	}

	resp = postJSON(t, server.URL+"/api/auth/login", map[string]string{
		"email": "niko@example.com", "password": "wrong",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("bad login: expected 401, got %d", resp.StatusCode)
	}
}

func TestUserAttemptHistory(t *testing.T) {
	server, store := newTestServer(t)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	_ = store.InsertAttempt(ctx, domain.Attempt{ID: "a1", UserID: "student-1", QuizID: "quiz-1", Score: 2, TotalQuestions: 3, Timestamp: base})
	_ = store.InsertAttempt(ctx, domain.Attempt{ID: "a2", UserID: "student-1", QuizID: "other", Score: 1, TotalQuestions: 3, Timestamp: base.Add(time.Hour)})

	resp, err := http.Get(server.URL + "/api/attempts/student-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	var attempts []domain.UserAttempt
	if err := json.NewDecoder(resp.Body).Decode(&attempts); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(attempts) != 2 {
		t.Fatalf("expected 2 attempts, got %d", len(attempts))
	}
	if attempts[0].ID != "a2" {
		t.Fatalf("expected newest first, got %s", attempts[0].ID)
	}
	if attempts[0].QuizTitle != "Unknown" || attempts[1].QuizTitle != "Capitals" {
		t.Fatalf("titles wrong: %q, %q", attempts[0].QuizTitle, attempts[1].QuizTitle)
	}
}
