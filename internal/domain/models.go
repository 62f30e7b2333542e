package domain

import "time"

// Role classifies what a user account is allowed to do.
type Role string

const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

// Valid reports whether the role is one of the known variants.
func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleAdmin
}

// Status is the moderation state of a user account.
type Status string

const (
	StatusActive Status = "active"
	StatusBanned Status = "banned"
)

func (s Status) Valid() bool {
	return s == StatusActive || s == StatusBanned
}

// User is a registered account. PasswordHash is a bcrypt digest and is
// stripped before the record crosses the HTTP boundary.
type User struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"password,omitempty"`
	Role         Role   `json:"role"`
	Status       Status `json:"status"`
}

// Sanitized returns a copy safe to hand to clients.
func (u User) Sanitized() User {
	u.PasswordHash = ""
	return u
}

// Question is an MCQ question owned by its parent quiz.
type Question struct {
	ID                 string   `json:"id"`
	Text               string   `json:"text"`
	Options            []string `json:"options"`
	CorrectOptionIndex int      `json:"correctOptionIndex"`
}

// Quiz is an ordered set of questions authored by an admin.
// A nil EndTime means the quiz has no deadline.
type Quiz struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	CreatedBy   string     `json:"createdBy"`
	Questions   []Question `json:"questions"`
	EndTime     *time.Time `json:"endTime,omitempty"`
	IsEnded     bool       `json:"isEnded"`
}

// Attempt records one student's scored submission for one quiz.
// At most one attempt exists per (UserID, QuizID); attempts are immutable.
type Attempt struct {
	ID             string    `json:"id"`
	UserID         string    `json:"userId"`
	QuizID         string    `json:"quizId"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"totalQuestions"`
	Timestamp      time.Time `json:"timestamp"`
}

// UserAttempt is an attempt enriched with its quiz title for per-user listings.
type UserAttempt struct {
	Attempt
	QuizTitle string `json:"quizTitle"`
}

// QuizAttempt is an attempt enriched with the submitter's name for per-quiz listings.
type QuizAttempt struct {
	Attempt
	UserName string `json:"userName"`
}

// LeaderboardEntry is one row of the global leaderboard.
type LeaderboardEntry struct {
	UserID      string `json:"userId"`
	UserName    string `json:"userName"`
	TotalScore  int    `json:"totalScore"`
	GamesPlayed int    `json:"gamesPlayed"`
}

// QuizWinner is the highest scorer of a single quiz. On tied scores the
// earliest stored attempt keeps the spot.
type QuizWinner struct {
	QuizID         string `json:"quizId"`
	QuizTitle      string `json:"quizTitle"`
	WinnerName     string `json:"winnerName"`
	Score          int    `json:"score"`
	TotalQuestions int    `json:"totalQuestions"`
}

// Leaderboard bundles both derived views returned by the leaderboard endpoint.
type Leaderboard struct {
	Global      []LeaderboardEntry `json:"global"`
	QuizWinners []QuizWinner       `json:"quizWinners"`
}
