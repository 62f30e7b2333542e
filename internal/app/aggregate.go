package app

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"quizhub-service/internal/domain"
)

// LeaderboardService derives the global leaderboard and per-quiz winners from
// the raw attempt log. Both views are recomputed from a fresh snapshot on
// every call; there is no cache to invalidate.
type LeaderboardService struct {
	store Store
}

func NewLeaderboardService(store Store) *LeaderboardService {
	return &LeaderboardService{store: store}
}

// Leaderboard fetches the three collections concurrently and computes both views.
func (s *LeaderboardService) Leaderboard(ctx context.Context) (domain.Leaderboard, error) {
	var (
		attempts []domain.Attempt
		users    []domain.User
		quizzes  []domain.Quiz
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		attempts, err = s.store.ListAttempts(gctx)
		return err
	})
	g.Go(func() (err error) {
		users, err = s.store.ListUsers(gctx)
		return err
	})
	g.Go(func() (err error) {
		quizzes, err = s.store.ListQuizzes(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.Leaderboard{}, err
	}

	names := make(map[string]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Name
	}
	titles := make(map[string]string, len(quizzes))
	for _, q := range quizzes {
		titles[q.ID] = q.Title
	}

	return domain.Leaderboard{
		Global:      globalRanking(attempts, names),
		QuizWinners: quizWinners(attempts, names, titles),
	}, nil
}

// globalRanking groups attempts per user and orders by total score
// descending. Ties break by fewer games played, then by user id, so the
// ordering is deterministic across runs.
func globalRanking(attempts []domain.Attempt, names map[string]string) []domain.LeaderboardEntry {
	stats := make(map[string]*domain.LeaderboardEntry)
	order := make([]string, 0)

	for _, a := range attempts {
		entry, ok := stats[a.UserID]
		if !ok {
			name, found := names[a.UserID]
			if !found {
				name = "Unknown"
			}
			entry = &domain.LeaderboardEntry{UserID: a.UserID, UserName: name}
			stats[a.UserID] = entry
			order = append(order, a.UserID)
		}
		entry.TotalScore += a.Score
		entry.GamesPlayed++
	}

	ranking := make([]domain.LeaderboardEntry, 0, len(order))
	for _, userID := range order {
		ranking = append(ranking, *stats[userID])
	}
	sort.Slice(ranking, func(i, j int) bool {
		if ranking[i].TotalScore != ranking[j].TotalScore {
			return ranking[i].TotalScore > ranking[j].TotalScore
		}
		if ranking[i].GamesPlayed != ranking[j].GamesPlayed {
			return ranking[i].GamesPlayed < ranking[j].GamesPlayed
		}
		return ranking[i].UserID < ranking[j].UserID
	})
	return ranking
}

// quizWinners keeps, per quiz, the first attempt seen at the maximum score.
// The scan runs in stored insertion order and a leader is replaced only on a
// strictly greater score, never on a tie.
func quizWinners(attempts []domain.Attempt, names, titles map[string]string) []domain.QuizWinner {
	winners := make(map[string]domain.QuizWinner)
	order := make([]string, 0)

	for _, a := range attempts {
		current, ok := winners[a.QuizID]
		if ok && a.Score <= current.Score {
			continue
		}
		if !ok {
			order = append(order, a.QuizID)
		}

		title, found := titles[a.QuizID]
		if !found {
			title = "Unknown Quiz"
		}
		name, found := names[a.UserID]
		if !found {
			name = "Unknown User"
		}
		winners[a.QuizID] = domain.QuizWinner{
			QuizID:         a.QuizID,
			QuizTitle:      title,
			WinnerName:     name,
			Score:          a.Score,
			TotalQuestions: a.TotalQuestions,
		}
	}

	results := make([]domain.QuizWinner, 0, len(order))
	for _, quizID := range order {
		results = append(results, winners[quizID])
	}
	return results
}
