package app

import (
	"time"

	"quizhub-service/internal/domain"
)

// IsOpen reports whether a quiz still accepts submissions at the given
// instant. A quiz is closed once its IsEnded flag is set, or once its
// deadline (if any) has been reached; the two conditions are independent.
func IsOpen(quiz domain.Quiz, now time.Time) bool {
	if quiz.IsEnded {
		return false
	}
	if quiz.EndTime != nil && !now.Before(*quiz.EndTime) {
		return false
	}
	return true
}
