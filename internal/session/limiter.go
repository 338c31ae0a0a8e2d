package session

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const maxTrackedUsers = 1024

// userLimiter throttles repeats of the same command by one user. A nil
// limiter allows everything.
type userLimiter struct {
	every rate.Limit

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

func newUserLimiter(cooldown time.Duration) *userLimiter {
	if cooldown <= 0 {
		return nil
	}
	return &userLimiter{
		every:    rate.Every(cooldown),
		limiters: make(map[string]*rate.Limiter),
	}
}

func (l *userLimiter) Allow(userID, command string) bool {
	if l == nil {
		return true
	}
	key := userID + ":" + command
	l.mu.Lock()
	defer l.mu.Unlock()
	lim, ok := l.limiters[key]
	if !ok {
		if len(l.limiters) >= maxTrackedUsers {
			l.prune()
		}
		lim = rate.NewLimiter(l.every, 1)
		l.limiters[key] = lim
	}
	return lim.Allow()
}

// prune drops limiters that have fully refilled and so behave like new ones.
func (l *userLimiter) prune() {
	for key, lim := range l.limiters {
		if lim.Tokens() >= 1 {
			delete(l.limiters, key)
		}
	}
}
