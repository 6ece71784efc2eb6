package score

import (
	"sync"

	"github.com/kyrelis/orbrush/internal/model"
)

// Scoreboard tracks deposited team score for one match.
type Scoreboard struct {
	mu     sync.RWMutex
	totals map[model.TeamID]int32
}

// NewScoreboard creates an empty scoreboard.
func NewScoreboard() *Scoreboard {
	return &Scoreboard{totals: make(map[model.TeamID]int32)}
}

// Add credits orbs to a team's total.
func (s *Scoreboard) Add(team model.TeamID, orbs int32) {
	if orbs <= 0 {
		return
	}
	s.mu.Lock()
	s.totals[team] += orbs
	s.mu.Unlock()
}

// Total returns a team's deposited score.
func (s *Scoreboard) Total(team model.TeamID) int32 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.totals[team]
}
