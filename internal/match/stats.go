package match

import (
	"sync"

	"github.com/kyrelis/orbrush/internal/events"
)

// HeroStats is one hero's running tally for the current match.
type HeroStats struct {
	HeroID        uint32
	Kills         int32
	Deaths        int32
	OrbsDeposited int32
}

// StatsCollector accumulates kill, death, and deposit tallies from the match
// event hub. Close it before reading the final snapshot for persistence.
type StatsCollector struct {
	mu    sync.Mutex
	stats map[uint32]*HeroStats

	unsubKill  func()
	unsubScore func()
}

// NewStatsCollector subscribes to the hub and starts collecting.
func NewStatsCollector(hub *events.Hub) *StatsCollector {
	c := &StatsCollector{stats: make(map[uint32]*HeroStats)}
	c.unsubKill = hub.Kill.Subscribe(c.onKill)
	c.unsubScore = hub.Score.Subscribe(c.onScore)
	return c
}

// Close detaches the collector from the hub.
func (c *StatsCollector) Close() {
	c.unsubKill()
	c.unsubScore()
}

func (c *StatsCollector) onKill(ev events.Kill) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ev.KillerID != 0 {
		c.entry(ev.KillerID).Kills++
	}
	c.entry(ev.VictimID).Deaths++
}

func (c *StatsCollector) onScore(ev events.ScoreDeposit) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entry(ev.HeroID).OrbsDeposited += ev.Orbs
}

func (c *StatsCollector) entry(heroID uint32) *HeroStats {
	s, ok := c.stats[heroID]
	if !ok {
		s = &HeroStats{HeroID: heroID}
		c.stats[heroID] = s
	}
	return s
}

// Snapshot returns a copy of all tallies.
func (c *StatsCollector) Snapshot() []HeroStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]HeroStats, 0, len(c.stats))
	for _, s := range c.stats {
		out = append(out, *s)
	}
	return out
}
