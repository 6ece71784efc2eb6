package score

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/kyrelis/orbrush/internal/config"
	"github.com/kyrelis/orbrush/internal/events"
	"github.com/kyrelis/orbrush/internal/game/combat"
	"github.com/kyrelis/orbrush/internal/model"
)

// channel is one deposit in progress.
type channel struct {
	hero     *model.Hero
	required float64
	elapsed  float64
}

// Tracker owns all in-progress orb deposits for a match. The required
// channel time is fixed when the deposit starts (ally count and speed
// factors sampled then); interruption cancels the deposit but the hero
// keeps the carried orbs.
type Tracker struct {
	formulas *combat.Formulas
	bal      *config.Balance
	board    *Scoreboard
	hub      *events.Hub

	mu     sync.Mutex
	active map[uint32]*channel
}

// NewTracker creates a deposit tracker over the match scoreboard.
func NewTracker(formulas *combat.Formulas, bal *config.Balance, board *Scoreboard, hub *events.Hub) *Tracker {
	return &Tracker{
		formulas: formulas,
		bal:      bal,
		board:    board,
		hub:      hub,
		active:   make(map[uint32]*channel),
	}
}

// Begin starts a deposit for the hero. nearbyAllies and speedFactors are
// sampled by the caller (zone collaborator) at channel start.
func (t *Tracker) Begin(hero *model.Hero, nearbyAllies int, speedFactors []float64) error {
	if hero.IsDead() {
		return fmt.Errorf("hero %d cannot deposit while dead", hero.ID())
	}
	if hero.Orbs() == 0 {
		return fmt.Errorf("hero %d has no orbs to deposit", hero.ID())
	}

	required, err := t.formulas.DepositTime(nearbyAllies, speedFactors)
	if err != nil {
		return fmt.Errorf("computing channel time: %w", err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if _, exists := t.active[hero.ID()]; exists {
		return fmt.Errorf("hero %d is already channeling", hero.ID())
	}
	t.active[hero.ID()] = &channel{hero: hero, required: required}

	slog.Debug("deposit channel started",
		"hero", hero.ID(),
		"orbs", hero.Orbs(),
		"required", required,
		"allies", nearbyAllies)
	return nil
}

// Cancel aborts a hero's deposit (moved, took damage, died). The orbs stay
// carried; only the channel progress is lost.
func (t *Tracker) Cancel(heroID uint32) {
	t.mu.Lock()
	_, existed := t.active[heroID]
	delete(t.active, heroID)
	t.mu.Unlock()

	if existed {
		slog.Debug("deposit channel cancelled", "hero", heroID)
	}
}

// Progress returns a hero's channel completion in [0, 1].
func (t *Tracker) Progress(heroID uint32) (float64, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	ch, ok := t.active[heroID]
	if !ok {
		return 0, false
	}
	if ch.required <= 0 {
		return 1, true
	}
	return min(ch.elapsed/ch.required, 1), true
}

// Tick advances all channels. Completed deposits convert carried orbs to
// team score, award ultimate energy, and publish a score event.
func (t *Tracker) Tick(dt float64, tick uint64) {
	t.mu.Lock()
	var done []*channel
	for id, ch := range t.active {
		ch.elapsed += dt
		if ch.elapsed >= ch.required {
			done = append(done, ch)
			delete(t.active, id)
		}
	}
	t.mu.Unlock()

	for _, ch := range done {
		orbs := ch.hero.TakeOrbs()
		if orbs == 0 {
			continue
		}
		t.board.Add(ch.hero.Team(), orbs)
		ch.hero.AddEnergy(t.bal.EnergyPerOrb * float64(orbs))

		t.hub.Score.Publish(events.ScoreDeposit{
			HeroID: ch.hero.ID(),
			Team:   ch.hero.Team(),
			Orbs:   orbs,
			Tick:   tick,
		})
	}
}
