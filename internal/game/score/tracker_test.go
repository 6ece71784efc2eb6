package score

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kyrelis/orbrush/internal/config"
	"github.com/kyrelis/orbrush/internal/events"
	"github.com/kyrelis/orbrush/internal/game/combat"
	"github.com/kyrelis/orbrush/internal/model"
)

func carrier(id uint32, team model.TeamID, orbs int32) *model.Hero {
	h := model.NewHero(model.HeroParams{
		ID:        id,
		HeroID:    "Striker",
		Team:      team,
		Level:     1,
		MaxHP:     850,
		EnergyCap: 100,
		MoveSpeed: 6.5,
	})
	h.AddOrbs(orbs)
	return h
}

func newTestTracker() (*Tracker, *Scoreboard, *events.Hub) {
	bal := config.DefaultBalance()
	board := NewScoreboard()
	hub := events.NewHub()
	return NewTracker(combat.NewFormulas(&bal), &bal, board, hub), board, hub
}

func TestDepositCompletesAfterChannelTime(t *testing.T) {
	tr, board, hub := newTestTracker()
	hero := carrier(1, 1, 2)

	var got []events.ScoreDeposit
	hub.Score.Subscribe(func(ev events.ScoreDeposit) { got = append(got, ev) })

	require.NoError(t, tr.Begin(hero, 0, nil))

	// Solo channel: the full 4.0s base time.
	for i := 0; i < 199; i++ {
		tr.Tick(0.02, uint64(i))
	}
	assert.Equal(t, int32(0), board.Total(1), "channel not finished yet")
	assert.Equal(t, int32(2), hero.Orbs())

	tr.Tick(0.02, 200)
	assert.Equal(t, int32(2), board.Total(1))
	assert.Equal(t, int32(0), hero.Orbs())

	bal := config.DefaultBalance()
	assert.InDelta(t, bal.EnergyPerOrb*2, hero.Energy(), 1e-9)

	require.Len(t, got, 1)
	assert.Equal(t, uint32(1), got[0].HeroID)
	assert.Equal(t, int32(2), got[0].Orbs)
	assert.Equal(t, uint64(200), got[0].Tick)
}

func TestDepositSynergyShortensChannel(t *testing.T) {
	tr, board, _ := newTestTracker()
	hero := carrier(1, 1, 1)

	// One nearby ally: 4.0 * 0.70 = 2.8s.
	require.NoError(t, tr.Begin(hero, 1, nil))
	for i := 0; i < 140; i++ {
		tr.Tick(0.02, uint64(i))
	}
	assert.Equal(t, int32(1), board.Total(1))
}

func TestDepositCancelKeepsOrbs(t *testing.T) {
	tr, board, _ := newTestTracker()
	hero := carrier(1, 1, 3)

	require.NoError(t, tr.Begin(hero, 0, nil))
	tr.Tick(1.0, 1)
	tr.Cancel(hero.ID())
	tr.Tick(10.0, 2)

	assert.Equal(t, int32(0), board.Total(1))
	assert.Equal(t, int32(3), hero.Orbs(), "interrupted deposit keeps the carried orbs")

	// Progress starts over on the next attempt.
	require.NoError(t, tr.Begin(hero, 0, nil))
	p, ok := tr.Progress(hero.ID())
	require.True(t, ok)
	assert.Equal(t, 0.0, p)
}

func TestBeginPreconditions(t *testing.T) {
	tr, _, _ := newTestTracker()

	empty := carrier(1, 1, 0)
	assert.Error(t, tr.Begin(empty, 0, nil), "no orbs to deposit")

	dead := carrier(2, 1, 2)
	dead.ReduceHP(9999)
	assert.Error(t, tr.Begin(dead, 0, nil))

	hero := carrier(3, 1, 2)
	require.NoError(t, tr.Begin(hero, 0, nil))
	assert.Error(t, tr.Begin(hero, 0, nil), "already channeling")
}

func TestProgressReporting(t *testing.T) {
	tr, _, _ := newTestTracker()
	hero := carrier(1, 1, 1)

	_, ok := tr.Progress(hero.ID())
	assert.False(t, ok)

	require.NoError(t, tr.Begin(hero, 0, nil))
	tr.Tick(2.0, 1)
	p, ok := tr.Progress(hero.ID())
	require.True(t, ok)
	assert.InDelta(t, 0.5, p, 1e-9)
}

func TestScoreboardIgnoresNonPositive(t *testing.T) {
	board := NewScoreboard()
	board.Add(1, 5)
	board.Add(1, 0)
	board.Add(1, -3)
	assert.Equal(t, int32(5), board.Total(1))
	assert.Equal(t, int32(0), board.Total(2))
}
