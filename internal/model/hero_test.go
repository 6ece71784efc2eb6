package model

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHero() *Hero {
	return NewHero(HeroParams{
		ID:        7,
		HeroID:    "Bruiser",
		Team:      1,
		Level:     3,
		Spawn:     Vec3{X: 2, Z: -2},
		MaxHP:     1000,
		EnergyCap: 100,
		Defense:   60,
		Strength:  100,
		MoveSpeed: 5.5,
	})
}

func TestNewHeroStartsAtFullHealthEmptyEnergy(t *testing.T) {
	h := newTestHero()
	assert.Equal(t, int32(1000), h.CurrentHP())
	assert.Equal(t, 0.0, h.Energy())
	assert.Equal(t, h.Spawn(), h.Position())
}

func TestReduceHPReportsKillExactlyOnce(t *testing.T) {
	h := newTestHero()

	assert.False(t, h.ReduceHP(999))
	assert.Equal(t, int32(1), h.CurrentHP())

	assert.True(t, h.ReduceHP(5), "the killing blow reports the kill")
	assert.Equal(t, int32(0), h.CurrentHP(), "health clamps at zero")

	assert.False(t, h.ReduceHP(100), "a corpse cannot be killed again")
	assert.Equal(t, int32(0), h.CurrentHP())
}

func TestReduceHPConcurrentKillReportedOnce(t *testing.T) {
	h := newTestHero()
	h.SetCurrentHP(1)

	var wg sync.WaitGroup
	var kills int32
	var mu sync.Mutex
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if h.ReduceHP(50) {
				mu.Lock()
				kills++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), kills)
	assert.Equal(t, int32(0), h.CurrentHP())
}

func TestHealClampsToMax(t *testing.T) {
	h := newTestHero()
	h.SetCurrentHP(990)
	h.Heal(100)
	assert.Equal(t, int32(1000), h.CurrentHP())
	h.Heal(-5) // ignored
	assert.Equal(t, int32(1000), h.CurrentHP())
}

func TestEnergyClampsToRange(t *testing.T) {
	h := newTestHero()

	h.AddEnergy(150)
	assert.Equal(t, 100.0, h.Energy())
	h.AddEnergy(-500)
	assert.Equal(t, 0.0, h.Energy())

	h.AddEnergy(40)
	assert.False(t, h.SpendEnergy(50))
	assert.True(t, h.SpendEnergy(40))
	assert.Equal(t, 0.0, h.Energy())
}

func TestComboAdvanceAndDecay(t *testing.T) {
	h := newTestHero()

	assert.Equal(t, int32(1), h.AdvanceCombo(3))
	assert.Equal(t, int32(2), h.AdvanceCombo(3))
	assert.Equal(t, int32(3), h.AdvanceCombo(3))
	assert.Equal(t, int32(3), h.AdvanceCombo(3), "capped")

	h.TickComboDecay(1.9, 2.0)
	assert.Equal(t, int32(3), h.ComboCount(), "inside the reset window")
	h.TickComboDecay(0.2, 2.0)
	assert.Equal(t, int32(0), h.ComboCount(), "window elapsed")
}

func TestOrbCarrying(t *testing.T) {
	h := newTestHero()

	h.AddOrbs(2)
	h.AddOrbs(1)
	h.AddOrbs(-5) // ignored
	assert.Equal(t, int32(3), h.Orbs())

	assert.Equal(t, int32(3), h.TakeOrbs())
	assert.Equal(t, int32(0), h.Orbs())
	assert.Equal(t, int32(0), h.TakeOrbs())
}

func TestRespawnResetsTransientState(t *testing.T) {
	h := newTestHero()

	h.AddEnergy(60)
	h.AddOrbs(2)
	h.AdvanceCombo(3)
	h.SetPosition(Vec3{X: 50})
	h.SetVelocity(Vec3{X: 3})
	require.True(t, h.ReduceHP(2000))

	h.Respawn()

	assert.Equal(t, h.MaxHP(), h.CurrentHP())
	assert.Equal(t, h.Spawn(), h.Position())
	assert.True(t, h.Velocity().IsZero())
	assert.Equal(t, int32(0), h.ComboCount())
	assert.Equal(t, int32(0), h.Orbs(), "orbs do not survive death")
	assert.Equal(t, 60.0, h.Energy(), "energy survives death")

	// The kill latch is re-armed for the next life.
	h.SetCurrentHP(1)
	assert.True(t, h.ReduceHP(5))
}

func TestPrimaryStatByDamageType(t *testing.T) {
	h := NewHero(HeroParams{Strength: 80, Agility: 105, Intellect: 120, MaxHP: 1})
	assert.Equal(t, int32(80), h.PrimaryStat("physical"))
	assert.Equal(t, int32(105), h.PrimaryStat("ranged"))
	assert.Equal(t, int32(120), h.PrimaryStat("magic"))
	assert.Equal(t, int32(80), h.PrimaryStat(""), "physical is the default")
}
