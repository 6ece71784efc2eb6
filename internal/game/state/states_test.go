package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kyrelis/orbrush/internal/events"
	"github.com/kyrelis/orbrush/internal/model"
)

func moveInput(x float64) model.InputFrame {
	return model.InputFrame{Grounded: true, Move: model.Vec3{X: x}}
}

func TestIdleMovingRoundTrip(t *testing.T) {
	hero := testHero(0)
	d, _ := newTestDriver(t, hero)

	d.Tick(moveInput(1), 0.02)
	require.Equal(t, KindMoving, d.ActiveKind())

	// Moving writes the velocity command every tick.
	d.Tick(moveInput(1), 0.02)
	assert.InDelta(t, hero.MoveSpeed(), hero.Velocity().Length(), 1e-9)

	d.Tick(groundedIdle(), 0.02)
	assert.Equal(t, KindIdle, d.ActiveKind())
	assert.True(t, hero.Velocity().IsZero(), "idle zeroes the velocity command")
}

func TestJumpLandsAfterLiftoff(t *testing.T) {
	d, _ := newTestDriver(t, testHero(0))

	d.Tick(model.InputFrame{Grounded: true, Jump: true}, 0.02)
	require.Equal(t, KindJumping, d.ActiveKind())

	// Still grounded right after the trigger: not landed yet.
	d.Tick(groundedIdle(), 0.02)
	require.Equal(t, KindJumping, d.ActiveKind())

	// Airborne, then back on the ground.
	d.Tick(model.InputFrame{}, 0.02)
	require.Equal(t, KindJumping, d.ActiveKind())
	d.Tick(groundedIdle(), 0.02)
	assert.Equal(t, KindIdle, d.ActiveKind())
}

func TestJumpTimeoutBeatsLandingOnSameTick(t *testing.T) {
	d, _ := newTestDriver(t, testHero(0))

	d.Tick(model.InputFrame{Grounded: true, Jump: true}, 0.25)
	require.Equal(t, KindJumping, d.ActiveKind())

	d.Tick(model.InputFrame{}, 0.25)
	require.Equal(t, KindJumping, d.ActiveKind())

	// Max jump time (0.5s) expires on the same tick the ground check comes
	// back positive; the self-timed exit wins.
	d.Tick(groundedIdle(), 0.25)
	assert.Equal(t, KindFalling, d.ActiveKind())

	d.Tick(groundedIdle(), 0.02)
	assert.Equal(t, KindIdle, d.ActiveKind())
}

func TestFallingLandsIntoMoving(t *testing.T) {
	d, _ := newTestDriver(t, testHero(0))

	d.Tick(model.InputFrame{VerticalV: -3}, 0.02)
	require.Equal(t, KindFalling, d.ActiveKind())

	d.Tick(moveInput(1), 0.02)
	assert.Equal(t, KindMoving, d.ActiveKind())
}

func attackInput(target uint32, comboHeld bool) model.InputFrame {
	return model.InputFrame{
		Grounded:     true,
		Attack:       true,
		AttackTarget: target,
		ComboHeld:    comboHeld,
	}
}

func TestAttackHitFiresOncePerSwing(t *testing.T) {
	hero := testHero(0)
	d, _ := newTestDriver(t, hero)

	d.Tick(attackInput(2, false), 0.1)
	require.Equal(t, KindAttacking, d.ActiveKind())
	assert.True(t, hero.Velocity().IsZero(), "rooted during the swing")

	// Hit window opens at 0.3s; one intent, no matter how long the window.
	d.Tick(groundedIdle(), 0.1)
	d.Tick(groundedIdle(), 0.1)
	assert.Equal(t, 0, d.env.Intents.Len())
	d.Tick(groundedIdle(), 0.1)
	assert.Equal(t, 1, d.env.Intents.Len())
	d.Tick(groundedIdle(), 0.1)
	assert.Equal(t, 1, d.env.Intents.Len())
}

func TestAttackLateTargetInsideWindowHits(t *testing.T) {
	d, _ := newTestDriver(t, testHero(0))

	// Swing starts with no target selected.
	d.Tick(attackInput(0, false), 0.1)
	require.Equal(t, KindAttacking, d.ActiveKind())

	// Window opens at 0.3s, still nothing to hit.
	for i := 0; i < 3; i++ {
		d.Tick(groundedIdle(), 0.1)
	}
	assert.Equal(t, 0, d.env.Intents.Len())

	// 0.4s: target acquired while the window is open.
	in := groundedIdle()
	in.AttackTarget = 2
	d.Tick(in, 0.1)
	assert.Equal(t, 1, d.env.Intents.Len())

	d.Tick(groundedIdle(), 0.1)
	assert.Equal(t, 1, d.env.Intents.Len())
}

func TestAttackTargetAfterWindowClosesWhiffs(t *testing.T) {
	d, _ := newTestDriver(t, testHero(0))

	d.Tick(attackInput(0, false), 0.1)
	require.Equal(t, KindAttacking, d.ActiveKind())

	// Ride past the 0.5s window end without a target.
	for i := 0; i < 5; i++ {
		d.Tick(groundedIdle(), 0.1)
	}

	// 0.6s: too late, the swing whiffs.
	in := groundedIdle()
	in.AttackTarget = 2
	d.Tick(in, 0.1)
	assert.Equal(t, 0, d.env.Intents.Len())

	for i := 0; i < 2; i++ {
		d.Tick(groundedIdle(), 0.1)
	}
	assert.Equal(t, KindIdle, d.ActiveKind())
	assert.Equal(t, 0, d.env.Intents.Len())
}

func TestAttackComboChainsToCapThenEnds(t *testing.T) {
	hero := testHero(0)
	d, _ := newTestDriver(t, hero)

	held := attackInput(2, true)

	d.Tick(held, 0.1)
	require.Equal(t, KindAttacking, d.ActiveKind())
	assert.Equal(t, int32(1), hero.ComboCount())

	swing := func() {
		for i := 0; i < 8; i++ { // 0.8s at dt 0.1
			d.Tick(held, 0.1)
		}
	}

	swing()
	assert.Equal(t, KindAttacking, d.ActiveKind(), "combo-continue chains the swing")
	assert.Equal(t, int32(2), hero.ComboCount())

	swing()
	assert.Equal(t, KindAttacking, d.ActiveKind())
	assert.Equal(t, int32(3), hero.ComboCount())

	// At the cap the chain ends even with the signal held.
	swing()
	assert.Equal(t, KindIdle, d.ActiveKind())
	assert.Equal(t, 3, d.env.Intents.Len(), "one hit per swing")
}

func TestComboResetsAfterIdleWindow(t *testing.T) {
	hero := testHero(0)
	d, _ := newTestDriver(t, hero)

	d.Tick(attackInput(2, false), 0.1)
	for i := 0; i < 8; i++ {
		d.Tick(groundedIdle(), 0.1)
	}
	require.Equal(t, KindIdle, d.ActiveKind())
	require.Equal(t, int32(1), hero.ComboCount())

	// 2.0s reset window.
	for i := 0; i < 21; i++ {
		d.Tick(groundedIdle(), 0.1)
	}
	assert.Equal(t, int32(0), hero.ComboCount())
}

func TestCastCompletionEnqueuesSpellHit(t *testing.T) {
	d, _ := newTestDriver(t, testHero(0))

	d.Tick(castingInput("slam", 2), 0.02)
	require.Equal(t, KindCasting, d.ActiveKind())

	for i := 0; i < 30; i++ { // 0.6s cast
		d.Tick(groundedIdle(), 0.02)
	}
	assert.Equal(t, KindIdle, d.ActiveKind())
	assert.Equal(t, 1, d.env.Intents.Len())

	// On cooldown now: a fresh cast request is dropped.
	d.Tick(castingInput("slam", 2), 0.02)
	assert.Equal(t, KindIdle, d.ActiveKind())
}

func TestCastProjectilePublishesRequest(t *testing.T) {
	d, _ := newTestDriver(t, testHero(0))

	var got []events.ProjectileRequest
	d.env.Hub.Projectile.Subscribe(func(ev events.ProjectileRequest) { got = append(got, ev) })

	in := castingInput("rush", 0)
	in.CastTarget = model.Vec3{X: 20}
	d.Tick(in, 0.02)
	require.Equal(t, KindCasting, d.ActiveKind())

	for i := 0; i < 20; i++ { // 0.4s cast
		d.Tick(groundedIdle(), 0.02)
	}

	require.Len(t, got, 1)
	assert.Equal(t, "rush", got[0].AbilityID)
	assert.Equal(t, 18.0, got[0].Speed)
	assert.Greater(t, got[0].Damage, int32(0))
	assert.Equal(t, 0, d.env.Intents.Len(), "projectile casts do not enqueue direct hits")
}

func TestCastMovementCancelsDuringTargetingOnly(t *testing.T) {
	d, _ := newTestDriver(t, testHero(0))

	d.Tick(castingInput("slam", 2), 0.02)
	require.Equal(t, KindCasting, d.ActiveKind())

	d.Tick(moveInput(1), 0.02)
	assert.Equal(t, KindMoving, d.ActiveKind(), "movement cancels a targeting-phase cast")
	assert.False(t, d.env.OffCooldown("slam"), "no cooldown refund on cancel")

	// Committed cast ignores movement and completes.
	d2, _ := newTestDriver(t, testHero(0))
	d2.Tick(castingInput("slam", 2), 0.02)
	for i := 0; i < 16; i++ { // past the 0.3s commit point
		d2.Tick(groundedIdle(), 0.02)
	}
	require.Equal(t, KindCasting, d2.ActiveKind())

	d2.Tick(moveInput(1), 0.02)
	assert.Equal(t, KindCasting, d2.ActiveKind())

	for i := 0; i < 14; i++ {
		d2.Tick(groundedIdle(), 0.02)
	}
	assert.Equal(t, 1, d2.env.Intents.Len())
}

func TestCastUnknownAbilityIsDropped(t *testing.T) {
	d, _ := newTestDriver(t, testHero(0))

	d.Tick(castingInput("meteor", 2), 0.02)
	assert.Equal(t, KindIdle, d.ActiveKind())

	// Known ability but not on this hero's kit.
	d.Tick(castingInput("arc_blast", 2), 0.02)
	assert.Equal(t, KindIdle, d.ActiveKind())
}

func TestStunnedRefusesInput(t *testing.T) {
	d, _ := newTestDriver(t, testHero(0))

	d.NotifyStun(0.5)
	require.Equal(t, KindStunned, d.ActiveKind())

	in := attackInput(2, false)
	in.Jump = true
	d.Tick(in, 0.1)
	assert.Equal(t, KindStunned, d.ActiveKind())

	for i := 0; i < 4; i++ {
		d.Tick(groundedIdle(), 0.1)
	}
	assert.Equal(t, KindIdle, d.ActiveKind())
}

func TestZeroDurationStunLastsOneTick(t *testing.T) {
	d, _ := newTestDriver(t, testHero(0))

	d.NotifyStun(0)
	require.Equal(t, KindStunned, d.ActiveKind())

	d.Tick(groundedIdle(), 0.02)
	assert.Equal(t, KindIdle, d.ActiveKind())
}

func TestDeathSequencePhases(t *testing.T) {
	hero := testHero(0)
	d, sink := newTestDriver(t, hero)

	var respawns []events.RespawnPending
	d.env.Hub.Respawn.Subscribe(func(ev events.RespawnPending) { respawns = append(respawns, ev) })

	hero.AddOrbs(3)
	hero.AddEnergy(50)
	hero.SetPosition(model.Vec3{X: 99})
	hero.SetCurrentHP(1)

	require.True(t, d.NotifyDamage(5))
	require.Equal(t, KindDead, d.ActiveKind())
	assert.True(t, sink.fired(TriggerDeath))
	assert.Equal(t, int32(0), hero.Orbs(), "carried orbs drop on death")

	// First half: death animation only.
	for i := 0; i < 14; i++ {
		d.Tick(groundedIdle(), 0.1)
	}
	assert.False(t, sink.fired(TriggerDeathEffects))
	assert.Empty(t, respawns)

	// 1.5s: effects fire.
	d.Tick(groundedIdle(), 0.1)
	assert.True(t, sink.fired(TriggerDeathEffects))
	assert.Empty(t, respawns)

	// 2.4s: respawn signal.
	for i := 0; i < 9; i++ {
		d.Tick(groundedIdle(), 0.1)
	}
	require.Len(t, respawns, 1)
	assert.Equal(t, hero.ID(), respawns[0].HeroID)

	// 3.0s: reset in place, back to Idle at the spawn point.
	for i := 0; i < 6; i++ {
		d.Tick(groundedIdle(), 0.1)
	}
	assert.Equal(t, KindIdle, d.ActiveKind())
	assert.Equal(t, hero.MaxHP(), hero.CurrentHP())
	assert.Equal(t, model.Vec3{X: 10, Z: -4}, hero.Position())
	assert.InDelta(t, 50.0, hero.Energy(), 1e-9, "ultimate energy survives death")
}
