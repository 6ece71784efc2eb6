package state

import (
	"github.com/kyrelis/orbrush/internal/events"
	"github.com/kyrelis/orbrush/internal/model"
)

// Dead runs the fixed death sequence: the first half plays the death
// animation, the next stretch fires the death effects, the tail signals the
// respawn. At the end the hero is reset in place through its typed Respawn
// method and the machine returns to Idle.
type Dead struct {
	elapsed float64

	effectsFired     bool
	respawnSignalled bool
}

// NewDead creates the death sequence state.
func NewDead() *Dead {
	return &Dead{}
}

func (s *Dead) Kind() Kind {
	return KindDead
}

func (s *Dead) Enter(env *Env) {
	env.Hero.SetVelocity(model.Vec3{})
	env.Hero.TakeOrbs() // carried orbs are lost on death
	env.Hero.ResetCombo()
	env.Animation.SetFlag(FlagDead, true)
	env.Animation.Trigger(TriggerDeath)
}

func (s *Dead) Update(env *Env, dt float64) State {
	s.elapsed += dt
	total := env.Balance.DeathDuration

	if !s.effectsFired && s.elapsed >= total*env.Balance.DeathAnimFraction {
		s.effectsFired = true
		env.Animation.Trigger(TriggerDeathEffects)
	}

	if !s.respawnSignalled && s.elapsed >= total*env.Balance.DeathEffectsFraction {
		s.respawnSignalled = true
		env.Hub.Respawn.Publish(events.RespawnPending{
			HeroID: env.Hero.ID(),
			Tick:   env.Tick,
		})
	}

	if s.elapsed >= total {
		env.Hero.Respawn()
		return NewIdle()
	}
	return nil
}

func (s *Dead) Exit(env *Env) {
	env.Animation.SetFlag(FlagDead, false)
}
