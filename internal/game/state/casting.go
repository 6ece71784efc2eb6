package state

import (
	"log/slog"

	"github.com/kyrelis/orbrush/internal/data"
	"github.com/kyrelis/orbrush/internal/events"
	"github.com/kyrelis/orbrush/internal/game/combat"
	"github.com/kyrelis/orbrush/internal/model"
)

// Casting is an ability cast in progress. The cast has two sub-phases:
// targeting (before the commit point), during which movement or damage
// cancels it, and committed execution, which always completes. Cooldown is
// spent at cast start and never refunded — interrupts keep their value.
type Casting struct {
	ability  data.Ability
	aim      model.Vec3
	targetID uint32

	elapsed  float64
	commitAt float64
	executed bool
}

// NewCasting creates a cast of the given ability toward the aim point.
// targetID carries the selected target for non-projectile abilities.
func NewCasting(ability data.Ability, aim model.Vec3, targetID uint32) *Casting {
	return &Casting{
		ability:  ability,
		aim:      aim,
		targetID: targetID,
	}
}

func (s *Casting) Kind() Kind {
	return KindCasting
}

// AbilityID returns the id of the ability being cast.
func (s *Casting) AbilityID() string {
	return s.ability.ID
}

// InTargetingPhase reports whether the cast can still be interrupted.
func (s *Casting) InTargetingPhase() bool {
	return s.elapsed < s.commitAt
}

func (s *Casting) Enter(env *Env) {
	s.commitAt = s.ability.CastTime * env.Balance.CastCommitFraction

	env.StartCooldown(s.ability.ID, s.ability.Cooldown)
	env.Hero.SetVelocity(model.Vec3{})
	env.Animation.SetFlag(FlagCasting, true)
	env.Animation.Trigger(TriggerCast)
}

func (s *Casting) Update(env *Env, dt float64) State {
	s.elapsed += dt

	// Completed cast is the committed outcome; it beats a cancel request
	// arriving on the same tick.
	if s.elapsed >= s.ability.CastTime {
		s.execute(env)
		return groundedLanding(env)
	}

	// Movement cancels during targeting only. No refund.
	if s.InTargetingPhase() && !env.Input.Move.IsZero() {
		slog.Debug("cast cancelled by movement",
			"hero", env.Hero.ID(),
			"ability", s.ability.ID)
		return NewMoving()
	}
	return nil
}

func (s *Casting) Exit(env *Env) {
	env.Animation.SetFlag(FlagCasting, false)
}

// execute resolves the finished cast: raw RSB damage from the caster's
// stats now, delivered either as a projectile spawn request or, for
// non-projectile abilities, as a spell-hit intent for the resolve phase.
func (s *Casting) execute(env *Env) {
	if s.executed {
		return
	}
	s.executed = true

	hero := env.Hero
	raw, err := combat.RawDamage(
		s.ability.Ratio,
		float64(hero.PrimaryStat(s.ability.DamageType)),
		s.ability.Scaling,
		hero.Level(),
		s.ability.BaseDamage,
	)
	if err != nil {
		slog.Error("cast damage computation failed",
			"hero", hero.ID(),
			"ability", s.ability.ID,
			"err", err)
		return
	}

	if s.ability.ProjectileSpeed > 0 {
		origin := hero.Position()
		dir := s.aim.Add(origin.Scale(-1)).Normalized()
		env.Hub.Projectile.Publish(events.ProjectileRequest{
			SourceID:  hero.ID(),
			AbilityID: s.ability.ID,
			Origin:    origin,
			Direction: dir,
			Speed:     s.ability.ProjectileSpeed,
			Damage:    raw,
			Lifetime:  s.ability.ProjectileLifetime,
		})
		return
	}

	if s.targetID != 0 && raw > 0 {
		env.Intents.AddSpellHit(combat.SpellHitIntent{
			CasterID:  hero.ID(),
			TargetID:  s.targetID,
			AbilityID: s.ability.ID,
			RawDamage: raw,
		})
	}
}
