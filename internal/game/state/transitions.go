package state

import "log/slog"

// Animation flag and trigger names published to the presentation collaborator.
const (
	FlagMoving    = "IsMoving"
	FlagJumping   = "IsJumping"
	FlagCasting   = "IsCasting"
	FlagAttacking = "IsAttacking"
	FlagStunned   = "IsStunned"
	FlagDead      = "IsDead"

	TriggerJump         = "Jump"
	TriggerAttack       = "Attack"
	TriggerCast         = "CastAbility"
	TriggerDeath        = "Death"
	TriggerDeathEffects = "DeathEffects"
)

// actionNext evaluates the action exits shared by Idle and Moving, in the
// transition table's priority order: jump, attack, cast, then airborne
// handoff. Returns nil when no action transition applies. Movement between
// Idle and Moving is handled by each state itself.
func actionNext(env *Env) State {
	in := env.Input

	if in.Jump && in.Grounded {
		return NewJumping()
	}
	if in.Attack {
		return NewAttacking()
	}
	if in.Cast {
		if cast := tryStartCast(env); cast != nil {
			return cast
		}
	}
	if !in.Grounded && in.VerticalV < 0 {
		return NewFalling()
	}
	return nil
}

// tryStartCast validates a cast request against the catalog and cooldowns.
// Invalid requests are logged and dropped; the machine stays put.
func tryStartCast(env *Env) State {
	in := env.Input

	tmpl, err := env.Catalog.Hero(env.Hero.HeroID())
	if err != nil {
		slog.Error("cast rejected: hero template missing",
			"hero", env.Hero.ID(),
			"heroID", env.Hero.HeroID(),
			"err", err)
		return nil
	}

	known := false
	for _, id := range tmpl.Abilities {
		if id == in.CastAbility {
			known = true
			break
		}
	}
	if !known {
		slog.Debug("cast rejected: ability not on this hero",
			"hero", env.Hero.ID(),
			"ability", in.CastAbility)
		return nil
	}

	ability, err := env.Catalog.Ability(in.CastAbility)
	if err != nil {
		slog.Error("cast rejected: ability record missing",
			"hero", env.Hero.ID(),
			"ability", in.CastAbility,
			"err", err)
		return nil
	}

	if !env.OffCooldown(ability.ID) {
		slog.Debug("cast rejected: on cooldown",
			"hero", env.Hero.ID(),
			"ability", ability.ID,
			"remaining", env.Cooldowns[ability.ID])
		return nil
	}

	return NewCasting(ability, in.CastTarget, in.AttackTarget)
}

// groundedLanding picks Idle or Moving by current movement input.
func groundedLanding(env *Env) State {
	if !env.Input.Move.IsZero() {
		return NewMoving()
	}
	return NewIdle()
}
