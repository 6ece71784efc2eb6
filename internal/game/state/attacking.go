package state

import (
	"github.com/kyrelis/orbrush/internal/game/combat"
	"github.com/kyrelis/orbrush/internal/model"
)

// Attacking is one basic-attack swing. At most one hit resolves inside the
// active-hit window; a target selected after the window closes whiffs. A
// combo-continue signal arriving by the end of the swing chains into a fresh
// Attacking instance with the hero's combo counter advanced (capped by the
// balance table).
type Attacking struct {
	elapsed float64
	combo   int32 // 1-based chain position, assigned on Enter
	target  uint32
	hitDone bool
}

// NewAttacking creates an attack swing. The combo position is taken from
// the hero's persistent counter when the state enters.
func NewAttacking() *Attacking {
	return &Attacking{}
}

func (s *Attacking) Kind() Kind {
	return KindAttacking
}

func (s *Attacking) Enter(env *Env) {
	s.combo = env.Hero.AdvanceCombo(env.Balance.ComboCap)
	s.target = env.Input.AttackTarget

	env.Hero.SetVelocity(model.Vec3{}) // rooted during the swing
	env.Animation.SetFlag(FlagAttacking, true)
	env.Animation.Trigger(TriggerAttack)
}

func (s *Attacking) Update(env *Env, dt float64) State {
	s.elapsed += dt

	// Hit resolution is the committed outcome: it runs before any chain
	// request arriving on the same tick. A target acquired while the window
	// is open still connects; once the window closes the swing whiffs.
	if !s.hitDone && s.elapsed >= env.Balance.AttackHitWindowStart {
		if s.elapsed > env.Balance.AttackHitWindowEnd {
			s.hitDone = true
		} else {
			if s.target == 0 {
				s.target = env.Input.AttackTarget
			}
			if s.target != 0 {
				s.hitDone = true
				env.Intents.AddAttack(combat.AttackIntent{
					AttackerID: env.Hero.ID(),
					TargetID:   s.target,
					ComboCount: s.combo - 1,
				})
			}
		}
	}

	if s.elapsed >= env.Balance.AttackDuration {
		if env.Input.ComboHeld && s.combo < env.Balance.ComboCap {
			return NewAttacking()
		}
		return groundedLanding(env)
	}
	return nil
}

func (s *Attacking) Exit(env *Env) {
	env.Animation.SetFlag(FlagAttacking, false)
}
