package state

import "github.com/kyrelis/orbrush/internal/model"

// Stunned is hard crowd control. It refuses every input for its duration;
// only the timer ends it. A zero-duration stun still consumes one tick.
type Stunned struct {
	duration float64
	elapsed  float64
}

// NewStunned creates a stun of the given duration in seconds.
func NewStunned(duration float64) *Stunned {
	return &Stunned{duration: duration}
}

func (s *Stunned) Kind() Kind {
	return KindStunned
}

func (s *Stunned) Enter(env *Env) {
	env.Hero.SetVelocity(model.Vec3{})
	env.Animation.SetFlag(FlagStunned, true)
}

func (s *Stunned) Update(env *Env, dt float64) State {
	s.elapsed += dt
	if s.elapsed >= s.duration {
		if !env.Input.Grounded {
			return NewFalling()
		}
		return groundedLanding(env)
	}
	return nil
}

func (s *Stunned) Exit(env *Env) {
	env.Animation.SetFlag(FlagStunned, false)
}
