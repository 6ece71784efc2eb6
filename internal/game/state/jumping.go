package state

// Jumping covers the ascent after a jump trigger. Landing is detected
// externally (grounded flag); exceeding the max air time hands off to
// Falling as a self-timed exit.
type Jumping struct {
	elapsed   float64
	liftedOff bool
}

// NewJumping creates a Jumping state.
func NewJumping() *Jumping {
	return &Jumping{}
}

func (s *Jumping) Kind() Kind {
	return KindJumping
}

func (s *Jumping) Enter(env *Env) {
	env.Animation.SetFlag(FlagJumping, true)
	env.Animation.Trigger(TriggerJump)
}

func (s *Jumping) Update(env *Env, dt float64) State {
	s.elapsed += dt

	// Self-timed exit first: committed lifecycle beats external landing on
	// the same tick.
	if s.elapsed >= env.Balance.MaxJumpTime {
		return NewFalling()
	}

	if !env.Input.Grounded {
		s.liftedOff = true
		return nil
	}
	if s.liftedOff {
		// Back on the ground after leaving it: landed.
		return groundedLanding(env)
	}
	// Still grounded right after the trigger; physics hasn't lifted us yet.
	return nil
}

func (s *Jumping) Exit(env *Env) {
	env.Animation.SetFlag(FlagJumping, false)
}
