package state

// Falling is airborne descent. No self-timed exit; it waits for the
// externally-detected landing.
type Falling struct{}

// NewFalling creates a Falling state.
func NewFalling() *Falling {
	return &Falling{}
}

func (s *Falling) Kind() Kind {
	return KindFalling
}

func (s *Falling) Enter(env *Env) {
	env.Animation.SetFlag(FlagJumping, true)
}

func (s *Falling) Update(env *Env, dt float64) State {
	if env.Input.Grounded {
		return groundedLanding(env)
	}
	return nil
}

func (s *Falling) Exit(env *Env) {
	env.Animation.SetFlag(FlagJumping, false)
}
