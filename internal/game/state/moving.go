package state

// Moving is grounded locomotion. It translates movement intent into the
// velocity command consumed by the physics collaborator every tick.
type Moving struct{}

// NewMoving creates a Moving state.
func NewMoving() *Moving {
	return &Moving{}
}

func (s *Moving) Kind() Kind {
	return KindMoving
}

func (s *Moving) Enter(env *Env) {
	env.Animation.SetFlag(FlagMoving, true)
}

func (s *Moving) Update(env *Env, dt float64) State {
	if next := actionNext(env); next != nil {
		return next
	}
	if env.Input.Move.IsZero() {
		return NewIdle()
	}

	env.Hero.SetVelocity(env.Input.Move.Normalized().Scale(env.Hero.MoveSpeed()))
	return nil
}

func (s *Moving) Exit(env *Env) {
	env.Animation.SetFlag(FlagMoving, false)
}
