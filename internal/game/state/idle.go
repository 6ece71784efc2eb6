package state

import "github.com/kyrelis/orbrush/internal/model"

// Idle is the grounded rest state. No self-timed exit; it waits for input.
type Idle struct{}

// NewIdle creates an Idle state.
func NewIdle() *Idle {
	return &Idle{}
}

func (s *Idle) Kind() Kind {
	return KindIdle
}

func (s *Idle) Enter(env *Env) {
	env.Hero.SetVelocity(model.Vec3{})
	env.Animation.SetFlag(FlagMoving, false)
}

func (s *Idle) Update(env *Env, dt float64) State {
	if next := actionNext(env); next != nil {
		return next
	}
	if !env.Input.Move.IsZero() && env.Input.Grounded {
		return NewMoving()
	}
	return nil
}

func (s *Idle) Exit(env *Env) {}
