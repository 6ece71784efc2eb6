package state

import (
	"github.com/kyrelis/orbrush/internal/config"
	"github.com/kyrelis/orbrush/internal/data"
	"github.com/kyrelis/orbrush/internal/events"
	"github.com/kyrelis/orbrush/internal/game/combat"
	"github.com/kyrelis/orbrush/internal/model"
)

// State is one character state. Exactly one is active per hero at any
// instant. Update returns the next state to transition to, or nil to stay.
// States own only their transient data (timers, combo position) and hold no
// reference to the hero — the hero arrives through Env on every call.
type State interface {
	Kind() Kind
	Enter(env *Env)
	Update(env *Env, dt float64) State
	Exit(env *Env)
}

// AnimationSink receives animation intent for the presentation collaborator:
// boolean flags, discrete triggers, and the active state name. Fire and
// forget; nothing here feeds back into the simulation.
type AnimationSink interface {
	SetFlag(name string, on bool)
	Trigger(name string)
	SetStateName(name string)
}

// NopAnimation discards all animation intent (headless tests, bots).
type NopAnimation struct{}

func (NopAnimation) SetFlag(string, bool) {}
func (NopAnimation) Trigger(string)       {}
func (NopAnimation) SetStateName(string)  {}

// Env is everything a state may touch while active: the hero it animates,
// the read-only balance/catalog tables, and the outbound channels (intents,
// events, animation). One Env per hero, owned by its driver; Input and Tick
// are refreshed by the driver every tick.
type Env struct {
	Hero      *model.Hero
	Balance   *config.Balance
	Formulas  *combat.Formulas
	Catalog   *data.Catalog
	Animation AnimationSink
	Intents   *combat.IntentQueue
	Hub       *events.Hub

	// Per-tick values, written by the driver before dispatching Update.
	Input model.InputFrame
	Tick  uint64

	// Ability cooldowns, seconds remaining. Committed at cast start and
	// never refunded on interrupt.
	Cooldowns map[string]float64
}

// OffCooldown reports whether the ability can be cast.
func (e *Env) OffCooldown(abilityID string) bool {
	return e.Cooldowns[abilityID] <= 0
}

// StartCooldown commits an ability's cooldown.
func (e *Env) StartCooldown(abilityID string, seconds float64) {
	if e.Cooldowns == nil {
		e.Cooldowns = make(map[string]float64)
	}
	e.Cooldowns[abilityID] = seconds
}

// TickCooldowns advances all cooldowns by dt.
func (e *Env) TickCooldowns(dt float64) {
	for id, remaining := range e.Cooldowns {
		remaining -= dt
		if remaining <= 0 {
			delete(e.Cooldowns, id)
			continue
		}
		e.Cooldowns[id] = remaining
	}
}
