package state

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/kyrelis/orbrush/internal/events"
	"github.com/kyrelis/orbrush/internal/model"
)

// ErrTransitionRejected marks a re-entrant or otherwise invalid transition
// attempt. The driver logs and ignores these; the machine stays put.
var ErrTransitionRejected = errors.New("transition rejected")

// Driver owns the single active state for one hero and dispatches
// enter/update/exit. Transitions are atomic: the old state's Exit always
// runs before the new state's Enter, and a transitioning guard makes
// duplicate requests on the same tick a no-op instead of a double Enter.
//
// A panic escaping any state hook is caught here, logged with state name
// and tick, and the machine is forced to a safe fallback (Dead if the hero
// is dead, Idle otherwise). A live match degrades, it does not crash.
type Driver struct {
	env    *Env
	active State
	tick   uint64

	transitioning bool

	// regenCarry accumulates fractional HP regen between ticks.
	regenCarry float64
}

// NewDriver creates a driver for the given environment. Call Initialize
// before the first Tick.
func NewDriver(env *Env) *Driver {
	if env.Cooldowns == nil {
		env.Cooldowns = make(map[string]float64)
	}
	if env.Animation == nil {
		env.Animation = NopAnimation{}
	}
	if env.Hub == nil {
		env.Hub = events.NewHub()
	}
	return &Driver{env: env}
}

// Initialize sets the initial state and runs its entry behavior.
func (d *Driver) Initialize(initial State) error {
	if initial == nil {
		return fmt.Errorf("initial state is nil")
	}
	if d.active != nil {
		return fmt.Errorf("driver already initialized (active: %s)", d.active.Kind())
	}
	d.active = initial
	d.safeEnter(initial)
	d.env.Animation.SetStateName(initial.Kind().String())
	return nil
}

// ActiveKind returns the active state's kind.
func (d *Driver) ActiveKind() Kind {
	return d.active.Kind()
}

// StateName returns the active state's HUD name.
func (d *Driver) StateName() string {
	return d.active.Kind().String()
}

// Hero returns the hero this driver animates.
func (d *Driver) Hero() *model.Hero {
	return d.env.Hero
}

// Tick advances the machine one simulation step. The input frame is this
// tick's external input/physics snapshot. All timed behavior below is
// elapsed-dt accumulation; nothing blocks.
func (d *Driver) Tick(input model.InputFrame, dt float64) {
	d.tick++
	d.env.Input = input
	d.env.Tick = d.tick

	d.env.TickCooldowns(dt)
	d.tickRegen(dt)

	if d.active.Kind() != KindAttacking {
		d.env.Hero.TickComboDecay(dt, d.env.Balance.ComboResetWindow)
	}

	next, fault := d.safeUpdate(d.active, dt)
	if fault {
		d.forceFallback()
		return
	}
	if next != nil {
		d.TransitionTo(next)
	}
}

// TransitionTo swaps the active state: Exit on the old, Enter on the new.
// Re-entrant calls (a state forcing a transition from inside Enter/Exit)
// are rejected and logged, never double-dispatched.
func (d *Driver) TransitionTo(next State) {
	if next == nil {
		return
	}
	if next == d.active {
		// Duplicate request for the already-active instance: idempotent no-op,
		// Enter must not run twice.
		return
	}
	if d.transitioning {
		slog.Warn("transition rejected",
			"hero", d.env.Hero.ID(),
			"active", d.active.Kind().String(),
			"requested", next.Kind().String(),
			"tick", d.tick,
			"err", ErrTransitionRejected)
		return
	}

	d.transitioning = true
	defer func() { d.transitioning = false }()

	from := d.active.Kind()

	if fault := d.safeExit(d.active); fault {
		d.active = d.fallbackState()
		d.safeEnter(d.active)
		d.publishTransition(from, d.active.Kind())
		return
	}

	d.active = next
	d.safeEnter(next)
	d.publishTransition(from, next.Kind())
}

// NotifyDamage applies resolved damage to the hero and runs the interrupt
// rules: death beats everything; a cast still in its targeting sub-phase is
// cancelled (no refund); committed casts and everything else ride it out.
// Returns true when this damage killed the hero.
func (d *Driver) NotifyDamage(amount int32) bool {
	if d.active.Kind() == KindDead {
		return false
	}

	killed := d.env.Hero.ReduceHP(amount)
	if killed {
		d.TransitionTo(NewDead())
		return true
	}

	if cast, ok := d.active.(*Casting); ok && cast.InTargetingPhase() {
		slog.Debug("cast interrupted by damage",
			"hero", d.env.Hero.ID(),
			"ability", cast.AbilityID(),
			"tick", d.tick)
		d.TransitionTo(NewIdle())
	}
	return false
}

// NotifyStun applies hard crowd control. Stun is not cancellable by input
// and interrupts every alive state, committed casts included. Dead heroes
// ignore it.
func (d *Driver) NotifyStun(duration float64) {
	if d.active.Kind() == KindDead {
		return
	}
	if duration < 0 {
		duration = 0
	}
	d.TransitionTo(NewStunned(duration))
}

// tickRegen applies passive HP and ultimate energy regeneration.
// Dead heroes regenerate nothing; the respawn reset restores them.
func (d *Driver) tickRegen(dt float64) {
	if d.active.Kind() == KindDead {
		return
	}

	d.env.Hero.AddEnergy(d.env.Balance.EnergyRegenPerSecond * dt)

	d.regenCarry += d.env.Hero.HPRegen() * dt
	if whole := math.Floor(d.regenCarry); whole >= 1 {
		d.env.Hero.Heal(int32(whole))
		d.regenCarry -= whole
	}
}

func (d *Driver) publishTransition(from, to Kind) {
	d.env.Animation.SetStateName(to.String())
	d.env.Hub.State.Publish(events.StateChanged{
		HeroID: d.env.Hero.ID(),
		From:   from.String(),
		To:     to.String(),
		Tick:   d.tick,
	})
}

// fallbackState picks the safe default after a state fault.
func (d *Driver) fallbackState() State {
	if d.env.Hero.IsDead() {
		return NewDead()
	}
	return NewIdle()
}

func (d *Driver) forceFallback() {
	from := d.active.Kind()
	d.active = d.fallbackState()
	d.safeEnter(d.active)
	d.publishTransition(from, d.active.Kind())
}

// safeEnter runs Enter with panic containment.
func (d *Driver) safeEnter(s State) (fault bool) {
	defer d.recoverFault(s, "enter", &fault)
	s.Enter(d.env)
	return
}

// safeExit runs Exit with panic containment.
func (d *Driver) safeExit(s State) (fault bool) {
	defer d.recoverFault(s, "exit", &fault)
	s.Exit(d.env)
	return
}

// safeUpdate runs Update with panic containment.
func (d *Driver) safeUpdate(s State, dt float64) (next State, fault bool) {
	defer d.recoverFault(s, "update", &fault)
	next = s.Update(d.env, dt)
	return
}

func (d *Driver) recoverFault(s State, hook string, fault *bool) {
	if r := recover(); r != nil {
		*fault = true
		slog.Error("state fault",
			"hero", d.env.Hero.ID(),
			"state", s.Kind().String(),
			"hook", hook,
			"tick", d.tick,
			"panic", r)
	}
}
