package model

// InputFrame is the per-tick snapshot of external input and physics facts
// for one hero. The input/physics collaborator fills one of these each tick;
// the state machine only ever reads it. Combo continuation is an injected
// bit here, never a device poll inside a combat state.
type InputFrame struct {
	// Movement intent, unit-length or zero. Vertical component ignored.
	Move Vec3

	// Edge-triggered actions for this tick.
	Jump   bool
	Attack bool
	Cast   bool

	// CastAbility selects which ability slot Cast refers to.
	CastAbility string

	// CastTarget is the aim point for a cast initiated this tick.
	CastTarget Vec3

	// AttackTarget is the selected target's object id, resolved by the
	// targeting collaborator. Zero means no target.
	AttackTarget uint32

	// ComboHeld chains the next attack when the active-hit window closes.
	ComboHeld bool

	// Physics facts sampled by the movement collaborator.
	Grounded  bool
	VerticalV float64
}
