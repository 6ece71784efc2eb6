package state

// Kind identifies a character state.
type Kind int32

const (
	// KindIdle - grounded, alive, no movement input
	KindIdle Kind = iota
	// KindMoving - grounded with nonzero movement input
	KindMoving
	// KindJumping - jump triggered, ascending
	KindJumping
	// KindFalling - airborne with downward velocity
	KindFalling
	// KindCasting - ability cast in progress
	KindCasting
	// KindAttacking - basic attack swing in progress
	KindAttacking
	// KindStunned - hard crowd control, refuses all input
	KindStunned
	// KindDead - death sequence running until respawn
	KindDead
)

// String returns the HUD/debug state name.
func (k Kind) String() string {
	switch k {
	case KindIdle:
		return "IDLE"
	case KindMoving:
		return "MOVING"
	case KindJumping:
		return "JUMPING"
	case KindFalling:
		return "FALLING"
	case KindCasting:
		return "CASTING"
	case KindAttacking:
		return "ATTACKING"
	case KindStunned:
		return "STUNNED"
	case KindDead:
		return "DEAD"
	default:
		return "UNKNOWN"
	}
}
