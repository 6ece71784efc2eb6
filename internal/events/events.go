package events

import "github.com/kyrelis/orbrush/internal/model"

// StateChanged is published on every character FSM transition.
// The To string is the HUD/debug state name.
type StateChanged struct {
	HeroID uint32
	From   string
	To     string
	Tick   uint64
}

// Damage is published after the resolve phase applies a hit.
type Damage struct {
	AttackerID uint32
	VictimID   uint32
	Raw        int32
	Mitigated  int32
	VictimHP   int32
	Tick       uint64
}

// Kill is published when damage brings a hero to zero health.
type Kill struct {
	KillerID uint32
	VictimID uint32
	Tick     uint64
}

// ScoreDeposit is published when a channel completes and orbs convert to
// team score.
type ScoreDeposit struct {
	HeroID uint32
	Team   model.TeamID
	Orbs   int32
	Tick   uint64
}

// ProjectileRequest asks the projectile/effect collaborator to spawn one
// projectile. The core does not manage the projectile afterwards.
type ProjectileRequest struct {
	SourceID  uint32
	AbilityID string
	Origin    model.Vec3
	Direction model.Vec3
	Speed     float64
	Damage    int32
	Lifetime  float64
}

// RespawnPending is published when a dead hero's death sequence reaches the
// respawn-trigger phase (external UI shows the countdown).
type RespawnPending struct {
	HeroID uint32
	Tick   uint64
}

// Hub groups the per-category buses for one match. Created on match start,
// dropped on match end; no process-wide event state.
type Hub struct {
	State      *Bus[StateChanged]
	Damage     *Bus[Damage]
	Kill       *Bus[Kill]
	Score      *Bus[ScoreDeposit]
	Projectile *Bus[ProjectileRequest]
	Respawn    *Bus[RespawnPending]
}

// NewHub creates a hub with empty buses for every category.
func NewHub() *Hub {
	return &Hub{
		State:      NewBus[StateChanged](),
		Damage:     NewBus[Damage](),
		Kill:       NewBus[Kill](),
		Score:      NewBus[ScoreDeposit](),
		Projectile: NewBus[ProjectileRequest](),
		Respawn:    NewBus[RespawnPending](),
	}
}
