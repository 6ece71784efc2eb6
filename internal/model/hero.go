package model

import "sync"

// TeamID identifies which side a hero fights for.
type TeamID int32

// Hero is the mutable character context the state machine operates on.
// It is created by the spawn pipeline, mutated by the active state and by
// the combat resolve phase, and reset in place on respawn.
//
// Invariants: 0 <= currentHP <= maxHP, 0 <= energy <= energyCap.
// All setters clamp; callers never see out-of-range values.
type Hero struct {
	mu sync.RWMutex

	id      uint32
	heroID  string // catalog template id, e.g. "Bruiser"
	team    TeamID
	level   int32

	position Vec3
	velocity Vec3 // movement command for the physics collaborator
	spawn    Vec3

	currentHP int32
	maxHP     int32

	energy    float64
	energyCap float64

	defense   int32
	strength  int32
	agility   int32
	intellect int32

	moveSpeed float64 // units per second
	hpRegen   float64 // HP per second, derived from strength

	// Combo state persists across Attacking instances: the counter carries
	// over while chains continue and decays after the reset window.
	comboCount int32
	comboIdle  float64 // seconds since the last attack started

	// Carried score orbs, converted to team score by channeling.
	orbs int32

	deathOnce sync.Once // first ReduceHP to zero wins; reset on respawn
}

// HeroParams carries the validated values the spawn pipeline assembles.
type HeroParams struct {
	ID        uint32
	HeroID    string
	Team      TeamID
	Level     int32
	Spawn     Vec3
	MaxHP     int32
	EnergyCap float64
	Defense   int32
	Strength  int32
	Agility   int32
	Intellect int32
	MoveSpeed float64
	HPRegen   float64
}

// NewHero creates a hero at full health with empty energy.
func NewHero(p HeroParams) *Hero {
	return &Hero{
		id:        p.ID,
		heroID:    p.HeroID,
		team:      p.Team,
		level:     p.Level,
		position:  p.Spawn,
		spawn:     p.Spawn,
		currentHP: p.MaxHP,
		maxHP:     p.MaxHP,
		energyCap: p.EnergyCap,
		defense:   p.Defense,
		strength:  p.Strength,
		agility:   p.Agility,
		intellect: p.Intellect,
		moveSpeed: p.MoveSpeed,
		hpRegen:   p.HPRegen,
	}
}

// ID returns the hero's runtime object id.
func (h *Hero) ID() uint32 {
	return h.id
}

// HeroID returns the catalog template id this hero was spawned from.
func (h *Hero) HeroID() string {
	return h.heroID
}

// Team returns the hero's team.
func (h *Hero) Team() TeamID {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.team
}

// Level returns the hero's level.
func (h *Hero) Level() int32 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.level
}

// Position returns the current world position.
func (h *Hero) Position() Vec3 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.position
}

// SetPosition sets the current world position.
func (h *Hero) SetPosition(p Vec3) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.position = p
}

// Spawn returns the hero's spawn point.
func (h *Hero) Spawn() Vec3 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.spawn
}

// Velocity returns the current movement command.
func (h *Hero) Velocity() Vec3 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.velocity
}

// SetVelocity sets the movement command consumed by the physics collaborator.
func (h *Hero) SetVelocity(v Vec3) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.velocity = v
}

// MoveSpeed returns base movement speed in units per second.
func (h *Hero) MoveSpeed() float64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.moveSpeed
}

// CurrentHP returns current health.
func (h *Hero) CurrentHP() int32 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.currentHP
}

// MaxHP returns maximum health.
func (h *Hero) MaxHP() int32 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.maxHP
}

// SetCurrentHP sets current health, clamped to [0, maxHP].
func (h *Hero) SetCurrentHP(hp int32) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.currentHP = clamp32(hp, 0, h.maxHP)
}

// ReduceHP subtracts damage from current health (floor 0).
// Returns true exactly once when this call brings the hero to zero;
// concurrent or repeated damage after death returns false.
func (h *Hero) ReduceHP(damage int32) bool {
	if damage < 0 {
		damage = 0
	}

	h.mu.Lock()
	h.currentHP = max(h.currentHP-damage, 0)
	dead := h.currentHP == 0
	h.mu.Unlock()

	if !dead {
		return false
	}

	killed := false
	h.deathOnce.Do(func() { killed = true })
	return killed
}

// Heal adds health up to the maximum.
func (h *Hero) Heal(amount int32) {
	if amount < 0 {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.currentHP = clamp32(h.currentHP+amount, 0, h.maxHP)
}

// IsDead reports whether current health is zero.
func (h *Hero) IsDead() bool {
	return h.CurrentHP() <= 0
}

// HPRegen returns health regeneration in HP per second.
func (h *Hero) HPRegen() float64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.hpRegen
}

// Energy returns current ultimate energy.
func (h *Hero) Energy() float64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.energy
}

// EnergyCap returns the ultimate energy cap.
func (h *Hero) EnergyCap() float64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.energyCap
}

// AddEnergy accumulates ultimate energy, clamped to [0, cap].
func (h *Hero) AddEnergy(amount float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.energy += amount
	if h.energy < 0 {
		h.energy = 0
	}
	if h.energy > h.energyCap {
		h.energy = h.energyCap
	}
}

// SpendEnergy deducts the given amount if available; returns false otherwise.
func (h *Hero) SpendEnergy(amount float64) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.energy < amount {
		return false
	}
	h.energy -= amount
	return true
}

// Defense returns the hero's defense rating.
func (h *Hero) Defense() int32 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.defense
}

// Strength returns the physical primary stat.
func (h *Hero) Strength() int32 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.strength
}

// Agility returns the agility primary stat.
func (h *Hero) Agility() int32 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.agility
}

// Intellect returns the magic primary stat.
func (h *Hero) Intellect() int32 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.intellect
}

// PrimaryStat returns the stat an ability scales from by damage type.
func (h *Hero) PrimaryStat(damageType string) int32 {
	switch damageType {
	case "magic":
		return h.Intellect()
	case "ranged":
		return h.Agility()
	default:
		return h.Strength()
	}
}

// ComboCount returns the current attack combo counter.
func (h *Hero) ComboCount() int32 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.comboCount
}

// AdvanceCombo increments the combo counter up to the given cap and
// restarts the idle decay window. Returns the new count.
func (h *Hero) AdvanceCombo(cap int32) int32 {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.comboCount < cap {
		h.comboCount++
	}
	h.comboIdle = 0
	return h.comboCount
}

// TickComboDecay advances the combo idle timer and resets the counter once
// the window elapses. Called every tick the hero is not starting an attack.
func (h *Hero) TickComboDecay(dt, window float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.comboCount == 0 {
		return
	}
	h.comboIdle += dt
	if h.comboIdle > window {
		h.comboCount = 0
		h.comboIdle = 0
	}
}

// ResetCombo clears the combo counter immediately.
func (h *Hero) ResetCombo() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.comboCount = 0
	h.comboIdle = 0
}

// Orbs returns the number of carried score orbs.
func (h *Hero) Orbs() int32 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.orbs
}

// AddOrbs adds picked-up score orbs.
func (h *Hero) AddOrbs(n int32) {
	if n < 0 {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.orbs += n
}

// TakeOrbs removes and returns all carried orbs (deposit completed or death).
func (h *Hero) TakeOrbs() int32 {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := h.orbs
	h.orbs = 0
	return n
}

// Respawn resets the hero in place: full health, cleared combo and velocity,
// back at the spawn point. This is the typed reset capability the Dead state
// invokes directly; both sides agree on "health back to max" through this
// one method. Carried energy survives death, carried orbs do not.
func (h *Hero) Respawn() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.currentHP = h.maxHP
	h.velocity = Vec3{}
	h.position = h.spawn
	h.comboCount = 0
	h.comboIdle = 0
	h.orbs = 0
	h.deathOnce = sync.Once{}
}

func clamp32(v, lo, hi int32) int32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
