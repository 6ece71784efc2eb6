package combat

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/kyrelis/orbrush/internal/config"
	"github.com/kyrelis/orbrush/internal/events"
	"github.com/kyrelis/orbrush/internal/model"
)

// AttackIntent is one basic-attack hit queued during the state-update phase.
// The resolver reads the attacker's stats at resolve time.
type AttackIntent struct {
	AttackerID uint32
	TargetID   uint32
	ComboCount int32
}

// SpellHitIntent is a completed cast whose raw damage was fixed at cast
// completion (the caster's stats at that instant). Mitigation still happens
// in the resolve phase against the defender's current defense.
type SpellHitIntent struct {
	CasterID  uint32
	TargetID  uint32
	AbilityID string
	RawDamage int32
}

// IntentQueue collects cross-hero combat effects during the per-hero update
// phase. States append here instead of writing to other heroes, so all
// two-hero mutations happen in one serialized resolve pass.
type IntentQueue struct {
	mu      sync.Mutex
	attacks []AttackIntent
	spells  []SpellHitIntent
}

// NewIntentQueue creates an empty queue.
func NewIntentQueue() *IntentQueue {
	return &IntentQueue{}
}

// AddAttack enqueues a basic-attack hit.
func (q *IntentQueue) AddAttack(in AttackIntent) {
	q.mu.Lock()
	q.attacks = append(q.attacks, in)
	q.mu.Unlock()
}

// AddSpellHit enqueues a completed cast hit.
func (q *IntentQueue) AddSpellHit(in SpellHitIntent) {
	q.mu.Lock()
	q.spells = append(q.spells, in)
	q.mu.Unlock()
}

// drain removes and returns all queued intents.
func (q *IntentQueue) drain() ([]AttackIntent, []SpellHitIntent) {
	q.mu.Lock()
	defer q.mu.Unlock()
	attacks, spells := q.attacks, q.spells
	q.attacks, q.spells = nil, nil
	return attacks, spells
}

// Len returns the number of queued intents.
func (q *IntentQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.attacks) + len(q.spells)
}

// HeroLookup resolves a hero by runtime id. Injected by the match loop to
// avoid an import cycle with the package owning the hero registry.
type HeroLookup func(id uint32) (*model.Hero, bool)

// ApplyDamageFunc delivers mitigated damage to the victim's state machine,
// which owns the death transition and cast-interrupt rules. Returns the
// victim's remaining HP and whether this hit killed them; ok is false when
// the victim is unknown or already dead.
type ApplyDamageFunc func(victimID uint32, amount int32) (remainingHP int32, killed bool, ok bool)

// Resolver applies queued combat intents after all per-hero updates finish.
// Intents are sorted before application, so the outcome of a tick does not
// depend on hero iteration order.
type Resolver struct {
	formulas *Formulas
	bal      *config.Balance
	queue    *IntentQueue
	hub      *events.Hub
	lookup   HeroLookup
	apply    ApplyDamageFunc
}

// NewResolver creates a resolver over the shared intent queue.
func NewResolver(formulas *Formulas, bal *config.Balance, queue *IntentQueue, hub *events.Hub, lookup HeroLookup, apply ApplyDamageFunc) *Resolver {
	return &Resolver{
		formulas: formulas,
		bal:      bal,
		queue:    queue,
		hub:      hub,
		lookup:   lookup,
		apply:    apply,
	}
}

// Resolve drains the queue and applies every intent in deterministic order:
// attacks first, then spell hits, each sorted by (attacker, target).
func (r *Resolver) Resolve(tick uint64) {
	attacks, spells := r.queue.drain()

	sort.Slice(attacks, func(i, j int) bool {
		if attacks[i].AttackerID != attacks[j].AttackerID {
			return attacks[i].AttackerID < attacks[j].AttackerID
		}
		return attacks[i].TargetID < attacks[j].TargetID
	})
	sort.Slice(spells, func(i, j int) bool {
		if spells[i].CasterID != spells[j].CasterID {
			return spells[i].CasterID < spells[j].CasterID
		}
		return spells[i].TargetID < spells[j].TargetID
	})

	for _, in := range attacks {
		r.resolveAttack(in, tick)
	}
	for _, in := range spells {
		r.resolveSpell(in, tick)
	}
}

func (r *Resolver) resolveAttack(in AttackIntent, tick uint64) {
	attacker, ok := r.lookup(in.AttackerID)
	if !ok || attacker.IsDead() {
		return
	}
	target, ok := r.lookup(in.TargetID)
	if !ok || target.IsDead() {
		return
	}

	raw, err := r.formulas.AttackDamage(float64(attacker.Strength()), attacker.Level(), in.ComboCount)
	if err != nil {
		slog.Error("attack damage computation failed",
			"attacker", in.AttackerID,
			"combo", in.ComboCount,
			"err", err)
		return
	}

	r.applyDamage(attacker, target, raw, tick)
}

func (r *Resolver) resolveSpell(in SpellHitIntent, tick uint64) {
	caster, ok := r.lookup(in.CasterID)
	if !ok {
		// Caster may have died after committing the cast; the hit still lands.
		caster = nil
	}
	target, ok := r.lookup(in.TargetID)
	if !ok || target.IsDead() {
		return
	}

	r.applyDamage(caster, target, in.RawDamage, tick)
}

// applyDamage runs mitigation, hands the hit to the victim's state machine,
// awards attacker energy, and publishes damage/kill events. attacker may be
// nil (posthumous spell).
func (r *Resolver) applyDamage(attacker *model.Hero, target *model.Hero, raw int32, tick uint64) {
	mitigated, err := r.formulas.MitigateDamage(raw, target.Defense())
	if err != nil {
		slog.Error("damage mitigation failed",
			"target", target.ID(),
			"defense", target.Defense(),
			"err", err)
		return
	}

	remaining, killed, ok := r.apply(target.ID(), mitigated)
	if !ok {
		return
	}

	var attackerID uint32
	if attacker != nil {
		attackerID = attacker.ID()
		attacker.AddEnergy(r.bal.EnergyPerHit)
	}

	r.hub.Damage.Publish(events.Damage{
		AttackerID: attackerID,
		VictimID:   target.ID(),
		Raw:        raw,
		Mitigated:  mitigated,
		VictimHP:   remaining,
		Tick:       tick,
	})

	if killed {
		r.hub.Kill.Publish(events.Kill{
			KillerID: attackerID,
			VictimID: target.ID(),
			Tick:     tick,
		})
	}
}
