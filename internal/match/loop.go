package match

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/kyrelis/orbrush/internal/config"
	"github.com/kyrelis/orbrush/internal/data"
	"github.com/kyrelis/orbrush/internal/events"
	"github.com/kyrelis/orbrush/internal/game/combat"
	"github.com/kyrelis/orbrush/internal/game/score"
	"github.com/kyrelis/orbrush/internal/game/state"
	"github.com/kyrelis/orbrush/internal/model"
	"github.com/kyrelis/orbrush/internal/spawn"
)

// InputSource supplies the per-tick input frame for each hero. The gateway
// collaborator implements this; tests and bots use InputFunc.
type InputSource interface {
	Frame(heroID uint32) model.InputFrame
}

// InputFunc adapts a function to InputSource.
type InputFunc func(heroID uint32) model.InputFrame

// Frame implements InputSource.
func (f InputFunc) Frame(heroID uint32) model.InputFrame {
	return f(heroID)
}

// AnimationFactory builds the animation sink for a newly spawned hero.
// Nil means all animation intent is discarded.
type AnimationFactory func(heroID uint32) state.AnimationSink

type lane struct {
	hero   *model.Hero
	driver *state.Driver
}

// Match is one running arena simulation: the hero lanes, the shared intent
// queue, and the resolve-phase machinery. One Match per map instance; all
// cross-hero effects funnel through the resolver.
type Match struct {
	id       uuid.UUID
	bal      *config.Balance
	catalog  *data.Catalog
	hub      *events.Hub
	formulas *combat.Formulas
	intents  *combat.IntentQueue
	resolver *combat.Resolver
	board    *score.Scoreboard
	deposits *score.Tracker

	inputs    InputSource
	animation AnimationFactory

	dt           float64
	tickInterval time.Duration

	mu    sync.RWMutex
	lanes map[uint32]*lane

	nextID atomic.Uint32
	tick   atomic.Uint64

	stopCh chan struct{}
}

// New creates a match over the given balance table and catalog.
// tickRate is simulation ticks per second.
func New(bal *config.Balance, catalog *data.Catalog, tickRate int, inputs InputSource, animation AnimationFactory) *Match {
	if inputs == nil {
		inputs = InputFunc(func(uint32) model.InputFrame { return model.InputFrame{Grounded: true} })
	}

	hub := events.NewHub()
	formulas := combat.NewFormulas(bal)
	intents := combat.NewIntentQueue()
	board := score.NewScoreboard()

	m := &Match{
		id:           uuid.New(),
		bal:          bal,
		catalog:      catalog,
		hub:          hub,
		formulas:     formulas,
		intents:      intents,
		board:        board,
		deposits:     score.NewTracker(formulas, bal, board, hub),
		inputs:       inputs,
		animation:    animation,
		dt:           1.0 / float64(tickRate),
		tickInterval: time.Second / time.Duration(tickRate),
		lanes:        make(map[uint32]*lane),
		stopCh:       make(chan struct{}),
	}
	m.resolver = combat.NewResolver(formulas, bal, intents, hub, m.lookupHero, m.applyDamage)
	return m
}

// ID returns the match correlation id.
func (m *Match) ID() uuid.UUID {
	return m.id
}

// Hub returns the match event hub.
func (m *Match) Hub() *events.Hub {
	return m.hub
}

// Scoreboard returns the match scoreboard.
func (m *Match) Scoreboard() *score.Scoreboard {
	return m.board
}

// Spawn runs the spawn pipeline for one request and registers the hero
// with its own state machine lane.
func (m *Match) Spawn(req spawn.Request) (*model.Hero, error) {
	p := spawn.NewPipeline(m.catalog, m.allocateID, nil, m.register)
	return p.Run(req)
}

func (m *Match) allocateID() (uint32, error) {
	return m.nextID.Add(1), nil
}

func (m *Match) register(hero *model.Hero) error {
	var sink state.AnimationSink
	if m.animation != nil {
		sink = m.animation(hero.ID())
	}

	env := &state.Env{
		Hero:      hero,
		Balance:   m.bal,
		Formulas:  m.formulas,
		Catalog:   m.catalog,
		Animation: sink,
		Intents:   m.intents,
		Hub:       m.hub,
	}
	driver := state.NewDriver(env)
	if err := driver.Initialize(state.NewIdle()); err != nil {
		return fmt.Errorf("initializing state machine: %w", err)
	}

	m.mu.Lock()
	m.lanes[hero.ID()] = &lane{hero: hero, driver: driver}
	m.mu.Unlock()
	return nil
}

// Remove unregisters a hero (disconnect). Any in-progress deposit is lost.
func (m *Match) Remove(heroID uint32) {
	m.deposits.Cancel(heroID)
	m.mu.Lock()
	delete(m.lanes, heroID)
	m.mu.Unlock()
}

// Hero returns a hero by runtime id.
func (m *Match) Hero(heroID uint32) (*model.Hero, bool) {
	return m.lookupHero(heroID)
}

// StateName returns the HUD state name for a hero.
func (m *Match) StateName(heroID uint32) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ln, ok := m.lanes[heroID]
	if !ok {
		return "", false
	}
	return ln.driver.StateName(), true
}

func (m *Match) lookupHero(heroID uint32) (*model.Hero, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ln, ok := m.lanes[heroID]
	if !ok {
		return nil, false
	}
	return ln.hero, true
}

// applyDamage is the resolver's write path into a victim: the state machine
// owns the death transition and cast-interrupt rules, and any deposit the
// victim was channeling is broken.
func (m *Match) applyDamage(victimID uint32, amount int32) (int32, bool, bool) {
	m.mu.RLock()
	ln, ok := m.lanes[victimID]
	m.mu.RUnlock()
	if !ok || ln.driver.ActiveKind() == state.KindDead {
		return 0, false, false
	}

	killed := ln.driver.NotifyDamage(amount)
	m.deposits.Cancel(victimID)
	return ln.hero.CurrentHP(), killed, true
}

// ApplyDamage queues externally-sourced raw damage (projectile hits from
// the effect collaborator) for the next resolve phase. sourceID may be zero
// for environmental damage.
func (m *Match) ApplyDamage(sourceID, victimID uint32, raw int32) {
	m.intents.AddSpellHit(combat.SpellHitIntent{
		CasterID:  sourceID,
		TargetID:  victimID,
		RawDamage: raw,
	})
}

// ApplyStun applies hard crowd control to a hero immediately.
func (m *Match) ApplyStun(heroID uint32, duration float64) {
	m.mu.RLock()
	ln, ok := m.lanes[heroID]
	m.mu.RUnlock()
	if !ok {
		return
	}
	ln.driver.NotifyStun(duration)
	m.deposits.Cancel(heroID)
}

// BeginDeposit starts channeling the hero's carried orbs. The hero must be
// standing still (Idle); movement or damage breaks the channel.
func (m *Match) BeginDeposit(heroID uint32, nearbyAllies int, speedFactors []float64) error {
	m.mu.RLock()
	ln, ok := m.lanes[heroID]
	m.mu.RUnlock()
	if !ok {
		return fmt.Errorf("unknown hero %d", heroID)
	}
	if ln.driver.ActiveKind() != state.KindIdle {
		return fmt.Errorf("hero %d must stand still to deposit (state %s)", heroID, ln.driver.StateName())
	}
	return m.deposits.Begin(ln.hero, nearbyAllies, speedFactors)
}

// DepositProgress returns a hero's channel completion in [0, 1].
func (m *Match) DepositProgress(heroID uint32) (float64, bool) {
	return m.deposits.Progress(heroID)
}

// UltimateReadyIn estimates the seconds of passive accrual left until the
// hero's ultimate energy is full, for the HUD. Zero means ready now; hits
// and deposits shorten the estimate between calls.
func (m *Match) UltimateReadyIn(heroID uint32) (float64, bool) {
	hero, ok := m.lookupHero(heroID)
	if !ok {
		return 0, false
	}
	missing := hero.EnergyCap() - hero.Energy()
	if missing <= 0 {
		return 0, true
	}
	eta, err := combat.UltimateCooldown(missing, m.bal.UltimateEnergyRate)
	if err != nil {
		slog.Error("ultimate readiness computation failed",
			"hero", heroID,
			"rate", m.bal.UltimateEnergyRate,
			"err", err)
		return 0, false
	}
	return eta, true
}

// Run drives the fixed-tick simulation until the context is cancelled or
// Stop is called.
func (m *Match) Run(ctx context.Context) error {
	ticker := time.NewTicker(m.tickInterval)
	defer ticker.Stop()

	slog.Info("match loop started",
		"match", m.id,
		"interval", m.tickInterval)

	for {
		select {
		case <-ctx.Done():
			slog.Info("match loop stopping", "match", m.id)
			return ctx.Err()

		case <-m.stopCh:
			slog.Info("match loop stopped", "match", m.id)
			return nil

		case <-ticker.C:
			m.TickOnce()
		}
	}
}

// Stop stops the match loop.
func (m *Match) Stop() {
	close(m.stopCh)
}

// Tick returns the current simulation tick number.
func (m *Match) Tick() uint64 {
	return m.tick.Load()
}

// TickOnce advances the simulation one fixed step: the per-hero update
// phase fans out across lanes (contexts are independent), then the resolve
// phase applies all cross-hero effects in one serialized pass.
func (m *Match) TickOnce() {
	t := m.tick.Add(1)

	m.mu.RLock()
	ordered := make([]*lane, 0, len(m.lanes))
	for _, ln := range m.lanes {
		ordered = append(ordered, ln)
	}
	m.mu.RUnlock()
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].hero.ID() < ordered[j].hero.ID() })

	var g errgroup.Group
	for _, ln := range ordered {
		g.Go(func() error {
			ln.driver.Tick(m.inputs.Frame(ln.hero.ID()), m.dt)
			return nil
		})
	}
	// Lane updates never return errors; the group is only a join point.
	_ = g.Wait()

	m.resolver.Resolve(t)

	// Channeling requires standing still; any lane that left Idle this tick
	// loses its channel progress.
	for _, ln := range ordered {
		if ln.driver.ActiveKind() != state.KindIdle {
			m.deposits.Cancel(ln.hero.ID())
		}
	}
	m.deposits.Tick(m.dt, t)
}
