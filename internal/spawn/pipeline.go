package spawn

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/google/uuid"

	"github.com/kyrelis/orbrush/internal/data"
	"github.com/kyrelis/orbrush/internal/model"
)

// Stage is the spawn pipeline's state. Unlike the character FSM the
// pipeline is terminal-bearing: it runs once per spawn attempt and ends in
// Spawned or Error.
type Stage int32

const (
	StageIdle Stage = iota
	StageInitialSetup
	StageAssignBaseStats
	StageValidateStats
	StageFinalizeSpawn
	StageSpawned
	StageError
)

// String returns human-readable stage name.
func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "IDLE"
	case StageInitialSetup:
		return "INITIAL_SETUP"
	case StageAssignBaseStats:
		return "ASSIGN_BASE_STATS"
	case StageValidateStats:
		return "VALIDATE_STATS"
	case StageFinalizeSpawn:
		return "FINALIZE_SPAWN"
	case StageSpawned:
		return "SPAWNED"
	case StageError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Request drives one spawn attempt.
type Request struct {
	HeroID   string
	Team     model.TeamID
	Level    int32
	Position model.Vec3
}

// AllocationError reports a failed entity allocation or unresolvable
// spawn position.
type AllocationError struct {
	HeroID string
	Reason string
}

func (e *AllocationError) Error() string {
	return fmt.Sprintf("allocating spawn for %q: %s", e.HeroID, e.Reason)
}

// ValidationError reports structurally-invalid stat data that clamping
// could not correct. Merely out-of-range values are clamped with a warning
// and do not produce this.
type ValidationError struct {
	HeroID string
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validating stats for %q: invalid fields %v", e.HeroID, e.Fields)
}

// RegistrationError reports a failed world/scoreboard registration.
type RegistrationError struct {
	HeroID string
	Err    error
}

func (e *RegistrationError) Error() string {
	return fmt.Sprintf("registering %q: %v", e.HeroID, e.Err)
}

func (e *RegistrationError) Unwrap() error {
	return e.Err
}

// AllocateIDFunc hands out a runtime object id for the new hero.
// Injected by the match loop which owns the id space.
type AllocateIDFunc func() (uint32, error)

// ReleaseIDFunc returns an allocated id on rollback. May be nil.
type ReleaseIDFunc func(uint32)

// RegisterFunc registers the finished hero with the world/scoreboard
// collaborators. Injected to keep this package free of match dependencies.
type RegisterFunc func(*model.Hero) error

// Pipeline produces one validated Hero from one Request. A pipeline value
// is single-shot: after Spawned it is spent; after Error, Retry accepts a
// corrected request.
type Pipeline struct {
	catalog    *data.Catalog
	allocateID AllocateIDFunc
	releaseID  ReleaseIDFunc
	register   RegisterFunc

	stage     Stage
	attemptID uuid.UUID

	objectID uint32
	params   model.HeroParams
}

// NewPipeline creates a pipeline over the read-only catalog and the
// injected allocation/registration collaborators.
func NewPipeline(catalog *data.Catalog, allocateID AllocateIDFunc, releaseID ReleaseIDFunc, register RegisterFunc) *Pipeline {
	return &Pipeline{
		catalog:    catalog,
		allocateID: allocateID,
		releaseID:  releaseID,
		register:   register,
		stage:      StageIdle,
	}
}

// Stage returns the pipeline's current stage.
func (p *Pipeline) Stage() Stage {
	return p.stage
}

// AttemptID returns the correlation id of the current attempt.
func (p *Pipeline) AttemptID() uuid.UUID {
	return p.attemptID
}

// Run executes the pipeline: Idle → InitialSetup → AssignBaseStats →
// ValidateStats → FinalizeSpawn → Spawned. Any stage failure rolls back
// partial allocations and parks the pipeline in Error.
func (p *Pipeline) Run(req Request) (*model.Hero, error) {
	if p.stage != StageIdle {
		return nil, fmt.Errorf("pipeline not idle (stage %s); use Retry after Error", p.stage)
	}
	return p.run(req)
}

// Retry re-runs a failed pipeline with corrected parameters.
func (p *Pipeline) Retry(req Request) (*model.Hero, error) {
	if p.stage != StageError {
		return nil, fmt.Errorf("retry only valid from ERROR (stage %s)", p.stage)
	}
	p.stage = StageIdle
	return p.run(req)
}

func (p *Pipeline) run(req Request) (*model.Hero, error) {
	p.attemptID = uuid.New()

	log := slog.With("attempt", p.attemptID, "heroID", req.HeroID)

	if err := p.initialSetup(req); err != nil {
		return nil, p.fail(log, err)
	}

	tmpl, err := p.assignBaseStats(req)
	if err != nil {
		return nil, p.fail(log, err)
	}

	if err := p.validateStats(req, tmpl); err != nil {
		return nil, p.fail(log, err)
	}

	hero, err := p.finalizeSpawn()
	if err != nil {
		return nil, p.fail(log, err)
	}

	p.stage = StageSpawned
	log.Info("hero spawned",
		"objectID", hero.ID(),
		"team", req.Team,
		"level", hero.Level(),
		"hp", hero.CurrentHP())
	return hero, nil
}

// fail rolls back partial allocations and parks the pipeline in Error.
func (p *Pipeline) fail(log *slog.Logger, err error) error {
	if p.objectID != 0 && p.releaseID != nil {
		p.releaseID(p.objectID)
	}
	p.objectID = 0
	p.stage = StageError
	log.Error("spawn failed", "stage", p.stage, "err", err)
	return err
}

func (p *Pipeline) initialSetup(req Request) error {
	p.stage = StageInitialSetup

	if req.HeroID == "" {
		return &AllocationError{HeroID: req.HeroID, Reason: "empty hero id"}
	}
	if math.IsNaN(req.Position.X) || math.IsNaN(req.Position.Y) || math.IsNaN(req.Position.Z) {
		return &AllocationError{HeroID: req.HeroID, Reason: "spawn position is not a number"}
	}

	id, err := p.allocateID()
	if err != nil {
		return &AllocationError{HeroID: req.HeroID, Reason: err.Error()}
	}
	p.objectID = id
	return nil
}

func (p *Pipeline) assignBaseStats(req Request) (data.HeroTemplate, error) {
	p.stage = StageAssignBaseStats

	tmpl, err := p.catalog.Hero(req.HeroID)
	if err != nil {
		var nf *data.NotFoundError
		if errors.As(err, &nf) {
			return data.HeroTemplate{}, err
		}
		return data.HeroTemplate{}, fmt.Errorf("looking up hero template %q: %w", req.HeroID, err)
	}
	return tmpl, nil
}

// validateStats clamps out-of-range numeric values with a warning and
// recomputes derived values (regen) afterwards. Only structurally-invalid
// data — stats that are broken even after clamping — escalates to Error.
func (p *Pipeline) validateStats(req Request, tmpl data.HeroTemplate) error {
	p.stage = StageValidateStats

	level := req.Level
	if level < 1 || level > 30 {
		slog.Warn("spawn level out of range, clamped",
			"attempt", p.attemptID,
			"requested", req.Level)
		level = min(max(level, 1), 30)
	}

	stats := tmpl.StatsAtLevel(level)

	var invalid []string
	if stats.MaxHP <= 0 {
		invalid = append(invalid, "max_hp")
	}
	if tmpl.MoveSpeed <= 0 {
		invalid = append(invalid, "move_speed")
	}
	if tmpl.EnergyCap <= 0 {
		invalid = append(invalid, "energy_cap")
	}
	if len(invalid) > 0 {
		return &ValidationError{HeroID: req.HeroID, Fields: invalid}
	}

	if stats.Defense < 0 {
		slog.Warn("negative defense clamped to zero",
			"attempt", p.attemptID,
			"defense", stats.Defense)
		stats.Defense = 0
	}

	p.params = model.HeroParams{
		ID:        p.objectID,
		HeroID:    tmpl.ID,
		Team:      req.Team,
		Level:     level,
		Spawn:     req.Position,
		MaxHP:     stats.MaxHP,
		EnergyCap: tmpl.EnergyCap,
		Defense:   stats.Defense,
		Strength:  stats.Strength,
		Agility:   stats.Agility,
		Intellect: stats.Intellect,
		MoveSpeed: tmpl.MoveSpeed,
		// Derived value, recomputed after clamps: regen scales with strength.
		HPRegen: 0.5 + float64(stats.Strength)*0.02,
	}
	return nil
}

func (p *Pipeline) finalizeSpawn() (*model.Hero, error) {
	p.stage = StageFinalizeSpawn

	hero := model.NewHero(p.params)
	if p.register != nil {
		if err := p.register(hero); err != nil {
			return nil, &RegistrationError{HeroID: p.params.HeroID, Err: err}
		}
	}
	return hero, nil
}
