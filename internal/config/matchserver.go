package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Balance holds every tunable gameplay constant in one place. The simulation
// layer receives this table by reference at match start and treats it as
// read-only; there are no package-level knobs.
type Balance struct {
	// DefenseConstant is the shared K in both the damage mitigation and
	// effective-HP formulas. One field on purpose: the two formulas must
	// never draw from separately tuned values.
	DefenseConstant float64 `yaml:"defense_constant"`

	// SynergyMultipliers[n-1] is the channel-time multiplier with n nearby
	// allies. Zero allies means multiplier 1.0. Kept as a table because the
	// design docs disagree on phrasing; this is the single source.
	SynergyMultipliers []float64 `yaml:"synergy_multipliers"`

	// BaseChannelTime is the unmodified orb deposit time in seconds.
	BaseChannelTime float64 `yaml:"base_channel_time"`

	// Basic attack RSB coefficients and combo scaling.
	AttackRatio      float64   `yaml:"attack_ratio"`   // R
	AttackScaling    float64   `yaml:"attack_scaling"` // S
	AttackBase       float64   `yaml:"attack_base"`    // B
	ComboDamageScale []float64 `yaml:"combo_damage_scale"`

	// State timing windows, seconds.
	MaxJumpTime          float64 `yaml:"max_jump_time"`
	AttackDuration       float64 `yaml:"attack_duration"`
	AttackHitWindowStart float64 `yaml:"attack_hit_window_start"`
	AttackHitWindowEnd   float64 `yaml:"attack_hit_window_end"`
	ComboCap             int32   `yaml:"combo_cap"`
	ComboResetWindow     float64 `yaml:"combo_reset_window"`
	CastCommitFraction   float64 `yaml:"cast_commit_fraction"`
	DeathDuration        float64 `yaml:"death_duration"`
	DeathAnimFraction    float64 `yaml:"death_anim_fraction"`
	DeathEffectsFraction float64 `yaml:"death_effects_fraction"`

	// Ultimate energy economy.
	EnergyRegenPerSecond float64 `yaml:"energy_regen_per_second"`
	EnergyPerHit         float64 `yaml:"energy_per_hit"`
	EnergyPerOrb         float64 `yaml:"energy_per_orb"`
	UltimateEnergyRate   float64 `yaml:"ultimate_energy_rate"`
}

// DefaultBalance returns the shipped balance table.
func DefaultBalance() Balance {
	return Balance{
		DefenseConstant:      600,
		SynergyMultipliers:   []float64{0.70, 0.65, 0.60, 0.40},
		BaseChannelTime:      4.0,
		AttackRatio:          1.0,
		AttackScaling:        5,
		AttackBase:           10,
		ComboDamageScale:     []float64{1.0, 1.15, 1.35},
		MaxJumpTime:          0.5,
		AttackDuration:       0.8,
		AttackHitWindowStart: 0.3,
		AttackHitWindowEnd:   0.5,
		ComboCap:             3,
		ComboResetWindow:     2.0,
		CastCommitFraction:   0.5,
		DeathDuration:        3.0,
		DeathAnimFraction:    0.5,
		DeathEffectsFraction: 0.8,
		EnergyRegenPerSecond: 1.0,
		EnergyPerHit:         2.5,
		EnergyPerOrb:         1.5,
		UltimateEnergyRate:   20,
	}
}

// SynergyMultiplier returns the channel-time multiplier for the given
// nearby-ally count. Counts beyond the table use the last entry.
func (b Balance) SynergyMultiplier(allies int) float64 {
	if allies <= 0 || len(b.SynergyMultipliers) == 0 {
		return 1.0
	}
	if allies > len(b.SynergyMultipliers) {
		allies = len(b.SynergyMultipliers)
	}
	return b.SynergyMultipliers[allies-1]
}

// RosterEntry assigns one account a hero lane at match start.
type RosterEntry struct {
	AccountLogin string  `yaml:"account_login"`
	HeroID       string  `yaml:"hero_id"`
	Team         int16   `yaml:"team"`
	Level        int32   `yaml:"level"`
	SpawnX       float64 `yaml:"spawn_x"`
	SpawnY       float64 `yaml:"spawn_y"`
	SpawnZ       float64 `yaml:"spawn_z"`
}

// MatchServer holds all configuration for the match server.
type MatchServer struct {
	// Logging
	LogLevel string `yaml:"log_level" env:"ORBRUSH_LOG_LEVEL"`

	// Simulation
	TickRate      int     `yaml:"tick_rate" env:"ORBRUSH_TICK_RATE"`           // ticks per second
	MatchDuration float64 `yaml:"match_duration" env:"ORBRUSH_MATCH_DURATION"` // seconds

	// Roster spawned at match start.
	Roster []RosterEntry `yaml:"roster"`

	// Data files; empty means embedded defaults.
	HeroDataPath    string `yaml:"hero_data_path" env:"ORBRUSH_HERO_DATA"`
	AbilityDataPath string `yaml:"ability_data_path" env:"ORBRUSH_ABILITY_DATA"`

	// Database
	Database DatabaseConfig `yaml:"database"`

	// Balance
	Balance Balance `yaml:"balance"`
}

// RosterLogins returns the distinct account logins on the roster, in
// first-appearance order. Entries without a login are skipped.
func (m MatchServer) RosterLogins() []string {
	seen := make(map[string]bool, len(m.Roster))
	var out []string
	for _, e := range m.Roster {
		if e.AccountLogin == "" || seen[e.AccountLogin] {
			continue
		}
		seen[e.AccountLogin] = true
		out = append(out, e.AccountLogin)
	}
	return out
}

// DefaultMatchServer returns MatchServer config with sensible defaults.
func DefaultMatchServer() MatchServer {
	return MatchServer{
		LogLevel:      "info",
		TickRate:      50,
		MatchDuration: 300,
		Database:      DefaultDatabase(),
		Balance:       DefaultBalance(),
	}
}

// LoadMatchServer loads match server config from a YAML file, then applies
// environment overrides. If the file doesn't exist, returns defaults.
func LoadMatchServer(path string) (MatchServer, error) {
	cfg := DefaultMatchServer()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return cfg, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("applying env overrides: %w", err)
	}

	if cfg.TickRate <= 0 {
		return cfg, fmt.Errorf("tick_rate must be positive, got %d", cfg.TickRate)
	}

	return cfg, nil
}
