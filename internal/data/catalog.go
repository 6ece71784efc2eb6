package data

import "fmt"

// HeroTemplate holds the base stats a hero class spawns with.
// Templates are immutable after load; lookups hand out copies.
type HeroTemplate struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`

	BaseHP        int32   `yaml:"base_hp"`
	HPPerLevel    int32   `yaml:"hp_per_level"`
	BaseDefense   int32   `yaml:"base_defense"`
	DefPerLevel   int32   `yaml:"def_per_level"`
	BaseStrength  int32   `yaml:"base_strength"`
	BaseAgility   int32   `yaml:"base_agility"`
	BaseIntellect int32   `yaml:"base_intellect"`
	StatPerLevel  int32   `yaml:"stat_per_level"`
	MoveSpeed     float64 `yaml:"move_speed"`
	EnergyCap     float64 `yaml:"energy_cap"`

	Abilities []string `yaml:"abilities"`
}

// Ability is one ability definition: RSB scaling coefficients plus timing
// and projectile parameters. Referenced by id, never shared mutably.
type Ability struct {
	ID         string  `yaml:"id"`
	Name       string  `yaml:"name"`
	DamageType string  `yaml:"damage_type"` // "physical", "ranged" or "magic"
	BaseDamage float64 `yaml:"base_damage"` // B in the RSB model
	Ratio      float64 `yaml:"ratio"`       // R: primary-stat multiplier
	Scaling    float64 `yaml:"scaling"`     // S: per-level bonus
	Range      float64 `yaml:"range"`
	CastTime   float64 `yaml:"cast_time"` // seconds
	Cooldown   float64 `yaml:"cooldown"`  // seconds

	ProjectileSpeed    float64 `yaml:"projectile_speed"`
	ProjectileLifetime float64 `yaml:"projectile_lifetime"`
}

// NotFoundError reports a missing catalog record. Absence of a template is
// a first-class error, not a nil.
type NotFoundError struct {
	Kind string // "hero" or "ability"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s template not found: %q", e.Kind, e.ID)
}

// Catalog is the read-only hero/ability registry. Built once at startup,
// safe for concurrent reads from all match lanes afterwards.
type Catalog struct {
	heroes    map[string]HeroTemplate
	abilities map[string]Ability
}

// Hero looks up a hero template by id.
func (c *Catalog) Hero(id string) (HeroTemplate, error) {
	tmpl, ok := c.heroes[id]
	if !ok {
		return HeroTemplate{}, &NotFoundError{Kind: "hero", ID: id}
	}
	return tmpl, nil
}

// Ability looks up an ability record by id.
func (c *Catalog) Ability(id string) (Ability, error) {
	ab, ok := c.abilities[id]
	if !ok {
		return Ability{}, &NotFoundError{Kind: "ability", ID: id}
	}
	return ab, nil
}

// HeroCount returns the number of registered hero templates.
func (c *Catalog) HeroCount() int {
	return len(c.heroes)
}

// AbilityCount returns the number of registered ability records.
func (c *Catalog) AbilityCount() int {
	return len(c.abilities)
}

// StatsAtLevel returns the template's derived stat block for a level.
// Level is clamped to [1, 30] (match level range).
func (t HeroTemplate) StatsAtLevel(level int32) LevelStats {
	if level < 1 {
		level = 1
	}
	if level > 30 {
		level = 30
	}
	grown := level - 1
	return LevelStats{
		MaxHP:     t.BaseHP + t.HPPerLevel*grown,
		Defense:   t.BaseDefense + t.DefPerLevel*grown,
		Strength:  t.BaseStrength + t.StatPerLevel*grown,
		Agility:   t.BaseAgility + t.StatPerLevel*grown,
		Intellect: t.BaseIntellect + t.StatPerLevel*grown,
	}
}

// LevelStats is a hero template evaluated at a concrete level.
type LevelStats struct {
	MaxHP     int32
	Defense   int32
	Strength  int32
	Agility   int32
	Intellect int32
}
