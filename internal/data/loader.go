package data

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults/heroes.yaml
var defaultHeroes []byte

//go:embed defaults/abilities.yaml
var defaultAbilities []byte

type heroFile struct {
	Heroes []HeroTemplate `yaml:"heroes"`
}

type abilityFile struct {
	Abilities []Ability `yaml:"abilities"`
}

// Load builds a Catalog from the given YAML files. Empty paths (or missing
// files) fall back to the embedded defaults so the server runs without a
// data directory. Catalog reload, if ever needed, means building a new
// Catalog between ticks — a built Catalog is never mutated.
func Load(heroPath, abilityPath string) (*Catalog, error) {
	heroData, err := readOrDefault(heroPath, defaultHeroes)
	if err != nil {
		return nil, err
	}
	abilityData, err := readOrDefault(abilityPath, defaultAbilities)
	if err != nil {
		return nil, err
	}

	var hf heroFile
	if err := yaml.Unmarshal(heroData, &hf); err != nil {
		return nil, fmt.Errorf("parsing hero templates: %w", err)
	}
	var af abilityFile
	if err := yaml.Unmarshal(abilityData, &af); err != nil {
		return nil, fmt.Errorf("parsing ability records: %w", err)
	}

	c := &Catalog{
		heroes:    make(map[string]HeroTemplate, len(hf.Heroes)),
		abilities: make(map[string]Ability, len(af.Abilities)),
	}

	for _, ab := range af.Abilities {
		if ab.ID == "" {
			return nil, fmt.Errorf("ability record with empty id")
		}
		if _, dup := c.abilities[ab.ID]; dup {
			return nil, fmt.Errorf("duplicate ability id %q", ab.ID)
		}
		c.abilities[ab.ID] = ab
	}

	for _, h := range hf.Heroes {
		if h.ID == "" {
			return nil, fmt.Errorf("hero template with empty id")
		}
		if _, dup := c.heroes[h.ID]; dup {
			return nil, fmt.Errorf("duplicate hero id %q", h.ID)
		}
		// Every referenced ability must resolve at load time, not mid-match.
		for _, abID := range h.Abilities {
			if _, ok := c.abilities[abID]; !ok {
				return nil, fmt.Errorf("hero %q references unknown ability %q", h.ID, abID)
			}
		}
		c.heroes[h.ID] = h
	}

	slog.Info("catalog loaded",
		"heroes", len(c.heroes),
		"abilities", len(c.abilities))

	return c, nil
}

func readOrDefault(path string, fallback []byte) ([]byte, error) {
	if path == "" {
		return fallback, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fallback, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}
