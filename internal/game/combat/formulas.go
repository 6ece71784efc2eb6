package combat

import (
	"errors"
	"fmt"
	"math"

	"github.com/kyrelis/orbrush/internal/config"
)

// ErrInvalidParameter marks an out-of-domain formula input. Formula
// functions fail loudly instead of clamping: the values feed directly into
// gameplay-visible numbers, so a bad input is a bug that must surface at
// the call site, not three systems later.
var ErrInvalidParameter = errors.New("invalid parameter")

// Formulas is the deterministic damage/scoring math, parameterized by the
// balance table. Every function is pure: identical inputs always produce
// identical outputs, which server/client reconciliation depends on.
type Formulas struct {
	bal *config.Balance
}

// NewFormulas creates the formula set bound to a balance table.
func NewFormulas(bal *config.Balance) *Formulas {
	return &Formulas{bal: bal}
}

// RawDamage computes the RSB damage model:
//
//	floor(R·attack + S·(level−1) + B)
//
// Negative coefficients and attack clamp to zero (they are tuning values and
// a zero floor is the intended meaning). A level below 1 is an error — levels
// are structural and a bad one means the caller is broken.
func RawDamage(ratio, attack, scaling float64, level int32, base float64) (int32, error) {
	if level < 1 {
		return 0, fmt.Errorf("%w: level %d < 1", ErrInvalidParameter, level)
	}
	ratio = math.Max(ratio, 0)
	attack = math.Max(attack, 0)
	scaling = math.Max(scaling, 0)
	base = math.Max(base, 0)

	raw := ratio*attack + scaling*float64(level-1) + base
	return int32(math.Floor(raw)), nil
}

// MitigateDamage applies defense mitigation:
//
//	floor(raw · K / (K + defense))
//
// Defense 0 returns raw unchanged. K is the shared defense constant from the
// balance table — the same value EffectiveHP uses, by construction.
func (f *Formulas) MitigateDamage(raw, defense int32) (int32, error) {
	if defense < 0 {
		return 0, fmt.Errorf("%w: defense %d < 0", ErrInvalidParameter, defense)
	}
	if raw < 0 {
		raw = 0
	}
	k := f.bal.DefenseConstant
	mitigated := float64(raw) * k / (k + float64(defense))
	return int32(math.Floor(mitigated)), nil
}

// EffectiveHP returns health adjusted for defense:
//
//	maxHP · (1 + defense/K)
//
// Drawing K from the same field as MitigateDamage keeps eHP and real
// mitigated damage consistent; there is no second constant to drift.
func (f *Formulas) EffectiveHP(maxHP, defense int32) (float64, error) {
	if defense < 0 {
		return 0, fmt.Errorf("%w: defense %d < 0", ErrInvalidParameter, defense)
	}
	if maxHP < 0 {
		return 0, fmt.Errorf("%w: maxHP %d < 0", ErrInvalidParameter, maxHP)
	}
	k := f.bal.DefenseConstant
	return float64(maxHP) * (1 + float64(defense)/k), nil
}

// ScoringSpeedMultiplier sums additive scoring-speed factors:
//
//	1 + Σ factors
//
// No factors means exactly 1.
func ScoringSpeedMultiplier(factors []float64) float64 {
	mult := 1.0
	for _, f := range factors {
		mult += f
	}
	return mult
}

// ChannelTime computes the orb deposit duration:
//
//	base / speedMultiplier · synergyMultiplier
func ChannelTime(base, speedMultiplier, synergyMultiplier float64) (float64, error) {
	if base < 0 {
		return 0, fmt.Errorf("%w: base channel time %v < 0", ErrInvalidParameter, base)
	}
	if speedMultiplier <= 0 {
		return 0, fmt.Errorf("%w: speed multiplier %v <= 0", ErrInvalidParameter, speedMultiplier)
	}
	if synergyMultiplier <= 0 {
		return 0, fmt.Errorf("%w: synergy multiplier %v <= 0", ErrInvalidParameter, synergyMultiplier)
	}
	return base / speedMultiplier * synergyMultiplier, nil
}

// DepositTime is ChannelTime with the balance table's base time and the
// synergy step function applied for the given nearby-ally count.
func (f *Formulas) DepositTime(nearbyAllies int, speedFactors []float64) (float64, error) {
	return ChannelTime(
		f.bal.BaseChannelTime,
		ScoringSpeedMultiplier(speedFactors),
		f.bal.SynergyMultiplier(nearbyAllies),
	)
}

// UltimateCooldown converts an ultimate's energy requirement into the
// seconds of passive accrual it represents:
//
//	energyRequirement / rate
func UltimateCooldown(energyRequirement, rate float64) (float64, error) {
	if energyRequirement < 0 {
		return 0, fmt.Errorf("%w: energy requirement %v < 0", ErrInvalidParameter, energyRequirement)
	}
	if rate <= 0 {
		return 0, fmt.Errorf("%w: energy rate %v <= 0", ErrInvalidParameter, rate)
	}
	return energyRequirement / rate, nil
}

// AttackDamage computes a basic-attack hit for the given attacker stats and
// combo position: RSB raw damage scaled by the combo table.
func (f *Formulas) AttackDamage(attack float64, level, comboCount int32) (int32, error) {
	raw, err := RawDamage(f.bal.AttackRatio, attack, f.bal.AttackScaling, level, f.bal.AttackBase)
	if err != nil {
		return 0, err
	}
	scale := 1.0
	if n := len(f.bal.ComboDamageScale); n > 0 {
		idx := int(comboCount)
		if idx < 0 {
			idx = 0
		}
		if idx >= n {
			idx = n - 1
		}
		scale = f.bal.ComboDamageScale[idx]
	}
	return int32(math.Floor(float64(raw) * scale)), nil
}
