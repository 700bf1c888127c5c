package catalog

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Rig modifiers by preset. Rigs are fitted outside the optimized slots and
// join the stacking series as fixed entries.
var (
	rigDamage = map[string][]float64{
		"t1":   {1.10},
		"t2":   {1.15},
		"t1x2": {1.10, 1.10},
	}
	rigRate = map[string][]float64{
		"t1":   {1 / 1.10},
		"t2":   {1 / 1.15},
		"t1x2": {1 / 1.10, 1 / 1.10},
	}
)

// RigPresets lists the accepted rig names.
func RigPresets() []string {
	return []string{"none", "t1", "t2", "t1x2"}
}

// ParseRig returns the damage and rate-of-fire modifiers of a rig preset.
// An empty name or "none" means no rig.
func ParseRig(name string) (damage, rate []float64, err error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" || key == "none" {
		return nil, nil, nil
	}
	d, ok := rigDamage[key]
	if !ok {
		return nil, nil, fmt.Errorf("unknown rig %q (want one of %s)", name, strings.Join(RigPresets(), ", "))
	}
	return append([]float64(nil), d...), append([]float64(nil), rigRate[key]...), nil
}

// DamageRig returns only the damage modifiers of a preset.
func DamageRig(name string) ([]float64, error) {
	d, _, err := ParseRig(name)
	return d, err
}

// RateRig returns only the rate-of-fire modifiers of a preset.
func RateRig(name string) ([]float64, error) {
	_, r, err := ParseRig(name)
	return r, err
}

// ParsePrice reads an ISK amount with k/m/b shorthands: "250k", "15m",
// "1.5b", "10kk". Suffixes multiply, so "10kk" is ten million. An empty
// string, "inf" or "unlimited" yields +Inf.
func ParsePrice(s string) (float64, error) {
	raw := strings.ToLower(strings.TrimSpace(s))
	raw = strings.ReplaceAll(raw, "'", "")
	raw = strings.ReplaceAll(raw, "_", "")
	raw = strings.TrimSpace(strings.TrimSuffix(raw, "isk"))

	switch raw {
	case "", "inf", "unlimited":
		return math.Inf(1), nil
	}

	exp := 0
	digits := raw
suffixes:
	for len(digits) > 0 {
		switch digits[len(digits)-1] {
		case 'k':
			exp += 3
		case 'm':
			exp += 6
		case 'b':
			exp += 9
		default:
			break suffixes
		}
		digits = digits[:len(digits)-1]
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(digits), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid price %q", s)
	}
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid price %q: must be a non-negative amount", s)
	}
	return v * math.Pow10(exp), nil
}
