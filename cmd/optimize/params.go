// Package main provides CMA-ES optimization for foraging parameters.
package main

import (
	"github.com/pthm-cable/antfarm/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Trail deposits
			{Name: "food_strength", Path: "trail.food_strength", Min: 20, Max: 300, Default: 100},
			{Name: "food_decay", Path: "trail.food_decay", Min: 0.1, Max: 2.0, Default: 0.5},
			{Name: "food_radius", Path: "trail.food_radius", Min: 10, Max: 60, Default: 30},
			{Name: "spread_strength", Path: "trail.spread_strength", Min: 0.1, Max: 0.8, Default: 0.4},
			{Name: "spread_delay", Path: "trail.spread_delay", Min: 0.5, Max: 10.0, Default: 2.0},
			{Name: "home_strength", Path: "trail.home_strength", Min: 5, Max: 100, Default: 30},
			{Name: "home_decay", Path: "trail.home_decay", Min: 0.05, Max: 1.0, Default: 0.3},
			// Movement
			{Name: "walk_turn_chance", Path: "ant.walk_turn_chance", Min: 0.02, Max: 0.4, Default: 0.1},
			{Name: "trail_lost_chance", Path: "ant.trail_lost_turn_chance", Min: 0.05, Max: 0.8, Default: 0.3},
			{Name: "search_slowdown", Path: "ant.search_slowdown", Min: 0.5, Max: 1.0, Default: 0.85},
			{Name: "sense_radius", Path: "ant.sense_radius", Min: 20, Max: 100, Default: 50},
			// Colony economy
			{Name: "egg_interval", Path: "colony.egg_interval", Min: 30, Max: 600, Default: 100},
			{Name: "consumption_rate", Path: "colony.consumption_rate", Min: 0.001, Max: 0.02, Default: 0.005},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		val := v[i]
		if val < spec.Min {
			val = spec.Min
		}
		if val > spec.Max {
			val = spec.Max
		}
		clamped[i] = val
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config struct.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	// Clamp values to ensure they're within bounds
	clamped := pv.Clamp(values)

	// Order must match Specs order
	i := 0

	cfg.Trail.FoodStrength = clamped[i]; i++
	cfg.Trail.FoodDecay = clamped[i]; i++
	cfg.Trail.FoodRadius = clamped[i]; i++
	cfg.Trail.SpreadStrength = clamped[i]; i++
	cfg.Trail.SpreadDelay = clamped[i]; i++
	cfg.Trail.HomeStrength = clamped[i]; i++
	cfg.Trail.HomeDecay = clamped[i]; i++

	cfg.Ant.WalkTurnChance = clamped[i]; i++
	cfg.Ant.TrailLostChance = clamped[i]; i++
	cfg.Ant.SearchSlowdown = clamped[i]; i++
	cfg.Ant.SenseRadius = clamped[i]; i++

	cfg.Colony.EggInterval = int64(clamped[i]); i++
	cfg.Colony.ConsumptionRate = clamped[i]
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.Trail.FoodStrength,
		cfg.Trail.FoodDecay,
		cfg.Trail.FoodRadius,
		cfg.Trail.SpreadStrength,
		cfg.Trail.SpreadDelay,
		cfg.Trail.HomeStrength,
		cfg.Trail.HomeDecay,
		cfg.Ant.WalkTurnChance,
		cfg.Ant.TrailLostChance,
		cfg.Ant.SearchSlowdown,
		cfg.Ant.SenseRadius,
		float64(cfg.Colony.EggInterval),
		cfg.Colony.ConsumptionRate,
	}
}
