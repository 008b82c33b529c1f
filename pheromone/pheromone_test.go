package pheromone

import (
	"math"
	"testing"
)

func TestDecayFraction(t *testing.T) {
	tests := []struct {
		name     string
		strength float64
		max      float64
		want     float64
	}{
		{"full strength", 100, 100, 0},
		{"half decayed", 50, 100, 0.5},
		{"fully decayed", 0, 100, 1},
		{"zero max", 10, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Pheromone{Strength: tt.strength, MaxStrength: tt.max}
			got := p.DecayFraction()
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("DecayFraction() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCurrentRadiusExpands(t *testing.T) {
	p := &Pheromone{Strength: 100, MaxStrength: 100, baseRadius: 30}

	if r := p.CurrentRadius(); math.Abs(r-30) > 0.001 {
		t.Errorf("fresh deposit radius = %v, want 30", r)
	}

	p.Strength = 50
	if r := p.CurrentRadius(); math.Abs(r-37.5) > 0.001 {
		t.Errorf("half-decayed radius = %v, want 37.5", r)
	}

	p.Strength = 0
	if r := p.CurrentRadius(); math.Abs(r-45) > 0.001 {
		t.Errorf("fully decayed radius = %v, want 45 (1.5x base)", r)
	}
}

func TestInfluenceAt(t *testing.T) {
	p := &Pheromone{
		X: 0, Y: 0,
		Strength: 100, MaxStrength: 100,
		TrailQuality: 1.0,
		baseRadius:   30,
	}

	if got := p.InfluenceAt(0, 0); math.Abs(got-100) > 0.001 {
		t.Errorf("influence at center = %v, want 100", got)
	}
	if got := p.InfluenceAt(15, 0); math.Abs(got-50) > 0.001 {
		t.Errorf("influence at half radius = %v, want 50", got)
	}
	if got := p.InfluenceAt(30, 0); got != 0 {
		t.Errorf("influence at radius edge = %v, want 0", got)
	}
	if got := p.InfluenceAt(100, 0); got != 0 {
		t.Errorf("influence outside radius = %v, want 0", got)
	}

	// Quality multiplies influence
	p.TrailQuality = 2.0
	if got := p.InfluenceAt(15, 0); math.Abs(got-100) > 0.001 {
		t.Errorf("influence with quality 2 = %v, want 100", got)
	}
}

func TestMarkUsedDiminishingQuality(t *testing.T) {
	p := &Pheromone{TrailQuality: minQuality}

	p.markUsed()
	first := p.TrailQuality - minQuality
	if first <= 0 {
		t.Fatal("quality did not increase on use")
	}

	p.markUsed()
	second := p.TrailQuality - minQuality - first
	if second >= first {
		t.Errorf("quality gain should diminish: first=%v second=%v", first, second)
	}

	// Quality never exceeds the cap
	for i := 0; i < 10000; i++ {
		p.markUsed()
	}
	if p.TrailQuality > maxQuality {
		t.Errorf("quality %v exceeds cap %v", p.TrailQuality, maxQuality)
	}
	if p.UsageCount != 10002 {
		t.Errorf("usage count = %d, want 10002", p.UsageCount)
	}
}

func TestDecayFactorQualitySlowdown(t *testing.T) {
	tests := []struct {
		name    string
		quality float64
		want    float64
	}{
		{"base quality", 1.0, 1.0},
		{"mid quality", 2.0, 0.65},
		{"max quality", 3.0, 0.3},
		{"above max clamps", 5.0, 0.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := decayFactor(tt.quality)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("decayFactor(%v) = %v, want %v", tt.quality, got, tt.want)
			}
		})
	}
}

func TestReinforce(t *testing.T) {
	p := &Pheromone{Strength: 50, MaxStrength: 100, TrailQuality: 1.0}

	p.Reinforce(30)
	if math.Abs(p.Strength-80) > 0.001 {
		t.Errorf("strength = %v, want 80", p.Strength)
	}

	// Clamped at max
	p.Reinforce(100)
	if math.Abs(p.Strength-100) > 0.001 {
		t.Errorf("strength = %v, want clamp at 100", p.Strength)
	}

	// Negative amounts are ignored
	p.Reinforce(-10)
	if math.Abs(p.Strength-100) > 0.001 {
		t.Errorf("strength = %v after negative reinforce, want 100", p.Strength)
	}
}

func TestTypeString(t *testing.T) {
	if FoodTrail.String() != "food_trail" {
		t.Errorf("FoodTrail.String() = %q", FoodTrail.String())
	}
	if HomeTrail.String() != "home_trail" {
		t.Errorf("HomeTrail.String() = %q", HomeTrail.String())
	}
	if Danger.String() != "danger" {
		t.Errorf("Danger.String() = %q", Danger.String())
	}
}
