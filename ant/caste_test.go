package ant

import "testing"

func TestDefaultProfiles(t *testing.T) {
	profiles := DefaultProfiles()

	tests := []struct {
		caste     Caste
		speed     float64
		detection float64
		turn      float64
		cost      float64
	}{
		{Worker, 1.0, 1.0, 1.0, 10},
		{Soldier, 0.8, 1.3, 0.9, 15},
		{Scout, 1.4, 1.5, 1.3, 12},
		{Nurse, 0.85, 0.7, 1.0, 8},
	}

	for _, tt := range tests {
		t.Run(tt.caste.String(), func(t *testing.T) {
			p := profiles[tt.caste]
			if p.SpeedFactor != tt.speed {
				t.Errorf("speed = %v, want %v", p.SpeedFactor, tt.speed)
			}
			if p.DetectionFactor != tt.detection {
				t.Errorf("detection = %v, want %v", p.DetectionFactor, tt.detection)
			}
			if p.TurnFactor != tt.turn {
				t.Errorf("turn = %v, want %v", p.TurnFactor, tt.turn)
			}
			if p.SpawnCost != tt.cost {
				t.Errorf("cost = %v, want %v", p.SpawnCost, tt.cost)
			}
		})
	}
}

func TestCasteByName(t *testing.T) {
	for _, name := range []string{"worker", "soldier", "scout", "nurse"} {
		caste, ok := CasteByName(name)
		if !ok {
			t.Errorf("CasteByName(%q) not found", name)
			continue
		}
		if caste.String() != name {
			t.Errorf("round trip %q -> %q", name, caste.String())
		}
	}

	if _, ok := CasteByName("queen"); ok {
		t.Error("unknown caste name resolved")
	}
}
