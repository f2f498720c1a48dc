package theme

import "testing"

func TestPick(t *testing.T) {
	tests := []struct {
		name         string
		setting      string
		highContrast bool
		dark         bool
		want         Palette
	}{
		{"high contrast wins", "light", true, false, HighContrast},
		{"explicit light", "light", false, true, Light},
		{"explicit dark", "dark", false, false, Dark},
		{"system on dark terminal", "system", false, true, Dark},
		{"system on light terminal", "system", false, false, Light},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Pick(tt.setting, tt.highContrast, tt.dark); got != tt.want {
				t.Errorf("Pick(%q, %v, %v) returned the wrong palette", tt.setting, tt.highContrast, tt.dark)
			}
		})
	}
}

func TestUseRebuildsStyles(t *testing.T) {
	defer Use(Dark)

	Use(HighContrast)
	if Primary != HighContrast.Primary {
		t.Errorf("Primary = %v, want %v", Primary, HighContrast.Primary)
	}
	if Selected.GetForeground() != HighContrast.Primary {
		t.Error("Selected style was not rebuilt from the new palette")
	}
}

func TestDifficultyColor(t *testing.T) {
	if DifficultyColor("Easy") != Success || DifficultyColor("Hard") != Error || DifficultyColor("Medium") != Warning {
		t.Error("unexpected difficulty colors")
	}
}
