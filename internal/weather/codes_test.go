package weather

import "testing"

func TestCodeLookup(t *testing.T) {
	tests := []struct {
		code  int
		text  string
		group Group
	}{
		{0, "Skaidrs", GroupClear},
		{3, "Mākoņains", GroupClouds},
		{61, "Neliels lietus", GroupRain},
		{75, "Stiprs sniegs", GroupSnow},
		{95, "Pērkona negaiss", GroupRain},
	}
	for _, tt := range tests {
		info := CodeLookup(tt.code)
		if info.Text != tt.text {
			t.Errorf("code %d: expected text %q, got %q", tt.code, tt.text, info.Text)
		}
		if info.Group != tt.group {
			t.Errorf("code %d: expected group %q, got %q", tt.code, tt.group, info.Group)
		}
	}
}

func TestCodeLookupUnknown(t *testing.T) {
	info := CodeLookup(42)
	if info.Text != "Nav zināms" {
		t.Errorf("expected fallback text, got %q", info.Text)
	}
	if info.Group != GroupClouds {
		t.Errorf("expected fallback group clouds, got %q", info.Group)
	}
}

func TestBackground(t *testing.T) {
	if bg := Background(0, nil); bg != "bg-sunny" {
		t.Errorf("expected bg-sunny for clear sky, got %q", bg)
	}

	night := false
	if bg := Background(0, &night); bg != "bg-night" {
		t.Errorf("expected night override, got %q", bg)
	}

	day := true
	if bg := Background(63, &day); bg != "bg-rainy" {
		t.Errorf("expected bg-rainy for rain during day, got %q", bg)
	}
}
