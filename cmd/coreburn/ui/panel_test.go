package ui

import (
	"strings"
	"testing"

	"coreburn/internal/hardware"
)

func TestSystemPanel(t *testing.T) {
	panel := NewSystemPanel(NewStyles(LightTheme()))

	mem := hardware.MemoryInfo{Used: 4 << 30, Total: 16 << 30}
	cores := []hardware.CoreUsage{
		{Name: "CPU 0", Percent: 12.5},
		{Name: "CPU 1", Percent: 99.9},
		{Name: "CPU 2", Percent: 0.1},
	}

	view := panel.Render(mem, cores)
	t.Logf("Panel:\n%s", view)

	if !strings.Contains(view, "4096 MB / 16384 MB") {
		t.Error("panel missing RAM line")
	}
	for _, c := range cores {
		if !strings.Contains(view, c.Name) {
			t.Errorf("panel missing core %s", c.Name)
		}
	}
	// Odd core count: last core renders alone on its row.
	lines := strings.Split(view, "\n")
	var coreLines int
	for _, l := range lines {
		if strings.Contains(l, "CPU ") && !strings.Contains(l, "usage") {
			coreLines++
		}
	}
	if coreLines != 2 {
		t.Errorf("expected 3 cores across 2 rows, got %d rows", coreLines)
	}
}
