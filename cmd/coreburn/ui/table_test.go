package ui

import (
	"strings"
	"testing"
)

func TestSimpleTable(t *testing.T) {
	table := NewSimpleTable("Run History", []string{"When", "Score"})
	table.AddRow("2026-03-14 09:26", "4242")

	styles := NewStyles(LightTheme())
	view := table.View(styles)

	t.Logf("View:\n%q", view)

	if !strings.Contains(view, "Run History") {
		t.Error("view missing title")
	}
	if !strings.Contains(view, "4242") {
		t.Error("view missing cell content")
	}
}

func TestSimpleTableEmpty(t *testing.T) {
	table := NewSimpleTable("Empty", []string{"A"})
	view := table.View(NewStyles(LightTheme()))
	if !strings.Contains(view, "No entries") {
		t.Error("empty table should render placeholder")
	}
}
