package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
)

func TestMenuSkipsDisabled(t *testing.T) {
	pressed := ""
	m := NewMenu([]MenuItem{
		{Label: "Practice", Disabled: true},
		{Label: "History", Action: func() tea.Cmd { pressed = "History"; return nil }},
		{Label: "Stats", Disabled: true},
		{Label: "Quit", Action: func() tea.Cmd { pressed = "Quit"; return nil }},
	})
	if m.Selected != 1 {
		t.Fatalf("initial selection = %d, want 1", m.Selected)
	}

	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if m.Selected != 3 {
		t.Errorf("selection after down = %d, want 3", m.Selected)
	}
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if pressed != "Quit" {
		t.Errorf("pressed %q, want Quit", pressed)
	}
	if !strings.Contains(m.View(), "▸ Quit") {
		t.Error("selected item is not marked")
	}
}

func TestTabsWrap(t *testing.T) {
	tabs := NewTabs("All", "FIB_RW", "DND")
	tabs.Prev()
	if tabs.Current() != "DND" {
		t.Errorf("Prev from first = %q, want DND", tabs.Current())
	}
	tabs.Next()
	if tabs.Current() != "All" {
		t.Errorf("Next from last = %q, want All", tabs.Current())
	}
	tabs.Select("fib_rw")
	if tabs.Active != 1 {
		t.Errorf("Select(fib_rw) = %d, want 1", tabs.Active)
	}
}

func TestOptionListView(t *testing.T) {
	o := OptionList{
		Options:  []string{"rise", "rose", "risen"},
		Labels:   []string{"Verb", "Verb", "Verb"},
		Chosen:   "rose",
		Numbered: true,
	}
	v := o.View()
	for _, want := range []string{"1) rise", "▸ 2) rose", "(Verb)"} {
		if !strings.Contains(v, want) {
			t.Errorf("view missing %q: %s", want, v)
		}
	}

	o.Revealed = true
	o.Correct = "rise"
	if strings.Contains(o.View(), "▸") {
		t.Error("revealed list should not show the selection marker")
	}
}

func TestProgressBarClamps(t *testing.T) {
	p := NewProgressBar("Avg", 1.5, true, 30)
	if !strings.Contains(p.View(), "150%") {
		t.Error("expected the raw percentage in the label")
	}
	if w := len([]rune(NewProgressBar("", -1, false, 10).View())); w == 0 {
		t.Error("expected a rendered bar")
	}
}
