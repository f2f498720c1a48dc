package components

import (
	"strings"

	"github.com/abhisek/ptenav/internal/ui/theme"
)

// Tabs is a horizontal, single-selection tab bar.
type Tabs struct {
	Labels []string
	Active int
}

// NewTabs creates a tab bar with the first tab active.
func NewTabs(labels ...string) Tabs {
	return Tabs{Labels: labels}
}

// Next activates the following tab, wrapping around.
func (t *Tabs) Next() {
	if len(t.Labels) > 0 {
		t.Active = (t.Active + 1) % len(t.Labels)
	}
}

// Prev activates the preceding tab, wrapping around.
func (t *Tabs) Prev() {
	if len(t.Labels) > 0 {
		t.Active = (t.Active - 1 + len(t.Labels)) % len(t.Labels)
	}
}

// Select activates the tab with the given label, if present.
func (t *Tabs) Select(label string) {
	for i, l := range t.Labels {
		if strings.EqualFold(l, label) {
			t.Active = i
			return
		}
	}
}

// Current returns the active label.
func (t Tabs) Current() string {
	if t.Active < 0 || t.Active >= len(t.Labels) {
		return ""
	}
	return t.Labels[t.Active]
}

// View renders the tab bar.
func (t Tabs) View() string {
	parts := make([]string, len(t.Labels))
	for i, l := range t.Labels {
		if i == t.Active {
			parts[i] = theme.ButtonActive.Render(l)
		} else {
			parts[i] = theme.ButtonInactive.Render(l)
		}
	}
	return strings.Join(parts, " ")
}
