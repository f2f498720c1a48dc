// Package navigation filters the exercise list and moves through it.
package navigation

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/abhisek/ptenav/internal/exercise"
)

// TypeAll matches exercises of every type.
const TypeAll = "all"

var (
	// ErrNoExercises is returned when the filtered list is empty.
	ErrNoExercises = errors.New("no exercises match the current filter")
	// ErrInvalidIndex is returned for an index outside the filtered list.
	ErrInvalidIndex = errors.New("exercise index out of range")
)

// Filter narrows the exercise list by type and a search string.
type Filter struct {
	Type   string
	Search string
}

// ParseType normalizes a type filter name.
func ParseType(s string) (string, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "ALL":
		return TypeAll, nil
	case string(exercise.TypeFIBRW), "FIB":
		return string(exercise.TypeFIBRW), nil
	case string(exercise.TypeDND):
		return string(exercise.TypeDND), nil
	}
	return "", fmt.Errorf("unknown exercise type %q (want all, FIB_RW or DND)", s)
}

// Matches reports whether ex passes the filter. The search is a trimmed,
// case-insensitive substring match on title or id.
func (f Filter) Matches(ex *exercise.Exercise) bool {
	if f.Type != "" && f.Type != TypeAll && string(ex.Type) != f.Type {
		return false
	}
	q := strings.ToLower(strings.TrimSpace(f.Search))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(ex.Title), q) || strings.Contains(strings.ToLower(ex.ID), q)
}

// Apply returns pointers to the exercises that pass the filter, in order.
func Apply(all []exercise.Exercise, f Filter) []*exercise.Exercise {
	var out []*exercise.Exercise
	for i := range all {
		if f.Matches(&all[i]) {
			out = append(out, &all[i])
		}
	}
	return out
}

// Navigator holds the filtered list and the current position in it.
type Navigator struct {
	all    []exercise.Exercise
	filter Filter
	list   []*exercise.Exercise
	index  int
}

// New returns a navigator positioned on the first filtered exercise.
func New(all []exercise.Exercise, f Filter) *Navigator {
	n := &Navigator{index: -1}
	n.all = all
	n.Refilter(f)
	return n
}

// SetExercises replaces the underlying list, keeping the filter and, when
// possible, the current exercise.
func (n *Navigator) SetExercises(all []exercise.Exercise) {
	n.all = all
	n.Refilter(n.filter)
}

// Refilter applies a new filter. The current exercise is kept when it is
// still listed; otherwise the first one is selected.
func (n *Navigator) Refilter(f Filter) {
	var currentID string
	if cur, ok := n.Current(); ok {
		currentID = cur.ID
	}
	n.filter = f
	n.list = Apply(n.all, f)
	n.index = -1
	if len(n.list) == 0 {
		return
	}
	n.index = 0
	for i, ex := range n.list {
		if currentID != "" && ex.ID == currentID {
			n.index = i
			break
		}
	}
}

// Filter returns the active filter.
func (n *Navigator) Filter() Filter { return n.filter }

// List returns the filtered exercises.
func (n *Navigator) List() []*exercise.Exercise { return n.list }

// Len is the number of filtered exercises.
func (n *Navigator) Len() int { return len(n.list) }

// Index is the current position, or -1 when the list is empty.
func (n *Navigator) Index() int { return n.index }

// Current returns the selected exercise.
func (n *Navigator) Current() (*exercise.Exercise, bool) {
	if n.index < 0 || n.index >= len(n.list) {
		return nil, false
	}
	return n.list[n.index], true
}

// Select moves to position i.
func (n *Navigator) Select(i int) (*exercise.Exercise, error) {
	if i < 0 || i >= len(n.list) {
		return nil, fmt.Errorf("%w: %d of %d", ErrInvalidIndex, i, len(n.list))
	}
	n.index = i
	return n.list[i], nil
}

// SelectID moves to the exercise with the given id.
func (n *Navigator) SelectID(id string) (*exercise.Exercise, error) {
	for i, ex := range n.list {
		if ex.ID == id {
			return n.Select(i)
		}
	}
	return nil, fmt.Errorf("exercise %q is not in the current list: %w", id, ErrInvalidIndex)
}

// Next moves forward, wrapping to the start.
func (n *Navigator) Next() (*exercise.Exercise, error) {
	if len(n.list) == 0 {
		return nil, ErrNoExercises
	}
	return n.Select((n.index + 1) % len(n.list))
}

// Previous moves back, wrapping to the end.
func (n *Navigator) Previous() (*exercise.Exercise, error) {
	if len(n.list) == 0 {
		return nil, ErrNoExercises
	}
	i := n.index - 1
	if i < 0 {
		i = len(n.list) - 1
	}
	return n.Select(i)
}

// Recommend picks a random uncompleted exercise from the filtered list, or
// any filtered exercise when all are completed, and selects it.
func (n *Navigator) Recommend(completed func(id string) bool, rng *rand.Rand) (*exercise.Exercise, error) {
	if len(n.list) == 0 {
		return nil, ErrNoExercises
	}
	var open []int
	for i, ex := range n.list {
		if completed == nil || !completed(ex.ID) {
			open = append(open, i)
		}
	}
	pick := func(k int) int {
		if rng == nil {
			return rand.IntN(k)
		}
		return rng.IntN(k)
	}
	if len(open) > 0 {
		return n.Select(open[pick(len(open))])
	}
	return n.Select(pick(len(n.list)))
}
