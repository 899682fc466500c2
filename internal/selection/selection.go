// Package selection holds the set of categories chosen for display and the
// two ways a form can edit it.
package selection

import (
	"errors"
	"fmt"

	"github.com/verte-zerg/bfhl/internal/model"
)

// ErrUnsupportedChange is returned when a binding does not accept a change kind.
var ErrUnsupportedChange = errors.New("unsupported selection change")

// Set is an insertion-ordered set of categories.
type Set struct {
	labels []model.Category
}

// NewSet builds a set from labels, dropping duplicates.
func NewSet(labels ...model.Category) Set {
	var s Set
	for _, l := range labels {
		s.add(l)
	}
	return s
}

// Has reports membership.
func (s Set) Has(c model.Category) bool {
	for _, l := range s.labels {
		if l == c {
			return true
		}
	}
	return false
}

// Len returns the number of members.
func (s Set) Len() int {
	return len(s.labels)
}

// Labels returns members in insertion order.
func (s Set) Labels() []model.Category {
	return append([]model.Category(nil), s.labels...)
}

// Ordered returns members in the fixed display order.
func (s Set) Ordered() []model.Category {
	out := make([]model.Category, 0, len(s.labels))
	for _, c := range model.Categories() {
		if s.Has(c) {
			out = append(out, c)
		}
	}
	return out
}

// Equal reports whether both sets hold the same members, ignoring order.
func (s Set) Equal(other Set) bool {
	if s.Len() != other.Len() {
		return false
	}
	for _, l := range s.labels {
		if !other.Has(l) {
			return false
		}
	}
	return true
}

func (s *Set) add(c model.Category) {
	if s.Has(c) {
		return
	}
	s.labels = append(s.labels, c)
}

func (s *Set) remove(c model.Category) {
	for i, l := range s.labels {
		if l == c {
			s.labels = append(s.labels[:i:i], s.labels[i+1:]...)
			return
		}
	}
}

// ChangeKind names a selection mutation.
type ChangeKind int

const (
	// ChangeToggle flips membership of one category.
	ChangeToggle ChangeKind = iota
	// ChangeRemove drops one category if present.
	ChangeRemove
	// ChangeReplace overwrites the whole set.
	ChangeReplace
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeToggle:
		return "toggle"
	case ChangeRemove:
		return "remove"
	case ChangeReplace:
		return "replace"
	default:
		return fmt.Sprintf("ChangeKind(%d)", int(k))
	}
}

// Change is a selection mutation. Toggle and Remove use the first label;
// Replace uses all of them.
type Change struct {
	Kind   ChangeKind
	Labels []model.Category
}

// Toggle returns a Change flipping membership of c.
func Toggle(c model.Category) Change {
	return Change{Kind: ChangeToggle, Labels: []model.Category{c}}
}

// Remove returns a Change removing c.
func Remove(c model.Category) Change {
	return Change{Kind: ChangeRemove, Labels: []model.Category{c}}
}

// Replace returns a Change overwriting the set with labels.
func Replace(labels ...model.Category) Change {
	return Change{Kind: ChangeReplace, Labels: append([]model.Category(nil), labels...)}
}

// Selector reports the current selection and applies changes to it.
type Selector interface {
	Selected() Set
	Apply(Change) error
}

// New returns the binding for a form mode.
func New(mode model.Mode) (Selector, error) {
	switch mode {
	case model.ModeToggle:
		return &Toggles{}, nil
	case model.ModeMulti:
		return &MultiSelect{}, nil
	default:
		return nil, fmt.Errorf("unknown mode %q", mode)
	}
}

// Toggles is the button binding: each category flips independently and
// selected categories can be dismissed.
type Toggles struct {
	set Set
}

// Selected implements Selector.
func (t *Toggles) Selected() Set {
	return NewSet(t.set.labels...)
}

// Apply implements Selector.
func (t *Toggles) Apply(ch Change) error {
	if len(ch.Labels) == 0 {
		return fmt.Errorf("%s change needs a label", ch.Kind)
	}
	switch ch.Kind {
	case ChangeToggle:
		t.Toggle(ch.Labels[0])
	case ChangeRemove:
		t.Remove(ch.Labels[0])
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedChange, ch.Kind)
	}
	return nil
}

// Toggle adds c when absent and removes it when present.
func (t *Toggles) Toggle(c model.Category) {
	if t.set.Has(c) {
		t.set.remove(c)
		return
	}
	t.set.add(c)
}

// Remove drops c if present.
func (t *Toggles) Remove(c model.Category) {
	t.set.remove(c)
}

// MultiSelect is the list binding: the committed choice replaces the set.
type MultiSelect struct {
	set Set
}

// Selected implements Selector.
func (m *MultiSelect) Selected() Set {
	return NewSet(m.set.labels...)
}

// Apply implements Selector.
func (m *MultiSelect) Apply(ch Change) error {
	if ch.Kind != ChangeReplace {
		return fmt.Errorf("%w: %s", ErrUnsupportedChange, ch.Kind)
	}
	m.Replace(ch.Labels)
	return nil
}

// Replace makes the set exactly labels.
func (m *MultiSelect) Replace(labels []model.Category) {
	m.set = NewSet(labels...)
}
