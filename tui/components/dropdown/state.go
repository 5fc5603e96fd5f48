// Package dropdown implements a selectable-options control: a closed box
// showing the current selection and an open panel of options that can be
// filtered, grouped, navigated with the keyboard and picked in single or
// multi mode.
//
// State is the pure interaction state machine. Model wraps it as a
// bubbletea component.
package dropdown

import (
	"fmt"
)

// DefaultPlacementThreshold is the space below the box under which an
// automatically placed panel may open upward.
const DefaultPlacementThreshold = 250

// Placement is where the panel opens relative to the box.
type Placement string

const (
	PlacementAuto   Placement = "auto"
	PlacementTop    Placement = "top"
	PlacementBottom Placement = "bottom"
)

// Key is a keyboard input understood by the state machine.
type Key int

const (
	KeyEnter Key = iota
	KeySpace
	KeyDown
	KeyUp
	KeyEscape
	KeyTab
)

// Space is the room around the box at the moment the panel opens, in
// whatever unit the threshold uses (pixels, terminal rows).
type Space struct {
	Above int
	Below int
}

// Group is a labeled section of the open panel.
type Group struct {
	Name    string
	Options []Option
}

// Config holds the static settings of a control.
type Config struct {
	// Name is carried in change notifications.
	Name        string
	Placeholder string
	Multiple    bool
	// MaxSelections caps multi-mode selections. Zero means unlimited.
	MaxSelections int
	Grouped       bool
	Clearable     bool
	Disabled      bool
	// AsyncSearch delegates filtering to the caller: the options given to
	// the control are shown as they are.
	AsyncSearch bool
	Placement   Placement
	// PlacementThreshold defaults to DefaultPlacementThreshold.
	PlacementThreshold int
	// FormatValue overrides the display of a non-empty selection.
	FormatValue func(selected []Option) string
}

// Change is emitted whenever the selection changes.
type Change struct {
	Name   string
	Values []string
}

// Value returns the single-mode value: the first selected value or "".
func (c Change) Value() string {
	if len(c.Values) == 0 {
		return ""
	}
	return c.Values[0]
}

// State is the interaction state of one control. The zero value is not
// usable; create one with NewState.
type State struct {
	cfg       Config
	options   []Option
	selected  []string
	open      bool
	search    string
	highlight int
	placement Placement
	loading   bool
}

// NewState creates a closed control with the given options and initial
// selection.
func NewState(cfg Config, options []Option, selected ...string) *State {
	if cfg.Placement == "" {
		cfg.Placement = PlacementAuto
	}
	if cfg.PlacementThreshold <= 0 {
		cfg.PlacementThreshold = DefaultPlacementThreshold
	}
	s := &State{cfg: cfg, options: options, placement: PlacementBottom}
	if cfg.Placement == PlacementTop {
		s.placement = PlacementTop
	}
	s.SetValue(selected...)
	return s
}

// Config returns the control's settings.
func (s *State) Config() Config { return s.cfg }

// IsOpen reports whether the panel is shown.
func (s *State) IsOpen() bool { return s.open }

// Search returns the current search term.
func (s *State) Search() string { return s.search }

// Highlight returns the keyboard cursor over Visible().
func (s *State) Highlight() int { return s.highlight }

// Placement returns the resolved panel placement.
func (s *State) Placement() Placement { return s.placement }

// Loading reports whether the options are being loaded.
func (s *State) Loading() bool { return s.loading }

// Options returns the full option list.
func (s *State) Options() []Option { return s.options }

// Selected returns the selected values in selection order.
func (s *State) Selected() []string {
	out := make([]string, len(s.selected))
	copy(out, s.selected)
	return out
}

// IsSelected reports whether value is selected.
func (s *State) IsSelected(value string) bool {
	return indexOf(s.selected, value) >= 0
}

// SetValue re-seeds the selection from an external value. In single mode
// only the first value is kept.
func (s *State) SetValue(values ...string) {
	s.selected = s.selected[:0:0]
	for _, v := range values {
		if v == "" || indexOf(s.selected, v) >= 0 {
			continue
		}
		s.selected = append(s.selected, v)
		if !s.cfg.Multiple {
			break
		}
	}
}

// SetOptions replaces the option list, keeping the cursor in bounds.
func (s *State) SetOptions(options []Option) {
	s.options = options
	s.clampHighlight()
}

// SetLoading toggles the loading state. While loading the panel shows no
// options.
func (s *State) SetLoading(loading bool) {
	s.loading = loading
	s.clampHighlight()
}

// SetDisabled enables or disables the control. Disabling closes it.
func (s *State) SetDisabled(disabled bool) {
	s.cfg.Disabled = disabled
	if disabled {
		s.Close()
	}
}

// Open shows the panel and resolves its placement from space.
func (s *State) Open(space Space) {
	if s.cfg.Disabled || s.open {
		return
	}
	s.open = true
	s.placement = s.resolvePlacement(space)
	s.resetHighlight()
}

// Close hides the panel and resets the ephemeral state.
func (s *State) Close() {
	s.open = false
	s.search = ""
	s.highlight = 0
}

// Toggle opens a closed panel or closes an open one.
func (s *State) Toggle(space Space) {
	if s.open {
		s.Close()
		return
	}
	s.Open(space)
}

func (s *State) resolvePlacement(space Space) Placement {
	switch s.cfg.Placement {
	case PlacementTop, PlacementBottom:
		return s.cfg.Placement
	}
	if space.Below < s.cfg.PlacementThreshold && space.Above > space.Below {
		return PlacementTop
	}
	return PlacementBottom
}

// SetSearch updates the search term and moves the cursor to the top.
func (s *State) SetSearch(term string) {
	s.search = term
	s.resetHighlight()
}

// resetHighlight puts the cursor on the first enabled visible option.
func (s *State) resetHighlight() {
	s.highlight = 0
	visible := s.Visible()
	if len(visible) > 0 && visible[0].Disabled {
		s.move(1)
	}
}

// Filtered returns the options matching the search term. With async
// search, or without a term, all options are returned.
func (s *State) Filtered() []Option {
	if s.search == "" || s.cfg.AsyncSearch {
		return s.options
	}
	out := make([]Option, 0, len(s.options))
	for _, o := range s.options {
		if o.matches(s.search) {
			out = append(out, o)
		}
	}
	return out
}

// Groups partitions Filtered by group in first-seen order. Options without
// a group fall into the "" group. Without grouping everything is one group.
func (s *State) Groups() []Group {
	filtered := s.Filtered()
	if !s.cfg.Grouped {
		return []Group{{Options: filtered}}
	}
	var groups []Group
	index := make(map[string]int)
	for _, o := range filtered {
		i, ok := index[o.Group]
		if !ok {
			i = len(groups)
			index[o.Group] = i
			groups = append(groups, Group{Name: o.Group})
		}
		groups[i].Options = append(groups[i].Options, o)
	}
	return groups
}

// Visible is the navigable list in display order: Filtered, reordered by
// group when grouping is on. It is empty while loading.
func (s *State) Visible() []Option {
	if s.loading {
		return nil
	}
	groups := s.Groups()
	if len(groups) == 1 {
		return groups[0].Options
	}
	var out []Option
	for _, g := range groups {
		out = append(out, g.Options...)
	}
	return out
}

// Select picks value. In multi mode it toggles membership, ignoring
// additions beyond MaxSelections. In single mode it replaces the selection
// and closes the panel. It reports the resulting change, if any.
func (s *State) Select(value string) (Change, bool) {
	if s.cfg.Disabled {
		return Change{}, false
	}
	if o, ok := s.lookup(value); ok && o.Disabled {
		return Change{}, false
	}

	if !s.cfg.Multiple {
		s.selected = []string{value}
		s.Close()
		return s.change(), true
	}

	if i := indexOf(s.selected, value); i >= 0 {
		s.selected = append(s.selected[:i:i], s.selected[i+1:]...)
		return s.change(), true
	}
	if s.cfg.MaxSelections > 0 && len(s.selected) >= s.cfg.MaxSelections {
		return Change{}, false
	}
	s.selected = append(s.selected, value)
	return s.change(), true
}

// CanClear reports whether the clear affordance is available.
func (s *State) CanClear() bool {
	return s.cfg.Clearable && !s.cfg.Disabled && len(s.selected) > 0
}

// Clear empties the selection without opening the panel.
func (s *State) Clear() (Change, bool) {
	if !s.CanClear() {
		return Change{}, false
	}
	s.selected = []string{}
	return s.change(), true
}

// HandleKey applies a keyboard input. space is used when the key opens
// the panel.
func (s *State) HandleKey(k Key, space Space) (Change, bool) {
	if s.cfg.Disabled {
		return Change{}, false
	}

	if !s.open {
		switch k {
		case KeyEnter, KeySpace, KeyDown:
			s.Open(space)
		}
		return Change{}, false
	}

	switch k {
	case KeyDown:
		s.move(1)
	case KeyUp:
		s.move(-1)
	case KeyEnter:
		visible := s.Visible()
		if s.highlight >= 0 && s.highlight < len(visible) {
			return s.Select(visible[s.highlight].Value)
		}
	case KeyEscape, KeyTab:
		s.Close()
	}
	return Change{}, false
}

// move steps the cursor by dir, skipping disabled options and stopping at
// either end of the list.
func (s *State) move(dir int) {
	visible := s.Visible()
	for i := s.highlight + dir; i >= 0 && i < len(visible); i += dir {
		if !visible[i].Disabled {
			s.highlight = i
			return
		}
	}
	s.clampHighlight()
}

func (s *State) clampHighlight() {
	n := len(s.Visible())
	if s.highlight > n-1 {
		s.highlight = n - 1
	}
	if s.highlight < 0 {
		s.highlight = 0
	}
}

// SelectedOptions resolves the selection to options. Values with no
// matching option are returned as primitive options.
func (s *State) SelectedOptions() []Option {
	out := make([]Option, 0, len(s.selected))
	for _, v := range s.selected {
		if o, ok := s.lookup(v); ok {
			out = append(out, o)
			continue
		}
		out = append(out, Option{Value: v})
	}
	return out
}

// DisplayValue is the text shown in the closed box.
func (s *State) DisplayValue() string {
	if len(s.selected) == 0 {
		return s.cfg.Placeholder
	}
	selected := s.SelectedOptions()
	if s.cfg.FormatValue != nil {
		return s.cfg.FormatValue(selected)
	}
	if s.cfg.Multiple && len(selected) > 1 {
		return fmt.Sprintf("%d selected", len(selected))
	}
	return selected[0].Display()
}

func (s *State) lookup(value string) (Option, bool) {
	for _, o := range s.options {
		if o.Value == value {
			return o, true
		}
	}
	return Option{}, false
}

func (s *State) change() Change {
	return Change{Name: s.cfg.Name, Values: s.Selected()}
}

func indexOf(values []string, v string) int {
	for i, x := range values {
		if x == v {
			return i
		}
	}
	return -1
}
