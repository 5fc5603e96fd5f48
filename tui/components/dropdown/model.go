package dropdown

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/grovetools/ratedesk/tui/theme"
	"golang.org/x/term"
)

// ChangeMsg is sent when the user changes the selection.
type ChangeMsg struct {
	Change
}

// OptionsMsg replaces the options of the control named Name and ends its
// loading state. Async search callbacks answer with it.
type OptionsMsg struct {
	Name    string
	Options []Option
}

// LoadingMsg toggles the loading state of the control named Name.
type LoadingMsg struct {
	Name    string
	Loading bool
}

// panelLine is one rendered row of the open panel. option indexes
// State.Visible(), or is -1 for headers and placeholders.
type panelLine struct {
	text   string
	option int
}

// Model is the bubbletea dropdown component.
type Model struct {
	state   *State
	keys    KeyMap
	search  textinput.Model
	spinner spinner.Model

	searchable bool
	onSearch   func(term string) tea.Cmd
	maxHeight  int
	focused    bool

	// row is the screen row of the box; height is the terminal height.
	row    int
	width  int
	height int
	scroll int
}

// ModelOption configures a Model.
type ModelOption func(*Model)

// WithValue seeds the selection.
func WithValue(values ...string) ModelOption {
	return func(m *Model) { m.state.SetValue(values...) }
}

// WithSearch shows a search input filtering options locally.
func WithSearch() ModelOption {
	return func(m *Model) { m.searchable = true }
}

// WithAsyncSearch shows a search input and hands every term change to fn
// instead of filtering locally. fn should eventually answer with an
// OptionsMsg.
func WithAsyncSearch(fn func(term string) tea.Cmd) ModelOption {
	return func(m *Model) {
		m.searchable = true
		m.onSearch = fn
		m.state.cfg.AsyncSearch = true
	}
}

// WithMaxHeight limits the number of option rows shown at once.
func WithMaxHeight(rows int) ModelOption {
	return func(m *Model) {
		if rows > 0 {
			m.maxHeight = rows
		}
	}
}

// WithKeyMap replaces the default keybindings.
func WithKeyMap(k KeyMap) ModelOption {
	return func(m *Model) { m.keys = k }
}

// New creates a focused dropdown model.
func New(cfg Config, options []Option, opts ...ModelOption) Model {
	ti := textinput.New()
	ti.Placeholder = "Type to filter..."
	ti.CharLimit = 128
	ti.Prompt = theme.IconPointer + " "

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = theme.DefaultTheme.Info

	m := Model{
		state:     NewState(cfg, options),
		keys:      DefaultKeyMap(),
		search:    ti,
		spinner:   sp,
		maxHeight: 8,
		focused:   true,
	}
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		m.width, m.height = w, h
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// State exposes the underlying state machine.
func (m Model) State() *State { return m.state }

// Name is the control's field name.
func (m Model) Name() string { return m.state.cfg.Name }

// Value returns the single-mode value.
func (m Model) Value() string {
	sel := m.state.Selected()
	if len(sel) == 0 {
		return ""
	}
	return sel[0]
}

// Values returns the multi-mode selection.
func (m Model) Values() []string { return m.state.Selected() }

// SetValue re-synchronizes the selection from an external value.
func (m *Model) SetValue(values ...string) { m.state.SetValue(values...) }

// SetOptions replaces the options.
func (m *Model) SetOptions(options []Option) { m.state.SetOptions(options) }

// SetLoading toggles the loading indicator.
func (m *Model) SetLoading(loading bool) tea.Cmd {
	m.state.SetLoading(loading)
	if loading {
		return m.spinner.Tick
	}
	return nil
}

// SetRow tells the model which screen row its box is drawn on. It is used
// for placement and mouse hit testing.
func (m *Model) SetRow(row int) { m.row = row }

// Focus gives the control keyboard focus.
func (m *Model) Focus() { m.focused = true }

// Blur removes keyboard focus and closes the panel.
func (m *Model) Blur() {
	m.focused = false
	m.close()
}

// Focused reports whether the control has keyboard focus.
func (m Model) Focused() bool { return m.focused }

// KeyMap returns the active keybindings.
func (m Model) KeyMap() KeyMap { return m.keys }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	if m.state.Loading() {
		return m.spinner.Tick
	}
	return nil
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case OptionsMsg:
		if msg.Name != m.Name() {
			return m, nil
		}
		m.state.SetOptions(msg.Options)
		m.state.SetLoading(false)
		m.scroll = 0
		return m, nil

	case LoadingMsg:
		if msg.Name != m.Name() {
			return m, nil
		}
		return m, m.SetLoading(msg.Loading)

	case spinner.TickMsg:
		if !m.state.Loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		if !m.focused {
			return m, nil
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Clear) {
		if change, ok := m.state.Clear(); ok {
			return m, emit(change)
		}
		return m, nil
	}

	wasOpen := m.state.IsOpen()
	if k, ok := m.keys.stateKey(msg, wasOpen); ok {
		change, changed := m.state.HandleKey(k, m.space())
		m.afterTransition(wasOpen)
		if changed {
			return m, emit(change)
		}
		return m, nil
	}

	if !wasOpen || !m.searchable {
		return m, nil
	}

	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	term := m.search.Value()
	if term == before {
		return m, cmd
	}
	m.state.SetSearch(term)
	m.scroll = 0
	if m.onSearch == nil {
		return m, cmd
	}
	m.state.SetLoading(true)
	return m, tea.Batch(cmd, m.spinner.Tick, m.onSearch(term))
}

// afterTransition syncs the search input with an open/close transition.
func (m *Model) afterTransition(wasOpen bool) {
	switch open := m.state.IsOpen(); {
	case open && !wasOpen:
		m.scroll = 0
		if m.searchable {
			m.search.SetValue("")
			m.search.Focus()
		}
	case !open && wasOpen:
		m.search.SetValue("")
		m.search.Blur()
	}
	m.ensureVisible()
}

func (m *Model) close() {
	wasOpen := m.state.IsOpen()
	m.state.Close()
	m.afterTransition(wasOpen)
}

func (m Model) handleMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}

	if msg.Y == m.row {
		m.focused = true
		if col := m.clearColumn(); m.state.CanClear() && msg.X >= col && msg.X < col+lipgloss.Width(theme.IconClear) {
			if change, ok := m.state.Clear(); ok {
				return m, emit(change)
			}
		}
		wasOpen := m.state.IsOpen()
		m.state.Toggle(m.space())
		m.afterTransition(wasOpen)
		return m, nil
	}

	if !m.state.IsOpen() {
		return m, nil
	}

	lines := m.panelLines()
	top := m.row + 1
	if m.state.Placement() == PlacementTop {
		top = m.row - len(lines)
	}
	idx := msg.Y - top
	if idx < 0 || idx >= len(lines) {
		// Outside press.
		m.close()
		return m, nil
	}
	if opt := lines[idx].option; opt >= 0 {
		visible := m.state.Visible()
		wasOpen := m.state.IsOpen()
		change, changed := m.state.Select(visible[opt].Value)
		m.afterTransition(wasOpen)
		if changed {
			return m, emit(change)
		}
	}
	return m, nil
}

func emit(c Change) tea.Cmd {
	return func() tea.Msg { return ChangeMsg{Change: c} }
}

// space measures the rows available around the box.
func (m Model) space() Space {
	if m.height <= 0 {
		return Space{Above: 0, Below: m.state.cfg.PlacementThreshold}
	}
	below := m.height - m.row - 1
	if below < 0 {
		below = 0
	}
	return Space{Above: m.row, Below: below}
}

// ensureVisible scrolls the option window so the highlight is shown.
func (m *Model) ensureVisible() {
	h := m.state.Highlight()
	if h < m.scroll {
		m.scroll = h
	}
	if h >= m.scroll+m.maxHeight {
		m.scroll = h - m.maxHeight + 1
	}
	if m.scroll < 0 {
		m.scroll = 0
	}
}

// View renders the box and, when open, the panel.
func (m Model) View() string {
	box := m.renderBox()
	if !m.state.IsOpen() {
		return box
	}
	texts := make([]string, 0, len(m.panelLines()))
	for _, l := range m.panelLines() {
		texts = append(texts, l.text)
	}
	panel := strings.Join(texts, "\n")
	if m.state.Placement() == PlacementTop {
		return lipgloss.JoinVertical(lipgloss.Left, panel, box)
	}
	return lipgloss.JoinVertical(lipgloss.Left, box, panel)
}

func (m Model) renderBox() string {
	t := theme.DefaultTheme

	var value string
	if len(m.state.Selected()) == 0 {
		value = t.Placeholder.Render(m.state.cfg.Placeholder)
	} else {
		value = t.Input.Render(m.state.DisplayValue())
	}

	affordance := theme.IconExpand
	if m.state.IsOpen() {
		affordance = theme.IconCollapse
	}
	if m.state.Loading() {
		affordance = m.spinner.View()
	}

	parts := []string{value}
	if m.state.CanClear() {
		parts = append(parts, t.Muted.Render(theme.IconClear))
	}
	parts = append(parts, t.Accent.Render(affordance))

	line := strings.Join(parts, " ")
	if m.state.cfg.Disabled {
		return t.Muted.Render(line)
	}
	if m.focused {
		return t.Cursor.Render(theme.IconPointer) + " " + line
	}
	return "  " + line
}

// clearColumn is the first screen column of the clear icon in the box.
func (m Model) clearColumn() int {
	display := m.state.DisplayValue()
	return 2 + lipgloss.Width(display) + 1
}

// panelLines renders the open panel row by row.
func (m Model) panelLines() []panelLine {
	t := theme.DefaultTheme
	var lines []panelLine

	if m.searchable {
		lines = append(lines, panelLine{text: "  " + m.search.View(), option: -1})
	}
	if m.state.Loading() {
		return append(lines, panelLine{text: "  " + m.spinner.View() + " " + t.Muted.Render("Loading..."), option: -1})
	}

	visible := m.state.Visible()
	if len(visible) == 0 {
		return append(lines, panelLine{text: "  " + t.Muted.Render("No options"), option: -1})
	}

	end := m.scroll + m.maxHeight
	if end > len(visible) {
		end = len(visible)
	}

	grouped := m.state.cfg.Grouped
	lastGroup := ""
	for i := m.scroll; i < end; i++ {
		o := visible[i]
		if grouped && o.Group != "" && (i == m.scroll || o.Group != lastGroup) {
			lines = append(lines, panelLine{text: "  " + t.TableHeader.Render(o.Group), option: -1})
		}
		lastGroup = o.Group
		lines = append(lines, panelLine{text: m.renderOption(o, i == m.state.Highlight()), option: i})
	}

	if hidden := len(visible) - end; hidden > 0 {
		lines = append(lines, panelLine{text: "  " + t.Muted.Render(fmt.Sprintf("%d more", hidden)), option: -1})
	}
	return lines
}

func (m Model) renderOption(o Option, highlighted bool) string {
	t := theme.DefaultTheme

	prefix := "  "
	if highlighted {
		prefix = t.Cursor.Render(theme.IconPointer) + " "
	}
	if m.state.cfg.Multiple {
		mark := theme.IconUnchecked
		if m.state.IsSelected(o.Value) {
			mark = theme.IconCheck
		}
		prefix += mark + " "
	}

	label := o.Display()
	switch {
	case o.Disabled:
		label = t.Muted.Render(label)
	case highlighted:
		label = t.Selected.Render(label)
	case m.state.IsSelected(o.Value):
		label = t.Highlight.Render(label)
	}
	return prefix + label
}
