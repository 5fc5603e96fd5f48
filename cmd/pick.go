package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/grovetools/ratedesk/config"
	"github.com/grovetools/ratedesk/errors"
	"github.com/grovetools/ratedesk/pkg/models"
	"github.com/grovetools/ratedesk/pkg/store"
	"github.com/grovetools/ratedesk/tui"
	"github.com/grovetools/ratedesk/tui/components"
	"github.com/grovetools/ratedesk/tui/components/dropdown"
	"github.com/grovetools/ratedesk/tui/theme"
	"github.com/spf13/cobra"
)

// headerRows is the number of screen rows above the dropdown box.
const headerRows = 2

var pickKeys = struct {
	Confirm key.Binding
	Quit    key.Binding
}{
	Confirm: key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "confirm")),
	Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
}

// pickModel hosts one dropdown full screen and quits once a value is chosen.
type pickModel struct {
	title    string
	dd       dropdown.Model
	multiple bool
	anchorUp bool

	height    int
	chosen    []string
	done      bool
	cancelled bool
}

func newPickModel(title string, dd dropdown.Model, multiple, anchorUp bool) pickModel {
	dd.SetRow(headerRows)
	return pickModel{title: title, dd: dd, multiple: multiple, anchorUp: anchorUp}
}

func (m pickModel) Init() tea.Cmd {
	return m.dd.Init()
}

// boxRow keeps the box near the bottom when the menu opens upward.
func (m pickModel) boxRow() int {
	if m.anchorUp && m.height > headerRows+3 {
		return m.height - 3
	}
	return headerRows
}

func (m pickModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height
		m.dd.SetRow(m.boxRow())
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, pickKeys.Quit) && (msg.String() == "ctrl+c" || !m.dd.State().IsOpen()):
			m.cancelled = true
			return m, tea.Quit
		case key.Matches(msg, pickKeys.Confirm):
			m.chosen = m.dd.Values()
			m.done = true
			return m, tea.Quit
		case msg.Type == tea.KeyEsc && !m.dd.State().IsOpen():
			m.cancelled = true
			return m, tea.Quit
		}
	case dropdown.ChangeMsg:
		m.chosen = msg.Values
		if !m.multiple && len(msg.Values) > 0 {
			m.done = true
			return m, tea.Quit
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.dd, cmd = m.dd.Update(msg)
	return m, cmd
}

func (m pickModel) View() string {
	if m.done || m.cancelled {
		return ""
	}
	t := theme.DefaultTheme
	header := components.RenderHeader(m.title)

	view := m.dd.View()
	if m.dd.State().Placement() == dropdown.PlacementTop && m.dd.State().IsOpen() {
		if pad := m.boxRow() - headerRows - (lipgloss.Height(view) - 1); pad > 0 {
			view = strings.Repeat("\n", pad) + view
		}
	} else if pad := m.boxRow() - headerRows; pad > 0 {
		view = strings.Repeat("\n", pad) + view
	}

	help := []string{"enter select", "esc close", m.dd.KeyMap().Clear.Help().Key + " clear"}
	if m.multiple {
		help = append(help, pickKeys.Confirm.Help().Key+" "+pickKeys.Confirm.Help().Desc)
	}
	help = append(help, pickKeys.Quit.Help().Key+" "+pickKeys.Quit.Help().Desc)

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		view,
		"",
		t.Muted.Render(strings.Join(help, " • ")),
	)
}

// dropdownConfig maps the tui config section onto a dropdown config.
func dropdownConfig(cfg config.TUIConfig, name string) dropdown.Config {
	return dropdown.Config{
		Name:               name,
		Placement:          dropdown.Placement(cfg.Placement),
		PlacementThreshold: cfg.PlacementThreshold,
		Clearable:          true,
	}
}

// rateCardOptions groups cards by status.
func rateCardOptions(cards []models.RateCard) []dropdown.Option {
	opts := make([]dropdown.Option, 0, len(cards))
	for _, c := range cards {
		status := c.Status
		if status == "" {
			status = "draft"
		}
		opts = append(opts, dropdown.Labeled(c.ID, c.Title).InGroup(status))
	}
	return opts
}

// remoteSearch answers dropdown searches with a server-side list query.
// Superseded queries produce no message; the newer query answers instead.
func remoteSearch(ctx context.Context, st *store.Store, name string, base models.ListParams) func(string) tea.Cmd {
	return func(term string) tea.Cmd {
		return func() tea.Msg {
			params := base
			params.Search = term
			cards, err := st.FetchRateCards(ctx, params)
			if errors.Is(err, errors.ErrCodeStaleResponse) {
				return nil
			}
			return dropdown.OptionsMsg{Name: name, Options: rateCardOptions(cards)}
		}
	}
}

// NewPickCmd creates the `pick` command.
func NewPickCmd() *cobra.Command {
	var (
		multiple bool
		maxSel   int
		status   string
		remote   bool
	)
	cmd := &cobra.Command{
		Use:   "pick [ratecard|platform]",
		Short: "Interactively pick rate cards or platforms",
		Long: `Opens a searchable dropdown and prints the chosen values, one per line,
so the result can feed other commands.

Examples:
  ratedesk show $(ratedesk pick)
  ratedesk pick platform --multiple --max 3
  ratedesk pick --remote-search --status published`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"ratecard", "platform"},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := "ratecard"
			if len(args) == 1 {
				kind = args[0]
			}
			if !tui.Interactive() {
				return errors.New(errors.ErrCodeInvalidInput, "pick needs an interactive terminal")
			}
			tui.InitializeTUI()

			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			ctx := cmd.Context()
			ddCfg := dropdownConfig(s.cfg.TUI, kind)
			ddCfg.Multiple = multiple
			ddCfg.MaxSelections = maxSel
			opts := []dropdown.ModelOption{dropdown.WithMaxHeight(s.cfg.TUI.MaxHeight)}

			var options []dropdown.Option
			title := "Pick a rate card"
			switch kind {
			case "platform":
				title = "Pick platforms"
				ddCfg.Placeholder = "Select platforms"
				options = dropdown.Strings(models.Platforms...)
				opts = append(opts, dropdown.WithSearch())
			case "ratecard":
				ddCfg.Placeholder = "Select a rate card"
				ddCfg.Grouped = true
				params := models.ListParams{Status: status, Limit: models.MaxListLimit}
				cards, err := s.store.FetchRateCards(ctx, params)
				if err != nil {
					return err
				}
				options = rateCardOptions(cards)
				if remote {
					opts = append(opts, dropdown.WithAsyncSearch(remoteSearch(ctx, s.store, kind, params)))
				} else {
					opts = append(opts, dropdown.WithSearch())
				}
			default:
				return errors.New(errors.ErrCodeInvalidInput, fmt.Sprintf("unknown pick kind %q", kind))
			}

			dd := dropdown.New(ddCfg, options, opts...)
			model := newPickModel(title, dd, multiple, ddCfg.Placement == dropdown.PlacementTop)
			final, err := tea.NewProgram(model,
				tea.WithContext(ctx),
				tea.WithAltScreen(),
				tea.WithMouseCellMotion(),
				tea.WithOutput(cmd.ErrOrStderr()),
			).Run()
			if err != nil {
				return errors.Wrap(err, errors.ErrCodeInternal, "dropdown failed")
			}

			result := final.(pickModel)
			if result.cancelled {
				return nil
			}
			return s.emit(result.chosen, func(w io.Writer) {
				for _, v := range result.chosen {
					fmt.Fprintln(w, v)
				}
			})
		},
	}
	cmd.Flags().BoolVarP(&multiple, "multiple", "m", false, "Allow several values")
	cmd.Flags().IntVar(&maxSel, "max", 0, "Maximum number of values with --multiple")
	cmd.Flags().StringVar(&status, "status", "", "Only offer rate cards with this status")
	cmd.Flags().BoolVar(&remote, "remote-search", false, "Search rate cards on the server as you type")
	return cmd
}
