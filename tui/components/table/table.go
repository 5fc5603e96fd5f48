// Package table renders rate cards, packages and history as lipgloss tables.
package table

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"
	"github.com/grovetools/ratedesk/pkg/models"
	"github.com/grovetools/ratedesk/tui/theme"
)

// Options provides additional configuration for the table
type Options struct {
	ShowRowNumbers bool
	Bordered       bool
	AlternateRows  bool
	Theme          *theme.Theme
}

// DefaultOptions returns the default table options
func DefaultOptions() Options {
	return Options{
		Bordered:      true,
		AlternateRows: theme.DefaultTheme.UseAlternatingRows,
		Theme:         theme.DefaultTheme,
	}
}

// Builder provides a fluent interface for creating styled tables
type Builder struct {
	headers []string
	rows    [][]string
	width   int
	options Options
}

// NewBuilder creates a new table builder
func NewBuilder() *Builder {
	return &Builder{options: DefaultOptions()}
}

// WithTheme sets the theme
func (b *Builder) WithTheme(t *theme.Theme) *Builder {
	b.options.Theme = t
	return b
}

// WithBorder enables or disables the border
func (b *Builder) WithBorder(bordered bool) *Builder {
	b.options.Bordered = bordered
	return b
}

// WithRowNumbers enables or disables row numbers
func (b *Builder) WithRowNumbers(show bool) *Builder {
	b.options.ShowRowNumbers = show
	return b
}

// WithAlternateRows enables or disables alternating row colors
func (b *Builder) WithAlternateRows(alternate bool) *Builder {
	b.options.AlternateRows = alternate
	return b
}

// WithHeaders sets the table headers
func (b *Builder) WithHeaders(headers ...string) *Builder {
	b.headers = headers
	return b
}

// WithRows appends rows
func (b *Builder) WithRows(rows ...[]string) *Builder {
	b.rows = append(b.rows, rows...)
	return b
}

// WithWidth sets the total table width
func (b *Builder) WithWidth(width int) *Builder {
	b.width = width
	return b
}

// Build creates the styled table
func (b *Builder) Build() *ltable.Table {
	t := b.options.Theme
	if t == nil {
		t = theme.DefaultTheme
	}

	headers := b.headers
	rows := b.rows
	if b.options.ShowRowNumbers {
		if len(headers) > 0 {
			headers = append([]string{"#"}, headers...)
		}
		numbered := make([][]string, len(rows))
		for i, r := range rows {
			numbered[i] = append([]string{strconv.Itoa(i + 1)}, r...)
		}
		rows = numbered
	}

	tbl := ltable.New().Headers(headers...).Rows(rows...)
	if b.options.Bordered {
		tbl = tbl.Border(lipgloss.RoundedBorder()).BorderStyle(t.TableBorder)
	} else {
		tbl = tbl.Border(lipgloss.HiddenBorder())
	}
	if b.width > 0 {
		tbl = tbl.Width(b.width)
	}

	// Headers are styled with row == ltable.HeaderRow; data rows start at 0.
	tbl = tbl.StyleFunc(func(row, col int) lipgloss.Style {
		if row == ltable.HeaderRow {
			return t.TableHeader.Padding(0, 1)
		}
		style := lipgloss.NewStyle().Padding(0, 1)
		if b.options.AlternateRows && row%2 == 1 {
			style = style.Background(t.Colors.SubtleBackground)
		}
		if b.options.ShowRowNumbers && col == 0 {
			style = style.Foreground(t.Colors.MutedText)
		}
		return style
	})
	return tbl
}

// SimpleTable creates a basic table with headers and rows
func SimpleTable(headers []string, rows [][]string) string {
	return NewBuilder().WithHeaders(headers...).WithRows(rows...).Build().String()
}

// KeyValues renders label/value pairs without a border.
func KeyValues(items [][2]string) string {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{theme.DefaultTheme.Muted.Render(item[0] + ":"), item[1]})
	}
	return NewBuilder().
		WithBorder(false).
		WithAlternateRows(false).
		WithRows(rows...).
		Build().
		String()
}

// Money formats an amount with an optional currency code.
func Money(amount float64, currency string) string {
	s := strconv.FormatFloat(amount, 'f', 2, 64)
	s = strings.TrimSuffix(s, ".00")
	if currency == "" {
		return s
	}
	return s + " " + currency
}

// Status renders a rate card status badge.
func Status(status string) string {
	t := theme.DefaultTheme
	switch status {
	case models.StatusPublished:
		return t.StatusPublished.Render(status)
	case models.StatusArchived:
		return t.StatusArchived.Render(status)
	case "":
		return t.StatusDraft.Render(models.StatusDraft)
	default:
		return t.StatusDraft.Render(status)
	}
}

// RateCards renders the rate card list.
func RateCards(cards []models.RateCard) string {
	rows := make([][]string, 0, len(cards))
	for _, c := range cards {
		platforms := make([]string, 0, len(c.Metrics.Platforms))
		for _, p := range c.Metrics.Platforms {
			platforms = append(platforms, p.Name)
		}
		rows = append(rows, []string{
			c.ID,
			c.Title,
			Status(c.Status),
			strings.Join(platforms, ", "),
			strconv.Itoa(len(c.Packages)),
			"v" + strconv.Itoa(c.Version.Current),
		})
	}
	return SimpleTable([]string{"ID", "TITLE", "STATUS", "PLATFORMS", "PACKAGES", "VERSION"}, rows)
}

// Pricing renders the deliverables of a rate card, one row per deliverable.
func Pricing(card *models.RateCard) string {
	var rows [][]string
	for _, pp := range card.Pricing {
		for _, d := range pp.Deliverables {
			turnaround := ""
			if d.TurnaroundDays > 0 {
				turnaround = fmt.Sprintf("%dd", d.TurnaroundDays)
			}
			rows = append(rows, []string{pp.Platform, d.Type, Money(d.Rate, d.Currency), turnaround})
		}
	}
	return SimpleTable([]string{"PLATFORM", "DELIVERABLE", "RATE", "TURNAROUND"}, rows)
}

// Packages renders the packages of a rate card with their savings.
func Packages(card *models.RateCard) string {
	rows := make([][]string, 0, len(card.Packages))
	for _, p := range card.Packages {
		items := make([]string, 0, len(p.Deliverables))
		for _, it := range p.Deliverables {
			items = append(items, fmt.Sprintf("%dx %s %s", it.Quantity, it.Platform, it.DeliverableType))
		}
		savings := ""
		if p.Savings() > 0 {
			savings = fmt.Sprintf("%s (%.0f%%)", Money(p.Savings(), ""), p.SavingsPercent())
		}
		name := p.Name
		if p.IsPopular {
			name += " " + theme.DefaultTheme.Accent.Render("*")
		}
		rows = append(rows, []string{p.ID, name, strings.Join(items, ", "), Money(p.PackagePrice, ""), Money(p.IndividualTotal, ""), savings})
	}
	return SimpleTable([]string{"ID", "NAME", "ITEMS", "PRICE", "INDIVIDUAL", "SAVINGS"}, rows)
}

// History renders version history, newest first as returned by the server.
func History(entries []models.HistoryEntry) string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		editor := e.EditedBy.Name
		if editor == "" {
			editor = e.EditedBy.ID
		}
		rows = append(rows, []string{
			"v" + strconv.Itoa(e.Version),
			e.ChangeType,
			editor,
			e.CreatedAt.Format("2006-01-02 15:04"),
		})
	}
	return SimpleTable([]string{"VERSION", "CHANGE", "EDITOR", "WHEN"}, rows)
}

// Analytics renders the analytics summary and top referrers.
func Analytics(a *models.Analytics) string {
	if a == nil {
		return theme.DefaultTheme.Muted.Render("No analytics yet.")
	}
	summary := KeyValues([][2]string{
		{"Views", strconv.Itoa(a.Views)},
		{"Unique viewers", strconv.Itoa(a.UniqueViewers)},
		{"Downloads", strconv.Itoa(a.Downloads)},
		{"Inquiries", strconv.Itoa(a.Inquiries)},
		{"Conversion", fmt.Sprintf("%.1f%%", a.ConversionRate)},
	})
	if len(a.TopReferrers) == 0 {
		return summary
	}
	rows := make([][]string, 0, len(a.TopReferrers))
	for _, r := range a.TopReferrers {
		rows = append(rows, []string{r.Source, strconv.Itoa(r.Count)})
	}
	return lipgloss.JoinVertical(lipgloss.Left, summary, SimpleTable([]string{"REFERRER", "VIEWS"}, rows))
}
