package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/grovetools/ratedesk/cli"
	"github.com/grovetools/ratedesk/errors"
	"github.com/grovetools/ratedesk/pkg/models"
	"github.com/grovetools/ratedesk/tui/components"
	"github.com/grovetools/ratedesk/tui/components/table"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// NewListCmd creates the `list` command.
func NewListCmd() *cobra.Command {
	var params models.ListParams
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List rate cards",
		Example: `ratedesk list --status published
ratedesk list --search reel --platform instagram --limit 20`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			cards, err := s.store.FetchRateCards(cmd.Context(), params)
			if err != nil {
				return err
			}
			pg := s.store.Snapshot().Pagination
			return s.emit(map[string]interface{}{"rateCards": cards, "pagination": pg}, func(w io.Writer) {
				if len(cards) == 0 {
					fmt.Fprintln(w, "No rate cards found.")
					return
				}
				fmt.Fprintln(w, table.RateCards(cards))
				fmt.Fprintln(w, components.RenderKeyValue("Page", fmt.Sprintf("%d/%d (%d total)", pg.Page, pg.Pages, pg.Total)))
			})
		},
	}
	cmd.Flags().IntVar(&params.Page, "page", 0, "Page number")
	cmd.Flags().IntVar(&params.Limit, "limit", 0, "Page size (max 100)")
	cmd.Flags().StringVar(&params.Status, "status", "", "Filter by status: draft, published, archived")
	cmd.Flags().StringVar(&params.Search, "search", "", "Search titles and descriptions")
	cmd.Flags().StringVar(&params.Platform, "platform", "", "Filter by platform")
	cmd.Flags().StringVar(&params.Sort, "sort", "", "Sort field, prefix with - for descending")
	return cmd
}

// NewShowCmd creates the `show` command.
func NewShowCmd() *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a rate card",
		Long: `Fetches a rate card and renders its pricing and packages. With --all the
version history and analytics are fetched concurrently as well.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			ctx := cmd.Context()
			card, err := s.store.FetchRateCard(ctx, args[0])
			if err != nil {
				return err
			}
			if !all {
				return s.emit(card, func(w io.Writer) { renderRateCard(w, card) })
			}

			var history []models.HistoryEntry
			var analytics *models.Analytics
			var progress *cli.ProgressReporter
			if cli.GetOptions(cmd).Verbose && !s.json {
				progress = cli.NewProgressReporter(cmd.ErrOrStderr())
			}
			track := func(task string, fn func() error) func() error {
				return func() error {
					if progress != nil {
						progress.Update(task, cli.StatusStarting)
					}
					err := fn()
					if progress != nil {
						status := cli.StatusCompleted
						if err != nil {
							status = cli.StatusFailed
						}
						progress.Update(task, status)
					}
					return err
				}
			}

			g, gctx := errgroup.WithContext(ctx)
			g.Go(track("history", func() (err error) {
				history, err = s.store.FetchHistory(gctx, card.ID)
				return err
			}))
			g.Go(track("analytics", func() (err error) {
				analytics, err = s.store.FetchAnalytics(gctx, card.ID)
				return err
			}))
			if err := g.Wait(); err != nil {
				return err
			}
			if progress != nil {
				progress.Done()
			}

			out := map[string]interface{}{"rateCard": card, "history": history, "analytics": analytics}
			return s.emit(out, func(w io.Writer) {
				renderRateCard(w, card)
				fmt.Fprintln(w)
				fmt.Fprintln(w, components.RenderSection("History", table.History(history)))
				fmt.Fprintln(w)
				fmt.Fprintln(w, components.RenderSection("Analytics", table.Analytics(analytics)))
			})
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "Also fetch history and analytics")
	return cmd
}

// NewCreateCmd creates the `create` command.
func NewCreateCmd() *cobra.Command {
	var (
		file        string
		title       string
		description string
		platforms   []string
		niche       string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a rate card",
		Long: `Creates a rate card from flags or from a JSON/YAML document. Flags
override the matching fields of the document.

Examples:
  ratedesk create --title "Summer 2025" --platform instagram:12000:4.5
  ratedesk create -f card.yml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var in models.CreateInput
			if file != "" {
				if err := readInput(cmd, file, &in); err != nil {
					return err
				}
			}
			if title != "" {
				in.Title = title
			}
			if description != "" {
				in.Description = description
			}
			if niche != "" {
				in.Metrics.Niche = niche
			}
			for _, p := range platforms {
				pm, err := parsePlatformMetrics(p)
				if err != nil {
					return err
				}
				in.Metrics.Platforms = append(in.Metrics.Platforms, pm)
			}

			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			card, suggestions, err := s.store.Create(cmd.Context(), in)
			if err != nil {
				return err
			}
			out := map[string]interface{}{"rateCard": card, "aiSuggestions": suggestions}
			return s.emit(out, func(w io.Writer) {
				renderRateCard(w, card)
				renderSuggestions(w, suggestions)
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON or YAML document with the rate card ('-' for stdin)")
	cmd.Flags().StringVar(&title, "title", "", "Title")
	cmd.Flags().StringVar(&description, "description", "", "Description")
	cmd.Flags().StringVar(&niche, "niche", "", "Content niche")
	cmd.Flags().StringArrayVar(&platforms, "platform", nil, "Platform metrics as name:followers[:engagement%]")
	return cmd
}

// NewDeleteCmd creates the `delete` command.
func NewDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a rate card",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.store.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			return s.emit(map[string]string{"deleted": args[0]}, func(io.Writer) {})
		},
	}
}

// parsePlatformMetrics parses name:followers[:engagement].
func parsePlatformMetrics(s string) (models.PlatformMetrics, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 || parts[0] == "" {
		return models.PlatformMetrics{}, errors.New(errors.ErrCodeInvalidInput,
			fmt.Sprintf("invalid platform %q, expected name:followers[:engagement]", s))
	}
	followers, err := strconv.Atoi(parts[1])
	if err != nil {
		return models.PlatformMetrics{}, errors.Wrap(err, errors.ErrCodeInvalidInput,
			fmt.Sprintf("invalid follower count in %q", s))
	}
	pm := models.PlatformMetrics{Name: parts[0], Followers: followers}
	if len(parts) == 3 {
		rate, err := strconv.ParseFloat(parts[2], 64)
		if err != nil {
			return models.PlatformMetrics{}, errors.Wrap(err, errors.ErrCodeInvalidInput,
				fmt.Sprintf("invalid engagement rate in %q", s))
		}
		pm.EngagementRate = rate
	}
	return pm, nil
}

func renderRateCard(w io.Writer, card *models.RateCard) {
	platforms := make([]string, 0, len(card.Metrics.Platforms))
	for _, p := range card.Metrics.Platforms {
		platforms = append(platforms, fmt.Sprintf("%s (%d)", p.Name, p.Followers))
	}
	info := [][2]string{
		{"ID", card.ID},
		{"Status", table.Status(card.Status)},
		{"Version", strconv.Itoa(card.Version.Current)},
		{"Platforms", strings.Join(platforms, ", ")},
	}
	if card.Description != "" {
		info = append(info, [2]string{"Description", card.Description})
	}
	if card.Sharing.ShareURL != "" {
		info = append(info, [2]string{"Share URL", card.Sharing.ShareURL})
	}

	fmt.Fprintln(w, components.RenderHeader(card.Title))
	fmt.Fprintln(w, table.KeyValues(info))
	if len(card.Pricing) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, components.RenderSection("Pricing", table.Pricing(card)))
	}
	if len(card.Packages) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, components.RenderSection("Packages", table.Packages(card)))
	}
}

func renderSuggestions(w io.Writer, suggestions models.AISuggestions) {
	if len(suggestions) == 0 || string(suggestions) == "null" {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, components.RenderSection("Suggestions", string(suggestions)))
}
