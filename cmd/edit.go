package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/grovetools/ratedesk/errors"
	"github.com/grovetools/ratedesk/pkg/models"
	"github.com/grovetools/ratedesk/tui/components"
	"github.com/spf13/cobra"
)

// NewMetricsCmd creates the `metrics` command.
func NewMetricsCmd() *cobra.Command {
	var (
		file       string
		platforms  []string
		niche      string
		experience string
		languages  []string
	)
	cmd := &cobra.Command{
		Use:     "metrics <id>",
		Short:   "Update audience metrics and get pricing suggestions",
		Example: `ratedesk metrics 65f1 --platform instagram:15000:5.1 --niche travel`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in models.MetricsInput
			if file != "" {
				if err := readInput(cmd, file, &in); err != nil {
					return err
				}
			}
			for _, p := range platforms {
				pm, err := parsePlatformMetrics(p)
				if err != nil {
					return err
				}
				in.Platforms = append(in.Platforms, pm)
			}
			if niche != "" {
				in.Niche = niche
			}
			if experience != "" {
				in.Experience = experience
			}
			if len(languages) > 0 {
				in.Languages = languages
			}

			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			card, err := s.store.UpdateMetrics(cmd.Context(), args[0], in)
			if err != nil {
				return err
			}
			suggestions := s.store.Snapshot().AISuggestions
			return s.emit(map[string]interface{}{"rateCard": card, "aiSuggestions": suggestions}, func(w io.Writer) {
				renderRateCard(w, card)
				renderSuggestions(w, suggestions)
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON or YAML metrics document ('-' for stdin)")
	cmd.Flags().StringArrayVar(&platforms, "platform", nil, "Platform metrics as name:followers[:engagement%]")
	cmd.Flags().StringVar(&niche, "niche", "", "Content niche")
	cmd.Flags().StringVar(&experience, "experience", "", "Experience level")
	cmd.Flags().StringSliceVar(&languages, "language", nil, "Content languages")
	return cmd
}

// NewPricingCmd creates the `pricing` command.
func NewPricingCmd() *cobra.Command {
	var (
		file  string
		rates []string
	)
	cmd := &cobra.Command{
		Use:   "pricing <id>",
		Short: "Replace the deliverable pricing of a rate card",
		Example: `ratedesk pricing 65f1 --rate instagram:reel:500 --rate instagram:story:150:USD
ratedesk pricing 65f1 -f pricing.yml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in models.PricingInput
			if file != "" {
				if err := readInput(cmd, file, &in); err != nil {
					return err
				}
			}
			for _, r := range rates {
				platform, d, err := parseRate(r)
				if err != nil {
					return err
				}
				in.Pricing = addDeliverable(in.Pricing, platform, d)
			}

			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			card, err := s.store.UpdatePricing(cmd.Context(), args[0], in)
			if err != nil {
				return err
			}
			return s.emit(card, func(w io.Writer) { renderRateCard(w, card) })
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON or YAML pricing document ('-' for stdin)")
	cmd.Flags().StringArrayVar(&rates, "rate", nil, "Deliverable rate as platform:type:rate[:currency]")
	return cmd
}

// NewTermsCmd creates the `terms` command.
func NewTermsCmd() *cobra.Command {
	var (
		file         string
		advance      int
		dueDays      int
		usageDays    int
		revisions    int
		cancellation string
		exclusive    bool
		inclusions   []string
		exclusions   []string
	)
	cmd := &cobra.Command{
		Use:   "terms <id>",
		Short: "Update the professional terms of a rate card",
		Long: `Updates payment terms, usage rights and revisions. Unset values take the
defaults: 50% advance, payment due in 30 days, 30 days of usage rights and
2 revisions. The advance percentage is capped at 100.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in models.ProfessionalDetailsInput
			if file != "" {
				if err := readInput(cmd, file, &in); err != nil {
					return err
				}
			}
			flags := cmd.Flags()
			if flags.Changed("advance") || flags.Changed("due-days") {
				if in.PaymentTerms == nil {
					in.PaymentTerms = &models.PaymentTermsInput{}
				}
				if flags.Changed("advance") {
					in.PaymentTerms.AdvancePercentage = &advance
				}
				if flags.Changed("due-days") {
					in.PaymentTerms.PaymentDueDays = &dueDays
				}
			}
			if flags.Changed("usage-days") || flags.Changed("exclusive") {
				if in.UsageRights == nil {
					in.UsageRights = &models.UsageRightsInput{}
				}
				if flags.Changed("usage-days") {
					in.UsageRights.DurationDays = &usageDays
				}
				if flags.Changed("exclusive") {
					in.UsageRights.Exclusive = &exclusive
				}
			}
			if flags.Changed("revisions") {
				in.Revisions = &revisions
			}
			if flags.Changed("cancellation") {
				in.CancellationPolicy = &cancellation
			}
			if len(inclusions) > 0 {
				in.Inclusions = inclusions
			}
			if len(exclusions) > 0 {
				in.Exclusions = exclusions
			}

			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			card, err := s.store.UpdateProfessionalDetails(cmd.Context(), args[0], in)
			if err != nil {
				return err
			}
			return s.emit(card.ProfessionalDetails, func(w io.Writer) { renderTerms(w, card.ProfessionalDetails) })
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON or YAML terms document ('-' for stdin)")
	cmd.Flags().IntVar(&advance, "advance", 0, "Advance payment percentage")
	cmd.Flags().IntVar(&dueDays, "due-days", 0, "Days until payment is due")
	cmd.Flags().IntVar(&usageDays, "usage-days", 0, "Usage rights duration in days")
	cmd.Flags().IntVar(&revisions, "revisions", 0, "Included revisions")
	cmd.Flags().StringVar(&cancellation, "cancellation", "", "Cancellation policy")
	cmd.Flags().BoolVar(&exclusive, "exclusive", false, "Grant exclusive usage rights")
	cmd.Flags().StringSliceVar(&inclusions, "include", nil, "Included services")
	cmd.Flags().StringSliceVar(&exclusions, "exclude", nil, "Excluded services")
	return cmd
}

func renderTerms(w io.Writer, d models.ProfessionalDetails) {
	fmt.Fprintf(w, "Advance:       %d%%\n", d.PaymentTerms.AdvancePercentage)
	fmt.Fprintf(w, "Payment due:   %d days\n", d.PaymentTerms.PaymentDueDays)
	fmt.Fprintf(w, "Usage rights:  %d days", d.UsageRights.DurationDays)
	if d.UsageRights.Exclusive {
		fmt.Fprint(w, " (exclusive)")
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Revisions:     %d\n", d.Revisions)
	if d.CancellationPolicy != "" {
		fmt.Fprintf(w, "Cancellation:  %s\n", d.CancellationPolicy)
	}
	if len(d.Inclusions) > 0 {
		fmt.Fprintln(w, components.RenderSection("Included", components.RenderList(d.Inclusions, false)))
	}
	if len(d.Exclusions) > 0 {
		fmt.Fprintln(w, components.RenderSection("Not included", components.RenderList(d.Exclusions, false)))
	}
}

// parseRate parses platform:type:rate[:currency].
func parseRate(s string) (string, models.Deliverable, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 3 || len(parts) > 4 || parts[0] == "" || parts[1] == "" {
		return "", models.Deliverable{}, errors.New(errors.ErrCodeInvalidInput,
			fmt.Sprintf("invalid rate %q, expected platform:type:rate[:currency]", s))
	}
	rate, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return "", models.Deliverable{}, errors.Wrap(err, errors.ErrCodeInvalidInput,
			fmt.Sprintf("invalid amount in %q", s))
	}
	d := models.Deliverable{Type: parts[1], Rate: rate}
	if len(parts) == 4 {
		d.Currency = strings.ToUpper(parts[3])
	}
	return parts[0], d, nil
}

// addDeliverable appends d to the platform's entry, creating it if needed.
func addDeliverable(pricing []models.PlatformPricing, platform string, d models.Deliverable) []models.PlatformPricing {
	for i := range pricing {
		if pricing[i].Platform == platform {
			pricing[i].Deliverables = append(pricing[i].Deliverables, d)
			return pricing
		}
	}
	return append(pricing, models.PlatformPricing{Platform: platform, Deliverables: []models.Deliverable{d}})
}
