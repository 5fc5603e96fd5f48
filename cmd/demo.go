package cmd

import (
	"time"

	"github.com/grovetools/ratedesk/cli"
	"github.com/grovetools/ratedesk/internal/apitest"
	"github.com/grovetools/ratedesk/pkg/models"
	"github.com/spf13/cobra"
)

// NewDemoServerCmd creates the `demo-server` command.
func NewDemoServerCmd() *cobra.Command {
	var (
		addr  string
		token string
		seed  bool
	)
	cmd := &cobra.Command{
		Use:   "demo-server",
		Short: "Run an in-memory rate card API for local demos",
		Long: `Serves the rate card API from memory. Nothing is persisted.

Examples:
  ratedesk demo-server --addr :8080 --token secret
  RATEDESK_TOKEN=secret ratedesk list --api-url http://localhost:8080`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := cli.NewLogger("demo-server",
				cli.WithOutput(cmd.ErrOrStderr()),
				cli.FromFlags(cmd),
			)

			srv := apitest.New(logger, token)
			if seed {
				ids := srv.Seed(demoCards()...)
				logger.WithField("count", len(ids)).Info("Seeded demo rate cards")
			}
			return srv.ListenAndServe(addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8080", "Listen address")
	cmd.Flags().StringVar(&token, "token", "", "Require this bearer token")
	cmd.Flags().BoolVar(&seed, "seed", true, "Start with sample rate cards")
	return cmd
}

func demoCards() []models.RateCard {
	published := time.Now().Add(-72 * time.Hour).UTC()
	return []models.RateCard{
		{
			Title:       "Travel creator 2025",
			Description: "Reels and stories for tourism boards",
			Status:      "published",
			Metrics: models.Metrics{
				Platforms: []models.PlatformMetrics{{Name: "instagram", Followers: 48000, EngagementRate: 4.2}},
				Niche:     "travel",
				Languages: []string{"en"},
			},
			Pricing: []models.PlatformPricing{{
				Platform: "instagram",
				Deliverables: []models.Deliverable{
					{Type: "reel", Rate: 650, Currency: "USD"},
					{Type: "story", Rate: 180, Currency: "USD"},
				},
			}},
			Sharing: models.Sharing{IsPublic: true, PublishedAt: &published},
		},
		{
			Title:  "Tech reviews",
			Status: "draft",
			Metrics: models.Metrics{
				Platforms: []models.PlatformMetrics{{Name: "youtube", Followers: 120000, EngagementRate: 6.8}},
				Niche:     "technology",
			},
			Pricing: []models.PlatformPricing{{
				Platform:     "youtube",
				Deliverables: []models.Deliverable{{Type: "dedicated-video", Rate: 2500, Currency: "USD"}},
			}},
		},
	}
}
