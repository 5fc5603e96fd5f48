package cmd

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/grovetools/ratedesk/errors"
	"github.com/grovetools/ratedesk/pkg/models"
	"github.com/grovetools/ratedesk/tui/components"
	"github.com/grovetools/ratedesk/tui/components/table"
	"github.com/spf13/cobra"
)

// NewPublishCmd creates the `publish` command.
func NewPublishCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "publish <id>",
		Short: "Publish a rate card and print its share URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			res, err := s.store.Publish(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return s.emit(res, func(w io.Writer) {
				fmt.Fprintln(w, components.RenderBox("Published", components.RenderKeyValue("Share URL", res.ShareURL)))
			})
		},
	}
}

// NewShareCmd creates the `share` command.
func NewShareCmd() *cobra.Command {
	var (
		settings  models.ShareSettings
		expiresIn time.Duration
	)
	cmd := &cobra.Command{
		Use:     "share <id>",
		Short:   "Update the share settings of a published rate card",
		Example: `ratedesk share 65f1 --allow-download --contact-form --expires-in 720h`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := models.ShareInput{Settings: settings}
			if expiresIn < 0 {
				return errors.ValidationFailed("expires-in", "must not be negative")
			}
			if expiresIn > 0 {
				at := time.Now().Add(expiresIn).UTC().Truncate(time.Second)
				in.ExpiresAt = &at
			}

			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			res, err := s.store.UpdateShareSettings(cmd.Context(), args[0], in)
			if err != nil {
				return err
			}
			return s.emit(res.Sharing, func(w io.Writer) {
				rows := [][2]string{
					{"Allow download", strconv.FormatBool(res.Sharing.Settings.AllowDownload)},
					{"Contact form", strconv.FormatBool(res.Sharing.Settings.ShowContactForm)},
					{"Require email", strconv.FormatBool(res.Sharing.Settings.RequireEmail)},
				}
				if res.Sharing.ExpiresAt != nil {
					rows = append(rows, [2]string{"Expires", res.Sharing.ExpiresAt.Format(time.RFC3339)})
				}
				fmt.Fprintln(w, table.KeyValues(rows))
			})
		},
	}
	cmd.Flags().BoolVar(&settings.AllowDownload, "allow-download", false, "Let viewers download the rate card")
	cmd.Flags().BoolVar(&settings.ShowContactForm, "contact-form", false, "Show a contact form to viewers")
	cmd.Flags().BoolVar(&settings.RequireEmail, "require-email", false, "Ask viewers for an email address")
	cmd.Flags().DurationVar(&expiresIn, "expires-in", 0, "Expire the share link after this duration")
	return cmd
}

// NewHistoryCmd creates the `history` command.
func NewHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history <id>",
		Short: "List the versions of a rate card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			entries, err := s.store.FetchHistory(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return s.emit(entries, func(w io.Writer) { fmt.Fprintln(w, table.History(entries)) })
		},
	}
}

// NewRestoreCmd creates the `restore` command.
func NewRestoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore <id> <version>",
		Short: "Restore a previous version of a rate card",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			version, err := strconv.Atoi(args[1])
			if err != nil {
				return errors.ValidationFailed("version", "must be a number")
			}

			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			card, err := s.store.RestoreVersion(cmd.Context(), args[0], version)
			if err != nil {
				return err
			}
			history := s.store.Snapshot().History
			return s.emit(map[string]interface{}{"rateCard": card, "history": history}, func(w io.Writer) {
				renderRateCard(w, card)
				if len(history) > 0 {
					fmt.Fprintln(w)
					fmt.Fprintln(w, components.RenderSection("History", table.History(history)))
				}
			})
		},
	}
}

// NewAnalyticsCmd creates the `analytics` command.
func NewAnalyticsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analytics <id>",
		Short: "Show views, downloads and inquiries of a rate card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			a, err := s.store.FetchAnalytics(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return s.emit(a, func(w io.Writer) { fmt.Fprintln(w, table.Analytics(a)) })
		},
	}
}
