package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/grovetools/ratedesk/errors"
	"github.com/grovetools/ratedesk/pkg/models"
	"github.com/grovetools/ratedesk/tui/components/table"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// packageFlags are shared by `package add` and `package update`.
type packageFlags struct {
	file        string
	name        string
	description string
	items       []string
	price       float64
	validity    int
	popular     bool
}

func (p *packageFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&p.file, "file", "f", "", "JSON or YAML package document ('-' for stdin)")
	fs.StringVar(&p.name, "name", "", "Package name")
	fs.StringVar(&p.description, "description", "", "Package description")
	fs.StringArrayVar(&p.items, "item", nil, "Deliverable as platform:type[:quantity]")
	fs.Float64Var(&p.price, "price", 0, "Package price")
	fs.IntVar(&p.validity, "validity", 0, "Days the offer stays valid")
	fs.BoolVar(&p.popular, "popular", false, "Highlight as the popular choice")
}

// apply overlays the flags that were set onto in. Items given on the
// command line replace the existing deliverables.
func (p *packageFlags) apply(cmd *cobra.Command, in *models.PackageInput) error {
	if p.file != "" {
		if err := readInput(cmd, p.file, in); err != nil {
			return err
		}
	}
	fs := cmd.Flags()
	if fs.Changed("name") {
		in.Name = p.name
	}
	if fs.Changed("description") {
		in.Description = p.description
	}
	if fs.Changed("price") {
		in.PackagePrice = p.price
	}
	if fs.Changed("validity") {
		in.ValidityDays = p.validity
	}
	if fs.Changed("popular") {
		in.IsPopular = p.popular
	}
	if len(p.items) > 0 {
		in.Deliverables = in.Deliverables[:0]
		for _, raw := range p.items {
			item, err := parsePackageItem(raw)
			if err != nil {
				return err
			}
			in.Deliverables = append(in.Deliverables, item)
		}
	}
	return nil
}

// NewPackageCmd creates the `package` command group.
func NewPackageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "package",
		Aliases: []string{"pkg"},
		Short:   "Manage bundled packages of a rate card",
	}
	cmd.AddCommand(newPackageAddCmd(), newPackageUpdateCmd(), newPackageRmCmd())
	return cmd
}

func newPackageAddCmd() *cobra.Command {
	var flags packageFlags
	cmd := &cobra.Command{
		Use:     "add <id>",
		Short:   "Add a package",
		Example: `ratedesk package add 65f1 --name Launch --item instagram:reel:2 --item instagram:story:3 --price 1200`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in models.PackageInput
			if err := flags.apply(cmd, &in); err != nil {
				return err
			}

			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			card, err := s.store.CreatePackage(cmd.Context(), args[0], in)
			if err != nil {
				return err
			}
			return s.emit(card.Packages, func(w io.Writer) { fmt.Fprintln(w, table.Packages(card)) })
		},
	}
	flags.register(cmd.Flags())
	return cmd
}

func newPackageUpdateCmd() *cobra.Command {
	var flags packageFlags
	cmd := &cobra.Command{
		Use:   "update <id> <package-id>",
		Short: "Update a package",
		Long:  `Updates a package. Fields that are not given keep their current values.`,
		Args:  cobra.ExactArgs(2),
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
			idx := card.PackageIndex(args[1])
			if idx < 0 {
				return errors.New(errors.ErrCodeNotFound, fmt.Sprintf("package %s not found on rate card %s", args[1], args[0]))
			}
			in := packageInputFrom(card.Packages[idx])
			if err := flags.apply(cmd, &in); err != nil {
				return err
			}

			card, err = s.store.UpdatePackage(ctx, args[0], args[1], in)
			if err != nil {
				return err
			}
			return s.emit(card.Packages, func(w io.Writer) { fmt.Fprintln(w, table.Packages(card)) })
		},
	}
	flags.register(cmd.Flags())
	return cmd
}

func newPackageRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id> <package-id>",
		Aliases: []string{"delete"},
		Short:   "Remove a package",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			ctx := cmd.Context()
			// The package is removed from the current rate card locally, so
			// load it first.
			if _, err := s.store.FetchRateCard(ctx, args[0]); err != nil {
				return err
			}
			if err := s.store.DeletePackage(ctx, args[0], args[1]); err != nil {
				return err
			}
			card := s.store.Snapshot().CurrentRateCard
			return s.emit(card.Packages, func(w io.Writer) { fmt.Fprintln(w, table.Packages(card)) })
		},
	}
}

func packageInputFrom(p models.Package) models.PackageInput {
	return models.PackageInput{
		Name:         p.Name,
		Description:  p.Description,
		Deliverables: append([]models.PackageItem(nil), p.Deliverables...),
		PackagePrice: p.PackagePrice,
		ValidityDays: p.ValidityDays,
		IsPopular:    p.IsPopular,
	}
}

// parsePackageItem parses platform:type[:quantity].
func parsePackageItem(s string) (models.PackageItem, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 || parts[0] == "" || parts[1] == "" {
		return models.PackageItem{}, errors.New(errors.ErrCodeInvalidInput,
			fmt.Sprintf("invalid item %q, expected platform:type[:quantity]", s))
	}
	item := models.PackageItem{Platform: parts[0], DeliverableType: parts[1], Quantity: 1}
	if len(parts) == 3 {
		q, err := strconv.Atoi(parts[2])
		if err != nil {
			return models.PackageItem{}, errors.Wrap(err, errors.ErrCodeInvalidInput,
				fmt.Sprintf("invalid quantity in %q", s))
		}
		item.Quantity = q
	}
	return item, nil
}
