package models

// Defaults applied when normalising professional details.
const (
	DefaultAdvancePercentage = 50
	DefaultPaymentDueDays    = 30
	DefaultUsageDays         = 30
	DefaultRevisions         = 2
)

// ProfessionalDetails are the commercial terms attached to a rate card.
type ProfessionalDetails struct {
	PaymentTerms       PaymentTerms `json:"paymentTerms"`
	UsageRights        UsageRights  `json:"usageRights"`
	Revisions          int          `json:"revisions"`
	CancellationPolicy string       `json:"cancellationPolicy"`
	Inclusions         []string     `json:"inclusions"`
	Exclusions         []string     `json:"exclusions"`
}

// PaymentTerms of the engagement.
type PaymentTerms struct {
	AdvancePercentage int      `json:"advancePercentage"`
	PaymentDueDays    int      `json:"paymentDueDays"`
	PaymentMethods    []string `json:"paymentMethods"`
}

// UsageRights granted to the brand.
type UsageRights struct {
	DurationDays        int      `json:"durationDays"`
	Platforms           []string `json:"platforms"`
	Exclusive           bool     `json:"exclusive"`
	WhitelistingAllowed bool     `json:"whitelistingAllowed"`
}

// ProfessionalDetailsInput is a partially filled form. Nil fields take defaults.
type ProfessionalDetailsInput struct {
	PaymentTerms       *PaymentTermsInput `json:"paymentTerms,omitempty"`
	UsageRights        *UsageRightsInput  `json:"usageRights,omitempty"`
	Revisions          *int               `json:"revisions,omitempty"`
	CancellationPolicy *string            `json:"cancellationPolicy,omitempty"`
	Inclusions         []string           `json:"inclusions,omitempty"`
	Exclusions         []string           `json:"exclusions,omitempty"`
}

// PaymentTermsInput is the partial form of PaymentTerms.
type PaymentTermsInput struct {
	AdvancePercentage *int     `json:"advancePercentage,omitempty"`
	PaymentDueDays    *int     `json:"paymentDueDays,omitempty"`
	PaymentMethods    []string `json:"paymentMethods,omitempty"`
}

// UsageRightsInput is the partial form of UsageRights.
type UsageRightsInput struct {
	DurationDays        *int     `json:"durationDays,omitempty"`
	Platforms           []string `json:"platforms,omitempty"`
	Exclusive           *bool    `json:"exclusive,omitempty"`
	WhitelistingAllowed *bool    `json:"whitelistingAllowed,omitempty"`
}

// Normalize fills every nested field so the server never receives a
// partially shaped object. Slices are never nil and the advance percentage
// is clamped to [0, 100].
func (in ProfessionalDetailsInput) Normalize() ProfessionalDetails {
	out := ProfessionalDetails{
		PaymentTerms: PaymentTerms{
			AdvancePercentage: DefaultAdvancePercentage,
			PaymentDueDays:    DefaultPaymentDueDays,
			PaymentMethods:    []string{},
		},
		UsageRights: UsageRights{
			DurationDays: DefaultUsageDays,
			Platforms:    []string{},
		},
		Revisions:  DefaultRevisions,
		Inclusions: nonNil(in.Inclusions),
		Exclusions: nonNil(in.Exclusions),
	}

	if pt := in.PaymentTerms; pt != nil {
		if pt.AdvancePercentage != nil {
			out.PaymentTerms.AdvancePercentage = clamp(*pt.AdvancePercentage, 0, 100)
		}
		if pt.PaymentDueDays != nil && *pt.PaymentDueDays >= 0 {
			out.PaymentTerms.PaymentDueDays = *pt.PaymentDueDays
		}
		out.PaymentTerms.PaymentMethods = nonNil(pt.PaymentMethods)
	}

	if ur := in.UsageRights; ur != nil {
		if ur.DurationDays != nil && *ur.DurationDays >= 0 {
			out.UsageRights.DurationDays = *ur.DurationDays
		}
		out.UsageRights.Platforms = nonNil(ur.Platforms)
		if ur.Exclusive != nil {
			out.UsageRights.Exclusive = *ur.Exclusive
		}
		if ur.WhitelistingAllowed != nil {
			out.UsageRights.WhitelistingAllowed = *ur.WhitelistingAllowed
		}
	}

	if in.Revisions != nil && *in.Revisions >= 0 {
		out.Revisions = *in.Revisions
	}
	if in.CancellationPolicy != nil {
		out.CancellationPolicy = *in.CancellationPolicy
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
