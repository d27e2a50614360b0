// Package payment implements tariff lookup and on-chain payment verification
// for the job-portal payment pipeline.
package payment

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/ykrishnateja01/job-portal/internal/chain"
)

// Purpose is what a payment buys.
type Purpose string

const (
	PurposeJobPosting      Purpose = "job_posting"
	PurposeFeaturedListing Purpose = "featured_listing"
	PurposeSubscription    Purpose = "subscription"
	PurposeBoost           Purpose = "boost"
)

// ParsePurpose converts a raw string to a Purpose. The empty string defaults
// to job_posting, matching the dominant flow.
func ParsePurpose(s string) (Purpose, error) {
	if s == "" {
		return PurposeJobPosting, nil
	}
	p := Purpose(s)
	switch p {
	case PurposeJobPosting, PurposeFeaturedListing, PurposeSubscription, PurposeBoost:
		return p, nil
	}
	return "", fmt.Errorf("unknown payment purpose %q", s)
}

// TariffSpec is the configuration-file form of one tariff entry. Amount is a
// decimal string in the chain's smallest unit.
type TariffSpec struct {
	Chain     string `yaml:"chain" validate:"required,oneof=ethereum polygon solana"`
	Purpose   string `yaml:"purpose" validate:"required,oneof=job_posting featured_listing subscription boost"`
	Recipient string `yaml:"recipient" validate:"required"`
	Amount    string `yaml:"amount" validate:"required,numeric"`
	Currency  string `yaml:"currency" validate:"required"`
}

// Tariff is the required (recipient, amount) pair that funds a purpose on a
// chain. Read-only after construction.
type Tariff struct {
	Recipient string
	Amount    decimal.Decimal
	Currency  string
}

type tariffKey struct {
	chain   chain.Chain
	purpose Purpose
}

// TariffTable holds every configured tariff, keyed by (chain, purpose). It is
// built once at startup and never mutated, so concurrent reads need no lock.
type TariffTable struct {
	entries map[tariffKey]Tariff
}

// NewTariffTable validates the specs and builds the lookup table. Duplicate
// (chain, purpose) pairs are a configuration error.
func NewTariffTable(specs []TariffSpec) (*TariffTable, error) {
	validate := validator.New()

	entries := make(map[tariffKey]Tariff, len(specs))
	for i, spec := range specs {
		if err := validate.Struct(spec); err != nil {
			return nil, fmt.Errorf("invalid tariff entry %d: %w", i, err)
		}

		c, err := chain.Parse(spec.Chain)
		if err != nil {
			return nil, fmt.Errorf("invalid tariff entry %d: %w", i, err)
		}
		p, err := ParsePurpose(spec.Purpose)
		if err != nil {
			return nil, fmt.Errorf("invalid tariff entry %d: %w", i, err)
		}
		amount, err := decimal.NewFromString(spec.Amount)
		if err != nil {
			return nil, fmt.Errorf("invalid tariff entry %d: bad amount %q: %w", i, spec.Amount, err)
		}
		if !amount.IsInteger() || amount.Sign() <= 0 {
			return nil, fmt.Errorf("invalid tariff entry %d: amount must be a positive integer in smallest units, got %q", i, spec.Amount)
		}

		key := tariffKey{chain: c, purpose: p}
		if _, dup := entries[key]; dup {
			return nil, fmt.Errorf("duplicate tariff for (%s, %s)", c, p)
		}

		entries[key] = Tariff{
			Recipient: spec.Recipient,
			Amount:    amount,
			Currency:  spec.Currency,
		}
	}

	return &TariffTable{entries: entries}, nil
}

// Lookup returns the tariff for (chain, purpose), if configured.
func (t *TariffTable) Lookup(c chain.Chain, p Purpose) (Tariff, bool) {
	tariff, ok := t.entries[tariffKey{chain: c, purpose: p}]
	return tariff, ok
}
