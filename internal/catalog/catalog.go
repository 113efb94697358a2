// Package catalog holds the static product reference data: mutual funds,
// bonds, fixed-deposit rate tiers and loan products. The data never changes
// at runtime; every lookup returns a value copy so that records created from
// a catalog entry (holdings, loans) keep the terms they were opened with.
package catalog

import (
	"errors"
	"sort"
)

type LoanType string

const (
	LoanHome     LoanType = "HOME"
	LoanPersonal LoanType = "PERSONAL"
)

type BondKind string

const (
	BondGovernment BondKind = "GOVERNMENT"
	BondCorporate  BondKind = "CORPORATE"
)

var (
	ErrUnknownFund        = errors.New("unknown mutual fund")
	ErrUnknownTerm        = errors.New("no fixed deposit tier for term")
	ErrUnknownLoanProduct = errors.New("unknown loan product")
)

// MutualFund describes a fund a player can buy into. ExpectedReturn is the
// annual rate the holding compounds at.
type MutualFund struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Category       string  `json:"category"`
	RiskRating     int     `json:"risk_rating"`
	ExpectedReturn float64 `json:"expected_return"`
	Description    string  `json:"description"`
}

type Bond struct {
	ID                  string   `json:"id"`
	Name                string   `json:"name"`
	Kind                BondKind `json:"kind"`
	InterestRate        float64  `json:"interest_rate"`
	TermMonths          int      `json:"term_months"`
	MinInvestmentMicros int64    `json:"min_investment_micros"`
	RiskRating          int      `json:"risk_rating"`
	Description         string   `json:"description"`
}

// FixedDepositTier maps a deposit term to the rate it locks in.
type FixedDepositTier struct {
	TermMonths   int     `json:"term_months"`
	InterestRate float64 `json:"interest_rate"`
}

type LoanProduct struct {
	Type            LoanType `json:"type"`
	MaxAmountMicros int64    `json:"max_amount_micros"`
	InterestRate    float64  `json:"interest_rate"`
	MaxTermMonths   int      `json:"max_term_months"`
}

type Catalog struct {
	MutualFunds       []MutualFund
	Bonds             []Bond
	FixedDepositTiers []FixedDepositTier
	LoanProducts      map[LoanType]LoanProduct
}

func (c *Catalog) FundByID(id string) (MutualFund, error) {
	for _, f := range c.MutualFunds {
		if f.ID == id {
			return f, nil
		}
	}
	return MutualFund{}, ErrUnknownFund
}

func (c *Catalog) BondByID(id string) (Bond, error) {
	for _, b := range c.Bonds {
		if b.ID == id {
			return b, nil
		}
	}
	return Bond{}, errors.New("unknown bond")
}

func (c *Catalog) FDTierByTerm(termMonths int) (FixedDepositTier, error) {
	for _, t := range c.FixedDepositTiers {
		if t.TermMonths == termMonths {
			return t, nil
		}
	}
	return FixedDepositTier{}, ErrUnknownTerm
}

func (c *Catalog) LoanProduct(t LoanType) (LoanProduct, error) {
	p, ok := c.LoanProducts[t]
	if !ok {
		return LoanProduct{}, ErrUnknownLoanProduct
	}
	return p, nil
}

// LoanProductList returns the products in a stable order for listings.
func (c *Catalog) LoanProductList() []LoanProduct {
	out := make([]LoanProduct, 0, len(c.LoanProducts))
	for _, p := range c.LoanProducts {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Type < out[j].Type })
	return out
}
