package catalog

const micros = int64(1_000_000) // 1 currency unit

// Default returns the built-in product shelf.
func Default() *Catalog {
	return &Catalog{
		MutualFunds: []MutualFund{
			{
				ID:             "kids-index-fund",
				Name:           "KidsBank Index Fund",
				Category:       "Index",
				RiskRating:     2,
				ExpectedReturn: 0.10,
				Description:    "A safe way to track the overall market performance",
			},
			{
				ID:             "growth-stars",
				Name:           "Growth Stars",
				Category:       "Equity",
				RiskRating:     4,
				ExpectedReturn: 0.15,
				Description:    "High-growth companies with strong potential",
			},
			{
				ID:             "safe-debt",
				Name:           "Safe & Steady Debt Fund",
				Category:       "Debt",
				RiskRating:     1,
				ExpectedReturn: 0.07,
				Description:    "Very safe investment in government bonds",
			},
			{
				ID:             "balanced-wealth",
				Name:           "Balanced Wealth Builder",
				Category:       "Hybrid",
				RiskRating:     3,
				ExpectedReturn: 0.12,
				Description:    "Mix of safe and growth investments",
			},
		},
		Bonds: []Bond{
			{
				ID:                  "govt-10y",
				Name:                "10-Year Government Bond",
				Kind:                BondGovernment,
				InterestRate:        0.065,
				TermMonths:          120,
				MinInvestmentMicros: 100 * micros,
				RiskRating:          1,
				Description:         "Long-term government security with guaranteed returns",
			},
			{
				ID:                  "govt-5y",
				Name:                "5-Year Government Bond",
				Kind:                BondGovernment,
				InterestRate:        0.055,
				TermMonths:          60,
				MinInvestmentMicros: 100 * micros,
				RiskRating:          1,
				Description:         "Medium-term government security with stable returns",
			},
			{
				ID:                  "corp-aaa",
				Name:                "AAA Corporate Bond",
				Kind:                BondCorporate,
				InterestRate:        0.075,
				TermMonths:          36,
				MinInvestmentMicros: 500 * micros,
				RiskRating:          2,
				Description:         "High-grade corporate bond with excellent credit rating",
			},
			{
				ID:                  "corp-high-yield",
				Name:                "High Yield Corporate Bond",
				Kind:                BondCorporate,
				InterestRate:        0.095,
				TermMonths:          24,
				MinInvestmentMicros: 1000 * micros,
				RiskRating:          4,
				Description:         "Higher risk corporate bond with better returns",
			},
		},
		FixedDepositTiers: []FixedDepositTier{
			{TermMonths: 3, InterestRate: 0.045},
			{TermMonths: 6, InterestRate: 0.055},
			{TermMonths: 12, InterestRate: 0.06},
			{TermMonths: 24, InterestRate: 0.065},
			{TermMonths: 36, InterestRate: 0.07},
		},
		LoanProducts: map[LoanType]LoanProduct{
			LoanHome: {
				Type:            LoanHome,
				MaxAmountMicros: 500 * micros,
				InterestRate:    0.07,
				MaxTermMonths:   12,
			},
			LoanPersonal: {
				Type:            LoanPersonal,
				MaxAmountMicros: 200 * micros,
				InterestRate:    0.12,
				MaxTermMonths:   6,
			},
		},
	}
}
