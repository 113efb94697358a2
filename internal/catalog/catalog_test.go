package catalog

import "testing"

func TestFundByID(t *testing.T) {
	c := Default()
	f, err := c.FundByID("growth-stars")
	if err != nil {
		t.Fatalf("expected fund: %v", err)
	}
	if f.ExpectedReturn != 0.15 {
		t.Fatalf("got return %v want 0.15", f.ExpectedReturn)
	}
	if _, err := c.FundByID("nonexistent-id"); err == nil {
		t.Fatalf("expected unknown fund to fail")
	}
}

func TestFDTierByTerm(t *testing.T) {
	c := Default()
	tier, err := c.FDTierByTerm(12)
	if err != nil {
		t.Fatalf("expected tier: %v", err)
	}
	if tier.InterestRate != 0.06 {
		t.Fatalf("got rate %v want 0.06", tier.InterestRate)
	}
	if _, err := c.FDTierByTerm(7); err == nil {
		t.Fatalf("expected missing tier to fail")
	}
}

func TestLoanProducts(t *testing.T) {
	c := Default()
	tests := []struct {
		loanType  LoanType
		maxMicros int64
		rate      float64
		maxTerm   int
	}{
		{LoanHome, 500 * micros, 0.07, 12},
		{LoanPersonal, 200 * micros, 0.12, 6},
	}
	for _, tc := range tests {
		p, err := c.LoanProduct(tc.loanType)
		if err != nil {
			t.Fatalf("%s: %v", tc.loanType, err)
		}
		if p.MaxAmountMicros != tc.maxMicros || p.InterestRate != tc.rate || p.MaxTermMonths != tc.maxTerm {
			t.Fatalf("%s: got %+v", tc.loanType, p)
		}
	}
	if _, err := c.LoanProduct(LoanType("PAYDAY")); err == nil {
		t.Fatalf("expected unknown product to fail")
	}
}

func TestLoanProductList(t *testing.T) {
	c := Default()
	list := c.LoanProductList()
	if len(list) != 2 {
		t.Fatalf("got %d products want 2", len(list))
	}
	if list[0].Type != LoanHome || list[1].Type != LoanPersonal {
		t.Fatalf("got order %v, %v", list[0].Type, list[1].Type)
	}
}

func TestBondByID(t *testing.T) {
	c := Default()
	b, err := c.BondByID("corp-aaa")
	if err != nil {
		t.Fatalf("expected bond: %v", err)
	}
	if b.Kind != BondCorporate || b.TermMonths != 36 {
		t.Fatalf("got %+v", b)
	}
}
