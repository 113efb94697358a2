package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"kidsbank/internal/catalog"
	"kidsbank/internal/engine"

	"github.com/fatih/color"
)

var (
	stdinReader = bufio.NewReader(os.Stdin)
	accent      = color.New(color.FgCyan, color.Bold)
	success     = color.New(color.FgGreen, color.Bold)
	warn        = color.New(color.FgYellow, color.Bold)
	danger      = color.New(color.FgRed, color.Bold)
	neutral     = color.New(color.FgHiWhite)
)

type overviewPayload struct {
	AccountID       string         `json:"account_id"`
	Account         engine.Account `json:"account"`
	GameTime        time.Time      `json:"game_time"`
	SpeedMultiplier float64        `json:"speed_multiplier"`
}

type fundsPayload struct {
	Funds []catalog.MutualFund `json:"funds"`
}

type bondsPayload struct {
	Bonds []catalog.Bond `json:"bonds"`
}

type tiersPayload struct {
	Tiers []catalog.FixedDepositTier `json:"tiers"`
}

type loanProductsPayload struct {
	LoanProducts []catalog.LoanProduct `json:"loan_products"`
}

type transactionsPayload struct {
	Transactions []engine.Transaction `json:"transactions"`
}

func printSuccess(msg string) {
	success.Println(msg)
}

func printWarn(msg string) {
	warn.Println(msg)
}

func printInfo(msg string) {
	neutral.Println(msg)
}

func promptRequired(label string) (string, error) {
	for {
		fmt.Printf("%s: ", label)
		text, err := stdinReader.ReadString('\n')
		if err != nil {
			return "", err
		}
		text = strings.TrimSpace(text)
		if text != "" {
			return text, nil
		}
		printWarn(label + " is required.")
	}
}

func promptChoice(label string, options []string, defaultValue string) (string, error) {
	normalized := make(map[string]struct{}, len(options))
	for _, opt := range options {
		normalized[strings.ToLower(strings.TrimSpace(opt))] = struct{}{}
	}
	for {
		fmt.Printf("%s (%s) [%s]: ", label, strings.Join(options, "/"), defaultValue)
		text, err := stdinReader.ReadString('\n')
		if err != nil {
			return "", err
		}
		text = strings.ToLower(strings.TrimSpace(text))
		if text == "" {
			text = strings.ToLower(strings.TrimSpace(defaultValue))
		}
		if _, ok := normalized[text]; ok {
			return text, nil
		}
		printWarn("Invalid option. Please pick one of the listed values.")
	}
}

func promptFloat(label string, min float64) (float64, error) {
	for {
		text, err := promptRequired(label)
		if err != nil {
			return 0, err
		}
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			printWarn("Enter a valid number.")
			continue
		}
		if v <= min {
			printWarn(fmt.Sprintf("Value must be > %.4f", min))
			continue
		}
		return v, nil
	}
}

func promptInt64(label string, min int64) (int64, error) {
	for {
		text, err := promptRequired(label)
		if err != nil {
			return 0, err
		}
		v, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			printWarn("Enter a whole number.")
			continue
		}
		if v < min {
			printWarn(fmt.Sprintf("Value must be >= %d", min))
			continue
		}
		return v, nil
	}
}

func renderOverview(raw map[string]any) error {
	ov, err := decodeInto[overviewPayload](raw)
	if err != nil {
		return err
	}
	acct := ov.Account

	accent.Println("\n== KIDSBANK ==")
	fmt.Printf("Game time:       %s (%.0fx)\n", ov.GameTime.Local().Format("2006-01-02 15:04"), ov.SpeedMultiplier)
	fmt.Printf("Balance:         %s\n", formatMicros(acct.BalanceMicros))
	fmt.Printf("Savings:         %s\n", formatMicros(acct.SavingsMicros))
	fmt.Printf("Emergency fund:  %s\n", formatMicros(acct.EmergencyFundMicros))

	if len(acct.Investments.FixedDeposits) > 0 {
		fmt.Println()
		accent.Println("Fixed Deposits")
		fmt.Printf("%-10s %6s %8s %-12s\n", "AMOUNT", "TERM", "RATE", "MATURES")
		for _, fd := range acct.Investments.FixedDeposits {
			fmt.Printf("%-10s %5dm %7.2f%% %-12s\n",
				formatMicros(fd.PrincipalMicros),
				fd.TermMonths,
				fd.InterestRate*100,
				fd.MaturityDate.Local().Format("2006-01-02"),
			)
		}
	}

	if len(acct.Investments.MutualFundHoldings) > 0 {
		fmt.Println()
		accent.Println("Mutual Funds")
		fmt.Printf("%-20s %12s %12s %12s\n", "FUND", "COST", "VALUE", "P/L")
		for _, h := range acct.Investments.MutualFundHoldings {
			fmt.Printf("%-20s %12s %12s %12s\n",
				truncate(h.Fund.Name, 20),
				formatMicros(h.CostBasisMicros),
				formatMicros(h.CurrentValueMicros),
				colorizeMicros(h.CurrentValueMicros-h.CostBasisMicros),
			)
		}
	}

	if len(acct.Loans) > 0 {
		fmt.Println()
		accent.Println("Loans")
		fmt.Printf("%-10s %12s %12s %12s %8s\n", "TYPE", "PRINCIPAL", "REMAINING", "MONTHLY", "STATUS")
		for _, l := range acct.Loans {
			status := "active"
			if l.Settled() {
				status = "settled"
			}
			fmt.Printf("%-10s %12s %12s %12s %8s\n",
				string(l.Type),
				formatMicros(l.PrincipalMicros),
				formatMicros(l.RemainingMicros),
				formatMicros(l.MonthlyPaymentMicros),
				status,
			)
		}
	}
	fmt.Println()
	return nil
}

func renderFunds(raw map[string]any) error {
	out, err := decodeInto[fundsPayload](raw)
	if err != nil {
		return err
	}
	accent.Println("\n== MUTUAL FUNDS ==")
	if len(out.Funds) == 0 {
		printInfo("No funds on offer.")
		return nil
	}
	fmt.Printf("%-20s %-24s %-12s %8s %6s\n", "ID", "NAME", "CATEGORY", "RETURN", "RISK")
	for _, f := range out.Funds {
		fmt.Printf("%-20s %-24s %-12s %7.1f%% %6d\n",
			f.ID,
			truncate(f.Name, 24),
			f.Category,
			f.ExpectedReturn*100,
			f.RiskRating,
		)
	}
	fmt.Println()
	return nil
}

func renderBonds(raw map[string]any) error {
	out, err := decodeInto[bondsPayload](raw)
	if err != nil {
		return err
	}
	accent.Println("\n== BONDS ==")
	if len(out.Bonds) == 0 {
		printInfo("No bonds on offer.")
		return nil
	}
	fmt.Printf("%-18s %-26s %-10s %8s %6s %12s\n", "ID", "NAME", "KIND", "RATE", "TERM", "MIN")
	for _, b := range out.Bonds {
		fmt.Printf("%-18s %-26s %-10s %7.2f%% %5dm %12s\n",
			b.ID,
			truncate(b.Name, 26),
			string(b.Kind),
			b.InterestRate*100,
			b.TermMonths,
			formatMicros(b.MinInvestmentMicros),
		)
	}
	fmt.Println()
	return nil
}

func renderFDTiers(raw map[string]any) error {
	out, err := decodeInto[tiersPayload](raw)
	if err != nil {
		return err
	}
	accent.Println("\n== FIXED DEPOSIT TIERS ==")
	fmt.Printf("%6s %8s\n", "TERM", "RATE")
	for _, tier := range out.Tiers {
		fmt.Printf("%5dm %7.2f%%\n", tier.TermMonths, tier.InterestRate*100)
	}
	fmt.Println()
	return nil
}

func renderLoanProducts(raw map[string]any) error {
	out, err := decodeInto[loanProductsPayload](raw)
	if err != nil {
		return err
	}
	accent.Println("\n== LOAN PRODUCTS ==")
	fmt.Printf("%-10s %12s %8s %10s\n", "TYPE", "MAX AMOUNT", "RATE", "MAX TERM")
	for _, p := range out.LoanProducts {
		fmt.Printf("%-10s %12s %7.2f%% %9dm\n",
			string(p.Type),
			formatMicros(p.MaxAmountMicros),
			p.InterestRate*100,
			p.MaxTermMonths,
		)
	}
	fmt.Println()
	return nil
}

func renderTransactions(raw map[string]any) error {
	out, err := decodeInto[transactionsPayload](raw)
	if err != nil {
		return err
	}
	accent.Println("\n== TRANSACTIONS ==")
	if len(out.Transactions) == 0 {
		printInfo("No transactions yet.")
		return nil
	}
	fmt.Printf("%-17s %-18s %12s %-30s\n", "GAME TIME", "KIND", "AMOUNT", "DESCRIPTION")
	for _, tx := range out.Transactions {
		fmt.Printf("%-17s %-18s %12s %-30s\n",
			tx.Timestamp.Local().Format("2006-01-02 15:04"),
			string(tx.Kind),
			colorizeMicros(tx.AmountMicros),
			truncate(tx.Description, 30),
		)
	}
	fmt.Println()
	return nil
}

func decodeInto[T any](in any) (T, error) {
	var out T
	raw, err := json.Marshal(in)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, err
	}
	return out, nil
}

func colorizeMicros(v int64) string {
	text := signedMicros(v)
	switch {
	case v > 0:
		return success.Sprint(text)
	case v < 0:
		return danger.Sprint(text)
	default:
		return neutral.Sprint(text)
	}
}

func formatMicros(v int64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	whole := v / engine.MicrosPerUnit
	frac := (v % engine.MicrosPerUnit) / 10_000
	return fmt.Sprintf("%s%s.%02d", sign, comma(whole), frac)
}

func signedMicros(v int64) string {
	if v > 0 {
		return "+" + formatMicros(v)
	}
	return formatMicros(v)
}

func comma(v int64) string {
	s := strconv.FormatInt(v, 10)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	pre := len(s) % 3
	if pre > 0 {
		b.WriteString(s[:pre])
		if len(s) > pre {
			b.WriteByte(',')
		}
	}
	for i := pre; i < len(s); i += 3 {
		b.WriteString(s[i : i+3])
		if i+3 < len(s) {
			b.WriteByte(',')
		}
	}
	return b.String()
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if n <= 0 || len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
