package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	cl "kidsbank/internal/cli"
	"kidsbank/internal/config"

	"github.com/spf13/cobra"
)

func main() {
	cfg := config.LoadCLIFromEnv()
	apiBase := cfg.APIBaseURL

	root := &cobra.Command{
		Use:          "kb",
		Short:        "Kidsbank CLI game client",
		SilenceUsage: true,
	}

	root.AddCommand(
		newSignupCmd(&apiBase),
		newLoginCmd(&apiBase),
		newLogoutCmd(),
		newStatusCmd(&apiBase),
		newDepositCmd(&apiBase),
		newWithdrawCmd(&apiBase),
		newEmergencyCmd(&apiBase),
		newFDCmd(&apiBase),
		newFundCmd(&apiBase),
		newBondCmd(&apiBase),
		newLoanCmd(&apiBase),
		newTxCmd(&apiBase),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newClient(apiBase *string) *cl.Client {
	return cl.NewClient(strings.TrimRight(strings.TrimSpace(*apiBase), "/"))
}

func newSignupCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "signup",
		Short: "Create a Kidsbank account",
		RunE: func(cmd *cobra.Command, args []string) error {
			email, err := promptRequired("Email")
			if err != nil {
				return err
			}
			password, err := promptRequired("Password")
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			client := newClient(apiBase)
			session, err := client.Signup(ctx, email, password)
			if err != nil {
				return err
			}
			if strings.TrimSpace(session.AccessToken) == "" {
				printWarn("Signup created. Verify email, then run `kb login`.")
				return nil
			}
			if err := cl.SaveSession(cl.Session{
				AccessToken:  session.AccessToken,
				RefreshToken: session.RefreshToken,
				Email:        session.User.Email,
				UserID:       session.User.ID,
			}); err != nil {
				return err
			}
			printSuccess("Signup complete. Session saved.")
			return nil
		},
	}
}

func newLoginCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Login to Kidsbank",
		RunE: func(cmd *cobra.Command, args []string) error {
			email, err := promptRequired("Email")
			if err != nil {
				return err
			}
			password, err := promptRequired("Password")
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			client := newClient(apiBase)
			session, err := client.Login(ctx, email, password)
			if err != nil {
				return err
			}
			if err := cl.SaveSession(cl.Session{
				AccessToken:  session.AccessToken,
				RefreshToken: session.RefreshToken,
				Email:        session.User.Email,
				UserID:       session.User.ID,
			}); err != nil {
				return err
			}
			printSuccess("Login successful.")
			return nil
		},
	}
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear local session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cl.ClearSession(); err != nil {
				return err
			}
			printSuccess("Logged out.")
			return nil
		},
	}
}

func newStatusCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show your account and the game clock",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return fmt.Errorf("login required: %w", err)
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			client := newClient(apiBase)
			out, err := client.Game(ctx, sess.AccessToken)
			if err != nil {
				return err
			}
			return renderOverview(out)
		},
	}
}

func newDepositCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "deposit [amount]",
		Short: "Deposit money into your account",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return amountCommand(cmd, apiBase, args, "Amount to deposit", func(client *cl.Client, ctx context.Context, token string, amount float64) (map[string]any, error) {
				return client.Deposit(ctx, token, amount)
			})
		},
	}
}

func newWithdrawCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "withdraw [amount]",
		Short: "Withdraw money from your account",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return amountCommand(cmd, apiBase, args, "Amount to withdraw", func(client *cl.Client, ctx context.Context, token string, amount float64) (map[string]any, error) {
				return client.Withdraw(ctx, token, amount)
			})
		},
	}
}

func newEmergencyCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "emergency [amount]",
		Short: "Move money into your emergency fund",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return amountCommand(cmd, apiBase, args, "Amount to set aside", func(client *cl.Client, ctx context.Context, token string, amount float64) (map[string]any, error) {
				return client.EmergencyFund(ctx, token, amount)
			})
		},
	}
}

func amountCommand(cmd *cobra.Command, apiBase *string, args []string, label string, op func(*cl.Client, context.Context, string, float64) (map[string]any, error)) error {
	sess, err := cl.LoadSession()
	if err != nil {
		return fmt.Errorf("login required: %w", err)
	}
	amount, err := amountFromArgsOrPrompt(args, label)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()
	client := newClient(apiBase)
	out, err := op(client, ctx, sess.AccessToken, amount)
	if err != nil {
		return err
	}
	return renderOverview(out)
}

func newFDCmd(apiBase *string) *cobra.Command {
	fd := &cobra.Command{
		Use:   "fd",
		Short: "Fixed deposit commands",
	}
	fd.AddCommand(&cobra.Command{
		Use:   "tiers",
		Short: "List fixed deposit terms and rates",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return fmt.Errorf("login required: %w", err)
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			client := newClient(apiBase)
			out, err := client.CatalogFDTiers(ctx, sess.AccessToken)
			if err != nil {
				return err
			}
			return renderFDTiers(out)
		},
	})
	fd.AddCommand(&cobra.Command{
		Use:   "open [amount] [term_months]",
		Short: "Lock money in a fixed deposit",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return fmt.Errorf("login required: %w", err)
			}
			amount, err := amountFromArgsOrPrompt(args, "Amount to lock")
			if err != nil {
				return err
			}
			term, err := intFromArgOrPrompt(args, 1, "Term (months)")
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			client := newClient(apiBase)
			out, err := client.OpenFixedDeposit(ctx, sess.AccessToken, amount, term)
			if err != nil {
				return err
			}
			printSuccess(fmt.Sprintf("Fixed deposit opened: %.2f for %d months.", amount, term))
			return renderOverview(out)
		},
	})
	return fd
}

func newFundCmd(apiBase *string) *cobra.Command {
	fund := &cobra.Command{
		Use:     "fund",
		Short:   "Mutual fund commands",
		Aliases: []string{"funds"},
	}
	fund.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List mutual funds on offer",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return fmt.Errorf("login required: %w", err)
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			client := newClient(apiBase)
			out, err := client.CatalogFunds(ctx, sess.AccessToken)
			if err != nil {
				return err
			}
			return renderFunds(out)
		},
	})
	fund.AddCommand(&cobra.Command{
		Use:   "buy [fund_id] [amount]",
		Short: "Buy into a mutual fund",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return fmt.Errorf("login required: %w", err)
			}
			fundID := ""
			if len(args) > 0 {
				fundID = strings.TrimSpace(args[0])
			} else {
				fundID, err = promptRequired("Fund ID")
				if err != nil {
					return err
				}
			}
			amount, err := amountFromArgsOrPromptIdx(args, 1, "Amount to invest")
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			client := newClient(apiBase)
			out, err := client.BuyMutualFund(ctx, sess.AccessToken, fundID, amount)
			if err != nil {
				return err
			}
			printSuccess(fmt.Sprintf("Invested %.2f in %s.", amount, fundID))
			return renderOverview(out)
		},
	})
	return fund
}

func newBondCmd(apiBase *string) *cobra.Command {
	bond := &cobra.Command{
		Use:     "bond",
		Short:   "Bond catalog commands",
		Aliases: []string{"bonds"},
	}
	bond.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List bonds on offer",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return fmt.Errorf("login required: %w", err)
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			client := newClient(apiBase)
			out, err := client.CatalogBonds(ctx, sess.AccessToken)
			if err != nil {
				return err
			}
			return renderBonds(out)
		},
	})
	return bond
}

func newLoanCmd(apiBase *string) *cobra.Command {
	loan := &cobra.Command{
		Use:     "loan",
		Short:   "Loan commands",
		Aliases: []string{"loans"},
	}
	loan.AddCommand(&cobra.Command{
		Use:   "products",
		Short: "List loan products and their limits",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return fmt.Errorf("login required: %w", err)
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			client := newClient(apiBase)
			out, err := client.CatalogLoanProducts(ctx, sess.AccessToken)
			if err != nil {
				return err
			}
			return renderLoanProducts(out)
		},
	})
	loan.AddCommand(&cobra.Command{
		Use:   "take [home|personal] [amount] [term_months]",
		Short: "Take out a loan",
		Args:  cobra.MaximumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return fmt.Errorf("login required: %w", err)
			}
			var loanType string
			if len(args) > 0 {
				loanType = strings.ToLower(strings.TrimSpace(args[0]))
			} else {
				loanType, err = promptChoice("Loan type", []string{"home", "personal"}, "personal")
				if err != nil {
					return err
				}
			}
			amount, err := amountFromArgsOrPromptIdx(args, 1, "Loan amount")
			if err != nil {
				return err
			}
			term, err := intFromArgOrPrompt(args, 2, "Term (months)")
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			client := newClient(apiBase)
			out, err := client.TakeLoan(ctx, sess.AccessToken, loanType, amount, term)
			if err != nil {
				return err
			}
			printSuccess(fmt.Sprintf("Loan approved: %s %.2f over %d months.", loanType, amount, term))
			return renderOverview(out)
		},
	})
	return loan
}

func newTxCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "tx [limit]",
		Short: "Show recent transactions",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return fmt.Errorf("login required: %w", err)
			}
			limit := 20
			if len(args) > 0 {
				limit, err = strconv.Atoi(strings.TrimSpace(args[0]))
				if err != nil || limit < 0 {
					return fmt.Errorf("invalid limit")
				}
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			client := newClient(apiBase)
			out, err := client.Transactions(ctx, sess.AccessToken, limit)
			if err != nil {
				return err
			}
			return renderTransactions(out)
		},
	}
}

func amountFromArgsOrPrompt(args []string, label string) (float64, error) {
	return amountFromArgsOrPromptIdx(args, 0, label)
}

func amountFromArgsOrPromptIdx(args []string, idx int, label string) (float64, error) {
	if len(args) > idx {
		v, err := strconv.ParseFloat(strings.TrimSpace(args[idx]), 64)
		if err != nil || v <= 0 {
			return 0, fmt.Errorf("invalid %s", strings.ToLower(label))
		}
		return v, nil
	}
	return promptFloat(label, 0)
}

func intFromArgOrPrompt(args []string, idx int, label string) (int, error) {
	if len(args) > idx {
		v, err := strconv.Atoi(strings.TrimSpace(args[idx]))
		if err != nil || v <= 0 {
			return 0, fmt.Errorf("invalid %s", strings.ToLower(label))
		}
		return v, nil
	}
	v, err := promptInt64(label, 1)
	return int(v), err
}
