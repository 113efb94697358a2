// Package cli is the HTTP client side of the kb command. Responses come
// back as loosely typed maps; the command layer picks out the fields it
// prints.
package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"kidsbank/internal/auth"
)

type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) Signup(ctx context.Context, email, password string) (auth.Session, error) {
	var out auth.Session
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/auth/signup", "", map[string]any{
		"email":    email,
		"password": password,
	}, &out)
	return out, err
}

func (c *Client) Login(ctx context.Context, email, password string) (auth.Session, error) {
	var out auth.Session
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/auth/login", "", map[string]any{
		"email":    email,
		"password": password,
	}, &out)
	return out, err
}

func (c *Client) Game(ctx context.Context, accessToken string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/game", accessToken, nil, &out)
	return out, err
}

func (c *Client) Transactions(ctx context.Context, accessToken string, limit int) (map[string]any, error) {
	path := "/v1/transactions"
	if limit > 0 {
		path = fmt.Sprintf("/v1/transactions?limit=%d", limit)
	}
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodGet, path, accessToken, nil, &out)
	return out, err
}

func (c *Client) Deposit(ctx context.Context, accessToken string, amount float64) (map[string]any, error) {
	return c.amountOp(ctx, "/v1/deposit", accessToken, amount)
}

func (c *Client) Withdraw(ctx context.Context, accessToken string, amount float64) (map[string]any, error) {
	return c.amountOp(ctx, "/v1/withdraw", accessToken, amount)
}

func (c *Client) EmergencyFund(ctx context.Context, accessToken string, amount float64) (map[string]any, error) {
	return c.amountOp(ctx, "/v1/emergency-fund", accessToken, amount)
}

func (c *Client) amountOp(ctx context.Context, path, accessToken string, amount float64) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, path, accessToken, map[string]any{
		"amount": amount,
	}, &out)
	return out, err
}

func (c *Client) OpenFixedDeposit(ctx context.Context, accessToken string, amount float64, termMonths int) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/fixed-deposits", accessToken, map[string]any{
		"amount":      amount,
		"term_months": termMonths,
	}, &out)
	return out, err
}

func (c *Client) BuyMutualFund(ctx context.Context, accessToken, fundID string, amount float64) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/mutual-funds", accessToken, map[string]any{
		"amount":  amount,
		"fund_id": fundID,
	}, &out)
	return out, err
}

func (c *Client) TakeLoan(ctx context.Context, accessToken, loanType string, amount float64, termMonths int) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/loans", accessToken, map[string]any{
		"type":        loanType,
		"amount":      amount,
		"term_months": termMonths,
	}, &out)
	return out, err
}

func (c *Client) CatalogFunds(ctx context.Context, accessToken string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/catalog/funds", accessToken, nil, &out)
	return out, err
}

func (c *Client) CatalogBonds(ctx context.Context, accessToken string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/catalog/bonds", accessToken, nil, &out)
	return out, err
}

func (c *Client) CatalogFDTiers(ctx context.Context, accessToken string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/catalog/fixed-deposit-tiers", accessToken, nil, &out)
	return out, err
}

func (c *Client) CatalogLoanProducts(ctx context.Context, accessToken string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/catalog/loan-products", accessToken, nil, &out)
	return out, err
}

func (c *Client) jsonRequest(ctx context.Context, method, path, accessToken string, in any, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("api status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
