// Package bsp is used to call the BuySteamPoints delivery API: point
// purchases and account balance.
package bsp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/mkorchagin/funpay-steampoints/internal/money"
	"github.com/mkorchagin/funpay-steampoints/pkg/httpclient"
)

const DefaultBaseURL = "https://api.buysteampoints.com"

// ErrBalanceUnrecognized is returned when no balance endpoint produced a
// readable amount. Callers should treat the balance as unknown, not zero.
var ErrBalanceUnrecognized = fmt.Errorf("couldn't recognize any balance endpoint")

type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

func New(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		apiKey:     apiKey,
	}
}

type buyRequest struct {
	APIKey    string `json:"api_key"`
	Puan      int    `json:"puan"`
	SteamLink string `json:"steam_link"`
}

type buyResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	OrderID string `json:"order_id"`
}

// CreateOrder buys points for the given Steam profile. A nil error means the
// provider accepted the order; delivery itself is asynchronous on its side.
func (c *Client) CreateOrder(ctx context.Context, points int, steamLink string) (string, error) {
	body := buyRequest{APIKey: c.apiKey, Puan: points, SteamLink: strings.TrimSpace(steamLink)}
	resp, err := httpclient.PostResource[buyResponse](ctx, c.httpClient, c.baseURL, "/api/buy", body, []int{200})
	if err != nil {
		return "", fmt.Errorf("couldn't create order for %d points: %w", points, err)
	}
	if !resp.Success {
		reason := resp.Error
		if reason == "" {
			reason = "provider reported failure without a reason"
		}
		return "", fmt.Errorf("couldn't create order for %d points: %s", points, reason)
	}
	return resp.OrderID, nil
}

type balanceProbe struct {
	method   string
	endpoint string
	withBody bool
}

// The provider has shipped the balance under several routes over time; probe
// them in order and take the first readable answer.
var balanceProbes = []balanceProbe{
	{http.MethodGet, "/api/balance", false},
	{http.MethodPost, "/api/balance", true},
	{http.MethodPost, "/api/wallet", true},
	{http.MethodGet, "/api/info", false},
}

type keyRequest struct {
	APIKey string `json:"api_key"`
}

// Balance returns the current account balance. ErrBalanceUnrecognized means
// every probe failed or answered in an unknown shape.
func (c *Client) Balance(ctx context.Context) (money.Amount, error) {
	for _, probe := range balanceProbes {
		var (
			raw json.RawMessage
			err error
		)
		if probe.withBody {
			raw, err = httpclient.PostResource[json.RawMessage](ctx, c.httpClient, c.baseURL, probe.endpoint, keyRequest{APIKey: c.apiKey}, []int{200})
		} else {
			endpoint := probe.endpoint + "?api_key=" + url.QueryEscape(c.apiKey)
			raw, err = httpclient.GetResource[json.RawMessage](ctx, c.httpClient, c.baseURL, endpoint, []int{200})
		}
		if err != nil {
			continue
		}
		if amount, ok := extractAmount(raw); ok {
			return amount, nil
		}
	}
	return 0, ErrBalanceUnrecognized
}

// Keys the provider has been seen using for the balance value, in lookup order.
var balanceKeys = []string{"balance", "wallet", "remaining_balance", "amount", "available", "available_balance"}
var nestedBalanceKeys = []string{"amount", "value", "available", "balance"}

func extractAmount(raw json.RawMessage) (money.Amount, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err == nil {
		for _, key := range balanceKeys {
			value, ok := fields[key]
			if !ok {
				continue
			}
			if amount, ok := leafAmount(value); ok {
				return amount, true
			}
		}
		return 0, false
	}

	// Not an object: try the body as a bare number.
	return leafAmount(raw)
}

func leafAmount(raw json.RawMessage) (money.Amount, bool) {
	var amount money.Amount
	if err := json.Unmarshal(raw, &amount); err == nil {
		return amount, true
	}

	var nested map[string]json.RawMessage
	if err := json.Unmarshal(raw, &nested); err != nil {
		return 0, false
	}
	for _, key := range nestedBalanceKeys {
		value, ok := nested[key]
		if !ok {
			continue
		}
		var amount money.Amount
		if err := json.Unmarshal(value, &amount); err == nil {
			return amount, true
		}
	}
	return 0, false
}

var profileLinkPattern = regexp.MustCompile(`(?i)^https?://(www\.)?steamcommunity\.com/(id|profiles)/[A-Za-z0-9_./-]+$`)

// ValidProfileLink reports whether s is a Steam community profile URL the
// provider can deliver to.
func ValidProfileLink(s string) bool {
	return profileLinkPattern.MatchString(strings.TrimSpace(s))
}
