// Package funpay is used to call the FunPay marketplace endpoints the bot
// needs: open orders, refunds, buyer chat and lot activation.
package funpay

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/mkorchagin/funpay-steampoints/pkg/httpclient"
)

const DefaultBaseURL = "https://funpay.com/api"

type Client struct {
	httpClient *http.Client
	baseURL    string
	goldenKey  string
}

func New(baseURL, goldenKey string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		goldenKey:  goldenKey,
	}
}

func (c *Client) auth() httpclient.Header {
	return httpclient.Header{Key: "Authorization", Value: "GoldenKey " + c.goldenKey}
}

type Account struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// Account returns the authenticated seller identity.
func (c *Client) Account(ctx context.Context) (*Account, error) {
	account, err := httpclient.GetResource[*Account](ctx, c.httpClient, c.baseURL, "/account", []int{200}, c.auth())
	if err != nil {
		return nil, fmt.Errorf("couldn't get account: %w", err)
	}
	return account, nil
}

type orderPage struct {
	Orders []*Order `json:"orders"`
	Cursor string   `json:"cursor"`
}

func (c *Client) newOrdersPage(ctx context.Context, subcategoryID int, cursor string) (*orderPage, error) {
	endpoint := "/orders?status=paid&subcategory=" + strconv.Itoa(subcategoryID)
	if cursor != "" {
		endpoint += "&cursor=" + cursor
	}
	page, err := httpclient.GetResource[*orderPage](ctx, c.httpClient, c.baseURL, endpoint, []int{200}, c.auth())
	if err != nil {
		return nil, fmt.Errorf("couldn't get orders for cursor %q: %w", cursor, err)
	}
	return page, nil
}

// NewOrders returns all paid, not-yet-closed orders in a subcategory,
// following the cursor until the marketplace stops returning one.
func (c *Client) NewOrders(ctx context.Context, subcategoryID int) ([]*Order, error) {
	orders := []*Order{}
	cursor := ""
	for {
		page, err := c.newOrdersPage(ctx, subcategoryID, cursor)
		if err != nil {
			return orders, err
		}
		orders = append(orders, page.Orders...)
		if page.Cursor == "" {
			break
		}
		cursor = page.Cursor
	}
	return orders, nil
}

type refundResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// Refund refunds a paid order back to the buyer.
func (c *Client) Refund(ctx context.Context, orderID string) error {
	resp, err := httpclient.PostResource[refundResponse](ctx, c.httpClient, c.baseURL, "/orders/"+orderID+"/refund", nil, []int{200}, c.auth())
	if err != nil {
		return fmt.Errorf("couldn't refund order %s: %w", orderID, err)
	}
	if !resp.Success {
		return fmt.Errorf("couldn't refund order %s: %s", orderID, resp.Error)
	}
	return nil
}

type messageRequest struct {
	Text string `json:"text"`
}

// SendMessage posts a message into a buyer chat.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) error {
	_, err := httpclient.PostResource[struct{}](ctx, c.httpClient, c.baseURL, "/chats/"+strconv.FormatInt(chatID, 10)+"/messages", messageRequest{Text: text}, []int{200, 201}, c.auth())
	if err != nil {
		return fmt.Errorf("couldn't send message to chat %d: %w", chatID, err)
	}
	return nil
}

type Lot struct {
	ID            int64 `json:"id"`
	SubcategoryID int   `json:"subcategory_id"`
	Active        bool  `json:"active"`
}

type lotPage struct {
	Lots []*Lot `json:"lots"`
}

// Lots returns the seller's own lots in a subcategory.
func (c *Client) Lots(ctx context.Context, subcategoryID int) ([]*Lot, error) {
	page, err := httpclient.GetResource[*lotPage](ctx, c.httpClient, c.baseURL, "/lots?subcategory="+strconv.Itoa(subcategoryID), []int{200}, c.auth())
	if err != nil {
		return nil, fmt.Errorf("couldn't get lots for subcategory %d: %w", subcategoryID, err)
	}
	return page.Lots, nil
}

type lotUpdateRequest struct {
	Active bool `json:"active"`
}

// SetLotActive toggles a lot between active and deactivated.
func (c *Client) SetLotActive(ctx context.Context, lotID int64, active bool) error {
	_, err := httpclient.PutResource[struct{}](ctx, c.httpClient, c.baseURL, "/lots/"+strconv.FormatInt(lotID, 10), lotUpdateRequest{Active: active}, []int{200}, c.auth())
	if err != nil {
		return fmt.Errorf("couldn't set lot %d active=%t: %w", lotID, active, err)
	}
	return nil
}
