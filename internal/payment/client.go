package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

const StatusAuthorized = "AUTHORIZED"

// Client talks to the WebPay-style payment gateway over its REST API.
type Client struct {
	http *resty.Client
}

func NewClient(baseURL, apiKey string) *Client {
	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Tbk-Api-Key-Secret", apiKey).
		SetHeader("Content-Type", "application/json").
		SetTimeout(10 * time.Second)
	return &Client{http: c}
}

type Transaction struct {
	Token string `json:"token"`
	URL   string `json:"url"`
}

type Result struct {
	BuyOrder string `json:"buy_order"`
	Amount   int64  `json:"amount"`
	Status   string `json:"status"`
}

type createRequest struct {
	BuyOrder  string `json:"buy_order"`
	Amount    int64  `json:"amount"`
	ReturnURL string `json:"return_url"`
}

// Create opens a gateway transaction for the order and returns the token
// plus the redirect URL the storefront sends the customer to.
func (c *Client) Create(ctx context.Context, orderID, amount int64, returnURL string) (Transaction, error) {
	var out Transaction
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(createRequest{
			BuyOrder:  fmt.Sprintf("pedido-%d", orderID),
			Amount:    amount,
			ReturnURL: returnURL,
		}).
		SetResult(&out).
		Post("/rswebpaytransaction/api/webpay/v1.2/transactions")
	if err != nil {
		return Transaction{}, fmt.Errorf("gateway create: %w", err)
	}
	if resp.IsError() {
		return Transaction{}, fmt.Errorf("gateway create: status %d", resp.StatusCode())
	}
	return out, nil
}

// Commit finalizes the transaction identified by token. Callers must check
// Result.Status against StatusAuthorized before treating the order as paid.
func (c *Client) Commit(ctx context.Context, token string) (Result, error) {
	var out Result
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Put("/rswebpaytransaction/api/webpay/v1.2/transactions/" + token)
	if err != nil {
		return Result{}, fmt.Errorf("gateway commit: %w", err)
	}
	if resp.IsError() {
		return Result{}, fmt.Errorf("gateway commit: status %d", resp.StatusCode())
	}
	return out, nil
}
