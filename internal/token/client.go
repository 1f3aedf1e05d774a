package token

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Ledger - контракт внешнего сервиса взаимозаменяемых токенов.
// Ядро никогда не переводит неположительную сумму; суммы - знаковые 64-битные
// целые (bigint на стороне леджера). Вызовы блокирующие и синхронные:
// вызывающий видит либо полный успех, либо полный отказ.
type Ledger interface {
	Transfer(ctx context.Context, from, to string, amount int64) error
	Balance(ctx context.Context, account string) (int64, error)
}

// Client - HTTP-адаптер к внешнему токен-сервису.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient создает клиент токен-сервиса
func NewClient(baseURL string) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("token service base URL is required")
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}, nil
}

type transferRequest struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount int64  `json:"amount"`
}

type balanceResponse struct {
	Account string `json:"account"`
	Balance int64  `json:"balance"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Transfer переводит amount от from к to. Любой статус кроме 200 считается отказом.
func (c *Client) Transfer(ctx context.Context, from, to string, amount int64) error {
	body, err := json.Marshal(transferRequest{From: from, To: to, Amount: amount})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/transfer", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("token transfer request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp errorResponse
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if json.Unmarshal(data, &errResp) == nil && errResp.Error != "" {
			return fmt.Errorf("token transfer rejected: %s", errResp.Error)
		}
		return fmt.Errorf("token transfer rejected: status %d", resp.StatusCode)
	}
	return nil
}

// Balance возвращает баланс счета в токен-сервисе
func (c *Client) Balance(ctx context.Context, account string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/balance/"+account, nil)
	if err != nil {
		return 0, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("balance request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("balance request rejected: status %d", resp.StatusCode)
	}

	var balance balanceResponse
	if err := json.NewDecoder(resp.Body).Decode(&balance); err != nil {
		return 0, err
	}
	return balance.Balance, nil
}
