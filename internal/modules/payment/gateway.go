package payment

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Gateway is a minimal Snap-style client: one call creates a hosted payment
// page and returns its token and redirect URL. Disabled (nil-safe) when no
// server key is configured.
type Gateway struct {
	serverKey string
	clientKey string
	baseURL   string
	client    *http.Client
}

func NewGateway(serverKey, clientKey, baseURL string) *Gateway {
	return &Gateway{
		serverKey: serverKey,
		clientKey: clientKey,
		baseURL:   baseURL,
		client:    &http.Client{Timeout: 20 * time.Second},
	}
}

func (g *Gateway) Enabled() bool { return g != nil && g.serverKey != "" }

// ClientKey is the publishable key the hosted checkout script is initialized
// with on the browser side.
func (g *Gateway) ClientKey() string { return g.clientKey }

type transactionRequest struct {
	TransactionDetails struct {
		OrderID     string `json:"order_id"`
		GrossAmount int64  `json:"gross_amount"`
	} `json:"transaction_details"`
	CustomerDetails struct {
		FirstName string `json:"first_name"`
		Email     string `json:"email"`
	} `json:"customer_details"`
}

// TransactionResult is what the hosted checkout needs on the client side.
type TransactionResult struct {
	Token       string `json:"token"`
	RedirectURL string `json:"redirect_url"`
}

func (g *Gateway) CreateTransaction(ctx context.Context, orderID string, amount int64, customerName, customerEmail string) (*TransactionResult, error) {
	if !g.Enabled() {
		return nil, ErrGatewayDisabled
	}

	var body transactionRequest
	body.TransactionDetails.OrderID = orderID
	body.TransactionDetails.GrossAmount = amount
	body.CustomerDetails.FirstName = customerName
	body.CustomerDetails.Email = customerEmail

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/transactions", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte(g.serverKey+":")))

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("gateway returned %d: %s", resp.StatusCode, snippet)
	}

	var result TransactionResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("gateway response: %w", err)
	}
	if result.Token == "" {
		return nil, fmt.Errorf("gateway response missing token")
	}
	return &result, nil
}

// StatusResult is the gateway's answer to an explicit status query.
type StatusResult struct {
	TransactionStatus string `json:"transaction_status"`
	FraudStatus       string `json:"fraud_status"`
	SettlementTime    string `json:"settlement_time"`
}

// TransactionStatus asks the gateway for the current state of an order. Used
// by the client-facing status endpoint to catch transitions whose webhook has
// not arrived yet.
func (g *Gateway) TransactionStatus(ctx context.Context, orderID string) (*StatusResult, error) {
	if !g.Enabled() {
		return nil, ErrGatewayDisabled
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/transactions/"+orderID+"/status", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte(g.serverKey+":")))

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("gateway returned %d: %s", resp.StatusCode, snippet)
	}

	var result StatusResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("gateway response: %w", err)
	}
	if result.TransactionStatus == "" {
		return nil, fmt.Errorf("gateway response missing transaction_status")
	}
	return &result, nil
}
