package payment

type CreateTokenRequest struct {
	InvoiceID int64 `json:"invoice_id" binding:"required"`
}

// Notification is the gateway webhook payload. Amount arrives as a decimal
// string ("150000.00") and is verified as part of the signature.
type Notification struct {
	OrderID           string `json:"order_id" binding:"required"`
	StatusCode        string `json:"status_code" binding:"required"`
	GrossAmount       string `json:"gross_amount" binding:"required"`
	SignatureKey      string `json:"signature_key" binding:"required"`
	TransactionStatus string `json:"transaction_status" binding:"required"`
	FraudStatus       string `json:"fraud_status"`
	SettlementTime    string `json:"settlement_time"`
}
