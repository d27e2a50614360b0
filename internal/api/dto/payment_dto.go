package dto

// VerifyPaymentRequest is the body of POST /payments/verify. The job being
// activated is optional so that non-posting purposes (subscriptions, boosts)
// can reuse the same endpoint.
type VerifyPaymentRequest struct {
	TransactionHash string `json:"transaction_hash" binding:"required"`
	Blockchain      string `json:"blockchain" binding:"required"`
	JobID           string `json:"job_id"`
	Purpose         string `json:"purpose"`
}

type PaymentDTO struct {
	PaymentID       string  `json:"payment_id"`
	JobID           *string `json:"job_id,omitempty"`
	Amount          string  `json:"amount"`
	Currency        string  `json:"currency"`
	Chain           string  `json:"chain"`
	TransactionHash string  `json:"transaction_hash"`
	WalletAddress   string  `json:"wallet_address"`
	Status          string  `json:"status"`
	Purpose         string  `json:"purpose"`
	BlockNumber     int64   `json:"block_number"`
	CreatedAt       string  `json:"created_at"`
}

type VerifyPaymentResponse struct {
	Payment PaymentDTO `json:"payment"`
	Message string     `json:"message"`
}

type ListPaymentsResponse struct {
	Payments []PaymentDTO `json:"payments"`
}
