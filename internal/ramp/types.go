package ramp

import "encoding/json"

// Wire shapes for the Ramp developer API. Several fields arrive in more
// than one shape depending on the accounting integration behind the bill:
// amount is a bare integer of minor units or an {"amount": ...} object, and
// vendor is a bare string or a {"remote_name": ...} object. Raw messages
// are kept until normalization so the variance stays at this boundary.

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

type wireEntity struct {
	ID         string `json:"id"`
	EntityName string `json:"entity_name"`
}

type entitiesResponse struct {
	Data []wireEntity `json:"data"`
	Page wirePage     `json:"page"`
}

type wirePage struct {
	Next string `json:"next"`
}

type wireBill struct {
	ID       string          `json:"id"`
	Amount   json.RawMessage `json:"amount"`
	Vendor   json.RawMessage `json:"vendor"`
	IssuedAt string          `json:"issued_at"`
	DueAt    string          `json:"due_at"`
	PaidAt   string          `json:"paid_at"`
	Payment  *wirePayment    `json:"payment"`
}

type wirePayment struct {
	EffectiveDate string `json:"effective_date"`
}

type billsResponse struct {
	Data []wireBill `json:"data"`
	Page wirePage   `json:"page"`
}
