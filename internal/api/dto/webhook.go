package dto

// WebhookAckResponse acknowledges a gateway notification. Success is true
// for every handled status, including unrecognized ones, so the gateway
// does not retry indefinitely.
type WebhookAckResponse struct {
	Success bool `json:"success"`
}
