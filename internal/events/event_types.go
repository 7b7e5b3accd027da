package events

import (
	"time"

	"github.com/spec-kit/usecase-portal/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserSignedUp     EventType = "user_signed_up"
	EventPasswordReset    EventType = "password_reset"
	EventProductPurchased EventType = "product_purchased"
	EventExternalFallback EventType = "external_fallback"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Subject   string      `json:"subject"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// UserSignedUpPayload payload.
type UserSignedUpPayload struct {
	Email   string         `json:"email"`
	Role    domain.Role    `json:"role"`
	License domain.License `json:"license"`
}

// ProductPurchasedPayload payload.
type ProductPurchasedPayload struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Synthetic bool   `json:"synthetic"`
}

// ExternalFallbackPayload payload.
type ExternalFallbackPayload struct {
	UseCase string `json:"use_case"`
	Detail  string `json:"detail,omitempty"`
}
