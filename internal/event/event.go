package event

import "time"

// Event is the canonical inbound model for storefront tracking events.
type Event struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"` // "PageView", "Purchase", etc.
	OccurredAt time.Time      `json:"occurred_at"`
	ReceivedAt time.Time      `json:"-"`
	SourceURL  string         `json:"source_url"`
	SessionID  string         `json:"session_id"`
	OrderID    string         `json:"order_id,omitempty"`   // set for order-sourced matching
	Customer   map[string]any `json:"customer,omitempty"`   // explicit raw identity override
	CustomData map[string]any `json:"custom_data,omitempty"`
}
