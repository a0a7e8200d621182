package capi

import (
	"time"

	"github.com/google/uuid"
)

// Standard event names the storefront emits.
const (
	EventPageView         = "PageView"
	EventViewContent      = "ViewContent"
	EventAddToCart        = "AddToCart"
	EventInitiateCheckout = "InitiateCheckout"
	EventPurchase         = "Purchase"
)

// ServerEvent is the envelope handed to the delivery transport.
type ServerEvent struct {
	EventName      string         `json:"event_name"`
	EventTime      int64          `json:"event_time"`
	EventID        string         `json:"event_id"`
	ActionSource   string         `json:"action_source,omitempty"`
	EventSourceURL string         `json:"event_source_url,omitempty"`
	UserData       *UserData      `json:"user_data,omitempty"`
	CustomData     map[string]any `json:"custom_data,omitempty"`
}

// NewEvent creates an envelope of the given type, stamped now. The
// user-data block stays nil until the assembler attaches it.
func NewEvent(name string, customData map[string]any) *ServerEvent {
	return &ServerEvent{
		EventName:  name,
		EventTime:  time.Now().Unix(),
		EventID:    uuid.New().String(),
		CustomData: customData,
	}
}
