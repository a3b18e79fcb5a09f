package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NotificationTypeStatusChanged tags inbox entries produced by status transitions.
const NotificationTypeStatusChanged = "travel_order.status_changed"

// StatusChange is the outbound event emitted when an order reaches a terminal
// status. It is addressed to the order owner.
type StatusChange struct {
	OwnerID     int64
	OrderID     int64
	Destination string
	OldStatus   Status
	NewStatus   Status
}

// Message renders the Portuguese inbox text for the change,
// e.g. "Sua ordem de viagem para Paris foi aprovado."
func (c StatusChange) Message() string {
	return fmt.Sprintf("Sua ordem de viagem para %s foi %s.", c.Destination, strings.ToLower(string(c.NewStatus)))
}

// NotificationData is the payload stored with an inbox entry.
type NotificationData struct {
	OrderID     int64  `json:"order_id"`
	Destination string `json:"destination"`
	OldStatus   Status `json:"old_status"`
	NewStatus   Status `json:"new_status"`
	Message     string `json:"message"`
}

// Notification is one entry of a user's in-app inbox.
// ReadAt is nil until the recipient marks it read.
type Notification struct {
	ID        uuid.UUID
	UserID    int64
	Type      string
	Data      NotificationData
	ReadAt    *time.Time
	CreatedAt time.Time
}

// NewStatusChangedNotification builds the inbox entry for c.
func NewStatusChangedNotification(c StatusChange) Notification {
	return Notification{
		ID:     uuid.New(),
		UserID: c.OwnerID,
		Type:   NotificationTypeStatusChanged,
		Data: NotificationData{
			OrderID:     c.OrderID,
			Destination: c.Destination,
			OldStatus:   c.OldStatus,
			NewStatus:   c.NewStatus,
			Message:     c.Message(),
		},
	}
}
