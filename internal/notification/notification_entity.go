package notification

import (
	"time"

	"github.com/google/uuid"
)

// Notification is the in-app inbox row materialized by the consumer. Rows
// with a nil RecipientID address the company HR group.
type Notification struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID   uuid.UUID  `gorm:"type:uuid;not null;index:idx_notifications_recipient"`
	RecipientID *uuid.UUID `gorm:"type:uuid;index:idx_notifications_recipient"`

	EventType string `gorm:"type:varchar(50);not null"`
	Title     string `gorm:"type:varchar(255);not null"`
	Message   string `gorm:"type:text;not null"`
	IsRead    bool   `gorm:"not null;default:false"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
