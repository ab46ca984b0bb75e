package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Draft is a named snapshot of a product selection plus its customization.
// The customization column may hold the current two-sided schema or a legacy
// flat record; it is migrated on load, never in place.
type Draft struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID        uuid.UUID       `gorm:"column:user_id;type:uuid;not null;index"`
	ProductID     uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	ProductName   string          `gorm:"column:product_name;not null"`
	Customization json.RawMessage `gorm:"column:customization;type:jsonb;not null"`
	Name          *string         `gorm:"column:name"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
