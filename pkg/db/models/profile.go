package models

import (
	"time"

	"github.com/google/uuid"
)

// Profile is a claimed public link-in-bio page. A product's QR code embeds
// the profile URL when the customization links one.
type Profile struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	Username  string    `gorm:"column:username;not null;uniqueIndex:ux_profiles_username"`
	Title     string    `gorm:"column:title;not null;default:''"`
	Bio       *string   `gorm:"column:bio"`
	AvatarURL *string   `gorm:"column:avatar_url"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
