package models

import (
	"time"

	"github.com/google/uuid"
)

// Media captures metadata for uploaded customization assets (logos, custom
// artwork). The object itself lives in the storage bucket; the public URL is
// what customization fields reference.
type Media struct {
	ID         uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID     uuid.UUID  `gorm:"column:user_id;type:uuid;not null;index"`
	ObjectKey  string     `gorm:"column:object_key;not null;unique"`
	URL        string     `gorm:"column:url;not null"`
	FileName   string     `gorm:"column:file_name;not null"`
	MimeType   string     `gorm:"column:mime_type;not null"`
	SizeBytes  int64      `gorm:"column:size_bytes;not null"`
	ReplacedBy *uuid.UUID `gorm:"column:replaced_by;type:uuid"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime"`
}
