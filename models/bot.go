package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

const DefaultCategory = "Uncategorized"

type Bot struct {
	ID            uint           `json:"id" gorm:"primarykey"`
	UserID        uint           `json:"user_id" gorm:"not null;index"`
	User          *User          `json:"user,omitempty" gorm:"foreignKey:UserID"`
	BotName       string         `json:"bot_name" gorm:"not null"`
	Description   string         `json:"description" gorm:"type:text"`
	Category      string         `json:"category" gorm:"default:'Uncategorized'"`
	DemoVideoLink string         `json:"demo_video_link"`
	BotImage      string         `json:"bot_image"`
	QRCodeImage   string         `json:"qr_code_image"`
	Tags          pq.StringArray `json:"tags" gorm:"type:text[]"`
	AverageRating *float64       `json:"average_rating" gorm:"index"` // nil until first rating
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"-" gorm:"index"`
}

// RatingSortKey is the primary sort key of the catalog order. Ratings
// live in [1,5], so an unset average collapses to 0 and sorts after
// every rated bot.
func (b *Bot) RatingSortKey() float64 {
	if b.AverageRating == nil {
		return 0
	}
	return *b.AverageRating
}
