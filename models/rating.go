package models

import "time"

// Rating is immutable: one row per (user, bot), never updated or
// deleted. The composite unique index backs the one-rating-per-user
// rule at the store level.
type Rating struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_ratings_user_bot"`
	BotID     uint      `json:"bot_id" gorm:"not null;uniqueIndex:idx_ratings_user_bot"`
	Value     int       `json:"value" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
}
