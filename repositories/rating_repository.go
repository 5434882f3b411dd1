package repositories

import (
	"bothub-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RatingRepository interface {
	Submit(rating *models.Rating) error
	CountByBot(botID uint) (int64, error)
}

type ratingRepository struct {
	db *gorm.DB
}

func NewRatingRepository(db *gorm.DB) RatingRepository {
	return &ratingRepository{db: db}
}

// Submit inserts the rating and recomputes the bot's average inside
// one transaction. The FOR UPDATE lock on the bot row serializes
// concurrent submissions for the same bot; submissions for different
// bots lock different rows and proceed in parallel. Any error rolls
// the whole unit back.
//
// Returns gorm.ErrRecordNotFound when the bot does not exist and
// gorm.ErrDuplicatedKey when the (user, bot) pair already rated.
func (r *ratingRepository) Submit(rating *models.Rating) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var bot models.Bot
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&bot, rating.BotID).Error; err != nil {
			return err
		}

		var existing int64
		if err := tx.Model(&models.Rating{}).
			Where("user_id = ? AND bot_id = ?", rating.UserID, rating.BotID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return gorm.ErrDuplicatedKey
		}

		if err := tx.Create(rating).Error; err != nil {
			return err
		}

		// Re-read the full set rather than adjusting incrementally;
		// the row lock makes this correct under any interleaving.
		var average float64
		if err := tx.Model(&models.Rating{}).
			Where("bot_id = ?", rating.BotID).
			Select("AVG(value)").
			Scan(&average).Error; err != nil {
			return err
		}

		return tx.Model(&bot).Update("average_rating", average).Error
	})
}

func (r *ratingRepository) CountByBot(botID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Rating{}).
		Where("bot_id = ?", botID).
		Count(&count).Error
	return count, err
}
