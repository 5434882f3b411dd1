package services

import (
	"errors"

	"bothub-api/models"
	"bothub-api/repositories"

	"gorm.io/gorm"
)

type RatingService interface {
	SubmitRating(userID, botID uint, value int) (*models.Rating, error)
}

type ratingService struct {
	ratingRepo repositories.RatingRepository
}

func NewRatingService(ratingRepo repositories.RatingRepository) RatingService {
	return &ratingService{ratingRepo: ratingRepo}
}

// SubmitRating records a single rating per (user, bot) and updates the
// bot's average in the same transaction. A duplicate submission is a
// Conflict, never an overwrite.
func (s *ratingService) SubmitRating(userID, botID uint, value int) (*models.Rating, error) {
	if botID == 0 {
		return nil, models.ErrorInvalidArgument{Message: "bot_id is required"}
	}
	if value < 1 || value > 5 {
		return nil, models.ErrorInvalidArgument{Message: "rating value must be between 1 and 5"}
	}

	rating := &models.Rating{
		UserID: userID,
		BotID:  botID,
		Value:  value,
	}

	if err := s.ratingRepo.Submit(rating); err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, models.ErrorNotFound{Message: "bot not found"}
		case errors.Is(err, gorm.ErrDuplicatedKey):
			return nil, models.ErrorConflict{Message: "you have already rated this bot"}
		default:
			return nil, storeError("submit rating", err)
		}
	}

	return rating, nil
}
