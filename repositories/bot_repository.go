package repositories

import (
	"strings"

	"bothub-api/models"

	"gorm.io/gorm"
)

type BotRepository interface {
	Create(bot *models.Bot) error
	GetByID(id uint) (*models.Bot, error)
	GetPage(prefix string, cursor *models.Cursor, size int) ([]models.Bot, error)
	CountByPrefix(prefix string) (int64, error)
	GetByUser(userID uint) ([]models.Bot, int64, error)
	Delete(id uint) error
}

type botRepository struct {
	db *gorm.DB
}

func NewBotRepository(db *gorm.DB) BotRepository {
	return &botRepository{db: db}
}

func (r *botRepository) Create(bot *models.Bot) error {
	return r.db.Create(bot).Error
}

func (r *botRepository) GetByID(id uint) (*models.Bot, error) {
	var bot models.Bot
	err := r.db.First(&bot, id).Error
	return &bot, err
}

// GetPage runs the keyset page query under the fixed catalog order:
// rating key descending, id ascending. The cursor predicate selects
// rows strictly after the encoded position, so rows inserted in front
// never shift the page and a deleted cursor row does not break
// continuation.
func (r *botRepository) GetPage(prefix string, cursor *models.Cursor, size int) ([]models.Bot, error) {
	var bots []models.Bot

	query := r.withPrefix(r.db.Model(&models.Bot{}), prefix)

	if cursor != nil {
		query = query.Where(
			"COALESCE(average_rating, 0) < ? OR (COALESCE(average_rating, 0) = ? AND id > ?)",
			cursor.RatingKey, cursor.RatingKey, cursor.ID,
		)
	}

	err := query.
		Order("COALESCE(average_rating, 0) DESC, id ASC").
		Limit(size).
		Find(&bots).Error

	return bots, err
}

// CountByPrefix is a separate query from GetPage, not a shared
// snapshot; the total may lag the page under concurrent writes.
func (r *botRepository) CountByPrefix(prefix string) (int64, error) {
	var total int64
	err := r.withPrefix(r.db.Model(&models.Bot{}), prefix).Count(&total).Error
	return total, err
}

func (r *botRepository) GetByUser(userID uint) ([]models.Bot, int64, error) {
	var bots []models.Bot
	var total int64

	query := r.db.Model(&models.Bot{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").Find(&bots).Error
	return bots, total, err
}

func (r *botRepository) Delete(id uint) error {
	return r.db.Delete(&models.Bot{}, id).Error
}

func (r *botRepository) withPrefix(query *gorm.DB, prefix string) *gorm.DB {
	if prefix == "" {
		return query
	}
	return query.Where("LOWER(bot_name) LIKE LOWER(?) ESCAPE '\\'", escapeLike(prefix)+"%")
}

// escapeLike keeps the prefix literal: %, _ and the escape character
// itself lose their LIKE meaning.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
