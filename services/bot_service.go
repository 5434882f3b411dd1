package services

import (
	"errors"

	"bothub-api/models"
	"bothub-api/repositories"

	"gorm.io/gorm"
)

type BotService interface {
	ListBots(params models.BotListParams) (*models.BotListResponse, error)
	GetBotDetail(id uint) (*models.BotDetail, error)
	CreateBot(req models.CreateBotRequest, userID uint) (*models.Bot, error)
	GetMyBots(userID uint) (*models.MyBotsResponse, error)
	DeleteBot(id uint, userID uint) error
}

type botService struct {
	botRepo    repositories.BotRepository
	userRepo   repositories.UserRepository
	ratingRepo repositories.RatingRepository
}

func NewBotService(botRepo repositories.BotRepository, userRepo repositories.UserRepository, ratingRepo repositories.RatingRepository) BotService {
	return &botService{
		botRepo:    botRepo,
		userRepo:   userRepo,
		ratingRepo: ratingRepo,
	}
}

// ListBots returns one catalog page under the order
// (averageRating desc, id asc), unrated bots last. The prefix is
// matched case-insensitively and literally, not trimmed. The total is
// computed by a second query and may be transiently out of step with
// the page under concurrent writes.
func (s *botService) ListBots(params models.BotListParams) (*models.BotListResponse, error) {
	if params.Size <= 0 {
		return nil, models.ErrorInvalidArgument{Message: "size must be positive"}
	}

	cursor, err := models.DecodeCursor(params.Cursor)
	if err != nil {
		return nil, models.ErrorInvalidArgument{Message: "invalid cursor"}
	}

	bots, err := s.botRepo.GetPage(params.Q, cursor, params.Size)
	if err != nil {
		return nil, storeError("list bots", err)
	}

	total, err := s.botRepo.CountByPrefix(params.Q)
	if err != nil {
		return nil, storeError("count bots", err)
	}

	// An empty page ends the listing; the caller tells "end" from
	// "no results" by items length, not by the cursor.
	var nextCursor *string
	if len(bots) > 0 {
		token := models.CursorFor(&bots[len(bots)-1])
		nextCursor = &token
	}

	if bots == nil {
		bots = []models.Bot{}
	}

	return &models.BotListResponse{
		Items:      bots,
		NextCursor: nextCursor,
		TotalCount: total,
	}, nil
}

func (s *botService) GetBotDetail(id uint) (*models.BotDetail, error) {
	bot, err := s.botRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrorNotFound{Message: "bot not found"}
		}
		return nil, storeError("get bot", err)
	}

	publisher := "Unknown"
	owner, err := s.userRepo.GetByID(bot.UserID)
	switch {
	case err == nil:
		if owner.Company != "" {
			publisher = owner.Company
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		// Owner account deleted; the bot still lists with an unknown
		// publisher.
	default:
		return nil, storeError("get bot owner", err)
	}

	reviews, err := s.ratingRepo.CountByBot(bot.ID)
	if err != nil {
		return nil, storeError("count ratings", err)
	}

	detail := &models.BotDetail{
		ID:            bot.ID,
		BotName:       bot.BotName,
		BotImage:      bot.BotImage,
		Description:   bot.Description,
		Category:      bot.Category,
		DemoVideoLink: bot.DemoVideoLink,
		QRCodeImage:   bot.QRCodeImage,
		Reviews:       reviews,
		AverageRating: bot.RatingSortKey(),
		Publisher:     publisher,
		Tags:          bot.Tags,
	}

	if detail.BotName == "" {
		detail.BotName = "Unknown"
	}
	if detail.Description == "" {
		detail.Description = "No description available"
	}
	if detail.Category == "" {
		detail.Category = models.DefaultCategory
	}
	if detail.Tags == nil {
		detail.Tags = []string{}
	}

	return detail, nil
}

func (s *botService) CreateBot(req models.CreateBotRequest, userID uint) (*models.Bot, error) {
	category := req.Category
	if category == "" {
		category = models.DefaultCategory
	}

	bot := &models.Bot{
		UserID:        userID,
		BotName:       req.BotName,
		Description:   req.Description,
		Category:      category,
		DemoVideoLink: req.DemoVideoLink,
		BotImage:      req.BotLogoURL,
		QRCodeImage:   req.QRCodeURL,
		Tags:          req.Tags,
	}

	if err := s.botRepo.Create(bot); err != nil {
		return nil, storeError("create bot", err)
	}

	return bot, nil
}

func (s *botService) GetMyBots(userID uint) (*models.MyBotsResponse, error) {
	bots, total, err := s.botRepo.GetByUser(userID)
	if err != nil {
		return nil, storeError("list own bots", err)
	}
	if bots == nil {
		bots = []models.Bot{}
	}
	return &models.MyBotsResponse{Bots: bots, TotalBots: total}, nil
}

// DeleteBot only deletes when the caller owns the bot.
func (s *botService) DeleteBot(id uint, userID uint) error {
	bot, err := s.botRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.ErrorNotFound{Message: "bot not found"}
		}
		return storeError("get bot", err)
	}

	if bot.UserID != userID {
		return models.ErrorForbidden{Message: "not the owner of this bot"}
	}

	if err := s.botRepo.Delete(id); err != nil {
		return storeError("delete bot", err)
	}

	return nil
}
