package models

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Company  string `json:"company"`
	Image    string `json:"image"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type UpdateProfileRequest struct {
	Name    string `json:"name" binding:"required,min=3,max=50"`
	Email   string `json:"email" binding:"required,email"`
	Company string `json:"company"`
	Image   string `json:"image"`
}

type CreateBotRequest struct {
	BotName       string   `json:"bot_name" binding:"required,min=1,max=255"`
	Description   string   `json:"description"`
	Category      string   `json:"category"`
	DemoVideoLink string   `json:"demo_video_link"`
	BotLogoURL    string   `json:"bot_logo_url"`
	QRCodeURL     string   `json:"qr_code_url"`
	Tags          []string `json:"tags"`
}

type SubmitRatingRequest struct {
	BotID uint `json:"bot_id" validate:"required"`
	Value int  `json:"value" validate:"required"`
}

// BotListParams carries the catalog query inputs. Cursor is the opaque
// token from a previous page, Q a case-insensitive name prefix.
type BotListParams struct {
	Cursor string `form:"cursor"`
	Q      string `form:"q"`
	Size   int    `form:"size,default=10"`
}

type BotListResponse struct {
	Items      []Bot   `json:"items"`
	NextCursor *string `json:"next_cursor"`
	TotalCount int64   `json:"total_count"`
}

// BotDetail is the public read model of a single bot, with the owner's
// company as publisher and the review count alongside the average.
type BotDetail struct {
	ID            uint     `json:"id"`
	BotName       string   `json:"bot_name"`
	BotImage      string   `json:"bot_image"`
	Description   string   `json:"description"`
	Category      string   `json:"category"`
	DemoVideoLink string   `json:"demo_video_link"`
	QRCodeImage   string   `json:"qr_code_image"`
	Reviews       int64    `json:"reviews"`
	AverageRating float64  `json:"average_rating"`
	Publisher     string   `json:"publisher"`
	Tags          []string `json:"tags"`
}

type MyBotsResponse struct {
	Bots      []Bot `json:"bots"`
	TotalBots int64 `json:"total_bots"`
}

type UploadResponse struct {
	BotLogoURL string `json:"bot_logo_url"`
	QRCodeURL  string `json:"qr_code_url"`
}
