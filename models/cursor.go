package models

import (
	"encoding/base64"
	"encoding/json"
	"errors"
)

// Cursor names a position in the catalog's total order
// (rating key descending, id ascending). It encodes the sort-key tuple
// of the last item of a page rather than a raw row id, so the position
// stays valid even if that row is deleted before the next fetch.
type Cursor struct {
	RatingKey float64 `json:"r"`
	ID        uint    `json:"id"`
}

var ErrMalformedCursor = errors.New("malformed cursor")

func (c Cursor) Encode() string {
	raw, _ := json.Marshal(c)
	return base64.RawURLEncoding.EncodeToString(raw)
}

func DecodeCursor(token string) (*Cursor, error) {
	if token == "" {
		return nil, nil
	}

	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, ErrMalformedCursor
	}

	var c Cursor
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, ErrMalformedCursor
	}
	if c.ID == 0 {
		return nil, ErrMalformedCursor
	}

	return &c, nil
}

// CursorFor returns the token that resumes the listing just after the
// given bot.
func CursorFor(bot *Bot) string {
	return Cursor{RatingKey: bot.RatingSortKey(), ID: bot.ID}.Encode()
}
