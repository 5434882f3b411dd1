package handlers

import (
	"net/http"

	"bothub-api/helper"
	"bothub-api/models"
	"bothub-api/services"

	"github.com/gin-gonic/gin"
	"gopkg.in/go-playground/validator.v9"
)

type RatingHandler struct {
	ratingService services.RatingService
	Helper        *helper.HTTPHelper
}

func NewRatingHandler(ratingService services.RatingService, h *helper.HTTPHelper) *RatingHandler {
	return &RatingHandler{ratingService: ratingService, Helper: h}
}

func (h *RatingHandler) SubmitRating(c *gin.Context) {
	userID, _ := c.Get("user_id")

	var req models.SubmitRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBadRequest(c, err.Error())
		return
	}

	if err := h.Helper.Validate.Struct(req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			h.Helper.SendValidationError(c, validationErrors)
			return
		}
		h.Helper.SendBadRequest(c, err.Error())
		return
	}

	rating, err := h.ratingService.SubmitRating(userID.(uint), req.BotID, req.Value)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	c.JSON(http.StatusCreated, rating)
}
