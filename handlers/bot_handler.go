package handlers

import (
	"net/http"
	"strconv"

	"bothub-api/helper"
	"bothub-api/models"
	"bothub-api/services"

	"github.com/gin-gonic/gin"
)

type BotHandler struct {
	botService services.BotService
	Helper     *helper.HTTPHelper
}

func NewBotHandler(botService services.BotService, h *helper.HTTPHelper) *BotHandler {
	return &BotHandler{botService: botService, Helper: h}
}

// ListBots serves the public catalog page. The cursor comes back as
// next_cursor on each response and is opaque to the caller.
func (h *BotHandler) ListBots(c *gin.Context) {
	var params models.BotListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.Helper.SendBadRequest(c, err.Error())
		return
	}

	page, err := h.botService.ListBots(params)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

func (h *BotHandler) GetBot(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		h.Helper.SendBadRequest(c, "Invalid bot ID")
		return
	}

	detail, err := h.botService.GetBotDetail(uint(id))
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

func (h *BotHandler) CreateBot(c *gin.Context) {
	userID, _ := c.Get("user_id")

	var req models.CreateBotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBadRequest(c, err.Error())
		return
	}

	bot, err := h.botService.CreateBot(req, userID.(uint))
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	c.JSON(http.StatusCreated, bot)
}

func (h *BotHandler) GetMyBots(c *gin.Context) {
	userID, _ := c.Get("user_id")

	response, err := h.botService.GetMyBots(userID.(uint))
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *BotHandler) DeleteBot(c *gin.Context) {
	userID, _ := c.Get("user_id")
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		h.Helper.SendBadRequest(c, "Invalid bot ID")
		return
	}

	if err := h.botService.DeleteBot(uint(id), userID.(uint)); err != nil {
		h.Helper.SendError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Bot deleted successfully"})
}
