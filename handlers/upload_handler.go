package handlers

import (
	"mime/multipart"
	"net/http"

	"bothub-api/helper"
	"bothub-api/models"
	"bothub-api/storage"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

type UploadHandler struct {
	blobs  storage.BlobStore
	Helper *helper.HTTPHelper
}

func NewUploadHandler(blobs storage.BlobStore, h *helper.HTTPHelper) *UploadHandler {
	return &UploadHandler{blobs: blobs, Helper: h}
}

// Upload stores a bot logo and a QR code through the blob-storage
// collaborator and returns the two URLs for the create-bot call.
func (h *UploadHandler) Upload(c *gin.Context) {
	logoFile, logoErr := c.FormFile("botLogo")
	qrFile, qrErr := c.FormFile("qrCode")
	if logoErr != nil || qrErr != nil {
		h.Helper.SendBadRequest(c, "Both botLogo and qrCode files are required")
		return
	}

	logoURL, err := h.putFormFile(c, "botlogo", logoFile)
	if err != nil {
		return
	}

	qrURL, err := h.putFormFile(c, "qrcode", qrFile)
	if err != nil {
		return
	}

	c.JSON(http.StatusOK, models.UploadResponse{
		BotLogoURL: logoURL,
		QRCodeURL:  qrURL,
	})
}

func (h *UploadHandler) putFormFile(c *gin.Context, folder string, file *multipart.FileHeader) (string, error) {
	body, err := file.Open()
	if err != nil {
		log.WithError(err).Error("failed to open uploaded file")
		h.Helper.SendError(c, models.ErrorInternalServer{Message: "server error"})
		return "", err
	}
	defer body.Close()

	url, err := h.blobs.Put(c.Request.Context(), folder, file.Filename, body, file.Header.Get("Content-Type"))
	if err != nil {
		log.WithError(err).WithField("folder", folder).Error("blob upload failed")
		h.Helper.SendError(c, models.ErrorInternalServer{Message: "error uploading images"})
		return "", err
	}

	return url, nil
}
