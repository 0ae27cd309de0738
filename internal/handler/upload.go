package handler

import (
	"errors"
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/aircart/api/internal/service"
	"github.com/aircart/api/internal/store"
	"github.com/aircart/api/pkg/response"
)

const maxUploadSize = 100 * 1024 * 1024 // 100MB; uncompressed WAVE runs large

type UploadHandler struct {
	service *service.UploadService
}

func NewUploadHandler(svc *service.UploadService) *UploadHandler {
	return &UploadHandler{service: svc}
}

// Audio handles POST /api/carts/:cartId/audio
// @Summary      Upload cart audio
// @Description  Upload an audio file for a cart; processing is asynchronous and tracked by the returned job
// @Tags         Upload
// @Accept       multipart/form-data
// @Produce      json
// @Param        cartId path     string true "Cart ID"
// @Param        file   formData file   true "Audio file (WAV, MP3, OGG, FLAC, AAC; max 100MB)"
// @Success      202 {object} model.UploadAudioResponse
// @Failure      400 {object} response.ErrorResponse
// @Failure      401 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Failure      429 {object} response.ErrorResponse
// @Security     BearerAuth
// @Router       /api/carts/{cartId}/audio [post]
func (h *UploadHandler) Audio(c *fiber.Ctx) error {
	cartID := c.Params("cartId")
	if cartID == "" {
		return response.ValidationError(c, "Cart ID is required", nil)
	}

	file, err := c.FormFile("file")
	if err != nil {
		return response.ValidationError(c, "File is required", nil)
	}

	if file.Size > maxUploadSize {
		return response.ValidationError(c, "File size exceeds 100MB limit", map[string]interface{}{
			"maxSize":  maxUploadSize,
			"fileSize": file.Size,
		})
	}

	// No content-type check here: the pipeline classifies by content and the
	// client-supplied type is never trusted.
	f, err := file.Open()
	if err != nil {
		return response.ServiceError(c, "Failed to open file")
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return response.ServiceError(c, "Failed to read file")
	}

	result, err := h.service.UploadAudio(c.Context(), cartID, data)
	if err != nil {
		if errors.Is(err, store.ErrCartNotFound) {
			return response.NotFound(c, "Cart not found")
		}
		return response.ServiceError(c, err.Error())
	}

	return response.Accepted(c, result)
}
