package handlers

import (
	"bytes"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/usecase-portal/internal/service"
	apperrors "github.com/spec-kit/usecase-portal/pkg/util/errorutil"
)

var validImageTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/jpg":  {},
	"image/png":  {},
}

// ImageHandler exposes the image classification endpoint.
type ImageHandler struct {
	images *service.ImageService
}

// NewImageHandler constructs handler.
func NewImageHandler(imageService *service.ImageService) *ImageHandler {
	return &ImageHandler{images: imageService}
}

// Handle handles POST /usecase/image-classification.
func (h *ImageHandler) Handle(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil || fileHeader == nil {
		return apperrors.NewValidationError("no file uploaded; please upload a valid .jpg or .png image", nil)
	}

	contentType := strings.TrimSpace(strings.ToLower(fileHeader.Header.Get("Content-Type")))
	if _, ok := validImageTypes[contentType]; !ok {
		return apperrors.NewValidationError("invalid file type; please upload a valid .jpg or .png image",
			map[string]any{"content_type": contentType})
	}

	data, err := readUpload(fileHeader)
	if err != nil {
		return apperrors.NewValidationError("unable to read uploaded file", nil)
	}
	// Swagger UI submits the literal placeholder "string" for untouched
	// file fields.
	if len(data) <= 7 || bytes.Equal(bytes.TrimSpace(data), []byte("string")) {
		return apperrors.NewValidationError("uploaded image is invalid or empty", nil)
	}

	results, err := h.images.Classify(c.Context(), data)
	if err != nil {
		return err
	}
	return c.JSON(results)
}
