package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/usecase-portal/internal/extract"
	"github.com/spec-kit/usecase-portal/internal/service"
	apperrors "github.com/spec-kit/usecase-portal/pkg/util/errorutil"
)

// SentimentHandler exposes the sentiment analysis endpoint.
type SentimentHandler struct {
	sentiment *service.SentimentService
	extractor extract.TextExtractor
}

// NewSentimentHandler constructs handler.
func NewSentimentHandler(sentimentService *service.SentimentService, extractor extract.TextExtractor) *SentimentHandler {
	return &SentimentHandler{sentiment: sentimentService, extractor: extractor}
}

// Handle handles POST /usecase/sentiment-analysis. Exactly one of text_input
// and file must be present.
func (h *SentimentHandler) Handle(c *fiber.Ctx) error {
	textInput := strings.TrimSpace(c.FormValue("text_input"))
	fileHeader, fileErr := c.FormFile("file")
	hasFile := fileErr == nil && fileHeader != nil && strings.TrimSpace(fileHeader.Filename) != ""

	if textInput != "" && hasFile {
		return apperrors.NewValidationError("please provide either text input or a file, but not both", nil)
	}
	if textInput == "" && !hasFile {
		return apperrors.NewValidationError("please provide either text input or a file", nil)
	}

	content := textInput
	if hasFile {
		data, err := readUpload(fileHeader)
		if err != nil {
			return apperrors.NewValidationError("unable to read uploaded file", nil)
		}
		if len(data) == 0 {
			return apperrors.NewValidationError("uploaded file is empty", nil)
		}
		content, err = h.extractor.ExtractText(c.Context(), data, fileHeader.Filename)
		if err != nil {
			if errors.Is(err, extract.ErrUnsupportedFormat) {
				return apperrors.NewValidationError("unsupported file type", nil)
			}
			return apperrors.NewExternalError("text extraction failed", err)
		}
	}

	if strings.TrimSpace(content) == "" {
		return apperrors.NewValidationError("no text found in the document or input", nil)
	}

	results, err := h.sentiment.Analyze(c.Context(), content)
	if err != nil {
		return err
	}
	return c.JSON(results)
}
