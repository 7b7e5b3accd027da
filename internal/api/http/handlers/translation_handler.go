package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/usecase-portal/internal/api/dto"
	"github.com/spec-kit/usecase-portal/internal/extract"
	"github.com/spec-kit/usecase-portal/internal/render"
	"github.com/spec-kit/usecase-portal/internal/service"
	apperrors "github.com/spec-kit/usecase-portal/pkg/util/errorutil"
)

// TranslationHandler exposes the language translation endpoint.
type TranslationHandler struct {
	translations *service.TranslationService
	extractor    extract.TextExtractor
}

// NewTranslationHandler constructs handler.
func NewTranslationHandler(translationService *service.TranslationService, extractor extract.TextExtractor) *TranslationHandler {
	return &TranslationHandler{translations: translationService, extractor: extractor}
}

// Handle handles POST /usecase/language-translation. The result is returned
// inline as JSON or, when download_filetype is set, as a downloadable file.
func (h *TranslationHandler) Handle(c *fiber.Ctx) error {
	inputLang := strings.TrimSpace(c.FormValue("input_lang"))
	outputLang := strings.TrimSpace(c.FormValue("output_lang"))
	if inputLang == "" || outputLang == "" {
		return apperrors.NewUnprocessable("input_lang and output_lang are required", nil)
	}

	textInput := strings.TrimSpace(c.FormValue("text_input"))
	fileHeader, fileErr := c.FormFile("file")
	hasFile := fileErr == nil && fileHeader != nil && strings.TrimSpace(fileHeader.Filename) != ""

	if (textInput != "" && hasFile) || (textInput == "" && !hasFile) {
		return apperrors.NewValidationError("please provide either text input or a file, but not both", nil)
	}

	text := textInput
	if hasFile {
		data, err := readUpload(fileHeader)
		if err != nil {
			return apperrors.NewValidationError("unable to read uploaded file", nil)
		}
		if len(data) == 0 {
			return apperrors.NewValidationError("uploaded file is empty", nil)
		}
		text, err = h.extractor.ExtractText(c.Context(), data, fileHeader.Filename)
		if err != nil {
			if errors.Is(err, extract.ErrUnsupportedFormat) {
				return apperrors.NewValidationError("unsupported file format; use TXT, PDF, or DOCX", nil)
			}
			return apperrors.NewExternalError("text extraction failed", err)
		}
	}

	if strings.TrimSpace(text) == "" {
		return apperrors.NewValidationError("no text found in the document or input", nil)
	}

	translated, err := h.translations.Translate(c.Context(), inputLang, outputLang, text)
	if err != nil {
		return err
	}

	switch c.FormValue("download_filetype") {
	case "docx":
		document, err := render.Docx(translated)
		if err != nil {
			return apperrors.NewInternalError(err)
		}
		c.Set(fiber.HeaderContentType, render.DocxMIME)
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="translated.docx"`)
		return c.Send(document)
	case "txt", "txt-download":
		c.Set(fiber.HeaderContentType, "text/plain; charset=utf-8")
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="translated.txt"`)
		return c.SendString(translated)
	default:
		return c.JSON(dto.TranslationResponse{TranslatedText: translated})
	}
}
