package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/usecase-portal/internal/events"
	"github.com/spec-kit/usecase-portal/internal/inference"
	"github.com/spec-kit/usecase-portal/internal/repository"
	apperrors "github.com/spec-kit/usecase-portal/pkg/util/errorutil"
)

// translationChunkSize keeps each external call under the model's context
// budget.
const translationChunkSize = 800

// TranslationService resolves translations against the cached pair table
// first and falls back to the external model chunk by chunk.
type TranslationService struct {
	translations repository.TranslationRepository
	completer    inference.Completer
	model        string
	dispatcher   events.Dispatcher
	logger       *zap.Logger
}

// NewTranslationService builds the service.
func NewTranslationService(translations repository.TranslationRepository, completer inference.Completer, model string, dispatcher events.Dispatcher, logger *zap.Logger) *TranslationService {
	return &TranslationService{
		translations: translations,
		completer:    completer,
		model:        model,
		dispatcher:   dispatcher,
		logger:       logger,
	}
}

// Translate returns the cached translation for the language pair when one
// covers the input text, otherwise translates externally.
func (s *TranslationService) Translate(ctx context.Context, inputLang, outputLang, text string) (string, error) {
	inputLang = strings.ToLower(strings.TrimSpace(inputLang))
	outputLang = strings.ToLower(strings.TrimSpace(outputLang))
	text = strings.TrimSpace(text)

	cached, err := s.translations.FindCached(ctx, inputLang, outputLang, text)
	if err == nil {
		return cached.OutputText, nil
	}
	if err != pgx.ErrNoRows {
		return "", err
	}

	return s.translateExternal(ctx, inputLang, outputLang, text)
}

func (s *TranslationService) translateExternal(ctx context.Context, inputLang, outputLang, text string) (string, error) {
	system := fmt.Sprintf(
		"You are a translation engine. Translate the user's text from %s to %s. Respond with the translated text only, no explanation.",
		inputLang, outputLang)

	chunks := splitChunks(text, translationChunkSize)
	translated := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		content, err := s.completer.Complete(ctx, inference.Request{
			Model: s.model,
			Messages: []inference.Message{
				inference.Text("system", system),
				inference.Text("user", chunk),
			},
		})
		if err != nil {
			return "", apperrors.NewExternalError("translation failed", err)
		}
		translated = append(translated, strings.TrimSpace(content))
	}

	s.publish(ctx, events.EventExternalFallback, inputLang+"->"+outputLang, events.ExternalFallbackPayload{
		UseCase: "language-translation",
		Detail:  fmt.Sprintf("%d chunks", len(chunks)),
	})
	return strings.Join(translated, "\n"), nil
}

func (s *TranslationService) publish(ctx context.Context, eventType events.EventType, subject string, payload any) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Subject:   subject,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}

// splitChunks cuts the text into pieces of at most size bytes, backing each
// cut up to a rune boundary so multibyte characters are never torn across
// chunks.
func splitChunks(text string, size int) []string {
	if len(text) <= size {
		return []string{text}
	}
	var chunks []string
	for len(text) > size {
		end := size
		for end > 0 && !utf8.RuneStart(text[end]) {
			end--
		}
		if end == 0 {
			// not valid UTF-8; cut at the byte limit
			end = size
		}
		chunks = append(chunks, text[:end])
		text = text[end:]
	}
	if len(text) > 0 {
		chunks = append(chunks, text)
	}
	return chunks
}
