package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/usecase-portal/internal/domain"
	"github.com/spec-kit/usecase-portal/internal/events"
	"github.com/spec-kit/usecase-portal/internal/inference"
	"github.com/spec-kit/usecase-portal/internal/repository"
	"github.com/spec-kit/usecase-portal/internal/resolve"
	apperrors "github.com/spec-kit/usecase-portal/pkg/util/errorutil"
)

// externalShareThreshold zeroes marginal labels reported by the external
// model before renormalizing.
const externalShareThreshold = 20.0

var externalSentimentLabels = []string{"Positive", "Negative", "Neutral"}

const sentimentSystemPrompt = "You are a sentiment analysis assistant. " +
	"Given a text, analyze its sentiment and respond ONLY in this JSON format: " +
	`{"summary": <one of: Positive, Negative, Neutral>, "percentage": {"Positive": <int>, "Negative": <int>, "Neutral": <int>}}. ` +
	"Percentages must sum to 100. Do not add any explanation."

// SentimentResult is the per-entry analysis outcome.
type SentimentResult struct {
	Summary    string         `json:"summary"`
	Percentage map[string]int `json:"percentage"`
}

// SentimentService analyzes feedback text line by line, matching keywords
// against the local label table and falling back to the external model for
// entries with no keyword hits.
type SentimentService struct {
	labels     repository.SentimentLabelRepository
	completer  inference.Completer
	model      string
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewSentimentService builds the service.
func NewSentimentService(labels repository.SentimentLabelRepository, completer inference.Completer, model string, dispatcher events.Dispatcher, logger *zap.Logger) *SentimentService {
	return &SentimentService{
		labels:     labels,
		completer:  completer,
		model:      model,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Analyze splits the content into per-line entries and resolves each one.
func (s *SentimentService) Analyze(ctx context.Context, content string) ([]SentimentResult, error) {
	var entries []string
	for _, line := range strings.Split(content, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			entries = append(entries, trimmed)
		}
	}

	labelDefs, err := s.labels.List(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]SentimentResult, 0, len(entries))
	for _, entry := range entries {
		result, matched := analyzeLocal(entry, labelDefs)
		if !matched {
			external, err := s.analyzeExternal(ctx, entry)
			if err != nil {
				return nil, err
			}
			result = *external
		}
		results = append(results, result)
	}
	return results, nil
}

// analyzeLocal counts exact keyword membership per label. It reports false
// when no keyword matched at all, handing the entry to the external tier.
func analyzeLocal(entry string, labelDefs []domain.SentimentLabel) (SentimentResult, bool) {
	words := strings.Fields(strings.ToLower(entry))

	shares := make([]resolve.Share, 0, len(labelDefs))
	total := 0
	for _, def := range labelDefs {
		keywords := make(map[string]struct{})
		for _, kw := range strings.Split(def.Keywords, ",") {
			if kw = strings.ToLower(strings.TrimSpace(kw)); kw != "" {
				keywords[kw] = struct{}{}
			}
		}

		count := 0
		for _, word := range words {
			if _, ok := keywords[word]; ok {
				count++
			}
		}
		total += count
		if count > 0 {
			shares = append(shares, resolve.Share{Label: strings.ToLower(def.Label), Value: float64(count)})
		}
	}

	if total == 0 {
		return SentimentResult{}, false
	}

	percentages := resolve.Normalize(shares)
	order := make([]string, len(shares))
	for i, sh := range shares {
		order[i] = sh.Label
	}
	return SentimentResult{
		Summary:    summarize(percentages, order),
		Percentage: percentages,
	}, true
}

// summarize picks the dominant label, capitalized; a map with no positive
// share reads as Neutral.
func summarize(percentages map[string]int, order []string) string {
	top := resolve.TopLabel(percentages, order)
	if top == "" || percentages[top] == 0 {
		return "Neutral"
	}
	return capitalize(top)
}

func (s *SentimentService) analyzeExternal(ctx context.Context, entry string) (*SentimentResult, error) {
	content, err := s.completer.Complete(ctx, inference.Request{
		Model: s.model,
		Messages: []inference.Message{
			inference.Text("system", sentimentSystemPrompt),
			inference.Text("user", fmt.Sprintf("Analyze the sentiment of the following text: %s", entry)),
		},
	})
	if err != nil {
		return nil, apperrors.NewExternalError("sentiment analysis failed", err)
	}

	var payload struct {
		Summary    string             `json:"summary"`
		Percentage map[string]float64 `json:"percentage"`
	}
	if err := inference.DecodeFirstObject(content, &payload); err != nil {
		return nil, apperrors.NewExternalError("sentiment analysis failed", err)
	}

	shares := make([]resolve.Share, len(externalSentimentLabels))
	for i, label := range externalSentimentLabels {
		shares[i] = resolve.Share{Label: label, Value: payload.Percentage[label]}
	}

	percentages := resolve.NormalizeThreshold(shares, externalShareThreshold)

	s.publish(ctx, events.EventExternalFallback, entry, events.ExternalFallbackPayload{
		UseCase: "sentiment-analysis",
	})
	return &SentimentResult{
		Summary:    summarize(percentages, externalSentimentLabels),
		Percentage: percentages,
	}, nil
}

func (s *SentimentService) publish(ctx context.Context, eventType events.EventType, subject string, payload any) {
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

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
