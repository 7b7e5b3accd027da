package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/usecase-portal/internal/events"
	"github.com/spec-kit/usecase-portal/internal/extract"
	"github.com/spec-kit/usecase-portal/internal/inference"
	"github.com/spec-kit/usecase-portal/internal/repository"
	"github.com/spec-kit/usecase-portal/internal/resolve"
	apperrors "github.com/spec-kit/usecase-portal/pkg/util/errorutil"
)

const visionPrompt = "Analyze the image and classify the products accurately. " +
	"For each product, provide a JSON list with objects in the format: " +
	"[{product_name: ..., category: ...}]. " +
	"The category must be one of: 'food', 'beverage', or 'other'. " +
	"Choose only one category for each product. Do not use combined or ambiguous categories. " +
	"Use external knowledge and common sense to ensure logical consistency. " +
	"If you are unsure, use your best judgment and general world knowledge."

// overrideCategory is forced for any product name on the brand override
// table, regardless of what either tier reports.
const overrideCategory = "other"

// DefaultBrandOverrides lists brand and restaurant names that always
// classify as "other". Configuration may replace the table entirely.
var DefaultBrandOverrides = []string{
	"mcdonald's", "starbucks", "burger king", "kfc", "subway", "domino's", "pizza hut",
	"wendy's", "taco bell", "dunkin", "chipotle", "panera bread", "papa john's", "arbys",
	"jack in the box", "chick-fil-a", "five guys", "hardee's", "carls jr", "little caesars",
	"sonic", "a&w", "tim hortons", "jollibee", "in-n-out", "shake shack", "costa coffee",
	"pret a manger", "krispy kreme", "peet's coffee", "cinnabon", "dairy queen",
	"el pollo loco", "wingstop", "red robin", "outback steakhouse", "buffalo wild wings",
	"panda express", "sbarro", "long john silver's", "baskin robbins", "dave & buster's",
	"ihop", "applebee's", "olive garden", "tgi friday's", "cheesecake factory", "benihana",
	"hooters", "ruby tuesday", "zaxby's", "raising cane's", "culver's", "bojangles",
	"jamba", "smoothie king", "firehouse subs", "jersey mike's", "potbelly", "blaze pizza",
	"mod pizza", "sweetgreen", "tropical smoothie cafe", "jimmy john's", "quiznos",
	"schlotzsky's", "togo's", "blimpie", "auntie anne's", "church's chicken", "denny's",
}

// Classification is one recognized product.
type Classification struct {
	ProductName string `json:"product_name"`
	Category    string `json:"category"`
}

// ImageService classifies product images: OCR words against the local label
// table first, then the vision model with a bounded retry loop.
type ImageService struct {
	labels     repository.ImageLabelRepository
	ocr        extract.OCRReader
	completer  inference.Completer
	model      string
	overrides  map[string]struct{}
	attempts   int
	retryDelay time.Duration
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// ImageServiceOptions bundles construction parameters.
type ImageServiceOptions struct {
	Labels         repository.ImageLabelRepository
	OCR            extract.OCRReader
	Completer      inference.Completer
	Model          string
	BrandOverrides []string
	MaxRetries     int
	RetryDelay     time.Duration
	Dispatcher     events.Dispatcher
	Logger         *zap.Logger
}

// NewImageService builds the service. An empty override list falls back to
// the default brand table.
func NewImageService(opts ImageServiceOptions) *ImageService {
	brands := opts.BrandOverrides
	if len(brands) == 0 {
		brands = DefaultBrandOverrides
	}
	overrides := make(map[string]struct{}, len(brands))
	for _, b := range brands {
		overrides[strings.ToLower(strings.TrimSpace(b))] = struct{}{}
	}

	attempts := opts.MaxRetries
	if attempts <= 0 {
		attempts = 3
	}

	return &ImageService{
		labels:     opts.Labels,
		ocr:        opts.OCR,
		completer:  opts.Completer,
		model:      opts.Model,
		overrides:  overrides,
		attempts:   attempts,
		retryDelay: opts.RetryDelay,
		dispatcher: opts.Dispatcher,
		logger:     opts.Logger,
	}
}

// Classify runs the two-tier image classification. Both tiers share one
// deduplication map keyed by normalized product name; the vision tier only
// runs when the OCR tier recognized nothing.
func (s *ImageService) Classify(ctx context.Context, image []byte) ([]Classification, error) {
	ocrText, err := s.ocr.ReadText(ctx, image)
	if err != nil {
		return nil, apperrors.NewExternalError("text recognition failed", err)
	}

	dedupe := newClassificationSet()

	if ocrText = strings.TrimSpace(ocrText); ocrText != "" {
		var words []string
		for _, w := range strings.Fields(ocrText) {
			if len(w) > 2 {
				words = append(words, w)
			}
		}
		if len(words) > 0 {
			labels, err := s.labels.SearchByWords(ctx, words)
			if err != nil {
				return nil, err
			}
			for _, label := range labels {
				dedupe.add(label.ProductName, label.Category)
			}
		}
	}

	if dedupe.len() > 0 {
		return dedupe.values(), nil
	}

	if err := s.classifyVision(ctx, image, dedupe); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventExternalFallback, "image", events.ExternalFallbackPayload{
		UseCase: "image-classification",
		Detail:  fmt.Sprintf("%d classifications", dedupe.len()),
	})
	return dedupe.values(), nil
}

// classifyVision retries the whole call-parse cycle on any failure: empty
// response, missing JSON, parse error or an empty result set.
func (s *ImageService) classifyVision(ctx context.Context, image []byte, dedupe *classificationSet) error {
	dataURI := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(image)

	err := resolve.Retry(ctx, s.attempts, s.retryDelay, func() error {
		content, err := s.completer.Complete(ctx, inference.Request{
			Model:    s.model,
			Messages: []inference.Message{inference.UserVision(visionPrompt, dataURI)},
		})
		if err != nil {
			s.logger.Warn("vision attempt failed", zap.Error(err))
			return err
		}

		var raw []map[string]any
		if err := inference.DecodeFirstArray(content, &raw); err != nil {
			s.logger.Warn("vision payload invalid", zap.Error(err))
			return err
		}

		for _, item := range raw {
			product := strings.ToLower(strings.TrimSpace(asString(item["product_name"])))
			category := strings.ToLower(strings.TrimSpace(asString(item["category"])))
			if product == "" || product == "string" || category == "string" {
				continue
			}
			if _, known := s.overrides[product]; known {
				category = overrideCategory
			}
			dedupe.add(product, category)
		}

		if dedupe.len() == 0 {
			return errors.New("no valid classification results found")
		}
		return nil
	})
	if err != nil {
		return apperrors.NewExternalError("vision model failed after multiple attempts", err)
	}
	return nil
}

func (s *ImageService) publish(ctx context.Context, eventType events.EventType, subject string, payload any) {
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

// classificationSet deduplicates classifications by normalized product name,
// preserving insertion order.
type classificationSet struct {
	order []string
	items map[string]Classification
}

func newClassificationSet() *classificationSet {
	return &classificationSet{items: make(map[string]Classification)}
}

func (c *classificationSet) add(productName, category string) {
	key := strings.ToLower(strings.TrimSpace(productName))
	if _, dup := c.items[key]; dup {
		return
	}
	c.items[key] = Classification{ProductName: productName, Category: category}
	c.order = append(c.order, key)
}

func (c *classificationSet) len() int {
	return len(c.items)
}

func (c *classificationSet) values() []Classification {
	out := make([]Classification, 0, len(c.order))
	for _, key := range c.order {
		out = append(out, c.items[key])
	}
	return out
}
