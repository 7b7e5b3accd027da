package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/usecase-portal/internal/domain"
	"github.com/spec-kit/usecase-portal/internal/events"
	"github.com/spec-kit/usecase-portal/internal/inference"
	"github.com/spec-kit/usecase-portal/internal/repository"
	"github.com/spec-kit/usecase-portal/internal/resolve"
	apperrors "github.com/spec-kit/usecase-portal/pkg/util/errorutil"
)

const productResultCap = 3

// ProductResult is one product in a search outcome, locally stored or
// externally suggested.
type ProductResult struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Price    string `json:"price"`
	InStock  int    `json:"in_stock"`
}

// SearchOutcome is the full product search or purchase response.
type SearchOutcome struct {
	Message   string          `json:"message"`
	Products  []ProductResult `json:"products"`
	Purchased bool            `json:"purchased"`
}

// ProductSearchService resolves product queries against the local catalog
// first and falls back to the external model when nothing matches.
type ProductSearchService struct {
	products   repository.ProductRepository
	completer  inference.Completer
	model      string
	synthetic  *resolve.SyntheticIDs
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewProductSearchService builds the service.
func NewProductSearchService(products repository.ProductRepository, completer inference.Completer, model string, synthetic *resolve.SyntheticIDs, dispatcher events.Dispatcher, logger *zap.Logger) *ProductSearchService {
	return &ProductSearchService{
		products:   products,
		completer:  completer,
		model:      model,
		synthetic:  synthetic,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

var searchStopwords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "for": {}, "of": {}, "to": {}, "and": {},
	"some": {}, "with": {}, "buy": {}, "find": {}, "need": {}, "want": {},
	"me": {}, "my": {}, "please": {},
}

// searchTerms derives the tier-1 matching keywords from a free-form query.
// When nothing usable remains, the whole query is the single term.
func searchTerms(query string) []string {
	var terms []string
	for _, word := range strings.Fields(strings.ToLower(query)) {
		word = strings.Trim(word, ".,!?;:\"'")
		if len(word) <= 2 {
			continue
		}
		if _, skip := searchStopwords[word]; skip {
			continue
		}
		terms = append(terms, word)
	}
	if len(terms) == 0 {
		terms = []string{strings.TrimSpace(query)}
	}
	return terms
}

// Search resolves a product query. Tier 1 matches each keyword against name
// and category, dedupes by numeric ID and caps at three results; tier 2 is
// only consulted when tier 1 comes back empty.
func (s *ProductSearchService) Search(ctx context.Context, query string) (*SearchOutcome, error) {
	query = strings.TrimSpace(query)

	var matches []domain.ProductRecord
	for _, term := range searchTerms(query) {
		found, err := s.products.SearchByTerm(ctx, term)
		if err != nil {
			return nil, err
		}
		matches = append(matches, found...)
	}

	local := resolve.DedupeBy(matches, productResultCap, func(p domain.ProductRecord) int64 { return p.ID })
	if len(local) > 0 {
		results := make([]ProductResult, 0, len(local))
		for _, p := range local {
			results = append(results, ProductResult{
				ID:       p.ID,
				Name:     p.Name,
				Category: p.Category,
				Price:    p.Price,
				InStock:  p.InStock,
			})
		}
		return &SearchOutcome{
			Message:  fmt.Sprintf("Based on your query: '%s', here are some product suggestions:", query),
			Products: results,
		}, nil
	}

	return s.searchExternal(ctx, query)
}

func (s *ProductSearchService) searchExternal(ctx context.Context, query string) (*SearchOutcome, error) {
	prompt := fmt.Sprintf(
		"Suggest 3 unique products for: %s. For each, provide name, category, price, and in_stock (random 1-10). Return as JSON list.",
		query)

	content, err := s.completer.Complete(ctx, inference.Request{
		Model:    s.model,
		Messages: []inference.Message{inference.Text("user", prompt)},
	})
	if err != nil {
		return nil, apperrors.NewExternalError("product suggestion service unavailable", err)
	}

	var raw []map[string]any
	if err := inference.DecodeFirstArray(content, &raw); err != nil {
		return nil, apperrors.NewExternalError("no product list in model output", err)
	}

	seen := make(map[string]struct{}, len(raw))
	results := make([]ProductResult, 0, productResultCap)
	for _, item := range raw {
		name := strings.TrimSpace(asString(item["name"]))
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		results = append(results, ProductResult{
			ID:       s.synthetic.Assign(name),
			Name:     name,
			Category: asString(item["category"]),
			Price:    asString(item["price"]),
			InStock:  asInt(item["in_stock"]),
		})
		if len(results) >= productResultCap {
			break
		}
	}

	s.publish(ctx, events.EventExternalFallback, query, events.ExternalFallbackPayload{
		UseCase: "agentic-product-search",
		Detail:  fmt.Sprintf("%d suggestions", len(results)),
	})
	return &SearchOutcome{
		Message:  fmt.Sprintf("Generated suggestions for: '%s'", query),
		Products: results,
	}, nil
}

// Purchase resolves the product by ID, preferring the local catalog. Stock
// exhaustion is an expected business outcome reported in the body, not an
// error. Synthetic IDs resolve through the in-memory mapping; anything else
// unknown is a not-found failure.
func (s *ProductSearchService) Purchase(ctx context.Context, productID int64) (*SearchOutcome, error) {
	record, err := s.products.GetByID(ctx, productID)
	if err != nil && err != pgx.ErrNoRows {
		return nil, err
	}

	if record != nil {
		ok, err := s.products.DecrementStock(ctx, productID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return &SearchOutcome{Message: "Product out of stock.", Products: []ProductResult{}}, nil
		}
		s.publish(ctx, events.EventProductPurchased, record.Name, events.ProductPurchasedPayload{
			ProductID: productID,
			Name:      record.Name,
		})
		return &SearchOutcome{
			Message:   fmt.Sprintf("Successfully purchased: %s", record.Name),
			Products:  []ProductResult{},
			Purchased: true,
		}, nil
	}

	if productID >= resolve.SyntheticIDBase {
		if name, ok := s.synthetic.Lookup(productID); ok {
			s.publish(ctx, events.EventProductPurchased, name, events.ProductPurchasedPayload{
				ProductID: productID,
				Name:      name,
				Synthetic: true,
			})
			return &SearchOutcome{
				Message:   fmt.Sprintf("Successfully purchased: %s", name),
				Products:  []ProductResult{},
				Purchased: true,
			}, nil
		}
	}

	return nil, apperrors.NewNotFound("product", map[string]any{"product_id": productID})
}

func (s *ProductSearchService) publish(ctx context.Context, eventType events.EventType, subject string, payload any) {
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

// asString coerces permissively parsed JSON values into display text.
func asString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		if val == float64(int64(val)) {
			return strconv.FormatInt(int64(val), 10)
		}
		return strconv.FormatFloat(val, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", val)
	}
}

func asInt(v any) int {
	switch val := v.(type) {
	case float64:
		return int(val)
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(val)); err == nil {
			return n
		}
	}
	return 0
}
