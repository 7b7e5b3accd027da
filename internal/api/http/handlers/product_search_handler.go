package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/usecase-portal/internal/api/dto"
	"github.com/spec-kit/usecase-portal/internal/service"
	apperrors "github.com/spec-kit/usecase-portal/pkg/util/errorutil"
)

// ProductSearchHandler exposes the agentic product search endpoint.
type ProductSearchHandler struct {
	search *service.ProductSearchService
}

// NewProductSearchHandler constructs handler.
func NewProductSearchHandler(searchService *service.ProductSearchService) *ProductSearchHandler {
	return &ProductSearchHandler{search: searchService}
}

// Handle handles POST /usecase/agentic-product-search.
func (h *ProductSearchHandler) Handle(c *fiber.Ctx) error {
	var req dto.ProductSearchRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewUnprocessable("invalid request body", nil)
	}

	if strings.TrimSpace(req.Query) == "" {
		return apperrors.NewUnprocessable("invalid or missing 'query' field in request body", nil)
	}
	if req.Action != "search" && req.Action != "purchase" {
		return apperrors.NewUnprocessable("invalid or missing 'action' field in request body", nil)
	}
	if req.Action == "purchase" && req.ProductID == nil {
		return apperrors.NewUnprocessable("invalid or missing 'product_id' field for purchase action", nil)
	}

	var (
		outcome *service.SearchOutcome
		err     error
	)
	if req.Action == "search" {
		outcome, err = h.search.Search(c.Context(), req.Query)
	} else {
		outcome, err = h.search.Purchase(c.Context(), *req.ProductID)
	}
	if err != nil {
		return err
	}
	return c.JSON(outcome)
}
