package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/usecase-portal/internal/domain"
	apperrors "github.com/spec-kit/usecase-portal/pkg/util/errorutil"
)

var testImageLabels = []domain.ImageLabel{
	{ID: 1, OCRText: "coca cola classic 330ml", ProductName: "Coca Cola", Category: "beverage"},
	{ID: 2, OCRText: "lays classic potato chips", ProductName: "Lays Chips", Category: "food"},
}

func newImageService(completer *fakeCompleter, ocrText string, overrides []string) *ImageService {
	return NewImageService(ImageServiceOptions{
		Labels:         &fakeImageLabels{labels: testImageLabels},
		OCR:            fakeOCR{text: ocrText},
		Completer:      completer,
		Model:          "test-vision-model",
		BrandOverrides: overrides,
		MaxRetries:     3,
		RetryDelay:     0,
		Logger:         zap.NewNop(),
	})
}

func TestImageClassify_OCRMatchSkipsVision(t *testing.T) {
	completer := &fakeCompleter{}
	svc := newImageService(completer, "coca cola bottle on a table", nil)

	results, err := svc.Classify(context.Background(), []byte("fake-image"))
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, "Coca Cola", results[0].ProductName)
	assert.Equal(t, "beverage", results[0].Category)
	assert.Equal(t, 0, completer.callCount(), "vision tier must not run when OCR matched")
}

func TestImageClassify_VisionFallbackDedupes(t *testing.T) {
	completer := &fakeCompleter{responses: []string{
		`[{"product_name": "Granola Bar", "category": "food"},
		  {"product_name": "granola bar", "category": "food"},
		  {"product_name": "Orange Juice", "category": "beverage"}]`,
	}}
	svc := newImageService(completer, "", nil)

	results, err := svc.Classify(context.Background(), []byte("fake-image"))
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Equal(t, "granola bar", results[0].ProductName)
	assert.Equal(t, "food", results[0].Category)
	assert.Equal(t, "orange juice", results[1].ProductName)
	assert.Equal(t, 1, completer.callCount())
}

func TestImageClassify_BrandOverrideForcesOther(t *testing.T) {
	completer := &fakeCompleter{responses: []string{
		`[{"product_name": "Starbucks", "category": "beverage"},
		  {"product_name": "Green Tea", "category": "beverage"}]`,
	}}
	svc := newImageService(completer, "", nil)

	results, err := svc.Classify(context.Background(), []byte("fake-image"))
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Equal(t, "other", results[0].Category, "brand names always classify as other")
	assert.Equal(t, "beverage", results[1].Category)
}

func TestImageClassify_PlaceholderEntriesAreSkipped(t *testing.T) {
	completer := &fakeCompleter{responses: []string{
		`[{"product_name": "string", "category": "string"},
		  {"product_name": "Bottled Water", "category": "beverage"}]`,
	}}
	svc := newImageService(completer, "", nil)

	results, err := svc.Classify(context.Background(), []byte("fake-image"))
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, "bottled water", results[0].ProductName)
}

func TestImageClassify_RetriesUntilValidPayload(t *testing.T) {
	completer := &fakeCompleter{
		errs: []error{errors.New("model overloaded"), nil, nil},
		responses: []string{
			"",
			"no json in this answer",
			`[{"product_name": "Chocolate Bar", "category": "food"}]`,
		},
	}
	svc := newImageService(completer, "", nil)

	results, err := svc.Classify(context.Background(), []byte("fake-image"))
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, "chocolate bar", results[0].ProductName)
	assert.Equal(t, 3, completer.callCount())
}

func TestImageClassify_ExhaustedRetriesFail(t *testing.T) {
	boom := errors.New("model overloaded")
	completer := &fakeCompleter{errs: []error{boom, boom, boom}}
	svc := newImageService(completer, "", nil)

	_, err := svc.Classify(context.Background(), []byte("fake-image"))
	require.Error(t, err)

	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, 500, domainErr.HTTPStatus)
	assert.Equal(t, 3, completer.callCount(), "retry loop is bounded")
}

func TestImageClassify_EmptyVisionResultRetries(t *testing.T) {
	completer := &fakeCompleter{responses: []string{
		`[]`,
		`[{"product_name": "Iced Tea", "category": "beverage"}]`,
	}}
	svc := newImageService(completer, "", nil)

	results, err := svc.Classify(context.Background(), []byte("fake-image"))
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 2, completer.callCount())
}
