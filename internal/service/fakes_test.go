package service

import (
	"context"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/usecase-portal/internal/domain"
	"github.com/spec-kit/usecase-portal/internal/inference"
)

// fakeCompleter returns canned responses in order and counts invocations.
type fakeCompleter struct {
	mu        sync.Mutex
	responses []string
	errs      []error
	calls     int
	lastReq   inference.Request
}

func (f *fakeCompleter) Complete(_ context.Context, req inference.Request) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	idx := f.calls
	f.calls++
	f.lastReq = req

	if idx < len(f.errs) && f.errs[idx] != nil {
		return "", f.errs[idx]
	}
	if idx < len(f.responses) {
		return f.responses[idx], nil
	}
	if len(f.responses) > 0 {
		return f.responses[len(f.responses)-1], nil
	}
	return "", nil
}

func (f *fakeCompleter) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakeProductRepo is an in-memory catalog with atomic stock decrement
// semantics matching the SQL implementation.
type fakeProductRepo struct {
	mu       sync.Mutex
	products map[int64]*domain.ProductRecord
}

func newFakeProductRepo(products ...domain.ProductRecord) *fakeProductRepo {
	repo := &fakeProductRepo{products: make(map[int64]*domain.ProductRecord)}
	for i := range products {
		p := products[i]
		repo.products[p.ID] = &p
	}
	return repo
}

func (r *fakeProductRepo) SearchByTerm(_ context.Context, term string) ([]domain.ProductRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	term = strings.ToLower(term)
	var out []domain.ProductRecord
	// Iterate in ID order for deterministic results.
	for id := int64(0); id < 1000; id++ {
		p, ok := r.products[id]
		if !ok {
			continue
		}
		if strings.Contains(strings.ToLower(p.Name), term) || strings.Contains(strings.ToLower(p.Category), term) {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) GetByID(_ context.Context, id int64) (*domain.ProductRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *p
	return &copied, nil
}

func (r *fakeProductRepo) DecrementStock(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok || p.InStock <= 0 {
		return false, nil
	}
	p.InStock--
	return true, nil
}

// fakeSentimentLabels serves a fixed label table.
type fakeSentimentLabels struct {
	labels []domain.SentimentLabel
}

func (r *fakeSentimentLabels) List(context.Context) ([]domain.SentimentLabel, error) {
	return r.labels, nil
}

// fakeImageLabels matches stored OCR text by substring, like the SQL ILIKE
// implementation.
type fakeImageLabels struct {
	labels []domain.ImageLabel
}

func (r *fakeImageLabels) SearchByWords(_ context.Context, words []string) ([]domain.ImageLabel, error) {
	var out []domain.ImageLabel
	for _, label := range r.labels {
		for _, word := range words {
			if strings.Contains(strings.ToLower(label.OCRText), strings.ToLower(word)) {
				out = append(out, label)
				break
			}
		}
	}
	return out, nil
}

// fakeOCR returns fixed text.
type fakeOCR struct {
	text string
}

func (f fakeOCR) ReadText(context.Context, []byte) (string, error) {
	return f.text, nil
}

// fakeTranslations serves cached pairs keyed by lang pair when the stored
// input text contains the query.
type fakeTranslations struct {
	cached []domain.LanguageTranslation
}

func (r *fakeTranslations) FindCached(_ context.Context, inputLang, outputLang, text string) (*domain.LanguageTranslation, error) {
	for i := range r.cached {
		c := r.cached[i]
		if c.InputLang == inputLang && c.OutputLang == outputLang &&
			strings.Contains(strings.ToLower(c.InputText), strings.ToLower(text)) {
			return &c, nil
		}
	}
	return nil, pgx.ErrNoRows
}
