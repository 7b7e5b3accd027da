package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/usecase-portal/internal/domain"
)

// SentimentLabelRepository lists the sentiment keyword table.
type SentimentLabelRepository interface {
	List(ctx context.Context) ([]domain.SentimentLabel, error)
}

type sentimentLabelRepository struct {
	pool *pgxpool.Pool
}

// NewSentimentLabelRepository returns a Postgres-backed implementation.
func NewSentimentLabelRepository(pool *pgxpool.Pool) SentimentLabelRepository {
	return &sentimentLabelRepository{pool: pool}
}

func (r *sentimentLabelRepository) List(ctx context.Context) ([]domain.SentimentLabel, error) {
	const query = `SELECT id, label, keywords FROM sentiment_labels ORDER BY id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var labels []domain.SentimentLabel
	for rows.Next() {
		var l domain.SentimentLabel
		if err := rows.Scan(&l.ID, &l.Label, &l.Keywords); err != nil {
			return nil, err
		}
		labels = append(labels, l)
	}
	return labels, rows.Err()
}

// ImageLabelRepository matches OCR words against stored image labels.
type ImageLabelRepository interface {
	SearchByWords(ctx context.Context, words []string) ([]domain.ImageLabel, error)
}

type imageLabelRepository struct {
	pool *pgxpool.Pool
}

// NewImageLabelRepository returns a Postgres-backed implementation.
func NewImageLabelRepository(pool *pgxpool.Pool) ImageLabelRepository {
	return &imageLabelRepository{pool: pool}
}

func (r *imageLabelRepository) SearchByWords(ctx context.Context, words []string) ([]domain.ImageLabel, error) {
	if len(words) == 0 {
		return nil, nil
	}

	conditions := make([]string, 0, len(words))
	args := make([]any, 0, len(words))
	for i, word := range words {
		conditions = append(conditions, fmt.Sprintf("ocr_text ILIKE '%%' || $%d || '%%'", i+1))
		args = append(args, word)
	}
	query := fmt.Sprintf(`
        SELECT id, ocr_text, product_name, category
        FROM image_labels WHERE %s ORDER BY id`, strings.Join(conditions, " OR "))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var labels []domain.ImageLabel
	for rows.Next() {
		var l domain.ImageLabel
		if err := rows.Scan(&l.ID, &l.OCRText, &l.ProductName, &l.Category); err != nil {
			return nil, err
		}
		labels = append(labels, l)
	}
	return labels, rows.Err()
}
