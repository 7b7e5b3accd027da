package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/usecase-portal/internal/domain"
)

// TranslationRepository looks up cached translations for tier-1 resolution.
type TranslationRepository interface {
	FindCached(ctx context.Context, inputLang, outputLang, text string) (*domain.LanguageTranslation, error)
}

type translationRepository struct {
	pool *pgxpool.Pool
}

// NewTranslationRepository returns a Postgres-backed implementation.
func NewTranslationRepository(pool *pgxpool.Pool) TranslationRepository {
	return &translationRepository{pool: pool}
}

func (r *translationRepository) FindCached(ctx context.Context, inputLang, outputLang, text string) (*domain.LanguageTranslation, error) {
	const query = `
        SELECT id, input_lang, output_lang, input_text, output_text
        FROM language_translations
        WHERE input_lang=$1 AND output_lang=$2 AND input_text ILIKE '%' || $3 || '%'
        LIMIT 1`

	var t domain.LanguageTranslation
	if err := r.pool.QueryRow(ctx, query, inputLang, outputLang, text).Scan(
		&t.ID,
		&t.InputLang,
		&t.OutputLang,
		&t.InputText,
		&t.OutputText,
	); err != nil {
		return nil, err
	}
	return &t, nil
}
