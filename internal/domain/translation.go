package domain

// LanguageTranslation is a cached translation keyed by language pair and
// input text.
type LanguageTranslation struct {
	ID         int64
	InputLang  string
	OutputLang string
	InputText  string
	OutputText string
}
