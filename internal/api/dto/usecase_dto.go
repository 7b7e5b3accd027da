package dto

// ProductSearchRequest payload for the agentic product search endpoint.
// Action is "search" or "purchase"; ProductID accompanies purchases.
type ProductSearchRequest struct {
	Query     string `json:"query"`
	Action    string `json:"action"`
	ProductID *int64 `json:"product_id"`
}

// TranslationResponse is the inline (non-download) translation result.
type TranslationResponse struct {
	TranslatedText string `json:"translated_text"`
}
