package domain

// SentimentLabel maps a sentiment label to its comma-separated keyword list.
type SentimentLabel struct {
	ID       int64
	Label    string
	Keywords string
}

// ImageLabel is a locally stored classification fact keyed by OCR text.
type ImageLabel struct {
	ID          int64
	OCRText     string
	ProductName string
	Category    string
}
