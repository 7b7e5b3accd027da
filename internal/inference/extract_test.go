package inference

import (
	"errors"
	"testing"
)

func TestFirstJSONArray_EmbeddedInProse(t *testing.T) {
	t.Parallel()

	input := "Sure! Here are the products:\n[{\"name\": \"Mouse\"}, {\"name\": \"Keyboard\"}]\nLet me know if you need more."
	got, err := FirstJSONArray(input)
	if err != nil {
		t.Fatalf("FirstJSONArray error: %v", err)
	}
	want := `[{"name": "Mouse"}, {"name": "Keyboard"}]`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestFirstJSONArray_NestedBrackets(t *testing.T) {
	t.Parallel()

	input := `prefix [[1, 2], [3, 4]] suffix [5]`
	got, err := FirstJSONArray(input)
	if err != nil {
		t.Fatalf("FirstJSONArray error: %v", err)
	}
	if got != "[[1, 2], [3, 4]]" {
		t.Fatalf("got %q", got)
	}
}

func TestFirstJSONArray_BracketInsideString(t *testing.T) {
	t.Parallel()

	input := `[{"name": "box ]]] of nails"}]`
	got, err := FirstJSONArray(input)
	if err != nil {
		t.Fatalf("FirstJSONArray error: %v", err)
	}
	if got != input {
		t.Fatalf("got %q, want whole input", got)
	}
}

func TestFirstJSONArray_Missing(t *testing.T) {
	t.Parallel()

	if _, err := FirstJSONArray("no structured data here"); !errors.Is(err, ErrNoPayload) {
		t.Fatalf("err = %v, want ErrNoPayload", err)
	}
	if _, err := FirstJSONArray("unterminated [1, 2"); !errors.Is(err, ErrNoPayload) {
		t.Fatalf("err = %v, want ErrNoPayload for unterminated array", err)
	}
}

func TestFirstJSONObject_EmbeddedInProse(t *testing.T) {
	t.Parallel()

	input := "The sentiment is {\"summary\": \"Positive\", \"percentage\": {\"Positive\": 80, \"Negative\": 20}} overall."
	got, err := FirstJSONObject(input)
	if err != nil {
		t.Fatalf("FirstJSONObject error: %v", err)
	}
	want := `{"summary": "Positive", "percentage": {"Positive": 80, "Negative": 20}}`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestDecodeFirstArray(t *testing.T) {
	t.Parallel()

	var items []map[string]any
	err := DecodeFirstArray(`noise [{"name": "Mouse", "in_stock": 4}] noise`, &items)
	if err != nil {
		t.Fatalf("DecodeFirstArray error: %v", err)
	}
	if len(items) != 1 || items[0]["name"] != "Mouse" {
		t.Fatalf("items = %v", items)
	}
}

func TestDecodeFirstArray_MalformedPayloadFails(t *testing.T) {
	t.Parallel()

	var items []map[string]any
	if err := DecodeFirstArray(`[{"name": broken}]`, &items); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestDecodeFirstObject(t *testing.T) {
	t.Parallel()

	var payload struct {
		Summary    string             `json:"summary"`
		Percentage map[string]float64 `json:"percentage"`
	}
	err := DecodeFirstObject(`{"summary": "Negative", "percentage": {"Negative": 100}}`, &payload)
	if err != nil {
		t.Fatalf("DecodeFirstObject error: %v", err)
	}
	if payload.Summary != "Negative" || payload.Percentage["Negative"] != 100 {
		t.Fatalf("payload = %+v", payload)
	}
}
