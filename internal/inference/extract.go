package inference

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNoPayload means the model output contained no structured payload.
var ErrNoPayload = errors.New("no structured payload found in model output")

// FirstJSONArray returns the first balanced JSON array substring of s. Model
// output is free-form text, so the payload is located by bracket scanning
// rather than assuming the whole response is clean JSON.
func FirstJSONArray(s string) (string, error) {
	return firstBalanced(s, '[', ']')
}

// FirstJSONObject returns the first balanced JSON object substring of s.
func FirstJSONObject(s string) (string, error) {
	return firstBalanced(s, '{', '}')
}

// DecodeFirstArray extracts the first JSON array in s and unmarshals it
// into v. A missing or malformed payload is an explicit error, never an
// empty success.
func DecodeFirstArray(s string, v any) error {
	payload, err := FirstJSONArray(s)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(payload), v); err != nil {
		return fmt.Errorf("parse payload: %w", err)
	}
	return nil
}

// DecodeFirstObject extracts the first JSON object in s and unmarshals it
// into v.
func DecodeFirstObject(s string, v any) error {
	payload, err := FirstJSONObject(s)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(payload), v); err != nil {
		return fmt.Errorf("parse payload: %w", err)
	}
	return nil
}

func firstBalanced(s string, open, close byte) (string, error) {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		ch := s[i]
		if start < 0 {
			if ch == open {
				start = i
				depth = 1
			}
			continue
		}
		if escaped {
			escaped = false
			continue
		}
		switch {
		case ch == '\\' && inString:
			escaped = true
		case ch == '"':
			inString = !inString
		case inString:
		case ch == open:
			depth++
		case ch == close:
			depth--
			if depth == 0 {
				return s[start : i+1], nil
			}
		}
	}
	return "", ErrNoPayload
}
