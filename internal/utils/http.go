// Package utils holds HTTP helpers shared by the feed server and the feed
// client.
package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// ErrBodyTooLarge is returned by [DecodeJSON] when the body exceeds the limit.
var ErrBodyTooLarge = errors.New("request body too large")

// WriteJSON marshals data and writes it with the given status and a JSON
// content type. When marshaling fails it answers 500 instead and returns the
// error.
func WriteJSON(w http.ResponseWriter, data any, statusCode int) (int, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		http.Error(w, "error writing data to JSON", http.StatusInternalServerError)
		return 0, fmt.Errorf("error writing data to JSON: %w", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	return w.Write(jsonData)
}

// ReadBody reads at most limit bytes of body. A longer body is rejected with
// [ErrBodyTooLarge] rather than silently truncated.
func ReadBody(body io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrBodyTooLarge, limit)
	}
	return data, nil
}

// DecodeJSON reads at most limit bytes of body into v.
func DecodeJSON(body io.Reader, limit int64, v any) error {
	data, err := ReadBody(body, limit)
	if err != nil {
		return err
	}
	if err = json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	return nil
}
