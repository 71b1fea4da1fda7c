// Package docparse разбирает JSON, присланный пользователем в свободной форме:
// в блоке кода markdown, с пояснениями до и после.
package docparse

import (
	"bytes"
	"errors"
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

// ErrNoJSON во входных данных нет JSON-объекта или массива
var ErrNoJSON = errors.New("no JSON object or array found")

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Extract возвращает внешний JSON-объект или массив из текста.
func Extract(raw []byte) ([]byte, error) {
	text := bytes.TrimSpace(raw)
	text = bytes.TrimPrefix(text, []byte("```json"))
	text = bytes.TrimPrefix(text, []byte("```"))
	text = bytes.TrimSuffix(text, []byte("```"))
	text = bytes.TrimSpace(text)

	start := bytes.IndexAny(text, "{[")
	if start == -1 {
		return nil, ErrNoJSON
	}
	closing := byte('}')
	if text[start] == '[' {
		closing = ']'
	}
	end := bytes.LastIndexByte(text, closing)
	if end <= start {
		return nil, ErrNoJSON
	}
	return text[start : end+1], nil
}

// Decode разбирает JSON в T. При ошибке возвращает fallback и причину.
func Decode[T any](raw []byte, fallback T) (T, error) {
	body, err := Extract(raw)
	if err != nil {
		return fallback, err
	}
	var v T
	if err := json.Unmarshal(body, &v); err != nil {
		return fallback, fmt.Errorf("decode json: %w", err)
	}
	return v, nil
}

// Marshal кодирует значение тем же кодеком
func Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

// MarshalIndent кодирует значение с отступами
func MarshalIndent(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}
