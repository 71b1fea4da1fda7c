package main

import (
	"fmt"
	"io"

	"github.com/go-playground/validator/v10"

	"adscore-bot/internal/infrastructure/docparse"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

func readAll(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	return data, nil
}

// decodeFile читает JSON; допускаются markdown-ограждения и текст вокруг
func decodeFile[T any](path string) (T, error) {
	var zero T
	raw, err := readInput(path)
	if err != nil {
		return zero, err
	}
	v, err := docparse.Decode(raw, zero)
	if err != nil {
		return zero, fmt.Errorf("decode %s: %w", path, err)
	}
	return v, nil
}

func validateEach[T any](items []T) error {
	for i, it := range items {
		if err := validate.Struct(it); err != nil {
			return fmt.Errorf("item %d: %w", i+1, err)
		}
	}
	return nil
}
