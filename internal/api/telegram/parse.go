package telegram

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"adscore-bot/internal/domain/entity"
	"adscore-bot/internal/infrastructure/docparse"
)

var errNoVariants = errors.New("список вариантов пуст")

// parseLayout разбирает макет, присланный в свободной форме
func parseLayout(raw []byte, validate *validator.Validate) (entity.Document, error) {
	doc, err := docparse.Decode(raw, entity.Document{})
	if err != nil {
		return entity.Document{}, err
	}
	if err := validate.Struct(doc); err != nil {
		return entity.Document{}, err
	}
	return doc, nil
}

// parseVariants разбирает список метрик вариантов
func parseVariants(raw []byte, validate *validator.Validate) ([]entity.VariantInput, error) {
	variants, err := docparse.Decode[[]entity.VariantInput](raw, nil)
	if err != nil {
		return nil, err
	}
	if len(variants) == 0 {
		return nil, errNoVariants
	}
	for i, v := range variants {
		if err := validate.Struct(v); err != nil {
			return nil, fmt.Errorf("вариант %d: %w", i+1, err)
		}
	}
	return variants, nil
}
