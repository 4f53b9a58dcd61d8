package view

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/znsio/specmatic-product-admin-go/internal/models"
)

// applyField coerces raw by the field's kind and stores it on p.
func applyField(p *models.Product, f models.Field, raw string) error {
	switch f.Kind {
	case models.KindCheckbox:
		return setNumber(p, f.Name, float64(checkboxValue(raw)))
	case models.KindNumber:
		n, err := parseNumber(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", f.Name, err)
		}
		return setNumber(p, f.Name, n)
	default:
		return setText(p, f.Name, raw)
	}
}

func checkboxValue(raw string) int {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "on", "checked", "yes":
		return 1
	}
	return 0
}

// parseNumber follows number-input semantics: blank is zero.
func parseNumber(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNumber, raw)
	}
	return n, nil
}

func setNumber(p *models.Product, name string, n float64) error {
	switch name {
	case "origin_price":
		p.OriginPrice = n
	case "price":
		p.Price = n
	case "is_enabled":
		p.IsEnabled = int(n)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	return nil
}

func setText(p *models.Product, name, value string) error {
	switch name {
	case "title":
		p.Title = value
	case "category":
		p.Category = value
	case "unit":
		p.Unit = value
	case "description":
		p.Description = value
	case "content":
		p.Content = value
	case "imageUrl":
		p.ImageURL = value
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	return nil
}

// padImages grows the secondary images to the editable slot count.
func padImages(p *models.Product) {
	for len(p.ImagesURL) < models.MaxSecondaryImages {
		p.ImagesURL = append(p.ImagesURL, "")
	}
}

func setImageAt(p *models.Product, index int, value string) error {
	if index < 0 || index >= models.MaxSecondaryImages {
		return fmt.Errorf("%w: %d", ErrImageIndex, index)
	}
	for len(p.ImagesURL) <= index {
		p.ImagesURL = append(p.ImagesURL, "")
	}
	p.ImagesURL[index] = value
	return nil
}
