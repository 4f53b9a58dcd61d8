package models

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/tidwall/gjson"
)

// MaxSecondaryImages is the number of editable secondary image slots.
const MaxSecondaryImages = 5

type Product struct {
	ID          string   `json:"id,omitempty"`
	Title       string   `json:"title" validate:"required"`
	Category    string   `json:"category" validate:"required"`
	OriginPrice float64  `json:"origin_price" validate:"required"`
	Price       float64  `json:"price" validate:"required"`
	Unit        string   `json:"unit" validate:"required"`
	Description string   `json:"description" validate:"required"`
	Content     string   `json:"content" validate:"required"`
	IsEnabled   int      `json:"is_enabled"`
	ImageURL    string   `json:"imageUrl" validate:"required"`
	ImagesURL   []string `json:"imagesUrl"`
	Num         int      `json:"num,omitempty"`

	// Extra holds upstream fields the admin screen does not edit. They are
	// written back unchanged so a full-replace update does not drop them.
	Extra map[string]json.RawMessage `json:"-"`
}

// productWire has Product's layout without its JSON methods.
type productWire Product

var errProductNotObject = errors.New("product is not a JSON object")

// UnmarshalJSON decodes leniently: numbers may arrive as numeric strings and
// is_enabled as a boolean. Unknown keys are kept in Extra.
func (p *Product) UnmarshalJSON(data []byte) error {
	doc := gjson.ParseBytes(data)
	if !gjson.ValidBytes(data) || !doc.IsObject() {
		return errProductNotObject
	}

	var out Product
	doc.ForEach(func(key, value gjson.Result) bool {
		switch name := key.String(); name {
		case "id":
			out.ID = value.String()
		case "title":
			out.Title = value.String()
		case "category":
			out.Category = value.String()
		case "origin_price":
			out.OriginPrice = value.Float()
		case "price":
			out.Price = value.Float()
		case "unit":
			out.Unit = value.String()
		case "description":
			out.Description = value.String()
		case "content":
			out.Content = value.String()
		case "is_enabled":
			if value.Bool() {
				out.IsEnabled = 1
			}
		case "imageUrl":
			out.ImageURL = value.String()
		case "imagesUrl":
			if value.IsArray() {
				out.ImagesURL = []string{}
				for _, item := range value.Array() {
					out.ImagesURL = append(out.ImagesURL, item.String())
				}
			}
		case "num":
			out.Num = int(value.Int())
		default:
			if out.Extra == nil {
				out.Extra = map[string]json.RawMessage{}
			}
			out.Extra[name] = json.RawMessage(value.Raw)
		}
		return true
	})

	*p = out
	return nil
}

// MarshalJSON writes the known fields and then any Extra keys they do not cover.
func (p Product) MarshalJSON() ([]byte, error) {
	known, err := json.Marshal(productWire(p))
	if err != nil || len(p.Extra) == 0 {
		return known, err
	}

	merged := map[string]json.RawMessage{}
	if err := json.Unmarshal(known, &merged); err != nil {
		return nil, err
	}
	for k, v := range p.Extra {
		if _, ok := merged[k]; !ok {
			merged[k] = v
		}
	}
	return json.Marshal(merged)
}

// NewProductTemplate returns the seed values used when creating a product.
func NewProductTemplate(unit string) Product {
	return Product{
		OriginPrice: 100,
		Price:       100,
		Unit:        unit,
		IsEnabled:   1,
		ImagesURL:   []string{},
	}
}

// Clone copies the product, including its own images slice and extra fields.
func (p Product) Clone() Product {
	c := p
	if p.ImagesURL != nil {
		c.ImagesURL = make([]string, len(p.ImagesURL))
		copy(c.ImagesURL, p.ImagesURL)
	}
	if p.Extra != nil {
		c.Extra = make(map[string]json.RawMessage, len(p.Extra))
		for k, v := range p.Extra {
			c.Extra[k] = append(json.RawMessage(nil), v...)
		}
	}
	return c
}

// WithoutBlankImages returns a copy whose secondary images skip empty and
// whitespace-only entries.
func (p Product) WithoutBlankImages() Product {
	c := p.Clone()
	images := make([]string, 0, len(p.ImagesURL))
	for _, url := range p.ImagesURL {
		if strings.TrimSpace(url) != "" {
			images = append(images, url)
		}
	}
	c.ImagesURL = images
	return c
}
