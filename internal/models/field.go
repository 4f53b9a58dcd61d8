package models

type FieldKind string

const (
	KindText     FieldKind = "text"
	KindTextarea FieldKind = "textarea"
	KindNumber   FieldKind = "number"
	KindCheckbox FieldKind = "checkbox"
)

// Field describes one editable product field. The table drives both form
// rendering and input coercion.
type Field struct {
	Name     string    `json:"name"`
	Kind     FieldKind `json:"kind"`
	Label    string    `json:"label"`
	Required bool      `json:"required"`
}

var productFields = []Field{
	{Name: "title", Kind: KindText, Label: "Title", Required: true},
	{Name: "category", Kind: KindText, Label: "Category", Required: true},
	{Name: "origin_price", Kind: KindNumber, Label: "Original price", Required: true},
	{Name: "price", Kind: KindNumber, Label: "Price", Required: true},
	{Name: "unit", Kind: KindText, Label: "Unit", Required: true},
	{Name: "description", Kind: KindTextarea, Label: "Description", Required: true},
	{Name: "content", Kind: KindTextarea, Label: "Content", Required: true},
	{Name: "is_enabled", Kind: KindCheckbox, Label: "Enabled"},
	{Name: "imageUrl", Kind: KindText, Label: "Primary image", Required: true},
}

func ProductFields() []Field {
	fields := make([]Field, len(productFields))
	copy(fields, productFields)
	return fields
}

func LookupField(name string) (Field, bool) {
	for _, f := range productFields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}
