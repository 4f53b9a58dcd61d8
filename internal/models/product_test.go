package models

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestWithoutBlankImages(t *testing.T) {
	p := Product{ImagesURL: []string{"a", "", "b", "", ""}}

	got := p.WithoutBlankImages()
	if !reflect.DeepEqual(got.ImagesURL, []string{"a", "b"}) {
		t.Fatalf("images = %v", got.ImagesURL)
	}
	if len(p.ImagesURL) != 5 {
		t.Fatalf("receiver was modified: %v", p.ImagesURL)
	}

	empty := Product{}.WithoutBlankImages()
	if empty.ImagesURL == nil || len(empty.ImagesURL) != 0 {
		t.Fatalf("expected an empty list, got %#v", empty.ImagesURL)
	}
}

func TestCloneCopiesImages(t *testing.T) {
	p := Product{ID: "p1", ImagesURL: []string{"a"}}
	c := p.Clone()
	c.ImagesURL[0] = "changed"
	if p.ImagesURL[0] != "a" {
		t.Fatalf("clone shares the images slice")
	}
}

func TestNewProductTemplate(t *testing.T) {
	p := NewProductTemplate("個")
	if p.OriginPrice != 100 || p.Price != 100 || p.IsEnabled != 1 || p.Unit != "個" {
		t.Fatalf("unexpected template: %+v", p)
	}

	raw, err := json.Marshal(p)
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]any
	_ = json.Unmarshal(raw, &m)
	if _, ok := m["id"]; ok {
		t.Fatalf("new product must not serialise an id: %s", raw)
	}
	if images, ok := m["imagesUrl"].([]any); !ok || len(images) != 0 {
		t.Fatalf("imagesUrl should be an empty array: %s", raw)
	}
}

func TestProductWireNames(t *testing.T) {
	var p Product
	raw := `{"id":"x","origin_price":10,"price":8,"is_enabled":1,"imageUrl":"m","imagesUrl":["s"],"num":2}`
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		t.Fatal(err)
	}
	if p.OriginPrice != 10 || p.IsEnabled != 1 || p.ImageURL != "m" || p.ImagesURL[0] != "s" || p.Num != 2 {
		t.Fatalf("unexpected decode: %+v", p)
	}
}

func TestLookupField(t *testing.T) {
	f, ok := LookupField("origin_price")
	if !ok || f.Kind != KindNumber || !f.Required {
		t.Fatalf("unexpected field: %+v", f)
	}
	if f, _ := LookupField("is_enabled"); f.Kind != KindCheckbox || f.Required {
		t.Fatalf("is_enabled should be an optional checkbox: %+v", f)
	}
	if _, ok := LookupField("imagesUrl"); ok {
		t.Fatalf("secondary images are edited by slot, not as a field")
	}

	fields := ProductFields()
	fields[0].Label = "changed"
	if ProductFields()[0].Label == "changed" {
		t.Fatalf("ProductFields leaked its backing array")
	}
}

func TestWithoutBlankImagesDropsWhitespace(t *testing.T) {
	p := Product{ImagesURL: []string{"a", "  ", "b", "\t"}}
	if got := p.WithoutBlankImages().ImagesURL; !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("images = %q", got)
	}
}

func TestUnknownFieldsRoundTrip(t *testing.T) {
	var p Product
	raw := `{"id":"a","title":"T","price":10,"rating":5,"tags":["x"],"meta":{"k":"v"}}`
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		t.Fatal(err)
	}
	if len(p.Extra) != 3 {
		t.Fatalf("extra = %v", p.Extra)
	}

	c := p.Clone()
	c.Extra["rating"][0] = '9'
	if string(p.Extra["rating"]) != "5" {
		t.Fatalf("clone shares extra values")
	}

	out, err := json.Marshal(p)
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]any
	_ = json.Unmarshal(out, &m)
	if m["rating"] != float64(5) || m["title"] != "T" || m["meta"].(map[string]any)["k"] != "v" {
		t.Fatalf("unexpected output: %s", out)
	}
}

func TestKnownFieldsWinOverExtra(t *testing.T) {
	p := Product{Title: "real", Extra: map[string]json.RawMessage{"title": json.RawMessage(`"stale"`)}}
	out, err := json.Marshal(p)
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]any
	_ = json.Unmarshal(out, &m)
	if m["title"] != "real" {
		t.Fatalf("title = %v", m["title"])
	}
}

func TestLenientDecode(t *testing.T) {
	var p Product
	raw := `{"price":"88","origin_price":"100","is_enabled":true,"num":"2","imagesUrl":["a",""]}`
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		t.Fatal(err)
	}
	if p.Price != 88 || p.OriginPrice != 100 || p.IsEnabled != 1 || p.Num != 2 || len(p.ImagesURL) != 2 {
		t.Fatalf("unexpected decode: %+v", p)
	}

	if err := json.Unmarshal([]byte(`{"is_enabled":false}`), &p); err != nil || p.IsEnabled != 0 || p.Price != 0 {
		t.Fatalf("decode should reset the product: %+v, %v", p, err)
	}
	if err := json.Unmarshal([]byte(`["not","an","object"]`), &p); err == nil {
		t.Fatalf("expected error for a non-object")
	}
}
