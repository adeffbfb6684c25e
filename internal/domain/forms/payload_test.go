package forms

import (
	"errors"
	"net/url"
	"testing"
)

var testRoles = Roles{Parent: "Product", Children: "Parcels"}

func childKeys(p Payload) []string {
	out := make([]string, 0, len(p.Children))
	for _, c := range p.Children {
		out = append(out, c.Key.String())
	}
	return out
}

func TestParseFormKeepsRowOrder(t *testing.T) {
	raw := "Product%5Bname%5D=Keyboard+and+Mouse" +
		"&Parcels[__id__][code]=" +
		"&Parcels[new2][code]=mouse" +
		"&Parcels[new1][code]=keyboard" +
		"&Parcels[new2][width]=20" +
		"&Parcels[new1][width]=50" +
		"&commit=Save"

	p, err := ParseForm(raw, testRoles)
	if err != nil {
		t.Fatalf("ParseForm: %v", err)
	}
	if !p.HasParent || p.Parent["name"] != "Keyboard and Mouse" {
		t.Fatalf("parent attrs: %+v", p.Parent)
	}
	got := childKeys(p)
	want := []string{"__id__", "new2", "new1"}
	if len(got) != len(want) {
		t.Fatalf("keys: want=%v got=%v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("keys: want=%v got=%v", want, got)
		}
	}
	if !p.Children[0].Key.IsPlaceholder() {
		t.Fatalf("first row should be the placeholder")
	}
	if p.Children[1].Attrs["width"] != "20" || p.Children[2].Attrs["code"] != "keyboard" {
		t.Fatalf("row attrs: %+v", p.Children)
	}
}

func TestParseFormAcceptsQueryString(t *testing.T) {
	q := url.Values{}
	q.Set("Product[name]", "Box")
	p, err := ParseForm(q.Encode(), testRoles)
	if err != nil {
		t.Fatalf("ParseForm: %v", err)
	}
	if p.Parent["name"] != "Box" || p.HasChildren {
		t.Fatalf("unexpected payload: %+v", p)
	}
}

func TestParseFormRejectsEmptyRowKey(t *testing.T) {
	_, err := ParseForm("Parcels[][code]=x", testRoles)
	if !errors.Is(err, ErrEmptyRowKey) {
		t.Fatalf("expected ErrEmptyRowKey, got=%v", err)
	}
}

func TestParseFormRejectsBadEscape(t *testing.T) {
	_, err := ParseForm("Product[name]=%zz", testRoles)
	if !errors.Is(err, ErrMalformedPayload) {
		t.Fatalf("expected ErrMalformedPayload, got=%v", err)
	}
}

func TestParseJSONKeepsDocumentOrder(t *testing.T) {
	body := []byte(`{
		"Product": {"name": "Keyboard and Mouse", "metadata": {"color": "black"}},
		"Parcels": {
			"__id__": {"code": ""},
			"new2": {"code": "mouse", "width": 20, "height": 10, "depth": 20},
			"new1": {"code": "keyboard", "width": 50, "height": 5, "depth": 20, "product_id": null}
		}
	}`)
	p, err := ParseJSON(body, testRoles)
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	got := childKeys(p)
	if len(got) != 3 || got[0] != "__id__" || got[1] != "new2" || got[2] != "new1" {
		t.Fatalf("keys: %v", got)
	}
	if p.Children[1].Attrs["width"] != "20" {
		t.Fatalf("numeric attr: %q", p.Children[1].Attrs["width"])
	}
	if v, ok := p.Children[2].Attrs["product_id"]; !ok || v != "" {
		t.Fatalf("null attr should be present and empty, got=%q ok=%v", v, ok)
	}
	if p.Parent["metadata"] != `{"color": "black"}` {
		t.Fatalf("nested attr should keep raw json, got=%q", p.Parent["metadata"])
	}
}

func TestParseJSONDuplicateRowKeysMergeInFirstPosition(t *testing.T) {
	body := []byte(`{"Parcels": {"a": {"code": "x", "width": 1}, "b": {"code": "y"}, "a": {"code": "z"}}}`)
	p, err := ParseJSON(body, testRoles)
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	if len(p.Children) != 2 || p.Children[0].Key.String() != "a" {
		t.Fatalf("children: %+v", p.Children)
	}
	if p.Children[0].Attrs["code"] != "z" || p.Children[0].Attrs["width"] != "1" {
		t.Fatalf("merged attrs: %+v", p.Children[0].Attrs)
	}
}

func TestParseJSONRejectsWrongShapes(t *testing.T) {
	for _, body := range []string{
		`not json`,
		`[1,2]`,
		`{"Product": "x"}`,
		`{"Parcels": []}`,
		`{"Parcels": {"new1": 3}}`,
	} {
		if _, err := ParseJSON([]byte(body), testRoles); !errors.Is(err, ErrMalformedPayload) {
			t.Fatalf("body %s: expected ErrMalformedPayload, got=%v", body, err)
		}
	}
}
