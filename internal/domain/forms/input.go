package forms

import "sort"

// Attributes maps attribute names to submitted values.
type Attributes map[string]string

func (a Attributes) Get(name string) (string, bool) {
	if a == nil {
		return "", false
	}
	v, ok := a[name]
	return v, ok
}

func (a Attributes) Clone() Attributes {
	if a == nil {
		return nil
	}
	out := make(Attributes, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// Names returns attribute names in sorted order.
func (a Attributes) Names() []string {
	out := make([]string, 0, len(a))
	for k := range a {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

type inputKind int

const (
	inputNone inputKind = iota
	inputAttributes
	inputEntity
)

// Input is either an attribute update to merge onto an entity, or a fully
// formed entity that replaces whatever is held.
type Input[E any] struct {
	kind   inputKind
	attrs  Attributes
	entity E
}

func AttributeUpdate[E any](attrs Attributes) Input[E] {
	return Input[E]{kind: inputAttributes, attrs: attrs}
}

func EntityHandle[E any](entity E) Input[E] {
	return Input[E]{kind: inputEntity, entity: entity}
}

func (in Input[E]) Attributes() (Attributes, bool) {
	return in.attrs, in.kind == inputAttributes
}

func (in Input[E]) Entity() (E, bool) {
	return in.entity, in.kind == inputEntity
}

func (in Input[E]) IsZero() bool { return in.kind == inputNone }

// Row is one keyed entry of a children payload.
type Row[E any] struct {
	Key   RowKey
	Input Input[E]
}

func AttributeRow[E any](key RowKey, attrs Attributes) Row[E] {
	return Row[E]{Key: key, Input: AttributeUpdate[E](attrs)}
}

func EntityRow[E any](key RowKey, entity E) Row[E] {
	return Row[E]{Key: key, Input: EntityHandle(entity)}
}
