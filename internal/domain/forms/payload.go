package forms

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"
)

var (
	ErrMalformedPayload = errors.New("malformed form payload")
	ErrEmptyRowKey      = errors.New("empty row key")
)

// Roles names the payload sections: Parent holds parent attributes, Children
// holds the keyed child rows.
type Roles struct {
	Parent   string
	Children string
}

// ChildPayload is one keyed row as submitted.
type ChildPayload struct {
	Key   RowKey
	Attrs Attributes
}

// Payload is the decoded `{Parent: {...}, Children: {rowKey: {...}}}` shape.
// Children keep the order in which their keys first appeared.
type Payload struct {
	Parent    Attributes
	HasParent bool
	Children  []ChildPayload
	// HasChildren reports whether the children section was present at all,
	// even if empty.
	HasChildren bool
}

type payloadBuilder struct {
	p     Payload
	index map[string]int
}

func newPayloadBuilder() *payloadBuilder {
	return &payloadBuilder{index: map[string]int{}}
}

func (b *payloadBuilder) setParent(name, value string) {
	if b.p.Parent == nil {
		b.p.Parent = Attributes{}
	}
	b.p.HasParent = true
	if name != "" {
		b.p.Parent[name] = value
	}
}

func (b *payloadBuilder) row(rawKey string) (*ChildPayload, error) {
	rawKey = strings.TrimSpace(rawKey)
	if rawKey == "" {
		return nil, ErrEmptyRowKey
	}
	b.p.HasChildren = true
	if i, ok := b.index[rawKey]; ok {
		return &b.p.Children[i], nil
	}
	b.index[rawKey] = len(b.p.Children)
	b.p.Children = append(b.p.Children, ChildPayload{Key: ParseRowKey(rawKey), Attrs: Attributes{}})
	return &b.p.Children[len(b.p.Children)-1], nil
}

// ParseForm decodes an url-encoded body or query string with bracketed keys,
// e.g. `Product[name]=Box&Parcels[new1][code]=lid`. Pairs outside the two
// roles are ignored.
func ParseForm(raw string, roles Roles) (Payload, error) {
	b := newPayloadBuilder()
	for _, pair := range strings.Split(raw, "&") {
		if pair == "" {
			continue
		}
		rawName, rawValue, _ := strings.Cut(pair, "=")
		name, err := url.QueryUnescape(rawName)
		if err != nil {
			return Payload{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
		}
		value, err := url.QueryUnescape(rawValue)
		if err != nil {
			return Payload{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
		}
		root, parts, ok := splitBracketKey(name)
		if !ok {
			continue
		}
		switch root {
		case roles.Parent:
			if len(parts) == 1 {
				b.setParent(parts[0], value)
			}
		case roles.Children:
			if len(parts) != 2 {
				continue
			}
			row, err := b.row(parts[0])
			if err != nil {
				return Payload{}, err
			}
			row.Attrs[parts[1]] = value
		}
	}
	return b.p, nil
}

// splitBracketKey splits `root[a][b]` into root and [a b].
func splitBracketKey(key string) (string, []string, bool) {
	open := strings.IndexByte(key, '[')
	if open <= 0 {
		return key, nil, false
	}
	root := key[:open]
	rest := key[open:]
	var parts []string
	for rest != "" {
		if rest[0] != '[' {
			return "", nil, false
		}
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			return "", nil, false
		}
		parts = append(parts, rest[1:end])
		rest = rest[end+1:]
	}
	return root, parts, true
}

// ParseJSON decodes `{"Product": {...}, "Parcels": {"new1": {...}}}` keeping
// the document order of the children object.
func ParseJSON(body []byte, roles Roles) (Payload, error) {
	if !gjson.ValidBytes(body) {
		return Payload{}, fmt.Errorf("%w: invalid json", ErrMalformedPayload)
	}
	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return Payload{}, fmt.Errorf("%w: top level must be an object", ErrMalformedPayload)
	}
	b := newPayloadBuilder()
	var perr error
	root.ForEach(func(key, value gjson.Result) bool {
		switch key.String() {
		case roles.Parent:
			if !value.IsObject() {
				perr = fmt.Errorf("%w: %s must be an object", ErrMalformedPayload, roles.Parent)
				return false
			}
			b.setParent("", "")
			value.ForEach(func(attr, v gjson.Result) bool {
				b.setParent(attr.String(), jsonScalar(v))
				return true
			})
		case roles.Children:
			if !value.IsObject() {
				perr = fmt.Errorf("%w: %s must be an object", ErrMalformedPayload, roles.Children)
				return false
			}
			b.p.HasChildren = true
			value.ForEach(func(rowKey, attrs gjson.Result) bool {
				if !attrs.IsObject() {
					perr = fmt.Errorf("%w: row %q must be an object", ErrMalformedPayload, rowKey.String())
					return false
				}
				row, err := b.row(rowKey.String())
				if err != nil {
					perr = err
					return false
				}
				attrs.ForEach(func(attr, v gjson.Result) bool {
					row.Attrs[attr.String()] = jsonScalar(v)
					return true
				})
				return true
			})
		}
		return perr == nil
	})
	if perr != nil {
		return Payload{}, perr
	}
	return b.p, nil
}

func jsonScalar(v gjson.Result) string {
	switch v.Type {
	case gjson.Null:
		return ""
	case gjson.JSON:
		return v.Raw
	default:
		return v.String()
	}
}
