package forms

import (
	"strings"

	"github.com/google/uuid"
)

// PlaceholderToken is the wire form of the template row key. Clients clone the
// template row to add new rows; it never carries data.
const PlaceholderToken = "__id__"

const pendingPrefix = "new-"

type RowKind int

const (
	RowPending RowKind = iota
	RowPersisted
	RowPlaceholder
)

func (k RowKind) String() string {
	switch k {
	case RowPersisted:
		return "persisted"
	case RowPlaceholder:
		return "placeholder"
	default:
		return "pending"
	}
}

// RowKey identifies one child row of a submitted payload.
type RowKey struct {
	kind  RowKind
	value string
	id    uuid.UUID
}

func Placeholder() RowKey {
	return RowKey{kind: RowPlaceholder, value: PlaceholderToken}
}

func PersistedKey(id uuid.UUID) RowKey {
	return RowKey{kind: RowPersisted, value: id.String(), id: id}
}

// NewPendingKey returns a key for a row that has not been saved yet. Pending
// keys never parse as a persisted identity.
func NewPendingKey() RowKey {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return RowKey{kind: RowPending, value: pendingPrefix + raw[:12]}
}

// ParseRowKey classifies a raw key from the wire.
func ParseRowKey(raw string) RowKey {
	raw = strings.TrimSpace(raw)
	if raw == PlaceholderToken {
		return Placeholder()
	}
	if id, err := uuid.Parse(raw); err == nil && id != uuid.Nil {
		return PersistedKey(id)
	}
	return RowKey{kind: RowPending, value: raw}
}

func (k RowKey) Kind() RowKind { return k.kind }

func (k RowKey) String() string { return k.value }

func (k RowKey) IsZero() bool { return k.value == "" && k.kind == RowPending }

func (k RowKey) IsPlaceholder() bool { return k.kind == RowPlaceholder }

// ID returns the persisted identity the key refers to, if any.
func (k RowKey) ID() (uuid.UUID, bool) {
	if k.kind != RowPersisted {
		return uuid.Nil, false
	}
	return k.id, true
}

func (k RowKey) MarshalText() ([]byte, error) {
	return []byte(k.value), nil
}

func (k *RowKey) UnmarshalText(b []byte) error {
	*k = ParseRowKey(string(b))
	return nil
}
