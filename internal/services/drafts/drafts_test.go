package drafts

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/yungbote/productform-backend/internal/domain/forms"
	"github.com/yungbote/productform-backend/internal/platform/logger"
)

func TestNoopStore(t *testing.T) {
	s := NewRedisStore(logger.Nop(), nil, time.Minute)
	if s.Enabled() {
		t.Fatalf("store without redis should be disabled")
	}
	if _, err := s.Put(context.Background(), Draft{}); !errors.Is(err, ErrDisabled) {
		t.Fatalf("Put: expected ErrDisabled, got %v", err)
	}
	if _, err := s.Get(context.Background(), "x"); !errors.Is(err, ErrDisabled) {
		t.Fatalf("Get: expected ErrDisabled, got %v", err)
	}
}

func TestFromPayloadKeepsRowOrder(t *testing.T) {
	p, err := forms.ParseForm("Product[name]=Box&Parcels[new2][code]=b&Parcels[new1][code]=a", forms.Roles{Parent: "Product", Children: "Parcels"})
	if err != nil {
		t.Fatalf("ParseForm: %v", err)
	}
	d := FromPayload(p, forms.Report{{Label: "Product", Role: "Product", Messages: []string{}}}, "validation")
	if d.Parent["name"] != "Box" || len(d.Rows) != 2 {
		t.Fatalf("unexpected draft: %+v", d)
	}
	if d.Rows[0].Key.String() != "new2" || d.Rows[1].Key.String() != "new1" {
		t.Fatalf("row order: got=%s,%s", d.Rows[0].Key, d.Rows[1].Key)
	}
	p.Children[0].Attrs["code"] = "mutated"
	if d.Rows[0].Attributes["code"] != "b" {
		t.Fatalf("draft must not alias the payload")
	}
}

func TestKeyAndTokenValidation(t *testing.T) {
	if got := key(" 0b8e1c52-2f5e-4c5e-9f25-2f3d0c1a7b11 "); got != "productform:draft:0b8e1c52-2f5e-4c5e-9f25-2f3d0c1a7b11" {
		t.Fatalf("key: got=%s", got)
	}
	if validToken("../etc") || !validToken("0b8e1c52-2f5e-4c5e-9f25-2f3d0c1a7b11") {
		t.Fatalf("unexpected token validation")
	}
}

func TestRedisStoreRoundTrip(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()
	rdb, err := Dial(ctx, addr, "", 0)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	t.Cleanup(func() { _ = rdb.Close() })

	s := NewRedisStore(logger.Nop(), rdb, time.Minute)
	token, err := s.Put(ctx, Draft{
		Parent: forms.Attributes{"name": "Box"},
		Rows:   []Row{{Key: forms.ParseRowKey("new1"), Attributes: forms.Attributes{"code": ""}}},
		Report: forms.Report{{Label: "Parcel.new1", Role: "Parcel", Messages: []string{"Code can't be blank"}}},
		Code:   "validation",
	})
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := s.Get(ctx, token)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Parent["name"] != "Box" || got.Rows[0].Key.String() != "new1" || got.Report[0].Messages[0] != "Code can't be blank" {
		t.Fatalf("unexpected draft: %+v", got)
	}
	if _, err := s.Get(ctx, "0b8e1c52-2f5e-4c5e-9f25-2f3d0c1a7b11"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing draft: expected ErrNotFound, got %v", err)
	}
}

func TestDialEmptyAddr(t *testing.T) {
	rdb, err := Dial(context.Background(), "", "", 0)
	if rdb != nil || err != nil {
		t.Fatalf("empty addr should yield nil client, got %v %v", rdb, err)
	}
}
