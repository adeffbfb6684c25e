package aggregates

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/productform-backend/internal/data/repos/testutil"
	"github.com/yungbote/productform-backend/internal/domain"
	"github.com/yungbote/productform-backend/internal/platform/dbctx"
)

func TestGormTxRunnerRollsBackOnError(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	id := uuid.New()

	boom := errors.New("boom")
	err := NewGormTxRunner(db).InTx(ctx, func(dbc dbctx.Context) error {
		p := domain.NewProduct()
		p.ID = id
		p.Name = "rolled back"
		if err := dbc.Tx.Create(p).Error; err != nil {
			t.Fatalf("create: %v", err)
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected body error, got %v", err)
	}
	if _, ok := testutil.LoadProduct(t, ctx, db, id); ok {
		t.Fatalf("expected rollback, product %s was committed", id)
	}
}

func TestGormTxRunnerRollsBackWhenContextEndsBeforeCommit(t *testing.T) {
	db := testutil.DB(t)
	ctx, cancel := context.WithCancel(context.Background())
	id := uuid.New()

	err := NewGormTxRunner(db).InTx(ctx, func(dbc dbctx.Context) error {
		p := domain.NewProduct()
		p.ID = id
		p.Name = "abandoned"
		if err := dbc.Tx.Create(p).Error; err != nil {
			t.Fatalf("create: %v", err)
		}
		cancel()
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if _, ok := testutil.LoadProduct(t, context.Background(), db, id); ok {
		t.Fatalf("expected rollback, product %s was committed", id)
	}
}

func TestGormTxRunnerRejectsCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	err := NewGormTxRunner(testutil.DB(t)).InTx(ctx, func(dbctx.Context) error {
		called = true
		return nil
	})
	if !errors.Is(err, context.Canceled) || called {
		t.Fatalf("expected canceled without running body, err=%v called=%v", err, called)
	}
}
