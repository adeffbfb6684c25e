package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/productform-backend/internal/data/repos/testutil"
	"github.com/yungbote/productform-backend/internal/platform/logger"
)

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	t.Cleanup(log.Sync)
	return log
}

func TestNewProductFormHandlerWithDeps(t *testing.T) {
	log := newTestLogger(t)
	h := NewProductFormHandlerWithDeps(ProductFormHandlerDeps{Log: log})
	if h == nil {
		t.Fatal("expected non-nil handler")
	}
	if h.drafts == nil || h.drafts.Enabled() {
		t.Fatal("expected a disabled draft store by default")
	}
}

func TestNewProductFormHandlerWithDepsNilLogger(t *testing.T) {
	h := NewProductFormHandlerWithDeps(ProductFormHandlerDeps{})
	if h == nil || h.log == nil {
		t.Fatal("expected handler with a fallback logger")
	}
}

func TestHealthHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		name string
		h    *HealthHandler
		want int
	}{
		{name: "no database", h: NewHealthHandler(nil), want: http.StatusOK},
		{name: "sqlite", h: NewHealthHandler(testutil.DB(t)), want: http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/healthcheck", tc.h.HealthCheck)
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))
			if rec.Code != tc.want {
				t.Fatalf("status: want=%d got=%d", tc.want, rec.Code)
			}
		})
	}
}

func TestHealthHandlerClosedDatabase(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testutil.DB(t)
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	_ = sqlDB.Close()

	r := gin.New()
	r.GET("/healthcheck", NewHealthHandler(db).HealthCheck)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status: want=503 got=%d", rec.Code)
	}
}
