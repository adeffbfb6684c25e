package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/productform-backend/internal/data/aggregates"
	"github.com/yungbote/productform-backend/internal/http/handlers"
	"github.com/yungbote/productform-backend/internal/observability"
	"github.com/yungbote/productform-backend/internal/platform/logger"
	"github.com/yungbote/productform-backend/internal/services/drafts"
)

type Handlers struct {
	ProductForm *handlers.ProductFormHandler
	Health      *handlers.HealthHandler
}

func wireHandlers(db *gorm.DB, log *logger.Logger, reposet Repos, metrics *observability.Metrics, store drafts.Store) Handlers {
	log.Info("Wiring handlers...")
	forms := aggregates.ProductFormDeps{
		BaseDeps: aggregates.BaseDeps{
			DB:     db,
			Log:    log,
			Runner: aggregates.NewGormTxRunner(db),
			Hooks:  aggregates.NewObservabilityHooks(metrics),
		},
		Products: reposet.Product,
		Parcels:  reposet.Parcel,
	}
	return Handlers{
		ProductForm: handlers.NewProductFormHandlerWithDeps(handlers.ProductFormHandlerDeps{
			Log:     log,
			Forms:   forms,
			Drafts:  store,
			Metrics: metrics,
		}),
		Health: handlers.NewHealthHandler(db),
	}
}
