package app

import (
	"gorm.io/gorm"

	repos "github.com/yungbote/productform-backend/internal/data/repos/catalog"
	"github.com/yungbote/productform-backend/internal/platform/logger"
)

type Repos struct {
	Product repos.ProductRepo
	Parcel  repos.ParcelRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Product: repos.NewProductRepo(db, log),
		Parcel:  repos.NewParcelRepo(db, log),
	}
}
