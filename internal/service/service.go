package service

import (
	"go.uber.org/zap"

	"github.com/nmanzi/partsdb/internal/archive"
	"github.com/nmanzi/partsdb/internal/config"
	"github.com/nmanzi/partsdb/internal/repository"
)

// Services 服务集合
type Services struct {
	Bin      *BinService
	Category *CategoryService
	Part     *PartService
	Search   *SearchService
	Exchange *ExchangeService
}

// NewServices 创建服务集合
func NewServices(repos *repository.Repositories, archiver *archive.Archiver, cfg *config.Config, logger *zap.Logger) *Services {
	partSvc := NewPartService(repos.Part, repos.Bin, repos.Category)
	return &Services{
		Bin:      NewBinService(repos.Bin),
		Category: NewCategoryService(repos.Category),
		Part:     partSvc,
		Search:   NewSearchService(repos.Part, cfg.Search.IncludeDescription),
		Exchange: NewExchangeService(repos, partSvc, archiver, logger),
	}
}
