package siteinfo

import (
	"context"

	"gorm.io/gorm"

	"github.com/simp-lee/gocms/internal/domain"
	"github.com/simp-lee/gocms/internal/pkg"
)

type siteInfoRepository struct {
	db *gorm.DB
}

// NewSiteInfoRepository creates a SiteInfoRepository backed by db.
func NewSiteInfoRepository(db *gorm.DB) domain.SiteInfoRepository {
	return &siteInfoRepository{db: db}
}

func (r *siteInfoRepository) Transaction(ctx context.Context, fn func(repo domain.SiteInfoRepository) error) error {
	return pkg.WithTx(ctx, r.db, func(tx *gorm.DB) error {
		return fn(&siteInfoRepository{db: tx})
	})
}

func (r *siteInfoRepository) Get(ctx context.Context) (*domain.SiteInfo, error) {
	var info domain.SiteInfo
	if err := r.db.WithContext(ctx).First(&info, domain.SiteInfoID).Error; err != nil {
		return nil, pkg.MapDBError(err)
	}
	return &info, nil
}

func (r *siteInfoRepository) Save(ctx context.Context, info *domain.SiteInfo) error {
	info.ID = domain.SiteInfoID
	if err := r.db.WithContext(ctx).Save(info).Error; err != nil {
		return pkg.MapDBError(err)
	}
	return nil
}

func (r *siteInfoRepository) Seed(ctx context.Context) error {
	info := domain.SiteInfo{ID: domain.SiteInfoID}
	if err := r.db.WithContext(ctx).Where(&domain.SiteInfo{ID: domain.SiteInfoID}).FirstOrCreate(&info).Error; err != nil {
		return pkg.MapDBError(err)
	}
	return nil
}
