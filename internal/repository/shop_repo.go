package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/inkproduction1400-bot/tiara-dashboard-app-sub000/internal/model"
)

// ShopRepository 店舗レジストリへのデータアクセス
type ShopRepository interface {
	GetByID(ctx context.Context, id string) (*model.Shop, error)
	List(ctx context.Context) ([]model.Shop, error)
}

// shopRepo ShopRepository の GORM 実装
type shopRepo struct {
	db *gorm.DB
}

// NewShopRepo ShopRepository を作る
func NewShopRepo(db *gorm.DB) ShopRepository {
	return &shopRepo{db: db}
}

func (r *shopRepo) GetByID(ctx context.Context, id string) (*model.Shop, error) {
	var shop model.Shop
	err := r.db.WithContext(ctx).
		Where("shop_id = ?", id).
		First(&shop).Error
	if err != nil {
		return nil, err
	}
	return &shop, nil
}

func (r *shopRepo) List(ctx context.Context) ([]model.Shop, error) {
	var shops []model.Shop
	err := r.db.WithContext(ctx).
		Order("code ASC").
		Find(&shops).Error
	if err != nil {
		return nil, err
	}
	return shops, nil
}
