package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/inkproduction1400-bot/tiara-dashboard-app-sub000/internal/model"
)

// NGRepository キャスト×店舗 NG のデータアクセス
type NGRepository interface {
	ListAll(ctx context.Context) ([]model.CastShopNG, error)
	ListByCast(ctx context.Context, castID string) ([]model.CastShopNG, error)
	Create(ctx context.Context, ng *model.CastShopNG) error
	Delete(ctx context.Context, castID, shopID string) error
	Exists(ctx context.Context, castID, shopID string) (bool, error)
}

// ngRepo NGRepository の GORM 実装
type ngRepo struct {
	db *gorm.DB
}

// NewNGRepo NGRepository を作る
func NewNGRepo(db *gorm.DB) NGRepository {
	return &ngRepo{db: db}
}

func (r *ngRepo) ListAll(ctx context.Context) ([]model.CastShopNG, error) {
	var rows []model.CastShopNG
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ngRepo) ListByCast(ctx context.Context, castID string) ([]model.CastShopNG, error) {
	var rows []model.CastShopNG
	err := r.db.WithContext(ctx).
		Where("cast_id = ?", castID).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ngRepo) Create(ctx context.Context, ng *model.CastShopNG) error {
	return r.db.WithContext(ctx).Create(ng).Error
}

func (r *ngRepo) Delete(ctx context.Context, castID, shopID string) error {
	return r.db.WithContext(ctx).
		Where("cast_id = ? AND shop_id = ?", castID, shopID).
		Delete(&model.CastShopNG{}).Error
}

func (r *ngRepo) Exists(ctx context.Context, castID, shopID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.CastShopNG{}).
		Where("cast_id = ? AND shop_id = ?", castID, shopID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
