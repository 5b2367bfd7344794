package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/inkproduction1400-bot/tiara-dashboard-app-sub000/internal/model"
)

// RequestRepository 店舗×営業日リクエストストアへのデータアクセス
type RequestRepository interface {
	ListByDate(ctx context.Context, businessDate string) ([]model.ShopRequest, error)
	FindByShopAndDate(ctx context.Context, shopID, businessDate string) (*model.ShopRequest, error)
	Create(ctx context.Context, req *model.ShopRequest) error
	UpdateContactStatus(ctx context.Context, requestID string, status model.ContactStatus) error
}

// requestRepo RequestRepository の GORM 実装
type requestRepo struct {
	db *gorm.DB
}

// NewRequestRepo RequestRepository を作る
func NewRequestRepo(db *gorm.DB) RequestRepository {
	return &requestRepo{db: db}
}

func (r *requestRepo) ListByDate(ctx context.Context, businessDate string) ([]model.ShopRequest, error) {
	var reqs []model.ShopRequest
	err := r.db.WithContext(ctx).
		Preload("Shop").
		Where("business_date = ?", businessDate).
		Order("created_at ASC").
		Find(&reqs).Error
	if err != nil {
		return nil, err
	}
	return reqs, nil
}

func (r *requestRepo) FindByShopAndDate(ctx context.Context, shopID, businessDate string) (*model.ShopRequest, error) {
	var req model.ShopRequest
	err := r.db.WithContext(ctx).
		Where("shop_id = ? AND business_date = ?", shopID, businessDate).
		First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *requestRepo) Create(ctx context.Context, req *model.ShopRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *requestRepo) UpdateContactStatus(ctx context.Context, requestID string, status model.ContactStatus) error {
	return r.db.WithContext(ctx).
		Model(&model.ShopRequest{}).
		Where("request_id = ?", requestID).
		Update("contact_status", status).Error
}
