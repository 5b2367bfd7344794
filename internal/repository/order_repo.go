package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/inkproduction1400-bot/tiara-dashboard-app-sub000/internal/model"
)

// OrderRepository リモートオーダーストアへのデータアクセス
type OrderRepository interface {
	ListByShopAndDate(ctx context.Context, shopID, businessDate string) ([]model.CastOrder, error)
	Create(ctx context.Context, order *model.CastOrder) error
	UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus) error
	// ReplaceAssignments オーダーの割当集合を丸ごと置き換える（増分追加ではない）。
	// 渡された集合に無い既存割当は削除される。
	ReplaceAssignments(ctx context.Context, orderID string, assignments []model.OrderAssignment) error
}

// orderRepo OrderRepository の GORM 実装
type orderRepo struct {
	db *gorm.DB
}

// NewOrderRepo OrderRepository を作る
func NewOrderRepo(db *gorm.DB) OrderRepository {
	return &orderRepo{db: db}
}

func (r *orderRepo) ListByShopAndDate(ctx context.Context, shopID, businessDate string) ([]model.CastOrder, error) {
	var orders []model.CastOrder
	err := r.db.WithContext(ctx).
		Where("shop_id = ? AND business_date = ?", shopID, businessDate).
		Order("sequence_no ASC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepo) Create(ctx context.Context, order *model.CastOrder) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *orderRepo) UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus) error {
	return r.db.WithContext(ctx).
		Model(&model.CastOrder{}).
		Where("order_id = ?", orderID).
		Update("status", status).Error
}

func (r *orderRepo) ReplaceAssignments(ctx context.Context, orderID string, assignments []model.OrderAssignment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", orderID).Delete(&model.OrderAssignment{}).Error; err != nil {
			return err
		}
		if len(assignments) == 0 {
			return nil
		}
		return tx.Create(&assignments).Error
	})
}
