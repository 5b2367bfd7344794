package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/inkproduction1400-bot/tiara-dashboard-app-sub000/internal/model"
)

// CastRepository キャストレジストリへのデータアクセス
type CastRepository interface {
	GetByID(ctx context.Context, id string) (*model.Cast, error)
	List(ctx context.Context) ([]model.Cast, error)
	ListTodayIDs(ctx context.Context, businessDate string) ([]string, error)
}

// castRepo CastRepository の GORM 実装
type castRepo struct {
	db *gorm.DB
}

// NewCastRepo CastRepository を作る
func NewCastRepo(db *gorm.DB) CastRepository {
	return &castRepo{db: db}
}

func (r *castRepo) GetByID(ctx context.Context, id string) (*model.Cast, error) {
	var cast model.Cast
	err := r.db.WithContext(ctx).
		Where("cast_id = ?", id).
		First(&cast).Error
	if err != nil {
		return nil, err
	}
	return &cast, nil
}

func (r *castRepo) List(ctx context.Context) ([]model.Cast, error) {
	var casts []model.Cast
	err := r.db.WithContext(ctx).
		Order("code ASC").
		Find(&casts).Error
	if err != nil {
		return nil, err
	}
	return casts, nil
}

// ListTodayIDs 営業日の出勤ロスターに載っているキャスト ID を返す
func (r *castRepo) ListTodayIDs(ctx context.Context, businessDate string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&model.RosterEntry{}).
		Where("business_date = ?", businessDate).
		Pluck("cast_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
