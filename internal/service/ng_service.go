package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/inkproduction1400-bot/tiara-dashboard-app-sub000/internal/dto"
	"github.com/inkproduction1400-bot/tiara-dashboard-app-sub000/internal/model"
	"github.com/inkproduction1400-bot/tiara-dashboard-app-sub000/internal/repository"
)

// ── NG モジュール業務エラー ──

var (
	ErrNGExists   = errors.New("既に NG 登録されています")
	ErrNGNotFound = errors.New("NG 登録が存在しません")
)

// NGService キャスト×店舗 NG の業務インタフェース。
// NG 集合を変更してよいのはこのサービスだけ（単一窓口）。
type NGService interface {
	Add(ctx context.Context, req *dto.NGRequest) error
	Remove(ctx context.Context, castID, shopID string) error
	IsBlocked(ctx context.Context, castID, shopID string) (bool, error)
}

type ngService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewNGService NGService を作る
func NewNGService(repo *repository.Repository, logger *zap.Logger) NGService {
	return &ngService{repo: repo, logger: logger}
}

// Add NG ペアを登録する
func (s *ngService) Add(ctx context.Context, req *dto.NGRequest) error {
	exists, err := s.repo.NG.Exists(ctx, req.CastID, req.ShopID)
	if err != nil {
		s.logger.Error("NG 重複確認に失敗", zap.Error(err))
		return err
	}
	if exists {
		return ErrNGExists
	}

	ng := &model.CastShopNG{
		CastID: req.CastID,
		ShopID: req.ShopID,
		Note:   req.Note,
	}
	if err := s.repo.NG.Create(ctx, ng); err != nil {
		s.logger.Error("NG 登録に失敗",
			zap.String("cast_id", req.CastID),
			zap.String("shop_id", req.ShopID),
			zap.Error(err))
		return err
	}

	return nil
}

// Remove NG ペアを解除する
func (s *ngService) Remove(ctx context.Context, castID, shopID string) error {
	exists, err := s.repo.NG.Exists(ctx, castID, shopID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrNGNotFound
	}

	if err := s.repo.NG.Delete(ctx, castID, shopID); err != nil {
		s.logger.Error("NG 解除に失敗",
			zap.String("cast_id", castID),
			zap.String("shop_id", shopID),
			zap.Error(err))
		return err
	}

	return nil
}

// IsBlocked NG 対象かどうか（仮置き時・確定時の二重チェックに使う）
func (s *ngService) IsBlocked(ctx context.Context, castID, shopID string) (bool, error) {
	return s.repo.NG.Exists(ctx, castID, shopID)
}
