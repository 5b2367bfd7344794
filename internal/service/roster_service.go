package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/inkproduction1400-bot/tiara-dashboard-app-sub000/internal/board"
	"github.com/inkproduction1400-bot/tiara-dashboard-app-sub000/internal/dto"
	"github.com/inkproduction1400-bot/tiara-dashboard-app-sub000/internal/matching"
	"github.com/inkproduction1400-bot/tiara-dashboard-app-sub000/internal/model"
	"github.com/inkproduction1400-bot/tiara-dashboard-app-sub000/internal/repository"
)

// ── ロスターモジュール業務エラー ──

var ErrShopNotFound = errors.New("店舗が存在しません")

// RosterService キャスト一覧の射影を提供する
type RosterService interface {
	List(ctx context.Context, req *dto.CastListRequest) ([]dto.CastResponse, matching.Page, error)
}

type rosterService struct {
	repo   *repository.Repository
	board  *board.Board
	logger *zap.Logger
}

// NewRosterService RosterService を作る
func NewRosterService(repo *repository.Repository, b *board.Board, logger *zap.Logger) RosterService {
	return &rosterService{repo: repo, board: b, logger: logger}
}

// List ビュークエリに従ってキャスト一覧を射影する。
// 母集合（全キャスト・当日ロスター）と NG 集合を読み込み、
// 射影自体は matching パッケージの純粋関数に委ねる。
func (s *rosterService) List(ctx context.Context, req *dto.CastListRequest) ([]dto.CastResponse, matching.Page, error) {
	// 店舗条件の解決
	var shop *model.Shop
	if req.ShopID != "" {
		found, err := s.repo.Shop.GetByID(ctx, req.ShopID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, matching.Page{}, ErrShopNotFound
			}
			s.logger.Error("店舗の取得に失敗", zap.String("shop_id", req.ShopID), zap.Error(err))
			return nil, matching.Page{}, err
		}
		shop = found
	}

	allCasts, err := s.loadCastsWithNG(ctx)
	if err != nil {
		return nil, matching.Page{}, err
	}

	todayIDs, err := s.repo.Cast.ListTodayIDs(ctx, s.board.BusinessDate())
	if err != nil {
		s.logger.Error("当日ロスターの取得に失敗", zap.Error(err))
		return nil, matching.Page{}, err
	}
	todaySet := make(map[string]bool, len(todayIDs))
	for _, id := range todayIDs {
		todaySet[id] = true
	}

	todayRoster := make([]model.Cast, 0, len(todayIDs))
	for _, c := range allCasts {
		if todaySet[c.CastID] {
			todayRoster = append(todayRoster, c)
		}
	}

	page := matching.Project(todayRoster, allCasts, s.board.StagedSet(), req.ToViewQuery(shop))

	list := make([]dto.CastResponse, 0, len(page.Items))
	for i := range page.Items {
		list = append(list, dto.NewCastResponse(&page.Items[i]))
	}

	return list, page, nil
}

// loadCastsWithNG 全キャストを読み込み、NG 店舗集合をモデルへ付与する
func (s *rosterService) loadCastsWithNG(ctx context.Context) ([]model.Cast, error) {
	casts, err := s.repo.Cast.List(ctx)
	if err != nil {
		s.logger.Error("キャスト一覧の取得に失敗", zap.Error(err))
		return nil, err
	}

	ngRows, err := s.repo.NG.ListAll(ctx)
	if err != nil {
		s.logger.Error("NG 一覧の取得に失敗", zap.Error(err))
		return nil, err
	}

	ngByCast := make(map[string][]string, len(ngRows))
	for _, ng := range ngRows {
		ngByCast[ng.CastID] = append(ngByCast[ng.CastID], ng.ShopID)
	}

	for i := range casts {
		casts[i].NGShopIDs = ngByCast[casts[i].CastID]
	}

	return casts, nil
}
