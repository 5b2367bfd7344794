package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/inkproduction1400-bot/tiara-dashboard-app-sub000/config"
	"github.com/inkproduction1400-bot/tiara-dashboard-app-sub000/internal/board"
	"github.com/inkproduction1400-bot/tiara-dashboard-app-sub000/internal/dto"
	"github.com/inkproduction1400-bot/tiara-dashboard-app-sub000/internal/model"
	"github.com/inkproduction1400-bot/tiara-dashboard-app-sub000/internal/repository"
	"github.com/inkproduction1400-bot/tiara-dashboard-app-sub000/pkg/redis"
)

// ShopPoller 当日店舗リクエストの定期取得。
// 一定間隔でスケジュールソースを再取得してスナップショットを差し替える。
// オペレーターの編集中もポーリングは止めないが、店舗 ID が残っている限り
// ボード上のローカルオーダーは維持される（消えた店舗の状態だけ破棄）。
type ShopPoller struct {
	cfg    *config.Config
	repo   *repository.Repository
	rdb    *redis.Client // nil 許容（キャッシュなしで動作）
	board  *board.Board
	logger *zap.Logger

	mu        sync.RWMutex
	snapshot  []dto.TodayShopResponse
	refreshed time.Time
}

// NewShopPoller ShopPoller を作る
func NewShopPoller(
	cfg *config.Config,
	repo *repository.Repository,
	rdb *redis.Client,
	b *board.Board,
	logger *zap.Logger,
) *ShopPoller {
	return &ShopPoller{
		cfg:    cfg,
		repo:   repo,
		rdb:    rdb,
		board:  b,
		logger: logger,
	}
}

// Run ポーリングループを開始する。ctx のキャンセルで停止する。
func (p *ShopPoller) Run(ctx context.Context) {
	// 起動直後に 1 回取得してから間隔ループに入る
	if err := p.Refresh(ctx); err != nil {
		p.logger.Warn("当日店舗の初回取得に失敗", zap.Error(err))
	}

	ticker := time.NewTicker(p.cfg.Today.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("店舗ポーラーを停止")
			return
		case <-ticker.C:
			if err := p.Refresh(ctx); err != nil {
				p.logger.Warn("当日店舗の再取得に失敗、前回スナップショットを維持", zap.Error(err))
			}
		}
	}
}

// Refresh スケジュールソースから当日店舗一覧を取り直す。
// 失敗時は前回のスナップショットを保持したままエラーを返す。
func (p *ShopPoller) Refresh(ctx context.Context) error {
	date := p.board.BusinessDate()

	reqs, err := p.repo.Request.ListByDate(ctx, date)
	if err != nil {
		return err
	}

	shops := make([]dto.TodayShopResponse, 0, len(reqs))
	alive := make(map[string]bool, len(reqs))
	for i := range reqs {
		shops = append(shops, toTodayShopResponse(&reqs[i]))
		alive[reqs[i].ShopID] = true
	}

	// 当日リストから消えた店舗のボード状態を破棄する
	p.board.Prune(alive)

	p.mu.Lock()
	p.snapshot = shops
	p.refreshed = time.Now()
	p.mu.Unlock()

	p.cacheSnapshot(ctx, date, shops)

	return nil
}

// Snapshot 現在のスナップショットを返す。
// 未取得の場合は同期的に 1 回取得を試み、それも失敗したら
// Redis のキャッシュへフォールバックする。
func (p *ShopPoller) Snapshot(ctx context.Context) ([]dto.TodayShopResponse, error) {
	p.mu.RLock()
	fetched := !p.refreshed.IsZero()
	shops := append([]dto.TodayShopResponse(nil), p.snapshot...)
	p.mu.RUnlock()

	if fetched {
		return shops, nil
	}

	if err := p.Refresh(ctx); err != nil {
		if cached, ok := p.cachedSnapshot(ctx); ok {
			p.logger.Warn("スケジュールソースに到達できないため Redis キャッシュで応答", zap.Error(err))
			return cached, nil
		}
		return nil, err
	}

	p.mu.RLock()
	shops = append([]dto.TodayShopResponse(nil), p.snapshot...)
	p.mu.RUnlock()
	return shops, nil
}

// ── キャッシュ ──

func (p *ShopPoller) cacheSnapshot(ctx context.Context, date string, shops []dto.TodayShopResponse) {
	if p.rdb == nil {
		return
	}
	payload, err := json.Marshal(shops)
	if err != nil {
		return
	}
	ttl := p.cfg.Today.PollInterval * 2
	if err := p.rdb.SetTodaySnapshot(ctx, date, payload, ttl); err != nil {
		p.logger.Warn("スナップショットのキャッシュに失敗", zap.Error(err))
	}
}

func (p *ShopPoller) cachedSnapshot(ctx context.Context) ([]dto.TodayShopResponse, bool) {
	if p.rdb == nil {
		return nil, false
	}
	payload, err := p.rdb.GetTodaySnapshot(ctx, p.board.BusinessDate())
	if err != nil || payload == nil {
		return nil, false
	}
	var shops []dto.TodayShopResponse
	if err := json.Unmarshal(payload, &shops); err != nil {
		return nil, false
	}
	return shops, true
}

// toTodayShopResponse リクエストレコードを当日店舗行へ正規化する。
// 外部エンティティの取り込みはこの 1 箇所で行い、
// 「どのフィールドかもしれない」判定を内側へ持ち込まない。
func toTodayShopResponse(req *model.ShopRequest) dto.TodayShopResponse {
	resp := dto.TodayShopResponse{
		ShopID:          req.ShopID,
		RequestID:       req.RequestID,
		Headcount:       req.Headcount,
		RequiresDrinker: req.RequiresDrinker,
		ContactStatus:   req.ContactStatus,
	}
	if req.Shop != nil {
		resp.Code = req.Shop.Code
		resp.Name = req.Shop.Name
		resp.MinHourly = req.Shop.MinHourly
		resp.MaxHourly = req.Shop.MaxHourly
		resp.MinAge = req.Shop.MinAge
		resp.MaxAge = req.Shop.MaxAge
		resp.Genre = req.Shop.Genre
		resp.ContactMethod = req.Shop.ContactMethod
	}
	return resp
}
