package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/inkproduction1400-bot/tiara-dashboard-app-sub000/config"
	"github.com/inkproduction1400-bot/tiara-dashboard-app-sub000/internal/board"
	"github.com/inkproduction1400-bot/tiara-dashboard-app-sub000/internal/dto"
	"github.com/inkproduction1400-bot/tiara-dashboard-app-sub000/internal/model"
	"github.com/inkproduction1400-bot/tiara-dashboard-app-sub000/internal/repository"
)

// ── 当日モジュール業務エラー ──

var (
	// 前提条件エラー（リモート呼び出し前に弾く）
	ErrShopNotActive       = errors.New("店舗が選択されていません")
	ErrNothingStaged       = errors.New("仮置きされたキャストがいません")
	ErrNGBlocked           = errors.New("NG 登録のあるキャストは割り当てできません")
	ErrOrderDetailsRequired = errors.New("オーダー内容を入力してから確定してください")

	// 照合エラー
	ErrOrderMissing = errors.New("対応するリモートオーダーが見つかりません")

	// リモート書き込みエラー（仮置きは保持されるので再実行可能）
	ErrRemoteWrite = errors.New("リモートストアへの書き込みに失敗しました")
)

// TodayService 当日オペレーションの業務インタフェース。
// 確定・見送り・照合の一連の流れは操作単位で直列に実行され、
// 誤って再実行されても二重登録しないこと（find-or-create と全置換）。
type TodayService interface {
	TodayShops(ctx context.Context) ([]dto.TodayShopResponse, error)
	SelectShop(ctx context.Context, req *dto.SelectShopRequest)
	BoardView() board.View
	SetDefaults(req *dto.DefaultsRequest)
	AddOrder(req *dto.AddOrderRequest) board.LocalOrder
	Stage(ctx context.Context, req *dto.StageRequest) (board.LocalOrder, error)
	Unstage(req *dto.UnstageRequest)
	Confirm(ctx context.Context, req *dto.ConfirmRequest) (*dto.ConfirmResponse, error)
	Reject(ctx context.Context, req *dto.RejectRequest) (*dto.RejectResponse, error)
}

type todayService struct {
	cfg    *config.Config
	repo   *repository.Repository
	board  *board.Board
	poller *ShopPoller
	logger *zap.Logger
	loc    *time.Location
}

// NewTodayService TodayService を作る
func NewTodayService(
	cfg *config.Config,
	repo *repository.Repository,
	b *board.Board,
	poller *ShopPoller,
	logger *zap.Logger,
) TodayService {
	loc, err := time.LoadLocation(cfg.Database.Timezone)
	if err != nil {
		logger.Warn("タイムゾーンの読み込みに失敗、ローカル時刻で継続",
			zap.String("timezone", cfg.Database.Timezone), zap.Error(err))
		loc = time.Local
	}
	return &todayService{
		cfg:    cfg,
		repo:   repo,
		board:  b,
		poller: poller,
		logger: logger,
		loc:    loc,
	}
}

// ────────────────────── 当日店舗一覧 ──────────────────────

// TodayShops 当日店舗一覧を返す。
// 一覧自体はポーラーのスナップショットから、連絡ステータスはボードの
// ローカル値が優先される（セッション中はローカルが勝つ）。
func (s *todayService) TodayShops(ctx context.Context) ([]dto.TodayShopResponse, error) {
	shops, err := s.poller.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	for i := range shops {
		if st := s.board.Status(shops[i].ShopID); st != model.ContactNone {
			shops[i].ContactStatus = st
		}
	}
	return shops, nil
}

// ────────────────────── 店舗選択 ──────────────────────

// SelectShop 店舗を選択中にし、発生したステータス遷移をリモートへ書き戻す。
// 書き戻しはベストエフォートであり、失敗しても選択操作は成功扱いとする。
func (s *todayService) SelectShop(ctx context.Context, req *dto.SelectShopRequest) {
	changes := s.board.SelectShop(req.ShopID, req.Force)
	for _, ch := range changes {
		s.writeContactStatus(ctx, ch.ShopID, ch.Status)
	}
}

// BoardView ボードのスナップショットを返す
func (s *todayService) BoardView() board.View {
	return s.board.Snapshot()
}

// SetDefaults オーダー自動作成の既定値を更新する
func (s *todayService) SetDefaults(req *dto.DefaultsRequest) {
	s.board.SetDefaults(board.Defaults{
		Headcount: req.Headcount,
		StartTime: req.StartTime,
	})
}

// AddOrder ローカルオーダーを明示的に追加する
func (s *todayService) AddOrder(req *dto.AddOrderRequest) board.LocalOrder {
	d := s.board.Defaults()
	headcount := req.Headcount
	if headcount == 0 {
		headcount = d.Headcount
	}
	startTime := req.StartTime
	if startTime == "" {
		startTime = d.StartTime
	}
	return s.board.AddOrder(req.ShopID, headcount, startTime)
}

// ────────────────────── 仮置き ──────────────────────

// Stage キャストをオーダーへ仮置きする。
// NG はここ（仮置き時）と確定時の二箇所で検査する。
func (s *todayService) Stage(ctx context.Context, req *dto.StageRequest) (board.LocalOrder, error) {
	blocked, err := s.repo.NG.Exists(ctx, req.CastID, req.ShopID)
	if err != nil {
		s.logger.Error("NG 確認に失敗", zap.Error(err))
		return board.LocalOrder{}, err
	}
	if blocked {
		return board.LocalOrder{}, ErrNGBlocked
	}

	return s.board.Stage(req.ShopID, req.CastID, req.OrderLocalID)
}

// Unstage 仮置きを取り消す
func (s *todayService) Unstage(req *dto.UnstageRequest) {
	s.board.Unstage(req.ShopID, req.CastID)
}

// ────────────────────── 照合（find-or-create） ──────────────────────

// ensureRemoteOrder ローカルオーダーのリモート ID を解決する。
//  1. 解決済みならその ID を返す（メモ化、再作成しない）
//  2. 店舗×営業日でリモートを検索し、ちょうど 1 件ならそれを採用
//  3. 作成が許可されていれば、リクエストレコードを確保した上で
//     連番 = 既存最大 + 1（既定 1）で新規作成
//  4. 許可がなく一意に決まらない場合は ErrOrderMissing
//
// 一覧取得の失敗は「一致なし」として扱い、作成経路へ落とす（§照合エラー）。
func (s *todayService) ensureRemoteOrder(ctx context.Context, shopID string, o board.LocalOrder, allowCreate bool) (string, error) {
	if o.RemoteID != nil {
		return *o.RemoteID, nil
	}

	date := s.board.BusinessDate()

	remote, err := s.repo.Order.ListByShopAndDate(ctx, shopID, date)
	if err != nil {
		s.logger.Warn("リモートオーダー一覧の取得に失敗、一致なしとして継続",
			zap.String("shop_id", shopID), zap.Error(err))
		remote = nil
	}

	if len(remote) == 1 {
		if err := s.board.SetRemoteID(shopID, o.LocalID, remote[0].OrderID); err != nil {
			return "", err
		}
		return remote[0].OrderID, nil
	}

	if !allowCreate {
		return "", ErrOrderMissing
	}

	// 自動作成されたオーダーをリモートへ起こす場合、既定値の引き継ぎが
	// 無効なら明示入力を要求して中断する（設定で切り替え）
	if o.AutoCreated && !s.cfg.Feature.AutoOrderInheritDefaults {
		return "", ErrOrderDetailsRequired
	}

	reqRecord, err := s.ensureShopRequest(ctx, shopID, date, o.Headcount)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRemoteWrite, err)
	}

	maxSeq := 0
	for _, r := range remote {
		if r.SequenceNo > maxSeq {
			maxSeq = r.SequenceNo
		}
	}

	order := &model.CastOrder{
		RequestID:    reqRecord.RequestID,
		ShopID:       shopID,
		BusinessDate: date,
		SequenceNo:   maxSeq + 1,
		Label:        o.Label,
		Headcount:    o.Headcount,
		StartTime:    o.StartTime,
		Status:       model.OrderOpen,
	}
	if err := s.repo.Order.Create(ctx, order); err != nil {
		s.logger.Error("リモートオーダーの作成に失敗", zap.String("shop_id", shopID), zap.Error(err))
		return "", fmt.Errorf("%w: %v", ErrRemoteWrite, err)
	}

	if err := s.board.SetRemoteID(shopID, o.LocalID, order.OrderID); err != nil {
		return "", err
	}

	s.logger.Info("リモートオーダーを作成",
		zap.String("shop_id", shopID),
		zap.String("order_id", order.OrderID),
		zap.Int("sequence_no", order.SequenceNo))

	return order.OrderID, nil
}

// ensureShopRequest 店舗×営業日のリクエストレコードを確保する（無ければ作成）
func (s *todayService) ensureShopRequest(ctx context.Context, shopID, date string, headcount int) (*model.ShopRequest, error) {
	reqRecord, err := s.repo.Request.FindByShopAndDate(ctx, shopID, date)
	if err == nil {
		return reqRecord, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	created := &model.ShopRequest{
		ShopID:       shopID,
		BusinessDate: date,
		Headcount:    headcount,
	}
	if err := s.repo.Request.Create(ctx, created); err != nil {
		return nil, err
	}
	return created, nil
}

// ────────────────────── 確定 ──────────────────────

// Confirm 選択中店舗のオーダーを確定する。
// 前提条件（選択中・仮置きあり・NG なし）をリモート呼び出しの前に検査し、
// 割当の全置換に成功した場合のみステータスを confirmed にして仮置きを破棄する。
// リモート書き込みに失敗した場合、仮置きは保持される（再実行可能）。
func (s *todayService) Confirm(ctx context.Context, req *dto.ConfirmRequest) (*dto.ConfirmResponse, error) {
	if s.board.ActiveShop() != req.ShopID {
		return nil, ErrShopNotActive
	}

	target, err := s.pickOrder(req.ShopID, req.OrderLocalID)
	if err != nil {
		return nil, err
	}

	if len(target.Staged) == 0 {
		return nil, ErrNothingStaged
	}

	// NG は仮置き時に加えて確定時にも再検査する（二重の強制点）
	for _, castID := range target.Staged {
		blocked, err := s.repo.NG.Exists(ctx, castID, req.ShopID)
		if err != nil {
			s.logger.Error("NG 確認に失敗", zap.Error(err))
			return nil, err
		}
		if blocked {
			return nil, ErrNGBlocked
		}
	}

	remoteID, err := s.ensureRemoteOrder(ctx, req.ShopID, target, req.AllowCreate)
	if err != nil {
		return nil, err
	}

	assignments := make([]model.OrderAssignment, 0, len(target.Staged))
	for i, castID := range target.Staged {
		assignments = append(assignments, model.OrderAssignment{
			OrderID:      remoteID,
			CastID:       castID,
			AssignedFrom: s.assignedFrom(target.StartTime),
			Priority:     i + 1,
		})
	}

	if err := s.repo.Order.ReplaceAssignments(ctx, remoteID, assignments); err != nil {
		s.logger.Error("割当の全置換に失敗、仮置きは保持",
			zap.String("order_id", remoteID), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrRemoteWrite, err)
	}

	if err := s.repo.Order.UpdateStatus(ctx, remoteID, model.OrderConfirmed); err != nil {
		s.logger.Error("オーダーステータス更新に失敗、仮置きは保持",
			zap.String("order_id", remoteID), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrRemoteWrite, err)
	}

	// 割当本体の書き込みが成功した後の処理。ステータス書き戻しはベストエフォート。
	s.board.SetStatus(req.ShopID, model.ContactConfirmed)
	s.writeContactStatus(ctx, req.ShopID, model.ContactConfirmed)
	s.board.ClearShop(req.ShopID)

	s.logger.Info("オーダー確定",
		zap.String("shop_id", req.ShopID),
		zap.String("order_id", remoteID),
		zap.Int("assigned", len(assignments)))

	return &dto.ConfirmResponse{
		RemoteOrderID: remoteID,
		Assigned:      len(assignments),
	}, nil
}

// ────────────────────── 見送り ──────────────────────

// Reject 選択中店舗を見送りにする。
// リモートオーダーが照合できれば割当を空集合に置換して取消にする。
// 照合できなければリモートには何もせず、ローカルのステータスだけを
// rejected にして仮置きを破棄する（取り消す対象が無い）。
func (s *todayService) Reject(ctx context.Context, req *dto.RejectRequest) (*dto.RejectResponse, error) {
	if s.board.ActiveShop() != req.ShopID {
		return nil, ErrShopNotActive
	}

	orders := s.board.OrdersFor(req.ShopID)

	var remoteID string
	if len(orders) > 0 {
		target, err := s.pickOrder(req.ShopID, req.OrderLocalID)
		if err != nil {
			return nil, err
		}

		id, err := s.ensureRemoteOrder(ctx, req.ShopID, target, false)
		switch {
		case err == nil:
			if err := s.repo.Order.ReplaceAssignments(ctx, id, nil); err != nil {
				s.logger.Error("割当の取消に失敗、仮置きは保持",
					zap.String("order_id", id), zap.Error(err))
				return nil, fmt.Errorf("%w: %v", ErrRemoteWrite, err)
			}
			if err := s.repo.Order.UpdateStatus(ctx, id, model.OrderCanceled); err != nil {
				s.logger.Error("オーダー取消に失敗、仮置きは保持",
					zap.String("order_id", id), zap.Error(err))
				return nil, fmt.Errorf("%w: %v", ErrRemoteWrite, err)
			}
			remoteID = id
		case errors.Is(err, ErrOrderMissing):
			// 取り消すべきリモートオーダーが無い。ローカルの後始末だけ行う。
		default:
			return nil, err
		}
	}

	s.board.SetStatus(req.ShopID, model.ContactRejected)
	s.writeContactStatus(ctx, req.ShopID, model.ContactRejected)
	s.board.ClearShop(req.ShopID)

	s.logger.Info("オーダー見送り",
		zap.String("shop_id", req.ShopID),
		zap.String("order_id", remoteID))

	return &dto.RejectResponse{RemoteOrderID: remoteID}, nil
}

// ────────────────────── 内部ヘルパ ──────────────────────

// pickOrder 対象オーダーを決める。複数ある場合は明示指定を要求する。
func (s *todayService) pickOrder(shopID string, orderLocalID int) (board.LocalOrder, error) {
	orders := s.board.OrdersFor(shopID)

	switch {
	case orderLocalID != 0:
		o, ok := s.board.OrderByLocalID(shopID, orderLocalID)
		if !ok {
			return board.LocalOrder{}, board.ErrOrderNotFound
		}
		return o, nil
	case len(orders) == 0:
		return board.LocalOrder{}, ErrNothingStaged
	case len(orders) == 1:
		return orders[0], nil
	default:
		return board.LocalOrder{}, board.ErrOrderChoiceRequired
	}
}

// assignedFrom 営業日 + 開始時刻から割当開始時刻を組み立てる
func (s *todayService) assignedFrom(startTime string) time.Time {
	t, err := time.ParseInLocation("2006-01-02 15:04", s.board.BusinessDate()+" "+startTime, s.loc)
	if err != nil {
		// 開始時刻が壊れている場合は営業日の 0 時で代用する
		d, _ := time.ParseInLocation("2006-01-02", s.board.BusinessDate(), s.loc)
		return d
	}
	return t
}

// writeContactStatus 連絡ステータスをリモートリクエストへ書き戻す。
// リクエストレコードが無ければ黙ってスキップ、書き込み失敗はログのみ。
// ステータスは注釈であり、割当データ本体を巻き戻す理由にはならない。
func (s *todayService) writeContactStatus(ctx context.Context, shopID string, status model.ContactStatus) {
	reqRecord, err := s.repo.Request.FindByShopAndDate(ctx, shopID, s.board.BusinessDate())
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("リクエストレコードの取得に失敗、ステータス書き戻しをスキップ",
				zap.String("shop_id", shopID), zap.Error(err))
		}
		return
	}

	if err := s.repo.Request.UpdateContactStatus(ctx, reqRecord.RequestID, status); err != nil {
		s.logger.Warn("連絡ステータスの書き戻しに失敗",
			zap.String("shop_id", shopID),
			zap.String("status", string(status)),
			zap.Error(err))
	}
}
