// Package board 当日オペレーターセッションのボード状態。
// ローカルオーダーの台帳・仮置き・連絡ステータスのオーバーレイ・選択中店舗を
// 1 つのミューテックス配下で保持する。ここにある状態はセッション限りであり、
// リモートへ反映済みのもの以外は永続化しない。
package board

import (
	"errors"
	"fmt"
	"sync"

	"github.com/inkproduction1400-bot/tiara-dashboard-app-sub000/internal/model"
)

// ── ボードエラー ──

var (
	// ErrOrderChoiceRequired 複数オーダーがあり、どれを対象にするか明示が必要
	ErrOrderChoiceRequired = errors.New("対象オーダーを指定してください")
	// ErrOrderNotFound 指定されたローカルオーダーが存在しない
	ErrOrderNotFound = errors.New("指定されたオーダーが存在しません")
	// ErrRemoteIDConflict 解決済みリモート ID の上書きは許可しない
	ErrRemoteIDConflict = errors.New("リモートオーダー ID は一度しか設定できません")
)

// Defaults オーダー自動作成時の既定値
type Defaults struct {
	Headcount int
	StartTime string // HH:MM
}

// LocalOrder セッション内のローカルオーダー。
// LocalID はセッション限りの連番であり、リモートオーダー ID とは別物。
// RemoteID は初回照合の成功時に一度だけ設定され、以後上書きされない。
type LocalOrder struct {
	LocalID     int      `json:"local_id"`
	Label       string   `json:"label"`
	Headcount   int      `json:"headcount"`
	StartTime   string   `json:"start_time"`
	RemoteID    *string  `json:"remote_id,omitempty"`
	Staged      []string `json:"staged"`       // 仮置き順のキャスト ID
	AutoCreated bool     `json:"auto_created"` // 仮置き時に既定値から自動作成されたか
}

// stagedContains 仮置き済みかどうか
func (o *LocalOrder) stagedContains(castID string) bool {
	for _, id := range o.Staged {
		if id == castID {
			return true
		}
	}
	return false
}

// StatusChange SelectShop が行ったステータス遷移。
// リモートリクエストへのベストエフォート書き戻しのために呼び出し側へ返す。
type StatusChange struct {
	ShopID string
	Status model.ContactStatus
}

// Board 当日セッションボード
type Board struct {
	mu           sync.Mutex
	businessDate string
	defaults     Defaults
	activeShopID string
	nextLocalID  int
	orders       map[string][]*LocalOrder       // shopID → ローカルオーダー列
	statuses     map[string]model.ContactStatus // shopID → 連絡ステータス
}

// New 営業日と既定値を指定してボードを作る
func New(businessDate string, d Defaults) *Board {
	return &Board{
		businessDate: businessDate,
		defaults:     d,
		orders:       make(map[string][]*LocalOrder),
		statuses:     make(map[string]model.ContactStatus),
	}
}

// BusinessDate ボードの営業日（YYYY-MM-DD）
func (b *Board) BusinessDate() string {
	return b.businessDate
}

// ── 既定値 ──

// SetDefaults オーダー自動作成の既定値を更新する
func (b *Board) SetDefaults(d Defaults) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.defaults = d
}

// Defaults 現在の既定値
func (b *Board) Defaults() Defaults {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.defaults
}

// ── 店舗選択と連絡ステータス遷移 ──

// SelectShop 店舗を選択中にする。shopID が空文字なら選択解除のみ行う。
// 遷移規則:
//   - 直前の選択店舗が editing のままなら未接触へ戻す（終端状態は維持）
//   - 新しい選択店舗を editing にする。ただし confirmed / rejected は
//     force 指定がない限り上書きしない
//
// 実施した遷移を返すので、呼び出し側がリモートへ書き戻す。
func (b *Board) SelectShop(shopID string, force bool) []StatusChange {
	b.mu.Lock()
	defer b.mu.Unlock()

	var changes []StatusChange

	prev := b.activeShopID
	if prev != "" && prev != shopID && b.statuses[prev] == model.ContactEditing {
		b.statuses[prev] = model.ContactNone
		changes = append(changes, StatusChange{ShopID: prev, Status: model.ContactNone})
	}

	b.activeShopID = shopID

	if shopID != "" {
		cur := b.statuses[shopID]
		if cur != model.ContactEditing && (!cur.Terminal() || force) {
			b.statuses[shopID] = model.ContactEditing
			changes = append(changes, StatusChange{ShopID: shopID, Status: model.ContactEditing})
		}
	}

	return changes
}

// ActiveShop 選択中店舗の ID（未選択なら空文字）
func (b *Board) ActiveShop() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.activeShopID
}

// SetStatus 連絡ステータスの強制遷移（確定・見送り用の単一窓口）。
// ステータスを直接書き換えてよいのはこのメソッドと SelectShop だけ。
func (b *Board) SetStatus(shopID string, st model.ContactStatus) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.statuses[shopID] = st
}

// Status 店舗の現在ステータス
func (b *Board) Status(shopID string) model.ContactStatus {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.statuses[shopID]
}

// ── オーダー台帳 ──

// OrderLabel 人数と開始時刻から表示ラベルを生成する（例: 「2名 21:00〜」）
func OrderLabel(headcount int, startTime string) string {
	return fmt.Sprintf("%d名 %s〜", headcount, startTime)
}

// AddOrder 店舗にローカルオーダーを追加する
func (b *Board) AddOrder(shopID string, headcount int, startTime string) LocalOrder {
	b.mu.Lock()
	defer b.mu.Unlock()
	return *b.addOrderLocked(shopID, headcount, startTime)
}

func (b *Board) addOrderLocked(shopID string, headcount int, startTime string) *LocalOrder {
	b.nextLocalID++
	o := &LocalOrder{
		LocalID:   b.nextLocalID,
		Label:     OrderLabel(headcount, startTime),
		Headcount: headcount,
		StartTime: startTime,
	}
	b.orders[shopID] = append(b.orders[shopID], o)
	return o
}

// Stage キャストをオーダーへ仮置きする。
//   - オーダーが 0 件: 既定値でオーダーを自動作成して仮置き
//   - 1 件: そのオーダーへ仮置き
//   - 複数件: orderLocalID の指定がなければ ErrOrderChoiceRequired
//
// 同一オーダーへの再仮置きは吸収する（冪等）。
func (b *Board) Stage(shopID, castID string, orderLocalID int) (LocalOrder, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	orders := b.orders[shopID]

	var target *LocalOrder
	switch {
	case orderLocalID != 0:
		for _, o := range orders {
			if o.LocalID == orderLocalID {
				target = o
				break
			}
		}
		if target == nil {
			return LocalOrder{}, ErrOrderNotFound
		}
	case len(orders) == 0:
		target = b.addOrderLocked(shopID, b.defaults.Headcount, b.defaults.StartTime)
		target.AutoCreated = true
	case len(orders) == 1:
		target = orders[0]
	default:
		return LocalOrder{}, ErrOrderChoiceRequired
	}

	if !target.stagedContains(castID) {
		target.Staged = append(target.Staged, castID)
	}
	return *target, nil
}

// Unstage 仮置きを取り消す（どのオーダーからも外す）
func (b *Board) Unstage(shopID, castID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, o := range b.orders[shopID] {
		for i, id := range o.Staged {
			if id == castID {
				o.Staged = append(o.Staged[:i], o.Staged[i+1:]...)
				break
			}
		}
	}
}

// OrdersFor 店舗のローカルオーダー一覧（コピー）
func (b *Board) OrdersFor(shopID string) []LocalOrder {
	b.mu.Lock()
	defer b.mu.Unlock()

	orders := b.orders[shopID]
	out := make([]LocalOrder, 0, len(orders))
	for _, o := range orders {
		cp := *o
		cp.Staged = append([]string(nil), o.Staged...)
		out = append(out, cp)
	}
	return out
}

// OrderByLocalID ローカル ID でオーダーを引く（コピー）
func (b *Board) OrderByLocalID(shopID string, localID int) (LocalOrder, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, o := range b.orders[shopID] {
		if o.LocalID == localID {
			cp := *o
			cp.Staged = append([]string(nil), o.Staged...)
			return cp, true
		}
	}
	return LocalOrder{}, false
}

// SetRemoteID 照合済みリモートオーダー ID を記録する。
// 設定は一度きり。異なる ID での上書きは ErrRemoteIDConflict。
func (b *Board) SetRemoteID(shopID string, localID int, remoteID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, o := range b.orders[shopID] {
		if o.LocalID != localID {
			continue
		}
		if o.RemoteID != nil {
			if *o.RemoteID != remoteID {
				return ErrRemoteIDConflict
			}
			return nil
		}
		id := remoteID
		o.RemoteID = &id
		return nil
	}
	return ErrOrderNotFound
}

// StagedSet 全店舗を通した仮置き済みキャスト ID の集合
func (b *Board) StagedSet() map[string]bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	set := make(map[string]bool)
	for _, orders := range b.orders {
		for _, o := range orders {
			for _, id := range o.Staged {
				set[id] = true
			}
		}
	}
	return set
}

// ClearShop 店舗のローカルオーダーと仮置きを破棄する（確定・見送り後）
func (b *Board) ClearShop(shopID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.orders, shopID)
}

// Prune 当日リストから消えた店舗の状態を破棄する。
// alive に含まれる店舗のオーダーはポーリングをまたいで維持される。
func (b *Board) Prune(alive map[string]bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for shopID := range b.orders {
		if !alive[shopID] {
			delete(b.orders, shopID)
		}
	}
	for shopID := range b.statuses {
		if !alive[shopID] {
			delete(b.statuses, shopID)
		}
	}
	if b.activeShopID != "" && !alive[b.activeShopID] {
		b.activeShopID = ""
	}
}

// View API へ返すボード全体のスナップショット
type View struct {
	BusinessDate string                         `json:"business_date"`
	ActiveShopID string                         `json:"active_shop_id,omitempty"`
	Defaults     Defaults                       `json:"defaults"`
	Orders       map[string][]LocalOrder        `json:"orders"`
	Statuses     map[string]model.ContactStatus `json:"statuses"`
}

// Snapshot ボードの読み取り専用コピーを返す
func (b *Board) Snapshot() View {
	b.mu.Lock()
	defer b.mu.Unlock()

	orders := make(map[string][]LocalOrder, len(b.orders))
	for shopID, list := range b.orders {
		cp := make([]LocalOrder, 0, len(list))
		for _, o := range list {
			c := *o
			c.Staged = append([]string(nil), o.Staged...)
			cp = append(cp, c)
		}
		orders[shopID] = cp
	}

	statuses := make(map[string]model.ContactStatus, len(b.statuses))
	for k, v := range b.statuses {
		statuses[k] = v
	}

	return View{
		BusinessDate: b.businessDate,
		ActiveShopID: b.activeShopID,
		Defaults:     b.defaults,
		Orders:       orders,
		Statuses:     statuses,
	}
}
