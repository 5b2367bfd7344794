package dto

import (
	"github.com/inkproduction1400-bot/tiara-dashboard-app-sub000/internal/board"
	"github.com/inkproduction1400-bot/tiara-dashboard-app-sub000/internal/model"
)

// ── 当日オペレーション ──

// SelectShopRequest 店舗選択。shop_id が空なら選択解除。
// force=true で confirmed / rejected の店舗を明示的に再オープンする。
type SelectShopRequest struct {
	ShopID string `json:"shop_id" binding:"omitempty,uuid"`
	Force  bool   `json:"force"`
}

// StageRequest キャスト仮置き。order_local_id は複数オーダー時のみ必須。
type StageRequest struct {
	ShopID       string `json:"shop_id"        binding:"required,uuid"`
	CastID       string `json:"cast_id"        binding:"required,uuid"`
	OrderLocalID int    `json:"order_local_id" binding:"omitempty,min=1"`
}

// UnstageRequest 仮置き取り消し
type UnstageRequest struct {
	ShopID string `json:"shop_id" binding:"required,uuid"`
	CastID string `json:"cast_id" binding:"required,uuid"`
}

// AddOrderRequest ローカルオーダー追加。省略時は既定値を使う。
type AddOrderRequest struct {
	ShopID    string `json:"shop_id"    binding:"required,uuid"`
	Headcount int    `json:"headcount"  binding:"omitempty,min=1,max=99"`
	StartTime string `json:"start_time" binding:"omitempty,len=5"`
}

// DefaultsRequest オーダー自動作成の既定値変更
type DefaultsRequest struct {
	Headcount int    `json:"headcount"  binding:"required,min=1,max=99"`
	StartTime string `json:"start_time" binding:"required,len=5"`
}

// ConfirmRequest 確定。order_local_id は複数オーダー時のみ必須。
// allow_create はローカルオーダーが 1 件も照合できない場合の
// リモートオーダー自動作成への明示同意。
type ConfirmRequest struct {
	ShopID       string `json:"shop_id"        binding:"required,uuid"`
	OrderLocalID int    `json:"order_local_id" binding:"omitempty,min=1"`
	AllowCreate  bool   `json:"allow_create"`
}

// RejectRequest 見送り
type RejectRequest struct {
	ShopID       string `json:"shop_id"        binding:"required,uuid"`
	OrderLocalID int    `json:"order_local_id" binding:"omitempty,min=1"`
}

// ── NG ──

// NGRequest NG ペアの追加・削除
type NGRequest struct {
	CastID string `json:"cast_id" binding:"required,uuid"`
	ShopID string `json:"shop_id" binding:"required,uuid"`
	Note   string `json:"note"    binding:"omitempty,max=255"`
}

// ── レスポンス ──

// OrderChoice 曖昧時に提示するオーダー選択肢
type OrderChoice struct {
	LocalID   int    `json:"local_id"`
	Label     string `json:"label"`
	Headcount int    `json:"headcount"`
	StartTime string `json:"start_time"`
	Staged    int    `json:"staged"` // 仮置き済み人数
}

// NewOrderChoices ローカルオーダー一覧から選択肢を作る
func NewOrderChoices(orders []board.LocalOrder) []OrderChoice {
	choices := make([]OrderChoice, 0, len(orders))
	for _, o := range orders {
		choices = append(choices, OrderChoice{
			LocalID:   o.LocalID,
			Label:     o.Label,
			Headcount: o.Headcount,
			StartTime: o.StartTime,
			Staged:    len(o.Staged),
		})
	}
	return choices
}

// TodayShopResponse 当日店舗一覧の 1 行
type TodayShopResponse struct {
	ShopID          string              `json:"shop_id"`
	RequestID       string              `json:"request_id"`
	Code            string              `json:"code"`
	Name            string              `json:"name"`
	Headcount       int                 `json:"headcount"`
	RequiresDrinker bool                `json:"requires_drinker"`
	ContactStatus   model.ContactStatus `json:"contact_status"`
	MinHourly       *int                `json:"min_hourly,omitempty"`
	MaxHourly       *int                `json:"max_hourly,omitempty"`
	MinAge          *int                `json:"min_age,omitempty"`
	MaxAge          *int                `json:"max_age,omitempty"`
	Genre           string              `json:"genre"`
	ContactMethod   string              `json:"contact_method"`
}

// ConfirmResponse 確定結果
type ConfirmResponse struct {
	RemoteOrderID string `json:"remote_order_id"`
	Assigned      int    `json:"assigned"`
}

// RejectResponse 見送り結果
type RejectResponse struct {
	RemoteOrderID string `json:"remote_order_id,omitempty"` // 照合できなかった場合は空
}
