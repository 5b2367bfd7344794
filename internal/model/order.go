package model

import "time"

// ── リクエスト／オーダーステータス ──

// OrderStatus リモートオーダーの状態
type OrderStatus string

const (
	OrderOpen      OrderStatus = "open"      // 募集中
	OrderConfirmed OrderStatus = "confirmed" // 確定
	OrderCanceled  OrderStatus = "canceled"  // 取消
)

// ShopRequest 店舗×営業日のリクエストレコード — shop_requests
// 店舗 ID とリクエスト ID は別物。リクエストが無い営業日の店舗も存在しうるため、
// 両者を同一視してはならない。
type ShopRequest struct {
	RequestID       string        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"request_id"`
	ShopID          string        `gorm:"type:uuid;not null"                             json:"shop_id"`
	BusinessDate    string        `gorm:"type:date;not null"                             json:"business_date"`
	Headcount       int           `gorm:"not null;default:1"                             json:"headcount"`
	RequiresDrinker bool          `gorm:"not null;default:false"                         json:"requires_drinker"`
	ContactStatus   ContactStatus `gorm:"type:varchar(10);not null;default:''"           json:"contact_status"`
	BaseModel

	// 関連
	Shop *Shop `gorm:"foreignKey:ShopID;references:ShopID" json:"shop,omitempty"`
}

// TableName テーブル名を指定する
func (ShopRequest) TableName() string { return "shop_requests" }

// CastOrder リモートオーダー — cast_orders
// 1 店舗 × 1 営業日に複数存在しうる（開始時刻違いのシフトなど）。
type CastOrder struct {
	OrderID      string      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"order_id"`
	RequestID    string      `gorm:"type:uuid;not null"                             json:"request_id"`
	ShopID       string      `gorm:"type:uuid;not null"                             json:"shop_id"`
	BusinessDate string      `gorm:"type:date;not null"                             json:"business_date"`
	SequenceNo   int         `gorm:"not null;default:1"                             json:"sequence_no"`
	Label        string      `gorm:"type:varchar(50);not null;default:''"           json:"label"`
	Headcount    int         `gorm:"not null;default:1"                             json:"headcount"`
	StartTime    string      `gorm:"type:varchar(5);not null;default:'21:00'"       json:"start_time"`
	Status       OrderStatus `gorm:"type:varchar(10);not null;default:'open'"       json:"status"`
	BaseModel
}

// TableName テーブル名を指定する
func (CastOrder) TableName() string { return "cast_orders" }

// OrderAssignment オーダーへのキャスト割当 — order_assignments
// priority は表示順のみに使い、競合解決には使わない。
type OrderAssignment struct {
	AssignmentID string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"assignment_id"`
	OrderID      string     `gorm:"type:uuid;not null"                             json:"order_id"`
	CastID       string     `gorm:"type:uuid;not null"                             json:"cast_id"`
	AssignedFrom time.Time  `gorm:"not null"                                       json:"assigned_from"`
	AssignedTo   *time.Time `json:"assigned_to,omitempty"`
	Priority     int        `gorm:"not null;default:0"                             json:"priority"`
	CreatedAt    time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

// TableName テーブル名を指定する
func (OrderAssignment) TableName() string { return "order_assignments" }
