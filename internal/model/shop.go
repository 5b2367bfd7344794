package model

// ── 連絡ステータス ──

// ContactStatus 店舗ごとの当日交渉ステータス
type ContactStatus string

const (
	ContactNone      ContactStatus = ""          // 未接触
	ContactEditing   ContactStatus = "editing"   // 調整中
	ContactConfirmed ContactStatus = "confirmed" // 確定
	ContactRejected  ContactStatus = "rejected"  // 見送り
)

// Terminal confirmed / rejected は当日中の終端状態
func (s ContactStatus) Terminal() bool {
	return s == ContactConfirmed || s == ContactRejected
}

// Shop 店舗テーブル — shops
type Shop struct {
	ShopID          string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"shop_id"`
	Code            string  `gorm:"type:varchar(20);not null"                      json:"code"`
	Name            string  `gorm:"type:varchar(100);not null"                     json:"name"`
	MinHourly       *int   `json:"min_hourly,omitempty"`
	MaxHourly       *int   `json:"max_hourly,omitempty"`
	MinAge          *int   `json:"min_age,omitempty"`
	MaxAge          *int   `json:"max_age,omitempty"`
	RequiresDrinker bool   `gorm:"not null;default:false"                         json:"requires_drinker"`
	Genre           string `gorm:"type:varchar(30);not null;default:''"           json:"genre"`
	ContactMethod   string `gorm:"type:varchar(30);not null;default:''"           json:"contact_method"`
	BaseModel
}

// TableName テーブル名を指定する
func (Shop) TableName() string { return "shops" }

// CastShopNG キャスト×店舗の相互 NG — cast_shop_ng
// どちら起点の NG でも 1 行で表現する（双方向ブロック）。
type CastShopNG struct {
	NGID   string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"ng_id"`
	CastID string `gorm:"type:uuid;not null"                             json:"cast_id"`
	ShopID string `gorm:"type:uuid;not null"                             json:"shop_id"`
	Note   string `gorm:"type:varchar(255);not null;default:''"          json:"note"`
	BaseModel
}

// TableName テーブル名を指定する
func (CastShopNG) TableName() string { return "cast_shop_ng" }

// RosterEntry 当日出勤ロスター — roster_entries
type RosterEntry struct {
	RosterID     string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"roster_id"`
	CastID       string `gorm:"type:uuid;not null"                             json:"cast_id"`
	BusinessDate string `gorm:"type:date;not null"                             json:"business_date"`
	BaseModel
}

// TableName テーブル名を指定する
func (RosterEntry) TableName() string { return "roster_entries" }
