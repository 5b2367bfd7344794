package model

// ── 飲酒レベル ──

// DrinkLevel キャストの飲酒可否レベル
type DrinkLevel string

const (
	DrinkRefuse  DrinkLevel = "refuse"  // 飲めない・断る
	DrinkLight   DrinkLevel = "light"   // 弱い
	DrinkNormal  DrinkLevel = "normal"  // 普通
	DrinkStrong  DrinkLevel = "strong"  // 強い
	DrinkUnknown DrinkLevel = "unknown" // 未確認
)

// CanDrink 「飲める」扱いになるか（light/normal/strong のみ true）
func (d DrinkLevel) CanDrink() bool {
	switch d {
	case DrinkLight, DrinkNormal, DrinkStrong:
		return true
	default:
		return false
	}
}

// Cast キャストテーブル — casts
type Cast struct {
	CastID        string      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"cast_id"`
	Code          string      `gorm:"type:varchar(20);not null"                      json:"code"`
	Name          string      `gorm:"type:varchar(100);not null"                     json:"name"`
	LegacyID      *string     `gorm:"type:varchar(20)"                               json:"legacy_id,omitempty"`
	Age           int         `gorm:"not null;default:0"                             json:"age"`
	DesiredHourly int         `gorm:"not null;default:0"                             json:"desired_hourly"`
	DrinkLevel    DrinkLevel  `gorm:"type:varchar(10);not null;default:'unknown'"    json:"drink_level"`
	Genres        StringArray `gorm:"type:text[];not null;default:'{}'"              json:"genres"`
	IsExclusive   bool        `gorm:"not null;default:false"                         json:"is_exclusive"`
	IsNominated   bool        `gorm:"not null;default:false"                         json:"is_nominated"`
	BaseModel

	// NGShopIDs このキャストを出せない店舗 ID の集合。
	// cast_shop_ng から ListByCast で読み込まれ、カラムとしては持たない。
	NGShopIDs []string `gorm:"-" json:"ng_shop_ids,omitempty"`
}

// TableName テーブル名を指定する
func (Cast) TableName() string { return "casts" }

// IsNGShop 指定店舗が NG 対象かを返す
func (c *Cast) IsNGShop(shopID string) bool {
	for _, id := range c.NGShopIDs {
		if id == shopID {
			return true
		}
	}
	return false
}
