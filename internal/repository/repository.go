package repository

import "gorm.io/gorm"

// Repository 全 Repository の集約エントリ
type Repository struct {
	Cast    CastRepository
	Shop    ShopRepository
	NG      NGRepository
	Request RequestRepository
	Order   OrderRepository
}

// NewRepository Repository 集約を作る
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Cast:    NewCastRepo(db),
		Shop:    NewShopRepo(db),
		NG:      NewNGRepo(db),
		Request: NewRequestRepo(db),
		Order:   NewOrderRepo(db),
	}
}
