package dto

import (
	"strings"

	"github.com/inkproduction1400-bot/tiara-dashboard-app-sub000/internal/matching"
	"github.com/inkproduction1400-bot/tiara-dashboard-app-sub000/internal/model"
)

// ── キャスト一覧 ──

// CastListRequest キャスト一覧のクエリパラメータ。
// バラバラのトグルをここで 1 つの matching.ViewQuery に正規化する。
type CastListRequest struct {
	Tab       string `form:"tab"        binding:"omitempty,oneof=today all matched unassigned"`
	Keyword   string `form:"keyword"    binding:"omitempty,max=50"`
	ShopID    string `form:"shop_id"    binding:"omitempty,uuid"`
	Genres    string `form:"genres"     binding:"omitempty,max=200"` // カンマ区切り
	AgeBucket string `form:"age_bucket" binding:"omitempty,oneof=under20 20-24 25-29 30over"`
	Sort      string `form:"sort"       binding:"omitempty,oneof=wage_desc age_asc age_desc"`
	NumAsc    bool   `form:"num_asc"`
	NumDesc   bool   `form:"num_desc"`
	Alpha     bool   `form:"alpha"`
	Page      int    `form:"page"       binding:"omitempty,min=1"`
	PageSize  int    `form:"page_size"  binding:"omitempty,oneof=20 50 100"`
}

// ToViewQuery リクエストを不変のビュークエリへ変換する。
// 店舗の解決（ShopID → *model.Shop）は呼び出し側の責務。
func (r *CastListRequest) ToViewQuery(shop *model.Shop) matching.ViewQuery {
	tab := matching.Tab(r.Tab)
	if tab == "" {
		tab = matching.TabToday
	}

	var genres []string
	for _, g := range strings.Split(r.Genres, ",") {
		if g = strings.TrimSpace(g); g != "" {
			genres = append(genres, g)
		}
	}

	pageSize := r.PageSize
	if pageSize == 0 {
		pageSize = matching.DefaultPageSize
	}

	return matching.ViewQuery{
		Tab:       tab,
		Keyword:   r.Keyword,
		Shop:      shop,
		Genres:    genres,
		AgeBucket: matching.AgeBucket(r.AgeBucket),
		Primary:   matching.PrimarySort(r.Sort),
		NumAsc:    r.NumAsc,
		NumDesc:   r.NumDesc,
		Alpha:     r.Alpha,
		Page:      r.Page,
		PageSize:  pageSize,
	}
}

// CastResponse キャスト一覧の 1 行
type CastResponse struct {
	CastID        string   `json:"cast_id"`
	Code          string   `json:"code"`
	Name          string   `json:"name"`
	Age           int      `json:"age"`
	DesiredHourly int      `json:"desired_hourly"`
	DrinkLevel    string   `json:"drink_level"`
	Genres        []string `json:"genres"`
	IsExclusive   bool     `json:"is_exclusive"`
	IsNominated   bool     `json:"is_nominated"`
	NGShopIDs     []string `json:"ng_shop_ids,omitempty"`
}

// NewCastResponse model.Cast から変換する
func NewCastResponse(c *model.Cast) CastResponse {
	return CastResponse{
		CastID:        c.CastID,
		Code:          c.Code,
		Name:          c.Name,
		Age:           c.Age,
		DesiredHourly: c.DesiredHourly,
		DrinkLevel:    string(c.DrinkLevel),
		Genres:        []string(c.Genres),
		IsExclusive:   c.IsExclusive,
		IsNominated:   c.IsNominated,
		NGShopIDs:     c.NGShopIDs,
	}
}
